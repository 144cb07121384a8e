//go:build windows

package proc

import (
	"context"
	"os/exec"
)

const fallbackShell = "cmd"

// Stop is a no-op; Windows consoles have no job control.
func Stop() error {
	return nil
}

func captureCommand(ctx context.Context, command string) *exec.Cmd {
	return exec.CommandContext(ctx, "cmd", "/C", command)
}

func shellArgs(shell, command string) []string {
	if shell == "cmd" || shell == "cmd.exe" {
		return []string{shell, "/C", command}
	}
	return []string{shell, "-c", command}
}

func DefaultOpener() []string {
	return []string{"rundll32", "url.dll,FileProtocolHandler"}
}
