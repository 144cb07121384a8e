//go:build !windows

package proc

import (
	"context"
	"os/exec"
	"runtime"

	"golang.org/x/sys/unix"
)

const fallbackShell = "sh"

var scriptCommand = "script"

// Stop suspends the process group as a terminal ^Z would. It returns once
// the group is continued.
func Stop() error {
	return unix.Kill(0, unix.SIGTSTP)
}

func captureCommand(ctx context.Context, command string) *exec.Cmd {
	script, err := exec.LookPath(scriptCommand)
	if err != nil {
		return exec.CommandContext(ctx, "sh", "-c", command)
	}
	if runtime.GOOS == "linux" {
		return exec.CommandContext(ctx, script, "-qc", command, "/dev/null")
	}
	return exec.CommandContext(ctx, script, "-q", "/dev/null", "sh", "-c", command)
}

func shellArgs(shell, command string) []string {
	return []string{shell, "-c", command}
}

func DefaultOpener() []string {
	if runtime.GOOS == "darwin" {
		return []string{"open"}
	}
	return []string{"xdg-open"}
}
