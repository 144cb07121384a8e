// Package proc runs the commands a presentation triggers: run blocks whose
// output is captured, demos that take over the terminal, and openers.
package proc

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
)

const DefaultShell = "bash"

// Runner executes commands with the given standard streams. The zero value
// uses the process's own streams and the default shell and opener.
type Runner struct {
	Shell  string
	Opener []string

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Capture runs command with no input and returns its combined output. The
// command gets a pseudo-terminal where the platform offers one so that it
// keeps its colours.
func (r *Runner) Capture(ctx context.Context, dir, command string) (string, error) {
	cmd := captureCommand(ctx, command)
	cmd.Dir = dir
	cmd.Stdin = nil
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// RunShell runs command through the configured shell attached to the
// terminal.
func (r *Runner) RunShell(ctx context.Context, dir, command string, env []string) error {
	return r.Command(ctx, dir, shellArgs(r.shell(), command), env)
}

// Open hands target to the configured opener.
func (r *Runner) Open(ctx context.Context, target string) error {
	opener := r.Opener
	if len(opener) == 0 {
		opener = DefaultOpener()
	}
	argv := append(append([]string{}, opener...), target)
	return r.Command(ctx, "", argv, nil)
}

// Command runs argv attached to the terminal and waits for it. A nil env
// inherits the current environment.
func (r *Runner) Command(ctx context.Context, dir string, argv []string, env []string) error {
	if len(argv) == 0 {
		return errors.New("empty command")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Dir = dir
	cmd.Env = env
	cmd.Stdin = firstReader(r.Stdin, os.Stdin)
	cmd.Stdout = firstWriter(r.Stdout, os.Stdout)
	cmd.Stderr = firstWriter(r.Stderr, os.Stderr)
	return cmd.Run()
}

func (r *Runner) shell() string {
	shell := strings.TrimSpace(r.Shell)
	if shell == "" {
		shell = DefaultShell
	}
	if _, err := exec.LookPath(shell); err != nil {
		return fallbackShell
	}
	return shell
}

func firstReader(r io.Reader, fallback io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return fallback
}

func firstWriter(w io.Writer, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
