// Package cmdexec abstracts external command execution for testability.
// Production code uses Commander interface; tests inject FakeCommander from testutil.
package cmdexec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Commander abstracts external command execution.
type Commander interface {
	// Run executes an external command and returns its combined output.
	Run(ctx context.Context, name string, args ...string) ([]byte, error)

	// Output executes an external command and returns its standard output only.
	// Standard error is passed through to the caller's stderr so that messages
	// printed by the command reach the user. A non-nil env replaces the process
	// environment of the command entirely.
	Output(ctx context.Context, env []string, name string, args ...string) ([]byte, error)

	// LookPath reports the resolved path of an executable on PATH.
	LookPath(name string) (string, error)
}

// RealCommander executes actual external commands via os/exec.
type RealCommander struct {
	// Stderr receives the stderr of commands run via Output. Defaults to os.Stderr.
	Stderr io.Writer
}

// Run executes the command using os/exec.CommandContext.
func (c *RealCommander) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Output executes the command and captures stdout only.
func (c *RealCommander) Output(ctx context.Context, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if env != nil {
		cmd.Env = env
	}
	cmd.Stdin = os.Stdin
	cmd.Stderr = c.stderr()
	return cmd.Output()
}

// LookPath resolves name using exec.LookPath.
func (c *RealCommander) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

func (c *RealCommander) stderr() io.Writer {
	if c.Stderr != nil {
		return c.Stderr
	}
	return os.Stderr
}

// ExitError reports a command that ran and exited with a non-zero status.
// Fakes return it to simulate exit codes without spawning processes.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode extracts the exit status from an error returned by a Commander.
// It returns 0 for a nil error and -1 when the command did not run to completion.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var fake *ExitError
	if errors.As(err, &fake) {
		return fake.Code
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
