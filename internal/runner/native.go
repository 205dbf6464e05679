// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// ErrShellNotFound is returned when no usable shell exists on the host.
var ErrShellNotFound = errors.New("no shell found")

// NativeRunner executes commands with the host system shell.
type NativeRunner struct {
	// Shell overrides shell discovery when set.
	Shell string
}

// NewNativeRunner creates a native runner with default shell discovery.
func NewNativeRunner() *NativeRunner {
	return &NativeRunner{}
}

// Name returns the runner name.
func (r *NativeRunner) Name() string {
	return "native"
}

// Available reports whether a shell could be found.
func (r *NativeRunner) Available() bool {
	_, err := r.shell()
	return err == nil
}

// Run executes the command via `<shell> -c <script>`.
func (r *NativeRunner) Run(ctx context.Context, cmd Command) *Result {
	shell, err := r.shell()
	if err != nil {
		return &Result{ExitCode: 1, Err: err}
	}

	proc := exec.CommandContext(ctx, shell, "-c", cmd.Script)
	if cmd.Dir != "" {
		proc.Dir = cmd.Dir
	}
	proc.Env = append(os.Environ(), cmd.Env...)
	proc.Stdout = cmd.stdout()
	proc.Stderr = cmd.stderr()

	if err := proc.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Result{ExitCode: exitErr.ExitCode()}
		}
		return &Result{ExitCode: 1, Err: fmt.Errorf("failed to execute command: %w", err)}
	}

	return &Result{}
}

// shell resolves the shell to use: the override, $SHELL, bash, then sh.
func (r *NativeRunner) shell() (string, error) {
	if r.Shell != "" {
		return r.Shell, nil
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell, nil
	}
	if bash, err := exec.LookPath("bash"); err == nil {
		return bash, nil
	}
	if sh, err := exec.LookPath("sh"); err == nil {
		return sh, nil
	}
	return "", ErrShellNotFound
}
