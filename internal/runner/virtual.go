// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"fmt"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRunner executes commands with the embedded mvdan/sh interpreter.
// It needs no shell on the host, which makes it the fallback when the native
// runner reports unavailable.
type VirtualRunner struct{}

// NewVirtualRunner creates a virtual runner.
func NewVirtualRunner() *VirtualRunner {
	return &VirtualRunner{}
}

// Name returns the runner name.
func (r *VirtualRunner) Name() string {
	return "virtual"
}

// Available always reports true; the interpreter is built in.
func (r *VirtualRunner) Available() bool {
	return true
}

// Run parses and interprets the command script.
func (r *VirtualRunner) Run(ctx context.Context, cmd Command) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(cmd.Script), "script")
	if err != nil {
		return &Result{ExitCode: 1, Err: fmt.Errorf("failed to parse script: %w", err)}
	}

	env := append(os.Environ(), cmd.Env...)

	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(nil, cmd.stdout(), cmd.stderr()),
	}
	if cmd.Dir != "" {
		opts = append(opts, interp.Dir(cmd.Dir))
	}

	sh, err := interp.New(opts...)
	if err != nil {
		return &Result{ExitCode: 1, Err: fmt.Errorf("failed to create interpreter: %w", err)}
	}

	if err := sh.Run(ctx, prog); err != nil {
		if status, ok := interp.IsExitStatus(err); ok {
			return &Result{ExitCode: int(status)}
		}
		return &Result{ExitCode: 1, Err: err}
	}

	return &Result{}
}
