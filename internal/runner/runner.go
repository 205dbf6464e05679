// SPDX-License-Identifier: MPL-2.0

// Package runner abstracts shell command execution for build steps and hook
// scripts. Two implementations exist: native (the host system shell) and
// virtual (the embedded mvdan/sh interpreter, available everywhere).
package runner

import (
	"context"
	"io"
	"os"

	"pkgsmith/internal/config"
)

type (
	// Command is one shell command to execute, with its working directory,
	// extra environment, and output sinks. The process environment is always
	// inherited; Env entries are appended on top.
	Command struct {
		// Script is the shell command text.
		Script string
		// Dir is the working directory; empty means the process cwd.
		Dir string
		// Env holds extra KEY=VALUE pairs appended to the inherited environment.
		Env []string
		// Stdout and Stderr receive command output; nil defaults to the
		// process's own streams.
		Stdout io.Writer
		Stderr io.Writer
	}

	// Result captures one command's outcome. A non-zero ExitCode with a nil
	// Err means the command ran and failed; Err is set only when the command
	// could not be run at all.
	Result struct {
		ExitCode int
		Err      error
	}

	// Runner executes shell commands.
	Runner interface {
		// Name identifies the runner mode.
		Name() string
		// Available reports whether this runner can execute on the host.
		Available() bool
		// Run executes the command, blocking until it exits.
		Run(ctx context.Context, cmd Command) *Result
	}
)

// Failed reports whether the result represents any failure.
func (r *Result) Failed() bool {
	return r.Err != nil || r.ExitCode != 0
}

// New returns the runner for the given mode.
func New(mode config.RunnerMode) Runner {
	if mode == config.RunnerVirtual {
		return NewVirtualRunner()
	}
	return NewNativeRunner()
}

func (c *Command) stdout() io.Writer {
	if c.Stdout != nil {
		return c.Stdout
	}
	return os.Stdout
}

func (c *Command) stderr() io.Writer {
	if c.Stderr != nil {
		return c.Stderr
	}
	return os.Stderr
}
