// SPDX-License-Identifier: MPL-2.0

// Package buildsys dispatches the build: either the recipe's explicit command
// list, or an autodetected three-phase protocol (configure, build,
// stage-install) for one of the supported build systems. Detection is a
// closed choice made once per recipe; explicit steps always win.
package buildsys

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pkgsmith/internal/issue"
	"pkgsmith/internal/runner"

	"github.com/charmbracelet/log"
)

// ErrNoBuildSystem is returned when no marker file matches and the recipe
// supplies no explicit steps.
var ErrNoBuildSystem = errors.New("no supported build system detected")

type (
	// Options carries the build inputs shared by every strategy. The prefix
	// applies to the installed path layout; the staging root is where files
	// land during packaging (the classic prefix/DESTDIR separation).
	Options struct {
		// Prefix is the install prefix baked into the built artifacts.
		Prefix string
		// StagingRoot is the DESTDIR the stage-install phase writes into.
		StagingRoot string
		// Parallelism is the job count handed to the build tool.
		Parallelism int
		// Env holds extra KEY=VALUE pairs exposed to every build command,
		// e.g. PKGSMITH_STAGING_ROOT for explicit DESTDIR installs.
		Env []string
		// Runner executes the shell commands.
		Runner runner.Runner
		// Log receives per-command progress; nil uses the default logger.
		Log *log.Logger
	}

	// Strategy executes one build mode against a source root.
	Strategy interface {
		// Name identifies the strategy for logs and errors.
		Name() string
		// Run executes the full build, leaving installed files under the
		// staging root. The first failing command aborts.
		Run(ctx context.Context, sourceRoot string, opts Options) error
	}

	// StepError reports a build command that exited non-zero.
	StepError struct {
		Step     string
		ExitCode int
	}
)

func (e *StepError) Error() string {
	return fmt.Sprintf("build step %q exited with status %d", e.Step, e.ExitCode)
}

// Detect chooses the strategy for a source root. Explicit steps override
// autodetection; otherwise marker files are probed in priority order:
// configure script, CMake project, Meson project.
func Detect(sourceRoot string, steps []string) (Strategy, error) {
	if len(steps) > 0 {
		return &ExplicitSteps{Steps: steps}, nil
	}

	switch {
	case fileExists(filepath.Join(sourceRoot, "configure")):
		return &Autoconf{}, nil
	case fileExists(filepath.Join(sourceRoot, "CMakeLists.txt")):
		return &CMake{}, nil
	case fileExists(filepath.Join(sourceRoot, "meson.build")):
		return &Meson{}, nil
	default:
		return nil, issue.NewErrorContext().
			WithOperation("detect build system").
			WithResource(sourceRoot).
			WithSuggestion("Supply explicit build_steps in the recipe").
			Wrap(ErrNoBuildSystem).
			BuildError()
	}
}

func (o *Options) logger() *log.Logger {
	if o.Log != nil {
		return o.Log
	}
	return log.Default()
}

// runScript executes one command through the runner, logging the command and
// its exit status before any abort.
func (o *Options) runScript(ctx context.Context, dir, script string) error {
	logger := o.logger()
	logger.Info("run", "cmd", script)

	res := o.Runner.Run(ctx, runner.Command{Script: script, Dir: dir, Env: o.Env})
	if res.Err != nil {
		return res.Err
	}
	if res.ExitCode != 0 {
		logger.Error("command failed", "cmd", script, "status", res.ExitCode)
		return &StepError{Step: script, ExitCode: res.ExitCode}
	}
	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
