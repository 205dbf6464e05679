// SPDX-License-Identifier: MPL-2.0

package buildsys

import (
	"context"
	"fmt"

	"pkgsmith/internal/issue"
)

// ExplicitSteps runs the recipe's ordered command list inside the source
// root, fail-fast.
type ExplicitSteps struct {
	Steps []string
}

// Name identifies the strategy.
func (s *ExplicitSteps) Name() string {
	return "explicit"
}

// Run executes each step in order; the first non-zero exit aborts.
func (s *ExplicitSteps) Run(ctx context.Context, sourceRoot string, opts Options) error {
	for _, step := range s.Steps {
		if err := opts.runScript(ctx, sourceRoot, step); err != nil {
			return issue.NewErrorContext().
				WithOperation("run build step").
				WithResource(step).
				Wrap(err).
				BuildError()
		}
	}
	return nil
}

// Autoconf builds configure-script projects: configure with the prefix, make
// with the job count, then a DESTDIR install into the staging root.
type Autoconf struct{}

// Name identifies the strategy.
func (s *Autoconf) Name() string {
	return "autoconf"
}

// Run executes the three-phase autoconf protocol.
func (s *Autoconf) Run(ctx context.Context, sourceRoot string, opts Options) error {
	if err := issue.RequireTool("make"); err != nil {
		return err
	}

	phases := []string{
		fmt.Sprintf("./configure --prefix=%s", opts.Prefix),
		fmt.Sprintf("make -j%d", opts.Parallelism),
		fmt.Sprintf("make DESTDIR=%s install", opts.StagingRoot),
	}
	return runPhases(ctx, s.Name(), sourceRoot, opts, phases)
}

// CMake builds CMake projects in an out-of-source build directory.
type CMake struct{}

// Name identifies the strategy.
func (s *CMake) Name() string {
	return "cmake"
}

// Run executes the three-phase CMake protocol.
func (s *CMake) Run(ctx context.Context, sourceRoot string, opts Options) error {
	if err := issue.RequireTool("cmake"); err != nil {
		return err
	}

	phases := []string{
		fmt.Sprintf("cmake -S . -B build -DCMAKE_INSTALL_PREFIX=%s", opts.Prefix),
		fmt.Sprintf("cmake --build build -j %d", opts.Parallelism),
		fmt.Sprintf("DESTDIR=%s cmake --install build", opts.StagingRoot),
	}
	return runPhases(ctx, s.Name(), sourceRoot, opts, phases)
}

// Meson builds Meson projects with meson's native destdir support.
type Meson struct{}

// Name identifies the strategy.
func (s *Meson) Name() string {
	return "meson"
}

// Run executes the three-phase Meson protocol.
func (s *Meson) Run(ctx context.Context, sourceRoot string, opts Options) error {
	if err := issue.RequireTool("meson"); err != nil {
		return err
	}

	phases := []string{
		fmt.Sprintf("meson setup build --prefix %s", opts.Prefix),
		fmt.Sprintf("meson compile -C build -j %d", opts.Parallelism),
		fmt.Sprintf("meson install -C build --destdir %s", opts.StagingRoot),
	}
	return runPhases(ctx, s.Name(), sourceRoot, opts, phases)
}

func runPhases(ctx context.Context, name, sourceRoot string, opts Options, phases []string) error {
	for _, phase := range phases {
		if err := opts.runScript(ctx, sourceRoot, phase); err != nil {
			return issue.NewErrorContext().
				WithOperation(fmt.Sprintf("build with %s", name)).
				WithResource(phase).
				Wrap(err).
				BuildError()
		}
	}
	return nil
}
