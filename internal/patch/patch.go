// SPDX-License-Identifier: MPL-2.0

// Package patch applies a recipe's ordered patch list against a source root.
// Patches apply strictly in list order with no rollback: the first failure
// aborts, leaving already-applied patches in place.
package patch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"pkgsmith/internal/fetch"
	"pkgsmith/internal/issue"
)

// ApplyError reports which patch failed to apply.
type ApplyError struct {
	// Patch is the patch source as the recipe listed it (path or URL).
	Patch string
	// Cause is the underlying patch invocation failure.
	Cause error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("failed to apply patch %s: %s", e.Patch, e.Cause)
}

func (e *ApplyError) Unwrap() error {
	return e.Cause
}

// Apply runs every patch source in order against sourceRoot with the given
// patch level. URL entries are fetched into workDir first; a fetch failure
// aborts before any further patch is applied. An empty list is a no-op.
func Apply(ctx context.Context, sourceRoot string, sources []string, level int, workDir string) error {
	if len(sources) == 0 {
		return nil
	}

	if err := issue.RequireTool("patch"); err != nil {
		return err
	}

	for _, src := range sources {
		local := src
		if fetch.IsURL(src) {
			fetched, err := fetch.File(ctx, src, workDir, "")
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("fetch patch").
					WithResource(src).
					Wrap(err).
					BuildError()
			}
			local = fetched
		}

		if err := apply(ctx, sourceRoot, local, level); err != nil {
			return issue.NewErrorContext().
				WithOperation("apply patch").
				WithResource(src).
				WithSuggestion("Check the patch was made against this source version").
				WithSuggestion(fmt.Sprintf("Adjust patch_level in the recipe (currently %d)", level)).
				Wrap(&ApplyError{Patch: src, Cause: err}).
				BuildError()
		}
	}

	return nil
}

func apply(ctx context.Context, sourceRoot, patchFile string, level int) error {
	// patch runs with -d sourceRoot, so the patch file path must survive the
	// directory change.
	abs, err := filepath.Abs(patchFile)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", patchFile, err)
	}

	cmd := exec.CommandContext(ctx, "patch", fmt.Sprintf("-p%d", level), "-d", sourceRoot, "-i", abs)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("patch -p%d -i %s: %w", level, patchFile, err)
	}
	return nil
}
