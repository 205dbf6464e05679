// SPDX-License-Identifier: MPL-2.0

package fetch

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"pkgsmith/internal/issue"
)

// Repository clones or updates a git repository and returns the checkout
// path. An existing checkout at destDir is updated (all refs and tags
// fetched) instead of re-cloned; a fresh clone is recursive so submodules
// come along. When ref is non-empty it is checked out afterwards. Any git
// failure is fatal.
func Repository(ctx context.Context, rawURL, destDir, ref string) (string, error) {
	if err := issue.RequireTool("git"); err != nil {
		return "", err
	}

	if destDir == "" {
		destDir = strings.TrimSuffix(filepath.Base(rawURL), ".git")
	}

	if isCheckout(destDir) {
		if err := runGit(ctx, destDir, "fetch", "--all", "--tags"); err != nil {
			return "", issue.NewErrorContext().
				WithOperation("update repository").
				WithResource(rawURL).
				Wrap(err).
				BuildError()
		}
	} else {
		if err := runGit(ctx, "", "clone", "--recursive", rawURL, destDir); err != nil {
			return "", issue.NewErrorContext().
				WithOperation("clone repository").
				WithResource(rawURL).
				WithSuggestion("Check the repository URL and your network connection").
				Wrap(err).
				BuildError()
		}
	}

	if ref != "" {
		if err := runGit(ctx, destDir, "checkout", ref); err != nil {
			return "", issue.NewErrorContext().
				WithOperation("check out ref").
				WithResource(ref).
				WithSuggestion("Verify the ref exists in the repository").
				Wrap(err).
				BuildError()
		}
	}

	return destDir, nil
}

func isCheckout(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

func runGit(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return nil
}
