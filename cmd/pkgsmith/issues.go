// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"

	"pkgsmith/internal/buildsys"
	"pkgsmith/internal/config"
	"pkgsmith/internal/extract"
	"pkgsmith/internal/issue"
	"pkgsmith/internal/patch"
	"pkgsmith/internal/pipeline"
	"pkgsmith/internal/pkgar"
	"pkgsmith/internal/recipe"
	"pkgsmith/internal/runner"
)

// catalogId maps a failure to its issue catalog entry. The mapping lives here
// rather than in the issue package because the domain packages import issue
// for ActionableError, so the reverse dependency would cycle.
func catalogId(err error) (issue.Id, bool) {
	var (
		parseErr      *recipe.ParseError
		validationErr *recipe.ValidationError
		patchErr      *patch.ApplyError
		stepErr       *buildsys.StepError
		hookErr       *pipeline.HookError
		loadErr       *config.LoadError
	)

	switch {
	case errors.Is(err, recipe.ErrRecipeNotFound):
		return issue.RecipeNotFoundId, true
	case errors.As(err, &parseErr), errors.As(err, &validationErr):
		return issue.RecipeParseErrorId, true
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return issue.UnsupportedArchiveId, true
	case errors.Is(err, issue.ErrToolNotInstalled):
		return issue.ToolNotInstalledId, true
	case errors.Is(err, buildsys.ErrNoBuildSystem):
		return issue.NoBuildSystemId, true
	case errors.As(err, &patchErr):
		return issue.PatchFailedId, true
	case errors.As(err, &stepErr):
		return issue.BuildStepFailedId, true
	case errors.As(err, &hookErr):
		return issue.HookFailedId, true
	case errors.Is(err, pkgar.ErrNoPackageFound):
		return issue.PackageNotFoundId, true
	case errors.As(err, &loadErr):
		return issue.ConfigLoadFailedId, true
	case errors.Is(err, runner.ErrShellNotFound):
		return issue.ShellNotFoundId, true
	}
	return 0, false
}
