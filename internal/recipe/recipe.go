// SPDX-License-Identifier: MPL-2.0

// Package recipe defines the declarative build recipe model and its CUE
// loader. A recipe names a package, one source origin, optional patches,
// optional explicit build steps, and optional hook scripts.
package recipe

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// DefaultInstallPrefix is the install prefix applied when the recipe
	// leaves install_prefix unset.
	DefaultInstallPrefix = "/usr"
	// DefaultPatchLevel is the -p level passed to patch when the recipe
	// leaves patch_level unset.
	DefaultPatchLevel = 1
)

var (
	// ErrMissingName is returned when a recipe has no name.
	ErrMissingName = errors.New("recipe name is required")
	// ErrMissingVersion is returned when a recipe has no version.
	ErrMissingVersion = errors.New("recipe version is required")
	// ErrNoSource is returned when neither source_url nor git_url is set.
	ErrNoSource = errors.New("recipe needs exactly one of source_url or git_url")
	// ErrAmbiguousSource is returned when both source_url and git_url are set.
	ErrAmbiguousSource = errors.New("recipe sets both source_url and git_url; exactly one is allowed")
)

type (
	// Recipe is a declarative description of how to obtain, patch, and build
	// one piece of software. Exactly one of SourceURL and GitURL must be set.
	Recipe struct {
		// Name is the package identifier.
		Name string `json:"name"`
		// Version is the package version string.
		Version string `json:"version"`

		// SourceURL points at a downloadable source archive.
		SourceURL string `json:"source_url,omitempty"`
		// GitURL points at a version-controlled repository to clone.
		GitURL string `json:"git_url,omitempty"`
		// GitDir overrides the checkout directory name (optional).
		GitDir string `json:"git_dir,omitempty"`
		// GitRef is a ref to check out after clone/fetch (optional).
		GitRef string `json:"git_ref,omitempty"`

		// PatchSources are local paths or URLs of patches, applied in order.
		PatchSources []string `json:"patch_sources,omitempty"`
		// BuildSteps, when present, override build-system autodetection; each
		// entry is one shell command executed in the source root.
		BuildSteps []string `json:"build_steps,omitempty"`

		// InstallPrefix is the installed path layout prefix (default /usr).
		InstallPrefix string `json:"install_prefix,omitempty"`
		// PatchLevel is the -p level for patch application. A nil pointer
		// means unset; -p0 is legitimate, so zero must stay distinguishable
		// from absent. Read through PatchStrip.
		PatchLevel *int `json:"patch_level,omitempty"`

		// Hooks are optional shell scripts run at fixed pipeline points.
		Hooks Hooks `json:"hooks,omitempty"`

		// FilePath records where this recipe was loaded from (not in CUE).
		FilePath string `json:"-"`
	}

	// Hooks holds the optional per-stage extension scripts. An empty string
	// means the hook is undefined and its invocation is a silent no-op.
	Hooks struct {
		// PreFetch runs before source acquisition, in the work directory.
		PreFetch string `json:"pre_fetch,omitempty"`
		// PostExtract runs after the source root exists, before patching.
		PostExtract string `json:"post_extract,omitempty"`
		// PreBuild runs after patching, before the build.
		PreBuild string `json:"pre_build,omitempty"`
		// PostBuild runs after the build, before packaging.
		PostBuild string `json:"post_build,omitempty"`
	}

	// ValidationError reports which recipe failed validation and why.
	ValidationError struct {
		// Recipe is the recipe name, or its file path when the name is missing.
		Recipe string
		// Cause is one of the Err* sentinels above.
		Cause error
	}
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid recipe %s: %s", e.Recipe, e.Cause)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Validate checks the recipe invariants: non-empty name and version, and
// exactly one source origin. It must pass before any pipeline side effect.
func (r *Recipe) Validate() error {
	label := r.Name
	if label == "" {
		label = r.FilePath
	}
	if label == "" {
		label = "<unnamed>"
	}

	if strings.TrimSpace(r.Name) == "" {
		return &ValidationError{Recipe: label, Cause: ErrMissingName}
	}
	if strings.TrimSpace(r.Version) == "" {
		return &ValidationError{Recipe: label, Cause: ErrMissingVersion}
	}

	hasArchive := r.SourceURL != ""
	hasGit := r.GitURL != ""
	switch {
	case hasArchive && hasGit:
		return &ValidationError{Recipe: label, Cause: ErrAmbiguousSource}
	case !hasArchive && !hasGit:
		return &ValidationError{Recipe: label, Cause: ErrNoSource}
	}

	return nil
}

// ApplyDefaults fills in the optional fields the recipe left unset.
func (r *Recipe) ApplyDefaults() {
	if r.InstallPrefix == "" {
		r.InstallPrefix = DefaultInstallPrefix
	}
}

// PatchStrip returns the -p level for patch application, defaulting when the
// recipe leaves patch_level unset.
func (r *Recipe) PatchStrip() int {
	if r.PatchLevel == nil {
		return DefaultPatchLevel
	}
	return *r.PatchLevel
}

// HasExplicitSteps reports whether the recipe overrides autodetection.
func (r *Recipe) HasExplicitSteps() bool {
	return len(r.BuildSteps) > 0
}
