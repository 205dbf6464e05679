// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	"errors"
	"testing"
)

func TestRecipe_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		recipe  Recipe
		wantErr error
	}{
		{
			name:   "archive source",
			recipe: Recipe{Name: "hello", Version: "2.12", SourceURL: "https://example.org/hello-2.12.tar.gz"},
		},
		{
			name:   "git source",
			recipe: Recipe{Name: "hello", Version: "2.12", GitURL: "https://example.org/hello.git"},
		},
		{
			name:    "missing name",
			recipe:  Recipe{Version: "2.12", SourceURL: "https://example.org/a.tar.gz"},
			wantErr: ErrMissingName,
		},
		{
			name:    "whitespace name",
			recipe:  Recipe{Name: "  ", Version: "2.12", SourceURL: "https://example.org/a.tar.gz"},
			wantErr: ErrMissingName,
		},
		{
			name:    "missing version",
			recipe:  Recipe{Name: "hello", SourceURL: "https://example.org/a.tar.gz"},
			wantErr: ErrMissingVersion,
		},
		{
			name:    "no source",
			recipe:  Recipe{Name: "hello", Version: "2.12"},
			wantErr: ErrNoSource,
		},
		{
			name: "both sources",
			recipe: Recipe{
				Name: "hello", Version: "2.12",
				SourceURL: "https://example.org/a.tar.gz",
				GitURL:    "https://example.org/hello.git",
			},
			wantErr: ErrAmbiguousSource,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.recipe.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() returned unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want error wrapping %v", err, tt.wantErr)
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Errorf("error should be a *ValidationError, got: %T", err)
			}
		})
	}
}

func TestRecipe_Validate_LabelFallsBackToFilePath(t *testing.T) {
	t.Parallel()

	r := Recipe{Version: "1.0", SourceURL: "https://example.org/a.tar.gz", FilePath: "/tmp/broken.cue"}
	err := r.Validate()

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("Validate() = %v, want *ValidationError", err)
	}
	if vErr.Recipe != "/tmp/broken.cue" {
		t.Errorf("ValidationError.Recipe = %q, want the file path", vErr.Recipe)
	}
}

func TestRecipe_ApplyDefaults(t *testing.T) {
	t.Parallel()

	r := Recipe{Name: "hello", Version: "2.12", SourceURL: "https://example.org/a.tar.gz"}
	r.ApplyDefaults()

	if r.InstallPrefix != DefaultInstallPrefix {
		t.Errorf("InstallPrefix = %q, want %q", r.InstallPrefix, DefaultInstallPrefix)
	}
	if r.PatchLevel != nil {
		t.Errorf("PatchLevel = %d, want nil (unset)", *r.PatchLevel)
	}

	// Explicit values survive.
	two := 2
	r2 := Recipe{InstallPrefix: "/opt/hello", PatchLevel: &two}
	r2.ApplyDefaults()
	if r2.InstallPrefix != "/opt/hello" {
		t.Errorf("explicit InstallPrefix overwritten: %q", r2.InstallPrefix)
	}
	if r2.PatchLevel == nil || *r2.PatchLevel != 2 {
		t.Errorf("explicit PatchLevel overwritten: %v", r2.PatchLevel)
	}
}

func TestRecipe_PatchStrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		level *int
		want  int
	}{
		{name: "unset defaults to -p1", level: nil, want: DefaultPatchLevel},
		{name: "explicit zero stays zero", level: new(int), want: 0},
		{name: "explicit level kept", level: intPtr(3), want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := Recipe{PatchLevel: tt.level}
			if got := r.PatchStrip(); got != tt.want {
				t.Errorf("PatchStrip() = %d, want %d", got, tt.want)
			}
		})
	}
}

func intPtr(n int) *int { return &n }

func TestRecipe_HasExplicitSteps(t *testing.T) {
	t.Parallel()

	r := Recipe{}
	if r.HasExplicitSteps() {
		t.Error("HasExplicitSteps() = true for an empty step list")
	}
	r.BuildSteps = []string{"make"}
	if !r.HasExplicitSteps() {
		t.Error("HasExplicitSteps() = false with steps present")
	}
}
