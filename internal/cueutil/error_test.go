// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

func TestFormatPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		path []string
		want string
	}{
		{name: "empty", path: nil, want: ""},
		{name: "single field", path: []string{"version"}, want: "version"},
		{name: "nested fields", path: []string{"hooks", "pre_build"}, want: "hooks.pre_build"},
		{name: "list index", path: []string{"patch_sources", "2"}, want: "patch_sources[2]"},
		{name: "index then field", path: []string{"build_steps", "0", "cmd"}, want: "build_steps[0].cmd"},
		{name: "leading number stays a field", path: []string{"0"}, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatPath(tt.path); got != tt.want {
				t.Errorf("formatPath(%v) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestFormatError(t *testing.T) {
	t.Parallel()

	if got := FormatError(nil, "recipe.cue"); got != nil {
		t.Errorf("FormatError(nil) = %v, want nil", got)
	}

	// Non-CUE errors keep their message behind the file prefix.
	plain := FormatError(errPlain{}, "recipe.cue")
	if plain == nil || !strings.Contains(plain.Error(), "recipe.cue") {
		t.Errorf("FormatError() = %v, want the file path in the message", plain)
	}
}

type errPlain struct{}

func (errPlain) Error() string { return "boom" }
