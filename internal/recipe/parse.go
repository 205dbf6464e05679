// SPDX-License-Identifier: MPL-2.0

package recipe

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pkgsmith/internal/cueutil"
	"pkgsmith/internal/issue"
)

//go:embed recipe_schema.cue
var recipeSchema string

// ErrRecipeNotFound is returned when a bare recipe name has no matching file
// in the recipe repository directory.
var ErrRecipeNotFound = errors.New("recipe not found")

// ParseError reports a recipe file that failed CUE parsing or schema
// validation.
type ParseError struct {
	// Path is the recipe file the content came from.
	Path string
	// Cause is the underlying parse or validation failure.
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse recipe %s: %s", e.Path, e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Parse reads and parses a recipe file from the given path.
func Parse(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("read recipe").
			WithResource(path).
			WithSuggestion("Check the path, or pass a bare name to look up the recipe repository").
			Wrap(err).
			BuildError()
	}

	return ParseBytes(data, path)
}

// ParseBytes parses recipe content, validates it against the embedded CUE
// schema, applies defaults, and runs the Go-side invariants.
func ParseBytes(data []byte, path string) (*Recipe, error) {
	result, err := cueutil.Decode[Recipe](recipeSchema, data, "#Recipe", cueutil.WithFilename(path))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse recipe").
			WithResource(path).
			WithSuggestion("Check the CUE syntax and field names against the recipe schema").
			Wrap(&ParseError{Path: path, Cause: err}).
			BuildError()
	}

	r := result.Value
	r.FilePath = path
	r.ApplyDefaults()

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Resolve loads a recipe given either a file path or a bare name looked up in
// the recipe repository directory.
func Resolve(arg, recipeDir string) (*Recipe, error) {
	if strings.ContainsRune(arg, os.PathSeparator) || strings.HasSuffix(arg, ".cue") {
		return Parse(arg)
	}

	path := PathByName(recipeDir, arg)
	if _, err := os.Stat(path); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("resolve recipe").
			WithResource(arg).
			WithSuggestion(fmt.Sprintf("No %s.cue in %s; pass a file path instead", arg, recipeDir)).
			Wrap(fmt.Errorf("%w: %s: %w", ErrRecipeNotFound, arg, err)).
			BuildError()
	}
	return Parse(path)
}

// PathByName returns the conventional path of a named recipe in a repository
// directory.
func PathByName(dir, name string) string {
	return filepath.Join(dir, name+".cue")
}

// LoadAll parses every *.cue recipe in a repository directory, sorted by
// name. Files that fail to parse abort the load; a recipe repository with a
// broken recipe is treated as broken as a whole.
func LoadAll(dir string) ([]*Recipe, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipe directory %s: %w", dir, err)
	}

	var out []*Recipe
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".cue") {
			continue
		}
		r, err := Parse(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
