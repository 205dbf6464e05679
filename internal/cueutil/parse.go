// SPDX-License-Identifier: MPL-2.0

// Package cueutil wraps the CUE evaluator with the schema-first parsing flow
// used for recipe and configuration files: compile the embedded schema,
// compile the user file, unify, validate, and decode into a Go struct.
package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// MaxFileSize is the largest recipe or config file the parser accepts (5MB).
// Anything bigger is rejected before the evaluator sees it.
const MaxFileSize int64 = 5 * 1024 * 1024

type (
	// Decoded holds the outcome of a successful parse.
	Decoded[T any] struct {
		// Value is the decoded Go struct.
		Value *T

		// Unified is the unified CUE value, kept for callers that need to
		// inspect fields the Go struct does not model.
		Unified cue.Value
	}

	parseOptions struct {
		filename string
		concrete bool
	}

	// Option adjusts parsing behavior.
	Option func(*parseOptions)
)

// WithFilename sets the filename reported in CUE error messages.
func WithFilename(name string) Option {
	return func(o *parseOptions) {
		o.filename = name
	}
}

// WithOptionalFields disables the requirement that every field be concrete
// after unification. Use for config files where unset fields fall back to
// defaults supplied elsewhere.
func WithOptionalFields() Option {
	return func(o *parseOptions) {
		o.concrete = false
	}
}

// Decode validates data against the definition named by schemaPath inside
// schema (e.g. "#Recipe") and decodes the unified value into T.
func Decode[T any](schema string, data []byte, schemaPath string, opts ...Option) (*Decoded[T], error) {
	options := parseOptions{concrete: true}
	for _, opt := range opts {
		opt(&options)
	}

	filename := options.filename
	if filename == "" {
		filename = "<input>"
	}

	if int64(len(data)) > MaxFileSize {
		return nil, fmt.Errorf("%s: file exceeds maximum size of %d bytes", filename, MaxFileSize)
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), filename)
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)

	if err := unified.Validate(cue.Concrete(options.concrete)); err != nil {
		return nil, FormatError(err, filename)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, filename)
	}

	return &Decoded[T]{Value: &result, Unified: unified}, nil
}
