// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
)

const (
	// RunnerNative executes build commands in the host system shell.
	RunnerNative RunnerMode = "native"
	// RunnerVirtual executes build commands in the embedded mvdan/sh interpreter.
	RunnerVirtual RunnerMode = "virtual"

	// CodecZstd compresses packages with zstd (the default).
	CodecZstd Codec = "zstd"
	// CodecGzip compresses packages with gzip.
	CodecGzip Codec = "gzip"
)

var (
	// ErrInvalidRunnerMode is returned when a RunnerMode value is not recognized.
	ErrInvalidRunnerMode = errors.New("invalid runner mode")
	// ErrInvalidCodec is returned when a Codec value is not recognized.
	ErrInvalidCodec = errors.New("invalid compression codec")
	// ErrInvalidParallelism is returned when the parallelism level is below 1.
	ErrInvalidParallelism = errors.New("parallelism must be at least 1")
)

type (
	// RunnerMode selects how recipe-supplied shell commands are executed.
	RunnerMode string

	// InvalidRunnerModeError wraps ErrInvalidRunnerMode with the offending value.
	InvalidRunnerModeError struct {
		Value RunnerMode
	}

	// Codec selects the package compression codec.
	Codec string

	// InvalidCodecError wraps ErrInvalidCodec with the offending value.
	InvalidCodecError struct {
		Value Codec
	}
)

// IsValid reports whether the runner mode is one of the known values.
func (m RunnerMode) IsValid() bool {
	return m == RunnerNative || m == RunnerVirtual
}

// Validate returns an InvalidRunnerModeError for unknown values.
func (m RunnerMode) Validate() error {
	if !m.IsValid() {
		return &InvalidRunnerModeError{Value: m}
	}
	return nil
}

func (e *InvalidRunnerModeError) Error() string {
	return fmt.Sprintf("invalid runner mode %q (expected: native, virtual)", string(e.Value))
}

func (e *InvalidRunnerModeError) Unwrap() error {
	return ErrInvalidRunnerMode
}

// IsValid reports whether the codec is one of the known values.
func (c Codec) IsValid() bool {
	return c == CodecZstd || c == CodecGzip
}

// Validate returns an InvalidCodecError for unknown values.
func (c Codec) Validate() error {
	if !c.IsValid() {
		return &InvalidCodecError{Value: c}
	}
	return nil
}

// Extension returns the package filename extension for the codec.
func (c Codec) Extension() string {
	if c == CodecGzip {
		return "gz"
	}
	return "zst"
}

func (e *InvalidCodecError) Error() string {
	return fmt.Sprintf("invalid compression codec %q (expected: zstd, gzip)", string(e.Value))
}

func (e *InvalidCodecError) Unwrap() error {
	return ErrInvalidCodec
}
