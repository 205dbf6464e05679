// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestRunnerMode_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode    RunnerMode
		wantErr bool
	}{
		{RunnerNative, false},
		{RunnerVirtual, false},
		{"", true},
		{"invalid", true},
		{"NATIVE", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			t.Parallel()
			err := tt.mode.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("RunnerMode(%q).Validate() = nil, want error", tt.mode)
				}
				if !errors.Is(err, ErrInvalidRunnerMode) {
					t.Errorf("error should wrap ErrInvalidRunnerMode, got: %v", err)
				}
				var modeErr *InvalidRunnerModeError
				if !errors.As(err, &modeErr) {
					t.Errorf("error should be an *InvalidRunnerModeError, got: %T", err)
				} else if modeErr.Value != tt.mode {
					t.Errorf("InvalidRunnerModeError.Value = %q, want %q", modeErr.Value, tt.mode)
				}
			} else if err != nil {
				t.Errorf("RunnerMode(%q).Validate() returned unexpected error: %v", tt.mode, err)
			}
		})
	}
}

func TestCodec_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		codec   Codec
		wantErr bool
	}{
		{CodecZstd, false},
		{CodecGzip, false},
		{"", true},
		{"xz", true},
		{"ZSTD", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.codec), func(t *testing.T) {
			t.Parallel()
			err := tt.codec.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Codec(%q).Validate() = nil, want error", tt.codec)
				}
				if !errors.Is(err, ErrInvalidCodec) {
					t.Errorf("error should wrap ErrInvalidCodec, got: %v", err)
				}
			} else if err != nil {
				t.Errorf("Codec(%q).Validate() returned unexpected error: %v", tt.codec, err)
			}
		})
	}
}

func TestCodec_Extension(t *testing.T) {
	t.Parallel()

	if got := CodecZstd.Extension(); got != "zst" {
		t.Errorf("CodecZstd.Extension() = %q, want %q", got, "zst")
	}
	if got := CodecGzip.Extension(); got != "gz" {
		t.Errorf("CodecGzip.Extension() = %q, want %q", got, "gz")
	}
}
