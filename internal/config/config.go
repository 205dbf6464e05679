// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"pkgsmith/internal/cueutil"
	"pkgsmith/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for config and cache directories.
	AppName = "pkgsmith"
	// ConfigFileName is the config file name without extension.
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"

	envPrefix = "PKGSMITH"
)

//go:embed config_schema.cue
var configSchema string

// LoadError reports a configuration that could not be loaded or failed
// validation.
type LoadError struct {
	// Path is the config file involved, empty when the merged values failed
	// validation rather than a specific file.
	Path string
	// Cause is the underlying failure.
	Cause error
}

func (e *LoadError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid configuration: %s", e.Cause)
	}
	return fmt.Sprintf("failed to load configuration %s: %s", e.Path, e.Cause)
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}

// BuildContext is the process-wide configuration one recipe executes under.
// It is immutable for the duration of a recipe run; the batch driver calls
// ResetStaging between recipes, never during one.
type BuildContext struct {
	// WorkDir is where sources are fetched and extracted.
	WorkDir string `mapstructure:"workdir"`
	// StagingRoot is the DESTDIR-style install destination builds stage into.
	StagingRoot string `mapstructure:"staging_root"`
	// OutputDir receives finished package archives.
	OutputDir string `mapstructure:"output_dir"`
	// RecipeDir is the repository of recipe files, for lookups by bare name.
	RecipeDir string `mapstructure:"recipe_dir"`
	// Parallelism is the job count handed to the underlying build tool.
	Parallelism int `mapstructure:"parallelism"`
	// Runner selects native or virtual shell execution.
	Runner RunnerMode `mapstructure:"runner"`
	// Compression selects the package codec.
	Compression Codec `mapstructure:"compression"`
}

// Default returns the built-in BuildContext: cache directories under the XDG
// cache home, one build job per CPU, native runner, zstd packages.
func Default() *BuildContext {
	base := filepath.Join(xdg.CacheHome, AppName)
	return &BuildContext{
		WorkDir:     filepath.Join(base, "work"),
		StagingRoot: filepath.Join(base, "staging"),
		OutputDir:   filepath.Join(base, "packages"),
		RecipeDir:   filepath.Join(xdg.DataHome, AppName, "recipes"),
		Parallelism: runtime.NumCPU(),
		Runner:      RunnerNative,
		Compression: CodecZstd,
	}
}

// Validate checks the invariants CUE cannot express on merged values.
func (bc *BuildContext) Validate() error {
	if bc.Parallelism < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidParallelism, bc.Parallelism)
	}
	if err := bc.Runner.Validate(); err != nil {
		return err
	}
	return bc.Compression.Validate()
}

// EnsureDirs creates the work, staging, and output directories.
func (bc *BuildContext) EnsureDirs() error {
	for _, dir := range []string{bc.WorkDir, bc.StagingRoot, bc.OutputDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// ResetStaging wipes and recreates the staging root. The batch driver calls
// this before each recipe so one build's staged tree never leaks into the
// next package.
func (bc *BuildContext) ResetStaging() error {
	if err := os.RemoveAll(bc.StagingRoot); err != nil {
		return fmt.Errorf("failed to clear staging root %s: %w", bc.StagingRoot, err)
	}
	if err := os.MkdirAll(bc.StagingRoot, 0o755); err != nil {
		return fmt.Errorf("failed to recreate staging root %s: %w", bc.StagingRoot, err)
	}
	return nil
}

// ConfigDir returns the pkgsmith configuration directory.
func ConfigDir() string {
	if configDirOverride != "" {
		return configDirOverride
	}
	return filepath.Join(xdg.ConfigHome, AppName)
}

func loadWithOptions(ctx context.Context, opts LoadOptions) (*BuildContext, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := Default()
	v.SetDefault("workdir", defaults.WorkDir)
	v.SetDefault("staging_root", defaults.StagingRoot)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("recipe_dir", defaults.RecipeDir)
	v.SetDefault("parallelism", defaults.Parallelism)
	v.SetDefault("runner", string(defaults.Runner))
	v.SetDefault("compression", string(defaults.Compression))

	// A --config path is used exclusively; otherwise the XDG config dir is
	// probed and a missing file silently falls back to defaults.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				Wrap(&LoadError{Path: opts.ConfigFilePath, Cause: os.ErrNotExist}).
				BuildError()
		}
		if err := loadCUEIntoViper(v, opts.ConfigFilePath); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				Wrap(&LoadError{Path: opts.ConfigFilePath, Cause: err}).
				BuildError()
		}
	} else {
		cuePath := filepath.Join(ConfigDir(), ConfigFileName+"."+ConfigFileExt)
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, issue.NewErrorContext().
					WithOperation("load configuration").
					WithResource(cuePath).
					WithSuggestion("Check that the file contains valid CUE syntax").
					Wrap(&LoadError{Path: cuePath, Cause: err}).
					BuildError()
			}
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var bc BuildContext
	if err := v.Unmarshal(&bc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := bc.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			Wrap(&LoadError{Cause: err}).
			BuildError()
	}

	return &bc, nil
}

// loadCUEIntoViper validates a CUE config file against the embedded schema
// and merges the decoded map into viper, preserving defaults and keeping env
// overrides on top.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if int64(len(data)) > cueutil.MaxFileSize {
		return fmt.Errorf("%s: file exceeds maximum size of %d bytes", path, cueutil.MaxFileSize)
	}

	cctx := cuecontext.New()

	schemaValue := cctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := cctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
