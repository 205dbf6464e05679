// SPDX-License-Identifier: MPL-2.0

// Package pipeline sequences one recipe through the build states:
// Validate → AcquireSource → ApplyPatches → Build → Package → Done. Any
// stage failure moves to the terminal Failed state; there is no retry and no
// partial-state cleanup. The batch driver wipes the staging root before each
// recipe, never after a failure.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"pkgsmith/internal/buildsys"
	"pkgsmith/internal/config"
	"pkgsmith/internal/extract"
	"pkgsmith/internal/fetch"
	"pkgsmith/internal/issue"
	"pkgsmith/internal/patch"
	"pkgsmith/internal/pkgar"
	"pkgsmith/internal/recipe"
	"pkgsmith/internal/runner"

	"github.com/charmbracelet/log"
)

// Stage identifies a pipeline state.
type Stage string

const (
	StageValidate      Stage = "Validate"
	StageAcquireSource Stage = "AcquireSource"
	StageApplyPatches  Stage = "ApplyPatches"
	StageBuild         Stage = "Build"
	StagePackage       Stage = "Package"
	StageDone          Stage = "Done"
	StageFailed        Stage = "Failed"
)

// HookError reports which recipe hook failed. It wraps the underlying runner
// failure so callers can classify hook failures apart from build failures.
type HookError struct {
	// Hook is the hook name (pre_fetch, post_extract, pre_build, post_build).
	Hook string
	// Cause is the underlying failure.
	Cause error
}

func (e *HookError) Error() string {
	return fmt.Sprintf("hook %s failed: %s", e.Hook, e.Cause)
}

func (e *HookError) Unwrap() error {
	return e.Cause
}

// Executor runs recipes against one BuildContext. Execution is strictly
// sequential: one recipe finishes (or fails) before the next begins.
type Executor struct {
	bc     *config.BuildContext
	runner runner.Runner
	log    *log.Logger
}

// New creates an Executor. A nil logger uses the default.
func New(bc *config.BuildContext, r runner.Runner, logger *log.Logger) *Executor {
	if logger == nil {
		logger = log.Default()
	}
	return &Executor{bc: bc, runner: r, log: logger}
}

// Execute runs one recipe start to finish and returns the produced package.
func (e *Executor) Execute(ctx context.Context, r *recipe.Recipe) (*pkgar.Package, error) {
	logger := e.log.With("recipe", r.Name)

	// Validate aborts before any side effect.
	e.transition(logger, StageValidate)
	if err := r.Validate(); err != nil {
		return nil, e.fail(logger, StageValidate, err)
	}
	if err := e.bc.EnsureDirs(); err != nil {
		return nil, e.fail(logger, StageValidate, err)
	}

	// The pre_fetch hook belongs to acquisition: it runs after validation
	// passed, immediately before the source is fetched.
	e.transition(logger, StageAcquireSource)
	if err := e.runHook(ctx, logger, "pre_fetch", r.Hooks.PreFetch, e.bc.WorkDir, r, ""); err != nil {
		return nil, e.fail(logger, StageAcquireSource, err)
	}

	sourceRoot, err := e.acquire(ctx, r)
	if err != nil {
		return nil, e.fail(logger, StageAcquireSource, err)
	}
	logger.Info("source ready", "root", sourceRoot)

	if err := e.runHook(ctx, logger, "post_extract", r.Hooks.PostExtract, sourceRoot, r, sourceRoot); err != nil {
		return nil, e.fail(logger, StageAcquireSource, err)
	}

	e.transition(logger, StageApplyPatches)
	if err := patch.Apply(ctx, sourceRoot, r.PatchSources, r.PatchStrip(), e.bc.WorkDir); err != nil {
		return nil, e.fail(logger, StageApplyPatches, err)
	}

	if err := e.runHook(ctx, logger, "pre_build", r.Hooks.PreBuild, sourceRoot, r, sourceRoot); err != nil {
		return nil, e.fail(logger, StageApplyPatches, err)
	}

	e.transition(logger, StageBuild)
	strategy, err := buildsys.Detect(sourceRoot, r.BuildSteps)
	if err != nil {
		return nil, e.fail(logger, StageBuild, err)
	}
	logger.Info("build system selected", "strategy", strategy.Name())

	opts := buildsys.Options{
		Prefix:      r.InstallPrefix,
		StagingRoot: e.bc.StagingRoot,
		Parallelism: e.bc.Parallelism,
		Env:         e.hookEnv(r, sourceRoot),
		Runner:      e.runner,
		Log:         logger,
	}
	if err := strategy.Run(ctx, sourceRoot, opts); err != nil {
		return nil, e.fail(logger, StageBuild, err)
	}

	if err := e.runHook(ctx, logger, "post_build", r.Hooks.PostBuild, sourceRoot, r, sourceRoot); err != nil {
		return nil, e.fail(logger, StageBuild, err)
	}

	e.transition(logger, StagePackage)
	pkg, err := pkgar.Build(e.bc.StagingRoot, r.Name, r.Version, e.bc.OutputDir, e.bc.Compression)
	if err != nil {
		return nil, e.fail(logger, StagePackage, err)
	}

	e.transition(logger, StageDone)
	logger.Info("package written", "path", pkg.ArchivePath)
	return pkg, nil
}

// ExecuteAll runs a batch of recipes sequentially, wiping and recreating the
// staging root before each one. The first failure aborts the batch.
func (e *Executor) ExecuteAll(ctx context.Context, recipes []*recipe.Recipe) ([]*pkgar.Package, error) {
	var out []*pkgar.Package
	for _, r := range recipes {
		if err := e.bc.ResetStaging(); err != nil {
			return out, err
		}
		pkg, err := e.Execute(ctx, r)
		if err != nil {
			return out, err
		}
		out = append(out, pkg)
	}
	return out, nil
}

// acquire fetches the recipe's source and returns the normalized source root.
func (e *Executor) acquire(ctx context.Context, r *recipe.Recipe) (string, error) {
	if r.GitURL != "" {
		destDir := r.GitDir
		if destDir != "" && !filepath.IsAbs(destDir) {
			destDir = filepath.Join(e.bc.WorkDir, destDir)
		}
		if destDir == "" {
			destDir = filepath.Join(e.bc.WorkDir, repoBase(r.GitURL))
		}
		return fetch.Repository(ctx, r.GitURL, destDir, r.GitRef)
	}

	archivePath, err := fetch.File(ctx, r.SourceURL, e.bc.WorkDir, "")
	if err != nil {
		return "", err
	}

	// Each recipe extracts into its own directory, recreated from scratch so
	// stale trees from earlier runs cannot leak into the root normalization.
	destDir := filepath.Join(e.bc.WorkDir, fmt.Sprintf("%s-%s", r.Name, r.Version))
	if err := os.RemoveAll(destDir); err != nil {
		return "", fmt.Errorf("failed to clear %s: %w", destDir, err)
	}
	return extract.Extract(archivePath, destDir)
}

// runHook invokes one optional recipe hook. An undefined hook is a silent
// no-op; a failing hook aborts the recipe.
func (e *Executor) runHook(ctx context.Context, logger *log.Logger, name, script, dir string, r *recipe.Recipe, sourceRoot string) error {
	if script == "" {
		return nil
	}

	logger.Info("running hook", "hook", name)
	res := e.runner.Run(ctx, runner.Command{
		Script: script,
		Dir:    dir,
		Env:    e.hookEnv(r, sourceRoot),
	})
	if res.Failed() {
		err := res.Err
		if err == nil {
			err = fmt.Errorf("hook exited with status %d", res.ExitCode)
		}
		return issue.NewErrorContext().
			WithOperation("run hook").
			WithResource(name).
			WithSuggestion("Re-run with --verbose to see the hook's output").
			Wrap(&HookError{Hook: name, Cause: err}).
			BuildError()
	}
	return nil
}

// hookEnv is the environment exposed to hooks and build steps.
func (e *Executor) hookEnv(r *recipe.Recipe, sourceRoot string) []string {
	env := []string{
		"PKGSMITH_NAME=" + r.Name,
		"PKGSMITH_VERSION=" + r.Version,
		"PKGSMITH_STAGING_ROOT=" + e.bc.StagingRoot,
		"PKGSMITH_WORKDIR=" + e.bc.WorkDir,
	}
	if sourceRoot != "" {
		env = append(env, "PKGSMITH_SOURCE_ROOT="+sourceRoot)
	}
	return env
}

func (e *Executor) transition(logger *log.Logger, s Stage) {
	logger.Debug("stage", "stage", string(s))
}

func (e *Executor) fail(logger *log.Logger, s Stage, err error) error {
	logger.Error("recipe failed", "stage", string(s), "err", err)

	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.Stage == "" {
		ae.Stage = string(s)
		return ae
	}
	return issue.NewErrorContext().
		WithOperation("execute recipe").
		WithStage(string(s)).
		Wrap(err).
		BuildError()
}

func repoBase(rawURL string) string {
	base := filepath.Base(rawURL)
	if len(base) > 4 && base[len(base)-4:] == ".git" {
		base = base[:len(base)-4]
	}
	return base
}
