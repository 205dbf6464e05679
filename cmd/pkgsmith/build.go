// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"pkgsmith/internal/config"
	"pkgsmith/internal/pipeline"
	"pkgsmith/internal/pkgar"
	"pkgsmith/internal/recipe"
	"pkgsmith/internal/runner"

	"github.com/spf13/cobra"
)

// newBuildCommand creates `pkgsmith build`: run one or more recipes through
// the pipeline, optionally installing each produced package afterwards.
func newBuildCommand(app *App) *cobra.Command {
	var (
		installAfter bool
		installRoot  string
		jobs         int
		workDir      string
		stagingRoot  string
		outputDir    string
		runnerMode   string
		compression  string
	)

	buildCmd := &cobra.Command{
		Use:   "build <recipe>...",
		Short: "Build binary packages from recipes",
		Long: `Build one or more recipes into binary packages.

Each argument is either a recipe file path or a bare name resolved against
the recipe repository directory (recipe_dir). Recipes run strictly in
sequence; the staging root is wiped and recreated before each one, and the
first failure aborts the batch.

With --install, each produced package is installed into --root (default /)
right after its build, using the most recently produced package file for
the recipe.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, err := app.loadContext(cmd.Context())
			if err != nil {
				return err
			}

			// Flag overrides sit on top of config and environment.
			if jobs > 0 {
				bc.Parallelism = jobs
			}
			if workDir != "" {
				bc.WorkDir = workDir
			}
			if stagingRoot != "" {
				bc.StagingRoot = stagingRoot
			}
			if outputDir != "" {
				bc.OutputDir = outputDir
			}
			if runnerMode != "" {
				bc.Runner = config.RunnerMode(runnerMode)
			}
			if compression != "" {
				bc.Compression = config.Codec(compression)
			}
			if err := bc.Validate(); err != nil {
				return err
			}

			recipes := make([]*recipe.Recipe, 0, len(args))
			for _, arg := range args {
				r, err := recipe.Resolve(arg, bc.RecipeDir)
				if err != nil {
					return err
				}
				recipes = append(recipes, r)
			}

			exec := pipeline.New(bc, runner.New(bc.Runner), app.Log)

			for _, r := range recipes {
				if err := bc.ResetStaging(); err != nil {
					return err
				}

				pkg, err := exec.Execute(cmd.Context(), r)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("built ")+PathStyle.Render(pkg.ArchivePath))

				if installAfter {
					latest, err := pkgar.Latest(bc.OutputDir, r.Name, r.Version)
					if err != nil {
						return err
					}
					if err := pkgar.Install(latest, installRoot); err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("installed ")+PathStyle.Render(latest)+" → "+installRoot)
				}
			}
			return nil
		},
	}

	buildCmd.Flags().BoolVar(&installAfter, "install", false, "install each package after building it")
	buildCmd.Flags().StringVar(&installRoot, "root", "/", "filesystem root to install into (with --install)")
	buildCmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "build job count (default: CPU count)")
	buildCmd.Flags().StringVar(&workDir, "workdir", "", "working directory for fetch and extraction")
	buildCmd.Flags().StringVar(&stagingRoot, "staging", "", "staging root builds install into")
	buildCmd.Flags().StringVar(&outputDir, "output", "", "directory package archives are written to")
	buildCmd.Flags().StringVar(&runnerMode, "runner", "", "shell runner: native or virtual")
	buildCmd.Flags().StringVar(&compression, "compression", "", "package codec: zstd or gzip")

	return buildCmd
}
