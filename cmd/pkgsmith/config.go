// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"path/filepath"

	"pkgsmith/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `pkgsmith config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage pkgsmith configuration",
		Long: `Manage pkgsmith configuration.

Configuration lives in config.cue under the XDG config home
(typically ~/.config/pkgsmith/config.cue) and can be overridden per key
with PKGSMITH_* environment variables.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the resolved build context",
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, err := app.loadContext(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "workdir:      %s\n", bc.WorkDir)
			fmt.Fprintf(out, "staging_root: %s\n", bc.StagingRoot)
			fmt.Fprintf(out, "output_dir:   %s\n", bc.OutputDir)
			fmt.Fprintf(out, "recipe_dir:   %s\n", bc.RecipeDir)
			fmt.Fprintf(out, "parallelism:  %d\n", bc.Parallelism)
			fmt.Fprintf(out, "runner:       %s\n", bc.Runner)
			fmt.Fprintf(out, "compression:  %s\n", bc.Compression)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), filepath.Join(config.ConfigDir(), config.ConfigFileName+"."+config.ConfigFileExt))
			return nil
		},
	})

	return cfgCmd
}
