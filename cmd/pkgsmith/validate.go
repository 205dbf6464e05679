// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"pkgsmith/internal/recipe"

	"github.com/spf13/cobra"
)

// newValidateCommand creates `pkgsmith validate`: parse and validate recipes
// without building anything.
func newValidateCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <recipe>...",
		Short: "Validate recipe files",
		Long: `Parse one or more recipes and report schema or invariant violations
without fetching or building anything.

Each argument is either a recipe file path or a bare name resolved against
the recipe repository directory.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bc, err := app.loadContext(cmd.Context())
			if err != nil {
				return err
			}

			for _, arg := range args {
				r, err := recipe.Resolve(arg, bc.RecipeDir)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
					SuccessStyle.Render("ok"), PathStyle.Render(r.Name), r.Version)
			}
			return nil
		},
	}
}
