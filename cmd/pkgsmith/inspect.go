// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"pkgsmith/internal/pkgar"

	"github.com/spf13/cobra"
)

// newInspectCommand creates `pkgsmith inspect`: print the metadata record
// embedded in a package archive.
func newInspectCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <package>",
		Short: "Show a package archive's embedded metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, err := pkgar.ReadMetadata(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", TitleStyle.Render(meta.Name), meta.Version)
			fmt.Fprintf(out, "built_at: %s\n", meta.BuiltAt)
			return nil
		},
	}
}
