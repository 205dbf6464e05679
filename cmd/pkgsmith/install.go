// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"

	"pkgsmith/internal/pkgar"

	"github.com/spf13/cobra"
)

// newInstallCommand creates `pkgsmith install-bin`: unpack a previously
// produced package archive into a filesystem root.
func newInstallCommand(app *App) *cobra.Command {
	var installRoot string

	installCmd := &cobra.Command{
		Use:   "install-bin <package>",
		Short: "Install a binary package into a filesystem root",
		Long: `Install a previously produced package archive into a filesystem root.

The compression codec is selected by the package file suffix (.tar.zst or
.tar.gz). The archive's staged install tree is unpacked into --root as-is;
the embedded metadata record is not materialized.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := pkgar.Install(args[0], installRoot); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("installed ")+PathStyle.Render(args[0])+" → "+installRoot)
			return nil
		},
	}

	installCmd.Flags().StringVar(&installRoot, "root", "/", "filesystem root to install into")

	return installCmd
}
