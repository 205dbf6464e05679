// SPDX-License-Identifier: MPL-2.0

// Command pkgsmith is a recipe-driven source-to-binary package builder: it
// fetches upstream sources, applies patches, drives the build into a staging
// root, and emits portable binary package archives.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"pkgsmith/internal/config"
	"pkgsmith/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// App wires the CLI's shared dependencies: config loading and the logger.
// Every command constructor receives an App reference.
type App struct {
	Config  config.Provider
	Log     *log.Logger
	Verbose bool
	CfgFile string
}

func main() {
	app := &App{
		Config: config.NewProvider(),
		Log: log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
		}),
	}

	rootCmd := newRootCommand(app)

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var ae *issue.ActionableError
		if errors.As(err, &ae) {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render(ae.Format(app.Verbose)))
		}
		if id, ok := catalogId(err); ok {
			if rendered, rerr := issue.Get(id).Render("dark"); rerr == nil {
				fmt.Fprint(os.Stderr, rendered)
			}
		}
		os.Exit(1)
	}
}

func newRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pkgsmith",
		Short: "A recipe-driven source-to-binary package builder",
		Long: TitleStyle.Render("pkgsmith") + SubtitleStyle.Render(" - a recipe-driven package builder") + `

pkgsmith turns declarative recipes into portable binary packages: it fetches
an upstream source archive or repository, normalizes and patches the source
tree, runs the build into a staging root (explicit steps or an autodetected
build system), and archives the result as
{name}-{version}-{arch}.tar.{zst|gz}.

Recipes are CUE files:

  name:       "hello"
  version:    "2.12"
  source_url: "https://ftp.gnu.org/gnu/hello/hello-2.12.tar.gz"

` + SubtitleStyle.Render("Examples:") + `
  pkgsmith build hello.cue          Build a package from a recipe
  pkgsmith build --install hello    Build, then install the fresh package
  pkgsmith install-bin hello-2.12-amd64.tar.zst --root /mnt/target
  pkgsmith validate hello.cue       Parse and validate a recipe`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if app.Verbose {
				app.Log.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.Verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&app.CfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/pkgsmith/config.cue)")

	rootCmd.AddCommand(newBuildCommand(app))
	rootCmd.AddCommand(newInstallCommand(app))
	rootCmd.AddCommand(newInspectCommand(app))
	rootCmd.AddCommand(newValidateCommand(app))
	rootCmd.AddCommand(newConfigCommand(app))

	return rootCmd
}

func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// loadContext resolves the BuildContext for a command invocation.
func (app *App) loadContext(ctx context.Context) (*config.BuildContext, error) {
	return app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: app.CfgFile})
}
