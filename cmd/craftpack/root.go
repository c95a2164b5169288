// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/craftpack/craftpack/internal/config"
	"github.com/craftpack/craftpack/pkg/types"

	"github.com/charmbracelet/fang"
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

// rootFlagValues holds the persistent flags shared by every subcommand.
type rootFlagValues struct {
	verbose    bool
	configPath string
}

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlagValues{}

	root := &cobra.Command{
		Use:   "craftpack",
		Short: "Build Minecraft data packs from a definition file",
		Long: TitleStyle.Render("craftpack") + SubtitleStyle.Render(" - Minecraft data pack generator") + `

craftpack turns a small definition file (CUE, YAML, TOML or JSON) describing
one custom item into a ready-to-install data pack: pack.mcmeta, a shapeless
recipe, a give function, the load tag and a README, zipped.

` + SubtitleStyle.Render("Quick Start:") + `
  1. craftpack init            Write a starter datapack.cue
  2. craftpack preview         Show the generated files
  3. craftpack build           Write <pack name>.zip

` + SubtitleStyle.Render("Examples:") + `
  craftpack build pack.yaml -o dist    Build into ./dist
  craftpack preview --watch            Re-render on every save
  craftpack give --dialect legacy      Print a pre-1.20.5 give command
  craftpack inspect test_pack.zip      List and decode an archive`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.configure(cmd.Context(), flags)
		},
	}

	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging and detailed errors")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is <config dir>/craftpack/config.cue)")

	root.AddCommand(
		newBuildCommand(app),
		newPreviewCommand(app),
		newGiveCommand(app),
		newInitCommand(app),
		newInspectCommand(app),
		newFormatsCommand(app),
		newConfigCommand(app),
	)

	return root
}

// configure loads the configuration and sets up logging. A broken
// default config only warns; a file forced with --config must load.
func (app *App) configure(ctx context.Context, flags *rootFlagValues) error {
	app.configFlag = flags.configPath
	cfg, path, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		if flags.configPath != "" {
			app.cfg.UI.Verbose = flags.verbose
			return app.fail(err)
		}
		fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, flags.verbose))
		cfg, path = config.DefaultConfig(), ""
	}

	if flags.verbose {
		cfg.UI.Verbose = true
	}

	app.cfg = cfg
	app.configPath = path
	app.logger = newLogger(app.stderr, cfg.UI.Verbose)
	if app.installLogger {
		slog.SetDefault(app.logger)
	}
	app.logger.Debug("configuration loaded", "path", path, "default_format", cfg.DefaultFormat, "dialect", cfg.Command.Dialect)
	return nil
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits with the mapped exit code on failure.
// It is called by main.main.
func Execute() {
	app := NewApp(Dependencies{})
	app.installLogger = true

	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(int(types.ExitFailure))
	}
}
