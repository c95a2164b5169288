// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/craftpack/craftpack/internal/config"
	"github.com/craftpack/craftpack/internal/issue"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// dumpFormats are the encodings accepted by 'config dump --format'.
var dumpFormats = []string{"cue", "yaml", "toml", "json"}

// newConfigCommand creates the `craftpack config` command tree. The
// configuration itself is loaded by the root command before any
// subcommand runs.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage craftpack configuration",
		Long: `Manage craftpack configuration.

Configuration is stored in:
  - Linux: ~/.config/craftpack/config.cue
  - macOS: ~/Library/Application Support/craftpack/config.cue
  - Windows: %APPDATA%\craftpack\config.cue

Every key can be overridden with a CRAFTPACK_* environment variable,
e.g. CRAFTPACK_COMMAND_DIALECT=legacy or CRAFTPACK_WATCH_DEBOUNCE=1s.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			showConfig(app)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.fail(showConfigPath(app))
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.fail(initConfig(app, force))
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	var format string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the effective configuration in a machine-readable format",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return app.fail(dumpConfig(app, format))
		},
	}
	dumpCmd.Flags().StringVarP(&format, "format", "f", "cue", "output format: "+strings.Join(dumpFormats, ", "))
	cfgCmd.AddCommand(dumpCmd)

	return cfgCmd
}

func showConfig(app *App) {
	cfg := app.cfg
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)

	if app.configPath != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), app.configPath)
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	outputDir := cfg.OutputDir.String()
	if outputDir == "" {
		outputDir = "(next to the definition)"
	}
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("default_format"), valueStyle.Render(fmt.Sprint(cfg.DefaultFormat)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("language"), valueStyle.Render(cfg.Language.String()))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("output_dir"), valueStyle.Render(outputDir))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("command"))
	fmt.Fprintf(app.stdout, "  dialect: %s\n", valueStyle.Render(cfg.Command.Dialect.String()))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(app.stdout, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(app.stdout, "  verbose: %s\n", valueStyle.Render(fmt.Sprint(cfg.UI.Verbose)))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(app.stdout, "  debounce: %s\n", valueStyle.Render(cfg.Watch.Debounce.String()))
	fmt.Fprintf(app.stdout, "  clear_screen: %s\n", valueStyle.Render(fmt.Sprint(cfg.Watch.ClearScreen)))
}

func showConfigPath(app *App) error {
	path, found, err := config.ConfigPath(config.LoadOptions{ConfigFilePath: app.configFlag})
	if err != nil {
		return issue.WrapWithContext(err, "resolve configuration path", "")
	}
	if found {
		fmt.Fprintln(app.stdout, path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s %s\n", path, SubtitleStyle.Render("(not created)"))
	return nil
}

func initConfig(app *App, force bool) error {
	path, err := config.CreateDefaultConfig("", force)
	if errors.Is(err, config.ErrConfigExists) {
		return issue.NewErrorContext().
			WithOperation("create configuration").
			WithResource(path).
			WithSuggestion("Use --force to overwrite it").
			WithSuggestion("Use 'craftpack config show' to see its values").
			Wrap(err).
			BuildError()
	}
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("create configuration").
			WithSuggestion("Check that the configuration directory is writable").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}

	fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
	return nil
}

func dumpConfig(app *App, format string) error {
	settings := app.cfg.Settings()

	var (
		out []byte
		err error
	)
	switch format {
	case "cue":
		out = []byte(config.GenerateCUE(app.cfg))
	case "yaml":
		out, err = yaml.Marshal(settings)
	case "toml":
		out, err = toml.Marshal(settings)
	case "json":
		out, err = json.MarshalIndent(settings, "", "  ")
		out = append(out, '\n')
	default:
		return fmt.Errorf("unknown dump format %q (available: %s)", format, strings.Join(dumpFormats, ", "))
	}
	if err != nil {
		return fmt.Errorf("failed to encode configuration as %s: %w", format, err)
	}

	_, err = app.stdout.Write(out)
	return err
}
