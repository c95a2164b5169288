// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/craftpack/craftpack/internal/issue"
	"github.com/craftpack/craftpack/pkg/definition"

	"github.com/spf13/cobra"
)

// ErrDefinitionExists is returned by init when the directory already holds
// a definition and --force was not given.
var ErrDefinitionExists = errors.New("definition already exists")

type initFlagValues struct {
	template string
	format   string
	force    bool
}

func newInitCommand(app *App) *cobra.Command {
	flags := &initFlagValues{}

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter definition file",
		Long: `Write a starter definition file into dir (default: the current
directory). The "default" template is a complete example pack; the
"minimal" template is the smallest valid definition.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			return app.fail(runInit(app, flags, dir))
		},
	}

	cmd.Flags().StringVarP(&flags.template, "template", "t", definition.TemplateDefault,
		"starter template: "+strings.Join(definition.TemplateNames(), ", "))
	cmd.Flags().StringVarP(&flags.format, "format", "f", string(definition.FormatCUE),
		"file format: "+formatNames())
	cmd.Flags().BoolVar(&flags.force, "force", false, "overwrite an existing definition")

	return cmd
}

func runInit(app *App, flags *initFlagValues, dir string) error {
	format := definition.Format(flags.format)
	if valid, errs := format.IsValid(); !valid {
		return errors.Join(errs...)
	}

	file, err := definition.Template(flags.template)
	if err != nil {
		return err
	}

	if existing, findErr := definition.Find(dir); findErr == nil && !flags.force {
		return issue.NewErrorContext().
			WithOperation("create definition").
			WithResource(existing).
			WithSuggestion("Use --force to overwrite it").
			Wrap(ErrDefinitionExists).
			BuildError()
	}

	data, err := definition.Encode(file, format)
	if err != nil {
		return err
	}

	target := filepath.Join(dir, definition.BaseName+format.Ext())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return issue.WrapWithContext(err, "create directory", dir)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return issue.NewErrorContext().
			WithOperation("write definition").
			WithResource(target).
			WithSuggestion("Check that the directory is writable").
			Wrap(err).
			BuildError()
	}

	if flags.force {
		if err := removeShadowingDefinitions(dir, target); err != nil {
			return err
		}
	}

	app.logger.Debug("definition written", "path", target, "template", flags.template, "format", format)

	fmt.Fprintf(app.stdout, "%s Created %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(target))
	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("Next steps:"))
	fmt.Fprintf(app.stdout, "  %s   show the generated files\n", CmdStyle.Render("craftpack preview"))
	fmt.Fprintf(app.stdout, "  %s     write the archive\n", CmdStyle.Render("craftpack build"))
	return nil
}

// removeShadowingDefinitions deletes the definitions in dir that Find would
// pick before target, so the file init just wrote is the one that loads.
func removeShadowingDefinitions(dir, target string) error {
	for {
		existing, err := definition.Find(dir)
		if err != nil || existing == target {
			return nil
		}
		if err := os.Remove(existing); err != nil {
			return issue.NewErrorContext().
				WithOperation("replace definition").
				WithResource(existing).
				WithSuggestion("Remove the file by hand and run init again").
				Wrap(err).
				BuildError()
		}
	}
}

func formatNames() string {
	var names []string
	for _, f := range definition.Formats() {
		names = append(names, f.String())
	}
	return strings.Join(names, ", ")
}
