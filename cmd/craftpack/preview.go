// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/craftpack/craftpack/internal/issue"
	"github.com/craftpack/craftpack/internal/watch"
	"github.com/craftpack/craftpack/pkg/datapack"

	"github.com/spf13/cobra"
)

type previewFlagValues struct {
	pack  packFlagValues
	watch bool
}

func newPreviewCommand(app *App) *cobra.Command {
	flags := &previewFlagValues{}

	cmd := &cobra.Command{
		Use:   "preview [definition]",
		Short: "Show pack.mcmeta, the recipe and the give command",
		Long: `Show the generated pack.mcmeta, recipe and give command without
writing an archive. The texts are identical to the archive entries.

With --watch, the preview is rendered again every time the definition
file is saved. Press Ctrl+C to stop.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runPreview(cmd.Context(), app, flags, args))
		},
	}

	flags.pack.register(cmd)
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-render whenever the definition changes")

	return cmd
}

func runPreview(ctx context.Context, app *App, flags *previewFlagValues, args []string) error {
	path, err := definitionPath(args)
	if err != nil {
		return err
	}

	if !flags.watch {
		return renderPreview(app.stdout, app, path, &flags.pack)
	}

	if err := renderPreview(app.stdout, app, path, &flags.pack); err != nil {
		// A broken definition is what --watch is for; keep going.
		fmt.Fprintln(app.stderr, ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, app.cfg.UI.Verbose))
	}

	w, err := watch.New(watch.Config{
		Path:        path,
		Debounce:    app.cfg.Watch.Debounce,
		ClearScreen: app.cfg.Watch.ClearScreen && app.Terminal(app.stdout),
		Stdout:      app.stdout,
		Logger:      app.logger,
		OnChange: func(_ context.Context, changed []string) error {
			app.logger.Debug("definition changed", "files", changed)
			if err := renderPreview(app.stdout, app, path, &flags.pack); err != nil {
				fmt.Fprintln(app.stderr, ErrorStyle.Render("✗ ")+formatErrorForDisplay(err, app.cfg.UI.Verbose))
			}
			return nil
		},
	})
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("watch definition").
			WithResource(path).
			Wrap(err).
			BuildError()
	}

	fmt.Fprintln(app.stderr, SubtitleStyle.Render("Watching "+path+" for changes. Press Ctrl+C to stop."))
	if err := w.Run(ctx); err != nil {
		return issue.NewErrorContext().
			WithOperation("watch definition").
			WithResource(path).
			Wrap(err).
			BuildError()
	}
	return nil
}

// renderPreview loads the definition at path and writes the three preview
// sections to w.
func renderPreview(w io.Writer, app *App, path string, flags *packFlagValues) error {
	loaded, err := app.loadDefinition(path, flags)
	if err != nil {
		return err
	}

	p, err := datapack.Previews(loaded.def, loaded.opts...)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("render preview").
			WithResource(path).
			Wrap(err).
			BuildError()
	}

	ns := loaded.def.Namespace()
	sections := []struct {
		title   string
		content string
	}{
		{datapack.MetaPath, p.PackMeta},
		{datapack.RecipePath(ns, loaded.def.RecipeID()), p.Recipe},
		{datapack.FunctionPath(ns, datapack.GiveFunctionName), p.GiveCommand},
	}

	var sb strings.Builder
	for i, s := range sections {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(TitleStyle.Render(s.title))
		sb.WriteString("\n")
		sb.WriteString(s.content)
		sb.WriteString("\n")
	}
	_, err = io.WriteString(w, sb.String())
	return err
}
