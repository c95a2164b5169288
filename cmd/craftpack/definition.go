// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/craftpack/craftpack/internal/config"
	"github.com/craftpack/craftpack/internal/issue"
	"github.com/craftpack/craftpack/pkg/command"
	"github.com/craftpack/craftpack/pkg/datapack"
	"github.com/craftpack/craftpack/pkg/definition"

	"github.com/spf13/cobra"
)

// packFlagValues are the flags that adjust how a definition is rendered.
// Zero values defer to the definition file and then to the configuration.
type packFlagValues struct {
	packFormat int
	dialect    string
	language   string
}

func (f *packFlagValues) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.packFormat, "pack-format", 0, "override pack_format (see 'craftpack formats')")
	cmd.Flags().StringVar(&f.dialect, "dialect", "", "give command dialect: components, legacy or auto")
	cmd.Flags().StringVar(&f.language, "lang", "", "README language, e.g. ru or en")
}

// loadedDefinition is a parsed definition plus the options it builds with.
type loadedDefinition struct {
	path    string
	def     datapack.Definition
	dialect command.Dialect
	opts    []datapack.Option
}

// definitionPath returns args[0] or the definition found in the current
// directory.
func definitionPath(args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	path, err := definition.Find(".")
	if err != nil {
		return "", issue.NewErrorContext().
			WithOperation("find definition").
			WithResource(".").
			WithSuggestion("Run 'craftpack init' to create datapack.cue").
			WithSuggestion("Pass the definition path as an argument").
			WithIssue(issue.DefinitionNotFoundId).
			Wrap(err).
			BuildError()
	}
	return path, nil
}

// loadDefinition parses the definition at path and applies config defaults
// and flag overrides.
func (app *App) loadDefinition(path string, flags *packFlagValues) (*loadedDefinition, error) {
	dialect := app.cfg.Command.Dialect
	if flags.dialect != "" {
		dialect = command.Dialect(flags.dialect)
	}
	if valid, errs := dialect.IsValid(); !valid {
		return nil, errors.Join(errs...)
	}
	if flags.packFormat != 0 {
		if err := datapack.ValidateFormat(flags.packFormat); err != nil {
			return nil, err
		}
	}
	if flags.language != "" {
		if valid, errs := config.Language(flags.language).IsValid(); !valid {
			return nil, errors.Join(errs...)
		}
	}

	def, err := definition.Load(path, definition.Defaults{
		Format:   app.cfg.DefaultFormat,
		Language: app.cfg.Language.String(),
	})
	if err != nil {
		return nil, definitionError(path, err)
	}

	if flags.packFormat != 0 {
		def.Pack.Format = flags.packFormat
	}
	if flags.language != "" {
		def.Pack.Language = flags.language
	}

	app.logger.Debug("definition loaded",
		"path", path,
		"namespace", def.Namespace(),
		"recipe", def.RecipeID(),
		"pack_format", def.Format(),
		"dialect", dialect.ForFormat(def.Format()),
	)

	return &loadedDefinition{
		path:    path,
		def:     def,
		dialect: dialect,
		opts:    []datapack.Option{datapack.WithDialect(dialect)},
	}, nil
}

// definitionError wraps a load failure with the matching catalog entry.
func definitionError(path string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("load definition").
		WithResource(path)

	switch {
	case errors.Is(err, fs.ErrNotExist):
		ctx.WithSuggestion("Check the path, or run 'craftpack init' to create a definition").
			WithIssue(issue.DefinitionNotFoundId)
	case errors.Is(err, fs.ErrPermission):
		ctx.WithSuggestion("Check the file permissions").
			WithIssue(issue.PermissionDeniedId)
	case errors.Is(err, definition.ErrUnsupportedFormat):
		ctx.WithSuggestion(fmt.Sprintf("Use one of the extensions %s", supportedExtensions())).
			WithIssue(issue.DefinitionParseErrorId)
	default:
		ctx.WithSuggestion("Run with --verbose to see the schema help").
			WithIssue(issue.DefinitionParseErrorId)
	}
	return ctx.Wrap(err).BuildError()
}

func supportedExtensions() string {
	var exts []string
	for _, f := range definition.Formats() {
		exts = append(exts, f.Ext())
	}
	return fmt.Sprint(exts)
}
