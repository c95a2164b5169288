// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/craftpack/craftpack/internal/issue"
	"github.com/craftpack/craftpack/pkg/datapack"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type buildFlagValues struct {
	pack   packFlagValues
	output string
}

func newBuildCommand(app *App) *cobra.Command {
	flags := &buildFlagValues{}

	cmd := &cobra.Command{
		Use:   "build [definition]",
		Short: "Build the data pack archive",
		Long: `Build the data pack archive described by a definition file.

Without an argument, craftpack looks for datapack.cue, datapack.yaml,
datapack.yml, datapack.toml or datapack.json in the current directory.
The archive is named after the pack and written next to the definition,
into output_dir from the configuration, or into --output.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runBuild(cmd.Context(), app, flags, args))
		},
	}

	flags.pack.register(cmd)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "directory to write the archive into")

	return cmd
}

func runBuild(ctx context.Context, app *App, flags *buildFlagValues, args []string) error {
	path, err := definitionPath(args)
	if err != nil {
		return err
	}
	loaded, err := app.loadDefinition(path, &flags.pack)
	if err != nil {
		return err
	}

	data, err := datapack.Build(ctx, loaded.def, loaded.opts...)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("build data pack").
			WithResource(path).
			Wrap(err).
			BuildError()
	}

	dir := outputDir(flags.output, app.cfg.OutputDir.String(), path)
	target := filepath.Join(dir, loaded.def.ArchiveName())
	if err := writeFileAtomic(dir, target, data); err != nil {
		return issue.NewErrorContext().
			WithOperation("write data pack").
			WithResource(target).
			WithSuggestion("Check that the output directory is writable").
			WithSuggestion("Choose another directory with --output").
			WithIssue(issue.ArchiveWriteFailedId).
			Wrap(err).
			BuildError()
	}

	fmt.Fprintf(app.stdout, "%s Built %s (%s)\n",
		SuccessStyle.Render("✓"), CmdStyle.Render(target), humanize.Bytes(uint64(len(data))))
	fmt.Fprintln(app.stdout, SubtitleStyle.Render("  Copy it into <world>/datapacks and run /reload."))
	return nil
}

// outputDir picks the --output flag, then the configured output_dir, then
// the directory of the definition file.
func outputDir(flag, configured, definitionPath string) string {
	switch {
	case flag != "":
		return flag
	case configured != "":
		return configured
	default:
		return filepath.Dir(definitionPath)
	}
}

// writeFileAtomic writes data to a temp file in dir and renames it onto
// target, so target is either the complete new archive or untouched.
func writeFileAtomic(dir, target string, data []byte) (err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".craftpack-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()        // Already failing; close error adds nothing.
			_ = os.Remove(tmpName) // Best-effort cleanup of the partial file.
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync archive: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close archive: %w", err)
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set archive permissions: %w", err)
	}
	if err = os.Rename(tmpName, target); err != nil {
		return fmt.Errorf("failed to move archive into place: %w", err)
	}
	return nil
}
