// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/craftpack/craftpack/internal/issue"
	"github.com/craftpack/craftpack/pkg/command"
	"github.com/craftpack/craftpack/pkg/datapack"
	"github.com/craftpack/craftpack/pkg/naming"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type inspectFlagValues struct {
	entry string
}

func newInspectCommand(app *App) *cobra.Command {
	flags := &inspectFlagValues{}

	cmd := &cobra.Command{
		Use:   "inspect <archive>",
		Short: "List the files of a built data pack and decode its give command",
		Long: `List the files of a data pack archive, check its layout and decode
the item handed out by its give function.

With --entry, print the content of a single file instead.`,
		Example: `  craftpack inspect test_pack.zip
  craftpack inspect test_pack.zip --entry pack.mcmeta`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.fail(runInspect(app, flags, args[0]))
		},
	}

	cmd.Flags().StringVarP(&flags.entry, "entry", "e", "", "print the content of this archive entry")

	return cmd
}

func runInspect(app *App, flags *inspectFlagValues, path string) error {
	archive, err := readArchiveFile(path)
	if err != nil {
		return err
	}

	if flags.entry != "" {
		entry, ok := archive.Lookup(flags.entry)
		if !ok {
			return issue.NewErrorContext().
				WithOperation("read archive entry").
				WithResource(flags.entry).
				WithSuggestion("Run 'craftpack inspect " + path + "' to list the entries").
				WithIssue(issue.ArchiveReadFailedId).
				Wrap(fmt.Errorf("no entry %q in %s", flags.entry, path)).
				BuildError()
		}
		fmt.Fprintln(app.stdout, entry.Content)
		return nil
	}

	rows := make([][]string, 0, len(archive.Entries))
	var total uint64
	for _, e := range archive.Entries {
		size := uint64(len(e.Content))
		total += size
		rows = append(rows, []string{e.Path, humanize.Bytes(size)})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers("Entry", "Size").
		Rows(rows...)

	fmt.Fprintln(app.stdout, TitleStyle.Render(path))
	fmt.Fprintln(app.stdout, t.Render())
	fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("Namespace:"), archive.Namespace())
	fmt.Fprintf(app.stdout, "%s %d files, %s uncompressed\n", SubtitleStyle.Render("Contents: "), len(archive.Entries), humanize.Bytes(total))

	if err := archive.Validate(); err != nil {
		fmt.Fprintf(app.stdout, "%s %v\n", WarningStyle.Render("Layout:   "), err)
	} else {
		fmt.Fprintf(app.stdout, "%s %s\n", SubtitleStyle.Render("Layout:   "), SuccessStyle.Render("ok"))
	}

	giveEntry, ok := archive.Lookup(datapack.FunctionPath(naming.Token(archive.Namespace()), datapack.GiveFunctionName))
	if !ok {
		fmt.Fprintln(app.stdout, WarningStyle.Render("No give function found."))
		return nil
	}
	decoded, err := command.Decode(giveEntry.Content)
	if err != nil {
		fmt.Fprintf(app.stdout, "%s %v\n", WarningStyle.Render("Give command:"), err)
		return nil
	}

	fmt.Fprintln(app.stdout)
	fmt.Fprintln(app.stdout, TitleStyle.Render("Item"))
	printField(app, "ID", decoded.Item.ID)
	printField(app, "Name", decoded.Item.DisplayName)
	printField(app, "Count", fmt.Sprint(decoded.Item.Count))
	printField(app, "Dialect", decoded.Dialect.String())
	printField(app, "Target", decoded.Target)
	if len(decoded.Item.Lore) > 0 {
		printField(app, "Lore", strings.Join(decoded.Item.Lore, " / "))
	}
	for _, ench := range decoded.Item.Enchantments {
		printField(app, "Enchantment", fmt.Sprintf("%s %d", ench.ID, ench.Level))
	}
	return nil
}

func printField(app *App, key, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(app.stdout, "  %s %s\n", CmdStyle.Render(fmt.Sprintf("%-12s", key+":")), value)
}

// readArchiveFile reads and opens the data pack archive at path.
func readArchiveFile(path string) (*datapack.Archive, error) {
	wrap := func(err error) error {
		return issue.NewErrorContext().
			WithOperation("read archive").
			WithResource(path).
			WithSuggestion("Check that the file is a zip built by 'craftpack build'").
			WithIssue(issue.ArchiveReadFailedId).
			Wrap(err).
			BuildError()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, wrap(err)
	}
	archive, err := datapack.ReadArchive(data)
	if err != nil {
		return nil, wrap(err)
	}
	return archive, nil
}
