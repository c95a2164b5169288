// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strconv"

	"github.com/craftpack/craftpack/pkg/command"
	"github.com/craftpack/craftpack/pkg/datapack"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

func newFormatsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the known pack_format numbers",
		Long: `List the pack_format numbers craftpack knows, the game versions that
read them and the give command dialect "auto" selects for each.

Other positive numbers are accepted too; craftpack warns about them.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			runFormats(app)
			return nil
		},
	}
}

func runFormats(app *App) {
	current := app.cfg.DefaultFormat

	var rows [][]string
	for _, f := range datapack.Formats() {
		marker := ""
		switch {
		case f.Number == current && f.Number == datapack.DefaultFormat:
			marker = "default"
		case f.Number == current:
			marker = "configured"
		case f.Number == datapack.DefaultFormat:
			marker = "built-in default"
		}
		rows = append(rows, []string{
			strconv.Itoa(f.Number),
			f.Versions,
			command.DialectAuto.ForFormat(f.Number).String(),
			marker,
		})
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
		Headers("Format", "Minecraft", "Dialect", "").
		Rows(rows...)

	fmt.Fprintln(app.stdout, t.Render())
}
