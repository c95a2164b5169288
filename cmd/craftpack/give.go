// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGiveCommand(app *App) *cobra.Command {
	flags := &packFlagValues{}

	cmd := &cobra.Command{
		Use:   "give [definition]",
		Short: "Print the give command for the custom item",
		Long: `Print the give command for the custom item, ready to paste into the
game chat or a command block. Nothing else is written to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return app.fail(runGive(app, flags, args))
		},
	}

	flags.register(cmd)

	return cmd
}

func runGive(app *App, flags *packFlagValues, args []string) error {
	path, err := definitionPath(args)
	if err != nil {
		return err
	}
	loaded, err := app.loadDefinition(path, flags)
	if err != nil {
		return err
	}

	fmt.Fprintln(app.stdout, loaded.def.GiveCommand(loaded.dialect))
	return nil
}
