// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// newLogger returns a slog logger rendered by charmbracelet/log. Library
// packages log through slog.Default, which the root command points here.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Prefix:          "craftpack",
		Level:           level,
		ReportTimestamp: false,
	})
	return slog.New(handler)
}
