// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/craftpack/craftpack/internal/config"
	"github.com/craftpack/craftpack/internal/issue"

	"github.com/mattn/go-isatty"
)

type (
	// App is the composition root of the CLI. Command handlers receive it
	// and reach configuration and output through it.
	App struct {
		Config   ConfigProvider
		Terminal TerminalDetector
		stdout   io.Writer
		stderr   io.Writer

		// Populated by the root command before any subcommand runs.
		cfg           *config.Config
		configPath    string
		configFlag    string
		logger        *slog.Logger
		installLogger bool
		renderCard    cardRenderer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   ConfigProvider
		Terminal TerminalDetector
		Stdout   io.Writer
		Stderr   io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, string, error)
	}

	// TerminalDetector reports whether w is an interactive terminal.
	TerminalDetector func(w io.Writer) bool

	// cardRenderer renders a catalog entry with the named glamour style.
	cardRenderer func(entry *issue.Issue, style string) (string, error)
)

// NewApp creates an App, filling unset dependencies with production
// implementations.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config:   deps.Config,
		Terminal: deps.Terminal,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,

		renderCard: (*issue.Issue).Render,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.Terminal == nil {
		app.Terminal = isTerminal
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	app.cfg = config.DefaultConfig()
	app.logger = newLogger(app.stderr, false)
	return app
}

// isTerminal reports whether w is a terminal file, including Cygwin and
// MSYS pseudo-terminals on Windows.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
