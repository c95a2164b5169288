// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a callback when a definition file changes.
//
// The watcher observes the directory holding the definition rather than the
// file itself, because editors commonly save by writing a temporary file and
// renaming it over the original. Events are filtered by glob, coalesced over
// a debounce window, and delivered as one callback per quiet period.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 300 * time.Millisecond

var (
	// ErrAlreadyRunning is returned by a second call to Run.
	ErrAlreadyRunning = errors.New("watch: Run called more than once")

	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid watch config")

	// defaultIgnores never trigger a re-render: built archives, craftpack's
	// own temp files, and editor or OS droppings.
	defaultIgnores = []string{
		"**/*.zip",
		"**/.craftpack-*",
		"**/*.swp",
		"**/*.swo",
		"**/*~",
		"**/.#*",
		"**/.DS_Store",
	}
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// Path is the definition file to watch.
		Path string

		// Patterns are extra doublestar globs, relative to the directory of
		// Path, whose changes also trigger the callback.
		Patterns []string

		// Ignore are extra doublestar globs merged with the default ignores.
		Ignore []string

		// Debounce is the quiet period after the last event before OnChange
		// runs. Zero selects DefaultDebounce.
		Debounce time.Duration

		// ClearScreen writes an ANSI clear sequence to Stdout before each
		// callback. The caller decides whether Stdout is a terminal.
		ClearScreen bool

		// OnChange receives the changed paths, relative to the directory of
		// Path. A nil callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout receives the clear-screen sequence. nil means os.Stdout.
		Stdout io.Writer

		// Logger receives diagnostics. nil means slog.Default().
		Logger *slog.Logger
	}

	// InvalidConfigError lists every problem found by Config.Validate.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Watcher monitors a definition file. Run must be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		dir      string
		patterns []string
		ignores  []string
		stdout   io.Writer
		log      *slog.Logger
		started  atomic.Bool
	}
)

// Validate reports every invalid field of the configuration.
func (c Config) Validate() error {
	var errs []error
	if c.Path == "" {
		errs = append(errs, errors.New("path must not be empty"))
	}
	if c.Debounce < 0 {
		errs = append(errs, fmt.Errorf("debounce %s must not be negative", c.Debounce))
	}
	errs = append(errs, checkPatterns(c.Patterns, "watch")...)
	errs = append(errs, checkPatterns(c.Ignore, "ignore")...)
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid watch config: %v", errors.Join(e.FieldErrors...))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// New validates cfg and starts watching the directory of cfg.Path.
func New(cfg Config) (*Watcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", cfg.Path, err)
	}
	dir := filepath.Dir(abs)

	if cfg.Debounce == 0 {
		cfg.Debounce = DefaultDebounce
	}

	w := &Watcher{
		cfg:      cfg,
		dir:      dir,
		patterns: append([]string{filepath.ToSlash(filepath.Base(abs))}, cfg.Patterns...),
		ignores:  append(DefaultIgnores(), cfg.Ignore...),
		stdout:   cfg.Stdout,
		log:      cfg.Logger,
	}
	if w.stdout == nil {
		w.stdout = os.Stdout
	}
	if w.log == nil {
		w.log = slog.Default()
	}

	w.fsw, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}
	if err := w.fsw.Add(dir); err != nil {
		if closeErr := w.fsw.Close(); closeErr != nil {
			w.log.Warn("close watcher after init failure", "err", closeErr)
		}
		return nil, fmt.Errorf("watch: add directory %q: %w", dir, err)
	}

	return w, nil
}

// Dir returns the absolute directory being watched.
func (w *Watcher) Dir() string { return w.dir }

// Run blocks until ctx is cancelled, dispatching debounced callbacks. It
// returns nil on cancellation and an error when the watcher breaks.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	var busy atomic.Bool
	var deb *debouncer
	deb = newDebouncer(w.cfg.Debounce, func(changed []string) {
		if ctx.Err() != nil {
			return
		}
		// A slow callback must not overlap the next one; requeue instead.
		if !busy.CompareAndSwap(false, true) {
			w.log.Debug("callback still running, deferring changes", "count", len(changed))
			deb.requeue(changed)
			return
		}
		defer busy.Store(false)
		w.dispatch(ctx, changed)
	})

	defer func() {
		deb.stop()
		if err := w.fsw.Close(); err != nil {
			w.log.Warn("close fsnotify watcher", "err", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: fsnotify event channel closed unexpectedly")
			}
			if rel, ok := w.relevant(evt); ok {
				w.log.Debug("definition event", "path", rel, "op", evt.Op.String())
				deb.add(rel)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: fsnotify error channel closed unexpectedly")
			}
			if isFatalFsnotifyError(err) {
				return fmt.Errorf("watch: fatal fsnotify error: %w", err)
			}
			w.log.Warn("fsnotify error", "err", err)
		}
	}
}

func (w *Watcher) dispatch(ctx context.Context, changed []string) {
	if w.cfg.ClearScreen {
		fmt.Fprint(w.stdout, "\033[2J\033[H")
	}
	if w.cfg.OnChange == nil {
		return
	}
	if err := w.cfg.OnChange(ctx, changed); err != nil {
		w.log.Error("re-render failed", "err", err)
	}
}

// relevant reports whether evt should trigger a callback and returns its
// path relative to the watched directory. Chmod-only events are dropped.
func (w *Watcher) relevant(evt fsnotify.Event) (string, bool) {
	if evt.Op == fsnotify.Chmod {
		return "", false
	}
	rel, err := filepath.Rel(w.dir, evt.Name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if matchAny(w.ignores, rel) {
		return "", false
	}
	return rel, matchAny(w.patterns, rel)
}

// DefaultIgnores returns a copy of the built-in ignore patterns.
func DefaultIgnores() []string {
	out := make([]string, len(defaultIgnores))
	copy(out, defaultIgnores)
	return out
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if matched, err := doublestar.Match(pat, rel); err == nil && matched {
			return true
		}
	}
	return false
}

func checkPatterns(patterns []string, label string) []error {
	var errs []error
	for _, pat := range patterns {
		if pat == "" || !doublestar.ValidatePattern(pat) {
			errs = append(errs, fmt.Errorf("invalid %s pattern %q", label, pat))
		}
	}
	return errs
}
