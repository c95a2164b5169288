// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// startWatcher creates the definition file, starts a watcher on it and
// returns a channel of callback invocations.
func startWatcher(t *testing.T, cfg Config) (string, <-chan []string) {
	t.Helper()

	dir := t.TempDir()
	def := filepath.Join(dir, "datapack.cue")
	writeFile(t, def, "pack: name: \"x\"\n")

	calls := make(chan []string, 16)
	cfg.Path = def
	if cfg.Debounce == 0 {
		cfg.Debounce = 50 * time.Millisecond
	}
	if cfg.Stdout == nil {
		cfg.Stdout = &bytes.Buffer{}
	}
	cfg.Logger = quietLogger()
	if cfg.OnChange == nil {
		cfg.OnChange = func(_ context.Context, changed []string) error {
			calls <- changed
			return nil
		}
	}

	w, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-errCh:
			if err != nil {
				t.Errorf("Run() error: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Error("Run() did not return after cancellation")
		}
	})

	// Let the event loop start before the test writes anything.
	time.Sleep(20 * time.Millisecond)
	return dir, calls
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir, calls := startWatcher(t, Config{Debounce: 150 * time.Millisecond})
	def := filepath.Join(dir, "datapack.cue")

	for i := range 3 {
		writeFile(t, def, strings.Repeat("x", i+1))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case changed := <-calls:
		if !slices.Equal(changed, []string{"datapack.cue"}) {
			t.Errorf("changed = %v, want [datapack.cue]", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	select {
	case extra := <-calls:
		t.Errorf("rapid writes should coalesce into one callback, got another: %v", extra)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcherFiltersUnrelatedFiles(t *testing.T) {
	t.Parallel()

	dir, calls := startWatcher(t, Config{Patterns: []string{"lore/*.txt"}})

	// Ignored and unrelated files do not trigger.
	writeFile(t, filepath.Join(dir, "test_pack.zip"), "zip")
	writeFile(t, filepath.Join(dir, "notes.md"), "notes")
	writeFile(t, filepath.Join(dir, "datapack.cue~"), "backup")

	select {
	case changed := <-calls:
		t.Fatalf("unexpected callback for %v", changed)
	case <-time.After(250 * time.Millisecond):
	}

	writeFile(t, filepath.Join(dir, "datapack.cue"), "pack: name: \"y\"\n")

	select {
	case changed := <-calls:
		if !slices.Equal(changed, []string{"datapack.cue"}) {
			t.Errorf("changed = %v", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func TestWatcherRenameOverDefinition(t *testing.T) {
	t.Parallel()

	dir, calls := startWatcher(t, Config{})

	tmp := filepath.Join(dir, "datapack.cue.new")
	writeFile(t, tmp, "pack: name: \"renamed\"\n")
	if err := os.Rename(tmp, filepath.Join(dir, "datapack.cue")); err != nil {
		t.Fatal(err)
	}

	select {
	case changed := <-calls:
		if !slices.Contains(changed, "datapack.cue") {
			t.Errorf("changed = %v, want datapack.cue", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback after rename")
	}
}

func TestWatcherSkipIfBusy(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		running int
		maxSeen int
		calls   int
	)
	done := make(chan struct{}, 4)

	dir, _ := startWatcher(t, Config{
		Debounce: 30 * time.Millisecond,
		OnChange: func(_ context.Context, _ []string) error {
			mu.Lock()
			running++
			calls++
			maxSeen = max(maxSeen, running)
			mu.Unlock()

			time.Sleep(200 * time.Millisecond)

			mu.Lock()
			running--
			mu.Unlock()
			done <- struct{}{}
			return nil
		},
	})
	def := filepath.Join(dir, "datapack.cue")

	writeFile(t, def, "a")
	time.Sleep(80 * time.Millisecond)
	writeFile(t, def, "b")

	for range 2 {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for callbacks")
		}
	}

	mu.Lock()
	defer mu.Unlock()
	if maxSeen != 1 {
		t.Errorf("callbacks overlapped: max concurrent = %d", maxSeen)
	}
	if calls < 2 {
		t.Errorf("deferred change was lost: %d calls", calls)
	}
}

func TestWatcherClearScreen(t *testing.T) {
	t.Parallel()

	var (
		mu  sync.Mutex
		out bytes.Buffer
	)
	fired := make(chan struct{}, 1)

	dir, _ := startWatcher(t, Config{
		ClearScreen: true,
		Stdout:      writerFunc(func(p []byte) (int, error) { mu.Lock(); defer mu.Unlock(); return out.Write(p) }),
		OnChange: func(context.Context, []string) error {
			fired <- struct{}{}
			return nil
		},
	})

	writeFile(t, filepath.Join(dir, "datapack.cue"), "changed")

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}

	mu.Lock()
	defer mu.Unlock()
	if !strings.Contains(out.String(), "\033[2J\033[H") {
		t.Errorf("expected clear-screen sequence, got %q", out.String())
	}
}

func TestWatcherDoubleRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	def := filepath.Join(dir, "datapack.yaml")
	writeFile(t, def, "pack: {}\n")

	w, err := New(Config{Path: def, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if w.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", w.Dir(), dir)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	time.Sleep(20 * time.Millisecond)

	if err := w.Run(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() error = %v, want ErrAlreadyRunning", err)
	}

	cancel()
	if err := <-errCh; err != nil {
		t.Errorf("Run() error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr int
	}{
		{"valid", Config{Path: "datapack.cue", Patterns: []string{"**/*.txt"}}, 0},
		{"missing path", Config{}, 1},
		{"negative debounce", Config{Path: "x.cue", Debounce: -time.Second}, 1},
		{"bad pattern", Config{Path: "x.cue", Patterns: []string{"[unclosed"}}, 1},
		{"empty ignore", Config{Path: "x.cue", Ignore: []string{""}}, 1},
		{"everything wrong", Config{Debounce: -1, Patterns: []string{"["}, Ignore: []string{""}}, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.cfg.Validate()
			if tt.wantErr == 0 {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("Validate() = %v, want ErrInvalidConfig", err)
			}
			var cfgErr *InvalidConfigError
			if !errors.As(err, &cfgErr) || len(cfgErr.FieldErrors) != tt.wantErr {
				t.Errorf("field errors = %v, want %d", cfgErr, tt.wantErr)
			}
		})
	}

	if _, err := New(Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("New(invalid) error = %v", err)
	}
}

func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		ignored bool
	}{
		{"test_pack.zip", true},
		{".craftpack-1234.tmp", true},
		{"datapack.cue.swp", true},
		{"datapack.cue~", true},
		{".#datapack.cue", true},
		{".DS_Store", true},
		{"datapack.cue", false},
		{"datapack.yaml", false},
	}

	ignores := DefaultIgnores()
	for _, tt := range tests {
		if got := matchAny(ignores, tt.path); got != tt.ignored {
			t.Errorf("ignored(%q) = %v, want %v", tt.path, got, tt.ignored)
		}
	}

	ignores[0] = "changed"
	if DefaultIgnores()[0] == "changed" {
		t.Error("DefaultIgnores() should return a copy")
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
