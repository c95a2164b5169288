// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/craftpack/craftpack/internal/issue"
	"github.com/craftpack/craftpack/internal/testutil"
	"github.com/craftpack/craftpack/pkg/command"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.DefaultFormat != 48 {
		t.Errorf("DefaultFormat = %d, want 48", cfg.DefaultFormat)
	}
	if cfg.Language != "ru" {
		t.Errorf("Language = %q, want ru", cfg.Language)
	}
	if cfg.OutputDir != "" {
		t.Errorf("OutputDir = %q, want empty", cfg.OutputDir)
	}
	if cfg.Command.Dialect != command.DialectComponents {
		t.Errorf("Dialect = %q", cfg.Command.Dialect)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto || cfg.UI.Verbose {
		t.Errorf("UI = %+v", cfg.UI)
	}
	if cfg.Watch.Debounce != 300*time.Millisecond || !cfg.Watch.ClearScreen {
		t.Errorf("Watch = %+v", cfg.Watch)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("DefaultConfig() should be valid: %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux")
	}

	t.Cleanup(testutil.MustSetenv(t, "XDG_CONFIG_HOME", "/tmp/test-xdg-config"))

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if want := filepath.Join("/tmp/test-xdg-config", AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}

	SetConfigDirOverride("/override")
	t.Cleanup(Reset)
	if dir, _ := ConfigDir(); dir != "/override" {
		t.Errorf("ConfigDir() with override = %s", dir)
	}
}

func TestLoad_DefaultsWhenNoFile(t *testing.T) {
	t.Parallel()

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != "" {
		t.Errorf("resolved path = %q, want empty", path)
	}
	if cfg.DefaultFormat != 48 || cfg.Language != "ru" {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}
}

func TestLoad_MergesFileOverDefaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	want := writeConfig(t, dir, `
default_format: 61
command: dialect: "legacy"
watch: debounce: "1s"
`)

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != want {
		t.Errorf("resolved path = %q, want %q", path, want)
	}
	if cfg.DefaultFormat != 61 {
		t.Errorf("DefaultFormat = %d, want 61", cfg.DefaultFormat)
	}
	if cfg.Command.Dialect != command.DialectLegacy {
		t.Errorf("Dialect = %q, want legacy", cfg.Command.Dialect)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Debounce = %s, want 1s", cfg.Watch.Debounce)
	}
	// Untouched keys keep their defaults.
	if cfg.Language != "ru" || !cfg.Watch.ClearScreen {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoad_SchemaErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		contains string
	}{
		{"unknown key", `colour: "red"`, "colour"},
		{"bad dialect", `command: dialect: "bedrock"`, "command.dialect"},
		{"format zero", `default_format: 0`, "default_format"},
		{"bad duration", `watch: debounce: "soon"`, "watch.debounce"},
		{"syntax", `ui: {`, "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Errorf("error should mention %q, got: %v", tt.contains, err)
			}

			var ae *issue.ActionableError
			if !errors.As(err, &ae) || ae.Issue != issue.ConfigLoadFailedId {
				t.Errorf("error should be an actionable config error, got %T", err)
			}
		})
	}
}

func TestLoad_ForcedFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	forced := filepath.Join(dir, "custom.cue")
	if err := os.WriteFile(forced, []byte(`language: "en"`), 0o644); err != nil {
		t.Fatal(err)
	}
	// A file in the config dir is ignored when a file is forced.
	writeConfig(t, dir, `language: "de"`)

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: forced, ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if path != forced || cfg.Language != "en" {
		t.Errorf("Load() = %q from %q", cfg.Language, path)
	}

	_, _, err = NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(dir, "missing.cue")})
	if err == nil || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("Load(missing) error = %v", err)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CRAFTPACK_DEFAULT_FORMAT", "71")
	t.Setenv("CRAFTPACK_COMMAND_DIALECT", "auto")
	t.Setenv("CRAFTPACK_UI_VERBOSE", "true")

	dir := t.TempDir()
	writeConfig(t, dir, `default_format: 61`)

	cfg, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.DefaultFormat != 71 {
		t.Errorf("DefaultFormat = %d, want env value 71", cfg.DefaultFormat)
	}
	if cfg.Command.Dialect != command.DialectAuto || !cfg.UI.Verbose {
		t.Errorf("env overrides not applied: %+v", cfg)
	}
}

func TestLoad_InvalidEnvironmentValue(t *testing.T) {
	t.Setenv("CRAFTPACK_UI_COLOR_SCHEME", "neon")

	_, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidColorScheme) {
		t.Fatalf("Load() error = %v, want ErrInvalidColorScheme", err)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested")

	path, err := CreateDefaultConfig(dir, false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error: %v", err)
	}

	// The generated file loads back to the defaults.
	cfg, resolved, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() of generated file error: %v", err)
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Settings()["watch"].(map[string]any)["debounce"] != "300ms" {
		t.Errorf("generated config did not round trip: %+v", cfg)
	}

	if _, err := CreateDefaultConfig(dir, false); !errors.Is(err, ErrConfigExists) {
		t.Errorf("second CreateDefaultConfig() error = %v, want ErrConfigExists", err)
	}
	if _, err := CreateDefaultConfig(dir, true); err != nil {
		t.Errorf("CreateDefaultConfig(force) error = %v", err)
	}
}

func TestConfigPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path, found, err := ConfigPath(LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("ConfigPath() error: %v", err)
	}
	if found || path != filepath.Join(dir, "config.cue") {
		t.Errorf("ConfigPath() = %q, %v", path, found)
	}

	writeConfig(t, dir, "")
	if _, found, _ := ConfigPath(LoadOptions{ConfigDirPath: dir}); !found {
		t.Error("ConfigPath() should find the written file")
	}
}

func TestGenerateCUE(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.OutputDir = "dist"
	out := GenerateCUE(cfg)

	for _, want := range []string{`default_format: 48`, `output_dir:     "dist"`, `dialect: "components"`, `debounce:     "300ms"`} {
		if !strings.Contains(out, want) {
			t.Errorf("GenerateCUE() missing %q:\n%s", want, out)
		}
	}
}
