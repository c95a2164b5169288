// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/craftpack/craftpack/pkg/command"
	"github.com/craftpack/craftpack/pkg/datapack"

	"golang.org/x/text/language"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultLanguage is the README language used when nothing else is set.
	DefaultLanguage = "ru"
	// DefaultDebounce is the quiet period the watcher waits for.
	DefaultDebounce = 300 * time.Millisecond
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLanguage is the sentinel error wrapped by InvalidLanguageError.
	ErrInvalidLanguage = errors.New("invalid language")
	// ErrInvalidOutputDir is returned when an OutputDir value is whitespace-only.
	ErrInvalidOutputDir = errors.New("invalid output dir")
	// ErrInvalidDebounce is returned for negative debounce durations.
	ErrInvalidDebounce = errors.New("invalid debounce")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme selects the palette for styled output.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// Language is a BCP 47 tag such as "ru" or "en-GB".
	Language string

	// InvalidLanguageError is returned when a Language does not parse.
	InvalidLanguageError struct {
		Value Language
	}

	// OutputDir is the directory archives are written into.
	OutputDir string

	// InvalidOutputDirError is returned when a non-empty OutputDir is blank.
	InvalidOutputDirError struct {
		Value OutputDir
	}

	// InvalidDebounceError is returned for a negative watch debounce.
	InvalidDebounceError struct {
		Value time.Duration
	}

	// InvalidConfigError aggregates the field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// DefaultFormat is the pack_format for definitions that set none.
		DefaultFormat int `json:"default_format" mapstructure:"default_format"`
		// Language is the README language for definitions that set none.
		Language Language `json:"language" mapstructure:"language"`
		// OutputDir is where build writes archives; empty means next to the definition.
		OutputDir OutputDir `json:"output_dir" mapstructure:"output_dir"`
		// Command configures /give command generation.
		Command CommandConfig `json:"command" mapstructure:"command"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
		// Watch configures preview --watch.
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// CommandConfig configures the generated /give command.
	CommandConfig struct {
		Dialect command.Dialect `json:"dialect" mapstructure:"dialect"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging and error chains
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// WatchConfig configures the definition watcher.
	WatchConfig struct {
		// Debounce is the quiet period before a change triggers a re-render.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
		// ClearScreen clears the terminal before each re-render.
		ClearScreen bool `json:"clear_screen" mapstructure:"clear_screen"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultFormat: datapack.DefaultFormat,
		Language:      DefaultLanguage,
		OutputDir:     "",
		Command: CommandConfig{
			Dialect: command.DialectComponents,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
		Watch: WatchConfig{
			Debounce:    DefaultDebounce,
			ClearScreen: true,
		},
	}
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if err := datapack.ValidateFormat(c.DefaultFormat); err != nil {
		errs = append(errs, err)
	}
	if valid, fieldErrs := c.Language.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.OutputDir.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Command.Dialect.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Watch.Debounce < 0 {
		errs = append(errs, &InvalidDebounceError{Value: c.Watch.Debounce})
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is()
// compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// Settings flattens the configuration into nested maps keyed like the
// config file, for dumping in any of the definition encodings.
func (c Config) Settings() map[string]any {
	return map[string]any{
		"default_format": c.DefaultFormat,
		"language":       string(c.Language),
		"output_dir":     string(c.OutputDir),
		"command": map[string]any{
			"dialect": string(c.Command.Dialect),
		},
		"ui": map[string]any{
			"color_scheme": string(c.UI.ColorScheme),
			"verbose":      c.UI.Verbose,
		},
		"watch": map[string]any{
			"debounce":     c.Watch.Debounce.String(),
			"clear_screen": c.Watch.ClearScreen,
		},
	}
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the Language.
func (l Language) String() string { return string(l) }

// IsValid returns whether the Language is a well-formed BCP 47 tag.
func (l Language) IsValid() (bool, []error) {
	if _, err := language.Parse(string(l)); err != nil {
		return false, []error{&InvalidLanguageError{Value: l}}
	}
	return true, nil
}

// Error implements the error interface for InvalidLanguageError.
func (e *InvalidLanguageError) Error() string {
	return fmt.Sprintf("invalid language %q (use a BCP 47 tag such as ru or en)", e.Value)
}

// Unwrap returns ErrInvalidLanguage for errors.Is() compatibility.
func (e *InvalidLanguageError) Unwrap() error { return ErrInvalidLanguage }

// String returns the string representation of the OutputDir.
func (d OutputDir) String() string { return string(d) }

// IsValid returns whether the OutputDir is valid. The zero value is valid
// (it means "next to the definition file").
func (d OutputDir) IsValid() (bool, []error) {
	if d == "" {
		return true, nil
	}
	if strings.TrimSpace(string(d)) == "" {
		return false, []error{&InvalidOutputDirError{Value: d}}
	}
	return true, nil
}

// Error implements the error interface for InvalidOutputDirError.
func (e *InvalidOutputDirError) Error() string {
	return fmt.Sprintf("invalid output dir %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidOutputDir for errors.Is() compatibility.
func (e *InvalidOutputDirError) Unwrap() error { return ErrInvalidOutputDir }

// Error implements the error interface for InvalidDebounceError.
func (e *InvalidDebounceError) Error() string {
	return fmt.Sprintf("invalid watch debounce %s: must not be negative", e.Value)
}

// Unwrap returns ErrInvalidDebounce for errors.Is() compatibility.
func (e *InvalidDebounceError) Unwrap() error { return ErrInvalidDebounce }
