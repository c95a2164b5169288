// SPDX-License-Identifier: MPL-2.0

package datapack

import (
	"time"

	"github.com/craftpack/craftpack/pkg/command"
)

// DefaultModTime is the modification time stamped on every archive entry.
// A fixed time keeps archives byte-identical for identical definitions.
var DefaultModTime = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

type (
	// buildOptions holds configuration for assembling a pack.
	buildOptions struct {
		dialect  command.Dialect
		modTime  time.Time
		language string
	}

	// Option configures how a pack is assembled.
	Option func(*buildOptions)
)

func defaultOptions() buildOptions {
	return buildOptions{
		dialect: command.DialectComponents,
		modTime: DefaultModTime,
	}
}

func applyOptions(opts []Option) buildOptions {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithDialect sets the give command dialect.
// Default is command.DialectComponents.
func WithDialect(d command.Dialect) Option {
	return func(o *buildOptions) {
		o.dialect = d
	}
}

// WithModTime sets the modification time of archive entries.
// Default is DefaultModTime.
func WithModTime(t time.Time) Option {
	return func(o *buildOptions) {
		o.modTime = t
	}
}

// WithLanguage overrides the README language of the definition.
func WithLanguage(lang string) Option {
	return func(o *buildOptions) {
		o.language = lang
	}
}
