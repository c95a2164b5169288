// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"fmt"
)

const (
	// DialectComponents writes item data as an item-component block
	// (id[custom_name=...,lore=[...],enchantments={...}]), the syntax used
	// since Minecraft 1.20.5.
	DialectComponents Dialect = "components"
	// DialectLegacy writes item data as an NBT tag
	// (id{display:{Name:...,Lore:[...]},Enchantments:[...]}).
	DialectLegacy Dialect = "legacy"
	// DialectAuto picks a dialect from the pack format.
	DialectAuto Dialect = "auto"

	// ComponentsSinceFormat is the first data pack format whose game version
	// reads item-component blocks.
	ComponentsSinceFormat = 41
)

// ErrInvalidDialect is the sentinel error wrapped by InvalidDialectError.
var ErrInvalidDialect = errors.New("invalid command dialect")

type (
	// Dialect selects the item data syntax written into a give command.
	Dialect string

	// InvalidDialectError is returned when a Dialect value is not recognized.
	InvalidDialectError struct {
		Value Dialect
	}
)

// Dialects returns every accepted dialect name.
func Dialects() []Dialect {
	return []Dialect{DialectComponents, DialectLegacy, DialectAuto}
}

// String returns the string representation of the Dialect.
func (d Dialect) String() string { return string(d) }

// IsValid returns whether the Dialect is one of the defined values. The
// empty dialect is valid and means DialectComponents.
func (d Dialect) IsValid() (bool, []error) {
	switch d {
	case "", DialectComponents, DialectLegacy, DialectAuto:
		return true, nil
	default:
		return false, []error{&InvalidDialectError{Value: d}}
	}
}

// ForFormat resolves DialectAuto (and the empty dialect) against a pack
// format. Concrete dialects are returned unchanged.
func (d Dialect) ForFormat(packFormat int) Dialect {
	switch d {
	case DialectAuto:
		if packFormat > 0 && packFormat < ComponentsSinceFormat {
			return DialectLegacy
		}
		return DialectComponents
	case "":
		return DialectComponents
	default:
		return d
	}
}

// Error implements the error interface for InvalidDialectError.
func (e *InvalidDialectError) Error() string {
	return fmt.Sprintf("invalid command dialect %q (valid: %s, %s, %s)", e.Value, DialectComponents, DialectLegacy, DialectAuto)
}

// Unwrap returns ErrInvalidDialect for errors.Is() compatibility.
func (e *InvalidDialectError) Unwrap() error { return ErrInvalidDialect }
