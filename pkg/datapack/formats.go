// SPDX-License-Identifier: MPL-2.0

package datapack

import (
	"errors"
	"fmt"
)

// DefaultFormat is the pack format used when a definition does not set one
// (Minecraft 1.21 - 1.21.1).
const DefaultFormat = 48

// ErrInvalidFormat is the sentinel error wrapped by InvalidFormatError.
var ErrInvalidFormat = errors.New("invalid pack format")

type (
	// Format describes one data pack format number and the game versions
	// that read it.
	Format struct {
		Number   int
		Versions string
	}

	// InvalidFormatError is returned when a pack format is not a positive
	// integer.
	InvalidFormatError struct {
		Value int
	}
)

// formats is ordered newest first.
var formats = []Format{
	{Number: 88, Versions: "1.21.9 - 1.21.10"},
	{Number: 71, Versions: "1.21.5"},
	{Number: 61, Versions: "1.21.4"},
	{Number: 57, Versions: "1.21.2 - 1.21.3"},
	{Number: 48, Versions: "1.21 - 1.21.1"},
	{Number: 41, Versions: "1.20.5 - 1.20.6"},
	{Number: 26, Versions: "1.20.3 - 1.20.4"},
	{Number: 18, Versions: "1.20.2"},
	{Number: 15, Versions: "1.20 - 1.20.1"},
}

// Formats returns the known pack formats, newest first.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// LookupFormat returns the known format with the given number.
func LookupFormat(number int) (Format, bool) {
	for _, f := range formats {
		if f.Number == number {
			return f, true
		}
	}
	return Format{}, false
}

// ValidateFormat checks that number can be written as a pack_format. Unknown
// but positive numbers are accepted; the game decides what it reads.
func ValidateFormat(number int) error {
	if number < 1 {
		return &InvalidFormatError{Value: number}
	}
	return nil
}

// String returns "<number> (<versions>)".
func (f Format) String() string {
	return fmt.Sprintf("%d (%s)", f.Number, f.Versions)
}

// Error implements the error interface for InvalidFormatError.
func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid pack format %d (must be a positive integer)", e.Value)
}

// Unwrap returns ErrInvalidFormat for errors.Is() compatibility.
func (e *InvalidFormatError) Unwrap() error { return ErrInvalidFormat }
