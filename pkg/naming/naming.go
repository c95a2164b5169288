// SPDX-License-Identifier: MPL-2.0

// Package naming turns free-form user text into identifier tokens that are
// safe to use as data pack namespaces, file names and resource paths.
//
// A token is lowercase, uses only [a-z0-9_], is at most MaxLength characters
// long and is never empty: text that normalizes to nothing becomes Fallback.
package naming

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	// Fallback is the token returned when text normalizes to an empty string.
	Fallback Token = "datapack"

	// MaxLength is the maximum number of characters in a token.
	MaxLength = 32

	separator = '_'
)

// ErrInvalidToken is the sentinel error wrapped by InvalidTokenError.
var ErrInvalidToken = errors.New("invalid identifier token")

var tokenRegex = regexp.MustCompile(`^[a-z0-9_]+$`)

type (
	// Token is a normalized identifier: non-empty, at most MaxLength
	// characters, matching [a-z0-9_]+.
	Token string

	// InvalidTokenError is returned when a Token breaks the token invariant.
	InvalidTokenError struct {
		Value Token
	}
)

// Normalize converts arbitrary text into a Token.
//
// The text is lowercased, every run of characters outside [a-z0-9_] becomes a
// single underscore, leading and trailing underscores are stripped and the
// result is cut to MaxLength characters. Underscores exposed by the cut are
// stripped too, so Normalize(Normalize(x)) == Normalize(x) for every x.
func Normalize(text string) Token {
	// cases.Caser keeps state between calls, so each call gets its own.
	lower := cases.Lower(language.Und).String(text)

	var b strings.Builder
	b.Grow(len(lower))

	inRun := false
	for _, r := range lower {
		if isTokenRune(r) {
			b.WriteRune(r)
			inRun = false
			continue
		}
		if !inRun {
			b.WriteByte(separator)
			inRun = true
		}
	}

	s := strings.Trim(b.String(), string(separator))
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], string(separator))
	}
	if s == "" {
		return Fallback
	}
	return Token(s)
}

func isTokenRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == separator
}

// String returns the string representation of the Token.
func (t Token) String() string { return string(t) }

// IsValid returns whether the Token satisfies the token invariant.
func (t Token) IsValid() (bool, []error) {
	if len(t) == 0 || len(t) > MaxLength || !tokenRegex.MatchString(string(t)) {
		return false, []error{&InvalidTokenError{Value: t}}
	}
	return true, nil
}

// Error implements the error interface for InvalidTokenError.
func (e *InvalidTokenError) Error() string {
	return fmt.Sprintf("invalid identifier token %q (must be 1-%d characters of [a-z0-9_])", e.Value, MaxLength)
}

// Unwrap returns ErrInvalidToken for errors.Is() compatibility.
func (e *InvalidTokenError) Unwrap() error { return ErrInvalidToken }
