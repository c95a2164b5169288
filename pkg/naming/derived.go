// SPDX-License-Identifier: MPL-2.0

package naming

import "fmt"

const (
	// ModeAuto recomputes the token from its source field on every resolve.
	ModeAuto Mode = iota
	// ModeManual keeps the token the user entered, whatever the source says.
	ModeManual
)

type (
	// Mode tells how a Derived token obtains its value.
	Mode int

	// Derived is a token that follows another field until the user edits it
	// directly. The zero value is in ModeAuto.
	//
	// The transition is one-way: Edit moves a Derived value to ModeManual and
	// no operation moves it back.
	Derived struct {
		mode   Mode
		manual Token
	}
)

// Auto returns a Derived token that follows its source field.
func Auto() Derived {
	return Derived{mode: ModeAuto}
}

// Manual returns a Derived token frozen at the normalized form of text.
func Manual(text string) Derived {
	return Derived{mode: ModeManual, manual: Normalize(text)}
}

// Mode reports whether the token is derived or frozen.
func (d Derived) Mode() Mode { return d.mode }

// Edit records a direct edit of the derived field. The result is always in
// ModeManual.
func (d Derived) Edit(text string) Derived {
	return Manual(text)
}

// Resolve returns the effective token. In ModeAuto it normalizes source; in
// ModeManual it ignores source.
func (d Derived) Resolve(source string) Token {
	if d.mode == ModeManual {
		return d.manual
	}
	return Normalize(source)
}

// String returns the name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeManual:
		return "manual"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}
