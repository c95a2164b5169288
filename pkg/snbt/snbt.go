// SPDX-License-Identifier: MPL-2.0

// Package snbt builds and parses the stringified NBT literals used inside
// Minecraft commands.
//
// Values are modelled as a small tree of nodes (strings, integers, lists,
// compounds and item-component blocks) and serialized by a single recursive
// writer. All quoting and escaping happens in Quote, so no caller ever has to
// escape text by hand.
//
//	tag := snbt.NewCompound().
//		Set("id", snbt.String("minecraft:sharpness")).
//		Set("lvl", snbt.Short(5))
//	snbt.Marshal(tag) // {id:"minecraft:sharpness",lvl:5s}
package snbt

import (
	"regexp"
	"strconv"
	"strings"
)

// bareKeyRegex matches compound keys that may be written without quotes.
var bareKeyRegex = regexp.MustCompile(`^[0-9A-Za-z._+-]+$`)

type (
	// Node is a value in an SNBT tree. The set of node types is closed.
	Node interface {
		write(b *strings.Builder)
	}

	// String is a quoted string value.
	String string

	// Byte is an 8-bit integer, written with a "b" suffix.
	Byte int8

	// Short is a 16-bit integer, written with an "s" suffix.
	Short int16

	// Int is a 32-bit integer, written without suffix.
	Int int32

	// Long is a 64-bit integer, written with an "L" suffix.
	Long int64

	// List is an ordered list of values.
	List []Node

	// Compound is an ordered key/value mapping written as {key:value,...}.
	Compound struct {
		fields fields
	}

	// Components is an item-component block written as [key=value,...], the
	// syntax that follows an item id in commands since Minecraft 1.20.5.
	Components struct {
		fields fields
	}

	fields []field

	field struct {
		key   string
		value Node
	}
)

// Marshal serializes a node tree to its SNBT text.
func Marshal(n Node) string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

// Quote wraps s in quotes the way the game's own writer does: the first
// quote character found in s decides the wrapping quote (the other kind),
// backslashes are doubled and occurrences of the wrapping quote are escaped.
// Strings without quotes are wrapped in double quotes.
func Quote(s string) string {
	var body strings.Builder
	body.Grow(len(s) + 2)

	var quote rune
	for _, r := range s {
		switch r {
		case '\\':
			body.WriteByte('\\')
		case '"', '\'':
			if quote == 0 {
				if r == '"' {
					quote = '\''
				} else {
					quote = '"'
				}
			}
			if quote == r {
				body.WriteByte('\\')
			}
		}
		body.WriteRune(r)
	}
	if quote == 0 {
		quote = '"'
	}

	q := string(quote)
	return q + body.String() + q
}

func writeKey(b *strings.Builder, key string) {
	if bareKeyRegex.MatchString(key) {
		b.WriteString(key)
		return
	}
	b.WriteString(Quote(key))
}

func (s String) write(b *strings.Builder) { b.WriteString(Quote(string(s))) }

func (v Byte) write(b *strings.Builder) {
	b.WriteString(strconv.FormatInt(int64(v), 10))
	b.WriteByte('b')
}

func (v Short) write(b *strings.Builder) {
	b.WriteString(strconv.FormatInt(int64(v), 10))
	b.WriteByte('s')
}

func (v Int) write(b *strings.Builder) { b.WriteString(strconv.FormatInt(int64(v), 10)) }

func (v Long) write(b *strings.Builder) {
	b.WriteString(strconv.FormatInt(int64(v), 10))
	b.WriteByte('L')
}

func (l List) write(b *strings.Builder) {
	b.WriteByte('[')
	for i, n := range l {
		if i > 0 {
			b.WriteByte(',')
		}
		n.write(b)
	}
	b.WriteByte(']')
}

// NewCompound returns an empty compound.
func NewCompound() *Compound { return &Compound{} }

// Set stores value under key and returns the compound for chaining. Setting
// an existing key replaces its value and keeps its original position.
func (c *Compound) Set(key string, value Node) *Compound {
	c.fields = c.fields.set(key, value)
	return c
}

// Get returns the value stored under key.
func (c *Compound) Get(key string) (Node, bool) { return c.fields.get(key) }

// Keys returns the keys in insertion order.
func (c *Compound) Keys() []string { return c.fields.keys() }

// Len returns the number of entries.
func (c *Compound) Len() int { return len(c.fields) }

func (c *Compound) write(b *strings.Builder) {
	b.WriteByte('{')
	for i, f := range c.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		writeKey(b, f.key)
		b.WriteByte(':')
		f.value.write(b)
	}
	b.WriteByte('}')
}

// NewComponents returns an empty component block.
func NewComponents() *Components { return &Components{} }

// Set stores value under the component id and returns the block for
// chaining. Setting an existing id replaces its value in place.
func (c *Components) Set(id string, value Node) *Components {
	c.fields = c.fields.set(id, value)
	return c
}

// Get returns the value stored under the component id.
func (c *Components) Get(id string) (Node, bool) { return c.fields.get(id) }

// Keys returns the component ids in insertion order.
func (c *Components) Keys() []string { return c.fields.keys() }

// Len returns the number of components.
func (c *Components) Len() int { return len(c.fields) }

// Component ids are resource locations and are always written bare.
func (c *Components) write(b *strings.Builder) {
	b.WriteByte('[')
	for i, f := range c.fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(f.key)
		b.WriteByte('=')
		f.value.write(b)
	}
	b.WriteByte(']')
}

func (fs fields) set(key string, value Node) fields {
	for i := range fs {
		if fs[i].key == key {
			fs[i].value = value
			return fs
		}
	}
	return append(fs, field{key: key, value: value})
}

func (fs fields) get(key string) (Node, bool) {
	for _, f := range fs {
		if f.key == key {
			return f.value, true
		}
	}
	return nil, false
}

func (fs fields) keys() []string {
	keys := make([]string, len(fs))
	for i, f := range fs {
		keys[i] = f.key
	}
	return keys
}
