// SPDX-License-Identifier: MPL-2.0

package snbt

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrSyntax is the sentinel error wrapped by SyntaxError.
var ErrSyntax = errors.New("snbt syntax error")

var integerRegex = regexp.MustCompile(`^[-+]?[0-9]+[bBsSlL]?$`)

type (
	// SyntaxError reports where parsing stopped and why.
	SyntaxError struct {
		// Offset is the byte offset in the input where the problem was found.
		Offset int
		// Msg describes the problem.
		Msg string
	}

	parser struct {
		src string
		pos int
	}
)

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	return fmt.Sprintf("snbt: %s at offset %d", e.Msg, e.Offset)
}

// Unwrap returns ErrSyntax for errors.Is() compatibility.
func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// Parse reads a single SNBT value. The whole input must be consumed apart
// from surrounding whitespace.
//
// Supported: compounds, lists, quoted and bare strings, integers with the
// b/s/L suffixes, and true/false as bytes. Typed arrays and floating point
// numbers are not supported.
func Parse(s string) (Node, error) {
	p := &parser{src: s}
	n, err := p.value()
	if err != nil {
		return nil, err
	}
	if err := p.end(); err != nil {
		return nil, err
	}
	return n, nil
}

// ParseComponents reads an item-component block such as
// [custom_name='{"text":"Blade"}',lore=[...]].
func ParseComponents(s string) (*Components, error) {
	p := &parser{src: s}
	p.skipSpace()
	if err := p.expect('['); err != nil {
		return nil, err
	}

	c := NewComponents()
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return c, p.end()
	}

	for {
		p.skipSpace()
		start := p.pos
		for p.pos < len(p.src) && isComponentKeyByte(p.src[p.pos]) {
			p.pos++
		}
		if p.pos == start {
			return nil, p.errorf("expected component id")
		}
		key := p.src[start:p.pos]

		p.skipSpace()
		if err := p.expect('='); err != nil {
			return nil, err
		}
		p.skipSpace()
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		c.Set(key, v)

		more, err := p.separator(']')
		if err != nil {
			return nil, err
		}
		if !more {
			return c, p.end()
		}
	}
}

func (p *parser) value() (Node, error) {
	p.skipSpace()
	switch p.peek() {
	case '{':
		return p.compound()
	case '[':
		return p.list()
	case '"', '\'':
		s, err := p.quoted()
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case 0:
		return nil, p.errorf("unexpected end of input")
	default:
		return p.bare()
	}
}

func (p *parser) compound() (Node, error) {
	p.pos++ // '{'
	c := NewCompound()
	p.skipSpace()
	if p.peek() == '}' {
		p.pos++
		return c, nil
	}

	for {
		p.skipSpace()
		key, err := p.key()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if err := p.expect(':'); err != nil {
			return nil, err
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		c.Set(key, v)

		more, err := p.separator('}')
		if err != nil {
			return nil, err
		}
		if !more {
			return c, nil
		}
	}
}

func (p *parser) list() (Node, error) {
	p.pos++ // '['
	if p.pos+1 < len(p.src) && p.src[p.pos+1] == ';' {
		return nil, p.errorf("typed arrays are not supported")
	}

	l := List{}
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return l, nil
	}

	for {
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		l = append(l, v)

		more, err := p.separator(']')
		if err != nil {
			return nil, err
		}
		if !more {
			return l, nil
		}
	}
}

// separator consumes either ',' (more entries follow) or the closing byte.
func (p *parser) separator(closing byte) (bool, error) {
	p.skipSpace()
	switch p.peek() {
	case ',':
		p.pos++
		return true, nil
	case closing:
		p.pos++
		return false, nil
	default:
		return false, p.errorf("expected ',' or '%c'", closing)
	}
}

func (p *parser) key() (string, error) {
	if c := p.peek(); c == '"' || c == '\'' {
		return p.quoted()
	}
	start := p.pos
	for p.pos < len(p.src) && isBareByte(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected key")
	}
	return p.src[start:p.pos], nil
}

func (p *parser) quoted() (string, error) {
	quote := p.src[p.pos]
	p.pos++

	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == quote:
			p.pos++
			return b.String(), nil
		case c == '\\':
			if p.pos+1 >= len(p.src) {
				return "", p.errorf("unterminated escape")
			}
			next := p.src[p.pos+1]
			if next != '\\' && next != '"' && next != '\'' {
				return "", p.errorf("invalid escape '\\%c'", next)
			}
			b.WriteByte(next)
			p.pos += 2
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.errorf("unterminated string")
}

func (p *parser) bare() (Node, error) {
	start := p.pos
	for p.pos < len(p.src) && isBareByte(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return nil, p.errorf("unexpected character %q", p.src[p.pos])
	}
	token := p.src[start:p.pos]

	switch token {
	case "true":
		return Byte(1), nil
	case "false":
		return Byte(0), nil
	}
	if !integerRegex.MatchString(token) {
		return String(token), nil
	}

	digits, suffix := token, byte(0)
	if last := token[len(token)-1]; last > '9' {
		digits, suffix = token[:len(token)-1], last|0x20 // lowercase
	}

	bits := 32
	switch suffix {
	case 'b':
		bits = 8
	case 's':
		bits = 16
	case 'l':
		bits = 64
	}
	v, err := strconv.ParseInt(digits, 10, bits)
	if err != nil {
		p.pos = start
		return nil, p.errorf("integer %s out of range", token)
	}

	switch suffix {
	case 'b':
		return Byte(v), nil
	case 's':
		return Short(v), nil
	case 'l':
		return Long(v), nil
	default:
		return Int(v), nil
	}
}

func (p *parser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expected '%c'", c)
	}
	p.pos++
	return nil
}

func (p *parser) end() error {
	p.skipSpace()
	if p.pos != len(p.src) {
		return p.errorf("unexpected trailing input")
	}
	return nil
}

func (p *parser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}

func (p *parser) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func isBareByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		c == '.' || c == '_' || c == '+' || c == '-'
}

func isComponentKeyByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') ||
		c == '_' || c == '.' || c == '-' || c == ':' || c == '/'
}
