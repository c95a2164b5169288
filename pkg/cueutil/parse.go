// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult contains the result of a successful parse.
type ParseResult[T any] struct {
	// Value is the decoded Go value.
	Value *T

	// Unified is the user value unified with the schema definition, with
	// schema defaults filled in.
	Unified cue.Value
}

// ParseAndDecode compiles data as CUE (JSON is accepted as a subset), unifies
// it with the schemaPath definition of schema (e.g. "#Definition") and decodes
// the result into T.
//
// Errors carry the file name and the JSON path of the offending field.
func ParseAndDecode[T any](schema, data []byte, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	o := applyOptions(opts)

	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	userValue := ctx.CompileBytes(data, cue.Filename(o.filename))
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), o.filename)
	}

	return unifyAndDecode[T](ctx, schema, userValue, schemaPath, o)
}

// DecodeValue validates an already-decoded Go value (typically the map
// produced by a YAML or TOML parser) against the schemaPath definition of
// schema and decodes the result into T.
//
// The size limit does not apply; check the raw bytes with CheckFileSize
// before decoding them.
func DecodeValue[T any](schema []byte, value any, schemaPath string, opts ...Option) (*ParseResult[T], error) {
	o := applyOptions(opts)

	ctx := cuecontext.New()
	userValue := ctx.Encode(value)
	if userValue.Err() != nil {
		return nil, FormatError(userValue.Err(), o.filename)
	}

	return unifyAndDecode[T](ctx, schema, userValue, schemaPath, o)
}

func unifyAndDecode[T any](ctx *cue.Context, schema []byte, userValue cue.Value, schemaPath string, o parseOptions) (*ParseResult[T], error) {
	schemaValue := ctx.CompileBytes(schema)
	if schemaValue.Err() != nil {
		return nil, fmt.Errorf("internal error: failed to compile schema: %w", schemaValue.Err())
	}

	schemaRoot := schemaValue.LookupPath(cue.ParsePath(schemaPath))
	if schemaRoot.Err() != nil {
		return nil, fmt.Errorf("internal error: schema definition %s not found: %w", schemaPath, schemaRoot.Err())
	}

	unified := schemaRoot.Unify(userValue)
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, o.filename)
	}

	var result T
	if err := unified.Decode(&result); err != nil {
		return nil, FormatError(err, o.filename)
	}

	return &ParseResult[T]{
		Value:   &result,
		Unified: unified,
	}, nil
}
