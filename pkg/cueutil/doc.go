// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user files against embedded CUE schemas and
// decodes them into Go structs.
//
// Every caller follows the same three steps: compile the schema, unify the
// user value with a root definition, then validate and decode. CUE and JSON
// sources are compiled directly; YAML and TOML sources are decoded by their
// own parsers first and handed over as Go values.
//
//	//go:embed datapack_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[File](
//	    schemaBytes,
//	    data,
//	    "#Definition",
//	    cueutil.WithFilename("datapack.cue"),
//	)
//	if err != nil {
//	    return nil, err // carries "<file>: <path>: <message>"
//	}
//	return result.Value, nil
package cueutil
