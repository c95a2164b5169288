// SPDX-License-Identifier: MPL-2.0

package definition

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/craftpack/craftpack/pkg/cueutil"
	"github.com/craftpack/craftpack/pkg/datapack"

	"cuelang.org/go/cue/ast"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/format"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	// FormatCUE is the CUE definition format.
	FormatCUE Format = "cue"
	// FormatYAML is the YAML definition format.
	FormatYAML Format = "yaml"
	// FormatTOML is the TOML definition format.
	FormatTOML Format = "toml"
	// FormatJSON is the JSON definition format.
	FormatJSON Format = "json"

	// BaseName is the file name, without extension, looked up by Find.
	BaseName = "datapack"
)

var (
	// ErrUnsupportedFormat is the sentinel error wrapped by UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported definition format")

	// ErrNotFound is returned when Find locates no definition file.
	ErrNotFound = errors.New("definition file not found")
)

type (
	// Format is a definition file encoding.
	Format string

	// UnsupportedFormatError is returned for file extensions and format
	// names that are not a known Format.
	UnsupportedFormatError struct {
		Value string
	}
)

// Formats returns the supported formats in lookup order.
func Formats() []Format {
	return []Format{FormatCUE, FormatYAML, FormatTOML, FormatJSON}
}

// String returns the string representation of the Format.
func (f Format) String() string { return string(f) }

// IsValid returns whether the Format is one of the defined values.
func (f Format) IsValid() (bool, []error) {
	switch f {
	case FormatCUE, FormatYAML, FormatTOML, FormatJSON:
		return true, nil
	default:
		return false, []error{&UnsupportedFormatError{Value: string(f)}}
	}
}

// Ext returns the file extension for the format, including the dot.
func (f Format) Ext() string { return "." + string(f) }

// FormatFromPath returns the format matching the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".cue":
		return FormatCUE, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", &UnsupportedFormatError{Value: ext}
	}
}

// Error implements the error interface for UnsupportedFormatError.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported definition format %q (use .cue, .yaml, .yml, .toml or .json)", e.Value)
}

// Unwrap returns ErrUnsupportedFormat for errors.Is() compatibility.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// Decode validates data against the definition schema and decodes it. The
// format is chosen from the extension of filename, which also prefixes
// error messages.
func Decode(data []byte, filename string) (*File, error) {
	f, err := FormatFromPath(filename)
	if err != nil {
		return nil, err
	}

	opts := []cueutil.Option{cueutil.WithFilename(filename)}
	switch f {
	case FormatCUE, FormatJSON:
		result, err := cueutil.ParseAndDecode[File](schemaBytes, data, schemaRoot, opts...)
		if err != nil {
			return nil, err
		}
		return result.Value, nil
	default:
		if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, filename); err != nil {
			return nil, err
		}
		raw, err := unmarshalRaw(f, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		result, err := cueutil.DecodeValue[File](schemaBytes, raw, schemaRoot, opts...)
		if err != nil {
			return nil, err
		}
		return result.Value, nil
	}
}

// unmarshalRaw decodes YAML or TOML into plain maps so that the schema, not
// the Go struct, decides which fields are allowed.
func unmarshalRaw(f Format, data []byte) (map[string]any, error) {
	raw := map[string]any{}
	switch f {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	default:
		return nil, &UnsupportedFormatError{Value: string(f)}
	}
	return raw, nil
}

// Parse decodes data and converts it into a datapack.Definition.
func Parse(data []byte, filename string, defaults Defaults) (datapack.Definition, error) {
	f, err := Decode(data, filename)
	if err != nil {
		return datapack.Definition{}, err
	}
	return f.Definition(defaults), nil
}

// Load reads and parses the definition file at path.
func Load(path string, defaults Defaults) (datapack.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return datapack.Definition{}, fmt.Errorf("failed to read definition: %w", err)
	}
	return Parse(data, path, defaults)
}

// Find returns the first of datapack.cue, datapack.yaml, datapack.yml,
// datapack.toml and datapack.json that exists in dir.
func Find(dir string) (string, error) {
	for _, name := range candidateNames() {
		p := filepath.Join(dir, name)
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s)", ErrNotFound, dir, strings.Join(candidateNames(), ", "))
}

func candidateNames() []string {
	return []string{
		BaseName + ".cue",
		BaseName + ".yaml",
		BaseName + ".yml",
		BaseName + ".toml",
		BaseName + ".json",
	}
}

// Encode writes f in the given format. The output decodes back to f.
func Encode(f *File, to Format) ([]byte, error) {
	// A nil list would be written as null, which the schema rejects.
	if f.Recipe.Ingredients == nil {
		c := *f
		c.Recipe.Ingredients = []string{}
		f = &c
	}

	switch to {
	case FormatCUE:
		return encodeCUE(f)
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode YAML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatTOML:
		var buf bytes.Buffer
		enc := toml.NewEncoder(&buf)
		enc.SetIndentTables(true)
		if err := enc.Encode(f); err != nil {
			return nil, fmt.Errorf("failed to encode TOML: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(f); err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, &UnsupportedFormatError{Value: string(to)}
	}
}

// encodeCUE renders f as a top-level CUE file (no enclosing braces).
func encodeCUE(f *File) ([]byte, error) {
	v := cuecontext.New().Encode(f)
	if v.Err() != nil {
		return nil, fmt.Errorf("failed to encode CUE: %w", v.Err())
	}

	node := v.Syntax()
	if lit, ok := node.(*ast.StructLit); ok {
		node = &ast.File{Decls: lit.Elts}
	}
	out, err := format.Node(node)
	if err != nil {
		return nil, fmt.Errorf("failed to format CUE: %w", err)
	}
	return out, nil
}
