// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Pack: close({
	name:         string
	format:       int & >=1 | *48
	description?: string
	tags?: [...string]
})
`

type testPack struct {
	Name        string   `json:"name"`
	Format      int      `json:"format"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func TestParseAndDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid CUE decodes", func(t *testing.T) {
		t.Parallel()

		data := []byte(`
name: "Test Pack"
format: 61
description: "d"
tags: ["a", "b"]
`)
		result, err := ParseAndDecode[testPack]([]byte(testSchema), data, "#Pack")
		if err != nil {
			t.Fatalf("ParseAndDecode() error: %v", err)
		}
		if result.Value.Name != "Test Pack" || result.Value.Format != 61 || len(result.Value.Tags) != 2 {
			t.Errorf("decoded = %+v", result.Value)
		}
	})

	t.Run("JSON input is accepted", func(t *testing.T) {
		t.Parallel()

		data := []byte(`{"name": "From JSON", "format": 15}`)
		result, err := ParseAndDecode[testPack]([]byte(testSchema), data, "#Pack", WithFilename("pack.json"))
		if err != nil {
			t.Fatalf("ParseAndDecode() error: %v", err)
		}
		if result.Value.Name != "From JSON" || result.Value.Format != 15 {
			t.Errorf("decoded = %+v", result.Value)
		}
	})

	t.Run("schema default fills missing field", func(t *testing.T) {
		t.Parallel()

		result, err := ParseAndDecode[testPack]([]byte(testSchema), []byte(`name: "x"`), "#Pack")
		if err != nil {
			t.Fatalf("ParseAndDecode() error: %v", err)
		}
		if result.Value.Format != 48 {
			t.Errorf("Format = %d, want default 48", result.Value.Format)
		}
	})

	t.Run("constraint violation names file and path", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testPack]([]byte(testSchema), []byte(`name: "x", format: 0`), "#Pack", WithFilename("datapack.cue"))
		if err == nil {
			t.Fatal("expected error for format 0")
		}
		if !strings.Contains(err.Error(), "datapack.cue") || !strings.Contains(err.Error(), "format") {
			t.Errorf("error should name file and field, got: %v", err)
		}
	})

	t.Run("unknown field rejected by closed schema", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testPack]([]byte(testSchema), []byte(`name: "x", colour: "red"`), "#Pack")
		if err == nil {
			t.Error("expected error for unknown field")
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testPack]([]byte(testSchema), []byte(`format: 48`), "#Pack")
		if err == nil {
			t.Error("expected error for missing name")
		}
	})

	t.Run("syntax error", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testPack]([]byte(testSchema), []byte(`name: "x`), "#Pack", WithFilename("broken.cue"))
		if err == nil || !strings.Contains(err.Error(), "broken.cue") {
			t.Errorf("expected syntax error naming the file, got: %v", err)
		}
	})

	t.Run("size limit", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testPack]([]byte(testSchema), []byte(`name: "a long enough name"`), "#Pack", WithMaxFileSize(4))
		if err == nil || !strings.Contains(err.Error(), "exceeds maximum") {
			t.Errorf("expected size error, got: %v", err)
		}
	})

	t.Run("unknown schema definition", func(t *testing.T) {
		t.Parallel()

		_, err := ParseAndDecode[testPack]([]byte(testSchema), []byte(`name: "x"`), "#Missing")
		if err == nil || !strings.Contains(err.Error(), "#Missing") {
			t.Errorf("expected missing definition error, got: %v", err)
		}
	})
}

func TestParseAndDecode_NonConcreteMap(t *testing.T) {
	t.Parallel()

	schema := `
#Config: close({
	language?: "ru" | "en"
	output_dir?: string
})
`
	result, err := ParseAndDecode[map[string]any]([]byte(schema), []byte(`language: "en"`), "#Config", WithConcrete(false))
	if err != nil {
		t.Fatalf("ParseAndDecode() error: %v", err)
	}
	m := *result.Value
	if m["language"] != "en" {
		t.Errorf("language = %v", m["language"])
	}
	if _, ok := m["output_dir"]; ok {
		t.Error("unset optional field should not be decoded")
	}
}

func TestDecodeValue(t *testing.T) {
	t.Parallel()

	t.Run("map from a YAML or TOML parser", func(t *testing.T) {
		t.Parallel()

		value := map[string]any{
			"name":   "From YAML",
			"format": int64(71),
			"tags":   []any{"x"},
		}
		result, err := DecodeValue[testPack]([]byte(testSchema), value, "#Pack", WithFilename("pack.yaml"))
		if err != nil {
			t.Fatalf("DecodeValue() error: %v", err)
		}
		if result.Value.Name != "From YAML" || result.Value.Format != 71 || result.Value.Tags[0] != "x" {
			t.Errorf("decoded = %+v", result.Value)
		}
	})

	t.Run("type mismatch names file", func(t *testing.T) {
		t.Parallel()

		value := map[string]any{"name": 12}
		_, err := DecodeValue[testPack]([]byte(testSchema), value, "#Pack", WithFilename("pack.toml"))
		if err == nil || !strings.Contains(err.Error(), "pack.toml") {
			t.Errorf("expected error naming pack.toml, got: %v", err)
		}
	})
}
