// SPDX-License-Identifier: MPL-2.0

// Package definition reads and writes craftpack definition files: the pack,
// item and recipe a data pack is built from.
//
// Definitions may be written in CUE, YAML, TOML or JSON. Whatever the
// format, the content is validated against the embedded CUE schema
// (datapack_schema.cue) before it is turned into a datapack.Definition.
package definition

import (
	_ "embed"

	"github.com/craftpack/craftpack/pkg/datapack"
	"github.com/craftpack/craftpack/pkg/item"
	"github.com/craftpack/craftpack/pkg/naming"
)

const schemaRoot = "#Definition"

//go:embed datapack_schema.cue
var schemaBytes []byte

type (
	// File mirrors the on-disk definition layout.
	File struct {
		Pack   PackFile   `json:"pack" yaml:"pack" toml:"pack"`
		Item   ItemFile   `json:"item" yaml:"item" toml:"item"`
		Recipe RecipeFile `json:"recipe" yaml:"recipe" toml:"recipe"`
	}

	// PackFile is the "pack" section.
	PackFile struct {
		Name        string `json:"name" yaml:"name" toml:"name"`
		Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
		Format      int    `json:"format,omitempty" yaml:"format,omitempty" toml:"format,omitempty"`
		// Namespace is nil when the namespace follows the pack name.
		Namespace *string `json:"namespace,omitempty" yaml:"namespace,omitempty" toml:"namespace,omitempty"`
		Language  string  `json:"language,omitempty" yaml:"language,omitempty" toml:"language,omitempty"`
	}

	// ItemFile is the "item" section.
	ItemFile struct {
		ID           string            `json:"id" yaml:"id" toml:"id"`
		DisplayName  string            `json:"display_name,omitempty" yaml:"display_name,omitempty" toml:"display_name,omitempty"`
		Count        int               `json:"count" yaml:"count" toml:"count"`
		Lore         []string          `json:"lore,omitempty" yaml:"lore,omitempty" toml:"lore,omitempty"`
		Enchantments []EnchantmentFile `json:"enchantments,omitempty" yaml:"enchantments,omitempty" toml:"enchantments,omitempty"`
	}

	// EnchantmentFile is one entry of "item.enchantments".
	EnchantmentFile struct {
		ID    string `json:"id" yaml:"id" toml:"id"`
		Level int    `json:"level" yaml:"level" toml:"level"`
	}

	// RecipeFile is the "recipe" section.
	RecipeFile struct {
		// ID is nil when the recipe id follows the item display name.
		ID          *string  `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
		Ingredients []string `json:"ingredients" yaml:"ingredients" toml:"ingredients"`
	}

	// Defaults fill the fields a definition file leaves unset.
	Defaults struct {
		// Format is used when pack.format is unset.
		Format int
		// Language is used when pack.language is unset.
		Language string
	}
)

// Definition converts the file into a datapack.Definition. A set namespace
// or recipe id is frozen (naming.ModeManual); an unset one follows its
// source field.
func (f *File) Definition(defaults Defaults) datapack.Definition {
	d := datapack.Definition{
		Pack: datapack.PackConfig{
			Name:        f.Pack.Name,
			Description: f.Pack.Description,
			Format:      f.Pack.Format,
			Namespace:   derived(f.Pack.Namespace),
			Language:    f.Pack.Language,
		},
		Item: item.Spec{
			ID:          f.Item.ID,
			DisplayName: f.Item.DisplayName,
			Count:       f.Item.Count,
			Lore:        f.Item.Lore,
		},
		Recipe: datapack.RecipeSpec{
			ID:          derived(f.Recipe.ID),
			Ingredients: f.Recipe.Ingredients,
		},
	}
	for _, e := range f.Item.Enchantments {
		d.Item.Enchantments = append(d.Item.Enchantments, item.Enchantment{ID: e.ID, Level: e.Level})
	}

	if d.Pack.Format < 1 {
		d.Pack.Format = defaults.Format
	}
	if d.Pack.Language == "" {
		d.Pack.Language = defaults.Language
	}
	return d
}

func derived(frozen *string) naming.Derived {
	if frozen == nil {
		return naming.Auto()
	}
	return naming.Manual(*frozen)
}
