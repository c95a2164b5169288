// SPDX-License-Identifier: MPL-2.0

package datapack

import (
	"github.com/craftpack/craftpack/pkg/command"
	"github.com/craftpack/craftpack/pkg/item"
	"github.com/craftpack/craftpack/pkg/naming"
)

type (
	// PackConfig is the pack-level metadata.
	PackConfig struct {
		// Name is the human-readable pack name. The archive file name and the
		// automatic namespace are derived from it.
		Name string
		// Description is written to pack.mcmeta.
		Description string
		// Format is the pack_format number. Values below 1 mean DefaultFormat.
		Format int
		// Namespace follows Name until it is edited directly.
		Namespace naming.Derived
		// Language selects the README language ("ru" or "en"). Other values
		// are matched to the closest supported language.
		Language string
	}

	// RecipeSpec is the shapeless crafting recipe that produces the item.
	RecipeSpec struct {
		// ID follows the item display name (or the item id when the display
		// name is empty) until it is edited directly.
		ID naming.Derived
		// Ingredients are item identifiers, or tag references when they
		// start with "#".
		Ingredients []string
	}

	// Definition is everything needed to build a data pack.
	Definition struct {
		Pack   PackConfig
		Item   item.Spec
		Recipe RecipeSpec
	}
)

// Namespace returns the resolved pack namespace.
func (d Definition) Namespace() naming.Token {
	return d.Pack.Namespace.Resolve(d.Pack.Name)
}

// RecipeID returns the resolved recipe identifier.
func (d Definition) RecipeID() naming.Token {
	source := d.Item.DisplayName
	if source == "" {
		source = d.Item.ID
	}
	return d.Recipe.ID.Resolve(source)
}

// Format returns the pack_format written to pack.mcmeta.
func (d Definition) Format() int {
	if d.Pack.Format < 1 {
		return DefaultFormat
	}
	return d.Pack.Format
}

// ArchiveName returns the conventional file name of the built archive,
// "<normalized pack name>.zip".
func (d Definition) ArchiveName() string {
	return naming.Normalize(d.Pack.Name).String() + ".zip"
}

// GiveCommand returns the give command written to the function file.
func (d Definition) GiveCommand(dialect command.Dialect) string {
	return command.EncodeWith(d.Item, command.Options{
		Dialect:    dialect,
		PackFormat: d.Format(),
	})
}
