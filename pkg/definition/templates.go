// SPDX-License-Identifier: MPL-2.0

package definition

import (
	"errors"
	"fmt"
)

const (
	// TemplateDefault is the starter pack: an enchanted sword with a
	// custom name, two lore lines and a three-ingredient recipe.
	TemplateDefault = "default"
	// TemplateMinimal is a bare item with a two-ingredient recipe.
	TemplateMinimal = "minimal"
)

// ErrUnknownTemplate is returned by Template for names it does not know.
var ErrUnknownTemplate = errors.New("unknown template")

// TemplateNames returns the names accepted by Template.
func TemplateNames() []string {
	return []string{TemplateDefault, TemplateMinimal}
}

// Template returns a fresh copy of the named starter definition.
func Template(name string) (*File, error) {
	switch name {
	case TemplateDefault:
		return &File{
			Pack: PackFile{
				Name:        "Легендарный клинок",
				Description: "Лёгкий мод, добавляющий уникальный меч со своим рецептом.",
			},
			Item: ItemFile{
				ID:          "minecraft:diamond_sword",
				DisplayName: "Клинок Предков",
				Count:       1,
				Lore: []string{
					"Дар древних кузнецов",
					"Наносит дополнительный урон монстрам",
				},
				Enchantments: []EnchantmentFile{
					{ID: "minecraft:sharpness", Level: 5},
					{ID: "minecraft:unbreaking", Level: 3},
				},
			},
			Recipe: RecipeFile{
				Ingredients: []string{
					"minecraft:nether_star",
					"minecraft:diamond_sword",
					"minecraft:dragon_breath",
				},
			},
		}, nil
	case TemplateMinimal:
		return &File{
			Pack: PackFile{
				Name:        "My Pack",
				Description: "A single custom item.",
			},
			Item: ItemFile{
				ID:    "minecraft:stick",
				Count: 1,
			},
			Recipe: RecipeFile{
				Ingredients: []string{"minecraft:stick", "#minecraft:planks"},
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w %q (available: %v)", ErrUnknownTemplate, name, TemplateNames())
	}
}
