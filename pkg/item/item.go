// SPDX-License-Identifier: MPL-2.0

// Package item describes the custom item a data pack hands out: its
// identifier, display name, stack count, lore lines and enchantments.
//
// The accessors on Spec apply the defaulting rules shared by the give
// command and the crafting recipe, so both artifacts always agree.
package item

import "strings"

const (
	// MinCount is the smallest stack size produced by EffectiveCount.
	MinCount = 1
	// MaxCount is the largest stack size produced by EffectiveCount.
	MaxCount = 64

	// MinLevel is the smallest enchantment level produced by ResolvedEnchantments.
	MinLevel = 1
	// MaxLevel is the highest enchantment level a definition may request.
	MaxLevel = 10
)

type (
	// Spec is the item handed out by the give command and produced by the
	// recipe.
	Spec struct {
		// ID is a game identifier such as "minecraft:diamond_sword".
		ID string
		// DisplayName is the custom name shown in game. Empty means none.
		DisplayName string
		// Count is the stack size, meant to lie in [MinCount, MaxCount].
		Count int
		// Lore holds the tooltip lines in order.
		Lore []string
		// Enchantments holds the requested enchantments in order.
		Enchantments []Enchantment
	}

	// Enchantment pairs an enchantment identifier with its level.
	Enchantment struct {
		ID    string
		Level int
	}
)

// EffectiveCount returns Count clamped to [MinCount, MaxCount]. A zero or
// negative count means "one item".
func (s Spec) EffectiveCount() int {
	switch {
	case s.Count < MinCount:
		return MinCount
	case s.Count > MaxCount:
		return MaxCount
	default:
		return s.Count
	}
}

// NonEmptyLore returns the lore lines without the empty ones. Lines made of
// whitespace are kept; they render as blank tooltip lines.
func (s Spec) NonEmptyLore() []string {
	lore := make([]string, 0, len(s.Lore))
	for _, line := range s.Lore {
		if line != "" {
			lore = append(lore, line)
		}
	}
	return lore
}

// ResolvedEnchantments returns the enchantments that end up on the item.
//
// Identifiers are trimmed and entries with an empty identifier are skipped.
// When an identifier repeats, the last level wins and the entry keeps the
// position of its first occurrence. Levels are clamped to [MinLevel, MaxLevel].
func (s Spec) ResolvedEnchantments() []Enchantment {
	out := make([]Enchantment, 0, len(s.Enchantments))
	index := make(map[string]int, len(s.Enchantments))

	for _, e := range s.Enchantments {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			continue
		}
		level := min(max(e.Level, MinLevel), MaxLevel)
		if i, seen := index[id]; seen {
			out[i].Level = level
			continue
		}
		index[id] = len(out)
		out = append(out, Enchantment{ID: id, Level: level})
	}
	return out
}
