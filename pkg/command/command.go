// SPDX-License-Identifier: MPL-2.0

// Package command renders an item.Spec into the in-game give command that
// hands the item to a player, and decodes such commands back.
//
// The item data (custom name, lore, enchantments) is built as an snbt tree
// and serialized in one pass, so user text is escaped in exactly one place.
// Text shown in game is wrapped in JSON text components first:
//
//	give @p minecraft:diamond_sword[custom_name='{"text":"Blade"}',lore=['{"text":"line one"}'],enchantments={"minecraft:sharpness":5}] 1
package command

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/craftpack/craftpack/pkg/item"
	"github.com/craftpack/craftpack/pkg/snbt"
)

// DefaultTarget is the target selector used when Options.Target is empty.
const DefaultTarget = "@p"

const (
	componentCustomName   = "custom_name"
	componentLore         = "lore"
	componentEnchantments = "enchantments"

	legacyDisplay      = "display"
	legacyName         = "Name"
	legacyLore         = "Lore"
	legacyEnchantments = "Enchantments"
	legacyID           = "id"
	legacyLevel        = "lvl"
)

type (
	// Options tune how a command is rendered. The zero value renders the
	// component dialect for the nearest player.
	Options struct {
		// Dialect selects the item data syntax. DialectAuto is resolved
		// against PackFormat.
		Dialect Dialect
		// PackFormat is the data pack format the command is written for.
		PackFormat int
		// Target is the target selector. Empty means DefaultTarget.
		Target string
	}

	textComponent struct {
		Text string `json:"text"`
	}
)

// Encode renders the give command for s with default options.
func Encode(s item.Spec) string {
	return EncodeWith(s, Options{})
}

// EncodeWith renders the give command for s.
//
// The shape is "give <target> <id><data> <count>". The data block is omitted
// when the item has no custom name, no lore and no enchantments. The count
// is s.EffectiveCount(). Encoding never fails; malformed identifiers are
// passed through as written.
func EncodeWith(s item.Spec, opts Options) string {
	target := opts.Target
	if target == "" {
		target = DefaultTarget
	}

	var b strings.Builder
	b.WriteString("give ")
	b.WriteString(target)
	b.WriteByte(' ')
	b.WriteString(s.ID)
	if data, ok := Data(s, opts.Dialect.ForFormat(opts.PackFormat)); ok {
		b.WriteString(snbt.Marshal(data))
	}
	b.WriteByte(' ')
	b.WriteString(strconv.Itoa(s.EffectiveCount()))
	return b.String()
}

// Data builds the item data block for s in the given dialect. It reports
// false when there is nothing to write. DialectAuto and the empty dialect
// are treated as DialectComponents.
func Data(s item.Spec, dialect Dialect) (snbt.Node, bool) {
	lore := make(snbt.List, 0, len(s.Lore))
	for _, line := range s.NonEmptyLore() {
		lore = append(lore, snbt.String(TextComponent(line)))
	}
	enchantments := s.ResolvedEnchantments()

	if dialect == DialectLegacy {
		return legacyData(s.DisplayName, lore, enchantments)
	}

	block := snbt.NewComponents()
	if s.DisplayName != "" {
		block.Set(componentCustomName, snbt.String(TextComponent(s.DisplayName)))
	}
	if len(lore) > 0 {
		block.Set(componentLore, lore)
	}
	if len(enchantments) > 0 {
		levels := snbt.NewCompound()
		for _, e := range enchantments {
			levels.Set(e.ID, snbt.Int(e.Level))
		}
		block.Set(componentEnchantments, levels)
	}
	return block, block.Len() > 0
}

func legacyData(displayName string, lore snbt.List, enchantments []item.Enchantment) (snbt.Node, bool) {
	tag := snbt.NewCompound()

	display := snbt.NewCompound()
	if displayName != "" {
		display.Set(legacyName, snbt.String(TextComponent(displayName)))
	}
	if len(lore) > 0 {
		display.Set(legacyLore, lore)
	}
	if display.Len() > 0 {
		tag.Set(legacyDisplay, display)
	}

	if len(enchantments) > 0 {
		list := make(snbt.List, 0, len(enchantments))
		for _, e := range enchantments {
			list = append(list, snbt.NewCompound().
				Set(legacyID, snbt.String(e.ID)).
				Set(legacyLevel, snbt.Short(e.Level)))
		}
		tag.Set(legacyEnchantments, list)
	}
	return tag, tag.Len() > 0
}

// TextComponent returns the JSON text component {"text":"<text>"}. HTML
// characters are left as is.
func TextComponent(text string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// A struct holding one string always encodes.
	_ = enc.Encode(textComponent{Text: text})
	return strings.TrimSuffix(buf.String(), "\n")
}
