// SPDX-License-Identifier: MPL-2.0

package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/craftpack/craftpack/pkg/item"
	"github.com/craftpack/craftpack/pkg/snbt"
)

// ErrMalformedCommand is returned (wrapped) when Decode cannot read a command.
var ErrMalformedCommand = errors.New("malformed give command")

// Decoded is a give command read back into its parts.
type Decoded struct {
	// Target is the target selector, e.g. "@p".
	Target string
	// Dialect is DialectComponents or DialectLegacy, depending on the data
	// block found. Commands without data report DialectComponents.
	Dialect Dialect
	// Item is the item described by the command. Enchantment levels and the
	// count are taken as written.
	Item item.Spec
}

// Decode parses a give command produced by Encode or EncodeWith.
//
// Text components are unwrapped, so Decode(Encode(s)).Item.DisplayName
// equals s.DisplayName for any display name.
func Decode(line string) (Decoded, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(line), "give ")
	if !ok {
		return Decoded{}, fmt.Errorf("%w: missing \"give\" keyword", ErrMalformedCommand)
	}
	target, rest, ok := strings.Cut(rest, " ")
	if !ok || target == "" {
		return Decoded{}, fmt.Errorf("%w: missing target selector", ErrMalformedCommand)
	}

	cut := strings.LastIndexByte(rest, ' ')
	if cut < 0 {
		return Decoded{}, fmt.Errorf("%w: missing count", ErrMalformedCommand)
	}
	count, err := strconv.Atoi(rest[cut+1:])
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: invalid count %q", ErrMalformedCommand, rest[cut+1:])
	}

	d := Decoded{Target: target, Dialect: DialectComponents}
	d.Item.Count = count

	itemText := rest[:cut]
	start := strings.IndexAny(itemText, "[{")
	if start < 0 {
		d.Item.ID = itemText
		return d, nil
	}
	d.Item.ID = itemText[:start]

	if itemText[start] == '[' {
		block, err := snbt.ParseComponents(itemText[start:])
		if err != nil {
			return Decoded{}, fmt.Errorf("%w: %w", ErrMalformedCommand, err)
		}
		err = decodeComponents(block, &d.Item)
		if err != nil {
			return Decoded{}, fmt.Errorf("%w: %w", ErrMalformedCommand, err)
		}
		return d, nil
	}

	node, err := snbt.Parse(itemText[start:])
	if err != nil {
		return Decoded{}, fmt.Errorf("%w: %w", ErrMalformedCommand, err)
	}
	tag, ok := node.(*snbt.Compound)
	if !ok {
		return Decoded{}, fmt.Errorf("%w: item tag is not a compound", ErrMalformedCommand)
	}
	d.Dialect = DialectLegacy
	if err := decodeLegacy(tag, &d.Item); err != nil {
		return Decoded{}, fmt.Errorf("%w: %w", ErrMalformedCommand, err)
	}
	return d, nil
}

func decodeComponents(block *snbt.Components, s *item.Spec) error {
	if n, ok := block.Get(componentCustomName); ok {
		name, err := decodeText(n)
		if err != nil {
			return fmt.Errorf("%s: %w", componentCustomName, err)
		}
		s.DisplayName = name
	}
	if n, ok := block.Get(componentLore); ok {
		lore, err := decodeLore(n)
		if err != nil {
			return fmt.Errorf("%s: %w", componentLore, err)
		}
		s.Lore = lore
	}
	if n, ok := block.Get(componentEnchantments); ok {
		levels, ok := n.(*snbt.Compound)
		if !ok {
			return fmt.Errorf("%s: expected a compound", componentEnchantments)
		}
		for _, id := range levels.Keys() {
			v, _ := levels.Get(id)
			level, ok := intValue(v)
			if !ok {
				return fmt.Errorf("%s: level of %s is not an integer", componentEnchantments, id)
			}
			s.Enchantments = append(s.Enchantments, item.Enchantment{ID: id, Level: level})
		}
	}
	return nil
}

func decodeLegacy(tag *snbt.Compound, s *item.Spec) error {
	if n, ok := tag.Get(legacyDisplay); ok {
		display, ok := n.(*snbt.Compound)
		if !ok {
			return fmt.Errorf("%s: expected a compound", legacyDisplay)
		}
		if n, ok := display.Get(legacyName); ok {
			name, err := decodeText(n)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", legacyDisplay, legacyName, err)
			}
			s.DisplayName = name
		}
		if n, ok := display.Get(legacyLore); ok {
			lore, err := decodeLore(n)
			if err != nil {
				return fmt.Errorf("%s.%s: %w", legacyDisplay, legacyLore, err)
			}
			s.Lore = lore
		}
	}

	if n, ok := tag.Get(legacyEnchantments); ok {
		list, ok := n.(snbt.List)
		if !ok {
			return fmt.Errorf("%s: expected a list", legacyEnchantments)
		}
		for i, entry := range list {
			c, ok := entry.(*snbt.Compound)
			if !ok {
				return fmt.Errorf("%s[%d]: expected a compound", legacyEnchantments, i)
			}
			idNode, _ := c.Get(legacyID)
			id, ok := idNode.(snbt.String)
			if !ok {
				return fmt.Errorf("%s[%d]: missing %s", legacyEnchantments, i, legacyID)
			}
			lvlNode, _ := c.Get(legacyLevel)
			level, ok := intValue(lvlNode)
			if !ok {
				return fmt.Errorf("%s[%d]: missing %s", legacyEnchantments, i, legacyLevel)
			}
			s.Enchantments = append(s.Enchantments, item.Enchantment{ID: string(id), Level: level})
		}
	}
	return nil
}

func decodeLore(n snbt.Node) ([]string, error) {
	list, ok := n.(snbt.List)
	if !ok {
		return nil, errors.New("expected a list")
	}
	lore := make([]string, 0, len(list))
	for i, entry := range list {
		line, err := decodeText(entry)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		lore = append(lore, line)
	}
	return lore, nil
}

func decodeText(n snbt.Node) (string, error) {
	raw, ok := n.(snbt.String)
	if !ok {
		return "", errors.New("expected a text component string")
	}
	var tc textComponent
	if err := json.Unmarshal([]byte(raw), &tc); err != nil {
		return "", fmt.Errorf("invalid text component: %w", err)
	}
	return tc.Text, nil
}

func intValue(n snbt.Node) (int, bool) {
	switch v := n.(type) {
	case snbt.Byte:
		return int(v), true
	case snbt.Short:
		return int(v), true
	case snbt.Int:
		return int(v), true
	case snbt.Long:
		return int(v), true
	default:
		return 0, false
	}
}
