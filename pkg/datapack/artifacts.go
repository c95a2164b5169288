// SPDX-License-Identifier: MPL-2.0

package datapack

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/craftpack/craftpack/pkg/naming"
)

const (
	// MetaPath is the archive path of the pack metadata.
	MetaPath = "pack.mcmeta"
	// LoadTagPath is the archive path of the function tag run on pack load.
	LoadTagPath = "data/minecraft/tags/functions/load.json"
	// ReadmePath is the archive path of the install instructions.
	ReadmePath = "README.txt"

	// GiveFunctionName is the name of the function holding the give command.
	GiveFunctionName = "give_item"

	// ShapelessRecipeType is the recipe serializer written to recipe files.
	ShapelessRecipeType = "minecraft:crafting_shapeless"

	tagPrefix = "#"
)

type (
	// Ingredient is one recipe ingredient: an item identifier or, when IsTag
	// is set, an item tag.
	Ingredient struct {
		Value string
		IsTag bool
	}

	packMeta struct {
		Pack packSection `json:"pack"`
	}

	packSection struct {
		PackFormat  int    `json:"pack_format"`
		Description string `json:"description"`
	}

	recipeDoc struct {
		Type        string       `json:"type"`
		Ingredients []Ingredient `json:"ingredients"`
		Result      recipeResult `json:"result"`
	}

	recipeResult struct {
		Item  string `json:"item"`
		Count int    `json:"count"`
	}

	functionTag struct {
		Values []string `json:"values"`
	}
)

// RecipePath returns the archive path of a recipe file.
func RecipePath(namespace, recipeID naming.Token) string {
	return path.Join("data", namespace.String(), "recipes", recipeID.String()+".json")
}

// FunctionPath returns the archive path of a function file.
func FunctionPath(namespace naming.Token, name string) string {
	return path.Join("data", namespace.String(), "functions", name+".mcfunction")
}

// ParseIngredient reads one ingredient entry. Surrounding whitespace is
// trimmed and a leading "#" marks a tag reference.
func ParseIngredient(entry string) Ingredient {
	entry = strings.TrimSpace(entry)
	if tag, ok := strings.CutPrefix(entry, tagPrefix); ok {
		return Ingredient{Value: tag, IsTag: true}
	}
	return Ingredient{Value: entry}
}

// Ingredients parses the entries of a recipe, dropping blank ones.
func Ingredients(entries []string) []Ingredient {
	out := make([]Ingredient, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e) == "" {
			continue
		}
		out = append(out, ParseIngredient(e))
	}
	return out
}

// String returns the entry form of the ingredient ("#tag" or "item").
func (i Ingredient) String() string {
	if i.IsTag {
		return tagPrefix + i.Value
	}
	return i.Value
}

// MarshalJSON writes {"tag":"..."} or {"item":"..."}.
func (i Ingredient) MarshalJSON() ([]byte, error) {
	key := "item"
	if i.IsTag {
		key = "tag"
	}
	s, err := encodeJSON(map[string]string{key: i.Value}, false)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}

// UnmarshalJSON reads the object written by MarshalJSON.
func (i *Ingredient) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if tag, ok := raw["tag"]; ok {
		*i = Ingredient{Value: tag, IsTag: true}
		return nil
	}
	if id, ok := raw["item"]; ok {
		*i = Ingredient{Value: id}
		return nil
	}
	return errors.New("ingredient needs an \"item\" or \"tag\" key")
}

// PackMeta renders pack.mcmeta for d.
func PackMeta(d Definition) (string, error) {
	return encodeJSON(packMeta{Pack: packSection{
		PackFormat:  d.Format(),
		Description: d.Pack.Description,
	}}, true)
}

// Recipe renders the shapeless recipe file for d. The result count is the
// same effective count the give command uses.
func Recipe(d Definition) (string, error) {
	return encodeJSON(recipeDoc{
		Type:        ShapelessRecipeType,
		Ingredients: Ingredients(d.Recipe.Ingredients),
		Result: recipeResult{
			Item:  d.Item.ID,
			Count: d.Item.EffectiveCount(),
		},
	}, true)
}

// LoadTag renders the load function tag that runs the give function of
// namespace.
func LoadTag(namespace naming.Token) (string, error) {
	return encodeJSON(functionTag{
		Values: []string{namespace.String() + ":" + GiveFunctionName},
	}, true)
}

// encodeJSON writes v without HTML escaping and without a trailing newline,
// indented by two spaces when indent is set.
func encodeJSON(v any, indent bool) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
