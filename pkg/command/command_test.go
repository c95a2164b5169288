// SPDX-License-Identifier: MPL-2.0

package command

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/craftpack/craftpack/pkg/item"
)

func bladeSpec() item.Spec {
	return item.Spec{
		ID:          "minecraft:diamond_sword",
		DisplayName: "Blade",
		Count:       1,
		Lore:        []string{"line one"},
		Enchantments: []item.Enchantment{
			{ID: "minecraft:sharpness", Level: 5},
		},
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec item.Spec
		want string
	}{
		{
			name: "full item",
			spec: bladeSpec(),
			want: `give @p minecraft:diamond_sword[custom_name='{"text":"Blade"}',lore=['{"text":"line one"}'],enchantments={"minecraft:sharpness":5}] 1`,
		},
		{
			name: "no data omits block",
			spec: item.Spec{ID: "minecraft:stone", Count: 16},
			want: "give @p minecraft:stone 16",
		},
		{
			name: "zero count becomes one",
			spec: item.Spec{ID: "minecraft:stone"},
			want: "give @p minecraft:stone 1",
		},
		{
			name: "count clamped to stack size",
			spec: item.Spec{ID: "minecraft:stone", Count: 99},
			want: "give @p minecraft:stone 64",
		},
		{
			name: "empty id still yields a command",
			spec: item.Spec{},
			want: "give @p  1",
		},
		{
			name: "empty lore lines dropped",
			spec: item.Spec{ID: "minecraft:stick", Lore: []string{"", "a", ""}},
			want: `give @p minecraft:stick[lore=['{"text":"a"}']] 1`,
		},
		{
			name: "only empty lore omits block",
			spec: item.Spec{ID: "minecraft:stick", Lore: []string{"", ""}},
			want: "give @p minecraft:stick 1",
		},
		{
			name: "enchantments only, duplicate last wins",
			spec: item.Spec{ID: "minecraft:bow", Enchantments: []item.Enchantment{
				{ID: "minecraft:power", Level: 1},
				{ID: "", Level: 3},
				{ID: "minecraft:infinity", Level: 1},
				{ID: "minecraft:power", Level: 4},
			}},
			want: `give @p minecraft:bow[enchantments={"minecraft:power":4,"minecraft:infinity":1}] 1`,
		},
		{
			name: "only empty enchantment ids omits block",
			spec: item.Spec{ID: "minecraft:bow", Enchantments: []item.Enchantment{{ID: "", Level: 2}}},
			want: "give @p minecraft:bow 1",
		},
		{
			name: "html characters are not escaped",
			spec: item.Spec{ID: "minecraft:stick", DisplayName: "<Stick & Co>"},
			want: `give @p minecraft:stick[custom_name='{"text":"<Stick & Co>"}'] 1`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Encode(tt.spec); got != tt.want {
				t.Errorf("Encode() =\n  %s\nwant\n  %s", got, tt.want)
			}
		})
	}
}

func TestEncode_EscapingRoundTrip(t *testing.T) {
	t.Parallel()

	tricky := []string{
		`"quoted" and a \backslash`,
		`it's`,
		`'single' "double"`,
		`\\`,
		`\"`,
		`{"text":"nested"}`,
		"tab\tand newline\n",
		"Клинок Предков",
		"] 5",
	}

	for _, dialect := range []Dialect{DialectComponents, DialectLegacy} {
		for _, text := range tricky {
			spec := item.Spec{
				ID:          "minecraft:diamond_sword",
				DisplayName: text,
				Count:       3,
				Lore:        []string{text, "plain"},
			}

			line := EncodeWith(spec, Options{Dialect: dialect})
			if strings.ContainsAny(line, "\n") {
				t.Errorf("%s: command for %q spans several lines: %q", dialect, text, line)
			}

			got, err := Decode(line)
			if err != nil {
				t.Errorf("%s: Decode(%q) error: %v", dialect, line, err)
				continue
			}
			if got.Dialect != dialect {
				t.Errorf("%s: decoded dialect = %s", dialect, got.Dialect)
			}
			if got.Item.DisplayName != text {
				t.Errorf("%s: display name = %q, want %q", dialect, got.Item.DisplayName, text)
			}
			if !slices.Equal(got.Item.Lore, spec.Lore) {
				t.Errorf("%s: lore = %q, want %q", dialect, got.Item.Lore, spec.Lore)
			}
			if got.Item.Count != 3 {
				t.Errorf("%s: count = %d, want 3", dialect, got.Item.Count)
			}
		}
	}
}

func TestEncodeWith_Legacy(t *testing.T) {
	t.Parallel()

	got := EncodeWith(bladeSpec(), Options{Dialect: DialectLegacy, Target: "@a"})
	want := `give @a minecraft:diamond_sword{display:{Name:'{"text":"Blade"}',Lore:['{"text":"line one"}']},Enchantments:[{id:"minecraft:sharpness",lvl:5s}]} 1`
	if got != want {
		t.Errorf("EncodeWith(legacy) =\n  %s\nwant\n  %s", got, want)
	}
}

func TestEncodeWith_LevelOutOfRange(t *testing.T) {
	t.Parallel()

	spec := item.Spec{
		ID:           "minecraft:stick",
		Enchantments: []item.Enchantment{{ID: "minecraft:knockback", Level: 40000}},
	}
	tests := map[Dialect]string{
		DialectComponents: `give @p minecraft:stick[enchantments={"minecraft:knockback":10}] 1`,
		DialectLegacy:     `give @p minecraft:stick{Enchantments:[{id:"minecraft:knockback",lvl:10s}]} 1`,
	}
	for dialect, want := range tests {
		if got := EncodeWith(spec, Options{Dialect: dialect}); got != want {
			t.Errorf("EncodeWith(%s) = %s, want %s", dialect, got, want)
		}
	}
}

func TestEncodeWith_AutoFollowsFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format int
		open   string
	}{
		{15, "{"},
		{26, "{"},
		{40, "{"},
		{41, "["},
		{48, "["},
		{88, "["},
		{0, "["},
	}

	for _, tt := range tests {
		line := EncodeWith(bladeSpec(), Options{Dialect: DialectAuto, PackFormat: tt.format})
		if !strings.HasPrefix(line, "give @p minecraft:diamond_sword"+tt.open) {
			t.Errorf("format %d: %s, want data block opening with %q", tt.format, line, tt.open)
		}
	}
}

func TestDecode(t *testing.T) {
	t.Parallel()

	got, err := Decode(Encode(bladeSpec()))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got.Target != DefaultTarget {
		t.Errorf("Target = %q, want %q", got.Target, DefaultTarget)
	}
	want := bladeSpec()
	if got.Item.ID != want.ID || got.Item.DisplayName != want.DisplayName || got.Item.Count != want.Count {
		t.Errorf("Decode() item = %+v, want %+v", got.Item, want)
	}
	if !slices.Equal(got.Item.Enchantments, want.Enchantments) {
		t.Errorf("Enchantments = %v, want %v", got.Item.Enchantments, want.Enchantments)
	}

	plain, err := Decode("give @s minecraft:stone 12")
	if err != nil {
		t.Fatalf("Decode(plain) error: %v", err)
	}
	if plain.Item.ID != "minecraft:stone" || plain.Item.Count != 12 || plain.Target != "@s" {
		t.Errorf("Decode(plain) = %+v", plain)
	}
}

func TestDecode_Errors(t *testing.T) {
	t.Parallel()

	for _, line := range []string{
		"",
		"summon minecraft:zombie",
		"give",
		"give @p",
		"give @p minecraft:stone",
		"give @p minecraft:stone many",
		"give @p minecraft:stone[lore=[1]] 1",
		"give @p minecraft:stone[custom_name='not json'] 1",
		"give @p minecraft:stone[enchantments={a:b}] 1",
		"give @p minecraft:stone{display:1} 1",
		"give @p minecraft:stone[broken 1",
	} {
		if _, err := Decode(line); !errors.Is(err, ErrMalformedCommand) {
			t.Errorf("Decode(%q) error = %v, want ErrMalformedCommand", line, err)
		}
	}
}

func TestTextComponent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"Blade", `{"text":"Blade"}`},
		{"", `{"text":""}`},
		{`say "hi"`, `{"text":"say \"hi\""}`},
		{`a\b`, `{"text":"a\\b"}`},
		{"<&>", `{"text":"<&>"}`},
	}

	for _, tt := range tests {
		if got := TextComponent(tt.in); got != tt.want {
			t.Errorf("TextComponent(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDialect_IsValid(t *testing.T) {
	t.Parallel()

	for _, d := range append(Dialects(), "") {
		if ok, errs := d.IsValid(); !ok || len(errs) > 0 {
			t.Errorf("Dialect(%q).IsValid() = %v, %v", d, ok, errs)
		}
	}

	ok, errs := Dialect("nbt").IsValid()
	if ok || len(errs) == 0 {
		t.Fatal("Dialect(nbt).IsValid() should fail")
	}
	if !errors.Is(errs[0], ErrInvalidDialect) {
		t.Errorf("error should wrap ErrInvalidDialect, got %v", errs[0])
	}
	var dErr *InvalidDialectError
	if !errors.As(errs[0], &dErr) || dErr.Value != "nbt" {
		t.Errorf("error should be *InvalidDialectError for nbt, got %T", errs[0])
	}
}
