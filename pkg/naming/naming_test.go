// SPDX-License-Identifier: MPL-2.0

package naming

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want Token
	}{
		{"plain words", "Test Pack", "test_pack"},
		{"already a token", "legendary_blade", "legendary_blade"},
		{"punctuation runs collapse", "Hello, World!!!", "hello_world"},
		{"existing underscores are kept", "a_ b", "a__b"},
		{"leading and trailing junk", "  --Blade--  ", "blade"},
		{"digits survive", "Pack 2.0", "pack_2_0"},
		{"cyrillic drops to fallback", "Легендарный клинок", Fallback},
		{"mixed scripts", "Клинок Blade", "blade"},
		{"empty string", "", Fallback},
		{"only markers", "####", Fallback},
		{"only underscores", "___", Fallback},
		{"uppercase ascii", "DIAMOND_Sword", "diamond_sword"},
		{"dotted identifier", "minecraft:diamond_sword", "minecraft_diamond_sword"},
		{"dotted capital I lowers like a browser", "İtem", "i_tem"},
		{"cut at max length", strings.Repeat("a", 40), Token(strings.Repeat("a", MaxLength))},
		{"cut exposes underscore", strings.Repeat("a", 31) + " xyz", Token(strings.Repeat("a", 31))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_FallbackCases(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "####", "   ", "!!!", "€€€"} {
		if got := Normalize(in); got != "datapack" {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, "datapack")
		}
	}
}

func FuzzNormalize(f *testing.F) {
	for _, seed := range []string{
		"",
		"####",
		"Test Pack",
		"Легендарный клинок",
		"Клинок Предков",
		strings.Repeat("ab ", 20),
		strings.Repeat("a", 31) + "__b",
		"İİİ",
		"_x_",
	} {
		f.Add(seed)
	}

	f.Fuzz(func(t *testing.T, in string) {
		once := Normalize(in)
		if twice := Normalize(string(once)); twice != once {
			t.Fatalf("Normalize is not idempotent for %q: %q then %q", in, once, twice)
		}
		if len(once) > MaxLength {
			t.Fatalf("Normalize(%q) = %q exceeds %d characters", in, once, MaxLength)
		}
		if valid, errs := once.IsValid(); !valid {
			t.Fatalf("Normalize(%q) = %q is not a valid token: %v", in, once, errs)
		}
		if strings.HasPrefix(string(once), "_") || strings.HasSuffix(string(once), "_") {
			t.Fatalf("Normalize(%q) = %q has an edge underscore", in, once)
		}
	})
}

func TestToken_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		token   Token
		want    bool
		wantErr bool
	}{
		{"simple", Token("legendary_blade"), true, false},
		{"digits", Token("pack2"), true, false},
		{"max length", Token(strings.Repeat("z", MaxLength)), true, false},
		{"empty", Token(""), false, true},
		{"too long", Token(strings.Repeat("z", MaxLength+1)), false, true},
		{"uppercase", Token("Blade"), false, true},
		{"colon", Token("minecraft:stone"), false, true},
		{"space", Token("a b"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.token.IsValid()
			if isValid != tt.want {
				t.Errorf("Token(%q).IsValid() = %v, want %v", tt.token, isValid, tt.want)
			}
			if tt.wantErr {
				if len(errs) == 0 {
					t.Fatalf("Token(%q).IsValid() returned no errors, want error", tt.token)
				}
				if !errors.Is(errs[0], ErrInvalidToken) {
					t.Errorf("error should wrap ErrInvalidToken, got: %v", errs[0])
				}
				var tokErr *InvalidTokenError
				if !errors.As(errs[0], &tokErr) {
					t.Errorf("error should be *InvalidTokenError, got: %T", errs[0])
				}
			} else if len(errs) > 0 {
				t.Errorf("Token(%q).IsValid() returned unexpected errors: %v", tt.token, errs)
			}
		})
	}
}
