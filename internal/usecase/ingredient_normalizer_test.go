package usecase

import (
	"testing"
)

func TestNormalizeIngredientName(t *testing.T) {
	testCases := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "strips prep word and one trailing s",
			input: "Fresh Tomatoes",
			want:  "tomatoe", // not "tomato"
		},
		{
			name:  "removes parenthetical note",
			input: "onion (diced)",
			want:  "onion",
		},
		{
			name:  "removes several prep words",
			input: "Chopped Fresh Basil",
			want:  "basil",
		},
		{
			name:  "removes ground as a whole word",
			input: "ground beef",
			want:  "beef",
		},
		{
			name:  "keeps prep word embedded in another word",
			input: "groundnut oil",
			want:  "groundnut oil",
		},
		{
			name:  "keeps freshly",
			input: "freshly ground pepper",
			want:  "freshly pepper",
		},
		{
			name:  "naive depluralization of a non-plural",
			input: "Molasses",
			want:  "molasse",
		},
		{
			name:  "collapses whitespace",
			input: "  Chicken   Breasts  ",
			want:  "chicken breast",
		},
		{
			name:  "parenthetical before trailing s check",
			input: "eggs (large)",
			want:  "egg",
		},
		{
			name:  "trailing prep word leaves plural intact",
			input: "basil leaves fresh",
			want:  "basil leaves",
		},
		{
			name:  "dried",
			input: "Dried Oregano",
			want:  "oregano",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only a prep word",
			input: "Grated",
			want:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizeIngredientName(tc.input)
			if got != tc.want {
				t.Errorf("NormalizeIngredientName(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeIngredientName_Idempotent(t *testing.T) {
	// Inputs whose normalized form does not itself end in "s"; stripping a
	// trailing "s" again would change those (see DESIGN.md).
	inputs := []string{
		"Fresh Tomatoes",
		"onion (diced)",
		"Chopped Fresh Basil",
		"ground beef",
		"groundnut oil",
		"freshly ground pepper",
		"Molasses",
		"Chicken Breasts",
		"eggs (large)",
		"Garlic Cloves, minced",
		"RICE",
		"extra virgin olive oil",
		"",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			once := NormalizeIngredientName(input)
			twice := NormalizeIngredientName(once)
			if once != twice {
				t.Errorf("normalize(normalize(%q)) = %q, want %q", input, twice, once)
			}
		})
	}
}

func TestNormalizeIngredientNames(t *testing.T) {
	got := NormalizeIngredientNames([]string{"Fresh Tomatoes", "rice"})
	if len(got) != 2 || got[0] != "tomatoe" || got[1] != "rice" {
		t.Errorf("NormalizeIngredientNames() = %v, want [tomatoe rice]", got)
	}
}

func TestParseIngredients(t *testing.T) {
	t.Run("lowercases trims and drops empties", func(t *testing.T) {
		got := ParseIngredients([]string{" Chicken ", "", "RICE", "   "})
		want := []string{"chicken", "rice"}
		if len(got) != len(want) {
			t.Fatalf("ParseIngredients() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("ParseIngredients()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})

	t.Run("returns empty slice for nil input", func(t *testing.T) {
		got := ParseIngredients(nil)
		if got == nil || len(got) != 0 {
			t.Errorf("ParseIngredients(nil) = %#v, want empty non-nil slice", got)
		}
	})

	t.Run("splits comma separated list", func(t *testing.T) {
		got := ParseIngredientList("Chicken, rice ,, garlic")
		want := []string{"chicken", "rice", "garlic"}
		if len(got) != len(want) {
			t.Fatalf("ParseIngredientList() = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("ParseIngredientList()[%d] = %q, want %q", i, got[i], want[i])
			}
		}
	})
}
