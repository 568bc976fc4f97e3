package usecase

import (
	"regexp"
	"strings"
)

// Compiled regex patterns for ingredient normalization
var (
	// Parenthetical notes like "(diced)" together with the whitespace before them
	parentheticalPattern = regexp.MustCompile(`\s*\([^)]*\)`)

	// Preparation-state words, matched as whole words
	prepWordPattern = regexp.MustCompile(`\s*\b(?:fresh|dried|chopped|sliced|minced|cubed|grated|ground)\b\s*`)

	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// NormalizeIngredientName canonicalizes a raw ingredient name for fuzzy comparison.
//
// Steps, in order:
//  1. lowercase and trim
//  2. drop parenthetical content
//  3. drop preparation-state words (fresh, dried, chopped, ...)
//  4. strip one trailing "s"
//  5. collapse whitespace and trim
//
// Step 4 is naive depluralization with no exception list: "tomatoes" becomes
// "tomatoe" and "molasses" becomes "molasse". Callers rely on that output.
func NormalizeIngredientName(name string) string {
	if name == "" {
		return ""
	}

	s := strings.TrimSpace(strings.ToLower(name))
	s = parentheticalPattern.ReplaceAllString(s, "")
	s = prepWordPattern.ReplaceAllString(s, " ")
	s = strings.TrimSuffix(s, "s")
	s = multiSpacePattern.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}

// NormalizeIngredientNames applies NormalizeIngredientName to every entry
func NormalizeIngredientNames(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = NormalizeIngredientName(name)
	}
	return out
}

// usableIngredientNames normalizes user ingredients and drops entries that
// normalize to "". An empty name is a substring of every recipe ingredient.
func usableIngredientNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if normalized := NormalizeIngredientName(name); normalized != "" {
			out = append(out, normalized)
		}
	}
	return out
}

// ParseIngredients cleans user-supplied ingredient input: each entry is
// lowercased and trimmed and empty entries are dropped.
func ParseIngredients(raw []string) []string {
	parsed := make([]string, 0, len(raw))
	for _, entry := range raw {
		entry = strings.TrimSpace(strings.ToLower(entry))
		if entry != "" {
			parsed = append(parsed, entry)
		}
	}
	return parsed
}

// ParseIngredientList splits a comma-separated ingredient string and cleans
// it like ParseIngredients
func ParseIngredientList(list string) []string {
	return ParseIngredients(strings.Split(list, ","))
}
