package extract

import (
	"regexp"
	"strings"
)

var (
	// datePattern matches DD/MM/YYYY or DD/MM/YY with "/", "." or "-" as
	// separator.
	datePattern = regexp.MustCompile(`\d{2}[/.-]\d{2}[/.-](?:\d{4}|\d{2})`)

	// amountPattern matches an optional currency symbol, an optional space
	// and a number with two decimal places. The integer part may be grouped
	// in thousands ("1.234,56") so the whole figure is taken as one token.
	amountPattern = regexp.MustCompile(`(?:\$|R\$|€)?\s?(?:\d{1,3}(?:[.,]\d{3})+|\d+)[,.]\d{2}`)

	dateSeparators = regexp.MustCompile(`[/.-]`)

	leadingNumber = regexp.MustCompile(`^\d+(?:\.\d+)?`)
)

// expenseTokens flag a segment as an expense when any of them appears.
var expenseTokens = []string{"debit", "payment", "purchase"}

// KeywordGroups maps a lowercased category name to words that, found in a
// description, select that category.
type KeywordGroups map[string][]string

// DefaultKeywordGroups returns a fresh copy of the built-in groups.
func DefaultKeywordGroups() KeywordGroups {
	return KeywordGroups{
		"salary":         {"payroll", "wage", "payment", "direct deposit"},
		"food":           {"restaurant", "grocery", "market", "meal", "cafe"},
		"transportation": {"gas", "fuel", "taxi", "uber", "lyft", "train", "transit"},
		"housing":        {"rent", "mortgage", "property"},
	}
}

// Merge returns a copy of g with extra applied on top. Keys and keywords are
// lowercased; a group present in extra replaces the built-in one.
func (g KeywordGroups) Merge(extra map[string][]string) KeywordGroups {
	out := make(KeywordGroups, len(g)+len(extra))
	for k, v := range g {
		out[k] = append([]string(nil), v...)
	}
	for k, v := range extra {
		words := make([]string, 0, len(v))
		for _, w := range v {
			if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
				words = append(words, w)
			}
		}
		out[strings.ToLower(strings.TrimSpace(k))] = words
	}
	return out
}

// match reports whether a description (already lowercased) hits the group
// registered under name.
func (g KeywordGroups) match(name, lowerDesc string) bool {
	for _, kw := range g[name] {
		if strings.Contains(lowerDesc, kw) {
			return true
		}
	}
	return false
}
