package extract

import (
	"strings"

	"github.com/yurifrl/finscan/pkg/models"
)

// Fallback category names looked up, by exact name, when nothing matched.
const (
	OtherIncome  = "Other Income"
	OtherExpense = "Other Expense"
)

// resolveCategory picks the category for a description among the categories
// of type t. First match wins, in caller order: the category name inside the
// description, then the keyword group registered under the category name.
func resolveCategory(description string, t models.Type, categories []models.Category, groups KeywordGroups) string {
	candidates := models.OfType(categories, t)
	lowerDesc := strings.ToLower(description)

	for _, c := range candidates {
		lowerName := strings.ToLower(c.Name)
		if strings.Contains(lowerDesc, lowerName) {
			return c.Name
		}
		if groups.match(lowerName, lowerDesc) {
			return c.Name
		}
	}

	other := OtherExpense
	if t == models.Income {
		other = OtherIncome
	}
	for _, c := range candidates {
		if c.Name == other {
			return c.Name
		}
	}
	if len(candidates) > 0 {
		return candidates[0].Name
	}
	return t.Label()
}
