package models

import (
	"fmt"
	"strings"
)

// Type tells income and expense apart, for both categories and transactions.
type Type string

const (
	Income  Type = "income"
	Expense Type = "expense"
)

// ParseType accepts "income" or "expense" in any case.
func ParseType(s string) (Type, error) {
	switch Type(strings.ToLower(strings.TrimSpace(s))) {
	case Income:
		return Income, nil
	case Expense:
		return Expense, nil
	default:
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
}

// Label is the capitalized form used as the last-resort category name.
func (t Type) Label() string {
	if t == Income {
		return "Income"
	}
	return "Expense"
}

// Category is a user category. The extractor only ever selects among these.
type Category struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
	Type Type   `yaml:"type" json:"type"`
}

// DefaultCategories is the seed set written to a fresh ledger.
func DefaultCategories() []Category {
	return []Category{
		{ID: "1", Name: "Salary", Type: Income},
		{ID: "2", Name: "Freelance", Type: Income},
		{ID: "3", Name: "Investment", Type: Income},
		{ID: "4", Name: "Gift", Type: Income},
		{ID: "5", Name: "Food", Type: Expense},
		{ID: "6", Name: "Housing", Type: Expense},
		{ID: "7", Name: "Transportation", Type: Expense},
		{ID: "8", Name: "Entertainment", Type: Expense},
		{ID: "9", Name: "Utilities", Type: Expense},
		{ID: "10", Name: "Health", Type: Expense},
		{ID: "11", Name: "Education", Type: Expense},
		{ID: "12", Name: "Shopping", Type: Expense},
	}
}

// OfType keeps the categories of type t, in their original order.
func OfType(categories []Category, t Type) []Category {
	out := make([]Category, 0, len(categories))
	for _, c := range categories {
		if c.Type == t {
			out = append(out, c)
		}
	}
	return out
}
