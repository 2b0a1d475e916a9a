package models

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the YYYY-MM-DD form every draft date is stored in.
const DateLayout = "2006-01-02"

// TransactionDraft is a transaction recovered from a statement that has not
// been persisted yet, so it has no ID.
type TransactionDraft struct {
	Date        string  `yaml:"date" json:"date"`
	Description string  `yaml:"description" json:"description"`
	Category    string  `yaml:"category" json:"category"`
	Type        Type    `yaml:"type" json:"type"`
	Amount      float64 `yaml:"amount" json:"amount"`
}

// Transaction is a draft after the importer gave it an identity.
type Transaction struct {
	ID               string `yaml:"id" json:"id"`
	TransactionDraft `yaml:",inline"`
}

// Time parses Date. Drafts always carry a valid date, so the error only shows
// up for hand-edited ledgers.
func (d TransactionDraft) Time() (time.Time, error) {
	return time.Parse(DateLayout, d.Date)
}

// Signed returns the amount with expenses negative.
func (d TransactionDraft) Signed() float64 {
	if d.Type == Expense {
		return -d.Amount
	}
	return d.Amount
}

// Fingerprint identifies a draft by date, description and amount so the same
// statement line imported twice can be recognised.
func (d TransactionDraft) Fingerprint() string {
	desc := strings.ToLower(strings.TrimSpace(d.Description))
	input := fmt.Sprintf("%s-%s-%.2f-%s", d.Date, desc, d.Amount, d.Type)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash)[:16]
}

// Row renders the draft as a CSV record matching CSVHeader.
func (d TransactionDraft) Row() []string {
	return []string{
		d.Date,
		d.Description,
		d.Category,
		string(d.Type),
		strconv.FormatFloat(d.Amount, 'f', 2, 64),
	}
}

// CSVHeader is the header written in front of Row records.
var CSVHeader = []string{"Date", "Description", "Category", "Type", "Amount"}
