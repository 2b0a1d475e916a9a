package csv

import (
	"bytes"
	"encoding/csv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/yurifrl/finscan/pkg/models"
)

// Record is anything rendered as a models.CSVHeader row.
type Record interface {
	Row() []string
}

type FilterFunc[T Record] func(T) bool

// Create renders records as CSV with a header, keeping only those the filter
// accepts. A nil filter keeps everything.
func Create[T Record](records []T, filter FilterFunc[T]) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(models.CSVHeader)
	for _, r := range records {
		if filter == nil || filter(r) {
			_ = w.Write(r.Row())
		}
	}
	w.Flush()
	return buf.Bytes()
}

// FormatBRL formats an amount the Brazilian way: "R$ 1.234,56", with a
// leading minus for negatives.
func FormatBRL(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	whole, frac, _ := strings.Cut(d.Abs().StringFixed(2), ".")

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + "R$ " + grouped.String() + "," + frac
}
