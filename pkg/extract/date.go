package extract

import (
	"fmt"
	"strconv"
	"time"

	"github.com/yurifrl/finscan/pkg/models"
)

// parseDate reads a detected date token as day, month, year. Two-digit years
// land in the 2000s. The calendar date must exist: 31/02 and month 13 fail
// instead of rolling over.
func parseDate(raw string) (time.Time, error) {
	parts := dateSeparators.Split(raw, -1)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("date %q: expected 3 parts, got %d", raw, len(parts))
	}

	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, fmt.Errorf("date %q: %w", raw, err)
		}
		nums[i] = n
	}

	day, month, year := nums[0], nums[1], nums[2]
	if year < 100 {
		year += 2000
	}
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("date %q: month %d out of range", raw, month)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, fmt.Errorf("date %q: day %d out of range", raw, day)
	}
	return t, nil
}

// normalizeDate formats raw as YYYY-MM-DD, or today's date when raw is not a
// real calendar date. The second result is false when the fallback was used.
func normalizeDate(raw string, now func() time.Time) (string, bool) {
	t, err := parseDate(raw)
	if err != nil {
		return now().Format(models.DateLayout), false
	}
	return t.Format(models.DateLayout), true
}
