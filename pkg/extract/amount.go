package extract

import (
	"fmt"
	"strconv"
	"strings"
)

// AmountMode selects how an amount token is turned into a number.
type AmountMode string

const (
	// AmountLegacy strips everything but digits, commas and periods, turns
	// the first comma into a period and reads the leading decimal number.
	// Grouped figures come out wrong: "1.234,56" and "1,234.56" both read as
	// 1.234. Kept as the default because imported ledgers depend on it.
	AmountLegacy AmountMode = "legacy"

	// AmountLocale takes the last separator as the decimal point and drops
	// every other separator, so "1.234,56" and "1,234.56" read as 1234.56.
	AmountLocale AmountMode = "locale"
)

// ParseAmountMode validates a configured mode. Empty means legacy.
func ParseAmountMode(s string) (AmountMode, error) {
	switch AmountMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", AmountLegacy:
		return AmountLegacy, nil
	case AmountLocale:
		return AmountLocale, nil
	default:
		return "", fmt.Errorf("unknown amount mode %q", s)
	}
}

func keepNumeric(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' || r == ',' || r == '.' {
			return r
		}
		return -1
	}, s)
}

func (m AmountMode) parse(raw string) (float64, error) {
	kept := keepNumeric(raw)
	if m == AmountLocale {
		return parseLocale(kept)
	}
	return parseLegacy(kept)
}

func parseLegacy(kept string) (float64, error) {
	kept = strings.Replace(kept, ",", ".", 1)
	num := leadingNumber.FindString(kept)
	if num == "" {
		return 0, fmt.Errorf("no number in %q", kept)
	}
	return strconv.ParseFloat(num, 64)
}

func parseLocale(kept string) (float64, error) {
	cut := strings.LastIndexAny(kept, ",.")
	if cut < 0 {
		return strconv.ParseFloat(kept, 64)
	}
	whole := strings.NewReplacer(",", "", ".", "").Replace(kept[:cut])
	frac := kept[cut+1:]
	if whole == "" {
		whole = "0"
	}
	return strconv.ParseFloat(whole+"."+frac, 64)
}
