package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Money is handled internally as integer cents so that pricing arithmetic
// is exact. Decimal strings ("25.00") only exist at the API edge: requests
// are parsed with ParseAmount and responses are rendered with FormatCents.

// ErrInvalidAmount is returned by ParseAmount for values that are not a
// non-negative decimal with at most two fractional digits.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount converts a decimal string such as "25", "25.5" or "25.50"
// into cents. Negative values, more than two decimals and anything that is
// not a number are rejected.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, ErrInvalidAmount
	}
	whole := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	if whole == "" || len(frac) > 2 {
		return 0, ErrInvalidAmount
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	cents := int64(0)
	if frac != "" {
		// pad "5" -> "50" so that 25.5 means 25.50
		for len(frac) < 2 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, ErrInvalidAmount
		}
	}
	return units*100 + cents, nil
}

// FormatCents renders cents as a decimal string with exactly two decimal
// places, e.g. 7500 -> "75.00".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
