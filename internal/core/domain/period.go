package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/muni_tax_ledger/internal/apperrors"
)

// ResolvePeriodEnd maps a reporting period label for year to its canonical last day.
// Accepted labels are Q1..Q4, M01..M12 and YEAR.
func ResolvePeriodEnd(year int, label string) (time.Time, error) {
	switch {
	case label == "YEAR":
		return time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC), nil
	case len(label) == 2 && label[0] == 'Q' && isDigits(label[1:]):
		q, err := strconv.Atoi(label[1:])
		if err != nil || q < 1 || q > 4 {
			break
		}
		return monthEnd(year, time.Month(q*3)), nil
	case len(label) == 3 && strings.HasPrefix(label, "M") && isDigits(label[1:]):
		m, err := strconv.Atoi(label[1:])
		if err != nil || m < 1 || m > 12 {
			break
		}
		return monthEnd(year, time.Month(m)), nil
	}
	return time.Time{}, &apperrors.InvalidPeriodError{Label: label}
}

func monthEnd(year int, month time.Month) time.Time {
	// Day zero of the following month normalizes to the last day of month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
}

// isDigits reports whether s is non-empty and made of ASCII digits only.
// strconv.Atoi alone would accept a leading sign.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
