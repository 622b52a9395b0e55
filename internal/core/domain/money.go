package domain

import "github.com/shopspring/decimal"

// MoneyScale is the number of fractional digits kept for every monetary value.
const MoneyScale = 2

// RoundMoney rounds d half-up (away from zero on .5) to MoneyScale places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// FormatMoney renders d with exactly MoneyScale fractional digits.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(MoneyScale)
}
