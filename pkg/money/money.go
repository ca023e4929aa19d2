// Package money provides the currency primitives the conversion pipeline
// relies on: ISO-4217 code validation and precise USD rounding. Arithmetic
// goes through shopspring/decimal so repeated float multiplication cannot
// accumulate drift.
package money

import (
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// USDPrecision is the decimal precision converted USD values are rounded to.
const USDPrecision = 4

// NormalizeCode uppercases and trims a raw currency code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode reports whether a code exists in the ISO-4217 table.
func ValidCode(code string) bool {
	return gomoney.GetCurrency(NormalizeCode(code)) != nil
}

// ToUSD multiplies a value by its USD rate and rounds to USDPrecision.
func ToUSD(value, rate float64) float64 {
	return decimal.NewFromFloat(value).
		Mul(decimal.NewFromFloat(rate)).
		Round(USDPrecision).
		InexactFloat64()
}

// RoundUSD rounds an already-converted value to USDPrecision.
func RoundUSD(value float64) float64 {
	return decimal.NewFromFloat(value).Round(USDPrecision).InexactFloat64()
}
