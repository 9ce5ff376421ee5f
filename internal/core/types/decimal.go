// Package types provides common numeric types shared by all domains.
package types

import (
	"github.com/shopspring/decimal"
)

func init() {
	// Quantities and prices travel as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Money represents a monetary value with full precision.
type Money = decimal.Decimal

// Quantity is a weight (kg or g) or count with full precision.
type Quantity = decimal.Decimal

// GramsPerKg converts between the gram-based formula lines and kg-based stock.
var GramsPerKg = decimal.NewFromInt(1000)

// MoneyPlaces is the number of decimals used for rounded prices.
const MoneyPlaces int32 = 2

// QuantityPlaces matches the NUMERIC(18, 4) scale of stock columns.
const QuantityPlaces int32 = 4

// MustDecimal parses a constant, panics on error.
// Use only for constants and tests.
func MustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// Zero returns a zero value.
func Zero() decimal.Decimal {
	return decimal.Zero
}

// GramsToKg converts grams to kilograms.
func GramsToKg(g Quantity) Quantity {
	return g.Div(GramsPerKg)
}

// KgToGrams converts kilograms to grams.
func KgToGrams(kg Quantity) Quantity {
	return kg.Mul(GramsPerKg)
}

// RoundMoney rounds to two decimals (half away from zero).
func RoundMoney(m Money) Money {
	return m.Round(MoneyPlaces)
}

// RoundQuantity rounds to the scale quantities are stored with.
func RoundQuantity(q Quantity) Quantity {
	return q.Round(QuantityPlaces)
}
