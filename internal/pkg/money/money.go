// Package money holds the store's pricing arithmetic.
package money

import "github.com/shopspring/decimal"

// TaxRate is the fixed sales tax rate applied to every order.
var TaxRate = decimal.RequireFromString("0.0825")

var hundred = decimal.NewFromInt(100)

// Round2 rounds to cents, half away from zero.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Tax returns the rounded tax owed on subtotal.
func Tax(subtotal decimal.Decimal) decimal.Decimal {
	return Round2(subtotal.Mul(TaxRate))
}

// Total returns the rounded sum of subtotal and tax.
func Total(subtotal, tax decimal.Decimal) decimal.Decimal {
	return Round2(subtotal.Add(tax))
}

// Points converts a spend amount to loyalty points: one point per cent.
func Points(total decimal.Decimal) int64 {
	return total.Mul(hundred).Round(0).IntPart()
}

// FromFloat converts a float dollar amount to a rounded decimal.
func FromFloat(f float64) decimal.Decimal {
	return Round2(decimal.NewFromFloat(f))
}
