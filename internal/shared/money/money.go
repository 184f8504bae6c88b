// Package money fixes the engine's rounding policy for monetary arithmetic.
//
// Every derived monetary value is rounded to 2 decimals at each derivation step,
// not only at the end. Tests assert on the intermediate values, so the policy
// lives in one place.
package money

import "github.com/shopspring/decimal"

// Round2 rounds half away from zero to 2 decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns value * (rate / 100), rounded to 2 decimals.
func Percent(value, rate decimal.Decimal) decimal.Decimal {
	return Round2(value.Mul(rate).Div(decimal.NewFromInt(100)))
}

// Zero is the canonical zero amount.
var Zero = decimal.Zero

// FromFloat builds an amount from a float input, normalized to 2 decimals.
func FromFloat(f float64) decimal.Decimal {
	return Round2(decimal.NewFromFloat(f))
}
