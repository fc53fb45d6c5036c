// Package money provides fixed-precision helpers for monetary amounts.
//
// Amounts are plain float64 values rounded to two decimal places whenever
// they are displayed or split. Every equality and zero check in the ledger
// goes through the Epsilon tolerance so that rounding drift from split
// calculations never fails a validation or leaves a sub-cent balance behind.
package money

import "math"

// Epsilon is the tolerance under which two amounts are considered equal
// and a balance is considered settled. Every comparison in the ledger
// uses this constant.
const Epsilon = 0.01

// Round rounds an amount to two decimal places.
func Round(v float64) float64 {
	return math.Round(v*100) / 100
}

// IsZero reports whether an amount is close enough to zero to be treated
// as settled.
func IsZero(v float64) bool {
	return math.Abs(v) < Epsilon
}

// Equal reports whether two amounts are equal within Epsilon.
func Equal(a, b float64) bool {
	return math.Abs(a-b) < Epsilon
}
