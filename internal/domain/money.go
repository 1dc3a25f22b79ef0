package domain

import "math"

// ToMinorUnits converts a decimal currency amount to integer minor units
// (cents). Rounding, never truncation: truncating 12.345 to 1234 would
// systematically undercharge.
func ToMinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// FromMinorUnits converts integer minor units back to a decimal amount.
func FromMinorUnits(minor int64) float64 {
	return float64(minor) / 100
}
