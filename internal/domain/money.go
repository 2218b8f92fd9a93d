package domain

import "math"

// Round2 rounds a monetary value to cents. Only for display: totals are
// summed unrounded to avoid compounding rounding error.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
