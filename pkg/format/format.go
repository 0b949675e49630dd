// Package format renders engine output for display. Values of $1e9 and up
// abbreviate to B, $1e6 to M, $1e3 to K; everything else prints as plain
// dollars. This is the consumer-facing contract the API's numbers feed into.
package format

import (
	"fmt"
	"math"
)

// Currency formats a dollar amount with K/M/B abbreviation, two decimals.
// Negative amounts keep their sign in front of the dollar symbol.
func Currency(v float64) string {
	sign := ""
	if math.Signbit(v) {
		sign = "-"
	}
	abs := math.Abs(v)

	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%s$%.2fB", sign, abs/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%s$%.2fM", sign, abs/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%s$%.2fK", sign, abs/1e3)
	default:
		return fmt.Sprintf("%s$%.2f", sign, abs)
	}
}

// Percent formats a percentage value with two decimals.
func Percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
