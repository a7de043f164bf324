package usecase

import "math"

// Spread returns the futures premium over spot in percent:
// (futures - spot) / spot * 100. It is 0 when either price is zero or not
// a finite number, since there is nothing meaningful to compare.
func Spread(spot, futures float64) float64 {
	if !usable(spot) || !usable(futures) {
		return 0
	}
	return (futures - spot) / spot * 100
}

func usable(v float64) bool {
	return v != 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
