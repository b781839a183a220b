package binning

import (
	"math"
)

// Distance returns the Euclidean distance between a and b. When period > 0
// each axis separation is wrapped under the minimum-image convention of a
// cubic box with that side length; period == 0 gives the plain distance.
// a and b must have the same length and lie inside [0, period) when
// wrapping is requested.
func Distance(a, b []float64, period float64) float64 {
	sum := 0.0
	for k := range a {
		d := math.Abs(a[k] - b[k])
		if period > 0 && d > period-d {
			d = period - d
		}
		sum += d * d
	}
	return math.Sqrt(sum)
}
