package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

// gridULPs is how many units in the last place a product may sit above a
// grid line and still count as on it, so that 100 * 1.1 = 110.00000000000001
// bills 110 while 100.0000000001 * 1.1 bills the next increment.
const gridULPs = 4

// roundMoney rounds to cents, half away from zero. Only applied at output.
func roundMoney(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// roundUpToGrid returns the smallest multiple of increment >= v.
func roundUpToGrid(v, increment float64) float64 {
	steps := v / increment
	nearest := math.Round(steps)
	if steps > nearest && steps-nearest <= gridULPs*ulp(nearest) {
		steps = nearest
	}
	return math.Ceil(steps) * increment
}

func ulp(x float64) float64 {
	return math.Nextafter(math.Abs(x), math.Inf(1)) - math.Abs(x)
}
