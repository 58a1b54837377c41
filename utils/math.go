package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// GaussRound rounds num to precision decimal places using round-half-to-even
// (banker's rounding), so repeated rounding carries no upward bias.
//
// The float is first converted to its shortest decimal representation, which
// keeps inputs such as 1.535 on the tie instead of just below it.
func GaussRound(num float64, precision int) float64 {
	if math.IsNaN(num) || math.IsInf(num, 0) {
		return num
	}
	if precision < 0 {
		precision = -precision
	}
	f, _ := decimal.NewFromFloat(num).RoundBank(int32(precision)).Float64()
	return f
}
