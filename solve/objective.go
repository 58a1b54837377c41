package solve

import (
	"math"

	"github.com/meenmo/curo/cashflow"
)

// PresentValue evaluates the net present value of a factored profile at a
// candidate value x for its unknown flows, discounting at a known effective
// annual rate. The origin flow is added undiscounted.
type PresentValue struct {
	flows []cashflow.CashFlow
	times []float64
	rate  float64
}

// NewPresentValue prepares the objective for a profile whose factors are assigned.
func NewPresentValue(p cashflow.Profile, effectiveRate float64) PresentValue {
	return PresentValue{flows: p.Flows(), times: cashflow.OriginTimes(p), rate: effectiveRate}
}

func (o PresentValue) Evaluate(x float64) float64 {
	var npv float64
	for i, cf := range o.flows {
		v := cf.Amount(x)
		if cf.PeriodFactor != nil {
			npv += v * math.Pow(1+o.rate, -o.times[i])
		} else {
			npv += v
		}
	}
	return npv
}

// FutureValue evaluates the net future value of a fully known, factored
// profile at a candidate rate r. Every flow compounds by (1+r)^(1-t), where
// t is its time from the origin, so the origin flow itself grows by (1+r).
type FutureValue struct {
	flows []cashflow.CashFlow
	times []float64
}

// NewFutureValue prepares the objective for a profile whose factors are assigned.
func NewFutureValue(p cashflow.Profile) FutureValue {
	return FutureValue{flows: p.Flows(), times: cashflow.OriginTimes(p)}
}

func (o FutureValue) Evaluate(r float64) float64 {
	var nfv float64
	for i, cf := range o.flows {
		nfv += cf.Value * math.Pow(1+r, 1-o.times[i])
	}
	return nfv
}
