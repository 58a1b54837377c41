package cashflow

import (
	"errors"
	"fmt"
	"sort"

	"github.com/meenmo/curo/daycount"
	"github.com/meenmo/curo/utils"
)

const (
	// MinPrecision and MaxPrecision bound the decimal places used for rounding values.
	MinPrecision = 0
	MaxPrecision = 4
	// DefaultPrecision applies when no precision is supplied.
	DefaultPrecision = 2
)

var (
	// ErrInvalidPrecision is returned for a precision outside [MinPrecision, MaxPrecision].
	ErrInvalidPrecision = errors.New("precision must be between 0 and 4 inclusive")
	// ErrNoDayCount is returned when a profile is evaluated without a convention.
	ErrNoDayCount = errors.New("day count convention is required")
)

// ValidatePrecision checks that precision lies within the supported range.
func ValidatePrecision(precision int) error {
	if precision < MinPrecision || precision > MaxPrecision {
		return fmt.Errorf("%w, got %d", ErrInvalidPrecision, precision)
	}
	return nil
}

// Profile is an ordered collection of cash flows together with the
// convention and precision used to evaluate them. Profiles are never
// modified in place; the With* methods return new profiles.
type Profile struct {
	cashFlows []CashFlow
	dayCount  daycount.Convention
	precision int
}

// NewProfile copies flows into a new profile. dayCount may be nil until solving.
func NewProfile(flows []CashFlow, dayCount daycount.Convention, precision int) (Profile, error) {
	if err := ValidatePrecision(precision); err != nil {
		return Profile{}, fmt.Errorf("NewProfile: %w", err)
	}
	return Profile{
		cashFlows: append([]CashFlow(nil), flows...),
		dayCount:  dayCount,
		precision: precision,
	}, nil
}

// Flows returns a copy of the cash flows in profile order.
func (p Profile) Flows() []CashFlow {
	return append([]CashFlow(nil), p.cashFlows...)
}

// Len returns the number of cash flows.
func (p Profile) Len() int { return len(p.cashFlows) }

// DayCount returns the convention, or nil when none is attached.
func (p Profile) DayCount() daycount.Convention { return p.dayCount }

// Precision returns the number of decimal places used for rounding values.
func (p Profile) Precision() int { return p.precision }

// WithDayCount returns a copy of p using dc.
func (p Profile) WithDayCount(dc daycount.Convention) Profile {
	return Profile{cashFlows: p.Flows(), dayCount: dc, precision: p.precision}
}

// WithCashFlows returns a copy of p holding flows.
func (p Profile) WithCashFlows(flows []CashFlow) Profile {
	return Profile{cashFlows: append([]CashFlow(nil), flows...), dayCount: p.dayCount, precision: p.precision}
}

// Unknowns returns the number of flows whose value is still to be solved.
func (p Profile) Unknowns() int {
	n := 0
	for _, cf := range p.cashFlows {
		if !cf.IsKnown {
			n++
		}
	}
	return n
}

// AssignFactors sorts the flows by the convention's date field and stamps
// each flow after the first with its period factor.
//
// With a neighbour origin the factor spans the preceding flow; with a
// drawdown (XIRR) origin it spans the first flow. The first flow never
// carries a factor.
func AssignFactors(p Profile) (Profile, error) {
	dc := p.dayCount
	if dc == nil {
		return Profile{}, fmt.Errorf("AssignFactors: %w", ErrNoDayCount)
	}
	opts := dc.Options()

	flows := p.Flows()
	sort.SliceStable(flows, func(i, j int) bool {
		return flows[i].Date(opts.UsePostDates).Before(flows[j].Date(opts.UsePostDates))
	})

	if len(flows) > 0 {
		flows[0] = flows[0].WithFactor(nil)
	}
	for i := 1; i < len(flows); i++ {
		origin := flows[i-1]
		if opts.Origin() == daycount.OriginDrawdown {
			origin = flows[0]
		}
		f := dc.ComputeFactor(origin.Date(opts.UsePostDates), flows[i].Date(opts.UsePostDates))
		flows[i] = flows[i].WithFactor(&f)
	}

	return p.WithCashFlows(flows), nil
}

// OriginTimes returns, for each flow in profile order, the number of
// compounding periods between the origin flow and that flow.
//
// Under a drawdown origin this is the flow's own factor. Under a neighbour
// origin the factors of the preceding periods are accumulated. Flows without
// a factor contribute no time.
func OriginTimes(p Profile) []float64 {
	drawdown := p.dayCount != nil && p.dayCount.Options().Origin() == daycount.OriginDrawdown
	times := make([]float64, len(p.cashFlows))
	var elapsed float64
	for i, cf := range p.cashFlows {
		if cf.PeriodFactor == nil {
			times[i] = elapsed
			continue
		}
		if drawdown {
			times[i] = cf.PeriodFactor.Value
			continue
		}
		elapsed += cf.PeriodFactor.Value
		times[i] = elapsed
	}
	return times
}

// UpdateUnknowns resolves every unknown flow to value*weighting rounded to
// precision with banker's rounding.
func UpdateUnknowns(flows []CashFlow, value float64, precision int) []CashFlow {
	out := make([]CashFlow, 0, len(flows))
	for _, cf := range flows {
		if !cf.IsKnown {
			cf = cf.Resolved(utils.GaussRound(value*cf.Weighting, precision))
		}
		out = append(out, cf)
	}
	return out
}

// Amortiser transforms a solved profile's flows once the rate is known.
type Amortiser interface {
	Amortise(flows []CashFlow, rate float64, precision int) ([]CashFlow, error)
}

// AmortiserFunc adapts a function to the Amortiser interface.
type AmortiserFunc func(flows []CashFlow, rate float64, precision int) ([]CashFlow, error)

func (f AmortiserFunc) Amortise(flows []CashFlow, rate float64, precision int) ([]CashFlow, error) {
	return f(flows, rate, precision)
}

// NoopAmortiser returns the flows unchanged.
type NoopAmortiser struct{}

func (NoopAmortiser) Amortise(flows []CashFlow, _ float64, _ int) ([]CashFlow, error) {
	return flows, nil
}
