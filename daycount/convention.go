// Package daycount converts pairs of dates into fractional compounding periods.
package daycount

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownConvention is returned by Lookup for unsupported convention names.
var ErrUnknownConvention = errors.New("unknown day count convention")

// Factor is the fraction of a compounding period between two dates.
type Factor struct {
	Numerator   float64
	Denominator float64
	Value       float64
}

func newFactor(numerator, denominator float64) Factor {
	return Factor{
		Numerator:   numerator,
		Denominator: denominator,
		Value:       numerator / denominator,
	}
}

func (f Factor) String() string {
	return fmt.Sprintf("(%g/%g) = %.8f", f.Numerator, f.Denominator, f.Value)
}

// Origin determines how day count intervals are measured across a profile.
type Origin int

const (
	// OriginNeighbour measures each period between adjacent cash flow dates.
	OriginNeighbour Origin = iota
	// OriginDrawdown measures every period from the first drawdown date (XIRR).
	OriginDrawdown
)

func (o Origin) String() string {
	switch o {
	case OriginNeighbour:
		return "neighbour"
	case OriginDrawdown:
		return "drawdown"
	default:
		return fmt.Sprintf("Origin(%d)", int(o))
	}
}

// Options holds the settings shared by all conventions.
type Options struct {
	// UsePostDates selects post dates (true) or value dates for factor maths.
	UsePostDates bool

	// IncludeNonFinancingFlows is carried for conventions that distinguish
	// charges from financing flows.
	IncludeNonFinancingFlows bool

	// UseXirrMethod anchors every factor to the first cash flow.
	UseXirrMethod bool
}

// Origin returns the day count origin implied by the options.
func (o Options) Origin() Origin {
	if o.UseXirrMethod {
		return OriginDrawdown
	}
	return OriginNeighbour
}

// Option configures Options.
type Option func(*Options)

// PostDates sets Options.UsePostDates.
func PostDates(v bool) Option {
	return func(o *Options) { o.UsePostDates = v }
}

// NonFinancingFlows sets Options.IncludeNonFinancingFlows.
func NonFinancingFlows(v bool) Option {
	return func(o *Options) { o.IncludeNonFinancingFlows = v }
}

// XIRR sets Options.UseXirrMethod.
func XIRR(v bool) Option {
	return func(o *Options) { o.UseXirrMethod = v }
}

func buildOptions(opts []Option) Options {
	o := Options{UsePostDates: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Convention computes period factors between two dates.
//
// ComputeFactor is order independent: implementations swap the dates when d1 is after d2.
type Convention interface {
	ComputeFactor(d1, d2 time.Time) Factor
	Options() Options
	Name() string
}

// Lookup resolves a convention by its market name.
func Lookup(name string, opts ...Option) (Convention, error) {
	switch strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), " ", "")) {
	case "30/360", "US30/360", "30U/360", "BONDBASIS":
		return NewUS30360(opts...), nil
	case "30E/360", "EU30/360", "EUROBOND":
		return NewEU30360(opts...), nil
	case "ACT/360":
		return NewAct360(opts...), nil
	case "ACT/365F", "ACT/365":
		return NewAct365F(opts...), nil
	default:
		return nil, fmt.Errorf("Lookup: %w: %q", ErrUnknownConvention, name)
	}
}

func ordered(d1, d2 time.Time) (time.Time, time.Time) {
	if d1.After(d2) {
		return d2, d1
	}
	return d1, d2
}
