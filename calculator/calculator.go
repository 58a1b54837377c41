// Package calculator solves unknown cash flow values, or the interest rate
// implicit in a fully known cash flow profile.
package calculator

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/meenmo/curo/cashflow"
	"github.com/meenmo/curo/daycount"
	"github.com/meenmo/curo/series"
	"github.com/meenmo/curo/solve"
	"github.com/meenmo/curo/utils"
)

var (
	// ErrInvalidPrecision is returned for a precision outside 0..4.
	ErrInvalidPrecision = cashflow.ErrInvalidPrecision
	// ErrNoDayCount is returned when a solve is requested without a convention.
	ErrNoDayCount = cashflow.ErrNoDayCount
	// ErrBespokeProfile is returned by Add when a user-defined profile is installed.
	ErrBespokeProfile = errors.New("series cannot be added to a calculator holding a user-defined profile")
	// ErrNoProfile is returned when the profile is read before it exists.
	ErrNoProfile = errors.New("the profile has not been initialised yet")
	// ErrNoUnknowns is returned by SolveValue when every cash flow is known.
	ErrNoUnknowns = errors.New("profile has no unknown cash flow values")
	// ErrUnknownValues is returned by SolveRate when a cash flow value is still unknown.
	ErrUnknownValues = errors.New("all cash flow values must be known to solve for the rate")
	// ErrEmptyProfile is returned when a profile holds no cash flows.
	ErrEmptyProfile = errors.New("profile has no cash flows")
)

// State is the position of a Calculator in its solving pipeline.
type State int

const (
	Uninitialized State = iota
	ProfileBuilt
	FactorsAssigned
	Solved
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case ProfileBuilt:
		return "profile_built"
	case FactorsAssigned:
		return "factors_assigned"
	case Solved:
		return "solved"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Calculator accumulates series (or holds a user-defined profile) and solves
// for the unknown value or the implicit rate.
//
// A Calculator owns its state exclusively; distinct instances may be used from
// different goroutines, a single instance may not.
type Calculator struct {
	id        uuid.UUID
	precision int
	bespoke   bool
	series    []series.Series
	profile   *cashflow.Profile
	state     State

	solverCfg solve.Config
	amortiser cashflow.Amortiser
	logger    *slog.Logger
	now       func() time.Time
}

type options struct {
	precision int
	profile   *cashflow.Profile
	solverCfg *solve.Config
	amortiser cashflow.Amortiser
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Calculator.
type Option func(*options)

// WithPrecision sets the number of fractional digits used to round values (0-4, default 2).
func WithPrecision(p int) Option {
	return func(o *options) { o.precision = p }
}

// WithProfile installs a user-defined profile. Its precision takes priority
// and series can no longer be added.
func WithProfile(p cashflow.Profile) Option {
	return func(o *options) { o.profile = &p }
}

// WithSolverConfig overrides solve.DefaultConfig for this calculator.
func WithSolverConfig(c solve.Config) Option {
	return func(o *options) { o.solverCfg = &c }
}

// WithAmortiser replaces the post-solve amortisation step.
func WithAmortiser(a cashflow.Amortiser) Option {
	return func(o *options) { o.amortiser = a }
}

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithClock sets the clock supplying the start date of undated series.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New returns a Calculator.
func New(opts ...Option) (*Calculator, error) {
	o := options{precision: cashflow.DefaultPrecision}
	for _, opt := range opts {
		opt(&o)
	}

	precision := o.precision
	if o.profile != nil {
		precision = o.profile.Precision()
	}
	if err := cashflow.ValidatePrecision(precision); err != nil {
		return nil, fmt.Errorf("calculator.New: %w", err)
	}

	c := &Calculator{
		id:        uuid.New(),
		precision: precision,
		bespoke:   o.profile != nil,
		solverCfg: solve.DefaultConfig,
		amortiser: o.amortiser,
		logger:    o.logger,
		now:       o.now,
	}
	if o.solverCfg != nil {
		c.solverCfg = *o.solverCfg
		if c.solverCfg.InitialGuess == 0 {
			c.solverCfg.InitialGuess = solve.DefaultConfig.InitialGuess
		}
	}
	if c.amortiser == nil {
		c.amortiser = cashflow.NoopAmortiser{}
	}
	if c.logger == nil {
		c.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.logger = c.logger.With("calc_id", c.id.String())

	if o.profile != nil {
		p := *o.profile
		c.profile = &p
		c.state = ProfileBuilt
	}
	return c, nil
}

// ID identifies the calculator in logs.
func (c *Calculator) ID() uuid.UUID { return c.id }

// Precision returns the number of fractional digits used in rounding values.
func (c *Calculator) Precision() int { return c.precision }

// State returns the current pipeline state.
func (c *Calculator) State() State { return c.state }

// Series returns a copy of the accumulated series.
func (c *Calculator) Series() []series.Series {
	return append([]series.Series(nil), c.series...)
}

// Profile returns the current profile.
func (c *Calculator) Profile() (cashflow.Profile, error) {
	if c.profile == nil {
		return cashflow.Profile{}, ErrNoProfile
	}
	return *c.profile, nil
}

// Add appends a series. The order matters for undated series, whose dates
// are inferred from the order of addition. Known values are rounded to the
// calculator's precision.
func (c *Calculator) Add(s series.Series) error {
	if c.bespoke {
		return fmt.Errorf("Add: %w", ErrBespokeProfile)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("Add: %w", err)
	}
	if s.Value != nil {
		s = s.WithValue(utils.GaussRound(*s.Value, c.precision))
	}
	c.series = append(c.series, s)
	return nil
}

// ValueParams are the inputs of SolveValue.
type ValueParams struct {
	DayCount daycount.Convention
	// InterestRate is the annual effective rate as a decimal (0.0825 == 8.25%).
	InterestRate float64
	// StartDate dates undated series; defaults to today (UTC).
	StartDate time.Time
	// RootGuess seeds the solver; nil uses the solver's initial guess.
	RootGuess *float64
}

// RateParams are the inputs of SolveRate.
type RateParams struct {
	DayCount  daycount.Convention
	StartDate time.Time
	RootGuess *float64
}

// SolveValue solves for the unknown cash flow value at the given rate,
// resolves every unknown flow to the rounded value times its weighting, and
// returns the rounded value.
func (c *Calculator) SolveValue(params ValueParams) (float64, error) {
	p, err := c.prepare(params.DayCount, params.StartDate)
	if err != nil {
		return 0, fmt.Errorf("SolveValue: %w", err)
	}
	if p.Unknowns() == 0 {
		return 0, fmt.Errorf("SolveValue: %w", ErrNoUnknowns)
	}

	res, err := solve.Root(solve.NewPresentValue(p, params.InterestRate), c.guess(params.RootGuess), c.solverCfg)
	if err != nil {
		return 0, fmt.Errorf("SolveValue: %w", err)
	}
	value := utils.GaussRound(res.Root, c.precision)

	p = p.WithCashFlows(cashflow.UpdateUnknowns(p.Flows(), value, c.precision))
	if p, err = c.amortise(p, params.InterestRate); err != nil {
		return 0, fmt.Errorf("SolveValue: %w", err)
	}
	c.setProfile(p, Solved)

	c.logger.Debug("value solved", "value", value, "iterations", res.Iterations, "residual", res.Residual)
	return value, nil
}

// SolveRate solves for the annual effective rate implicit in a fully known
// profile. The rate is returned unrounded, as a decimal.
func (c *Calculator) SolveRate(params RateParams) (float64, error) {
	p, err := c.prepare(params.DayCount, params.StartDate)
	if err != nil {
		return 0, fmt.Errorf("SolveRate: %w", err)
	}
	if p.Unknowns() > 0 {
		return 0, fmt.Errorf("SolveRate: %w (%d unknown)", ErrUnknownValues, p.Unknowns())
	}

	res, err := solve.Root(solve.NewFutureValue(p), c.guess(params.RootGuess), c.solverCfg)
	if err != nil {
		return 0, fmt.Errorf("SolveRate: %w", err)
	}

	if p, err = c.amortise(p, res.Root); err != nil {
		return 0, fmt.Errorf("SolveRate: %w", err)
	}
	c.setProfile(p, Solved)

	c.logger.Debug("rate solved", "rate", res.Root, "iterations", res.Iterations, "residual", res.Residual)
	return res.Root, nil
}

// prepare builds the profile if needed, attaches dc and assigns period factors.
func (c *Calculator) prepare(dc daycount.Convention, start time.Time) (cashflow.Profile, error) {
	if dc == nil {
		return cashflow.Profile{}, ErrNoDayCount
	}
	if c.profile == nil {
		if err := c.buildProfile(start); err != nil {
			return cashflow.Profile{}, err
		}
	}
	if c.profile.Len() == 0 {
		return cashflow.Profile{}, ErrEmptyProfile
	}

	p, err := cashflow.AssignFactors(c.profile.WithDayCount(dc))
	if err != nil {
		return cashflow.Profile{}, err
	}
	c.setProfile(p, FactorsAssigned)
	return p, nil
}

func (c *Calculator) buildProfile(start time.Time) error {
	if start.IsZero() {
		start = c.now()
	}
	flows, err := series.Build(c.series, utils.UTCDate(start))
	if err != nil {
		return err
	}
	p, err := cashflow.NewProfile(flows, nil, c.precision)
	if err != nil {
		return err
	}
	c.setProfile(p, ProfileBuilt)
	return nil
}

// amortise runs the amortiser unless the convention measures periods from the drawdown.
func (c *Calculator) amortise(p cashflow.Profile, rate float64) (cashflow.Profile, error) {
	if p.DayCount().Options().UseXirrMethod {
		return p, nil
	}
	flows, err := c.amortiser.Amortise(p.Flows(), rate, c.precision)
	if err != nil {
		return cashflow.Profile{}, fmt.Errorf("amortise: %w", err)
	}
	return p.WithCashFlows(flows), nil
}

func (c *Calculator) guess(g *float64) float64 {
	if g == nil {
		return c.solverCfg.InitialGuess
	}
	return *g
}

func (c *Calculator) setProfile(p cashflow.Profile, s State) {
	c.profile = &p
	c.state = s
	c.logger.Debug("profile updated", "state", s.String(), "flows", p.Len())
}
