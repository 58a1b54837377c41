// Package cashflow holds the dated cash flow and profile model evaluated by the solvers.
package cashflow

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/meenmo/curo/daycount"
)

var (
	// ErrInvalidDate is returned when a cash flow date is missing.
	ErrInvalidDate = errors.New("cash flow dates must be set")
	// ErrValueDateBeforePostDate is returned when settlement precedes the due date.
	ErrValueDateBeforePostDate = errors.New("cash flow value date must fall on or after the post date")
	// ErrNonPositiveWeighting is returned for a weighting that is not greater than zero.
	ErrNonPositiveWeighting = errors.New("cash flow weighting must be greater than 0.0")
)

// Role distinguishes the economic meaning of a cash flow. It only drives
// default labelling; all roles share the same arithmetic.
type Role int

const (
	// RoleAdvance is money disbursed, e.g. loan principal.
	RoleAdvance Role = iota
	// RolePayment is money repaid.
	RolePayment
	// RoleCharge is a fee or charge layered onto the schedule.
	RoleCharge
)

func (r Role) String() string {
	switch r {
	case RoleAdvance:
		return "Advance"
	case RolePayment:
		return "Payment"
	case RoleCharge:
		return "Charge"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// ParseRole parses "advance", "payment" or "charge" (case-insensitive).
func ParseRole(s string) (Role, error) {
	for _, r := range []Role{RoleAdvance, RolePayment, RoleCharge} {
		if strings.EqualFold(strings.TrimSpace(s), r.String()) {
			return r, nil
		}
	}
	return 0, fmt.Errorf("ParseRole: unknown role %q", s)
}

// CashFlow is a single dated monetary event. It is a value type: every
// update returns a new CashFlow.
type CashFlow struct {
	Role Role

	// PostDate is the contractual due date.
	PostDate time.Time
	// ValueDate is the settlement date, never before PostDate.
	ValueDate time.Time

	// Value is the signed amount; only meaningful when IsKnown.
	Value   float64
	IsKnown bool

	// Weighting scales this flow's share of an unknown value.
	Weighting float64
	Label     string

	// PeriodFactor is assigned by AssignFactors; nil for the origin flow.
	PeriodFactor *daycount.Factor
}

type settings struct {
	valueDate    time.Time
	value        float64
	hasValue     bool
	forceUnknown bool
	weighting    float64
	label        string
	hasLabel     bool
}

// Option configures a CashFlow under construction.
type Option func(*settings)

// WithValueDate sets the settlement date (defaults to the post date).
func WithValueDate(t time.Time) Option {
	return func(s *settings) { s.valueDate = t }
}

// WithValue sets a known value.
func WithValue(v float64) Option {
	return func(s *settings) {
		s.value = v
		s.hasValue = true
		s.forceUnknown = false
	}
}

// WithUnknown marks the value as the unknown to solve for.
func WithUnknown() Option {
	return func(s *settings) {
		s.value = 0
		s.hasValue = false
		s.forceUnknown = true
	}
}

// WithWeighting sets the relative weighting of an unknown value.
func WithWeighting(w float64) Option {
	return func(s *settings) { s.weighting = w }
}

// WithLabel overrides the role's default label.
func WithLabel(label string) Option {
	return func(s *settings) {
		s.label = label
		s.hasLabel = true
	}
}

// New constructs a cash flow of the given role and validates its invariants.
func New(role Role, postDate time.Time, opts ...Option) (CashFlow, error) {
	s := settings{weighting: 1.0}
	for _, opt := range opts {
		opt(&s)
	}

	if postDate.IsZero() {
		return CashFlow{}, fmt.Errorf("cashflow.New: %w", ErrInvalidDate)
	}
	valueDate := s.valueDate
	if valueDate.IsZero() {
		valueDate = postDate
	}
	if valueDate.Before(postDate) {
		return CashFlow{}, fmt.Errorf("cashflow.New: %w (post %s, value %s)",
			ErrValueDateBeforePostDate, postDate.Format("2006-01-02"), valueDate.Format("2006-01-02"))
	}
	if math.IsNaN(s.weighting) || !(s.weighting > 0) {
		return CashFlow{}, fmt.Errorf("cashflow.New: %w, got %v", ErrNonPositiveWeighting, s.weighting)
	}

	label := role.String()
	if s.hasLabel {
		label = s.label
	}

	return CashFlow{
		Role:         role,
		PostDate:     postDate,
		ValueDate:    valueDate,
		Value:        s.value,
		IsKnown:      s.hasValue && !s.forceUnknown,
		Weighting:    s.weighting,
		Label:        label,
	}, nil
}

// NewAdvance constructs an advance labelled "Advance" by default.
func NewAdvance(postDate time.Time, opts ...Option) (CashFlow, error) {
	return New(RoleAdvance, postDate, opts...)
}

// NewPayment constructs a payment labelled "Payment" by default.
func NewPayment(postDate time.Time, opts ...Option) (CashFlow, error) {
	return New(RolePayment, postDate, opts...)
}

// NewCharge constructs a charge labelled "Charge" by default.
func NewCharge(postDate time.Time, opts ...Option) (CashFlow, error) {
	return New(RoleCharge, postDate, opts...)
}

// Date returns the post date or the value date.
func (c CashFlow) Date(usePostDates bool) time.Time {
	if usePostDates {
		return c.PostDate
	}
	return c.ValueDate
}

// WithFactor returns a copy carrying f as its period factor. A nil f clears it.
func (c CashFlow) WithFactor(f *daycount.Factor) CashFlow {
	if f != nil {
		cp := *f
		f = &cp
	}
	c.PeriodFactor = f
	return c
}

// Resolved returns a known copy with the given value.
func (c CashFlow) Resolved(value float64) CashFlow {
	c.Value = value
	c.IsKnown = true
	return c
}

// Amount returns the value contributed by this flow when the unknown
// value resolves to x.
func (c CashFlow) Amount(x float64) float64 {
	if c.IsKnown {
		return c.Value
	}
	return x * c.Weighting
}
