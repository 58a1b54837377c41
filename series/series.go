// Package series describes undated cash flow templates and expands them into dated cash flows.
package series

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/curo/cashflow"
	"github.com/meenmo/curo/utils"
)

var (
	// ErrInvalidSeries is returned when a series template cannot be expanded.
	ErrInvalidSeries = errors.New("invalid series")
)

// Frequency is the compounding period between two cash flows of a series.
type Frequency int

const (
	Weekly Frequency = iota + 1
	Fortnightly
	Monthly
	Quarterly
	HalfYearly
	Yearly
)

var frequencyNames = map[Frequency]string{
	Weekly:      "weekly",
	Fortnightly: "fortnightly",
	Monthly:     "monthly",
	Quarterly:   "quarterly",
	HalfYearly:  "halfYearly",
	Yearly:      "yearly",
}

func (f Frequency) String() string {
	if s, ok := frequencyNames[f]; ok {
		return s
	}
	return fmt.Sprintf("Frequency(%d)", int(f))
}

// ParseFrequency parses a frequency name (case-insensitive).
func ParseFrequency(s string) (Frequency, error) {
	for f, name := range frequencyNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return f, nil
		}
	}
	return 0, fmt.Errorf("ParseFrequency: unknown frequency %q", s)
}

func (f Frequency) MarshalText() ([]byte, error) {
	if _, ok := frequencyNames[f]; !ok {
		return nil, fmt.Errorf("MarshalText: unknown frequency %d", int(f))
	}
	return []byte(f.String()), nil
}

func (f *Frequency) UnmarshalText(b []byte) error {
	v, err := ParseFrequency(string(b))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

// Roll moves t forward by n periods. Month-based frequencies land on
// dayPref where the target month allows it and on the month end otherwise.
func (f Frequency) Roll(t time.Time, n int, dayPref int) time.Time {
	switch f {
	case Weekly:
		return utils.RollDay(t, 7*n)
	case Fortnightly:
		return utils.RollDay(t, 14*n)
	case Monthly:
		return utils.RollMonth(t, n, dayPref)
	case Quarterly:
		return utils.RollMonth(t, 3*n, dayPref)
	case HalfYearly:
		return utils.RollMonth(t, 6*n, dayPref)
	case Yearly:
		return utils.RollMonth(t, 12*n, dayPref)
	default:
		return t
	}
}

// Mode places a cash flow at the start or the end of its compounding period.
type Mode int

const (
	// Advance flows are due at the beginning of a period.
	Advance Mode = iota + 1
	// Arrear flows are due at the end of a period.
	Arrear
)

func (m Mode) String() string {
	switch m {
	case Advance:
		return "advance"
	case Arrear:
		return "arrear"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "advance" or "arrear" (case-insensitive).
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "advance":
		return Advance, nil
	case "arrear", "arrears":
		return Arrear, nil
	default:
		return 0, fmt.Errorf("ParseMode: unknown mode %q", s)
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	if m != Advance && m != Arrear {
		return nil, fmt.Errorf("MarshalText: unknown mode %d", int(m))
	}
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	v, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Series is an undated template of NumberOf cash flows of one role.
type Series struct {
	Role     cashflow.Role
	NumberOf int
	Label    string
	// Value is nil when the series holds the unknown to solve for.
	Value *float64
	// PostDateFrom dates the first flow; zero means the date is inferred.
	PostDateFrom time.Time
	Frequency    Frequency
	Mode         Mode
}

// Option configures a Series.
type Option func(*Series)

// NumberOf sets the number of cash flows.
func NumberOf(n int) Option {
	return func(s *Series) { s.NumberOf = n }
}

// Label sets the label copied to each cash flow.
func Label(label string) Option {
	return func(s *Series) { s.Label = label }
}

// Value sets a known value for each cash flow.
func Value(v float64) Option {
	return func(s *Series) { s.Value = &v }
}

// Unknown marks the series value as the unknown to solve for.
func Unknown() Option {
	return func(s *Series) { s.Value = nil }
}

// PostDateFrom dates the first cash flow explicitly.
func PostDateFrom(t time.Time) Option {
	return func(s *Series) { s.PostDateFrom = utils.UTCDate(t) }
}

// Every sets the frequency.
func Every(f Frequency) Option {
	return func(s *Series) { s.Frequency = f }
}

// InMode sets the mode.
func InMode(m Mode) Option {
	return func(s *Series) { s.Mode = m }
}

// New builds a series of the given role. Advances default to Advance mode,
// payments and charges to Arrear; all default to one monthly flow.
func New(role cashflow.Role, opts ...Option) Series {
	s := Series{
		Role:      role,
		NumberOf:  1,
		Label:     role.String(),
		Frequency: Monthly,
		Mode:      Arrear,
	}
	if role == cashflow.RoleAdvance {
		s.Mode = Advance
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func NewAdvance(opts ...Option) Series { return New(cashflow.RoleAdvance, opts...) }
func NewPayment(opts ...Option) Series { return New(cashflow.RolePayment, opts...) }
func NewCharge(opts ...Option) Series  { return New(cashflow.RoleCharge, opts...) }

// IsKnown reports whether the series carries a value.
func (s Series) IsKnown() bool { return s.Value != nil }

// WithValue returns a copy of s holding v.
func (s Series) WithValue(v float64) Series {
	s.Value = &v
	return s
}

// Validate checks the template before expansion.
func (s Series) Validate() error {
	if s.NumberOf < 1 {
		return fmt.Errorf("%w: number of cash flows must be at least 1, got %d", ErrInvalidSeries, s.NumberOf)
	}
	if _, ok := frequencyNames[s.Frequency]; !ok {
		return fmt.Errorf("%w: unsupported frequency %d", ErrInvalidSeries, int(s.Frequency))
	}
	if s.Mode != Advance && s.Mode != Arrear {
		return fmt.Errorf("%w: unsupported mode %d", ErrInvalidSeries, int(s.Mode))
	}
	switch s.Role {
	case cashflow.RoleAdvance, cashflow.RolePayment, cashflow.RoleCharge:
	default:
		return fmt.Errorf("%w: unsupported role %d", ErrInvalidSeries, int(s.Role))
	}
	return nil
}
