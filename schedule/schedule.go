// Package schedule decodes declarative calculation documents and runs them
// through a Calculator.
package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/meenmo/curo/calculator"
	"github.com/meenmo/curo/cashflow"
	"github.com/meenmo/curo/daycount"
	"github.com/meenmo/curo/series"
	"github.com/meenmo/curo/solve"
	"github.com/meenmo/curo/utils"
)

// Format is the encoding of a document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Solve selects what a document solves for.
type Solve string

const (
	SolveValue Solve = "value"
	SolveRate  Solve = "rate"
)

var (
	// ErrMixedSources is returned when a document holds both series and cash flows.
	ErrMixedSources = errors.New("series and cash_flows are mutually exclusive")
	// ErrUnsupportedFormat is returned for an unknown document format.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// Document describes one calculation.
//
// Conventions:
// - rates are decimals (0.0825 means 8.25%)
// - dates are YYYY-MM-DD
// - a series or cash flow without value is the unknown to solve for
type Document struct {
	Solve        Solve    `json:"solve" yaml:"solve" toml:"solve"`
	Convention   string   `json:"convention" yaml:"convention" toml:"convention"`
	UsePostDates *bool    `json:"use_post_dates,omitempty" yaml:"use_post_dates,omitempty" toml:"use_post_dates,omitempty"`
	XIRR         bool     `json:"xirr,omitempty" yaml:"xirr,omitempty" toml:"xirr,omitempty"`
	InterestRate float64  `json:"interest_rate,omitempty" yaml:"interest_rate,omitempty" toml:"interest_rate,omitempty"`
	StartDate    string   `json:"start_date,omitempty" yaml:"start_date,omitempty" toml:"start_date,omitempty"`
	RootGuess    *float64 `json:"root_guess,omitempty" yaml:"root_guess,omitempty" toml:"root_guess,omitempty"`
	Precision    *int     `json:"precision,omitempty" yaml:"precision,omitempty" toml:"precision,omitempty"`
	Series       []Series `json:"series,omitempty" yaml:"series,omitempty" toml:"series,omitempty"`
	CashFlows    []Flow   `json:"cash_flows,omitempty" yaml:"cash_flows,omitempty" toml:"cash_flows,omitempty"`
}

// Series is the document form of series.Series.
type Series struct {
	Role         string           `json:"role" yaml:"role" toml:"role"`
	NumberOf     int              `json:"number_of,omitempty" yaml:"number_of,omitempty" toml:"number_of,omitempty"`
	Label        string           `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
	Value        *float64         `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	PostDateFrom string           `json:"post_date_from,omitempty" yaml:"post_date_from,omitempty" toml:"post_date_from,omitempty"`
	Frequency    series.Frequency `json:"frequency,omitempty" yaml:"frequency,omitempty" toml:"frequency,omitempty"`
	Mode         series.Mode      `json:"mode,omitempty" yaml:"mode,omitempty" toml:"mode,omitempty"`
}

// Flow is the document form of a cash flow in a user-defined profile.
type Flow struct {
	Role      string   `json:"role" yaml:"role" toml:"role"`
	PostDate  string   `json:"post_date" yaml:"post_date" toml:"post_date"`
	ValueDate string   `json:"value_date,omitempty" yaml:"value_date,omitempty" toml:"value_date,omitempty"`
	Value     *float64 `json:"value,omitempty" yaml:"value,omitempty" toml:"value,omitempty"`
	// Known set to false marks the flow unknown even when a value is given.
	Known     *bool    `json:"known,omitempty" yaml:"known,omitempty" toml:"known,omitempty"`
	Weighting float64  `json:"weighting,omitempty" yaml:"weighting,omitempty" toml:"weighting,omitempty"`
	Label     string   `json:"label,omitempty" yaml:"label,omitempty" toml:"label,omitempty"`
}

// Result is the outcome of a document run.
type Result struct {
	Solve     Solve        `json:"solve"`
	Result    float64      `json:"result"`
	CashFlows []FlowResult `json:"cash_flows"`
}

// FlowResult is one resolved cash flow of the final profile.
type FlowResult struct {
	Role      string   `json:"role"`
	PostDate  string   `json:"post_date"`
	ValueDate string   `json:"value_date"`
	Label     string   `json:"label"`
	Value     float64  `json:"value"`
	Factor    *float64 `json:"factor,omitempty"`
}

// FormatFromPath infers the format from a file extension, defaulting to JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Decode parses a document.
func Decode(data []byte, format Format) (Document, error) {
	var doc Document
	var err error
	switch Format(strings.ToLower(string(format))) {
	case FormatJSON, "":
		err = json.Unmarshal(data, &doc)
	case FormatYAML, "yml":
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	default:
		return Document{}, fmt.Errorf("Decode: %w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return Document{}, fmt.Errorf("Decode: %s: %w", format, err)
	}
	return doc, nil
}

// RunOptions tunes Run.
type RunOptions struct {
	Logger    *slog.Logger
	Solver    *solve.Config
	Amortiser cashflow.Amortiser
	// Now supplies the start date when the document has none.
	Now func() time.Time
}

// Run executes the document on a fresh Calculator.
func Run(doc Document, opts RunOptions) (*Result, error) {
	if len(doc.Series) > 0 && len(doc.CashFlows) > 0 {
		return nil, fmt.Errorf("Run: %w", ErrMixedSources)
	}

	convOpts := []daycount.Option{daycount.XIRR(doc.XIRR)}
	if doc.UsePostDates != nil {
		convOpts = append(convOpts, daycount.PostDates(*doc.UsePostDates))
	}
	name := doc.Convention
	if strings.TrimSpace(name) == "" {
		name = "30/360"
	}
	dc, err := daycount.Lookup(name, convOpts...)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}

	precision := cashflow.DefaultPrecision
	if doc.Precision != nil {
		precision = *doc.Precision
	}

	var start time.Time
	if strings.TrimSpace(doc.StartDate) != "" {
		if start, err = utils.ParseDate(doc.StartDate); err != nil {
			return nil, fmt.Errorf("Run: invalid start_date: %w", err)
		}
	}

	calcOpts := []calculator.Option{calculator.WithPrecision(precision)}
	if opts.Logger != nil {
		calcOpts = append(calcOpts, calculator.WithLogger(opts.Logger))
	}
	if opts.Solver != nil {
		calcOpts = append(calcOpts, calculator.WithSolverConfig(*opts.Solver))
	}
	if opts.Amortiser != nil {
		calcOpts = append(calcOpts, calculator.WithAmortiser(opts.Amortiser))
	}
	if opts.Now != nil {
		calcOpts = append(calcOpts, calculator.WithClock(opts.Now))
	}
	if len(doc.CashFlows) > 0 {
		p, err := profileFromFlows(doc.CashFlows, precision)
		if err != nil {
			return nil, fmt.Errorf("Run: %w", err)
		}
		calcOpts = append(calcOpts, calculator.WithProfile(p))
	}

	calc, err := calculator.New(calcOpts...)
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	for i, s := range doc.Series {
		ser, err := s.toSeries()
		if err != nil {
			return nil, fmt.Errorf("Run: series %d: %w", i, err)
		}
		if err := calc.Add(ser); err != nil {
			return nil, fmt.Errorf("Run: series %d: %w", i, err)
		}
	}

	var out float64
	switch doc.Solve {
	case SolveValue:
		out, err = calc.SolveValue(calculator.ValueParams{
			DayCount:     dc,
			InterestRate: doc.InterestRate,
			StartDate:    start,
			RootGuess:    doc.RootGuess,
		})
	case SolveRate:
		out, err = calc.SolveRate(calculator.RateParams{
			DayCount:  dc,
			StartDate: start,
			RootGuess: doc.RootGuess,
		})
	default:
		return nil, fmt.Errorf("Run: invalid solve %q (use value or rate)", doc.Solve)
	}
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}

	p, err := calc.Profile()
	if err != nil {
		return nil, fmt.Errorf("Run: %w", err)
	}
	return &Result{Solve: doc.Solve, Result: out, CashFlows: flowResults(p)}, nil
}

func (s Series) toSeries() (series.Series, error) {
	role, err := cashflow.ParseRole(s.Role)
	if err != nil {
		return series.Series{}, err
	}
	opts := []series.Option{}
	if s.NumberOf != 0 {
		opts = append(opts, series.NumberOf(s.NumberOf))
	}
	if s.Label != "" {
		opts = append(opts, series.Label(s.Label))
	}
	if s.Value != nil {
		opts = append(opts, series.Value(*s.Value))
	}
	if s.PostDateFrom != "" {
		t, err := utils.ParseDate(s.PostDateFrom)
		if err != nil {
			return series.Series{}, fmt.Errorf("invalid post_date_from: %w", err)
		}
		opts = append(opts, series.PostDateFrom(t))
	}
	if s.Frequency != 0 {
		opts = append(opts, series.Every(s.Frequency))
	}
	if s.Mode != 0 {
		opts = append(opts, series.InMode(s.Mode))
	}
	return series.New(role, opts...), nil
}

func profileFromFlows(in []Flow, precision int) (cashflow.Profile, error) {
	flows := make([]cashflow.CashFlow, 0, len(in))
	for i, f := range in {
		role, err := cashflow.ParseRole(f.Role)
		if err != nil {
			return cashflow.Profile{}, fmt.Errorf("cash flow %d: %w", i, err)
		}
		post, err := utils.ParseDate(f.PostDate)
		if err != nil {
			return cashflow.Profile{}, fmt.Errorf("cash flow %d: invalid post_date: %w", i, err)
		}
		opts := []cashflow.Option{}
		if f.ValueDate != "" {
			vd, err := utils.ParseDate(f.ValueDate)
			if err != nil {
				return cashflow.Profile{}, fmt.Errorf("cash flow %d: invalid value_date: %w", i, err)
			}
			opts = append(opts, cashflow.WithValueDate(vd))
		}
		if f.Value != nil && (f.Known == nil || *f.Known) {
			opts = append(opts, cashflow.WithValue(*f.Value))
		} else {
			opts = append(opts, cashflow.WithUnknown())
		}
		if f.Weighting != 0 {
			opts = append(opts, cashflow.WithWeighting(f.Weighting))
		}
		if f.Label != "" {
			opts = append(opts, cashflow.WithLabel(f.Label))
		}
		cf, err := cashflow.New(role, post, opts...)
		if err != nil {
			return cashflow.Profile{}, fmt.Errorf("cash flow %d: %w", i, err)
		}
		flows = append(flows, cf)
	}
	return cashflow.NewProfile(flows, nil, precision)
}

func flowResults(p cashflow.Profile) []FlowResult {
	flows := p.Flows()
	out := make([]FlowResult, 0, len(flows))
	for _, cf := range flows {
		fr := FlowResult{
			Role:      strings.ToLower(cf.Role.String()),
			PostDate:  cf.PostDate.Format(utils.DateLayout),
			ValueDate: cf.ValueDate.Format(utils.DateLayout),
			Label:     cf.Label,
			Value:     cf.Value,
		}
		if cf.PeriodFactor != nil {
			v := cf.PeriodFactor.Value
			fr.Factor = &v
		}
		out = append(out, fr)
	}
	return out
}
