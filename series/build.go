package series

import (
	"fmt"
	"time"

	"github.com/meenmo/curo/cashflow"
	"github.com/meenmo/curo/utils"
)

// cursor is the next undated start for a role and the day-of-month it rolls on.
type cursor struct {
	date time.Time
	day  int
}

// Build expands the series, in order, into dated cash flows.
//
// A series with PostDateFrom starts on that date. An undated series starts
// from a cursor kept per role, initialised to start: Advance mode places the
// first flow on the cursor and Arrear mode one period later. The cursor then
// moves NumberOf periods on, so undated series of the same role follow each
// other in the order they were added. The cursor keeps the day-of-month of
// start, so a chain begun on a month end stays on month ends; weekly series
// move it to the day they finish on.
func Build(list []Series, start time.Time) ([]cashflow.CashFlow, error) {
	if start.IsZero() {
		return nil, fmt.Errorf("Build: %w", cashflow.ErrInvalidDate)
	}
	start = utils.UTCDate(start)

	cursors := make(map[cashflow.Role]cursor, 3)
	flows := make([]cashflow.CashFlow, 0, len(list))

	for i, s := range list {
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("Build: series %d: %w", i, err)
		}

		// anchor and day fix the first date and preferred day-of-month of the series.
		anchor, offset := utils.UTCDate(s.PostDateFrom), 0
		day := anchor.Day()
		if s.PostDateFrom.IsZero() {
			c, ok := cursors[s.Role]
			if !ok {
				c = cursor{date: start, day: start.Day()}
			}
			anchor, day = c.date, c.day
			if s.Mode == Arrear {
				offset = 1
			}
			next := cursor{date: s.Frequency.Roll(c.date, s.NumberOf, c.day), day: c.day}
			if s.Frequency == Weekly || s.Frequency == Fortnightly {
				next.day = next.date.Day()
			}
			cursors[s.Role] = next
		}

		opts := []cashflow.Option{cashflow.WithLabel(s.Label)}
		if s.Value != nil {
			opts = append(opts, cashflow.WithValue(*s.Value))
		} else {
			opts = append(opts, cashflow.WithUnknown())
		}

		for n := 0; n < s.NumberOf; n++ {
			cf, err := cashflow.New(s.Role, s.Frequency.Roll(anchor, n+offset, day), opts...)
			if err != nil {
				return nil, fmt.Errorf("Build: series %d flow %d: %w", i, n, err)
			}
			flows = append(flows, cf)
		}
	}
	return flows, nil
}
