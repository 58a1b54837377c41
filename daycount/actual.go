package daycount

import (
	"time"

	"github.com/meenmo/curo/utils"
)

// Act360 counts actual days over a 360-day year.
type Act360 struct {
	opts Options
}

func NewAct360(opts ...Option) Act360 {
	return Act360{opts: buildOptions(opts)}
}

func (c Act360) Name() string     { return "ACT/360" }
func (c Act360) Options() Options { return c.opts }

func (c Act360) ComputeFactor(d1, d2 time.Time) Factor {
	d1, d2 = ordered(d1, d2)
	return newFactor(float64(utils.ActualDays(d1, d2)), 360)
}

// Act365F counts actual days over a fixed 365-day year; leap days are not special-cased.
type Act365F struct {
	opts Options
}

func NewAct365F(opts ...Option) Act365F {
	return Act365F{opts: buildOptions(opts)}
}

func (c Act365F) Name() string     { return "ACT/365F" }
func (c Act365F) Options() Options { return c.opts }

func (c Act365F) ComputeFactor(d1, d2 time.Time) Factor {
	d1, d2 = ordered(d1, d2)
	return newFactor(float64(utils.ActualDays(d1, d2)), 365)
}
