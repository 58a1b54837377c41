package daycount

import "time"

// US30360 is the US 30/360 (bond basis) convention used by the HP12C and
// similar financial calculators.
type US30360 struct {
	opts Options
}

// NewUS30360 returns a US 30/360 convention. Post dates drive the factor maths unless overridden.
func NewUS30360(opts ...Option) US30360 {
	return US30360{opts: buildOptions(opts)}
}

func (c US30360) Name() string     { return "30/360" }
func (c US30360) Options() Options { return c.opts }

// ComputeFactor applies the day-31 adjustments in order: day1 is clamped
// first, and day2 is clamped only when the adjusted day1 is at least 30.
func (c US30360) ComputeFactor(d1, d2 time.Time) Factor {
	d1, d2 = ordered(d1, d2)

	y1, m1, day1 := d1.Year(), int(d1.Month()), d1.Day()
	y2, m2, day2 := d2.Year(), int(d2.Month()), d2.Day()

	if day1 == 31 {
		day1 = 30
	}
	if day2 == 31 && day1 >= 30 {
		day2 = 30
	}

	numerator := (y2-y1)*360 + (m2-m1)*30 + (day2 - day1)
	return newFactor(float64(numerator), 360)
}

// EU30360 is the 30E/360 (Eurobond basis) convention: both days are capped at 30.
type EU30360 struct {
	opts Options
}

func NewEU30360(opts ...Option) EU30360 {
	return EU30360{opts: buildOptions(opts)}
}

func (c EU30360) Name() string     { return "30E/360" }
func (c EU30360) Options() Options { return c.opts }

func (c EU30360) ComputeFactor(d1, d2 time.Time) Factor {
	d1, d2 = ordered(d1, d2)

	day1 := d1.Day()
	if day1 > 30 {
		day1 = 30
	}
	day2 := d2.Day()
	if day2 > 30 {
		day2 = 30
	}
	y1, m1 := d1.Year(), int(d1.Month())
	y2, m2 := d2.Year(), int(d2.Month())
	return newFactor(float64(360*(y2-y1)+30*(m2-m1)+(day2-day1)), 360)
}
