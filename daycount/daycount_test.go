package daycount_test

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/curo/daycount"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUS30360Factors(t *testing.T) {
	t.Parallel()

	dc := daycount.NewUS30360()
	cases := []struct {
		d1, d2   time.Time
		num, den float64
	}{
		{date(2022, 1, 15), date(2022, 4, 15), 90, 360},
		{date(2022, 1, 31), date(2022, 2, 28), 28, 360},
		{date(2021, 1, 15), date(2022, 1, 15), 360, 360},
		{date(2022, 1, 31), date(2022, 3, 31), 60, 360},
		{date(2022, 1, 15), date(2022, 3, 31), 76, 360},
		{date(2022, 1, 30), date(2022, 3, 31), 60, 360},
		{date(2022, 2, 28), date(2022, 3, 31), 33, 360},
	}

	for _, tc := range cases {
		f := dc.ComputeFactor(tc.d1, tc.d2)
		if f.Numerator != tc.num || f.Denominator != tc.den {
			t.Fatalf("ComputeFactor(%s, %s) = %v/%v, want %v/%v",
				tc.d1.Format("2006-01-02"), tc.d2.Format("2006-01-02"), f.Numerator, f.Denominator, tc.num, tc.den)
		}
		if math.Abs(f.Value-tc.num/tc.den) > 1e-15 {
			t.Fatalf("Value = %v, want %v", f.Value, tc.num/tc.den)
		}

		r := dc.ComputeFactor(tc.d2, tc.d1)
		if r != f {
			t.Fatalf("ComputeFactor is order dependent: %v vs %v", f, r)
		}
	}
}

func TestUS30360OrderIndependent(t *testing.T) {
	t.Parallel()

	dc := daycount.NewUS30360()
	base := date(2023, 12, 1)
	for i := 0; i < 120; i += 3 {
		for j := i; j < 500; j += 17 {
			d1, d2 := base.AddDate(0, 0, i), base.AddDate(0, 0, j)
			f, r := dc.ComputeFactor(d1, d2), dc.ComputeFactor(d2, d1)
			if f.Value != r.Value {
				t.Fatalf("%s/%s: %v != %v", d1.Format("2006-01-02"), d2.Format("2006-01-02"), f.Value, r.Value)
			}
			if f.Numerator < 0 || f.Numerator != math.Trunc(f.Numerator) {
				t.Fatalf("%s/%s: numerator %v", d1.Format("2006-01-02"), d2.Format("2006-01-02"), f.Numerator)
			}
		}
	}
}

func TestEU30360CapsBothDays(t *testing.T) {
	t.Parallel()

	f := daycount.NewEU30360().ComputeFactor(date(2022, 2, 28), date(2022, 3, 31))
	if f.Numerator != 32 {
		t.Fatalf("EU 30/360 numerator = %v, want 32", f.Numerator)
	}
}

func TestActualConventions(t *testing.T) {
	t.Parallel()

	d1, d2 := date(2024, 1, 1), date(2025, 1, 1)
	if f := daycount.NewAct360().ComputeFactor(d1, d2); f.Numerator != 366 || f.Denominator != 360 {
		t.Fatalf("ACT/360 = %v", f)
	}
	if f := daycount.NewAct365F().ComputeFactor(d2, d1); f.Numerator != 366 || f.Denominator != 365 {
		t.Fatalf("ACT/365F = %v", f)
	}
}

func TestOptions(t *testing.T) {
	t.Parallel()

	o := daycount.NewUS30360().Options()
	if !o.UsePostDates || o.UseXirrMethod || o.IncludeNonFinancingFlows {
		t.Fatalf("default options = %+v", o)
	}
	if o.Origin() != daycount.OriginNeighbour {
		t.Fatalf("default origin = %s, want neighbour", o.Origin())
	}

	x := daycount.NewUS30360(daycount.XIRR(true), daycount.PostDates(false), daycount.NonFinancingFlows(true)).Options()
	if x.UsePostDates || !x.UseXirrMethod || !x.IncludeNonFinancingFlows {
		t.Fatalf("options = %+v", x)
	}
	if x.Origin() != daycount.OriginDrawdown {
		t.Fatalf("xirr origin = %s, want drawdown", x.Origin())
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"30/360":    "30/360",
		"us 30/360": "30/360",
		"30E/360":   "30E/360",
		"act/360":   "ACT/360",
		"ACT/365":   "ACT/365F",
	}
	for name, want := range cases {
		dc, err := daycount.Lookup(name, daycount.XIRR(true))
		if err != nil {
			t.Fatalf("Lookup(%q): %v", name, err)
		}
		if dc.Name() != want {
			t.Fatalf("Lookup(%q).Name() = %q, want %q", name, dc.Name(), want)
		}
		if !dc.Options().UseXirrMethod {
			t.Fatalf("Lookup(%q) dropped options", name)
		}
	}

	if _, err := daycount.Lookup("ACT/ACT"); !errors.Is(err, daycount.ErrUnknownConvention) {
		t.Fatalf("Lookup(ACT/ACT) err = %v, want ErrUnknownConvention", err)
	}
}
