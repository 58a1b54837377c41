package utils_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/curo/utils"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRollMonthMonthEnd(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		from    time.Time
		n       int
		dayPref int
		want    time.Time
	}{
		{"jan31 to feb", date(2022, 1, 31), 1, 31, date(2022, 2, 28)},
		{"jan31 to feb leap", date(2024, 1, 31), 1, 31, date(2024, 2, 29)},
		{"feb28 back to 31 with pref", date(2022, 2, 28), 1, 31, date(2022, 3, 31)},
		{"feb28 keeps day without pref", date(2022, 2, 28), 1, 0, date(2022, 3, 28)},
		{"across year", date(2022, 11, 15), 3, 0, date(2023, 2, 15)},
		{"backwards", date(2022, 3, 31), -1, 0, date(2022, 2, 28)},
		{"feb29 yearly", date(2024, 2, 29), 12, 29, date(2025, 2, 28)},
	}

	for _, tc := range cases {
		got := utils.RollMonth(tc.from, tc.n, tc.dayPref)
		if !got.Equal(tc.want) {
			t.Fatalf("%s: RollMonth(%s, %d, %d) = %s, want %s", tc.name,
				tc.from.Format(utils.DateLayout), tc.n, tc.dayPref,
				got.Format(utils.DateLayout), tc.want.Format(utils.DateLayout))
		}
	}
}

func TestRollMonthChainKeepsPreferredDay(t *testing.T) {
	t.Parallel()

	anchor := date(2022, 1, 31)
	want := []time.Time{date(2022, 2, 28), date(2022, 3, 31), date(2022, 4, 30), date(2022, 5, 31)}
	for i, w := range want {
		got := utils.RollMonth(anchor, i+1, anchor.Day())
		if !got.Equal(w) {
			t.Fatalf("roll %d: got %s, want %s", i+1, got.Format(utils.DateLayout), w.Format(utils.DateLayout))
		}
	}
}

func TestActualDays(t *testing.T) {
	t.Parallel()

	if got := utils.ActualDays(date(2024, 2, 1), date(2024, 3, 1)); got != 29 {
		t.Fatalf("ActualDays leap February = %d, want 29", got)
	}
	if got := utils.ActualDays(date(2022, 3, 1), date(2022, 2, 1)); got != 28 {
		t.Fatalf("ActualDays reversed = %d, want 28", got)
	}
}

func TestParseDate(t *testing.T) {
	t.Parallel()

	got, err := utils.ParseDate("2022-01-15")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !got.Equal(date(2022, 1, 15)) {
		t.Fatalf("ParseDate = %s", got)
	}
	if _, err := utils.ParseDate("15/01/2022"); err == nil {
		t.Fatalf("ParseDate accepted a non-ISO date")
	}
}

func TestGaussRound(t *testing.T) {
	t.Parallel()

	cases := []struct {
		num       float64
		precision int
		want      float64
	}{
		{1.5, 0, 2},
		{2.5, 0, 2},
		{1.4, 0, 1},
		{1.6, 0, 2},
		{2.4, 0, 2},
		{2.6, 0, 3},
		{-2.5, 0, -2},
		{1.535, 2, 1.54},
		{1.545, 2, 1.54},
		{1705.5426443856845, 2, 1705.54},
		{0.12345, 4, 0.1234},
	}
	for _, tc := range cases {
		got := utils.GaussRound(tc.num, tc.precision)
		if math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("GaussRound(%v, %d) = %v, want %v", tc.num, tc.precision, got, tc.want)
		}
	}
	if got := utils.GaussRound(math.NaN(), 2); !math.IsNaN(got) {
		t.Fatalf("GaussRound(NaN) = %v, want NaN", got)
	}
}
