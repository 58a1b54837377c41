package utils

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date layout used by inputs and outputs.
const DateLayout = "2006-01-02"

// UTCDate drops the wall-clock part of t and returns midnight UTC of the same calendar day.
func UTCDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate converts YYYY-MM-DD to a UTC calendar date.
func ParseDate(strDate string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("ParseDate: %w", err)
	}
	return t, nil
}

// ActualDays returns the absolute number of calendar days between two dates.
func ActualDays(d1, d2 time.Time) int {
	days := int(UTCDate(d2).Sub(UTCDate(d1)).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// RollDay moves a date by n calendar days (n can be negative).
func RollDay(t time.Time, n int) time.Time {
	return UTCDate(t).AddDate(0, 0, n)
}

// RollMonth moves a date by n months, avoiding Go's month normalization surprises.
//
// dayPref is the preferred day-of-month of the result; zero or negative keeps
// the day of t. When the target month is shorter the month end is used, so
// 31 Jan rolls to 28 Feb (29 Feb in a leap year) and, with dayPref 31, on to 31 Mar.
func RollMonth(t time.Time, n int, dayPref int) time.Time {
	d := UTCDate(t)
	if dayPref <= 0 {
		dayPref = d.Day()
	}
	first := time.Date(d.Year(), d.Month()+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := DaysInMonth(first.Year(), first.Month())
	if dayPref > last {
		dayPref = last
	}
	return time.Date(first.Year(), first.Month(), dayPref, 0, 0, 0, 0, time.UTC)
}
