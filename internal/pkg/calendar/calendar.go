// Package calendar classifies days for leave accounting: Sunday is never worked,
// Saturdays follow a biweekly rotation anchored at January 1 of the date's own year.
package calendar

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

type SaturdayCycle string

const (
	// SaturdayCycleWork works Saturdays in even weeks counted from January 1.
	SaturdayCycleWork SaturdayCycle = "work"
	// SaturdayCycleOff works Saturdays in odd weeks counted from January 1.
	SaturdayCycleOff SaturdayCycle = "off"
	// SaturdayCycleNone never works Saturdays.
	SaturdayCycleNone SaturdayCycle = "none"
)

func (c SaturdayCycle) IsValid() bool {
	switch c {
	case SaturdayCycleWork, SaturdayCycleOff, SaturdayCycleNone:
		return true
	}
	return false
}

// ParseSaturdayCycle treats an empty value as the "work" rotation.
func ParseSaturdayCycle(s string) (SaturdayCycle, error) {
	if s == "" {
		return SaturdayCycleWork, nil
	}
	c := SaturdayCycle(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid saturday cycle %q", s)
	}
	return c, nil
}

var (
	fullDay = decimal.NewFromInt(1)
	halfDay = decimal.NewFromFloat(0.5)
)

// Date returns midnight UTC for the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Truncate drops the clock part of t and keeps its calendar day.
func Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DaysBetween counts whole days from a to b. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Truncate(b).Sub(Truncate(a)).Hours() / 24)
}

// WeeksSinceYearStart is floor(days since January 1 of d's year / 7).
func WeeksSinceYearStart(d time.Time) int {
	return DaysBetween(Date(d.Year(), time.January, 1), d) / 7
}

func IsWorkingSaturday(d time.Time, cycle SaturdayCycle) bool {
	if d.Weekday() != time.Saturday {
		return false
	}
	even := WeeksSinceYearStart(d)%2 == 0
	switch cycle {
	case SaturdayCycleWork:
		return even
	case SaturdayCycleOff:
		return !even
	default:
		return false
	}
}

// IsWeekend reports whether d is a non-working day for the given cycle.
func IsWeekend(d time.Time, cycle SaturdayCycle) bool {
	switch d.Weekday() {
	case time.Sunday:
		return true
	case time.Saturday:
		return !IsWorkingSaturday(d, cycle)
	}
	return false
}

// DayWeight is how much of a leave day d consumes: 1 on weekdays, 0.5 on working
// Saturdays, 0 otherwise.
func DayWeight(d time.Time, cycle SaturdayCycle) decimal.Decimal {
	switch d.Weekday() {
	case time.Sunday:
		return decimal.Zero
	case time.Saturday:
		if IsWorkingSaturday(d, cycle) {
			return halfDay
		}
		return decimal.Zero
	}
	return fullDay
}

// EachDay calls fn for every day in [start, end]. Nothing is visited when end is
// before start.
func EachDay(start, end time.Time, fn func(day time.Time)) {
	last := Truncate(end)
	for d := Truncate(start); !d.After(last); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

// DaysInclusive counts calendar days in [start, end], or 0 when end is before start.
func DaysInclusive(start, end time.Time) int {
	n := DaysBetween(start, end) + 1
	if n < 0 {
		return 0
	}
	return n
}

// TenureYears is the number of completed years between joined and asOf.
// A missing join date has no tenure.
func TenureYears(joined *time.Time, asOf time.Time) int {
	if joined == nil || joined.IsZero() {
		return 0
	}
	years := asOf.Year() - joined.Year()
	if asOf.Month() < joined.Month() || (asOf.Month() == joined.Month() && asOf.Day() < joined.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// MonthsElapsed counts accrual months in asOf's year: January through the current
// month, or the join month through the current month for workers who joined this
// year. Workers joining in a later year have none.
func MonthsElapsed(joined *time.Time, asOf time.Time) int {
	current := int(asOf.Month())
	if joined == nil || joined.IsZero() || joined.Year() < asOf.Year() {
		return current
	}
	if joined.Year() > asOf.Year() {
		return 0
	}
	months := current - int(joined.Month()) + 1
	if months < 0 {
		return 0
	}
	return months
}
