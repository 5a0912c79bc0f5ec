package allowance

import (
	"fmt"
	"time"
)

// =============================================================================
// CIVIL DATE - Calendar date without time or timezone
// =============================================================================

// CivilDate is a plain Gregorian calendar date. All date arithmetic in the
// engine is civil-time arithmetic: there is no timezone handling anywhere,
// entries are recorded against the local calendar.
type CivilDate struct {
	Year  int
	Month time.Month
	Day   int
}

func NewDate(year int, month time.Month, day int) CivilDate {
	return CivilDate{Year: year, Month: month, Day: day}
}

// ParseDate parses a date in YYYY-MM-DD format.
func ParseDate(s string) (CivilDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return CivilDate{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// DateOf converts a time.Time to its civil date, dropping the clock.
func DateOf(t time.Time) CivilDate {
	return NewDate(t.Year(), t.Month(), t.Day())
}

func (d CivilDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

func (d CivilDate) Weekday() time.Weekday { return d.Time().Weekday() }
func (d CivilDate) IsZero() bool          { return d == CivilDate{} }
func (d CivilDate) String() string        { return d.Time().Format("2006-01-02") }

func (d CivilDate) AddDays(n int) CivilDate   { return DateOf(d.Time().AddDate(0, 0, n)) }
func (d CivilDate) AddMonths(n int) CivilDate { return DateOf(d.Time().AddDate(0, n, 0)) }

func (d CivilDate) Before(other CivilDate) bool { return d.Time().Before(other.Time()) }
func (d CivilDate) After(other CivilDate) bool  { return d.Time().After(other.Time()) }
func (d CivilDate) Equal(other CivilDate) bool  { return d == other }

// Between reports whether d falls within [from, to], inclusive on both ends.
func (d CivilDate) Between(from, to CivilDate) bool {
	return !d.Before(from) && !d.After(to)
}

// LastDayOfMonth returns the number of days in d's month.
func (d CivilDate) LastDayOfMonth() int {
	return time.Date(d.Year, d.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// =============================================================================
// TIME OF DAY - Local clock time, minute precision
// =============================================================================

// TimeOfDay is a clock time in 24-hour local time, 00:00-23:59.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseClock parses a clock time in HH:MM format.
func ParseClock(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) Minutes() int { return t.Hour*60 + t.Minute }

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// roundUpToQuarterMinutes rounds t up to the nearest quarter hour and returns
// the result as minutes since midnight. A time already on a quarter boundary
// is unchanged. The result ranges over [0, 1440]: rounding 23:46-23:59 yields
// 1440 (midnight at the end of the day), never a wrap back to 00:00.
//
// Both the start and the end of an interval are rounded UP. This is the
// tariff policy of record: 12:07-13:47 becomes 12:15-14:00 (1h45m). The total
// is the span between two independently rounded endpoints, not the rounded
// raw duration.
func roundUpToQuarterMinutes(t TimeOfDay) int {
	m := t.Minutes()
	if m%15 == 0 {
		return m
	}
	return ((m / 15) + 1) * 15
}

// =============================================================================
// WEEKDAY - Stable lowercase keys used by weekday-specific grants
// =============================================================================

// Weekday names weekdays the way child grant configurations store them.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// WeekdayOrder is the display order, Monday first (Danish week convention).
var WeekdayOrder = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// WeekdayOf returns the grant-config weekday key for a date.
func WeekdayOf(d CivilDate) Weekday {
	switch d.Weekday() {
	case time.Monday:
		return Monday
	case time.Tuesday:
		return Tuesday
	case time.Wednesday:
		return Wednesday
	case time.Thursday:
		return Thursday
	case time.Friday:
		return Friday
	case time.Saturday:
		return Saturday
	default:
		return Sunday
	}
}

// StartOfWeek returns the Monday of the week containing d.
func StartOfWeek(d CivilDate) CivilDate {
	offset := int(d.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	return d.AddDays(-offset)
}
