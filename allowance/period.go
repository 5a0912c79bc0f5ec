package allowance

import (
	"sort"
	"time"
)

// =============================================================================
// PERIOD - The calendar window a grant's hours reset over
// =============================================================================

// Period is an inclusive [Start, End] calendar window.
type Period struct {
	Start CivilDate
	End   CivilDate
}

// Contains reports whether d falls within the period, inclusive.
func (p Period) Contains(d CivilDate) bool { return d.Between(p.Start, p.End) }

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// =============================================================================
// MONTH INTERVAL - Administrator-defined month boundaries
// =============================================================================

// MonthInterval redefines what "one month" means for month-type grants.
// Administrators can move the boundaries (e.g. the 15th to the 14th of the
// following month); each redefinition takes effect from a date and stays in
// force until a later one. The ledger takes these as an injected parameter,
// never as ambient state.
type MonthInterval struct {
	StartDay      int
	EndDay        int
	EffectiveFrom CivilDate
}

// DefaultMonthInterval is the plain calendar month, 1st to last day.
var DefaultMonthInterval = MonthInterval{StartDay: 1, EndDay: 31}

// ActiveMonthInterval picks the interval in force on a date: the entry with
// the latest EffectiveFrom that is on or before the date. With no applicable
// history the calendar-month default applies.
func ActiveMonthInterval(history []MonthInterval, on CivilDate) MonthInterval {
	active := DefaultMonthInterval
	var activeSet bool
	for _, mi := range history {
		if mi.EffectiveFrom.After(on) {
			continue
		}
		if !activeSet || mi.EffectiveFrom.After(active.EffectiveFrom) {
			active = mi
			activeSet = true
		}
	}
	return active
}

// =============================================================================
// PERIOD RESOLUTION - Which concrete window contains a date
// =============================================================================

// PeriodFor resolves the concrete calendar window of the grant cycle
// containing date. Weeks run Monday-Sunday; quarters, half-years and years
// follow calendar boundaries. Months honor the injected month-interval
// history. Calling this with GrantSpecificWeekdays is a programming error:
// weekday grants have no single period.
func PeriodFor(t GrantType, date CivilDate, history []MonthInterval) Period {
	switch t {
	case GrantWeek:
		start := StartOfWeek(date)
		return Period{Start: start, End: start.AddDays(6)}

	case GrantMonth:
		return monthPeriod(date, ActiveMonthInterval(history, date))

	case GrantQuarter:
		startMonth := time.Month((int(date.Month)-1)/3*3 + 1)
		start := NewDate(date.Year, startMonth, 1)
		return Period{Start: start, End: start.AddMonths(3).AddDays(-1)}

	case GrantHalfYear:
		start := NewDate(date.Year, time.January, 1)
		if date.Month >= time.July {
			start = NewDate(date.Year, time.July, 1)
		}
		return Period{Start: start, End: start.AddMonths(6).AddDays(-1)}

	case GrantYear:
		return CalendarYear(date.Year)

	default:
		panic("allowance: no period for grant type " + string(t))
	}
}

// CalendarYear returns the Jan 1 - Dec 31 period for a year.
func CalendarYear(year int) Period {
	return Period{
		Start: NewDate(year, time.January, 1),
		End:   NewDate(year, time.December, 31),
	}
}

// monthPeriod applies a month interval to the month containing date.
//
// With StartDay <= EndDay the period lies within one calendar month
// (days clamped to the month's length, so 31 works for February). With
// StartDay > EndDay the period spans the month boundary: StartDay of one
// month through EndDay of the next.
func monthPeriod(date CivilDate, mi MonthInterval) Period {
	anchor := date
	if date.Day < mi.StartDay {
		anchor = NewDate(date.Year, date.Month, 1).AddMonths(-1)
	}

	start := NewDate(anchor.Year, anchor.Month, clampDay(mi.StartDay, anchor))

	endAnchor := anchor
	if mi.EndDay < mi.StartDay {
		endAnchor = NewDate(anchor.Year, anchor.Month, 1).AddMonths(1)
	}
	end := NewDate(endAnchor.Year, endAnchor.Month, clampDay(mi.EndDay, endAnchor))

	return Period{Start: start, End: end}
}

func clampDay(day int, in CivilDate) int {
	if last := in.LastDayOfMonth(); day > last {
		return last
	}
	return day
}

// SortedMonthIntervals returns the history ordered newest-first by
// EffectiveFrom, the order the settings API serves it in.
func SortedMonthIntervals(history []MonthInterval) []MonthInterval {
	out := make([]MonthInterval, len(history))
	copy(out, history)
	sort.Slice(out, func(i, j int) bool {
		return out[i].EffectiveFrom.After(out[j].EffectiveFrom)
	})
	return out
}
