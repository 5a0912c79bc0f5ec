package allowance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Parthee-Vijaya/BP2/allowance"
)

func period(t *testing.T, a, b allowance.CivilDate) allowance.Period {
	t.Helper()
	return allowance.Period{Start: a, End: b}
}

func TestPeriodFor_Week(t *testing.T) {
	// A week runs Monday through Sunday.
	got := allowance.PeriodFor(allowance.GrantWeek, date(2025, time.March, 12), nil)
	assert.Equal(t, period(t, date(2025, time.March, 10), date(2025, time.March, 16)), got)

	// A Sunday belongs to the week that started the previous Monday.
	got = allowance.PeriodFor(allowance.GrantWeek, date(2025, time.March, 16), nil)
	assert.Equal(t, period(t, date(2025, time.March, 10), date(2025, time.March, 16)), got)
}

func TestPeriodFor_MonthDefault(t *testing.T) {
	got := allowance.PeriodFor(allowance.GrantMonth, date(2025, time.February, 10), nil)
	assert.Equal(t, period(t, date(2025, time.February, 1), date(2025, time.February, 28)), got)

	// Leap year February.
	got = allowance.PeriodFor(allowance.GrantMonth, date(2024, time.February, 29), nil)
	assert.Equal(t, period(t, date(2024, time.February, 1), date(2024, time.February, 29)), got)
}

func TestPeriodFor_MonthOverrideSpanningBoundary(t *testing.T) {
	// Administrator moved the month to run from the 15th to the 14th of the
	// following month.
	history := []allowance.MonthInterval{
		{StartDay: 15, EndDay: 14, EffectiveFrom: date(2025, time.January, 1)},
	}

	// A date on or after the 15th anchors in its own month.
	got := allowance.PeriodFor(allowance.GrantMonth, date(2025, time.March, 20), history)
	assert.Equal(t, period(t, date(2025, time.March, 15), date(2025, time.April, 14)), got)

	// A date before the 15th belongs to the period that started last month.
	got = allowance.PeriodFor(allowance.GrantMonth, date(2025, time.March, 10), history)
	assert.Equal(t, period(t, date(2025, time.February, 15), date(2025, time.March, 14)), got)
}

func TestPeriodFor_MonthOverrideClampsShortMonths(t *testing.T) {
	history := []allowance.MonthInterval{
		{StartDay: 1, EndDay: 31, EffectiveFrom: date(2025, time.January, 1)},
	}
	got := allowance.PeriodFor(allowance.GrantMonth, date(2025, time.February, 15), history)
	assert.Equal(t, period(t, date(2025, time.February, 1), date(2025, time.February, 28)), got)
}

func TestPeriodFor_Quarter(t *testing.T) {
	got := allowance.PeriodFor(allowance.GrantQuarter, date(2025, time.May, 20), nil)
	assert.Equal(t, period(t, date(2025, time.April, 1), date(2025, time.June, 30)), got)

	got = allowance.PeriodFor(allowance.GrantQuarter, date(2025, time.December, 31), nil)
	assert.Equal(t, period(t, date(2025, time.October, 1), date(2025, time.December, 31)), got)
}

func TestPeriodFor_HalfYear(t *testing.T) {
	got := allowance.PeriodFor(allowance.GrantHalfYear, date(2025, time.June, 30), nil)
	assert.Equal(t, period(t, date(2025, time.January, 1), date(2025, time.June, 30)), got)

	got = allowance.PeriodFor(allowance.GrantHalfYear, date(2025, time.July, 1), nil)
	assert.Equal(t, period(t, date(2025, time.July, 1), date(2025, time.December, 31)), got)
}

func TestPeriodFor_Year(t *testing.T) {
	got := allowance.PeriodFor(allowance.GrantYear, date(2025, time.August, 5), nil)
	assert.Equal(t, period(t, date(2025, time.January, 1), date(2025, time.December, 31)), got)
}

func TestPeriodFor_SpecificWeekdaysPanics(t *testing.T) {
	assert.Panics(t, func() {
		allowance.PeriodFor(allowance.GrantSpecificWeekdays, date(2025, time.March, 10), nil)
	})
}

func TestActiveMonthInterval(t *testing.T) {
	first := allowance.MonthInterval{StartDay: 15, EndDay: 14, EffectiveFrom: date(2025, time.January, 1)}
	second := allowance.MonthInterval{StartDay: 20, EndDay: 19, EffectiveFrom: date(2025, time.June, 1)}
	history := []allowance.MonthInterval{second, first} // order must not matter

	// Before any history entry the calendar-month default applies.
	got := allowance.ActiveMonthInterval(history, date(2024, time.December, 31))
	assert.Equal(t, 1, got.StartDay)
	assert.Equal(t, 31, got.EndDay)

	// Between the two entries the first one is in force.
	assert.Equal(t, first, allowance.ActiveMonthInterval(history, date(2025, time.March, 1)))

	// On the effective date of the second entry it takes over.
	assert.Equal(t, second, allowance.ActiveMonthInterval(history, date(2025, time.June, 1)))
	assert.Equal(t, second, allowance.ActiveMonthInterval(history, date(2025, time.December, 1)))
}

func TestSortedMonthIntervals(t *testing.T) {
	first := allowance.MonthInterval{StartDay: 15, EndDay: 14, EffectiveFrom: date(2025, time.January, 1)}
	second := allowance.MonthInterval{StartDay: 20, EndDay: 19, EffectiveFrom: date(2025, time.June, 1)}

	sorted := allowance.SortedMonthIntervals([]allowance.MonthInterval{first, second})
	assert.Equal(t, []allowance.MonthInterval{second, first}, sorted)
}
