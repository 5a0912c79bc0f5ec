/*
calendar.go - Danish holiday calendar

PURPOSE:
  Computes the set of dates the organization pays out Sunday/holiday
  supplements for. The set combines fixed calendar dates with the movable
  Easter-relative holidays, so it must be recomputed per year.

HOLIDAY RULES:
  Fixed dates every year:
    Jan 1   Nytaarsdag
    May 1   1. maj           (organization policy, not a statutory holiday)
    Jun 5   Grundlovsdag     (organization policy)
    Dec 24  Juleaftensdag    (organization policy)
    Dec 25  Juledag
    Dec 26  2. juledag
    Dec 31  Nytaarsaftensdag (organization policy)

  Easter-relative (Easter Sunday via the Gregorian Computus):
    Easter-3  Skaertorsdag (Maundy Thursday)
    Easter-2  Langfredag (Good Friday)
    Easter    Paaskedag
    Easter+1  2. paaskedag
    Easter+39 Kristi himmelfartsdag (Ascension)
    Easter+49 Pinsedag (Whit Sunday)
    Easter+50 2. pinsedag

  Store Bededag (Easter+26) is NOT included: abolished as a public holiday
  from 2024. The exclusion applies to all years; historical entries predating
  the abolition are out of scope for this calendar.

SEE ALSO:
  - tariff.go: the only consumer; holidays override weekday tariff bands
*/
package allowance

import (
	"sort"
	"sync"
	"time"
)

// Holiday is a single holiday date with its Danish name.
type Holiday struct {
	Date CivilDate
	Name string
}

// easterSunday computes Easter Sunday for a year using the anonymous
// Gregorian Computus algorithm.
func easterSunday(year int) CivilDate {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return NewDate(year, time.Month(month), day)
}

// HolidaysForYear returns all holidays for a year, sorted by date.
func HolidaysForYear(year int) []Holiday {
	easter := easterSunday(year)

	holidays := []Holiday{
		{NewDate(year, time.January, 1), "Nytaarsdag"},
		{NewDate(year, time.May, 1), "1. maj"},
		{NewDate(year, time.June, 5), "Grundlovsdag"},
		{NewDate(year, time.December, 24), "Juleaftensdag"},
		{NewDate(year, time.December, 25), "Juledag"},
		{NewDate(year, time.December, 26), "2. juledag"},
		{NewDate(year, time.December, 31), "Nytaarsaftensdag"},
		{easter.AddDays(-3), "Skaertorsdag"},
		{easter.AddDays(-2), "Langfredag"},
		{easter, "Paaskedag"},
		{easter.AddDays(1), "2. paaskedag"},
		{easter.AddDays(39), "Kristi himmelfartsdag"},
		{easter.AddDays(49), "Pinsedag"},
		{easter.AddDays(50), "2. pinsedag"},
	}

	sort.Slice(holidays, func(i, j int) bool {
		return holidays[i].Date.Before(holidays[j].Date)
	})
	return holidays
}

// =============================================================================
// HOLIDAY CALENDAR - Cached per-year membership lookups
// =============================================================================

// HolidayCalendar answers IsHoliday with a per-year cache. The cache is purely
// an optimization: the holiday set is deterministic per year (at most 14
// dates). Safe for concurrent use.
type HolidayCalendar struct {
	mu    sync.RWMutex
	years map[int]map[CivilDate]struct{}
}

func NewHolidayCalendar() *HolidayCalendar {
	return &HolidayCalendar{years: make(map[int]map[CivilDate]struct{})}
}

// IsHoliday reports whether date is a holiday.
func (c *HolidayCalendar) IsHoliday(date CivilDate) bool {
	c.mu.RLock()
	set, ok := c.years[date.Year]
	c.mu.RUnlock()

	if !ok {
		set = make(map[CivilDate]struct{})
		for _, h := range HolidaysForYear(date.Year) {
			set[h.Date] = struct{}{}
		}
		c.mu.Lock()
		c.years[date.Year] = set
		c.mu.Unlock()
	}

	_, holiday := set[date]
	return holiday
}
