/*
tariff.go - Tariff classifier

PURPOSE:
  Splits a raw [date, start, end) clock interval into the five paid-time
  buckets. The interval may cross midnight; the portion past midnight belongs
  to the following civil date for band purposes but is reported on the same
  entry.

TARIFF BANDS (minutes since midnight on the entry date):
  Weekdays (Mon-Fri):
    [0,360)     night
    [360,1020)  normal base only
    [1020,1380) evening
    [1380,1440) night
    past 1440   night, capped at 360 minutes (06:00 next day)
  Saturdays:
    [0,360)     night
    [360,480)   normal base only
    [480,1440)  saturday
    past 1440   sunday/holiday (the overflow lands on Sunday)
  Sundays and holidays:
    the entire interval, overflow included, is sunday/holiday

  Holidays override everything: a Saturday that is also a holiday is
  classified as a holiday. The holiday check runs first and short-circuits.

ROUNDING:
  Both endpoints round UP to the nearest quarter hour before anything else.
  Each of the six output numbers is then rounded to 2 decimals, half away
  from zero. Intermediate minute sums are exact integers and never rounded.
*/
package allowance

import (
	"github.com/shopspring/decimal"
)

// Minute boundaries of the tariff bands.
const (
	minutesPerDay    = 1440
	nightEnd         = 360  // 06:00
	saturdayStart    = 480  // 08:00
	eveningStart     = 1020 // 17:00
	lateNightStart   = 1380 // 23:00
	maxOverflowNight = 360  // overflow past midnight counts as night until 06:00
)

// Classifier classifies clock intervals under the tariff calendar.
type Classifier struct {
	Calendar *HolidayCalendar
}

func NewClassifier(calendar *HolidayCalendar) *Classifier {
	return &Classifier{Calendar: calendar}
}

// Classify splits the interval [start, end) on date into tariff buckets.
//
// If end <= start after rounding, the interval is taken to cross midnight
// into the following civil date - unless the raw, unrounded interval was a
// same-day interval shorter than one quarter (e.g. 12:05-12:10, which rounds
// to 12:15-12:15). Such a collision is clamped to a zero-duration breakdown
// rather than misread as a 24-hour shift.
func (c *Classifier) Classify(date CivilDate, start, end TimeOfDay) TariffBreakdown {
	startMin := roundUpToQuarterMinutes(start)
	endMin := roundUpToQuarterMinutes(end)

	if endMin <= startMin {
		if end.Minutes() > start.Minutes() {
			// Rounding collision on a sub-quarter same-day interval.
			endMin = startMin
		} else {
			endMin += minutesPerDay
		}
	}

	totalMinutes := endMin - startMin
	total := hoursFromMinutes(totalMinutes)

	var out TariffBreakdown

	// Sundays and holidays: the whole duration is supplement, no base amount.
	if c.Calendar.IsHoliday(date) || WeekdayOf(date) == Sunday {
		out.SundayHoliday = total
		out.Total = total
		return roundBreakdown(out)
	}

	// Every worked hour is a base-pay hour; supplements come on top.
	out.Normal = total
	out.Total = total

	dayEnd := endMin
	if dayEnd > minutesPerDay {
		dayEnd = minutesPerDay
	}
	overflow := endMin - minutesPerDay

	if WeekdayOf(date) == Saturday {
		out.Night = hoursFromMinutes(overlap(startMin, dayEnd, 0, nightEnd))
		out.Saturday = hoursFromMinutes(overlap(startMin, dayEnd, saturdayStart, minutesPerDay))
		if overflow > 0 {
			out.SundayHoliday = hoursFromMinutes(overflow)
		}
		return roundBreakdown(out)
	}

	// Weekday bands.
	night := overlap(startMin, dayEnd, 0, nightEnd) +
		overlap(startMin, dayEnd, lateNightStart, minutesPerDay)
	if overflow > 0 {
		if overflow > maxOverflowNight {
			overflow = maxOverflowNight
		}
		night += overflow
	}
	out.Night = hoursFromMinutes(night)
	out.Evening = hoursFromMinutes(overlap(startMin, dayEnd, eveningStart, lateNightStart))

	return roundBreakdown(out)
}

// overlap returns the overlap in minutes between [start1, end1) and
// [start2, end2).
func overlap(start1, end1, start2, end2 int) int {
	lo := start1
	if start2 > lo {
		lo = start2
	}
	hi := end1
	if end2 < hi {
		hi = end2
	}
	if hi < lo {
		return 0
	}
	return hi - lo
}

var sixty = decimal.NewFromInt(60)

func hoursFromMinutes(m int) decimal.Decimal {
	return decimal.NewFromInt(int64(m)).Div(sixty)
}

// roundBreakdown rounds every output field to 2 decimals, half away from
// zero. Only the outputs are rounded, never the intermediate minute sums.
func roundBreakdown(b TariffBreakdown) TariffBreakdown {
	return TariffBreakdown{
		Normal:        b.Normal.Round(2),
		Evening:       b.Evening.Round(2),
		Night:         b.Night.Round(2),
		Saturday:      b.Saturday.Round(2),
		SundayHoliday: b.SundayHoliday.Round(2),
		Total:         b.Total.Round(2),
	}
}
