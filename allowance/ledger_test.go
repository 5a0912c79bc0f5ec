package allowance_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Parthee-Vijaya/BP2/allowance"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func entry(d allowance.CivilDate, totalHours string, status allowance.EntryStatus) allowance.Entry {
	return allowance.Entry{
		Date:   d,
		Status: status,
		Breakdown: allowance.TariffBreakdown{
			Normal: dec(totalHours),
			Total:  dec(totalHours),
		},
	}
}

func TestEvaluate_WeekGrantWithinLimit(t *testing.T) {
	// GIVEN a 10h weekly grant with 5h already used this week
	// WHEN a 3h candidate on the same week is evaluated
	// THEN the verdict fits within the grant
	ledger := allowance.NewGrantLedger()

	status := ledger.Evaluate(allowance.EvaluateInput{
		Config: allowance.GrantConfig{Type: allowance.GrantWeek, Hours: dec("10")},
		Prior: []allowance.Entry{
			entry(date(2025, time.March, 10), "5", allowance.StatusApproved),
		},
		Date:  date(2025, time.March, 12),
		Hours: dec("3"),
	})

	assert.False(t, status.Exceeded)
	assert.Equal(t, "5", status.UsedHours.String())
	assert.Equal(t, "10", status.GrantHours.String())
	assert.Equal(t, "5", status.RemainingHours.String())
	assert.Equal(t, "8", status.TotalAfterNew.String())
	assert.Equal(t, date(2025, time.March, 10), status.PeriodStart)
	assert.Equal(t, date(2025, time.March, 16), status.PeriodEnd)
}

func TestEvaluate_WeekGrantExceeded(t *testing.T) {
	// 8h used of a 10h grant; a 3h candidate exceeds by 1h. Exceeding is a
	// verdict, not an error.
	ledger := allowance.NewGrantLedger()

	status := ledger.Evaluate(allowance.EvaluateInput{
		Config: allowance.GrantConfig{Type: allowance.GrantWeek, Hours: dec("10")},
		Prior: []allowance.Entry{
			entry(date(2025, time.March, 10), "5", allowance.StatusApproved),
			entry(date(2025, time.March, 11), "3", allowance.StatusPending),
		},
		Date:  date(2025, time.March, 12),
		Hours: dec("3"),
	})

	assert.True(t, status.Exceeded)
	assert.Equal(t, "8", status.UsedHours.String())
	assert.Equal(t, "2", status.RemainingHours.String())
	assert.Equal(t, "11", status.TotalAfterNew.String())
	assert.Equal(t, "1", status.ExceededBy.String())
}

func TestEvaluate_RejectedEntriesDoNotConsume(t *testing.T) {
	ledger := allowance.NewGrantLedger()

	status := ledger.Evaluate(allowance.EvaluateInput{
		Config: allowance.GrantConfig{Type: allowance.GrantWeek, Hours: dec("10")},
		Prior: []allowance.Entry{
			entry(date(2025, time.March, 10), "9", allowance.StatusRejected),
			entry(date(2025, time.March, 11), "2", allowance.StatusApproved),
		},
		Date:  date(2025, time.March, 12),
		Hours: dec("1"),
	})

	assert.Equal(t, "2", status.UsedHours.String())
	assert.False(t, status.Exceeded)
}

func TestEvaluate_EntriesOutsidePeriodDoNotConsume(t *testing.T) {
	// An entry from the previous week must not count against this week.
	ledger := allowance.NewGrantLedger()

	status := ledger.Evaluate(allowance.EvaluateInput{
		Config: allowance.GrantConfig{Type: allowance.GrantWeek, Hours: dec("10")},
		Prior: []allowance.Entry{
			entry(date(2025, time.March, 9), "10", allowance.StatusApproved),
		},
		Date:  date(2025, time.March, 12),
		Hours: dec("4"),
	})

	assert.Equal(t, "0", status.UsedHours.String())
	assert.False(t, status.Exceeded)
}

func TestEvaluate_MonthGrantHonorsIntervalOverride(t *testing.T) {
	// With the month redefined as the 15th through the 14th, an entry on
	// March 14 belongs to the previous period and an entry on March 16 to the
	// candidate's.
	ledger := allowance.NewGrantLedger()
	history := []allowance.MonthInterval{
		{StartDay: 15, EndDay: 14, EffectiveFrom: date(2025, time.January, 1)},
	}

	status := ledger.Evaluate(allowance.EvaluateInput{
		Config: allowance.GrantConfig{Type: allowance.GrantMonth, Hours: dec("20")},
		Prior: []allowance.Entry{
			entry(date(2025, time.March, 14), "6", allowance.StatusApproved),
			entry(date(2025, time.March, 16), "4", allowance.StatusApproved),
		},
		Date:           date(2025, time.March, 20),
		Hours:          dec("2"),
		MonthIntervals: history,
	})

	assert.Equal(t, "4", status.UsedHours.String())
	assert.Equal(t, date(2025, time.March, 15), status.PeriodStart)
	assert.Equal(t, date(2025, time.April, 14), status.PeriodEnd)
}

func TestEvaluate_SpecificWeekdaysNotPermitted(t *testing.T) {
	// GIVEN a weekday grant covering Monday and Wednesday only
	// WHEN a Saturday candidate is evaluated
	// THEN the verdict is NotPermitted with the allowed days listed
	ledger := allowance.NewGrantLedger()

	status := ledger.Evaluate(allowance.EvaluateInput{
		Config: allowance.GrantConfig{
			Type: allowance.GrantSpecificWeekdays,
			WeekdayHours: map[allowance.Weekday]decimal.Decimal{
				allowance.Monday:    dec("3"),
				allowance.Wednesday: dec("2"),
			},
		},
		Date:  date(2025, time.March, 15), // Saturday
		Hours: dec("1"),
	})

	assert.True(t, status.NotPermitted)
	assert.Equal(t, allowance.Saturday, status.Weekday)
	assert.Equal(t, []allowance.Weekday{allowance.Monday, allowance.Wednesday}, status.AllowedDays)
	assert.False(t, status.Exceeded)
}

func TestEvaluate_SpecificWeekdaysQuota(t *testing.T) {
	// Only same-weekday entries within the candidate's Monday-Sunday week
	// consume the weekday quota.
	ledger := allowance.NewGrantLedger()
	cfg := allowance.GrantConfig{
		Type: allowance.GrantSpecificWeekdays,
		WeekdayHours: map[allowance.Weekday]decimal.Decimal{
			allowance.Monday:  dec("3"),
			allowance.Tuesday: dec("5"),
		},
	}

	status := ledger.Evaluate(allowance.EvaluateInput{
		Config: cfg,
		Prior: []allowance.Entry{
			entry(date(2025, time.March, 10), "2", allowance.StatusApproved), // this Monday
			entry(date(2025, time.March, 11), "5", allowance.StatusApproved), // Tuesday, other quota
			entry(date(2025, time.March, 3), "3", allowance.StatusApproved),  // previous Monday
		},
		Date:  date(2025, time.March, 10),
		Hours: dec("2"),
	})

	assert.False(t, status.NotPermitted)
	assert.Equal(t, allowance.Monday, status.Weekday)
	assert.Equal(t, "2", status.UsedHours.String())
	assert.Equal(t, "3", status.GrantHours.String())
	assert.True(t, status.Exceeded)
	assert.Equal(t, "1", status.ExceededBy.String())
}

func TestEvaluate_FrameGrant(t *testing.T) {
	// The frame pool is annual and counts all of the year's entries, including
	// those recorded against the normal grant.
	ledger := allowance.NewGrantLedger()
	cfg := allowance.GrantConfig{
		Type:          allowance.GrantWeek,
		Hours:         dec("10"),
		HasFrameGrant: true,
		FrameHours:    dec("200"),
	}

	status := ledger.Evaluate(allowance.EvaluateInput{
		Config: cfg,
		Prior: []allowance.Entry{
			entry(date(2025, time.January, 6), "150", allowance.StatusApproved),
			entry(date(2025, time.March, 10), "40", allowance.StatusApproved),
			entry(date(2024, time.December, 30), "99", allowance.StatusApproved), // prior year
		},
		Date:          date(2025, time.March, 12),
		Hours:         dec("15"),
		UseFrameGrant: true,
	})

	assert.True(t, status.FrameGrant)
	assert.Equal(t, "190", status.UsedHours.String())
	assert.Equal(t, "200", status.GrantHours.String())
	assert.True(t, status.Exceeded)
	assert.Equal(t, "5", status.ExceededBy.String())
	assert.Equal(t, date(2025, time.January, 1), status.PeriodStart)
	assert.Equal(t, date(2025, time.December, 31), status.PeriodEnd)
}

func TestEvaluate_FrameGrantRequiresConfiguration(t *testing.T) {
	// Requesting the frame grant on a child without one falls back to the
	// normal grant evaluation.
	ledger := allowance.NewGrantLedger()

	status := ledger.Evaluate(allowance.EvaluateInput{
		Config:        allowance.GrantConfig{Type: allowance.GrantWeek, Hours: dec("10")},
		Date:          date(2025, time.March, 12),
		Hours:         dec("3"),
		UseFrameGrant: true,
	})

	assert.False(t, status.FrameGrant)
	assert.Equal(t, "10", status.GrantHours.String())
}

func TestEvaluate_UnknownGrantTypePanics(t *testing.T) {
	ledger := allowance.NewGrantLedger()
	assert.Panics(t, func() {
		ledger.Evaluate(allowance.EvaluateInput{
			Config: allowance.GrantConfig{Type: allowance.GrantType("fortnight")},
			Date:   date(2025, time.March, 12),
		})
	})
}

func TestSummarize(t *testing.T) {
	ledger := allowance.NewGrantLedger()
	cfg := allowance.GrantConfig{
		Type: allowance.GrantSpecificWeekdays,
		WeekdayHours: map[allowance.Weekday]decimal.Decimal{
			allowance.Monday:  dec("3"),
			allowance.Tuesday: dec("2"),
		},
	}

	summary := ledger.Summarize(cfg, []allowance.Entry{
		entry(date(2025, time.March, 10), "4", allowance.StatusApproved), // Monday, over quota
		entry(date(2025, time.March, 11), "1", allowance.StatusPending),  // Tuesday
		entry(date(2025, time.March, 3), "3", allowance.StatusApproved),  // previous week
	}, date(2025, time.March, 12))

	require.Len(t, summary.Days, 7)
	monday := summary.Days[0]
	assert.Equal(t, allowance.Monday, monday.Weekday)
	assert.Equal(t, "4", monday.UsedHours.String())
	assert.Equal(t, "0", monday.RemainingHours.String())
	assert.True(t, monday.Exceeded)

	assert.Equal(t, "5", summary.TotalUsed.String())
	assert.Equal(t, "5", summary.TotalGrant.String())
	assert.Equal(t, 100, summary.Percentage)
}

func TestSummarize_PercentageCappedAt100(t *testing.T) {
	ledger := allowance.NewGrantLedger()
	cfg := allowance.GrantConfig{
		Type:         allowance.GrantSpecificWeekdays,
		WeekdayHours: map[allowance.Weekday]decimal.Decimal{allowance.Monday: dec("2")},
	}

	summary := ledger.Summarize(cfg, []allowance.Entry{
		entry(date(2025, time.March, 10), "5", allowance.StatusApproved),
	}, date(2025, time.March, 10))

	assert.Equal(t, 100, summary.Percentage)
}
