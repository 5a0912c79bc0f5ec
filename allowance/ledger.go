/*
ledger.go - Grant ledger

PURPOSE:
  Answers "may this entry be recorded against this child's grant, and what
  does the grant look like afterwards?". The ledger is a pure function of its
  inputs: the child's grant configuration, a snapshot of the child's prior
  entries, the candidate date and classified hours, and the month-interval
  history.

KEY BEHAVIORS:
  - Period grants (week/month/quarter/half_year/year): consumption is the sum
    of non-rejected prior entries inside the period containing the candidate
    date. Month boundaries follow the injected month-interval history.
  - specific_weekdays grants: each weekday is its own quota repeating weekly.
    A zero-quota weekday yields a NotPermitted verdict with the list of
    allowed weekdays - a business outcome, not an error.
  - Frame grant: when the caller selects it (and the child has one), the
    normal grant is ignored entirely and the candidate is evaluated against
    the annual frame pool. ALL of the child's prior entries in the calendar
    year count, regardless of which pool they were recorded against: the two
    pools are exclusive per entry but share one consumption history.
  - An exceeded grant is a complete verdict, never an error. Whether to
    block, warn, or require an override is the caller's policy.

SNAPSHOT CONSISTENCY:
  The ledger cannot detect a stale prior-entries snapshot. Callers that
  insert entries after evaluating must serialize read-then-insert per child
  (see Store.WithChildLock), or two concurrent submissions can both pass a
  check neither individually exceeds.
*/
package allowance

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// GrantLedger evaluates candidate entries against child grants. Stateless;
// safe for concurrent use.
type GrantLedger struct{}

func NewGrantLedger() *GrantLedger { return &GrantLedger{} }

// EvaluateInput carries everything one evaluation needs. Prior must be the
// caller's consistent snapshot of the child's entries; rejected entries may
// be included and are ignored.
type EvaluateInput struct {
	Config         GrantConfig
	Prior          []Entry
	Date           CivilDate
	Hours          decimal.Decimal
	UseFrameGrant  bool
	MonthIntervals []MonthInterval
}

// Evaluate computes the grant verdict for a candidate entry.
// An invalid grant type panics: grant configurations are validated when the
// child record is created, so an unknown type here is a programming error.
func (l *GrantLedger) Evaluate(in EvaluateInput) GrantStatus {
	if in.UseFrameGrant && in.Config.HasFrameGrant {
		return l.evaluateFrame(in)
	}

	switch in.Config.Type {
	case GrantWeek, GrantMonth, GrantQuarter, GrantHalfYear, GrantYear:
		return l.evaluatePeriod(in)
	case GrantSpecificWeekdays:
		return l.evaluateWeekday(in)
	default:
		panic(fmt.Sprintf("allowance: unknown grant type %q", in.Config.Type))
	}
}

func (l *GrantLedger) evaluatePeriod(in EvaluateInput) GrantStatus {
	period := PeriodFor(in.Config.Type, in.Date, in.MonthIntervals)
	used := sumConsumed(in.Prior, func(e Entry) bool {
		return period.Contains(e.Date)
	})

	status := verdict(used, in.Config.Hours, in.Hours)
	status.PeriodStart = period.Start
	status.PeriodEnd = period.End
	return status
}

func (l *GrantLedger) evaluateFrame(in EvaluateInput) GrantStatus {
	year := CalendarYear(in.Date.Year)
	used := sumConsumed(in.Prior, func(e Entry) bool {
		return year.Contains(e.Date)
	})

	status := verdict(used, in.Config.FrameHours, in.Hours)
	status.PeriodStart = year.Start
	status.PeriodEnd = year.End
	status.FrameGrant = true
	return status
}

func (l *GrantLedger) evaluateWeekday(in EvaluateInput) GrantStatus {
	weekday := WeekdayOf(in.Date)
	quota := in.Config.WeekdayHours[weekday]

	if quota.IsZero() {
		return GrantStatus{
			Weekday:      weekday,
			NotPermitted: true,
			AllowedDays:  allowedWeekdays(in.Config.WeekdayHours),
		}
	}

	// The weekday's micro-period is its occurrence in the Monday-Sunday week
	// containing the candidate date.
	week := Period{Start: StartOfWeek(in.Date)}
	week.End = week.Start.AddDays(6)
	used := sumConsumed(in.Prior, func(e Entry) bool {
		return week.Contains(e.Date) && WeekdayOf(e.Date) == weekday
	})

	status := verdict(used, quota, in.Hours)
	status.Weekday = weekday
	return status
}

// Summarize computes the dashboard aggregate for a specific_weekdays grant
// as of a date's week. Display-only: the percentage pools all weekdays
// together and must not be confused with the per-weekday verdicts.
func (l *GrantLedger) Summarize(cfg GrantConfig, prior []Entry, asOf CivilDate) WeekdaySummary {
	week := Period{Start: StartOfWeek(asOf)}
	week.End = week.Start.AddDays(6)

	var summary WeekdaySummary
	for _, wd := range WeekdayOrder {
		quota := cfg.WeekdayHours[wd]
		day := wd
		used := sumConsumed(prior, func(e Entry) bool {
			return week.Contains(e.Date) && WeekdayOf(e.Date) == day
		})

		summary.Days = append(summary.Days, WeekdayUsage{
			Weekday:        wd,
			GrantHours:     quota,
			UsedHours:      used,
			RemainingHours: decimal.Max(decimal.Zero, quota.Sub(used)),
			Exceeded:       used.GreaterThan(quota),
		})
		summary.TotalUsed = summary.TotalUsed.Add(used)
		summary.TotalGrant = summary.TotalGrant.Add(quota)
	}

	summary.Percentage = usagePercentage(summary.TotalUsed, summary.TotalGrant)
	return summary
}

// =============================================================================
// HELPERS
// =============================================================================

func sumConsumed(entries []Entry, match func(Entry) bool) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		if !e.CountsTowardGrant() {
			continue
		}
		if match(e) {
			sum = sum.Add(e.Breakdown.Total)
		}
	}
	return sum
}

func verdict(used, grant, candidate decimal.Decimal) GrantStatus {
	after := used.Add(candidate)
	return GrantStatus{
		UsedHours:      used,
		GrantHours:     grant,
		RemainingHours: decimal.Max(decimal.Zero, grant.Sub(used)),
		TotalAfterNew:  after,
		Exceeded:       after.GreaterThan(grant),
		ExceededBy:     decimal.Max(decimal.Zero, after.Sub(grant)),
	}
}

func allowedWeekdays(quotas map[Weekday]decimal.Decimal) []Weekday {
	var allowed []Weekday
	for _, wd := range WeekdayOrder {
		if quotas[wd].IsPositive() {
			allowed = append(allowed, wd)
		}
	}
	return allowed
}

// usagePercentage mirrors the dashboard convention: rounded to whole
// percent, capped at 100, zero when nothing is granted.
func usagePercentage(used, grant decimal.Decimal) int {
	if !grant.IsPositive() {
		return 0
	}
	pct := used.Div(grant).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if pct > 100 {
		pct = 100
	}
	return int(pct)
}
