/*
Package allowance implements the allowance and grant accounting engine for
the barnepige (caregiver) timesheet system.

PURPOSE:
  Two independent pure-computation components plus their shared value types:

  - Tariff Classifier (tariff.go): splits a [date, start, end) clock interval
    into paid-time categories under the weekday/holiday tariff calendar.
  - Grant Ledger (ledger.go): evaluates a candidate entry's hours against a
    child's hour grant, over recurring periods or per-weekday quotas, with an
    optional annual frame grant.

  The two components share no state and are composed by the caller: classify
  the interval first, then evaluate the classified total against the grant.

DESIGN PRINCIPLES:
  1. Purity: no I/O, no internal state; everything is caller-supplied.
  2. Precision: decimal.Decimal for every hour quantity, never float64.
  3. Verdicts, not errors: an exceeded grant or a not-permitted weekday is a
     displayable business outcome carried in GrantStatus, never an error.
  4. Fail fast on programming errors: an unknown grant type panics.

SEE ALSO:
  - store.go: persistence interfaces for the surrounding CRUD system
  - calendar.go: Danish holiday calendar used by the classifier
*/
package allowance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TARIFF BREAKDOWN - Classifier output
// =============================================================================

// TariffBreakdown is the classified paid-time split of one entry.
//
// Normal always equals Total on weekdays and Saturdays: every worked hour is
// a base-pay hour, and the Evening/Night/Saturday buckets are supplements
// layered ON TOP for pay purposes, not a partition of the duration. This is
// deliberate payroll semantics (supplements are additive loadings) and must
// not be "cleaned up" into mutually exclusive buckets. The one exception is
// Sundays and holidays, where the whole duration moves to SundayHoliday and
// no separate base amount is reported.
type TariffBreakdown struct {
	Normal        decimal.Decimal `json:"normal_hours"`
	Evening       decimal.Decimal `json:"evening_hours"`
	Night         decimal.Decimal `json:"night_hours"`
	Saturday      decimal.Decimal `json:"saturday_hours"`
	SundayHoliday decimal.Decimal `json:"sunday_holiday_hours"`
	Total         decimal.Decimal `json:"total_hours"`
}

// =============================================================================
// GRANT CONFIGURATION - Owned by the child record
// =============================================================================

// GrantType selects how a child's hour pool recurs.
type GrantType string

const (
	GrantWeek             GrantType = "week"
	GrantMonth            GrantType = "month"
	GrantQuarter          GrantType = "quarter"
	GrantHalfYear         GrantType = "half_year"
	GrantYear             GrantType = "year"
	GrantSpecificWeekdays GrantType = "specific_weekdays"
)

// Valid reports whether t is a known grant type.
func (t GrantType) Valid() bool {
	switch t {
	case GrantWeek, GrantMonth, GrantQuarter, GrantHalfYear, GrantYear, GrantSpecificWeekdays:
		return true
	}
	return false
}

// GrantConfig is a child's approved hour allowance.
//
// Hours applies when Type is a period type. WeekdayHours applies only when
// Type is GrantSpecificWeekdays; each weekday is then its own micro-period
// repeating every 7 days, and there is no single period total. A frame grant
// is a separate annual pool selectable per entry instead of the normal pool.
type GrantConfig struct {
	Type          GrantType
	Hours         decimal.Decimal
	WeekdayHours  map[Weekday]decimal.Decimal
	HasFrameGrant bool
	FrameHours    decimal.Decimal
}

// =============================================================================
// ENTRY - A recorded timesheet entry (read-only to the engine)
// =============================================================================

// EntryStatus is the approval lifecycle state of an entry.
type EntryStatus string

const (
	StatusPending  EntryStatus = "pending"
	StatusApproved EntryStatus = "approved"
	StatusRejected EntryStatus = "rejected"
)

// Entry is one recorded interval with its classified breakdown. The engine
// never mutates entries; lifecycle and storage belong to the entry store.
type Entry struct {
	ID          string
	ChildID     string
	CaregiverID string
	Date        CivilDate
	Start       TimeOfDay
	End         TimeOfDay
	Breakdown   TariffBreakdown
	Status      EntryStatus
	Note        string
	CreatedAt   time.Time
}

// CountsTowardGrant reports whether the entry consumes grant hours.
// Rejected entries are excluded; pending and approved both count.
func (e Entry) CountsTowardGrant() bool {
	return e.Status == StatusPending || e.Status == StatusApproved
}

// =============================================================================
// GRANT STATUS - Ledger verdict (ephemeral, never persisted)
// =============================================================================

// GrantStatus is the ledger's verdict for one candidate entry.
//
// An exceeded grant is NOT an error: the verdict is always complete and the
// caller decides whether to block, warn, or require an override. NotPermitted
// is the one policy outcome that carries no numeric overrun: the candidate
// weekday has a zero quota under a specific_weekdays grant.
type GrantStatus struct {
	UsedHours      decimal.Decimal
	GrantHours     decimal.Decimal
	RemainingHours decimal.Decimal
	TotalAfterNew  decimal.Decimal
	Exceeded       bool
	ExceededBy     decimal.Decimal

	// Period bounds for period-based grants; zero for weekday grants.
	PeriodStart CivilDate
	PeriodEnd   CivilDate

	// Weekday verdict fields, set only for specific_weekdays grants.
	Weekday      Weekday
	NotPermitted bool
	AllowedDays  []Weekday

	// True when the verdict was evaluated against the frame pool.
	FrameGrant bool
}

// WeekdayUsage is the per-weekday slice of a weekday grant summary.
type WeekdayUsage struct {
	Weekday        Weekday
	GrantHours     decimal.Decimal
	UsedHours      decimal.Decimal
	RemainingHours decimal.Decimal
	Exceeded       bool
}

// WeekdaySummary is the dashboard aggregate for a specific_weekdays grant.
//
// Percentage divides total used by total granted across all weekdays. That is
// a different number than any per-weekday verdict and is display-only: it
// never gates an entry.
type WeekdaySummary struct {
	Days       []WeekdayUsage
	TotalUsed  decimal.Decimal
	TotalGrant decimal.Decimal
	Percentage int
}
