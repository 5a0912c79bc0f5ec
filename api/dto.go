/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupled from the domain types.
  Hour quantities cross the wire as plain numbers (the frontend does display
  formatting); inside the engine they stay decimal.

VALIDATION:
  Request types carry go-playground/validator struct tags; handlers run
  h.validate.Struct(req) before touching domain logic. Date and time formats
  are validated here so the engine can assume well-formed inputs.
*/
package api

import (
	"github.com/Parthee-Vijaya/BP2/allowance"
)

// =============================================================================
// CAREGIVERS / CHILDREN
// =============================================================================

type CaregiverDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}

type CreateCaregiverRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"omitempty,email"`
}

type ChildDTO struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	CaregiverID   string             `json:"caregiver_id"`
	GrantType     string             `json:"grant_type"`
	GrantHours    float64            `json:"grant_hours"`
	WeekdayGrants map[string]float64 `json:"weekday_grants,omitempty"`
	HasFrameGrant bool               `json:"has_frame_grant"`
	FrameHours    float64            `json:"frame_hours"`
	CreatedAt     string             `json:"created_at,omitempty"`
}

type ChildRequest struct {
	Name          string             `json:"name" validate:"required"`
	CaregiverID   string             `json:"caregiver_id" validate:"required"`
	GrantType     string             `json:"grant_type" validate:"required,oneof=week month quarter half_year year specific_weekdays"`
	GrantHours    float64            `json:"grant_hours" validate:"gte=0"`
	WeekdayGrants map[string]float64 `json:"weekday_grants" validate:"omitempty,dive,gte=0"`
	HasFrameGrant bool               `json:"has_frame_grant"`
	FrameHours    float64            `json:"frame_hours" validate:"gte=0"`
}

// =============================================================================
// TIME ENTRIES
// =============================================================================

type BreakdownDTO struct {
	NormalHours        float64 `json:"normal_hours"`
	EveningHours       float64 `json:"evening_hours"`
	NightHours         float64 `json:"night_hours"`
	SaturdayHours      float64 `json:"saturday_hours"`
	SundayHolidayHours float64 `json:"sunday_holiday_hours"`
	TotalHours         float64 `json:"total_hours"`
}

type EntryDTO struct {
	ID          string       `json:"id"`
	ChildID     string       `json:"child_id"`
	CaregiverID string       `json:"caregiver_id"`
	Date        string       `json:"date"`
	StartTime   string       `json:"start_time"`
	EndTime     string       `json:"end_time"`
	Breakdown   BreakdownDTO `json:"breakdown"`
	Status      string       `json:"status"`
	Note        string       `json:"note,omitempty"`
	CreatedAt   string       `json:"created_at,omitempty"`
}

type EntryRequest struct {
	ChildID       string `json:"child_id" validate:"required"`
	CaregiverID   string `json:"caregiver_id" validate:"required"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime     string `json:"start_time" validate:"required,datetime=15:04"`
	EndTime       string `json:"end_time" validate:"required,datetime=15:04"`
	UseFrameGrant bool   `json:"use_frame_grant"`
	Note          string `json:"note"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected"`
}

// =============================================================================
// GRANT STATUS
// =============================================================================

// GrantStatusDTO is the preview/verdict shape the registration screen
// consumes. Error carries the not-permitted message; AllowedDays lists the
// weekdays that do have a quota, in Danish for direct display.
type GrantStatusDTO struct {
	UsedHours      float64  `json:"usedHours"`
	GrantHours     float64  `json:"grantHours"`
	RemainingHours float64  `json:"remainingHours"`
	TotalAfterNew  float64  `json:"totalAfterNew"`
	Exceeded       bool     `json:"exceeded"`
	ExceededBy     float64  `json:"exceededBy"`
	PeriodStart    string   `json:"periodStart,omitempty"`
	PeriodEnd      string   `json:"periodEnd,omitempty"`
	Weekday        string   `json:"weekday,omitempty"`
	FrameGrant     bool     `json:"frameGrant,omitempty"`
	Error          string   `json:"error,omitempty"`
	AllowedDays    []string `json:"allowedDays,omitempty"`
}

type PreviewResponse struct {
	Breakdown   BreakdownDTO   `json:"breakdown"`
	GrantStatus GrantStatusDTO `json:"grantStatus"`
}

type CreateEntryResponse struct {
	Entry       EntryDTO       `json:"entry"`
	GrantStatus GrantStatusDTO `json:"grantStatus"`
}

type WeekdayUsageDTO struct {
	Weekday        string  `json:"weekday"`
	GrantHours     float64 `json:"grantHours"`
	UsedHours      float64 `json:"usedHours"`
	RemainingHours float64 `json:"remainingHours"`
	Exceeded       bool    `json:"exceeded"`
}

type WeekdaySummaryDTO struct {
	Days       []WeekdayUsageDTO `json:"days"`
	TotalUsed  float64           `json:"totalUsed"`
	TotalGrant float64           `json:"totalGrant"`
	Percentage int               `json:"percentage"`
}

type GrantOverviewResponse struct {
	GrantStatus    GrantStatusDTO     `json:"grantStatus"`
	WeekdaySummary *WeekdaySummaryDTO `json:"weekdaySummary,omitempty"`
}

// =============================================================================
// SETTINGS
// =============================================================================

type MonthIntervalDTO struct {
	StartDay      int    `json:"start_day"`
	EndDay        int    `json:"end_day"`
	EffectiveFrom string `json:"effective_from,omitempty"`
	IsDefault     bool   `json:"is_default"`
}

type SetMonthIntervalRequest struct {
	StartDay int `json:"start_day" validate:"required,min=1,max=31"`
	EndDay   int `json:"end_day" validate:"required,min=1,max=31"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

var danishWeekdays = map[allowance.Weekday]string{
	allowance.Monday:    "Mandag",
	allowance.Tuesday:   "Tirsdag",
	allowance.Wednesday: "Onsdag",
	allowance.Thursday:  "Torsdag",
	allowance.Friday:    "Fredag",
	allowance.Saturday:  "Lørdag",
	allowance.Sunday:    "Søndag",
}

func toBreakdownDTO(b allowance.TariffBreakdown) BreakdownDTO {
	return BreakdownDTO{
		NormalHours:        b.Normal.InexactFloat64(),
		EveningHours:       b.Evening.InexactFloat64(),
		NightHours:         b.Night.InexactFloat64(),
		SaturdayHours:      b.Saturday.InexactFloat64(),
		SundayHolidayHours: b.SundayHoliday.InexactFloat64(),
		TotalHours:         b.Total.InexactFloat64(),
	}
}

func toGrantStatusDTO(s allowance.GrantStatus) GrantStatusDTO {
	dto := GrantStatusDTO{
		UsedHours:      s.UsedHours.InexactFloat64(),
		GrantHours:     s.GrantHours.InexactFloat64(),
		RemainingHours: s.RemainingHours.InexactFloat64(),
		TotalAfterNew:  s.TotalAfterNew.InexactFloat64(),
		Exceeded:       s.Exceeded,
		ExceededBy:     s.ExceededBy.InexactFloat64(),
		Weekday:        string(s.Weekday),
		FrameGrant:     s.FrameGrant,
	}
	if !s.PeriodStart.IsZero() {
		dto.PeriodStart = s.PeriodStart.String()
		dto.PeriodEnd = s.PeriodEnd.String()
	}
	if s.NotPermitted {
		dto.Error = "Dato ikke tilladt - ingen bevilling på denne ugedag"
		for _, wd := range s.AllowedDays {
			dto.AllowedDays = append(dto.AllowedDays, danishWeekdays[wd])
		}
	}
	return dto
}

func toEntryDTO(e allowance.Entry) EntryDTO {
	return EntryDTO{
		ID:          e.ID,
		ChildID:     e.ChildID,
		CaregiverID: e.CaregiverID,
		Date:        e.Date.String(),
		StartTime:   e.Start.String(),
		EndTime:     e.End.String(),
		Breakdown:   toBreakdownDTO(e.Breakdown),
		Status:      string(e.Status),
		Note:        e.Note,
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func toChildDTO(c allowance.Child) ChildDTO {
	dto := ChildDTO{
		ID:            c.ID,
		Name:          c.Name,
		CaregiverID:   c.CaregiverID,
		GrantType:     string(c.Grant.Type),
		GrantHours:    c.Grant.Hours.InexactFloat64(),
		HasFrameGrant: c.Grant.HasFrameGrant,
		FrameHours:    c.Grant.FrameHours.InexactFloat64(),
		CreatedAt:     c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if len(c.Grant.WeekdayHours) > 0 {
		dto.WeekdayGrants = make(map[string]float64, len(c.Grant.WeekdayHours))
		for wd, hours := range c.Grant.WeekdayHours {
			dto.WeekdayGrants[string(wd)] = hours.InexactFloat64()
		}
	}
	return dto
}

func toWeekdaySummaryDTO(s allowance.WeekdaySummary) WeekdaySummaryDTO {
	dto := WeekdaySummaryDTO{
		TotalUsed:  s.TotalUsed.InexactFloat64(),
		TotalGrant: s.TotalGrant.InexactFloat64(),
		Percentage: s.Percentage,
	}
	for _, d := range s.Days {
		dto.Days = append(dto.Days, WeekdayUsageDTO{
			Weekday:        string(d.Weekday),
			GrantHours:     d.GrantHours.InexactFloat64(),
			UsedHours:      d.UsedHours.InexactFloat64(),
			RemainingHours: d.RemainingHours.InexactFloat64(),
			Exceeded:       d.Exceeded,
		})
	}
	return dto
}
