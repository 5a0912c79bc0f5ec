/*
handlers.go - HTTP API handlers

PURPOSE:
  Exposes the allowance engine and the surrounding CRUD surface via REST.
  Handlers parse and validate input, call the pure engine and the store, and
  serialize responses.

ENDPOINTS:
  Caregivers:
    GET    /api/caregivers               List caregivers
    POST   /api/caregivers               Create caregiver
    GET    /api/caregivers/{id}          Get caregiver

  Children:
    GET    /api/children                 List children (?caregiver_id=)
    POST   /api/children                 Create child with grant config
    PUT    /api/children/{id}            Update child / grant config
    GET    /api/children/{id}/grant-status  Consumption dashboard

  Time entries:
    GET    /api/time-entries             List (?child_id&caregiver_id&status&from&to)
    POST   /api/time-entries             Classify + evaluate + persist
    POST   /api/time-entries/preview     Classify + evaluate, persist nothing
    PUT    /api/time-entries/{id}/status Approve / reject

  Settings:
    GET    /api/settings/month-interval          Active month interval
    GET    /api/settings/month-interval/history  Full history
    PUT    /api/settings/month-interval          Add new interval (from today)

  Export:
    GET    /api/export/time-entries      CSV for payroll

ENTRY CREATION FLOW:
  1. Validate request (formats only; the engine assumes well-formed input)
  2. Classify the interval into the five tariff buckets
  3. Under the per-child lock: snapshot prior entries, evaluate the grant
  4. NotPermitted blocks with 422; an exceeded grant is persisted anyway and
     the verdict is returned as a warning (policy: allow-with-warning)

ERROR HANDLING:
  400 validation, 404 not found, 422 date not permitted, 500 internal.
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Parthee-Vijaya/BP2/allowance"
)

// =============================================================================
// HANDLER
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store      allowance.Store
	Classifier *allowance.Classifier
	Ledger     *allowance.GrantLedger

	validate *validator.Validate
}

// NewHandler creates a handler around a store.
func NewHandler(store allowance.Store) *Handler {
	return &Handler{
		Store:      store,
		Classifier: allowance.NewClassifier(allowance.NewHolidayCalendar()),
		Ledger:     allowance.NewGrantLedger(),
		validate:   validator.New(),
	}
}

// =============================================================================
// CAREGIVER HANDLERS
// =============================================================================

func (h *Handler) ListCaregivers(w http.ResponseWriter, r *http.Request) {
	caregivers, err := h.Store.Caregivers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list caregivers", err)
		return
	}

	dtos := make([]CaregiverDTO, len(caregivers))
	for i, c := range caregivers {
		dtos[i] = CaregiverDTO{ID: c.ID, Name: c.Name, Email: c.Email,
			CreatedAt: c.CreatedAt.Format(time.RFC3339)}
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateCaregiver(w http.ResponseWriter, r *http.Request) {
	var req CreateCaregiverRequest
	if !h.decode(w, r, &req) {
		return
	}

	c := allowance.Caregiver{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		CreatedAt: time.Now(),
	}
	if err := h.Store.CreateCaregiver(r.Context(), c); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create caregiver", err)
		return
	}
	writeJSON(w, http.StatusCreated, CaregiverDTO{ID: c.ID, Name: c.Name, Email: c.Email})
}

func (h *Handler) GetCaregiver(w http.ResponseWriter, r *http.Request) {
	c, err := h.Store.Caregiver(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CaregiverDTO{ID: c.ID, Name: c.Name, Email: c.Email,
		CreatedAt: c.CreatedAt.Format(time.RFC3339)})
}

// =============================================================================
// CHILD HANDLERS
// =============================================================================

func (h *Handler) ListChildren(w http.ResponseWriter, r *http.Request) {
	children, err := h.Store.Children(r.Context(), r.URL.Query().Get("caregiver_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list children", err)
		return
	}

	dtos := make([]ChildDTO, len(children))
	for i, c := range children {
		dtos[i] = toChildDTO(c)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) CreateChild(w http.ResponseWriter, r *http.Request) {
	var req ChildRequest
	if !h.decode(w, r, &req) {
		return
	}

	child, err := childFromRequest(uuid.NewString(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid grant configuration", err)
		return
	}
	child.CreatedAt = time.Now()

	if err := h.Store.CreateChild(r.Context(), child); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create child", err)
		return
	}
	writeJSON(w, http.StatusCreated, toChildDTO(child))
}

func (h *Handler) UpdateChild(w http.ResponseWriter, r *http.Request) {
	var req ChildRequest
	if !h.decode(w, r, &req) {
		return
	}

	child, err := childFromRequest(chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid grant configuration", err)
		return
	}

	if err := h.Store.UpdateChild(r.Context(), child); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toChildDTO(child))
}

func childFromRequest(id string, req ChildRequest) (allowance.Child, error) {
	cfg := allowance.GrantConfig{
		Type:          allowance.GrantType(req.GrantType),
		Hours:         decimal.NewFromFloat(req.GrantHours),
		HasFrameGrant: req.HasFrameGrant,
		FrameHours:    decimal.NewFromFloat(req.FrameHours),
	}
	if len(req.WeekdayGrants) > 0 {
		cfg.WeekdayHours = make(map[allowance.Weekday]decimal.Decimal, len(req.WeekdayGrants))
		for day, hours := range req.WeekdayGrants {
			cfg.WeekdayHours[allowance.Weekday(day)] = decimal.NewFromFloat(hours)
		}
	}
	if err := allowance.ValidateGrantConfig(cfg); err != nil {
		return allowance.Child{}, err
	}
	return allowance.Child{ID: id, Name: req.Name, CaregiverID: req.CaregiverID, Grant: cfg}, nil
}

// GetGrantStatus renders the consumption dashboard for a child: the current
// period's verdict (zero candidate hours) plus, for weekday grants, the
// aggregate weekday summary. Read-only; creates nothing.
func (h *Handler) GetGrantStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	child, err := h.Store.Child(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	asOf := allowance.DateOf(time.Now())
	if s := r.URL.Query().Get("date"); s != "" {
		if asOf, err = allowance.ParseDate(s); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date", err)
			return
		}
	}
	useFrame := r.URL.Query().Get("use_frame_grant") == "true"

	prior, err := h.Store.Entries(ctx, allowance.EntryFilter{ChildID: child.ID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load entries", err)
		return
	}
	intervals, err := h.Store.MonthIntervals(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	status := h.Ledger.Evaluate(allowance.EvaluateInput{
		Config:         child.Grant,
		Prior:          prior,
		Date:           asOf,
		Hours:          decimal.Zero,
		UseFrameGrant:  useFrame,
		MonthIntervals: intervals,
	})

	resp := GrantOverviewResponse{GrantStatus: toGrantStatusDTO(status)}
	if child.Grant.Type == allowance.GrantSpecificWeekdays {
		summary := h.Ledger.Summarize(child.Grant, prior, asOf)
		dto := toWeekdaySummaryDTO(summary)
		resp.WeekdaySummary = &dto
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// TIME ENTRY HANDLERS
// =============================================================================

func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := allowance.EntryFilter{
		ChildID:     q.Get("child_id"),
		CaregiverID: q.Get("caregiver_id"),
		Status:      allowance.EntryStatus(q.Get("status")),
	}
	var err error
	if s := q.Get("from"); s != "" {
		if filter.From, err = allowance.ParseDate(s); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date", err)
			return
		}
	}
	if s := q.Get("to"); s != "" {
		if filter.To, err = allowance.ParseDate(s); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date", err)
			return
		}
	}

	entries, err := h.Store.Entries(r.Context(), filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list entries", err)
		return
	}

	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = toEntryDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PreviewEntry classifies and evaluates without persisting, for the
// registration screen's live feedback.
func (h *Handler) PreviewEntry(w http.ResponseWriter, r *http.Request) {
	var req EntryRequest
	if !h.decode(w, r, &req) {
		return
	}

	breakdown, status, _, err := h.classifyAndEvaluate(r, req)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PreviewResponse{
		Breakdown:   toBreakdownDTO(breakdown),
		GrantStatus: toGrantStatusDTO(status),
	})
}

// CreateEntry classifies, evaluates and persists a new entry. The snapshot
// read and the insert run under the per-child lock so two concurrent
// submissions cannot both pass a balance check neither individually exceeds.
func (h *Handler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	var req EntryRequest
	if !h.decode(w, r, &req) {
		return
	}

	var (
		entry  allowance.Entry
		status allowance.GrantStatus
	)
	err := h.Store.WithChildLock(r.Context(), req.ChildID, func(lockCtx context.Context) error {
		breakdown, verdict, date, err := h.classifyAndEvaluate(r, req)
		if err != nil {
			return err
		}
		status = verdict
		if verdict.NotPermitted {
			return nil
		}

		start, _ := allowance.ParseClock(req.StartTime)
		end, _ := allowance.ParseClock(req.EndTime)
		entry = allowance.Entry{
			ID:          uuid.NewString(),
			ChildID:     req.ChildID,
			CaregiverID: req.CaregiverID,
			Date:        date,
			Start:       start,
			End:         end,
			Breakdown:   breakdown,
			Status:      allowance.StatusPending,
			Note:        req.Note,
			CreatedAt:   time.Now(),
		}
		return h.Store.CreateEntry(lockCtx, entry)
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	if status.NotPermitted {
		// A zero-quota weekday blocks; an exceeded grant only warns.
		writeJSON(w, http.StatusUnprocessableEntity, CreateEntryResponse{
			GrantStatus: toGrantStatusDTO(status),
		})
		return
	}

	writeJSON(w, http.StatusCreated, CreateEntryResponse{
		Entry:       toEntryDTO(entry),
		GrantStatus: toGrantStatusDTO(status),
	})
}

// classifyAndEvaluate is the shared preview/create pipeline: parse, classify
// the interval, snapshot prior entries, evaluate the grant.
func (h *Handler) classifyAndEvaluate(r *http.Request, req EntryRequest) (allowance.TariffBreakdown, allowance.GrantStatus, allowance.CivilDate, error) {
	ctx := r.Context()

	date, err := allowance.ParseDate(req.Date)
	if err != nil {
		return allowance.TariffBreakdown{}, allowance.GrantStatus{}, allowance.CivilDate{}, err
	}
	start, err := allowance.ParseClock(req.StartTime)
	if err != nil {
		return allowance.TariffBreakdown{}, allowance.GrantStatus{}, allowance.CivilDate{}, err
	}
	end, err := allowance.ParseClock(req.EndTime)
	if err != nil {
		return allowance.TariffBreakdown{}, allowance.GrantStatus{}, allowance.CivilDate{}, err
	}

	child, err := h.Store.Child(ctx, req.ChildID)
	if err != nil {
		return allowance.TariffBreakdown{}, allowance.GrantStatus{}, allowance.CivilDate{}, err
	}

	breakdown := h.Classifier.Classify(date, start, end)

	prior, err := h.Store.Entries(ctx, allowance.EntryFilter{ChildID: child.ID})
	if err != nil {
		return allowance.TariffBreakdown{}, allowance.GrantStatus{}, allowance.CivilDate{}, err
	}
	intervals, err := h.Store.MonthIntervals(ctx)
	if err != nil {
		return allowance.TariffBreakdown{}, allowance.GrantStatus{}, allowance.CivilDate{}, err
	}

	verdict := h.Ledger.Evaluate(allowance.EvaluateInput{
		Config:         child.Grant,
		Prior:          prior,
		Date:           date,
		Hours:          breakdown.Total,
		UseFrameGrant:  req.UseFrameGrant,
		MonthIntervals: intervals,
	})
	return breakdown, verdict, date, nil
}

func (h *Handler) UpdateEntryStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.Store.UpdateEntryStatus(r.Context(), id, allowance.EntryStatus(req.Status)); err != nil {
		writeStoreError(w, err)
		return
	}

	entry, err := h.Store.Entry(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntryDTO(entry))
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

func (h *Handler) GetMonthInterval(w http.ResponseWriter, r *http.Request) {
	history, err := h.Store.MonthIntervals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	active := allowance.ActiveMonthInterval(history, allowance.DateOf(time.Now()))
	dto := MonthIntervalDTO{StartDay: active.StartDay, EndDay: active.EndDay}
	if active.EffectiveFrom.IsZero() {
		dto.IsDefault = true
	} else {
		dto.EffectiveFrom = active.EffectiveFrom.String()
	}
	writeJSON(w, http.StatusOK, dto)
}

func (h *Handler) GetMonthIntervalHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.Store.MonthIntervals(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings", err)
		return
	}

	dtos := make([]MonthIntervalDTO, len(history))
	for i, mi := range history {
		dtos[i] = MonthIntervalDTO{
			StartDay:      mi.StartDay,
			EndDay:        mi.EndDay,
			EffectiveFrom: mi.EffectiveFrom.String(),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SetMonthInterval appends a new month interval effective from today.
func (h *Handler) SetMonthInterval(w http.ResponseWriter, r *http.Request) {
	var req SetMonthIntervalRequest
	if !h.decode(w, r, &req) {
		return
	}

	mi := allowance.MonthInterval{
		StartDay:      req.StartDay,
		EndDay:        req.EndDay,
		EffectiveFrom: allowance.DateOf(time.Now()),
	}
	if err := h.Store.AddMonthInterval(r.Context(), mi); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MonthIntervalDTO{
		StartDay:      mi.StartDay,
		EndDay:        mi.EndDay,
		EffectiveFrom: mi.EffectiveFrom.String(),
	})
}

// =============================================================================
// HEALTH
// =============================================================================

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "Barnepige Timeregistrering API",
	})
}

// =============================================================================
// HELPERS
// =============================================================================

// decode parses the JSON body and runs struct validation; on failure it
// writes the error response and returns false.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err)
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string, err error) {
	writeJSON(w, status, map[string]string{
		"error":   msg,
		"details": fmt.Sprintf("%v", err),
	})
}

// writeStoreError maps store/domain errors to HTTP status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case allowance.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case allowance.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid input", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}
