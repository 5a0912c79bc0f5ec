package api

import (
	"encoding/csv"
	"log"
	"net/http"

	"github.com/Parthee-Vijaya/BP2/allowance"
)

// ExportEntries streams time entries as CSV for payroll. Defaults to
// approved entries only; pass ?status= to override, plus the usual
// child_id/caregiver_id/from/to filters.
func (h *Handler) ExportEntries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := allowance.EntryFilter{
		ChildID:     q.Get("child_id"),
		CaregiverID: q.Get("caregiver_id"),
		Status:      allowance.StatusApproved,
	}
	if s := q.Get("status"); s != "" {
		filter.Status = allowance.EntryStatus(s)
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

	// Resolve names once per id; exports are small.
	childNames := map[string]string{}
	caregiverNames := map[string]string{}
	for _, e := range entries {
		if _, ok := childNames[e.ChildID]; !ok {
			if c, err := h.Store.Child(r.Context(), e.ChildID); err == nil {
				childNames[e.ChildID] = c.Name
			}
		}
		if _, ok := caregiverNames[e.CaregiverID]; !ok {
			if c, err := h.Store.Caregiver(r.Context(), e.CaregiverID); err == nil {
				caregiverNames[e.CaregiverID] = c.Name
			}
		}
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="timeregistreringer.csv"`)

	cw := csv.NewWriter(w)
	cw.Comma = ';' // Danish Excel convention

	header := []string{"Dato", "Barnepige", "Barn", "Start", "Slut",
		"Normaltimer", "Aftentillaeg", "Nattillaeg", "Loerdagstillaeg",
		"Soen-helligdagstillaeg", "Total", "Status"}
	if err := cw.Write(header); err != nil {
		return
	}

	for _, e := range entries {
		record := []string{
			e.Date.String(),
			caregiverNames[e.CaregiverID],
			childNames[e.ChildID],
			e.Start.String(),
			e.End.String(),
			e.Breakdown.Normal.StringFixed(2),
			e.Breakdown.Evening.StringFixed(2),
			e.Breakdown.Night.StringFixed(2),
			e.Breakdown.Saturday.StringFixed(2),
			e.Breakdown.SundayHoliday.StringFixed(2),
			e.Breakdown.Total.StringFixed(2),
			string(e.Status),
		}
		if err := cw.Write(record); err != nil {
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Printf("csv export aborted: %v", err)
	}
}
