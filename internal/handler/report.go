package handler

import (
	"net/http"
	"time"

	"github.com/petravell/choreboard/internal/chore"
	"github.com/petravell/choreboard/internal/model"
	"github.com/petravell/choreboard/internal/report"
	"github.com/petravell/choreboard/internal/store"
)

type ReportHandler struct {
	reports *report.Aggregator
	people  *store.PersonStore
}

func NewReportHandler(reports *report.Aggregator, people *store.PersonStore) *ReportHandler {
	return &ReportHandler{reports: reports, people: people}
}

// reportRange reads ?start and ?end, defaulting to the trailing week.
func reportRange(r *http.Request) (start, end string, ok bool) {
	start = r.URL.Query().Get("start")
	end = r.URL.Query().Get("end")
	if start == "" && end == "" {
		now := time.Now()
		end = now.Format(chore.DateLayout)
		start = now.AddDate(0, 0, -6).Format(chore.DateLayout)
		return start, end, true
	}
	for _, d := range []string{start, end} {
		if _, err := time.Parse(chore.DateLayout, d); err != nil {
			return "", "", false
		}
	}
	return start, end, true
}

func (h *ReportHandler) Individual(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	p, err := h.people.GetByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "person not found"})
		return
	}

	start, end, ok := reportRange(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start and end must be YYYY-MM-DD"})
		return
	}

	rows, err := h.reports.IndividualReport(id, start, end)
	if err != nil {
		respondError(w, err)
		return
	}
	if rows == nil {
		rows = []model.IndividualReportRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"person": p.Name,
		"start":  start,
		"end":    end,
		"days":   rows,
	})
}

func (h *ReportHandler) Family(w http.ResponseWriter, r *http.Request) {
	start, end, ok := reportRange(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start and end must be YYYY-MM-DD"})
		return
	}

	rows, err := h.reports.FamilyReport(start, end)
	if err != nil {
		respondError(w, err)
		return
	}
	if rows == nil {
		rows = []model.FamilyReportRow{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"start": start,
		"end":   end,
		"days":  rows,
	})
}
