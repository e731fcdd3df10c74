package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/petravell/choreboard/internal/chore"
	"github.com/petravell/choreboard/internal/identity"
	"github.com/petravell/choreboard/internal/model"
	"github.com/petravell/choreboard/internal/push"
	"github.com/petravell/choreboard/internal/store"
	"github.com/petravell/choreboard/internal/websocket"
)

// maxPhotoBytes bounds completion photo uploads.
const maxPhotoBytes = 10 << 20

type AssignmentHandler struct {
	generator   *chore.Generator
	lifecycle   *chore.Lifecycle
	assignments *store.AssignmentStore
	chores      *store.ChoreStore
	people      *store.PersonStore
	hub         *websocket.Hub
	notifier    *push.Notifier
}

func NewAssignmentHandler(g *chore.Generator, l *chore.Lifecycle, as *store.AssignmentStore, cs *store.ChoreStore, ps *store.PersonStore, hub *websocket.Hub, notifier *push.Notifier) *AssignmentHandler {
	return &AssignmentHandler{
		generator:   g,
		lifecycle:   l,
		assignments: as,
		chores:      cs,
		people:      ps,
		hub:         hub,
		notifier:    notifier,
	}
}

func (h *AssignmentHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(chore.DateLayout, s)
	return t, err == nil
}

// Generate materializes assignments for the requested date. An empty
// body or missing date defaults to today.
func (h *AssignmentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date string `json:"date"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	date := time.Now()
	if req.Date != "" {
		var ok bool
		if date, ok = parseDate(req.Date); !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
			return
		}
	}

	created, err := h.generator.Generate(date)
	if err != nil {
		respondError(w, err)
		return
	}

	day := date.Format(chore.DateLayout)
	h.broadcast(websocket.AssignmentsGenerated(day, created))

	writeJSON(w, http.StatusOK, map[string]any{"date": day, "created": created})
}

// Assign creates or reassigns an assignment for a chore and date.
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ChoreID      int64  `json:"chore_id"`
		PersonID     int64  `json:"person_id"`
		AssignedDate string `json:"assigned_date"`
		DueDate      string `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	assigned, ok := parseDate(req.AssignedDate)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "assigned_date must be YYYY-MM-DD"})
		return
	}
	var due time.Time
	if req.DueDate != "" {
		if due, ok = parseDate(req.DueDate); !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "due_date must be YYYY-MM-DD"})
			return
		}
	}

	a, err := h.generator.Assign(req.ChoreID, req.PersonID, assigned, due)
	if err != nil {
		respondError(w, err)
		return
	}

	h.broadcast(websocket.AssignmentCreated(a.ID, a.AssignedDate))

	writeJSON(w, http.StatusCreated, a)
}

// ListForDate returns the full dashboard view for one day.
func (h *AssignmentHandler) ListForDate(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		dateStr = time.Now().Format(chore.DateLayout)
	}
	if _, ok := parseDate(dateStr); !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "date must be YYYY-MM-DD"})
		return
	}

	details, err := h.assignments.ListForDate(dateStr)
	if err != nil {
		respondError(w, err)
		return
	}
	if details == nil {
		details = []model.AssignmentDetail{}
	}
	writeJSON(w, http.StatusOK, details)
}

// Complete records a completion. Accepts JSON, or multipart form data
// when a photo is attached.
func (h *AssignmentHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var (
		actualMinutes int
		notes         string
		photoData     []byte
		photoName     string
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
			return
		}
		actualMinutes, err = strconv.Atoi(r.FormValue("actual_minutes"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "actual_minutes must be a number"})
			return
		}
		notes = r.FormValue("notes")

		if file, header, err := r.FormFile("photo"); err == nil {
			defer file.Close()
			photoData, err = io.ReadAll(io.LimitReader(file, maxPhotoBytes))
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read photo"})
				return
			}
			photoName = header.Filename
		}
	} else {
		var req struct {
			ActualMinutes int    `json:"actual_minutes"`
			Notes         string `json:"notes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
			return
		}
		actualMinutes = req.ActualMinutes
		notes = req.Notes
	}

	comp, err := h.lifecycle.Complete(r.Context(), id, actualMinutes, notes, photoData, photoName)
	if err != nil {
		respondError(w, err)
		return
	}

	h.broadcast(websocket.AssignmentCompleted(id, comp.ID))
	h.notifyCompleted(id)

	writeJSON(w, http.StatusCreated, comp)
}

// Review records a parent's verdict on a completion. The reviewer comes
// from the request identity when present, otherwise from the body.
func (h *AssignmentHandler) Review(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	var req struct {
		ReviewedBy int64  `json:"reviewed_by"`
		Approved   bool   `json:"approved"`
		Notes      string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	reviewerID := identity.PersonID(r.Context())
	if reviewerID == 0 {
		reviewerID = req.ReviewedBy
	}
	if reviewerID == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reviewer is required"})
		return
	}

	rev, err := h.lifecycle.Review(id, reviewerID, req.Approved, req.Notes)
	if err != nil {
		respondError(w, err)
		return
	}

	h.broadcast(websocket.CompletionReviewed(id, req.Approved))
	h.notifyReviewed(id, req.Approved)

	writeJSON(w, http.StatusCreated, rev)
}

// PendingReview lists completions that have not been reviewed yet,
// optionally bounded by ?start and ?end assigned dates.
func (h *AssignmentHandler) PendingReview(w http.ResponseWriter, r *http.Request) {
	start := r.URL.Query().Get("start")
	end := r.URL.Query().Get("end")
	for _, d := range []string{start, end} {
		if d == "" {
			continue
		}
		if _, ok := parseDate(d); !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dates must be YYYY-MM-DD"})
			return
		}
	}

	pending, err := h.assignments.PendingReview(start, end)
	if err != nil {
		respondError(w, err)
		return
	}
	if pending == nil {
		pending = []model.PendingReview{}
	}
	writeJSON(w, http.StatusOK, pending)
}

// notifyCompleted looks up who did what and tells the parents.
func (h *AssignmentHandler) notifyCompleted(assignmentID int64) {
	if h.notifier == nil {
		return
	}

	a, err := h.assignments.GetByID(assignmentID)
	if err != nil || a == nil {
		return
	}
	c, err := h.chores.GetByID(a.ChoreID)
	if err != nil || c == nil {
		return
	}

	var name string
	if a.PersonID != nil {
		if p, err := h.people.GetByID(*a.PersonID); err == nil && p != nil {
			name = p.Name
		}
	}
	go h.notifier.CompletionRecorded(name, c.Task)
}

// notifyReviewed tells the assignee the verdict.
func (h *AssignmentHandler) notifyReviewed(completionID int64, approved bool) {
	if h.notifier == nil {
		return
	}

	comp, err := h.assignments.GetCompletion(completionID)
	if err != nil || comp == nil {
		return
	}
	a, err := h.assignments.GetByID(comp.AssignmentID)
	if err != nil || a == nil {
		return
	}
	c, err := h.chores.GetByID(a.ChoreID)
	if err != nil || c == nil {
		return
	}
	go h.notifier.ReviewRecorded(a.PersonID, c.Task, approved)
}
