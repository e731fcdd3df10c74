package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/petravell/choreboard/internal/model"
	"github.com/petravell/choreboard/internal/recurrence"
	"github.com/petravell/choreboard/internal/store"
	"github.com/petravell/choreboard/internal/websocket"
)

type ChoreHandler struct {
	chores *store.ChoreStore
	hub    *websocket.Hub
}

func NewChoreHandler(chores *store.ChoreStore, hub *websocket.Hub) *ChoreHandler {
	return &ChoreHandler{chores: chores, hub: hub}
}

func (h *ChoreHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type choreRequest struct {
	Room             string `json:"room"`
	Task             string `json:"task"`
	EstimatedMinutes int    `json:"estimated_minutes"`
	RecurrenceRule   string `json:"recurrence_rule"`
}

func (r *choreRequest) validate() string {
	r.Room = strings.TrimSpace(r.Room)
	r.Task = strings.TrimSpace(r.Task)
	if r.Room == "" {
		return "room is required"
	}
	if r.Task == "" {
		return "task is required"
	}
	if r.EstimatedMinutes <= 0 {
		return "estimated_minutes must be positive"
	}
	if _, err := recurrence.Parse(r.RecurrenceRule); err != nil {
		return "invalid recurrence rule: " + err.Error()
	}
	return ""
}

func (h *ChoreHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	c, err := h.chores.Create(req.Room, req.Task, req.EstimatedMinutes, req.RecurrenceRule)
	if err != nil {
		respondError(w, err)
		return
	}

	h.broadcast(websocket.Message{Type: "chore_created", ID: c.ID})

	writeJSON(w, http.StatusCreated, c)
}

func (h *ChoreHandler) List(w http.ResponseWriter, r *http.Request) {
	chores, err := h.chores.List()
	if err != nil {
		respondError(w, err)
		return
	}
	if chores == nil {
		chores = []model.Chore{}
	}
	writeJSON(w, http.StatusOK, chores)
}

func (h *ChoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	c, err := h.chores.GetByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if c == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore not found"})
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *ChoreHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.chores.GetByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore not found"})
		return
	}

	var req choreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	c, err := h.chores.Update(id, req.Room, req.Task, req.EstimatedMinutes, req.RecurrenceRule)
	if err != nil {
		respondError(w, err)
		return
	}

	h.broadcast(websocket.Message{Type: "chore_updated", ID: id})

	writeJSON(w, http.StatusOK, c)
}

func (h *ChoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.chores.GetByID(id)
	if err != nil {
		respondError(w, err)
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "chore not found"})
		return
	}

	if err := h.chores.Delete(id); err != nil {
		respondError(w, err)
		return
	}

	h.broadcast(websocket.Message{Type: "chore_deleted", ID: id})

	w.WriteHeader(http.StatusNoContent)
}
