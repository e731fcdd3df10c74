// Package websocket pushes lifecycle events to connected dashboards so
// every screen in the house reflects a mutation without refresh.
package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Message is a real-time event broadcast to all clients.
type Message struct {
	Type  string         `json:"type"`
	ID    int64          `json:"id,omitempty"`
	Extra map[string]any `json:"extra,omitempty"`
}

// Event constructors for the lifecycle moments clients care about.

func AssignmentCreated(assignmentID int64, date string) Message {
	return Message{Type: "assignment_created", ID: assignmentID, Extra: map[string]any{"date": date}}
}

func AssignmentsGenerated(date string, created int) Message {
	return Message{Type: "assignments_generated", Extra: map[string]any{"date": date, "created": created}}
}

func AssignmentCompleted(assignmentID, completionID int64) Message {
	return Message{Type: "assignment_completed", ID: assignmentID, Extra: map[string]any{"completion_id": completionID}}
}

func CompletionReviewed(completionID int64, approved bool) Message {
	return Message{Type: "completion_reviewed", ID: completionID, Extra: map[string]any{"approved": approved}}
}

// Hub maintains the set of active WebSocket clients and broadcasts messages.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates a new Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients: make(map[*Client]struct{}),
		logger:  logger,
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

// Unregister removes a client from the hub and closes its outbox.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.outbox)
	}
	h.mu.Unlock()
}

// Broadcast sends a message to all connected clients.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("marshal broadcast", "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.clients {
		select {
		case c.outbox <- data:
		default:
			// Full outbox; drop rather than block the mutation path.
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
