package model

import "time"

// Chore is a catalog entry. RecurrenceRule is the compact rule text
// understood by the recurrence package; empty means manually assigned only.
type Chore struct {
	ID               int64     `json:"id"`
	Room             string    `json:"room"`
	Task             string    `json:"task"`
	EstimatedMinutes int       `json:"estimated_minutes"`
	RecurrenceRule   string    `json:"recurrence_rule"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
