package model

import "time"

// Assignment binds a chore to a person for one calendar day. Dates are
// civil dates in YYYY-MM-DD form. PersonID is nil while unassigned.
// There is at most one assignment per (chore, assigned date).
type Assignment struct {
	ID           int64     `json:"id"`
	ChoreID      int64     `json:"chore_id"`
	PersonID     *int64    `json:"person_id"`
	AssignedDate string    `json:"assigned_date"`
	DueDate      string    `json:"due_date"`
	CreatedAt    time.Time `json:"created_at"`
}

// Completion is the append-only evidence that an assignment was carried
// out. At most one exists per assignment; it is never updated or deleted.
type Completion struct {
	ID            int64     `json:"id"`
	AssignmentID  int64     `json:"assignment_id"`
	CompletedAt   time.Time `json:"completed_at"`
	ActualMinutes int       `json:"actual_minutes"`
	Notes         string    `json:"notes,omitempty"`
	PhotoHandle   string    `json:"photo_handle,omitempty"`
}

// Review is a parent's verdict on a completion. At most one per completion.
type Review struct {
	ID           int64     `json:"id"`
	CompletionID int64     `json:"completion_id"`
	ReviewedBy   int64     `json:"reviewed_by"`
	Approved     bool      `json:"approved"`
	Notes        string    `json:"notes,omitempty"`
	ReviewedAt   time.Time `json:"reviewed_at"`
}

// AssignmentStatus is the lifecycle position of an assignment.
type AssignmentStatus string

const (
	StatusPending   AssignmentStatus = "pending"
	StatusCompleted AssignmentStatus = "completed"
	StatusReviewed  AssignmentStatus = "reviewed"
)

// AssignmentDetail is an assignment joined with its chore, assignee and
// lifecycle state, as returned by AssignmentStore.ListForDate.
type AssignmentDetail struct {
	Assignment
	Room             string           `json:"room"`
	Task             string           `json:"task"`
	EstimatedMinutes int              `json:"estimated_minutes"`
	PersonName       string           `json:"person_name,omitempty"`
	Status           AssignmentStatus `json:"status"`
	Completion       *Completion      `json:"completion,omitempty"`
	Review           *Review          `json:"review,omitempty"`
	ReviewerName     string           `json:"reviewer_name,omitempty"`
}

// PendingReview is a completion still awaiting a parent's review.
type PendingReview struct {
	Completion
	AssignedDate string `json:"assigned_date"`
	Room         string `json:"room"`
	Task         string `json:"task"`
	PersonID     *int64 `json:"person_id"`
	PersonName   string `json:"person_name,omitempty"`
}
