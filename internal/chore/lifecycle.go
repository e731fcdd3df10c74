package chore

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/petravell/choreboard/internal/model"
)

// PhotoStore is the opaque blob collaborator for completion photos.
// The core never interprets photo contents; it stores bytes and keeps
// the returned handle.
type PhotoStore interface {
	Save(ctx context.Context, data []byte, suggestedName string) (string, error)
}

// Lifecycle walks assignments through their ordered, append-only chain:
// pending -> completed -> reviewed. Duplicate transitions are rejected
// with typed conflicts, never merged or retried.
type Lifecycle struct {
	assignments Assignments
	roster      Roster
	photos      PhotoStore
	logger      *slog.Logger
}

func NewLifecycle(assignments Assignments, roster Roster, photos PhotoStore, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{assignments: assignments, roster: roster, photos: photos, logger: logger}
}

// Complete records that an assignment was carried out. Minutes must be
// positive. If photo bytes are supplied they go to the blob store and
// only the handle is persisted. A second completion for the same
// assignment fails with ErrAlreadyCompleted.
func (l *Lifecycle) Complete(ctx context.Context, assignmentID int64, actualMinutes int, notes string, photoData []byte, photoName string) (*model.Completion, error) {
	if actualMinutes <= 0 {
		return nil, fmt.Errorf("%w: actual minutes must be positive", ErrInvalidInput)
	}

	a, err := l.assignments.GetByID(assignmentID)
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", err)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: assignment %d", ErrNotFound, assignmentID)
	}

	var handle string
	if len(photoData) > 0 {
		if l.photos == nil {
			return nil, fmt.Errorf("%w: photo storage not configured", ErrInvalidInput)
		}
		handle, err = l.photos.Save(ctx, photoData, photoName)
		if err != nil {
			return nil, fmt.Errorf("store photo: %w", err)
		}
	}

	comp, err := l.assignments.CreateCompletion(assignmentID, actualMinutes, notes, handle)
	if err != nil {
		return nil, err
	}

	l.logger.Info("assignment completed", "assignment_id", assignmentID, "completion_id", comp.ID, "minutes", actualMinutes)
	return comp, nil
}

// Review records a parent's verdict on a completion. The reviewer's
// role is checked against the roster at review time; children cannot
// review. A second review fails with ErrAlreadyReviewed.
func (l *Lifecycle) Review(completionID, reviewerID int64, approved bool, notes string) (*model.Review, error) {
	reviewer, err := l.roster.GetByID(reviewerID)
	if err != nil {
		return nil, fmt.Errorf("get reviewer: %w", err)
	}
	if reviewer == nil {
		return nil, fmt.Errorf("%w: person %d", ErrNotFound, reviewerID)
	}
	if reviewer.Role != model.RoleParent {
		return nil, fmt.Errorf("%w: %s is a %s", ErrForbiddenRole, reviewer.Name, reviewer.Role)
	}

	comp, err := l.assignments.GetCompletion(completionID)
	if err != nil {
		return nil, fmt.Errorf("get completion: %w", err)
	}
	if comp == nil {
		return nil, fmt.Errorf("%w: completion %d", ErrNotFound, completionID)
	}

	rev, err := l.assignments.CreateReview(completionID, reviewerID, approved, notes)
	if err != nil {
		return nil, err
	}

	l.logger.Info("completion reviewed", "completion_id", completionID, "reviewer_id", reviewerID, "approved", approved)
	return rev, nil
}
