// Package chore holds the assignment generator and the lifecycle
// service: the rules for turning the catalog into per-day assignments
// and walking each assignment through assigned -> completed -> reviewed.
package chore

import "errors"

// Every mutating operation returns either its entity or one of these
// typed failures; callers can always distinguish failure kinds.
var (
	// ErrNotFound is returned when a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyCompleted is returned on a second completion attempt for
	// the same assignment. A duplicate completion is a real-world
	// conflict the user must see, never a silent merge.
	ErrAlreadyCompleted = errors.New("assignment already completed")

	// ErrAlreadyReviewed is returned on a second review attempt for the
	// same completion.
	ErrAlreadyReviewed = errors.New("completion already reviewed")

	// ErrAssignmentLocked is returned when reassignment is attempted
	// after a completion exists for the assignment.
	ErrAssignmentLocked = errors.New("assignment locked by completion")

	// ErrChoreInUse is returned when deleting a chore that assignments
	// still reference. Historical records stay intact; the chore can
	// only be retired by clearing its recurrence rule.
	ErrChoreInUse = errors.New("chore referenced by assignments")

	// ErrForbiddenRole is returned when a non-parent attempts a review.
	ErrForbiddenRole = errors.New("reviewer must be a parent")

	// ErrInvalidInput is returned for malformed input: non-positive
	// minutes, a due date before the assigned date, or a recurrence rule
	// that does not parse.
	ErrInvalidInput = errors.New("invalid input")

	// ErrStorageUnavailable is returned when the persistence layer is
	// unreachable. It aborts the call; nothing is partially written.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// IsConflict reports whether err is one of the uniqueness conflicts
// that must surface to the user rather than be retried.
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyCompleted) ||
		errors.Is(err, ErrAlreadyReviewed) ||
		errors.Is(err, ErrAssignmentLocked) ||
		errors.Is(err, ErrChoreInUse)
}
