package chore

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/petravell/choreboard/internal/model"
	"github.com/petravell/choreboard/internal/recurrence"
)

// DateLayout is the civil date format used throughout the core.
const DateLayout = "2006-01-02"

// Catalog is the chore catalog the generator reads.
type Catalog interface {
	ListRecurring() ([]model.Chore, error)
	GetByID(id int64) (*model.Chore, error)
}

// Assignments is the lifecycle store the services write through.
type Assignments interface {
	UpsertGenerated(choreID int64, personID *int64, assignedDate, dueDate string) (bool, error)
	Upsert(choreID int64, personID *int64, assignedDate, dueDate string) (*model.Assignment, error)
	Assignee(choreID int64, assignedDate string) (*int64, error)
	GetByID(id int64) (*model.Assignment, error)
	CreateCompletion(assignmentID int64, actualMinutes int, notes, photoHandle string) (*model.Completion, error)
	GetCompletion(id int64) (*model.Completion, error)
	CreateReview(completionID, reviewedBy int64, approved bool, notes string) (*model.Review, error)
}

// Roster resolves person references.
type Roster interface {
	GetByID(id int64) (*model.Person, error)
}

// Generator materializes assignments for recurring chores and handles
// manual assignment. Both paths funnel through the same (chore, date)
// upsert, so re-running either any number of times yields the same
// assignment set.
type Generator struct {
	catalog     Catalog
	assignments Assignments
	roster      Roster
	logger      *slog.Logger
}

func NewGenerator(catalog Catalog, assignments Assignments, roster Roster, logger *slog.Logger) *Generator {
	return &Generator{catalog: catalog, assignments: assignments, roster: roster, logger: logger}
}

// Generate evaluates every recurring chore against the target date and
// creates an assignment for each one that is due, defaulting the
// assignee to whoever had the chore the previous day. Existing
// assignments are left untouched, so manual reassignments survive a
// re-run. Returns the number of assignments created; a date with no
// due chores is a no-op success.
func (g *Generator) Generate(date time.Time) (int, error) {
	day := date.Format(DateLayout)
	prevDay := date.AddDate(0, 0, -1).Format(DateLayout)

	chores, err := g.catalog.ListRecurring()
	if err != nil {
		return 0, fmt.Errorf("list recurring chores: %w", err)
	}

	created := 0
	for _, c := range chores {
		rule, err := recurrence.Parse(c.RecurrenceRule)
		if err != nil {
			g.logger.Error("invalid recurrence rule", "chore_id", c.ID, "rule", c.RecurrenceRule, "error", err)
			continue
		}
		if !rule.IsDue(date) {
			continue
		}

		assignee, err := g.assignments.Assignee(c.ID, prevDay)
		if err != nil {
			return created, fmt.Errorf("previous assignee for chore %d: %w", c.ID, err)
		}

		wasCreated, err := g.assignments.UpsertGenerated(c.ID, assignee, day, day)
		if err != nil {
			return created, fmt.Errorf("generate assignment for chore %d: %w", c.ID, err)
		}
		if wasCreated {
			created++
		}
	}

	g.logger.Info("generated assignments", "date", day, "created", created)
	return created, nil
}

// Assign creates or updates the assignment binding a chore to a person
// for a date, independent of any recurrence rule. A zero due date
// defaults to the assigned date; a due date before the assigned date is
// rejected. Reassignment is blocked once a completion exists.
func (g *Generator) Assign(choreID, personID int64, assignedDate, dueDate time.Time) (*model.Assignment, error) {
	if dueDate.IsZero() {
		dueDate = assignedDate
	}
	if dueDate.Before(assignedDate) {
		return nil, fmt.Errorf("%w: due date before assigned date", ErrInvalidInput)
	}

	c, err := g.catalog.GetByID(choreID)
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	if c == nil {
		return nil, fmt.Errorf("%w: chore %d", ErrNotFound, choreID)
	}

	p, err := g.roster.GetByID(personID)
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	if p == nil {
		return nil, fmt.Errorf("%w: person %d", ErrNotFound, personID)
	}

	return g.assignments.Upsert(choreID, &personID, assignedDate.Format(DateLayout), dueDate.Format(DateLayout))
}
