package store

import (
	"database/sql"
	"fmt"

	"github.com/petravell/choreboard/internal/chore"
	"github.com/petravell/choreboard/internal/model"
)

// AssignmentStore owns assignments, completions and reviews and their
// state transitions. The chain per assignment is strictly append-only:
// assignment -> completion -> review, nothing ever removed.
type AssignmentStore struct {
	db *sql.DB
}

func NewAssignmentStore(db *sql.DB) *AssignmentStore {
	return &AssignmentStore{db: db}
}

const assignmentCols = `id, chore_id, person_id, assigned_date, due_date, created_at`

func scanAssignment(scanner interface{ Scan(...any) error }) (*model.Assignment, error) {
	var a model.Assignment
	var personID sql.NullInt64

	err := scanner.Scan(&a.ID, &a.ChoreID, &personID, &a.AssignedDate, &a.DueDate, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	if personID.Valid {
		a.PersonID = &personID.Int64
	}
	return &a, nil
}

func (s *AssignmentStore) GetByID(id int64) (*model.Assignment, error) {
	row := s.db.QueryRow(`SELECT `+assignmentCols+` FROM assignments WHERE id = ?`, id)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment: %w", wrapStorage(err))
	}
	return a, nil
}

func (s *AssignmentStore) GetByChoreDate(choreID int64, assignedDate string) (*model.Assignment, error) {
	row := s.db.QueryRow(
		`SELECT `+assignmentCols+` FROM assignments WHERE chore_id = ? AND assigned_date = ?`,
		choreID, assignedDate,
	)
	a, err := scanAssignment(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get assignment by chore/date: %w", wrapStorage(err))
	}
	return a, nil
}

// Assignee returns the person assigned to the chore on the given date,
// or nil when there is no assignment or it is unassigned.
func (s *AssignmentStore) Assignee(choreID int64, assignedDate string) (*int64, error) {
	var personID sql.NullInt64
	err := s.db.QueryRow(
		`SELECT person_id FROM assignments WHERE chore_id = ? AND assigned_date = ?`,
		choreID, assignedDate,
	).Scan(&personID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query assignee: %w", wrapStorage(err))
	}
	if !personID.Valid {
		return nil, nil
	}
	return &personID.Int64, nil
}

// UpsertGenerated inserts an assignment for (chore, date) if none
// exists and reports whether a row was created. An existing row is left
// completely untouched so generation never clobbers a manual
// reassignment; re-running generation for a date is idempotent.
func (s *AssignmentStore) UpsertGenerated(choreID int64, personID *int64, assignedDate, dueDate string) (bool, error) {
	result, err := s.db.Exec(
		`INSERT INTO assignments (chore_id, person_id, assigned_date, due_date)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (chore_id, assigned_date) DO NOTHING`,
		choreID, nullableID(personID), assignedDate, dueDate,
	)
	if err != nil {
		return false, fmt.Errorf("upsert generated assignment: %w", wrapStorage(err))
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", wrapStorage(err))
	}
	return n > 0, nil
}

// Upsert creates or updates the assignment for (chore, date) with the
// given person and due date. Once a completion exists the assignment is
// locked: its subject and dates can no longer change. The lock check
// and the write happen in one immediate transaction so a racing
// completion cannot slip between them.
func (s *AssignmentStore) Upsert(choreID int64, personID *int64, assignedDate, dueDate string) (*model.Assignment, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", wrapStorage(err))
	}
	defer tx.Rollback()

	var locked bool
	err = tx.QueryRow(
		`SELECT EXISTS (
			SELECT 1 FROM completions comp
			JOIN assignments a ON a.id = comp.assignment_id
			WHERE a.chore_id = ? AND a.assigned_date = ?
		)`,
		choreID, assignedDate,
	).Scan(&locked)
	if err != nil {
		return nil, fmt.Errorf("check completion lock: %w", wrapStorage(err))
	}
	if locked {
		return nil, chore.ErrAssignmentLocked
	}

	_, err = tx.Exec(
		`INSERT INTO assignments (chore_id, person_id, assigned_date, due_date)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (chore_id, assigned_date) DO UPDATE SET
			person_id = excluded.person_id,
			due_date = excluded.due_date`,
		choreID, nullableID(personID), assignedDate, dueDate,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, chore.ErrNotFound
		}
		return nil, fmt.Errorf("upsert assignment: %w", wrapStorage(err))
	}

	row := tx.QueryRow(
		`SELECT `+assignmentCols+` FROM assignments WHERE chore_id = ? AND assigned_date = ?`,
		choreID, assignedDate,
	)
	a, err := scanAssignment(row)
	if err != nil {
		return nil, fmt.Errorf("read upserted assignment: %w", wrapStorage(err))
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", wrapStorage(err))
	}
	return a, nil
}

// --- Completions ---

const completionCols = `id, assignment_id, completed_at, actual_minutes, notes, photo_handle`

func scanCompletion(scanner interface{ Scan(...any) error }) (*model.Completion, error) {
	var c model.Completion
	err := scanner.Scan(&c.ID, &c.AssignmentID, &c.CompletedAt, &c.ActualMinutes, &c.Notes, &c.PhotoHandle)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateCompletion records that an assignment was carried out. The
// UNIQUE constraint on assignment_id rejects a second completion; that
// conflict surfaces as ErrAlreadyCompleted.
func (s *AssignmentStore) CreateCompletion(assignmentID int64, actualMinutes int, notes, photoHandle string) (*model.Completion, error) {
	result, err := s.db.Exec(
		`INSERT INTO completions (assignment_id, actual_minutes, notes, photo_handle) VALUES (?, ?, ?, ?)`,
		assignmentID, actualMinutes, notes, photoHandle,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, chore.ErrAlreadyCompleted
		}
		if isForeignKeyViolation(err) {
			return nil, chore.ErrNotFound
		}
		return nil, fmt.Errorf("insert completion: %w", wrapStorage(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", wrapStorage(err))
	}

	row := s.db.QueryRow(`SELECT `+completionCols+` FROM completions WHERE id = ?`, id)
	c, err := scanCompletion(row)
	if err != nil {
		return nil, fmt.Errorf("read completion: %w", wrapStorage(err))
	}
	return c, nil
}

func (s *AssignmentStore) GetCompletion(id int64) (*model.Completion, error) {
	row := s.db.QueryRow(`SELECT `+completionCols+` FROM completions WHERE id = ?`, id)
	c, err := scanCompletion(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get completion: %w", wrapStorage(err))
	}
	return c, nil
}

// --- Reviews ---

const reviewCols = `id, completion_id, reviewed_by, approved, notes, reviewed_at`

func scanReview(scanner interface{ Scan(...any) error }) (*model.Review, error) {
	var r model.Review
	err := scanner.Scan(&r.ID, &r.CompletionID, &r.ReviewedBy, &r.Approved, &r.Notes, &r.ReviewedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CreateReview records a parent's verdict. The UNIQUE constraint on
// completion_id rejects a second review (ErrAlreadyReviewed).
func (s *AssignmentStore) CreateReview(completionID, reviewedBy int64, approved bool, notes string) (*model.Review, error) {
	result, err := s.db.Exec(
		`INSERT INTO reviews (completion_id, reviewed_by, approved, notes) VALUES (?, ?, ?, ?)`,
		completionID, reviewedBy, approved, notes,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, chore.ErrAlreadyReviewed
		}
		if isForeignKeyViolation(err) {
			return nil, chore.ErrNotFound
		}
		return nil, fmt.Errorf("insert review: %w", wrapStorage(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", wrapStorage(err))
	}

	row := s.db.QueryRow(`SELECT `+reviewCols+` FROM reviews WHERE id = ?`, id)
	r, err := scanReview(row)
	if err != nil {
		return nil, fmt.Errorf("read review: %w", wrapStorage(err))
	}
	return r, nil
}

// --- Queries ---

// ListForDate returns every assignment for a date joined with its
// chore, assignee and lifecycle state, ordered by due date, then room,
// then task. The ordering is stable and deterministic.
func (s *AssignmentStore) ListForDate(assignedDate string) ([]model.AssignmentDetail, error) {
	rows, err := s.db.Query(
		`SELECT a.id, a.chore_id, a.person_id, a.assigned_date, a.due_date, a.created_at,
			c.room, c.task, c.estimated_minutes,
			COALESCE(p.name, ''),
			comp.id, comp.completed_at, comp.actual_minutes, comp.notes, comp.photo_handle,
			r.id, r.reviewed_by, r.approved, r.notes, r.reviewed_at,
			COALESCE(p2.name, '')
		FROM assignments a
		JOIN chores c ON c.id = a.chore_id
		LEFT JOIN people p ON p.id = a.person_id
		LEFT JOIN completions comp ON comp.assignment_id = a.id
		LEFT JOIN reviews r ON r.completion_id = comp.id
		LEFT JOIN people p2 ON p2.id = r.reviewed_by
		WHERE a.assigned_date = ?
		ORDER BY a.due_date, c.room, c.task`,
		assignedDate,
	)
	if err != nil {
		return nil, fmt.Errorf("list assignments for date: %w", wrapStorage(err))
	}
	defer rows.Close()

	var details []model.AssignmentDetail
	for rows.Next() {
		var d model.AssignmentDetail
		var personID sql.NullInt64
		var compID, reviewID, reviewedBy sql.NullInt64
		var completedAt, reviewedAt sql.NullTime
		var actualMinutes sql.NullInt64
		var compNotes, photoHandle, reviewNotes sql.NullString
		var approved sql.NullBool

		err := rows.Scan(
			&d.ID, &d.ChoreID, &personID, &d.AssignedDate, &d.DueDate, &d.CreatedAt,
			&d.Room, &d.Task, &d.EstimatedMinutes,
			&d.PersonName,
			&compID, &completedAt, &actualMinutes, &compNotes, &photoHandle,
			&reviewID, &reviewedBy, &approved, &reviewNotes, &reviewedAt,
			&d.ReviewerName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan assignment detail: %w", wrapStorage(err))
		}

		if personID.Valid {
			d.PersonID = &personID.Int64
		}

		d.Status = model.StatusPending
		if compID.Valid {
			d.Status = model.StatusCompleted
			d.Completion = &model.Completion{
				ID:            compID.Int64,
				AssignmentID:  d.ID,
				CompletedAt:   completedAt.Time,
				ActualMinutes: int(actualMinutes.Int64),
				Notes:         compNotes.String,
				PhotoHandle:   photoHandle.String,
			}
		}
		if reviewID.Valid {
			d.Status = model.StatusReviewed
			d.Review = &model.Review{
				ID:           reviewID.Int64,
				CompletionID: compID.Int64,
				ReviewedBy:   reviewedBy.Int64,
				Approved:     approved.Bool,
				Notes:        reviewNotes.String,
				ReviewedAt:   reviewedAt.Time,
			}
		}

		details = append(details, d)
	}
	return details, rows.Err()
}

// PendingReview returns completions that have no review yet, most
// recent first. Empty start/end leave that side of the assigned-date
// range unbounded; bounds are inclusive.
func (s *AssignmentStore) PendingReview(start, end string) ([]model.PendingReview, error) {
	query := `SELECT comp.id, comp.assignment_id, comp.completed_at, comp.actual_minutes, comp.notes, comp.photo_handle,
			a.assigned_date, c.room, c.task, a.person_id, COALESCE(p.name, '')
		FROM completions comp
		JOIN assignments a ON a.id = comp.assignment_id
		JOIN chores c ON c.id = a.chore_id
		LEFT JOIN people p ON p.id = a.person_id
		LEFT JOIN reviews r ON r.completion_id = comp.id
		WHERE r.id IS NULL`
	var args []any
	if start != "" {
		query += ` AND a.assigned_date >= ?`
		args = append(args, start)
	}
	if end != "" {
		query += ` AND a.assigned_date <= ?`
		args = append(args, end)
	}
	query += ` ORDER BY comp.completed_at DESC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pending review: %w", wrapStorage(err))
	}
	defer rows.Close()

	var pending []model.PendingReview
	for rows.Next() {
		var pr model.PendingReview
		var personID sql.NullInt64
		err := rows.Scan(
			&pr.ID, &pr.AssignmentID, &pr.CompletedAt, &pr.ActualMinutes, &pr.Notes, &pr.PhotoHandle,
			&pr.AssignedDate, &pr.Room, &pr.Task, &personID, &pr.PersonName,
		)
		if err != nil {
			return nil, fmt.Errorf("scan pending review: %w", wrapStorage(err))
		}
		if personID.Valid {
			pr.PersonID = &personID.Int64
		}
		pending = append(pending, pr)
	}
	return pending, rows.Err()
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}
