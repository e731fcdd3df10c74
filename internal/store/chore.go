package store

import (
	"database/sql"
	"fmt"

	"github.com/petravell/choreboard/internal/chore"
	"github.com/petravell/choreboard/internal/model"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

const choreCols = `id, room, task, estimated_minutes, recurrence_rule, created_at, updated_at`

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	err := scanner.Scan(
		&c.ID, &c.Room, &c.Task, &c.EstimatedMinutes,
		&c.RecurrenceRule, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *ChoreStore) Create(room, task string, estimatedMinutes int, recurrenceRule string) (*model.Chore, error) {
	result, err := s.db.Exec(
		`INSERT INTO chores (room, task, estimated_minutes, recurrence_rule) VALUES (?, ?, ?, ?)`,
		room, task, estimatedMinutes, recurrenceRule,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", wrapStorage(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", wrapStorage(err))
	}
	return s.GetByID(id)
}

func (s *ChoreStore) GetByID(id int64) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", wrapStorage(err))
	}
	return c, nil
}

func (s *ChoreStore) List() ([]model.Chore, error) {
	rows, err := s.db.Query(`SELECT ` + choreCols + ` FROM chores ORDER BY room, task`)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", wrapStorage(err))
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", wrapStorage(err))
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

// ListRecurring returns only chores that carry a recurrence rule, in
// the catalog's room/task order. This is the generator's input set.
func (s *ChoreStore) ListRecurring() ([]model.Chore, error) {
	rows, err := s.db.Query(`SELECT ` + choreCols + ` FROM chores WHERE recurrence_rule != '' ORDER BY room, task`)
	if err != nil {
		return nil, fmt.Errorf("list recurring chores: %w", wrapStorage(err))
	}
	defer rows.Close()

	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", wrapStorage(err))
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

func (s *ChoreStore) Update(id int64, room, task string, estimatedMinutes int, recurrenceRule string) (*model.Chore, error) {
	_, err := s.db.Exec(
		`UPDATE chores SET room = ?, task = ?, estimated_minutes = ?, recurrence_rule = ?, updated_at = datetime('now') WHERE id = ?`,
		room, task, estimatedMinutes, recurrenceRule, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update chore: %w", wrapStorage(err))
	}
	return s.GetByID(id)
}

// UpdateRecurrence replaces only the chore's recurrence rule text.
func (s *ChoreStore) UpdateRecurrence(id int64, recurrenceRule string) (*model.Chore, error) {
	_, err := s.db.Exec(
		`UPDATE chores SET recurrence_rule = ?, updated_at = datetime('now') WHERE id = ?`,
		recurrenceRule, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update recurrence: %w", wrapStorage(err))
	}
	return s.GetByID(id)
}

// Delete removes a chore from the catalog. The schema restricts the
// delete while assignments still reference the chore, so historical
// completion records can never be cascaded away.
func (s *ChoreStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM chores WHERE id = ?`, id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("%w: chore %d", chore.ErrChoreInUse, id)
	}
	if err != nil {
		return fmt.Errorf("delete chore: %w", wrapStorage(err))
	}
	return nil
}
