package store

import (
	"database/sql"
	"fmt"

	"github.com/petravell/choreboard/internal/chore"
	"github.com/petravell/choreboard/internal/model"
)

type PersonStore struct {
	db *sql.DB
}

func NewPersonStore(db *sql.DB) *PersonStore {
	return &PersonStore{db: db}
}

const personCols = `id, name, role, pin IS NOT NULL, created_at, updated_at`

func scanPerson(scanner interface{ Scan(...any) error }) (*model.Person, error) {
	var p model.Person
	err := scanner.Scan(&p.ID, &p.Name, &p.Role, &p.HasPIN, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PersonStore) Create(name string, role model.Role) (*model.Person, error) {
	result, err := s.db.Exec(
		`INSERT INTO people (name, role) VALUES (?, ?)`,
		name, role,
	)
	if err != nil {
		return nil, fmt.Errorf("insert person: %w", wrapStorage(err))
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", wrapStorage(err))
	}
	return s.GetByID(id)
}

func (s *PersonStore) List() ([]model.Person, error) {
	rows, err := s.db.Query(`SELECT ` + personCols + ` FROM people ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", wrapStorage(err))
	}
	defer rows.Close()

	var people []model.Person
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", wrapStorage(err))
		}
		people = append(people, *p)
	}
	return people, rows.Err()
}

func (s *PersonStore) GetByID(id int64) (*model.Person, error) {
	row := s.db.QueryRow(`SELECT `+personCols+` FROM people WHERE id = ?`, id)
	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", wrapStorage(err))
	}
	return p, nil
}

// UpdateName renames a person. Identity and role are immutable once
// created; the name is the only mutable field.
func (s *PersonStore) UpdateName(id int64, name string) (*model.Person, error) {
	_, err := s.db.Exec(
		`UPDATE people SET name = ?, updated_at = datetime('now') WHERE id = ?`,
		name, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update person: %w", wrapStorage(err))
	}
	return s.GetByID(id)
}

func (s *PersonStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM people WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete person: %w", wrapStorage(err))
	}
	return nil
}

func (s *PersonStore) SetPIN(id int64, hashedPIN string) error {
	_, err := s.db.Exec(`UPDATE people SET pin = ?, updated_at = datetime('now') WHERE id = ?`, hashedPIN, id)
	if err != nil {
		return fmt.Errorf("set pin: %w", wrapStorage(err))
	}
	return nil
}

func (s *PersonStore) ClearPIN(id int64) error {
	_, err := s.db.Exec(`UPDATE people SET pin = NULL, updated_at = datetime('now') WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("clear pin: %w", wrapStorage(err))
	}
	return nil
}

func (s *PersonStore) GetPINHash(id int64) (string, error) {
	var pin sql.NullString
	err := s.db.QueryRow(`SELECT pin FROM people WHERE id = ?`, id).Scan(&pin)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: person %d", chore.ErrNotFound, id)
	}
	if err != nil {
		return "", fmt.Errorf("query pin: %w", wrapStorage(err))
	}
	if !pin.Valid {
		return "", nil
	}
	return pin.String, nil
}
