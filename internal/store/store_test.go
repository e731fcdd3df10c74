package store

import (
	"database/sql"
	"testing"

	"github.com/petravell/choreboard/internal/database"
	"github.com/petravell/choreboard/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	// One connection keeps the in-memory database shared across queries.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func mustCreatePerson(t *testing.T, ps *PersonStore, name string, role model.Role) *model.Person {
	t.Helper()
	p, err := ps.Create(name, role)
	if err != nil {
		t.Fatalf("create person %s: %v", name, err)
	}
	return p
}

func mustCreateChore(t *testing.T, cs *ChoreStore, room, task string, minutes int, rule string) *model.Chore {
	t.Helper()
	c, err := cs.Create(room, task, minutes, rule)
	if err != nil {
		t.Fatalf("create chore %s/%s: %v", room, task, err)
	}
	return c
}
