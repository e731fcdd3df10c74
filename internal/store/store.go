// Package store persists the five entity tables behind the chore core.
// Uniqueness invariants (one assignment per chore/date, one completion
// per assignment, one review per completion) are enforced by SQLite
// constraints and surfaced as typed conflicts, never by check-then-act.
package store

import (
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/petravell/choreboard/internal/chore"

	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		return se.Code() == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY
	}
	return false
}

// wrapStorage marks connectivity-level failures as storage outages so
// callers can tell them apart from domain errors. Everything else
// passes through unchanged.
func wrapStorage(err error) error {
	if errors.Is(err, driver.ErrBadConn) {
		return fmt.Errorf("%w: %v", chore.ErrStorageUnavailable, err)
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_FULL:
			return fmt.Errorf("%w: %v", chore.ErrStorageUnavailable, err)
		}
	}
	return err
}
