package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = fmt.Errorf("record not found")

// ErrConflict is returned when a unique constraint is violated.
var ErrConflict = fmt.Errorf("unique constraint violation")

// ErrReferential is returned when a write is blocked by dependent rows.
var ErrReferential = fmt.Errorf("referential constraint violation")

// ErrUnavailable is returned when the database cannot be reached or stays
// locked. Callers treat it as unrecoverable.
var ErrUnavailable = fmt.Errorf("store unavailable")

// classify wraps err with the sentinel matching its cause.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if errors.Is(err, sql.ErrConnDone) || strings.Contains(err.Error(), "database is closed") {
		return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
	}

	var se *sqlite.Error
	if errors.As(err, &se) {
		code := se.Code()
		switch code & 0xff {
		case sqlite3.SQLITE_CONSTRAINT:
			if code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
				return fmt.Errorf("%s: %w: %v", op, ErrReferential, err)
			}
			if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
				return fmt.Errorf("%s: %w: %v", op, ErrConflict, err)
			}
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_CANTOPEN:
			return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
