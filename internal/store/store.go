// Package store persists workers and items. Every exported operation runs as
// a single unit of work: one transaction that is committed on success and
// rolled back on any failure.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/erazemk/dostava/internal/db"
)

// ErrNotFound is matched by every error reporting a missing record.
var ErrNotFound = errors.New("not found")

// ErrBusy is matched by errors caused by the database being locked by
// another writer.
var ErrBusy = errors.New("database busy")

// NotFoundError reports a missing worker or item.
type NotFoundError struct {
	Kind string
	ID   int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// Is enables errors.Is matching against ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Store is the worker and item repository. It is safe for concurrent use;
// concurrent writes to the same record are not coordinated (last write wins).
type Store struct {
	sqlDB  *sql.DB
	driver string
}

// New returns a Store over an opened database with the schema in place.
func New(sqlDB *sql.DB, driver string) *Store {
	return &Store{sqlDB: sqlDB, driver: driver}
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", classify(err))
	}
	return nil
}

// q adapts a query written with ? placeholders to the store's driver.
func (s *Store) q(query string) string {
	return db.Rebind(s.driver, query)
}

// withTx runs fn inside one transaction. The deferred rollback releases the
// transaction on every path; after a successful commit it is a no-op.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", classify(err))
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return classify(err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", classify(err))
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// classify tags lock contention errors with ErrBusy.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrBusy) {
		return err
	}
	if isBusy(err) {
		return fmt.Errorf("%w: %w", ErrBusy, err)
	}
	return err
}

func isBusy(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3lib.SQLITE_BUSY, sqlite3lib.SQLITE_LOCKED:
			return true
		}
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03": // serialization_failure, deadlock_detected, lock_not_available
			return true
		}
	}
	return false
}
