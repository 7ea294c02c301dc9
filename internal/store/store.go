// Package store provides the SQLite-backed repository for equipment, bouts and
// the fencer profile.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/balestra/internal/apperr"
	"github.com/starford/balestra/internal/models"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Repository is the collection abstraction the service layer works against.
type Repository interface {
	ListEquipment(ctx context.Context) ([]models.Equipment, error)
	GetEquipment(ctx context.Context, id string) (models.Equipment, error)
	CreateEquipment(ctx context.Context, e models.Equipment, exclusive bool) error
	UpdateEquipment(ctx context.Context, e models.Equipment) error
	DeleteEquipment(ctx context.Context, id string) error
	SetEquipped(ctx context.Context, id string, equipped, exclusive bool, now time.Time) error
	AddReminder(ctx context.Context, r models.MaintenanceReminder, now time.Time) error
	CompleteReminder(ctx context.Context, equipmentID, reminderID string, now time.Time) error

	ListBouts(ctx context.Context) ([]models.Bout, error)
	GetBout(ctx context.Context, id string) (models.Bout, error)
	CreateBout(ctx context.Context, b models.Bout) error
	DeleteBout(ctx context.Context, id string) error

	GetProfile(ctx context.Context) (models.Profile, error)
	PutProfile(ctx context.Context, p models.Profile) error

	Snapshot(ctx context.Context) (models.Snapshot, error)
	ReplaceAll(ctx context.Context, snap models.Snapshot) error

	Close() error
}

var _ Repository = (*DB)(nil)

// DB is the SQLite implementation of Repository.
//
// The pool holds a single connection: an in-memory database lives only as
// long as its connection, and SQLite serializes writers anyway. Methods must
// therefore never run a query while another one's rows are still open.
type DB struct {
	conn *sql.DB
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens (or creates) the database at path and applies pending
// migrations. Use MemoryDSN for a throwaway database.
func Open(ctx context.Context, path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)
	conn.SetConnMaxIdleTime(0)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if err := migrate(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}
	return &DB{conn: conn}, nil
}

// Ping reports whether the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func dsn(path string) string {
	params := "_busy_timeout=5000&_foreign_keys=on"
	if path != MemoryDSN {
		params = "_journal_mode=WAL&" + params
	}
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return path + "?" + params
}

// withTx runs fn inside a transaction, committing when fn succeeds.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit: %w", err)
	}
	return nil
}

// mapErr translates driver errors into apperr sentinels.
func mapErr(err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.ExtendedCode {
		case sqlite3.ErrConstraintPrimaryKey, sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%w: %v", apperr.ErrAlreadyExists, err)
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintForeignKey, sqlite3.ErrConstraintNotNull:
			return fmt.Errorf("%w: %v", apperr.ErrConflict, err)
		}
	}
	return err
}

// affected returns apperr.ErrNotFound when res touched no rows.
func affected(res sql.Result, what, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("store: %s %q: %w", what, id, apperr.ErrNotFound)
	}
	return nil
}

func utc(t time.Time) time.Time { return t.UTC() }
