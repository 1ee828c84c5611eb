package events

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
	"github.com/roomguard/roomguard/internal/domain/access"
)

const (
	// dirPermissions is the permission mode for the database directory.
	dirPermissions = 0o750

	// busyTimeoutMillis is how long SQLite waits on a locked database
	// before failing, preventing spurious "database is locked" errors
	// when the checker reads while the controller writes.
	busyTimeoutMillis = 5000
)

// schema creates the append-only audit table.
const schema = `
CREATE TABLE IF NOT EXISTS events (
	id     INTEGER PRIMARY KEY AUTOINCREMENT,
	at     TIMESTAMP NOT NULL,
	kind   TEXT NOT NULL,
	uid    TEXT,
	detail TEXT
);
CREATE INDEX IF NOT EXISTS idx_events_kind_at ON events (kind, at);
`

// ErrNoHeartbeat is returned when the log contains no heartbeat yet.
var ErrNoHeartbeat = errors.New("no heartbeat recorded")

// Store is a SQLite-backed append-only audit log.
type Store struct {
	db *sql.DB
}

// Open creates the database directory if needed, opens the SQLite file
// in WAL mode and ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=%d", path, busyTimeoutMillis)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer (the control loop); a second connection serves the checker.
	db.SetMaxOpenConns(2)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Append writes one event to the log.
func (s *Store) Append(ctx context.Context, e access.Event) error {
	var uid any
	if e.UID != nil {
		uid = e.UID.String()
	}

	var detail any
	if e.Detail != "" {
		detail = e.Detail
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (at, kind, uid, detail) VALUES (?, ?, ?, ?)`,
		e.At.UTC(), string(e.Kind), uid, detail)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	return nil
}

// LastHeartbeat returns the timestamp of the newest heartbeat event.
func (s *Store) LastHeartbeat(ctx context.Context) (time.Time, error) {
	var at time.Time

	err := s.db.QueryRowContext(ctx,
		`SELECT at FROM events WHERE kind = ? ORDER BY at DESC LIMIT 1`,
		string(access.EventHeartbeat)).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNoHeartbeat
	}

	if err != nil {
		return time.Time{}, fmt.Errorf("query last heartbeat: %w", err)
	}

	return at, nil
}

// Recent returns up to limit newest events, newest first. Used by the
// checker's verbose mode and by operators poking at an incident.
func (s *Store) Recent(ctx context.Context, limit int) ([]access.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT at, kind, uid, detail FROM events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent events: %w", err)
	}
	defer rows.Close()

	var out []access.Event

	for rows.Next() {
		var (
			e      access.Event
			uid    sql.NullString
			detail sql.NullString
			kind   string
		)

		if err := rows.Scan(&e.At, &kind, &uid, &detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		e.Kind = access.EventKind(kind)
		e.Detail = detail.String

		if uid.Valid {
			parsed, err := access.ParseUID(uid.String)
			if err != nil {
				return nil, fmt.Errorf("parse stored uid: %w", err)
			}

			e.UID = &parsed
		}

		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return out, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
