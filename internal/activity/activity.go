// Package activity keeps an audit trail of contact submissions, uploads and
// logins in SQLite.
package activity

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

// Kind classifies an event
type Kind string

const (
	KindContact Kind = "contact"
	KindUpload  Kind = "upload"
	KindLogin   Kind = "login"
)

// Event is one audit entry
type Event struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Kind   Kind      `json:"kind"`
	Status string    `json:"status"`
	Detail string    `json:"detail"`
}

// Recorder is what handlers depend on
type Recorder interface {
	Record(ctx context.Context, ev Event) error
	Recent(ctx context.Context, limit int) ([]Event, error)
}

const schema = `CREATE TABLE IF NOT EXISTS events (
	id     TEXT PRIMARY KEY,
	ts     INTEGER NOT NULL,
	kind   TEXT NOT NULL,
	status TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS events_ts ON events (ts);`

// Log is a SQLite-backed Recorder
type Log struct {
	db      *sql.DB
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// Open opens (creating if needed) the activity database at path
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open activity log: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create activity schema: %w", err)
	}

	return &Log{
		db:      db,
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}, nil
}

// Record stores ev, assigning an id and time when they are unset
func (l *Log) Record(ctx context.Context, ev Event) error {
	l.mu.Lock()
	if ev.Time.IsZero() {
		ev.Time = l.now()
	}
	if ev.ID == "" {
		ev.ID = ulid.MustNew(ulid.Timestamp(ev.Time), l.entropy).String()
	}
	l.mu.Unlock()

	_, err := l.db.ExecContext(ctx,
		"INSERT INTO events (id, ts, kind, status, detail) VALUES (?, ?, ?, ?, ?)",
		ev.ID, ev.Time.UnixMilli(), string(ev.Kind), ev.Status, ev.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to record %s event: %w", ev.Kind, err)
	}
	return nil
}

// Recent returns up to limit events, newest first
func (l *Log) Recent(ctx context.Context, limit int) ([]Event, error) {
	rows, err := l.db.QueryContext(ctx,
		"SELECT id, ts, kind, status, detail FROM events ORDER BY ts DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	events := []Event{}
	for rows.Next() {
		var ev Event
		var ts int64
		var kind string
		if err := rows.Scan(&ev.ID, &ts, &kind, &ev.Status, &ev.Detail); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		ev.Time = time.UnixMilli(ts).UTC()
		ev.Kind = Kind(kind)
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Close closes the database
func (l *Log) Close() error {
	return l.db.Close()
}

// Nop discards events; used when the database is unavailable
type Nop struct{}

func (Nop) Record(context.Context, Event) error { return nil }

func (Nop) Recent(context.Context, int) ([]Event, error) { return []Event{}, nil }
