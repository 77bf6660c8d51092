// Package journal keeps a local SQLite log of tool invocations: which tool
// ran, with what arguments, whether it failed, and how long it took.
//
// The journal is an optional subsystem. The server keeps working when it
// cannot be opened, and a failed write is logged by the caller, never
// reported to the host.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// now is replaced in tests.
var now = func() time.Time { return time.Now().UTC() }

// Entry is one recorded tool invocation.
type Entry struct {
	CallID     string `json:"call_id"`
	Tool       string `json:"tool"`
	Arguments  string `json:"arguments"`
	IsError    bool   `json:"is_error"`
	ResultLen  int    `json:"result_len"`
	DurationMS int64  `json:"duration_ms"`
	CreatedAt  string `json:"created_at"`
}

// ToolCount is the number of recorded calls for one tool.
type ToolCount struct {
	Tool   string `json:"tool"`
	Calls  int    `json:"calls"`
	Errors int    `json:"errors"`
}

// Store is a journal backed by a single SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("journal: create data dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("journal: pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("journal: migration: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS invocations (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			call_id     TEXT    NOT NULL UNIQUE,
			tool        TEXT    NOT NULL,
			arguments   TEXT    NOT NULL DEFAULT '{}',
			is_error    INTEGER NOT NULL DEFAULT 0,
			result_len  INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at  TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_inv_tool    ON invocations(tool);
		CREATE INDEX IF NOT EXISTS idx_inv_created ON invocations(created_at DESC);
	`)
	return err
}

// Record appends e. A missing CallID is filled with a new UUID and a
// missing CreatedAt with the current time. The stored entry is returned.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.CallID == "" {
		e.CallID = uuid.NewString()
	}
	if e.CreatedAt == "" {
		e.CreatedAt = now().Format(time.RFC3339Nano)
	}
	if e.Arguments == "" {
		e.Arguments = "{}"
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (call_id, tool, arguments, is_error, result_len, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.CallID, e.Tool, e.Arguments, e.IsError, e.ResultLen, e.DurationMS, e.CreatedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("journal: record %s: %w", e.Tool, err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT call_id, tool, arguments, is_error, result_len, duration_ms, created_at
		 FROM invocations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: query recent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.CallID, &e.Tool, &e.Arguments, &e.IsError, &e.ResultLen, &e.DurationMS, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Counts returns per-tool call and error totals, ordered by tool name.
func (s *Store) Counts(ctx context.Context) ([]ToolCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tool, COUNT(*), COALESCE(SUM(is_error), 0)
		 FROM invocations GROUP BY tool ORDER BY tool`)
	if err != nil {
		return nil, fmt.Errorf("journal: query counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var counts []ToolCount
	for rows.Next() {
		var c ToolCount
		if err := rows.Scan(&c.Tool, &c.Calls, &c.Errors); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
