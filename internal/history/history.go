// Package history keeps a SQLite log of applied dock placements.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"tickerbar/internal/dock"
)

const schema = `
CREATE TABLE IF NOT EXISTS placements (
	seq        INTEGER PRIMARY KEY AUTOINCREMENT,
	id         TEXT NOT NULL UNIQUE,
	session_id TEXT NOT NULL,
	applied_at INTEGER NOT NULL,
	position   TEXT NOT NULL,
	bar_size   INTEGER NOT NULL,
	x          INTEGER NOT NULL,
	y          INTEGER NOT NULL,
	width      INTEGER NOT NULL,
	height     INTEGER NOT NULL,
	source     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_placements_session ON placements(session_id);
`

// Entry is one recorded placement
type Entry struct {
	ID        string
	SessionID string
	AppliedAt time.Time
	Settings  dock.Settings
	Rect      dock.Rect
	Source    dock.Source
}

// Store writes placements to a SQLite database, keeping at most keep rows
type Store struct {
	db      *sql.DB
	keep    int
	session string
	now     func() time.Time
}

// Open creates or opens the database at path. keep <= 0 disables trimming.
func Open(path string, keep int) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=5000", path))
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping history database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Store{
		db:      db,
		keep:    keep,
		session: uuid.New().String(),
		now:     time.Now,
	}, nil
}

// SessionID identifies the placements written by this process
func (s *Store) SessionID() string {
	return s.session
}

// Record stores p and trims the table to the newest keep rows
func (s *Store) Record(ctx context.Context, p dock.Placement) (Entry, error) {
	e := Entry{
		ID:        uuid.New().String(),
		SessionID: s.session,
		AppliedAt: s.now(),
		Settings:  p.Settings,
		Rect:      p.Rect,
		Source:    p.Source,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO placements (id, session_id, applied_at, position, bar_size, x, y, width, height, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.AppliedAt.UnixNano(),
		string(e.Settings.Position), e.Settings.BarSize,
		e.Rect.X, e.Rect.Y, e.Rect.Width, e.Rect.Height,
		string(e.Source),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to record placement: %w", err)
	}

	if s.keep > 0 {
		_, err = s.db.ExecContext(ctx, `
			DELETE FROM placements
			WHERE seq NOT IN (SELECT seq FROM placements ORDER BY seq DESC LIMIT ?)`, s.keep)
		if err != nil {
			return e, fmt.Errorf("failed to trim history: %w", err)
		}
	}
	return e, nil
}

// Recent returns up to n entries, newest first
func (s *Store) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, session_id, applied_at, position, bar_size, x, y, width, height, source
		FROM placements
		ORDER BY seq DESC
		LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e         Entry
			appliedAt int64
			position  string
			source    string
		)
		if err := rows.Scan(&e.ID, &e.SessionID, &appliedAt, &position, &e.Settings.BarSize,
			&e.Rect.X, &e.Rect.Y, &e.Rect.Width, &e.Rect.Height, &source); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.AppliedAt = time.Unix(0, appliedAt)
		e.Settings.Position = dock.Edge(position)
		e.Source = dock.Source(source)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Count returns the number of stored placements
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM placements`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return n, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close history database: %w", err)
	}
	return nil
}
