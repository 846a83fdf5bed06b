// Package store keeps named sessions in a SQLite database.
//
// Sessions are stored as share blobs (see session.Encode), so a stored
// session round-trips exactly like a shared link.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gogpu/graphcalc/internal/logging"
	"github.com/gogpu/graphcalc/session"
)

// Errors.
var (
	ErrNotFound = errors.New("store: session not found")
	ErrName     = errors.New("store: empty session name")
)

const schema = `CREATE TABLE IF NOT EXISTS sessions (
	name TEXT PRIMARY KEY,
	title TEXT NOT NULL DEFAULT '',
	lines INTEGER NOT NULL DEFAULT 0,
	blob TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
)`

// Entry describes one saved session.
type Entry struct {
	Name    string    `json:"name"`
	Title   string    `json:"title"`
	Lines   int       `json:"lines"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
}

// Store is a session database. It is safe for concurrent use.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path. Use ":memory:" for a
// throwaway store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases shared and serializes
	// writers.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: connect %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	logging.Logger().Debug("store: opened", "path", path)
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrName
	}
	return name, nil
}

// Save stores sess under name, replacing any session of that name.
func (s *Store) Save(ctx context.Context, name string, sess *session.Session) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	blob, err := session.Encode(sess)
	if err != nil {
		return err
	}
	now := s.now().UnixMilli()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (name, title, lines, blob, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			title = excluded.title,
			lines = excluded.lines,
			blob = excluded.blob,
			updated_at = excluded.updated_at`,
		name, sess.Title, len(sess.Expressions), blob, now, now)
	if err != nil {
		return fmt.Errorf("store: save %q: %w", name, err)
	}
	return nil
}

// Load returns the session saved under name. A stored blob that no longer
// decodes cleanly is repaired with defaults and logged.
func (s *Store) Load(ctx context.Context, name string) (*session.Session, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	var blob string
	err = s.db.QueryRowContext(ctx, `SELECT blob FROM sessions WHERE name = ?`, name).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("store: load %q: %w", name, err)
	}
	sess, err := session.DecodeStrict(blob)
	if err != nil {
		logging.Logger().Warn("store: stored session repaired", "name", name, "err", err)
	}
	return sess, nil
}

// List returns every saved session, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, title, lines, created_at, updated_at
		FROM sessions ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var created, updated int64
		if err := rows.Scan(&e.Name, &e.Title, &e.Lines, &created, &updated); err != nil {
			return nil, fmt.Errorf("store: list: %w", err)
		}
		e.Created, e.Updated = time.UnixMilli(created), time.UnixMilli(updated)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	return out, nil
}

// Delete removes the session saved under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	name, err := cleanName(name)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("store: delete %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return nil
}
