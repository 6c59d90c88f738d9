package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS documents (
	name       TEXT PRIMARY KEY,
	content    TEXT NOT NULL,
	updated_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS session_state (
	id   INTEGER PRIMARY KEY CHECK (id = 1),
	data TEXT NOT NULL
);`

// SQLiteStore keeps documents and the session state in a SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at path.
func NewSQLiteStore(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One writer keeps the pure-Go driver free of SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Get(ctx context.Context, name string) (*DocumentInfo, error) {
	var (
		content string
		updated int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT content, updated_at FROM documents WHERE name = ?`, name,
	).Scan(&content, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("document %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", name, err)
	}
	return &DocumentInfo{Name: name, Content: content, UpdatedAt: time.Unix(0, updated)}, nil
}

func (s *SQLiteStore) Put(ctx context.Context, name, content string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (name, content, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET content = excluded.content, updated_at = excluded.updated_at`,
		name, content, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("put %q: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, content, updated_at FROM documents ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var result []DocumentInfo
	for rows.Next() {
		var (
			info    DocumentInfo
			updated int64
		)
		if err := rows.Scan(&info.Name, &info.Content, &updated); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		info.UpdatedAt = time.Unix(0, updated)
		result = append(result, info)
	}
	return result, rows.Err()
}

func (s *SQLiteStore) LoadState(ctx context.Context) (*SessionState, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM session_state WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session state: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session state: %w", err)
	}
	var st SessionState
	if err := yaml.Unmarshal([]byte(data), &st); err != nil {
		return nil, fmt.Errorf("decode session state: %w", err)
	}
	return &st, nil
}

func (s *SQLiteStore) SaveState(ctx context.Context, state SessionState) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode session state: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO session_state (id, data) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data`, string(data))
	if err != nil {
		return fmt.Errorf("save session state: %w", err)
	}
	return nil
}
