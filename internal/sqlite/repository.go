// Package sqlite stores crawl cursors in a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS cursors (
	listing      TEXT PRIMARY KEY,
	cursor_value TEXT NOT NULL,
	updated_at   TIMESTAMP NOT NULL
);`

// Repository implements domain.CursorRepository using SQLite.
type Repository struct {
	db *sql.DB
}

// NewRepository opens the database at path, creating the file and schema if
// needed. The caller should call Close when the repository is no longer
// needed.
func NewRepository(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY between pooled connections
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA busy_timeout = 5000`); err != nil {
		db.Close()
		return nil, fmt.Errorf("configure database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// Close closes the underlying database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// GetCursor retrieves the saved cursor for a listing, or "" if none.
func (r *Repository) GetCursor(ctx context.Context, listing string) (string, error) {
	var cursor string
	err := r.db.QueryRowContext(ctx,
		`SELECT cursor_value FROM cursors WHERE listing = ?`, listing,
	).Scan(&cursor)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query cursor %s: %w", listing, err)
	}
	return cursor, nil
}

// UpdateCursor upserts the cursor for a listing.
func (r *Repository) UpdateCursor(ctx context.Context, listing, cursor string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO cursors (listing, cursor_value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (listing) DO UPDATE SET cursor_value = excluded.cursor_value, updated_at = excluded.updated_at`,
		listing, cursor, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert cursor %s: %w", listing, err)
	}
	return nil
}

// DeleteCursor removes the cursor for a listing. Deleting a missing cursor
// is not an error.
func (r *Repository) DeleteCursor(ctx context.Context, listing string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cursors WHERE listing = ?`, listing); err != nil {
		return fmt.Errorf("delete cursor %s: %w", listing, err)
	}
	return nil
}
