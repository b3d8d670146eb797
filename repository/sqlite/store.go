package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	pkgerrors "github.com/pkg/errors"

	"medianote/errors"
	"medianote/models"
)

const schema = `
CREATE TABLE IF NOT EXISTS plays (
    id TEXT PRIMARY KEY,
    path TEXT NOT NULL,
    title TEXT,
    played_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS favorites (
    path TEXT PRIMARY KEY,
    title TEXT,
    position REAL NOT NULL DEFAULT 0
);

-- Indexes
CREATE INDEX IF NOT EXISTS idx_plays_played_at ON plays(played_at);
`

const (
	maxRetries = 3
	retryDelay = time.Second
)

// Store is the sqlite-backed history and favorites store.
type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	const op = "sqlite.New"

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.Internal(op, err, "failed to create database directory")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Internal(op, err, "failed to open database")
	}

	if err := configurePragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := execSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func configurePragmas(db *sql.DB) error {
	const op = "sqlite.configurePragmas"

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errors.Internal(op, err, fmt.Sprintf("failed to set pragma: %s", pragma))
		}
	}
	return nil
}

func execSchema(db *sql.DB) error {
	const op = "sqlite.execSchema"

	tx, err := db.Begin()
	if err != nil {
		return errors.Internal(op, err, "failed to begin transaction")
	}
	defer tx.Rollback()

	for _, stmt := range strings.Split(schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return errors.Internal(op, err, fmt.Sprintf("failed to execute schema statement: %s", stmt))
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Internal(op, err, "failed to commit schema transaction")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isLockError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "database table is locked")
}

// withRetry re-runs fn on sqlite lock contention. This is storage
// plumbing, not an operation retry: user-facing failures still surface
// immediately.
func withRetry(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		select {
		case <-ctx.Done():
			return errors.Internal(op, ctx.Err(), "context cancelled")
		default:
		}

		if err := fn(); err != nil {
			if !isLockError(err) {
				return err
			}
			lastErr = err
			time.Sleep(retryDelay * time.Duration(i+1))
			continue
		}
		return nil
	}
	return errors.Internal(op, lastErr, "max retries exceeded")
}

func (s *Store) RecordPlay(ctx context.Context, path, title string) error {
	const op = "SQLiteStore.RecordPlay"

	record := models.PlayRecord{
		ID:       uuid.New().String(),
		Path:     path,
		Title:    title,
		PlayedAt: time.Now(),
	}

	return withRetry(ctx, op, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO plays (id, path, title, played_at) VALUES (?, ?, ?, ?)`,
			record.ID, record.Path, record.Title, record.PlayedAt,
		)
		if err != nil && !isLockError(err) {
			return errors.Internal(op, pkgerrors.Wrap(err, "insert play"), "failed to record play")
		}
		return err
	})
}

func (s *Store) RecentPlays(ctx context.Context, limit int) ([]models.PlayRecord, error) {
	const op = "SQLiteStore.RecentPlays"

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, title, played_at FROM plays ORDER BY played_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, errors.Internal(op, pkgerrors.Wrap(err, "query plays"), "failed to load play history")
	}
	defer rows.Close()

	var records []models.PlayRecord
	for rows.Next() {
		var record models.PlayRecord
		var title sql.NullString
		if err := rows.Scan(&record.ID, &record.Path, &title, &record.PlayedAt); err != nil {
			return nil, errors.Internal(op, err, "failed to scan play record")
		}
		record.Title = title.String
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal(op, err, "failed to read play history")
	}
	return records, nil
}

func (s *Store) AddFavorite(ctx context.Context, favorite models.Favorite) error {
	const op = "SQLiteStore.AddFavorite"

	return withRetry(ctx, op, func() error {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO favorites (path, title, position) VALUES (?, ?, ?)
			 ON CONFLICT(path) DO UPDATE SET title = excluded.title, position = excluded.position`,
			favorite.Path, favorite.Title, favorite.Position,
		)
		if err != nil && !isLockError(err) {
			return errors.Internal(op, pkgerrors.Wrap(err, "upsert favorite"), "failed to save favorite")
		}
		return err
	})
}

func (s *Store) RemoveFavorite(ctx context.Context, path string) error {
	const op = "SQLiteStore.RemoveFavorite"

	return withRetry(ctx, op, func() error {
		_, err := s.db.ExecContext(ctx, `DELETE FROM favorites WHERE path = ?`, path)
		if err != nil && !isLockError(err) {
			return errors.Internal(op, err, "failed to remove favorite")
		}
		return err
	})
}

func (s *Store) Favorites(ctx context.Context) ([]models.Favorite, error) {
	const op = "SQLiteStore.Favorites"

	rows, err := s.db.QueryContext(ctx,
		`SELECT path, title, position FROM favorites ORDER BY path`,
	)
	if err != nil {
		return nil, errors.Internal(op, pkgerrors.Wrap(err, "query favorites"), "failed to load favorites")
	}
	defer rows.Close()

	var favorites []models.Favorite
	for rows.Next() {
		var favorite models.Favorite
		var title sql.NullString
		if err := rows.Scan(&favorite.Path, &title, &favorite.Position); err != nil {
			return nil, errors.Internal(op, err, "failed to scan favorite")
		}
		favorite.Title = title.String
		favorites = append(favorites, favorite)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal(op, err, "failed to read favorites")
	}
	return favorites, nil
}
