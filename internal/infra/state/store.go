// Package state persists small per-group and per-user preferences in SQLite.
package state

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

// Store wraps the preferences database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the preferences database at the given path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "failed to create state dir")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open state database")
	}

	if _, err := db.Exec(`
		PRAGMA journal_mode = WAL;
		PRAGMA busy_timeout = 5000;
	`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to configure state database")
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS user_prefs (
			group_id TEXT NOT NULL,
			user_id  TEXT NOT NULL,
			key      TEXT NOT NULL,
			value    TEXT NOT NULL,
			PRIMARY KEY (group_id, user_id, key)
		);
		CREATE TABLE IF NOT EXISTS group_state (
			group_id TEXT NOT NULL,
			key      TEXT NOT NULL,
			value    TEXT NOT NULL,
			PRIMARY KEY (group_id, key)
		);
	`); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "failed to create state schema")
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

const coverArtKey = "cover_art_enabled"

// CoverArtEnabled reports whether cover art should be shown for a user's
// submissions. Defaults to true when no preference is stored.
func (s *Store) CoverArtEnabled(ctx context.Context, groupID, userID string) (bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM user_prefs WHERE group_id = ? AND user_id = ? AND key = ?`,
		groupID, userID, coverArtKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return true, nil
	}
	if err != nil {
		return true, errors.Wrap(err, "failed to read preference")
	}

	enabled, err := strconv.ParseBool(value)
	if err != nil {
		return true, errors.Wrap(err, "corrupt preference value")
	}
	return enabled, nil
}

// SetCoverArtEnabled stores a user's cover art preference.
func (s *Store) SetCoverArtEnabled(ctx context.Context, groupID, userID string, enabled bool) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_prefs (group_id, user_id, key, value) VALUES (?, ?, ?, ?)
		 ON CONFLICT (group_id, user_id, key) DO UPDATE SET value = excluded.value`,
		groupID, userID, coverArtKey, strconv.FormatBool(enabled),
	)
	return errors.Wrap(err, "failed to store preference")
}

const formImageKey = "form_image_url"

// FormImageURL returns the stored voting-form header image URL for a
// group, "" if none is set.
func (s *Store) FormImageURL(ctx context.Context, groupID string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM group_state WHERE group_id = ? AND key = ?`,
		groupID, formImageKey,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", errors.Wrap(err, "failed to read group state")
	}
	return value, nil
}

// SetFormImageURL stores the voting-form header image URL for a group.
func (s *Store) SetFormImageURL(ctx context.Context, groupID, url string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO group_state (group_id, key, value) VALUES (?, ?, ?)
		 ON CONFLICT (group_id, key) DO UPDATE SET value = excluded.value`,
		groupID, formImageKey, url,
	)
	return errors.Wrap(err, "failed to store group state")
}
