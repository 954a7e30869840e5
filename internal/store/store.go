// Package store handles SQLite persistence.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/akhutsishvili/hit-reflex-trainer/internal/difficulty"
	"github.com/akhutsishvili/hit-reflex-trainer/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Well-known keys.
const (
	KeyHistory       = "history"
	KeyProfiles      = "profiles"
	KeyActiveProfile = "active_profile"
	KeyLastProgram   = "last_program"
)

// Store wraps SQLite access as a key/value table of JSON documents.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`)
	return err
}

// Get unmarshals the value stored under key into out. A missing key or
// a value that no longer parses reads as absent, never as an error.
func (s *Store) Get(ctx context.Context, key string, out any) (bool, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		// Corrupt content falls back to defaults.
		return false, nil
	}
	return true, nil
}

// Set stores v under key as JSON, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, string(raw))
	return err
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key)
	return err
}

// LoadHistory returns recorded sessions, newest first.
func (s *Store) LoadHistory(ctx context.Context) ([]model.SessionHistoryEntry, error) {
	var entries []model.SessionHistoryEntry
	if _, err := s.Get(ctx, KeyHistory, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// SaveHistory persists the session history list.
func (s *Store) SaveHistory(ctx context.Context, entries []model.SessionHistoryEntry) error {
	return s.Set(ctx, KeyHistory, entries)
}

// LoadProfiles returns saved custom difficulty overrides keyed by id.
func (s *Store) LoadProfiles(ctx context.Context) (map[string]difficulty.Override, error) {
	profiles := map[string]difficulty.Override{}
	if _, err := s.Get(ctx, KeyProfiles, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// SaveProfile adds or replaces one custom profile override.
func (s *Store) SaveProfile(ctx context.Context, id string, override difficulty.Override) error {
	profiles, err := s.LoadProfiles(ctx)
	if err != nil {
		return err
	}
	profiles[id] = override
	return s.Set(ctx, KeyProfiles, profiles)
}

// ActiveProfile returns the active profile id, or "" when unset.
func (s *Store) ActiveProfile(ctx context.Context) (string, error) {
	var id string
	if _, err := s.Get(ctx, KeyActiveProfile, &id); err != nil {
		return "", err
	}
	return id, nil
}

// SetActiveProfile stores the active profile id.
func (s *Store) SetActiveProfile(ctx context.Context, id string) error {
	return s.Set(ctx, KeyActiveProfile, id)
}

// LastProgram returns the last-used program configuration, if any.
func (s *Store) LastProgram(ctx context.Context) (model.TrainingProgram, bool, error) {
	var program model.TrainingProgram
	found, err := s.Get(ctx, KeyLastProgram, &program)
	if err != nil {
		return model.TrainingProgram{}, false, err
	}
	return program, found, nil
}

// SaveLastProgram remembers the program configuration for the next run.
func (s *Store) SaveLastProgram(ctx context.Context, program model.TrainingProgram) error {
	return s.Set(ctx, KeyLastProgram, program)
}
