// Package cache persists the latest playback snapshot across restarts.
//
// The store is a small SQLite key-value table holding the serialized
// "now playing" snapshot (monty_trackInfo) and a version tag
// (monty_cacheVersion). A stored snapshot is only trusted when its tag
// equals the build's expected version; otherwise it is discarded and the
// new tag written before any hub message arrives. Read failures and
// malformed JSON are cache misses, never errors.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/DOUGSKEEZ/montyctl/internal/models"
	"github.com/DOUGSKEEZ/montyctl/internal/shared"
)

// Version is the cache tag the current build expects. Bump it whenever the
// stored snapshot shape changes so stale entries are dropped on upgrade.
const Version = "2025-06-01-v1"

const (
	trackInfoKey = "monty_trackInfo"
	versionKey   = "monty_cacheVersion"
)

// Store is a versioned snapshot cache backed by SQLite.
type Store struct {
	db *sql.DB
}

// New wraps an open, migrated database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (or creates) the cache database at cfg.Path and runs migrations.
func Open(cfg shared.CacheConfig) (*Store, error) {
	db, err := shared.NewDatabase(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate cache database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Validate compares the stored version tag against expected. On mismatch it
// removes the stored snapshot and writes the new tag, so the session starts
// from a blank snapshot. Returns true when the stored snapshot is trustworthy.
func (s *Store) Validate(expected string) bool {
	stored, err := s.get(versionKey)
	if err == nil && stored == expected {
		return true
	}

	// One-time migration guard: stale shapes must not reach newer code.
	_ = s.delete(trackInfoKey)
	_ = s.put(versionKey, expected)
	return false
}

// LoadSnapshot returns the cached snapshot, or [shared.ErrCacheMiss] when
// nothing usable is stored.
func (s *Store) LoadSnapshot() (*models.PlaybackSnapshot, error) {
	raw, err := s.get(trackInfoKey)
	if err != nil {
		return nil, shared.ErrCacheMiss
	}

	var snap models.PlaybackSnapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, shared.ErrCacheMiss
	}

	snap.Clamp()
	return &snap, nil
}

// SaveSnapshot serializes and stores the full snapshot, replacing any
// previous value.
func (s *Store) SaveSnapshot(snap models.PlaybackSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	return s.put(trackInfoKey, string(data))
}

// Clear removes the stored snapshot but keeps the version tag.
func (s *Store) Clear() error {
	return s.delete(trackInfoKey)
}

// StoredVersion returns the persisted version tag, or "" when unset.
func (s *Store) StoredVersion() string {
	v, err := s.get(versionKey)
	if err != nil {
		return ""
	}
	return v
}

func (s *Store) get(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv_cache WHERE key = ?", key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("failed to read cache key %s: %w", key, err)
	}
	return value, nil
}

func (s *Store) put(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO kv_cache (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write cache key %s: %w", key, err)
	}
	return nil
}

func (s *Store) delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv_cache WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete cache key %s: %w", key, err)
	}
	return nil
}
