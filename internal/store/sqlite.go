// Package store persists the raw observation log and derived caches in
// SQLite. Observations are stored as JSON payloads keyed by id so the
// persisted representation is exactly the in-memory record shape.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lox/meteorlog/internal/models"
)

// Cache keys for derived state stored alongside the raw log.
const (
	cacheKeyStats    = "observation_stats"
	cacheKeySettings = "notification_settings"
)

type Store struct {
	db    *sql.DB
	clock func() time.Time
}

func New(db *sql.DB) *Store {
	return &Store{db: db, clock: time.Now}
}

// SetClock overrides the time source, for tests.
func (s *Store) SetClock(clock func() time.Time) {
	s.clock = clock
}

// UpsertObservation inserts the observation if its id is unseen, otherwise
// replaces the stored record. updatedAt is bumped on every call; createdAt
// is whatever the record carries.
func (s *Store) UpsertObservation(obs models.Observation) error {
	obs.UpdatedAt = s.clock().UTC()

	payload, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("marshal observation %s: %w", obs.ID, err)
	}

	_, err = s.db.Exec(`
		INSERT INTO observations (id, payload, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, obs.ID, string(payload), obs.CreatedAt.UTC(), obs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert observation %s: %w", obs.ID, err)
	}
	return nil
}

// GetObservation returns a single observation, or nil if the id is unknown.
func (s *Store) GetObservation(id string) (*models.Observation, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM observations WHERE id = ?`, id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get observation %s: %w", id, err)
	}

	var obs models.Observation
	if err := json.Unmarshal([]byte(payload), &obs); err != nil {
		return nil, fmt.Errorf("unmarshal observation %s: %w", id, err)
	}
	return &obs, nil
}

// ListObservations returns the full log in first-recorded order. The order
// is stable, which keeps the statistics engine's order-dependent tie-breaks
// reproducible across recomputes.
func (s *Store) ListObservations() ([]models.Observation, error) {
	rows, err := s.db.Query(`SELECT payload FROM observations ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list observations: %w", err)
	}
	defer rows.Close()

	var observations []models.Observation
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var obs models.Observation
		if err := json.Unmarshal([]byte(payload), &obs); err != nil {
			return nil, fmt.Errorf("unmarshal observation: %w", err)
		}
		observations = append(observations, obs)
	}
	return observations, rows.Err()
}

// DeleteObservation removes an observation by id. Deleting an unknown id is
// not an error.
func (s *Store) DeleteObservation(id string) error {
	if _, err := s.db.Exec(`DELETE FROM observations WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete observation %s: %w", id, err)
	}
	return nil
}

// ReadStats returns the cached aggregate, or nil if none has been written.
func (s *Store) ReadStats() (*models.Stats, error) {
	var stats models.Stats
	ok, err := s.readCache(cacheKeyStats, &stats)
	if err != nil || !ok {
		return nil, err
	}
	return &stats, nil
}

// WriteStats replaces the cached aggregate.
func (s *Store) WriteStats(stats models.Stats) error {
	return s.writeCache(cacheKeyStats, stats)
}

// ReadSettings returns stored notification settings, or nil if the user has
// never saved any.
func (s *Store) ReadSettings() (*models.NotificationSettings, error) {
	var settings models.NotificationSettings
	ok, err := s.readCache(cacheKeySettings, &settings)
	if err != nil || !ok {
		return nil, err
	}
	return &settings, nil
}

// WriteSettings replaces the stored notification settings.
func (s *Store) WriteSettings(settings models.NotificationSettings) error {
	return s.writeCache(cacheKeySettings, settings)
}

func (s *Store) readCache(key string, v any) (bool, error) {
	var payload string
	err := s.db.QueryRow(`SELECT payload FROM kv_cache WHERE key = ?`, key).Scan(&payload)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read cache %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(payload), v); err != nil {
		return false, fmt.Errorf("unmarshal cache %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) writeCache(key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache %s: %w", key, err)
	}
	_, err = s.db.Exec(`
		INSERT INTO kv_cache (key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`, key, string(payload), s.clock().UTC())
	if err != nil {
		return fmt.Errorf("write cache %s: %w", key, err)
	}
	return nil
}
