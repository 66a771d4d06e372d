// Package journal orchestrates the observation log: validation at the write
// boundary, persistence, and keeping the derived statistics cache consistent
// with the raw list. After every successful save or delete the cached
// aggregate equals a full recompute over the stored list.
package journal

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lox/meteorlog/internal/metrics"
	"github.com/lox/meteorlog/internal/models"
	"github.com/lox/meteorlog/internal/stats"
)

// ErrInvalidObservation marks a record rejected at the write boundary. The
// statistics engine itself assumes well-formed input.
var ErrInvalidObservation = errors.New("invalid observation")

// ErrInvalidSettings marks rejected notification settings.
var ErrInvalidSettings = errors.New("invalid notification settings")

// Store is the persistence the journal consumes. *store.Store and
// *store.Retrying both satisfy it.
type Store interface {
	ListObservations() ([]models.Observation, error)
	GetObservation(id string) (*models.Observation, error)
	UpsertObservation(models.Observation) error
	DeleteObservation(id string) error
	ReadStats() (*models.Stats, error)
	WriteStats(models.Stats) error
	ReadSettings() (*models.NotificationSettings, error)
	WriteSettings(models.NotificationSettings) error
}

type Journal struct {
	store    Store
	clock    func() time.Time
	validate *validator.Validate

	// Serializes read-modify-write: the full-list recompute is not atomic
	// against concurrent mutation.
	mu sync.Mutex
}

func New(store Store) *Journal {
	return &Journal{
		store:    store,
		clock:    time.Now,
		validate: validator.New(),
	}
}

// SetClock overrides the time source, for tests.
func (j *Journal) SetClock(clock func() time.Time) {
	j.clock = clock
}

// Save validates and persists an observation, then recomputes and persists
// the aggregate. A record without an id is treated as new and assigned one;
// a known id replaces the stored record, keeping its original createdAt.
// Storage failures propagate; the requested mutation is never silently
// dropped.
func (j *Journal) Save(obs models.Observation) (models.Observation, error) {
	if err := j.validate.Struct(obs); err != nil {
		return models.Observation{}, fmt.Errorf("%w: %v", ErrInvalidObservation, err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	now := j.clock().UTC()
	if obs.ID == "" {
		obs.ID = uuid.NewString()
		obs.CreatedAt = now
	} else {
		existing, err := j.store.GetObservation(obs.ID)
		if err != nil {
			metrics.StoreErrors.WithLabelValues("get").Inc()
			return models.Observation{}, fmt.Errorf("load existing observation: %w", err)
		}
		if existing != nil {
			obs.CreatedAt = existing.CreatedAt
		} else if obs.CreatedAt.IsZero() {
			obs.CreatedAt = now
		}
	}
	obs.UpdatedAt = now

	if err := j.store.UpsertObservation(obs); err != nil {
		metrics.StoreErrors.WithLabelValues("upsert").Inc()
		return models.Observation{}, err
	}
	metrics.ObservationsSaved.Inc()

	if err := j.refreshStats(now); err != nil {
		return models.Observation{}, err
	}

	saved, err := j.store.GetObservation(obs.ID)
	if err != nil || saved == nil {
		return obs, nil
	}
	return *saved, nil
}

// Delete removes an observation by id and recomputes the aggregate.
func (j *Journal) Delete(id string) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.store.DeleteObservation(id); err != nil {
		metrics.StoreErrors.WithLabelValues("delete").Inc()
		return err
	}
	metrics.ObservationsDeleted.Inc()

	return j.refreshStats(j.clock().UTC())
}

// Observations returns the full log in stored order. Read failures degrade
// to an empty list so callers can render "no data yet".
func (j *Journal) Observations() []models.Observation {
	list, err := j.store.ListObservations()
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		log.Printf("journal: list observations: %v", err)
		return nil
	}
	return list
}

// Get returns a single observation, or nil if the id is unknown.
func (j *Journal) Get(id string) (*models.Observation, error) {
	return j.store.GetObservation(id)
}

// Stats returns the aggregate as of the given instant. The cached copy is
// served when present; a missing cache is rebuilt from the raw list. Read
// failures degrade to the zero aggregate.
func (j *Journal) Stats(asOf time.Time) models.Stats {
	cached, err := j.store.ReadStats()
	if err != nil {
		metrics.StoreErrors.WithLabelValues("read_stats").Inc()
		log.Printf("journal: read stats cache: %v", err)
		return stats.Zero()
	}
	if cached != nil {
		return *cached
	}

	list, err := j.store.ListObservations()
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		log.Printf("journal: list observations: %v", err)
		return stats.Zero()
	}
	computed := j.compute(list, asOf)
	if err := j.store.WriteStats(computed); err != nil {
		// Best effort: the next mutation rewrites the cache anyway.
		log.Printf("journal: write stats cache: %v", err)
	}
	return computed
}

// Settings returns stored notification settings, falling back to defaults
// when none exist or the read fails.
func (j *Journal) Settings() models.NotificationSettings {
	settings, err := j.store.ReadSettings()
	if err != nil {
		metrics.StoreErrors.WithLabelValues("read_settings").Inc()
		log.Printf("journal: read settings: %v", err)
		return models.DefaultNotificationSettings()
	}
	if settings == nil {
		return models.DefaultNotificationSettings()
	}
	return *settings
}

// SaveSettings validates and persists notification settings.
func (j *Journal) SaveSettings(settings models.NotificationSettings) error {
	if err := j.validate.Struct(settings); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	if err := j.store.WriteSettings(settings); err != nil {
		metrics.StoreErrors.WithLabelValues("write_settings").Inc()
		return err
	}
	return nil
}

func (j *Journal) refreshStats(asOf time.Time) error {
	list, err := j.store.ListObservations()
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		return fmt.Errorf("list observations for recompute: %w", err)
	}
	if err := j.store.WriteStats(j.compute(list, asOf)); err != nil {
		metrics.StoreErrors.WithLabelValues("write_stats").Inc()
		return fmt.Errorf("write stats cache: %w", err)
	}
	return nil
}

func (j *Journal) compute(list []models.Observation, asOf time.Time) models.Stats {
	timer := prometheus.NewTimer(metrics.StatsRecomputeDuration)
	defer timer.ObserveDuration()
	metrics.StatsRecomputes.Inc()
	return stats.Compute(list, asOf)
}
