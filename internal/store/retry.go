package store

import (
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/lox/meteorlog/internal/models"
)

// Retrying wraps a Store and retries mutating operations with exponential
// backoff, for transient SQLITE_BUSY-style failures. Reads are not retried;
// the read paths already degrade gracefully upstream.
type Retrying struct {
	*Store
	maxElapsed time.Duration
}

// NewRetrying wraps s. maxElapsed bounds total retry time per operation.
func NewRetrying(s *Store, maxElapsed time.Duration) *Retrying {
	return &Retrying{Store: s, maxElapsed: maxElapsed}
}

func (r *Retrying) retry(op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond
	bo.MaxElapsedTime = r.maxElapsed
	return backoff.Retry(op, bo)
}

func (r *Retrying) UpsertObservation(obs models.Observation) error {
	return r.retry(func() error { return r.Store.UpsertObservation(obs) })
}

func (r *Retrying) DeleteObservation(id string) error {
	return r.retry(func() error { return r.Store.DeleteObservation(id) })
}

func (r *Retrying) WriteStats(stats models.Stats) error {
	return r.retry(func() error { return r.Store.WriteStats(stats) })
}

func (r *Retrying) WriteSettings(settings models.NotificationSettings) error {
	return r.retry(func() error { return r.Store.WriteSettings(settings) })
}
