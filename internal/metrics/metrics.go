package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ObservationsSaved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meteorlog_observations_saved_total",
			Help: "Total observations created or updated",
		},
	)

	ObservationsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meteorlog_observations_deleted_total",
			Help: "Total observations deleted",
		},
	)

	StatsRecomputes = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "meteorlog_stats_recomputes_total",
			Help: "Total full statistics recomputations",
		},
	)

	StatsRecomputeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meteorlog_stats_recompute_duration_seconds",
			Help:    "Time spent recomputing the full aggregate",
			Buckets: prometheus.DefBuckets,
		},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meteorlog_store_errors_total",
			Help: "Observation store failures by operation",
		},
		[]string{"op"},
	)

	RemindersPlanned = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "meteorlog_reminders_planned",
			Help: "Reminders in the current notification plan",
		},
	)
)
