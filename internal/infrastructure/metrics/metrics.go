package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Journal metrics
	EntriesCreated  *prometheus.CounterVec
	EntriesPosted   prometheus.Counter
	EntriesReversed prometheus.Counter
	EntriesDeleted  prometheus.Counter
	EntryLines      prometheus.Histogram
	EntryDuration   *prometheus.HistogramVec
	EntryErrors     *prometheus.CounterVec

	// Period lock metrics
	PeriodLockOperations *prometheus.CounterVec
	PeriodLockRejections prometheus.Counter

	// Closing metrics
	ClosingOperations *prometheus.CounterVec
	ClosingRejections *prometheus.CounterVec
	ChecklistUpdates  *prometheus.CounterVec

	// Database metrics
	DBRetries *prometheus.CounterVec

	// Outbox metrics
	EventsPublished *prometheus.CounterVec
	EventErrors     prometheus.Counter
}

// New creates all metrics and registers them with reg.
// A nil reg registers with the default registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		// Journal metrics
		EntriesCreated: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_journal_entries_created_total",
				Help: "Total number of journal entries created by document type",
			},
			[]string{"document_type"},
		),
		EntriesPosted: f.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_journal_entries_posted_total",
			Help: "Total number of journal entries posted",
		}),
		EntriesReversed: f.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_journal_entries_reversed_total",
			Help: "Total number of journal entries reversed",
		}),
		EntriesDeleted: f.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_journal_entries_deleted_total",
			Help: "Total number of draft journal entries deleted",
		}),
		EntryLines: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "gobooks_journal_entry_lines",
			Help:    "Number of lines per journal entry",
			Buckets: []float64{2, 3, 5, 10, 25, 50, 100, 500},
		}),
		EntryDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gobooks_journal_operation_duration_seconds",
				Help:    "Duration of journal write operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		EntryErrors: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_journal_errors_total",
				Help: "Total number of rejected journal operations by operation",
			},
			[]string{"operation"},
		),

		// Period lock metrics
		PeriodLockOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_period_lock_operations_total",
				Help: "Total period lock and unlock operations",
			},
			[]string{"action"},
		),
		PeriodLockRejections: f.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_period_lock_rejections_total",
			Help: "Total journal mutations rejected by a period lock",
		}),

		// Closing metrics
		ClosingOperations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_closing_operations_total",
				Help: "Total executed closing operations by type",
			},
			[]string{"type"},
		),
		ClosingRejections: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_closing_rejections_total",
				Help: "Total rejected closing attempts by reason",
			},
			[]string{"reason"},
		),
		ChecklistUpdates: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_checklist_updates_total",
				Help: "Total checklist item updates by status",
			},
			[]string{"status"},
		),

		// Database metrics
		DBRetries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_db_retries_total",
				Help: "Total retried database transactions by postgres error code",
			},
			[]string{"code"},
		),

		// Outbox metrics
		EventsPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gobooks_events_published_total",
				Help: "Total outbox events published by type",
			},
			[]string{"event_type"},
		),
		EventErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "gobooks_event_publish_errors_total",
			Help: "Total outbox events that failed to publish",
		}),
	}
}
