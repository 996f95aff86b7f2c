// Package observability holds the Prometheus collectors of the service.
package observability

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "apptracker"

var (
	httpRequestsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests served, labeled by method, route and status code.",
	}, []string{"method", "route", "status"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency, labeled by method and route.",
		Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
	}, []string{"method", "route"})

	workNotesCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "work_notes_added_total",
		Help:      "Work notes successfully stored.",
	})

	auditEntriesCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "audit_entries_written_total",
		Help:      "Audit log entries written, labeled by action.",
	}, []string{"action"})

	nameFallbackCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "activity",
		Name:      "name_resolution_fallbacks_total",
		Help:      "Relationship values rendered with raw ids because name resolution failed.",
	})

	sectionsSavedCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "handover",
		Name:      "sections_saved_total",
		Help:      "Handover sections saved, labeled by section name.",
	}, []string{"section"})

	eventsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Activity events handed to the publisher, labeled by type and result.",
	}, []string{"type", "result"})
)

var panicsCounter = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "http",
	Name:      "panics_total",
	Help:      "Handler panics turned into 500 responses.",
})

func init() {
	prometheus.MustRegister(
		httpRequestsCounter, httpDuration, panicsCounter,
		workNotesCounter, auditEntriesCounter, nameFallbackCounter,
		sectionsSavedCounter, eventsCounter,
	)
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, route string, status int, d time.Duration) {
	httpRequestsCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordPanic counts one recovered handler panic.
func RecordPanic() {
	panicsCounter.Inc()
}

// RecordWorkNoteAdded counts one stored work note.
func RecordWorkNoteAdded() {
	workNotesCounter.Inc()
}

// RecordAuditEntry counts one written audit entry.
func RecordAuditEntry(action string) {
	auditEntriesCounter.WithLabelValues(action).Inc()
}

// RecordNameFallback counts one relationship value left unresolved.
func RecordNameFallback() {
	nameFallbackCounter.Inc()
}

// RecordSectionSaved counts one saved handover section.
func RecordSectionSaved(section string) {
	sectionsSavedCounter.WithLabelValues(section).Inc()
}

// RecordEventPublished counts one publish attempt.
func RecordEventPublished(eventType string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	eventsCounter.WithLabelValues(eventType, result).Inc()
}

// PoolStats is a snapshot of database connection pool counters.
type PoolStats struct {
	Acquired int32
	Idle     int32
	Total    int32
	Max      int32
}

// RegisterPoolStats exposes pool gauges read from snapshot at scrape time.
// Registering twice on the same registerer is a no-op.
func RegisterPoolStats(reg prometheus.Registerer, snapshot func() PoolStats) error {
	gauges := []struct {
		name, help string
		value      func(PoolStats) int32
	}{
		{"acquired_conns", "Connections currently checked out of the pool.", func(s PoolStats) int32 { return s.Acquired }},
		{"idle_conns", "Idle connections held by the pool.", func(s PoolStats) int32 { return s.Idle }},
		{"total_conns", "Connections open in the pool.", func(s PoolStats) int32 { return s.Total }},
		{"max_conns", "Configured pool size limit.", func(s PoolStats) int32 { return s.Max }},
	}
	for _, g := range gauges {
		value := g.value
		collector := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "db_pool",
			Name:      g.name,
			Help:      g.help,
		}, func() float64 { return float64(value(snapshot())) })

		if err := reg.Register(collector); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return fmt.Errorf("register db_pool_%s: %w", g.name, err)
		}
	}
	return nil
}
