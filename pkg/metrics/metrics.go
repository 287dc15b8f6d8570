package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор prometheus-метрик сервиса
type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	EventsEmitted       *prometheus.CounterVec
	EventsDropped       *prometheus.CounterVec
	PatternDatesApplied prometheus.Counter
	PatternDatesSkipped prometheus.Counter
}

// EventEmitted увеличивает счётчик отправленных событий
func (m *Metrics) EventEmitted(eventType string) {
	m.EventsEmitted.WithLabelValues(eventType).Inc()
}

// EventDropped увеличивает счётчик отброшенных событий
func (m *Metrics) EventDropped(eventType string) {
	m.EventsDropped.WithLabelValues(eventType).Inc()
}

// PatternDateApplied увеличивает счётчик материализованных дат
func (m *Metrics) PatternDateApplied() {
	m.PatternDatesApplied.Inc()
}

// PatternDateSkipped увеличивает счётчик пропущенных дат
func (m *Metrics) PatternDateSkipped() {
	m.PatternDatesSkipped.Inc()
}

// New регистрирует и возвращает метрики сервиса
func New(serviceName string) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "path"}),

		EventsEmitted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "calendar_events_emitted_total",
			Help:        "Total number of realtime events emitted by type",
			ConstLabels: labels,
		}, []string{"type"}),

		EventsDropped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name:        "calendar_events_dropped_total",
			Help:        "Total number of realtime events dropped due to slow subscribers",
			ConstLabels: labels,
		}, []string{"type"}),

		PatternDatesApplied: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "calendar_pattern_dates_applied_total",
			Help:        "Total number of dates materialized from recurring patterns",
			ConstLabels: labels,
		}),

		PatternDatesSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name:        "calendar_pattern_dates_skipped_total",
			Help:        "Total number of dates skipped during pattern application",
			ConstLabels: labels,
		}),
	}
}
