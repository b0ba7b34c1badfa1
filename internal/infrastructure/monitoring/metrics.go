package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Chat turn metrics
	TurnsTotal    *prometheus.CounterVec
	StageDuration *prometheus.HistogramVec

	// External service metrics
	ExternalCalls    *prometheus.CounterVec
	ExternalDuration *prometheus.HistogramVec

	// Fallback engine metrics
	FallbackReplies *prometheus.CounterVec

	// Webhook metrics
	WebhookRequests *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge

	// System metrics
	Uptime    prometheus.Gauge
	startTime time.Time
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),

		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbridge_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chatbridge_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		TurnsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbridge_chat_turns_total",
				Help: "Chat turns processed, by bot and outcome",
			},
			[]string{"bot", "outcome"},
		),
		StageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chatbridge_chat_stage_duration_seconds",
				Help:    "Duration of each chat turn stage",
				Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"stage"},
		),
		ExternalCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbridge_external_calls_total",
				Help: "Calls to external services, by service, operation and outcome",
			},
			[]string{"service", "operation", "outcome"},
		),
		ExternalDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chatbridge_external_call_duration_seconds",
				Help:    "External call duration in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"service", "operation"},
		),
		FallbackReplies: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbridge_fallback_replies_total",
				Help: "Canned fallback replies served, by bot",
			},
			[]string{"bot"},
		),
		WebhookRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chatbridge_webhook_requests_total",
				Help: "Webhook fulfillment requests, by intent",
			},
			[]string{"intent"},
		),
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "chatbridge_ws_connections",
				Help: "Active WebSocket connections",
			},
		),
		Uptime: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "chatbridge_uptime_seconds",
				Help: "Process uptime in seconds",
			},
		),
	}
}

// RecordHTTPRequest records metrics for a completed HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordTurn records a completed chat turn.
func (m *Metrics) RecordTurn(bot, outcome string) {
	m.TurnsTotal.WithLabelValues(bot, outcome).Inc()
}

// ObserveStage records the duration of a single turn stage.
func (m *Metrics) ObserveStage(stage string, duration time.Duration) {
	m.StageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordExternalCall records one call to an external service.
func (m *Metrics) RecordExternalCall(service, operation, outcome string, duration time.Duration) {
	m.ExternalCalls.WithLabelValues(service, operation, outcome).Inc()
	m.ExternalDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordFallback records a canned fallback reply.
func (m *Metrics) RecordFallback(bot string) {
	m.FallbackReplies.WithLabelValues(bot).Inc()
}

// RecordWebhook records a webhook fulfillment request.
func (m *Metrics) RecordWebhook(intent string) {
	m.WebhookRequests.WithLabelValues(intent).Inc()
}

// UpdateUptime refreshes the uptime gauge.
func (m *Metrics) UpdateUptime() {
	m.Uptime.Set(time.Since(m.startTime).Seconds())
}
