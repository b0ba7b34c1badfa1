// Package monitoring provides Prometheus metrics for the chat relay.
//
// Exposed series cover the HTTP surface, per-stage chat turn timings,
// external service call outcomes (including fallback-credential attempts),
// canned fallback reply counts, and webhook fulfillment traffic.
//
// Metrics are registered on the default registry via promauto and served
// at GET /metrics. Construct exactly one Metrics per process.
package monitoring
