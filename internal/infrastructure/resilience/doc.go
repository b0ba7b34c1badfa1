// Package resilience provides a circuit breaker for the external service
// transports (translation and intent endpoints).
//
// The breaker never retries: the relay's contract is one call per leg, with
// the alternate credential pool tried exactly once on failure. An open
// circuit simply turns the primary call into an immediate error, which feeds
// that same fallback path.
package resilience
