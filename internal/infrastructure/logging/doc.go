// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: colored console output
//
// Every error crossing the HTTP boundary is logged here with its pipeline
// stage or intent name before being reduced to a generic client message.
package logging
