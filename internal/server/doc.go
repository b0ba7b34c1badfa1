// Package server wires configuration, clients, the chat pipeline and the
// HTTP surface into one process. Construction is explicit: every handler
// receives its collaborators, nothing reads ambient globals.
package server
