// Package http contains the gin handlers for the chat relay: the health
// probe, the widget-facing chat endpoint, and the fulfillment webhook
// called by the intent engine. Error detail never crosses this boundary;
// callers get a generic message and the detail goes to the logs.
package http
