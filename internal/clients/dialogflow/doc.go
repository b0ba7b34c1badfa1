// Package dialogflow is a thin client for the Dialogflow v2 REST
// detect-intent surface. Conversation state lives entirely in the engine,
// keyed by the session path; this client holds none.
package dialogflow
