package intent

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/crosslingo/chatbridge/internal/clients/dialogflow"
	"github.com/crosslingo/chatbridge/internal/infrastructure/logging"
)

// Detector is the intent-recognition capability. Implemented by
// dialogflow.Client; tests substitute stubs.
type Detector interface {
	DetectIntent(ctx context.Context, sessionPath, text, languageCode string) (dialogflow.QueryResult, error)
}

// Result is the routed outcome of one turn.
type Result struct {
	FulfillmentText string
	Intent          string
}

// Router sends pivot-language text to the intent engine session. One call
// per turn, no retries, no fallback pool: a failure here is a hard failure
// for the whole turn.
type Router struct {
	detector Detector
	log      *logging.Logger
}

// NewRouter creates an intent router over the given detector.
func NewRouter(detector Detector, log *logging.Logger) *Router {
	if log == nil {
		log = logging.NewNop()
	}
	return &Router{detector: detector, log: log}
}

// Route issues the detect-intent call for one turn. The session path scopes
// conversation state held by the engine to (project, sessionID).
func (r *Router) Route(ctx context.Context, projectID, sessionID, pivotText string) (Result, error) {
	sessionPath := dialogflow.SessionPath(projectID, sessionID)

	qr, err := r.detector.DetectIntent(ctx, sessionPath, pivotText, "en")
	if err != nil {
		r.log.Error("intent routing failed",
			zap.String("session", sessionPath),
			zap.Error(err),
		)
		return Result{}, fmt.Errorf("route intent: %w", err)
	}

	r.log.Debug("intent routed",
		zap.String("session", sessionPath),
		zap.String("intent", qr.Intent.DisplayName),
		zap.Float64("confidence", qr.IntentDetectionConfidence),
	)

	return Result{
		FulfillmentText: qr.FulfillmentText,
		Intent:          qr.Intent.DisplayName,
	}, nil
}
