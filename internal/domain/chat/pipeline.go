package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/crosslingo/chatbridge/internal/domain/bot"
	"github.com/crosslingo/chatbridge/internal/domain/fallback"
	"github.com/crosslingo/chatbridge/internal/domain/intent"
	"github.com/crosslingo/chatbridge/internal/domain/translate"
	"github.com/crosslingo/chatbridge/internal/infrastructure/logging"
	"github.com/crosslingo/chatbridge/internal/infrastructure/monitoring"
)

// ErrInvalidRequest rejects a turn with a missing required field before any
// external call is made.
var ErrInvalidRequest = errors.New("message, sessionId, and botId are required")

// Request is one chat turn from the widget.
type Request struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	BotID     string `json:"botId"`
}

// Binding holds the per-bot collaborators for a turn.
type Binding struct {
	Profile    bot.Profile
	Translator *translate.Pivot
	Router     *intent.Router
}

// Pipeline runs chat turns. It is explicitly constructed with its
// collaborators and holds no mutable state: conversation memory lives in the
// external intent engine, keyed by the caller's session id.
type Pipeline struct {
	registry     *bot.Registry
	bindings     map[bot.ID]Binding
	stageTimeout time.Duration
	log          *logging.Logger
	metrics      *monitoring.Metrics
}

// NewPipeline creates a turn pipeline over per-bot bindings. metrics may be
// nil in tests.
func NewPipeline(registry *bot.Registry, bindings map[bot.ID]Binding, stageTimeout time.Duration, log *logging.Logger, metrics *monitoring.Metrics) *Pipeline {
	if log == nil {
		log = logging.NewNop()
	}
	return &Pipeline{
		registry:     registry,
		bindings:     bindings,
		stageTimeout: stageTimeout,
		log:          log,
		metrics:      metrics,
	}
}

// Turn processes one chat turn: validate, resolve the bot, detect the
// source language, pivot to English, route the intent, select the reply
// (canned fallback when the engine's answer is low-quality), and translate
// the reply back. Fatal failures are possible only at validation, inbound
// translation and routing; the other legs degrade in place.
func (p *Pipeline) Turn(ctx context.Context, req Request) (string, error) {
	if req.Message == "" || req.SessionID == "" || req.BotID == "" {
		return "", ErrInvalidRequest
	}

	profile, err := p.registry.Resolve(req.BotID)
	if err != nil {
		return "", err
	}
	binding, ok := p.bindings[profile.ID]
	if !ok {
		return "", fmt.Errorf("%w: no binding for bot %q", bot.ErrMisconfigured, profile.ID)
	}

	log := p.log.With(
		zap.String("bot", string(profile.ID)),
		zap.String("project", profile.ProjectID),
		zap.String("session", req.SessionID),
	)

	// Detection never fails the turn: double failure assumes the pivot language.
	sourceLang := p.timed(StageLanguageDetected, func() string {
		sctx, cancel := p.stageCtx(ctx)
		defer cancel()
		return binding.Translator.Detect(sctx, req.Message)
	})
	log.Debug("language detected", zap.String("language", sourceLang))

	pivotText, err := p.toPivot(ctx, binding, req.Message, sourceLang)
	if err != nil {
		p.recordTurn(profile.ID, "failed")
		log.Error("turn failed", zap.String("stage", StageTranslatedToPivot.String()), zap.Error(err))
		return "", err
	}

	result, err := p.route(ctx, binding, profile, req.SessionID, pivotText)
	if err != nil {
		p.recordTurn(profile.ID, "failed")
		log.Error("turn failed", zap.String("stage", StageIntentRouted.String()), zap.Error(err))
		return "", err
	}

	replyEn := result.FulfillmentText
	if fallback.NeedsFallback(replyEn, result.Intent) {
		replyEn = fallback.Select(profile.ID, pivotText)
		if p.metrics != nil {
			p.metrics.RecordFallback(string(profile.ID))
		}
		log.Info("canned fallback reply selected", zap.String("intent", result.Intent))
	}

	reply := p.timed(StageTranslatedToSource, func() string {
		sctx, cancel := p.stageCtx(ctx)
		defer cancel()
		return binding.Translator.FromPivot(sctx, replyEn, sourceLang)
	})

	p.recordTurn(profile.ID, "ok")
	log.Info("turn delivered",
		zap.String("intent", result.Intent),
		zap.String("language", sourceLang),
	)
	return reply, nil
}

func (p *Pipeline) toPivot(ctx context.Context, binding Binding, message, sourceLang string) (string, error) {
	start := time.Now()
	sctx, cancel := p.stageCtx(ctx)
	defer cancel()

	pivotText, err := binding.Translator.ToPivot(sctx, message, sourceLang)
	p.observeStage(StageTranslatedToPivot, time.Since(start))
	return pivotText, err
}

func (p *Pipeline) route(ctx context.Context, binding Binding, profile bot.Profile, sessionID, pivotText string) (intent.Result, error) {
	start := time.Now()
	sctx, cancel := p.stageCtx(ctx)
	defer cancel()

	result, err := binding.Router.Route(sctx, profile.ProjectID, sessionID, pivotText)
	p.observeStage(StageIntentRouted, time.Since(start))
	return result, err
}

// stageCtx bounds one external call. An unresponsive dependency fails the
// leg instead of stalling the turn indefinitely.
func (p *Pipeline) stageCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.stageTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.stageTimeout)
}

func (p *Pipeline) timed(stage Stage, fn func() string) string {
	start := time.Now()
	out := fn()
	p.observeStage(stage, time.Since(start))
	return out
}

func (p *Pipeline) observeStage(stage Stage, d time.Duration) {
	if p.metrics != nil {
		p.metrics.ObserveStage(stage.String(), d)
	}
}

func (p *Pipeline) recordTurn(id bot.ID, outcome string) {
	if p.metrics != nil {
		p.metrics.RecordTurn(string(id), outcome)
	}
}
