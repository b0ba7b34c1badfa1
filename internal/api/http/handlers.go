package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/crosslingo/chatbridge/internal/domain/bot"
	"github.com/crosslingo/chatbridge/internal/domain/chat"
	"github.com/crosslingo/chatbridge/internal/domain/webhook"
	"github.com/crosslingo/chatbridge/internal/infrastructure/logging"
	"github.com/crosslingo/chatbridge/internal/infrastructure/monitoring"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	pipeline *chat.Pipeline
	registry *bot.Registry
	webhook  *webhook.Handler
	log      *logging.Logger
	metrics  *monitoring.Metrics
}

// NewHandlers creates a new handler set.
func NewHandlers(pipeline *chat.Pipeline, registry *bot.Registry, wh *webhook.Handler, log *logging.Logger, metrics *monitoring.Metrics) *Handlers {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handlers{
		pipeline: pipeline,
		registry: registry,
		webhook:  wh,
		log:      log,
		metrics:  metrics,
	}
}

// Health reports service status and the configured bot projects.
func (h *Handlers) Health(c *gin.Context) {
	if h.metrics != nil {
		h.metrics.UpdateUptime()
	}

	support, _ := h.registry.Resolve(string(bot.Support))
	sales, _ := h.registry.Resolve(string(bot.Sales))

	c.JSON(http.StatusOK, gin.H{
		"status":         "OK",
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"supportProject": support.ProjectID,
		"salesProject":   sales.ProjectID,
	})
}

// Chat handles one chat turn from the widget.
func (h *Handlers) Chat(c *gin.Context) {
	var req chat.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": chat.ErrInvalidRequest.Error()})
		return
	}

	reply, err := h.pipeline.Turn(c.Request.Context(), req)
	if err != nil {
		h.log.Error("chat turn failed",
			zap.String("bot", req.BotID),
			zap.String("session", req.SessionID),
			zap.Error(err),
		)
		switch {
		case errors.Is(err, chat.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": chat.ErrInvalidRequest.Error()})
		case errors.Is(err, bot.ErrUnknownBot):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown botId"})
		case errors.Is(err, bot.ErrMisconfigured):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Bot configuration error."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process chat message."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// Webhook handles inbound fulfillment calls from the intent engine.
func (h *Handlers) Webhook(c *gin.Context) {
	var req webhook.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("webhook payload rejected", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Webhook failed."})
		return
	}

	if h.metrics != nil {
		h.metrics.RecordWebhook(req.QueryResult.Intent.DisplayName)
	}

	c.JSON(http.StatusOK, h.webhook.Fulfill(req))
}
