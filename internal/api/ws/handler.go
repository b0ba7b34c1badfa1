package ws

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/crosslingo/chatbridge/internal/domain/chat"
	"github.com/crosslingo/chatbridge/internal/infrastructure/logging"
	"github.com/crosslingo/chatbridge/internal/infrastructure/monitoring"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// The widget is embedded on arbitrary customer pages.
		return true
	},
}

// Message is one frame on the chat stream.
type Message struct {
	Type      string `json:"type"`
	Message   string `json:"message,omitempty"`
	SessionID string `json:"sessionId,omitempty"`
	BotID     string `json:"botId,omitempty"`
}

// Handler runs chat turns over a WebSocket connection. Each frame is an
// independent turn through the same pipeline as POST /api/chat.
type Handler struct {
	pipeline *chat.Pipeline
	log      *logging.Logger
	metrics  *monitoring.Metrics
}

// NewHandler creates a new WebSocket handler.
func NewHandler(pipeline *chat.Pipeline, log *logging.Logger, metrics *monitoring.Metrics) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{pipeline: pipeline, log: log, metrics: metrics}
}

// HandleConnection upgrades the request and serves chat frames until the
// peer disconnects.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.WSConnections.Inc()
		defer h.metrics.WSConnections.Dec()
	}

	reqCtx := c.Request.Context()

	h.send(conn, gin.H{"type": "system", "message": "connected"})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("websocket read ended", zap.Error(err))
			}
			return
		}

		switch msg.Type {
		case "chat":
			reply, err := h.pipeline.Turn(reqCtx, chat.Request{
				Message:   msg.Message,
				SessionID: msg.SessionID,
				BotID:     msg.BotID,
			})
			if err != nil {
				h.sendError(conn, "Failed to process chat message.")
				continue
			}
			h.send(conn, gin.H{
				"type":      "reply",
				"reply":     reply,
				"timestamp": time.Now().Unix(),
			})
		case "ping":
			h.send(conn, gin.H{"type": "pong"})
		default:
			h.sendError(conn, "unknown message type")
		}
	}
}

func (h *Handler) send(conn *websocket.Conn, payload any) {
	if err := conn.WriteJSON(payload); err != nil {
		h.log.Debug("websocket write failed", zap.Error(err))
	}
}

func (h *Handler) sendError(conn *websocket.Conn, message string) {
	h.send(conn, gin.H{"type": "error", "error": message})
}
