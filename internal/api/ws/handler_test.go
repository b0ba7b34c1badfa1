package ws

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosslingo/chatbridge/internal/clients/dialogflow"
	"github.com/crosslingo/chatbridge/internal/domain/bot"
	"github.com/crosslingo/chatbridge/internal/domain/chat"
	"github.com/crosslingo/chatbridge/internal/domain/intent"
	"github.com/crosslingo/chatbridge/internal/domain/translate"
)

type stubTranslate struct{}

func (stubTranslate) DetectLanguage(context.Context, string, string) (string, error) {
	return "en", nil
}

func (stubTranslate) TranslateText(_ context.Context, _, text, _, _ string) (string, error) {
	return text, nil
}

type stubDetector struct{}

func (stubDetector) DetectIntent(context.Context, string, string, string) (dialogflow.QueryResult, error) {
	return dialogflow.QueryResult{
		FulfillmentText: "Your order shipped.",
		Intent:          dialogflow.Intent{DisplayName: "CheckOrderStatus"},
	}, nil
}

func dialTestServer(t *testing.T) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := bot.NewRegistry(
		bot.Profile{ProjectID: "support-project"},
		bot.Profile{ProjectID: "sales-project"},
	)
	bindings := make(map[bot.ID]chat.Binding)
	for _, id := range registry.IDs() {
		profile, _ := registry.Resolve(string(id))
		bindings[id] = chat.Binding{
			Profile:    profile,
			Translator: translate.NewPivot(stubTranslate{}, profile.ProjectID, stubTranslate{}, registry.Fallback().ProjectID, nil),
			Router:     intent.NewRouter(stubDetector{}, nil),
		}
	}
	pipeline := chat.NewPipeline(registry, bindings, time.Second, nil, nil)

	r := gin.New()
	r.GET("/stream", NewHandler(pipeline, nil, nil).HandleConnection)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	var frame map[string]any
	require.NoError(t, conn.ReadJSON(&frame))
	return frame
}

func TestStreamChatTurn(t *testing.T) {
	conn := dialTestServer(t)

	assert.Equal(t, "system", readFrame(t, conn)["type"])

	require.NoError(t, conn.WriteJSON(Message{
		Type: "chat", Message: "where is my order", SessionID: "s1", BotID: "support",
	}))
	frame := readFrame(t, conn)
	assert.Equal(t, "reply", frame["type"])
	assert.Equal(t, "Your order shipped.", frame["reply"])
}

func TestStreamInvalidTurnReportsError(t *testing.T) {
	conn := dialTestServer(t)
	readFrame(t, conn) // system frame

	require.NoError(t, conn.WriteJSON(Message{Type: "chat", Message: "hi"}))
	frame := readFrame(t, conn)
	assert.Equal(t, "error", frame["type"])
}

func TestStreamPing(t *testing.T) {
	conn := dialTestServer(t)
	readFrame(t, conn)

	require.NoError(t, conn.WriteJSON(Message{Type: "ping"}))
	assert.Equal(t, "pong", readFrame(t, conn)["type"])
}
