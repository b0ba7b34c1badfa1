package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosslingo/chatbridge/internal/clients/dialogflow"
	"github.com/crosslingo/chatbridge/internal/domain/bot"
	"github.com/crosslingo/chatbridge/internal/domain/intent"
	"github.com/crosslingo/chatbridge/internal/domain/translate"
)

// stubTranslate scripts the translation capability per direction.
type stubTranslate struct {
	detectCode string
	detectErr  error
	toPivot    string
	toPivotErr error
	fromPivot  string
	fromErr    error

	detectCalls    int
	translateCalls int
}

func (s *stubTranslate) DetectLanguage(_ context.Context, _, _ string) (string, error) {
	s.detectCalls++
	return s.detectCode, s.detectErr
}

func (s *stubTranslate) TranslateText(_ context.Context, _, _, source, target string) (string, error) {
	s.translateCalls++
	if target == translate.PivotLanguage {
		return s.toPivot, s.toPivotErr
	}
	return s.fromPivot, s.fromErr
}

type stubDetector struct {
	result dialogflow.QueryResult
	err    error
	calls  int
}

func (s *stubDetector) DetectIntent(_ context.Context, _, _, _ string) (dialogflow.QueryResult, error) {
	s.calls++
	return s.result, s.err
}

func newTestPipeline(api *stubTranslate, det *stubDetector) *Pipeline {
	registry := bot.NewRegistry(
		bot.Profile{ProjectID: "support-project"},
		bot.Profile{ProjectID: "sales-project"},
	)
	bindings := make(map[bot.ID]Binding)
	for _, id := range registry.IDs() {
		profile, _ := registry.Resolve(string(id))
		bindings[id] = Binding{
			Profile:    profile,
			Translator: translate.NewPivot(api, profile.ProjectID, api, registry.Fallback().ProjectID, nil),
			Router:     intent.NewRouter(det, nil),
		}
	}
	return NewPipeline(registry, bindings, time.Second, nil, nil)
}

func validRequest() Request {
	return Request{Message: "hola", SessionID: "sess-1", BotID: "support"}
}

func TestTurnRejectsMissingFields(t *testing.T) {
	api := &stubTranslate{}
	det := &stubDetector{}
	p := newTestPipeline(api, det)

	for _, req := range []Request{
		{SessionID: "s", BotID: "support"},
		{Message: "m", BotID: "support"},
		{Message: "m", SessionID: "s"},
		{},
	} {
		_, err := p.Turn(context.Background(), req)
		assert.ErrorIs(t, err, ErrInvalidRequest)
	}

	// No external call is made for invalid requests.
	assert.Equal(t, 0, api.detectCalls)
	assert.Equal(t, 0, api.translateCalls)
	assert.Equal(t, 0, det.calls)
}

func TestTurnRejectsUnknownBot(t *testing.T) {
	api := &stubTranslate{}
	det := &stubDetector{}
	p := newTestPipeline(api, det)

	req := validRequest()
	req.BotID = "marketing"
	_, err := p.Turn(context.Background(), req)
	assert.ErrorIs(t, err, bot.ErrUnknownBot)
	assert.Equal(t, 0, det.calls)
}

func TestTurnEnglishRoundTripSkipsTranslation(t *testing.T) {
	api := &stubTranslate{detectCode: "en"}
	det := &stubDetector{result: dialogflow.QueryResult{
		FulfillmentText: "Your order shipped.",
		Intent:          dialogflow.Intent{DisplayName: "CheckOrderStatus"},
	}}
	p := newTestPipeline(api, det)

	req := validRequest()
	req.Message = "where is my order"
	reply, err := p.Turn(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Your order shipped.", reply)
	// Pivot round trip is the identity for English: no translate calls.
	assert.Equal(t, 0, api.translateCalls)
	assert.Equal(t, 1, det.calls)
}

func TestTurnTranslatesBothLegs(t *testing.T) {
	api := &stubTranslate{
		detectCode: "es",
		toPivot:    "where is my order",
		fromPivot:  "su pedido fue enviado",
	}
	det := &stubDetector{result: dialogflow.QueryResult{
		FulfillmentText: "Your order shipped.",
		Intent:          dialogflow.Intent{DisplayName: "CheckOrderStatus"},
	}}
	p := newTestPipeline(api, det)

	reply, err := p.Turn(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "su pedido fue enviado", reply)
	assert.Equal(t, 2, api.translateCalls)
}

func TestTurnDetectionFailureDefaultsToPivot(t *testing.T) {
	api := &stubTranslate{detectErr: errors.New("detect down")}
	det := &stubDetector{result: dialogflow.QueryResult{
		FulfillmentText: "Hello!",
		Intent:          dialogflow.Intent{DisplayName: "Smalltalk"},
	}}
	p := newTestPipeline(api, det)

	// Both pools fail detection; the turn still completes in English.
	reply, err := p.Turn(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "Hello!", reply)
	assert.Equal(t, 0, api.translateCalls)
	assert.Equal(t, 1, det.calls)
}

func TestTurnInboundTranslationFailureAborts(t *testing.T) {
	api := &stubTranslate{detectCode: "es", toPivotErr: errors.New("translate down")}
	det := &stubDetector{}
	p := newTestPipeline(api, det)

	_, err := p.Turn(context.Background(), validRequest())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidRequest)
	// The intent engine is never called after a fatal inbound failure.
	assert.Equal(t, 0, det.calls)
}

func TestTurnRoutingFailureAborts(t *testing.T) {
	api := &stubTranslate{detectCode: "en"}
	det := &stubDetector{err: errors.New("engine down")}
	p := newTestPipeline(api, det)

	_, err := p.Turn(context.Background(), validRequest())
	assert.Error(t, err)
	assert.Equal(t, 1, det.calls)
}

func TestTurnEmptyFulfillmentUsesFallbackTable(t *testing.T) {
	api := &stubTranslate{detectCode: "en"}
	det := &stubDetector{result: dialogflow.QueryResult{
		FulfillmentText: "",
		Intent:          dialogflow.Intent{DisplayName: "SomeIntent"},
	}}
	p := newTestPipeline(api, det)

	req := validRequest()
	req.Message = "I need tracking info"
	reply, err := p.Turn(context.Background(), req)
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
	assert.Contains(t, reply, "order number")
}

func TestTurnWelcomeIntentUsesFallbackTable(t *testing.T) {
	api := &stubTranslate{detectCode: "en"}
	det := &stubDetector{result: dialogflow.QueryResult{
		FulfillmentText: "Hi! How can I help?",
		Intent:          dialogflow.Intent{DisplayName: "Default Welcome Intent"},
	}}
	p := newTestPipeline(api, det)

	req := validRequest()
	req.BotID = "sales"
	req.Message = "tell me about pricing"
	reply, err := p.Turn(context.Background(), req)
	require.NoError(t, err)
	assert.Contains(t, reply, "$29/month")
}

func TestTurnOutboundTranslationFailureDegrades(t *testing.T) {
	api := &stubTranslate{
		detectCode: "es",
		toPivot:    "where is my order",
		fromErr:    errors.New("translate back down"),
	}
	det := &stubDetector{result: dialogflow.QueryResult{
		FulfillmentText: "Your order shipped.",
		Intent:          dialogflow.Intent{DisplayName: "CheckOrderStatus"},
	}}
	p := newTestPipeline(api, det)

	// The turn succeeds with the untranslated pivot reply.
	reply, err := p.Turn(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "Your order shipped.", reply)
}
