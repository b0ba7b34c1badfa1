package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAPI scripts detect/translate outcomes and records calls.
type stubAPI struct {
	detectCode string
	detectErr  error
	translated string
	translErr  error

	detectCalls    int
	translateCalls int
	lastProject    string
	lastSource     string
	lastTarget     string
}

func (s *stubAPI) DetectLanguage(_ context.Context, projectID, _ string) (string, error) {
	s.detectCalls++
	s.lastProject = projectID
	return s.detectCode, s.detectErr
}

func (s *stubAPI) TranslateText(_ context.Context, projectID, _, source, target string) (string, error) {
	s.translateCalls++
	s.lastProject = projectID
	s.lastSource = source
	s.lastTarget = target
	return s.translated, s.translErr
}

func newPivot(primary, fallback *stubAPI) *Pivot {
	return NewPivot(primary, "sales-project", fallback, "support-project", nil)
}

func TestDetectUsesPrimary(t *testing.T) {
	primary := &stubAPI{detectCode: "es"}
	fallback := &stubAPI{detectCode: "fr"}
	p := newPivot(primary, fallback)

	assert.Equal(t, "es", p.Detect(context.Background(), "hola"))
	assert.Equal(t, 1, primary.detectCalls)
	assert.Equal(t, 0, fallback.detectCalls)
	assert.Equal(t, "sales-project", primary.lastProject)
}

func TestDetectFallsBackToSupportPool(t *testing.T) {
	primary := &stubAPI{detectErr: errors.New("quota")}
	fallback := &stubAPI{detectCode: "de"}
	p := newPivot(primary, fallback)

	assert.Equal(t, "de", p.Detect(context.Background(), "hallo"))
	assert.Equal(t, "support-project", fallback.lastProject)
}

func TestDetectDoubleFailureDefaultsToPivot(t *testing.T) {
	primary := &stubAPI{detectErr: errors.New("down")}
	fallback := &stubAPI{detectErr: errors.New("also down")}
	p := newPivot(primary, fallback)

	// Detection failure must never abort the conversation.
	assert.Equal(t, PivotLanguage, p.Detect(context.Background(), "bonjour"))
}

func TestToPivotIdentityForPivotSource(t *testing.T) {
	primary := &stubAPI{}
	fallback := &stubAPI{}
	p := newPivot(primary, fallback)

	out, err := p.ToPivot(context.Background(), "hello there", PivotLanguage)
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)
	assert.Equal(t, 0, primary.translateCalls)
	assert.Equal(t, 0, fallback.translateCalls)
}

func TestToPivotPrimary(t *testing.T) {
	primary := &stubAPI{translated: "where is my order"}
	fallback := &stubAPI{}
	p := newPivot(primary, fallback)

	out, err := p.ToPivot(context.Background(), "donde esta mi pedido", "es")
	require.NoError(t, err)
	assert.Equal(t, "where is my order", out)
	assert.Equal(t, "es", primary.lastSource)
	assert.Equal(t, PivotLanguage, primary.lastTarget)
}

func TestToPivotDoubleFailureIsFatal(t *testing.T) {
	primary := &stubAPI{translErr: errors.New("down")}
	fallback := &stubAPI{translErr: errors.New("also down")}
	p := newPivot(primary, fallback)

	_, err := p.ToPivot(context.Background(), "donde esta mi pedido", "es")
	assert.Error(t, err)
	assert.Equal(t, 1, primary.translateCalls)
	assert.Equal(t, 1, fallback.translateCalls)
}

func TestFromPivotIdentityForPivotTarget(t *testing.T) {
	primary := &stubAPI{}
	p := newPivot(primary, &stubAPI{})

	assert.Equal(t, "reply", p.FromPivot(context.Background(), "reply", PivotLanguage))
	assert.Equal(t, 0, primary.translateCalls)
}

func TestFromPivotFallsBack(t *testing.T) {
	primary := &stubAPI{translErr: errors.New("down")}
	fallback := &stubAPI{translated: "su pedido fue enviado"}
	p := newPivot(primary, fallback)

	out := p.FromPivot(context.Background(), "your order shipped", "es")
	assert.Equal(t, "su pedido fue enviado", out)
}

func TestFromPivotDoubleFailureDegradesToPivotText(t *testing.T) {
	primary := &stubAPI{translErr: errors.New("down")}
	fallback := &stubAPI{translErr: errors.New("also down")}
	p := newPivot(primary, fallback)

	// Outbound failure degrades, it must not fail the turn.
	out := p.FromPivot(context.Background(), "your order shipped", "es")
	assert.Equal(t, "your order shipped", out)
}
