package translate

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/crosslingo/chatbridge/internal/infrastructure/logging"
)

// PivotLanguage is the fixed intermediate language all input is normalized
// to before intent recognition.
const PivotLanguage = "en"

// API is the translation capability consumed by the pivot translator.
// Implemented by translatev3.Client; tests substitute stubs.
type API interface {
	DetectLanguage(ctx context.Context, projectID, text string) (string, error)
	TranslateText(ctx context.Context, projectID, text, source, target string) (string, error)
}

// Pivot performs detect, forward-translate and back-translate with a primary
// client bound to the request's bot profile and a fallback client bound to
// the fixed default profile.
//
// Failure policy, preserved deliberately:
//   - Detect never aborts: double failure yields the pivot language.
//   - ToPivot is fatal after both pools fail: garbled pivot text would
//     corrupt intent recognition downstream.
//   - FromPivot degrades after both pools fail: the untranslated pivot reply
//     is still more useful than no reply.
type Pivot struct {
	primary         API
	primaryProject  string
	fallback        API
	fallbackProject string
	log             *logging.Logger
}

// NewPivot creates a pivot translator for one bot profile.
func NewPivot(primary API, primaryProject string, fallback API, fallbackProject string, log *logging.Logger) *Pivot {
	if log == nil {
		log = logging.NewNop()
	}
	return &Pivot{
		primary:         primary,
		primaryProject:  primaryProject,
		fallback:        fallback,
		fallbackProject: fallbackProject,
		log:             log,
	}
}

// Detect returns the language code for text, defaulting to the pivot
// language when both credential pools fail. Detection failure never aborts
// the conversation.
func (p *Pivot) Detect(ctx context.Context, text string) string {
	code, err := p.primary.DetectLanguage(ctx, p.primaryProject, text)
	if err == nil && code != "" {
		return code
	}
	p.log.Warn("primary language detection failed, trying fallback pool",
		zap.String("project", p.primaryProject),
		zap.Error(err),
	)

	code, err = p.fallback.DetectLanguage(ctx, p.fallbackProject, text)
	if err == nil && code != "" {
		return code
	}
	p.log.Warn("fallback language detection failed, assuming pivot language",
		zap.String("project", p.fallbackProject),
		zap.Error(err),
	)
	return PivotLanguage
}

// ToPivot translates text into the pivot language. Identity when source is
// already the pivot language; fatal when both credential pools fail.
func (p *Pivot) ToPivot(ctx context.Context, text, source string) (string, error) {
	if source == PivotLanguage {
		return text, nil
	}

	out, err := p.primary.TranslateText(ctx, p.primaryProject, text, source, PivotLanguage)
	if err == nil {
		return out, nil
	}
	p.log.Warn("primary inbound translation failed, trying fallback pool",
		zap.String("project", p.primaryProject),
		zap.String("source", source),
		zap.Error(err),
	)

	out, fbErr := p.fallback.TranslateText(ctx, p.fallbackProject, text, source, PivotLanguage)
	if fbErr == nil {
		return out, nil
	}
	p.log.Error("inbound translation failed on both credential pools",
		zap.String("source", source),
		zap.NamedError("primary", err),
		zap.NamedError("fallback", fbErr),
	)
	return "", fmt.Errorf("translate to pivot: %w", err)
}

// FromPivot translates a pivot-language reply into the user's language.
// Identity when target is the pivot language. When both credential pools
// fail the untranslated pivot text is returned: reply-quality degradation is
// preferable to silence.
func (p *Pivot) FromPivot(ctx context.Context, text, target string) string {
	if target == PivotLanguage {
		return text
	}

	out, err := p.primary.TranslateText(ctx, p.primaryProject, text, PivotLanguage, target)
	if err == nil {
		return out
	}
	p.log.Warn("primary outbound translation failed, trying fallback pool",
		zap.String("project", p.primaryProject),
		zap.String("target", target),
		zap.Error(err),
	)

	out, fbErr := p.fallback.TranslateText(ctx, p.fallbackProject, text, PivotLanguage, target)
	if fbErr == nil {
		return out
	}
	p.log.Error("outbound translation failed on both credential pools, returning pivot text",
		zap.String("target", target),
		zap.NamedError("primary", err),
		zap.NamedError("fallback", fbErr),
	)
	return text
}
