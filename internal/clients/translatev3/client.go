package translatev3

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/crosslingo/chatbridge/internal/infrastructure/monitoring"
	"github.com/crosslingo/chatbridge/internal/infrastructure/resilience"
)

// location is fixed for the Cloud Translation API.
const location = "global"

// Client calls the Cloud Translation v3 REST surface for one credential pool.
// Retries are disabled: a failed call is handed to the caller's
// fallback-credential policy, never replayed here.
type Client struct {
	http    *resty.Client
	breaker *resilience.Breaker
	metrics *monitoring.Metrics
}

// Config configures a translation client.
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
	Metrics  *monitoring.Metrics
}

// New creates a translation client bound to one credential pool.
func New(name string, cfg Config) *Client {
	http := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("x-goog-api-key", cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	breaker := resilience.New("translate-"+name, resilience.Settings{
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
	})

	return &Client{http: http, breaker: breaker, metrics: cfg.Metrics}
}

type detectRequest struct {
	Content  string `json:"content"`
	MimeType string `json:"mimeType"`
}

type detectResponse struct {
	Languages []struct {
		LanguageCode string  `json:"languageCode"`
		Confidence   float64 `json:"confidence"`
	} `json:"languages"`
}

type translateRequest struct {
	Contents           []string `json:"contents"`
	MimeType           string   `json:"mimeType"`
	SourceLanguageCode string   `json:"sourceLanguageCode"`
	TargetLanguageCode string   `json:"targetLanguageCode"`
}

type translateResponse struct {
	Translations []struct {
		TranslatedText string `json:"translatedText"`
	} `json:"translations"`
}

// DetectLanguage returns the detected language code for the given text,
// scoped to the given project.
func (c *Client) DetectLanguage(ctx context.Context, projectID, text string) (string, error) {
	timer := monitoring.NewTimer(c.metrics, "translate", "detectLanguage")

	var out detectResponse
	err := c.breaker.Do(func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(detectRequest{Content: text, MimeType: "text/plain"}).
			SetResult(&out).
			Post(fmt.Sprintf("/v3/projects/%s/locations/%s:detectLanguage", projectID, location))
		if err != nil {
			return fmt.Errorf("detect language: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("detect language: %s", resp.Status())
		}
		return nil
	})
	if err != nil {
		timer.Stop("error")
		return "", err
	}
	if len(out.Languages) == 0 {
		timer.Stop("error")
		return "", fmt.Errorf("detect language: empty response")
	}
	timer.Stop("ok")
	return out.Languages[0].LanguageCode, nil
}

// TranslateText translates text between the given languages, scoped to the
// given project.
func (c *Client) TranslateText(ctx context.Context, projectID, text, source, target string) (string, error) {
	timer := monitoring.NewTimer(c.metrics, "translate", "translateText")

	var out translateResponse
	err := c.breaker.Do(func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(translateRequest{
				Contents:           []string{text},
				MimeType:           "text/plain",
				SourceLanguageCode: source,
				TargetLanguageCode: target,
			}).
			SetResult(&out).
			Post(fmt.Sprintf("/v3/projects/%s/locations/%s:translateText", projectID, location))
		if err != nil {
			return fmt.Errorf("translate text: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("translate text: %s", resp.Status())
		}
		return nil
	})
	if err != nil {
		timer.Stop("error")
		return "", err
	}
	if len(out.Translations) == 0 {
		timer.Stop("error")
		return "", fmt.Errorf("translate text: empty response")
	}
	timer.Stop("ok")
	return out.Translations[0].TranslatedText, nil
}

// BreakerState exposes the transport breaker state for health reporting.
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}
