package dialogflow

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/crosslingo/chatbridge/internal/infrastructure/monitoring"
	"github.com/crosslingo/chatbridge/internal/infrastructure/resilience"
)

// Intent is the recognized intent inside a query result.
type Intent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// QueryResult is the engine's answer for one detect-intent call.
type QueryResult struct {
	QueryText                 string         `json:"queryText"`
	Parameters                map[string]any `json:"parameters"`
	FulfillmentText           string         `json:"fulfillmentText"`
	Intent                    Intent         `json:"intent"`
	IntentDetectionConfidence float64        `json:"intentDetectionConfidence"`
	LanguageCode              string         `json:"languageCode"`
}

type detectIntentRequest struct {
	QueryInput queryInput `json:"queryInput"`
}

type queryInput struct {
	Text textInput `json:"text"`
}

type textInput struct {
	Text         string `json:"text"`
	LanguageCode string `json:"languageCode"`
}

type detectIntentResponse struct {
	ResponseID  string      `json:"responseId"`
	QueryResult QueryResult `json:"queryResult"`
}

// Client calls the Dialogflow v2 REST surface for one credential pool.
type Client struct {
	http    *resty.Client
	breaker *resilience.Breaker
	metrics *monitoring.Metrics
}

// Config configures a Dialogflow client.
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
	Metrics  *monitoring.Metrics
}

// New creates a Dialogflow client bound to one credential pool.
func New(name string, cfg Config) *Client {
	http := resty.New().
		SetBaseURL(cfg.Endpoint).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("x-goog-api-key", cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	breaker := resilience.New("dialogflow-"+name, resilience.Settings{
		MaxRequests: 3,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
	})

	return &Client{http: http, breaker: breaker, metrics: cfg.Metrics}
}

// SessionPath builds the session-scoped identifier for detect-intent calls.
func SessionPath(projectID, sessionID string) string {
	return fmt.Sprintf("projects/%s/agent/sessions/%s", projectID, sessionID)
}

// DetectIntent issues one detect-intent call for the given session path.
// No retries: a failure here is a hard failure for the whole turn.
func (c *Client) DetectIntent(ctx context.Context, sessionPath, text, languageCode string) (QueryResult, error) {
	timer := monitoring.NewTimer(c.metrics, "dialogflow", "detectIntent")

	var out detectIntentResponse
	err := c.breaker.Do(func() error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(detectIntentRequest{
				QueryInput: queryInput{Text: textInput{Text: text, LanguageCode: languageCode}},
			}).
			SetResult(&out).
			Post(fmt.Sprintf("/v2/%s:detectIntent", sessionPath))
		if err != nil {
			return fmt.Errorf("detect intent: %w", err)
		}
		if resp.IsError() {
			return fmt.Errorf("detect intent: %s", resp.Status())
		}
		return nil
	})
	if err != nil {
		timer.Stop("error")
		return QueryResult{}, err
	}
	timer.Stop("ok")
	return out.QueryResult, nil
}

// BreakerState exposes the transport breaker state for health reporting.
func (c *Client) BreakerState() resilience.State {
	return c.breaker.State()
}
