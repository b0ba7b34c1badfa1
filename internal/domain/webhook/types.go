package webhook

// Intent is the recognized intent inside a fulfillment request.
type Intent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// QueryResult carries the engine's view of the turn being fulfilled.
type QueryResult struct {
	QueryText       string         `json:"queryText"`
	Parameters      map[string]any `json:"parameters"`
	FulfillmentText string         `json:"fulfillmentText"`
	Intent          Intent         `json:"intent"`
	LanguageCode    string         `json:"languageCode"`
}

// Request is the fulfillment payload posted by the intent engine. Consumed
// once per call, never persisted.
type Request struct {
	ResponseID  string      `json:"responseId"`
	Session     string      `json:"session"`
	QueryResult QueryResult `json:"queryResult"`
}

// Message is one fulfillment message block.
type Message struct {
	Text *Text `json:"text"`
}

// Text wraps the reply strings of a message block.
type Text struct {
	Text []string `json:"text"`
}

// Response is the fulfillment reply the engine expects. This implementation
// always emits exactly one message block.
type Response struct {
	FulfillmentMessages []Message `json:"fulfillmentMessages"`
}

// NewResponse wraps fulfillment text in the single message block the engine
// requires.
func NewResponse(fulfillmentText string) Response {
	return Response{
		FulfillmentMessages: []Message{
			{Text: &Text{Text: []string{fulfillmentText}}},
		},
	}
}
