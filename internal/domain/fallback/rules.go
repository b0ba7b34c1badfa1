package fallback

import (
	"strings"

	"github.com/crosslingo/chatbridge/internal/domain/bot"
)

// lowQualityMarkers are substrings of engine replies that amount to
// "I didn't understand".
var lowQualityMarkers = []string{
	"I missed",
	"didn't understand",
	"say that again",
	"Sorry, could you",
}

// welcomeIntent replies are also treated as low-quality: the engine greeting
// is not an answer to the user's message.
const welcomeIntent = "Default Welcome Intent"

// Rule maps a keyword set to a canned pivot-language reply. Rules are
// evaluated in order, first match wins; an empty keyword set always matches
// and terminates each table.
type Rule struct {
	Keywords []string
	Reply    string
}

// salesRules is the canned-response table for the sales bot.
var salesRules = []Rule{
	{
		Keywords: []string{"demo", "demonstration"},
		Reply:    "Excellent! I'd love to show you our platform. Our AI-powered chatbot supports 100+ languages with real-time translation. When would be a good time for a 15-minute demo?",
	},
	{
		Keywords: []string{"price", "cost", "pricing"},
		Reply:    "Great question! Our pricing starts at $29/month for small teams. We also offer enterprise solutions. What size is your team?",
	},
	{
		Keywords: []string{"feature", "capability"},
		Reply:    "Our platform offers multilingual AI, real-time translation, smart routing, and analytics. Which feature interests you most?",
	},
	{
		Reply: "I'm here to help you learn about our cross-lingual AI platform! I can tell you about demos, pricing, or features. What would you like to know?",
	},
}

// supportRules is the canned-response table for the support bot.
var supportRules = []Rule{
	{
		Keywords: []string{"order", "tracking"},
		Reply:    "I can help you check your order status. Could you please provide your order number?",
	},
	{
		Keywords: []string{"problem", "issue", "help"},
		Reply:    "I'm here to help! Could you describe the issue you're experiencing? I'll do my best to assist you.",
	},
	{
		Reply: "I'm your support assistant. I can help with order tracking, technical issues, or general questions. How can I assist you today?",
	},
}

var tables = map[bot.ID][]Rule{
	bot.Sales:   salesRules,
	bot.Support: supportRules,
}

// NeedsFallback reports whether the engine's answer is low-quality and the
// canned-response table should speak instead.
func NeedsFallback(fulfillmentText, intentName string) bool {
	if fulfillmentText == "" {
		return true
	}
	for _, marker := range lowQualityMarkers {
		if strings.Contains(fulfillmentText, marker) {
			return true
		}
	}
	return intentName == welcomeIntent
}

// Select returns the canned reply for the bot's first matching rule against
// the lowercased pivot-language text. The catch-all guarantees a non-empty
// reply for every input.
func Select(botID bot.ID, pivotText string) string {
	rules, ok := tables[botID]
	if !ok {
		rules = supportRules
	}

	text := strings.ToLower(pivotText)
	for _, rule := range rules {
		if rule.matches(text) {
			return rule.Reply
		}
	}
	// Unreachable: each table ends in a catch-all.
	return rules[len(rules)-1].Reply
}

// Rules exposes a bot's table for policy audits and tests.
func Rules(botID bot.ID) []Rule {
	return tables[botID]
}

func (r Rule) matches(lowercased string) bool {
	if len(r.Keywords) == 0 {
		return true
	}
	for _, kw := range r.Keywords {
		if strings.Contains(lowercased, kw) {
			return true
		}
	}
	return false
}
