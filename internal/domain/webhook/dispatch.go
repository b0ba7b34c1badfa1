package webhook

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/crosslingo/chatbridge/internal/infrastructure/logging"
)

const (
	intentOrderStatus     = "CheckOrderStatus"
	intentRequestDemo     = "RequestDemo"
	intentDemoRequest     = "Demo.Request"
	intentGetPricing      = "GetPricing"
	intentPricingInfo     = "Pricing.Info"
	intentDefaultFallback = "Default Fallback Intent"
)

const (
	genericReply = "Sorry, I can't fulfill that request right now."
	pricingMenu  = "Our pricing is flexible and depends on your team size and needs. We offer:\n\n" +
		"• Starter Plan: $29/month for up to 5 users\n" +
		"• Professional Plan: $99/month for up to 25 users\n" +
		"• Enterprise Plan: Custom pricing for larger teams\n\n" +
		"Would you like to schedule a call to discuss which plan works best for you?"
	genericHelp = "I'd be happy to help! Could you tell me more about what you're looking for? " +
		"I can assist with demos, pricing, or answer questions about our platform."
)

// nudge is one keyword rule for the default-fallback sniffer, evaluated in
// order, first match wins.
type nudge struct {
	keywords []string
	reply    string
}

var fallbackNudges = []nudge{
	{
		keywords: []string{"demo", "demonstration"},
		reply: "I'd be happy to help you with a demo! Our platform offers powerful cross-lingual AI capabilities. " +
			"Would you like me to schedule a personalized demonstration for you?",
	},
	{
		keywords: []string{"price", "cost", "pricing"},
		reply: "Let me help you with pricing information. Our plans start at $29/month. " +
			"Would you like to see a detailed breakdown of our pricing tiers?",
	},
	{
		keywords: []string{"feature", "capability"},
		reply: "Our platform offers multilingual AI chatbots, real-time translation, and intelligent routing. " +
			"What specific features are you most interested in learning about?",
	},
}

// Handler computes fulfillment text for the intent engine's inbound calls.
type Handler struct {
	log *logging.Logger
}

// NewHandler creates a webhook fulfillment handler.
func NewHandler(log *logging.Logger) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{log: log}
}

// Fulfill dispatches on the intent name and returns exactly one fulfillment
// message block, never empty.
func (h *Handler) Fulfill(req Request) Response {
	qr := req.QueryResult
	intentName := qr.Intent.DisplayName

	var text string
	switch intentName {
	case intentOrderStatus:
		text = h.orderStatus(qr)
	case intentRequestDemo, intentDemoRequest:
		text = demoReply(qr.Parameters)
	case intentGetPricing, intentPricingInfo:
		text = pricingMenu
	case intentDefaultFallback:
		text = fallbackNudge(qr)
	default:
		text = genericReply
	}

	h.log.Info("webhook fulfilled",
		zap.String("intent", intentName),
		zap.String("session", req.Session),
	)
	return NewResponse(text)
}

// orderStatus runs the stubbed order lookup. Without an order number the
// engine has already asked the follow-up question, so its own prompt passes
// through unchanged.
func (h *Handler) orderStatus(qr QueryResult) string {
	orderNumber := parameterNumber(qr.Parameters, "orderNumber")
	if orderNumber == "" {
		return qr.FulfillmentText
	}

	h.log.Debug("order status lookup", zap.String("order", orderNumber))
	return fmt.Sprintf("I've checked order %s. Its status is: %s.", orderNumber, lookupOrderStatus(orderNumber))
}

// lookupOrderStatus stands in for an order database. TODO: replace with a
// real lookup once the order service exposes one.
func lookupOrderStatus(orderNumber string) string {
	switch orderNumber {
	case "12345":
		return "Shipped"
	case "67890":
		return "Delivered"
	default:
		return "Processing"
	}
}

func demoReply(params map[string]any) string {
	company := parameterString(params, "companyName")
	if company == "" {
		company = parameterString(params, "company-name")
	}
	if company == "" {
		company = "your company"
	}
	return fmt.Sprintf("Great! I'd love to show you a demo of our platform. "+
		"Let me connect you with our sales team to schedule a personalized demo for %s. "+
		"What's the best email to reach you at?", company)
}

func fallbackNudge(qr QueryResult) string {
	query := strings.ToLower(qr.QueryText)
	for _, n := range fallbackNudges {
		for _, kw := range n.keywords {
			if strings.Contains(query, kw) {
				return n.reply
			}
		}
	}
	if qr.FulfillmentText != "" {
		return qr.FulfillmentText
	}
	return genericHelp
}

func parameterString(params map[string]any, key string) string {
	if s, ok := params[key].(string); ok {
		return s
	}
	return ""
}

// parameterNumber renders a parameter the engine may send as a JSON number
// or a string. Numbers come through as float64; integral values print
// without a fraction.
func parameterNumber(params map[string]any, key string) string {
	switch v := params[key].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	default:
		return ""
	}
}
