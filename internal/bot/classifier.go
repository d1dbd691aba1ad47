package bot

import "strings"

// Intent is the classified conversational purpose of an inbound message.
type Intent string

const (
	IntentGreeting        Intent = "greeting"
	IntentNetworkInquiry  Intent = "network_inquiry"
	IntentCatalogBrowse   Intent = "catalog_browse"
	IntentPriceInquiry    Intent = "price_inquiry"
	IntentOrderSubmission Intent = "order_submission"
	IntentThanks          Intent = "thanks"
	IntentFallback        Intent = "fallback"
)

// rule pairs a match predicate with the intent it yields.
type rule struct {
	intent Intent
	match  func(lower string) bool
}

func containsAny(text string, keywords ...string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// Classifier maps free text to an Intent by scanning an ordered rule
// list; the first matching rule wins, so rule order is the precedence
// contract. Purchase keywords outrank network and catalog keywords so
// that a combined message like "buy mtn 2gb for 08012345678" is routed
// to order handling instead of the plan listing.
type Classifier struct {
	rules []rule
}

func NewClassifier() *Classifier {
	return &Classifier{
		rules: []rule{
			{IntentGreeting, func(s string) bool {
				return containsAny(s, "hi", "hello", "hey")
			}},
			{IntentOrderSubmission, func(s string) bool {
				return containsAny(s, "buy", "purchase", "order")
			}},
			{IntentNetworkInquiry, func(s string) bool {
				return containsAny(s, "mtn", "glo", "airtel")
			}},
			{IntentCatalogBrowse, func(s string) bool {
				return containsAny(s, "data", "bundle")
			}},
			{IntentPriceInquiry, func(s string) bool {
				return containsAny(s, "price", "how much")
			}},
			{IntentThanks, func(s string) bool {
				return strings.Contains(s, "thank")
			}},
		},
	}
}

// Classify returns the first matching intent, or IntentFallback when no
// rule matches. It never fails; empty and whitespace-only input falls
// through to IntentFallback.
func (c *Classifier) Classify(text string) Intent {
	lower := strings.ToLower(text)
	for _, r := range c.rules {
		if r.match(lower) {
			return r.intent
		}
	}
	return IntentFallback
}
