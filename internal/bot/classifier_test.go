package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	c := NewClassifier()

	tests := []struct {
		name string
		text string
		want Intent
	}{
		{"greeting hi", "hi", IntentGreeting},
		{"greeting hello", "Hello there", IntentGreeting},
		{"greeting hey", "HEY!", IntentGreeting},
		{"network mtn", "mtn", IntentNetworkInquiry},
		{"network glo mixed case", "Glo plans please", IntentNetworkInquiry},
		{"network airtel", "what about airtel", IntentNetworkInquiry},
		{"catalog data", "show me data", IntentCatalogBrowse},
		{"catalog bundle", "any bundle available?", IntentCatalogBrowse},
		{"price", "price list", IntentPriceInquiry},
		{"price how much", "how much is it", IntentPriceInquiry},
		{"order buy", "I want to buy something", IntentOrderSubmission},
		{"order purchase", "purchase pls", IntentOrderSubmission},
		{"order order", "my order", IntentOrderSubmission},
		{"thanks", "thank you so much", IntentThanks},
		{"empty", "", IntentFallback},
		{"whitespace", "   \t\n", IntentFallback},
		{"gibberish", "no details here at all", IntentFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.text))
		})
	}
}

func TestClassifyPrecedence(t *testing.T) {
	c := NewClassifier()

	// Greeting outranks everything else.
	assert.Equal(t, IntentGreeting, c.Classify("hi, how much is mtn data"))

	// A combined purchase message must reach order handling even though
	// it also names a network and a bundle keyword.
	assert.Equal(t, IntentOrderSubmission, c.Classify("buy mtn 2gb for 08012345678"))
	assert.Equal(t, IntentOrderSubmission, c.Classify("I want to purchase glo data"))

	// Network keyword outranks the generic data/bundle rule.
	assert.Equal(t, IntentNetworkInquiry, c.Classify("mtn data bundle"))

	// Price only wins when no earlier rule matched.
	assert.Equal(t, IntentPriceInquiry, c.Classify("what is the price"))
	assert.Equal(t, IntentNetworkInquiry, c.Classify("what is the price of glo"))
}
