package bot

import (
	"testing"

	"dataseller/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComposer() *Composer {
	return NewComposer(catalog.Default())
}

func TestComposeNetworkInquiry(t *testing.T) {
	c := newTestComposer()
	cat := catalog.Default()

	reply := c.Compose(IntentNetworkInquiry, "mtn")
	assert.Contains(t, reply, "MTN")
	for _, plan := range cat.PlansFor(catalog.NetworkMTN) {
		assert.Contains(t, reply, plan.Size)
	}
	assert.Contains(t, reply, "Buy MTN 2GB for 08012345678")

	reply = c.Compose(IntentNetworkInquiry, "tell me about glo")
	assert.Contains(t, reply, "GLO DATA PLANS")
	assert.Contains(t, reply, "2.5GB")
	assert.Contains(t, reply, "₦500")
}

func TestComposeNetworkInquiryDisambiguation(t *testing.T) {
	c := newTestComposer()

	reply := c.Compose(IntentNetworkInquiry, "which network do you have")
	assert.Equal(t, "Please specify: MTN, GLO, or Airtel?", reply)
}

func TestComposeCatalogBrowse(t *testing.T) {
	c := newTestComposer()

	reply := c.Compose(IntentCatalogBrowse, "data")
	for _, n := range []string{"MTN", "GLO", "AIRTEL"} {
		assert.Contains(t, reply, "*"+n+":*")
	}
	// First two plans per network only.
	assert.Contains(t, reply, "1GB - ₦300")
	assert.Contains(t, reply, "2GB - ₦500")
	assert.NotContains(t, reply, "5GB - ₦1000")
	assert.NotContains(t, reply, "10GB")
	assert.Contains(t, reply, "Or type *'buy'* for purchase instructions.")
}

func TestComposePriceInquiry(t *testing.T) {
	c := newTestComposer()

	reply := c.Compose(IntentPriceInquiry, "how much")
	assert.Contains(t, reply, "QUICK PRICE LIST")
	assert.Contains(t, reply, "1GB - ₦300 | 2GB - ₦500 | 5GB - ₦1000 | 10GB - ₦2000")
	assert.Contains(t, reply, "1GB - ₦280 | 2.5GB - ₦500 | 5GB - ₦950 | 10GB - ₦1900")
	assert.Contains(t, reply, "1GB - ₦320 | 2GB - ₦550 | 5GB - ₦1100 | 10GB - ₦2100")
}

func TestComposeOrderSubmission(t *testing.T) {
	c := newTestComposer()

	reply := c.Compose(IntentOrderSubmission, "buy")
	assert.Contains(t, reply, "HOW TO BUY DATA")
	assert.Contains(t, reply, "'Buy [Network] [Size] for [Phone Number]'")
	assert.Contains(t, reply, "'Buy MTN 2GB for 08012345678'")
}

func TestComposeStaticTemplates(t *testing.T) {
	c := newTestComposer()

	assert.Contains(t, c.Compose(IntentGreeting, "hi"), "Welcome to our Automated Data Service")
	assert.Contains(t, c.Compose(IntentThanks, "thanks"), "You're welcome")
	assert.Contains(t, c.Compose(IntentFallback, "???"), "I'm here to help you buy data bundles")
}

func TestComposeIsPure(t *testing.T) {
	c := newTestComposer()

	for _, intent := range []Intent{IntentGreeting, IntentNetworkInquiry, IntentCatalogBrowse, IntentPriceInquiry, IntentOrderSubmission, IntentThanks, IntentFallback} {
		first := c.Compose(intent, "mtn data")
		second := c.Compose(intent, "mtn data")
		require.Equal(t, first, second, "intent %s", intent)
		require.NotEmpty(t, first)
	}
}
