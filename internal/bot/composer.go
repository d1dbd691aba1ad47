package bot

import (
	"fmt"
	"strings"

	"dataseller/internal/catalog"
)

// Composer renders the reply text for a classified intent. Every render
// is a pure function of (intent, text) and the immutable catalog; there
// is no conversation state.
type Composer struct {
	catalog *catalog.Catalog
}

func NewComposer(c *catalog.Catalog) *Composer {
	return &Composer{catalog: c}
}

// Compose returns the human-readable reply for intent. The original
// message text is needed for NetworkInquiry, where the named network is
// resolved with the same lowercase substring checks the classifier uses.
func (c *Composer) Compose(intent Intent, text string) string {
	switch intent {
	case IntentGreeting:
		return c.welcomeMessage()
	case IntentNetworkInquiry:
		return c.networkPlans(strings.ToLower(text))
	case IntentCatalogBrowse:
		return c.allNetworks()
	case IntentPriceInquiry:
		return c.pricingInfo()
	case IntentOrderSubmission:
		return c.purchaseInstructions()
	case IntentThanks:
		return "You're welcome! 😊 Let me know if you need more data bundles."
	default:
		return c.helpMessage()
	}
}

func (c *Composer) welcomeMessage() string {
	return "Hello! Welcome to our Automated Data Service! 📱\n\n" +
		"I can help you buy data bundles for:\n" +
		"• *MTN*\n" +
		"• *GLO*\n" +
		"• *Airtel*\n\n" +
		"Just tell me which network you need, or type *'data'* to see all bundles!"
}

func (c *Composer) networkPlans(lower string) string {
	var network catalog.Network
	switch {
	case strings.Contains(lower, "mtn"):
		network = catalog.NetworkMTN
	case strings.Contains(lower, "glo"):
		network = catalog.NetworkGLO
	case strings.Contains(lower, "airtel"):
		network = catalog.NetworkAirtel
	default:
		return "Please specify: MTN, GLO, or Airtel?"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📶 *%s DATA PLANS*\n\n", network)
	for _, plan := range c.catalog.PlansFor(network) {
		fmt.Fprintf(&sb, "• *%s* - ₦%d (%s)\n", plan.Size, plan.Price, plan.Validity)
	}
	fmt.Fprintf(&sb, "\nTo buy %s data, send:\n", network)
	fmt.Fprintf(&sb, "'Buy %s [size] for [phone number]'\n", network)
	fmt.Fprintf(&sb, "Example: 'Buy %s 2GB for 08012345678'", network)
	return sb.String()
}

func (c *Composer) allNetworks() string {
	var sb strings.Builder
	sb.WriteString("📊 *AVAILABLE DATA BUNDLES*\n\n")
	for _, network := range c.catalog.Networks() {
		fmt.Fprintf(&sb, "*%s:*\n", network)
		plans := c.catalog.PlansFor(network)
		// First two plans per network keeps the overview short.
		if len(plans) > 2 {
			plans = plans[:2]
		}
		for _, plan := range plans {
			fmt.Fprintf(&sb, "• %s - ₦%d (%s)\n", plan.Size, plan.Price, plan.Validity)
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Type *'MTN'*, *'GLO'*, or *'AIRTEL'* to see full plans!\n")
	sb.WriteString("Or type *'buy'* for purchase instructions.")
	return sb.String()
}

func (c *Composer) pricingInfo() string {
	var sb strings.Builder
	sb.WriteString("💰 *QUICK PRICE LIST*\n\n")
	for _, network := range c.catalog.Networks() {
		fmt.Fprintf(&sb, "*%s:*\n", network)
		var parts []string
		for _, plan := range c.catalog.PlansFor(network) {
			parts = append(parts, fmt.Sprintf("%s - ₦%d", plan.Size, plan.Price))
		}
		sb.WriteString(strings.Join(parts, " | "))
		sb.WriteString("\n\n")
	}
	sb.WriteString("Type the network name (MTN, GLO, AIRTEL) for full details!")
	return sb.String()
}

func (c *Composer) purchaseInstructions() string {
	return "🛒 *HOW TO BUY DATA*\n\n" +
		"1. *Choose your network*: MTN, GLO, or Airtel\n" +
		"2. *Select bundle size*: 1GB, 2GB, 5GB, 10GB, etc.\n" +
		"3. *Provide phone number* to recharge\n\n" +
		"*Format:*\n" +
		"'Buy [Network] [Size] for [Phone Number]'\n\n" +
		"*Examples:*\n" +
		"• 'Buy MTN 2GB for 08012345678'\n" +
		"• 'Buy GLO 1GB for 07098765432'\n" +
		"• 'Buy Airtel 5GB for 08123456789'\n\n" +
		"I'll then provide payment details! 💳"
}

func (c *Composer) helpMessage() string {
	return "I'm here to help you buy data bundles! 📱\n\n" +
		"You can ask me about:\n" +
		"• *Data bundles* - Type 'data' or 'MTN', 'GLO', 'Airtel'\n" +
		"• *Prices* - Type 'price' or 'how much'\n" +
		"• *How to buy* - Type 'buy' or 'purchase'\n" +
		"• *Specific networks* - Just say 'MTN', 'GLO', or 'Airtel'\n\n" +
		"What would you like to know? 😊"
}
