// Package bot implements the conversational engine for the data bundle
// shop: a rule-based intent classifier, a best-effort order field
// extractor, and a response composer over the fixed bundle catalog.
// The whole pipeline is pure and stateless; callers own persistence,
// delivery, and any multi-turn context.
package bot

import "dataseller/internal/catalog"

// Bot is the single entry point for turning an inbound message into a
// reply. Safe for concurrent use; all state is the read-only catalog.
type Bot struct {
	classifier *Classifier
	extractor  *Extractor
	composer   *Composer
}

func New(c *catalog.Catalog) *Bot {
	return &Bot{
		classifier: NewClassifier(),
		extractor:  NewExtractor(),
		composer:   NewComposer(c),
	}
}

// HandleMessage returns the reply text for one customer message. It is
// total: every input, including the empty string, yields a non-empty
// reply. The customer identifier is accepted for interface symmetry
// with the transports; reply content does not depend on it.
func (b *Bot) HandleMessage(text, customerID string) string {
	_ = customerID
	intent := b.classifier.Classify(text)
	return b.composer.Compose(intent, text)
}

// Classify exposes the classifier for callers that need the intent
// alongside the reply (order capture, metrics).
func (b *Bot) Classify(text string) Intent {
	return b.classifier.Classify(text)
}

// Extract exposes order field extraction as a directly callable
// capability, independent of the reply path.
func (b *Bot) Extract(text string) ExtractedOrder {
	return b.extractor.Extract(text)
}
