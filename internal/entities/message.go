package entities

// Message is one inbound conversation turn from any channel.
type Message struct {
	ID         string // transport message ID, used for webhook dedup
	From       string // opaque sender identifier (phone number or chat ID)
	SenderName string // profile name when the channel provides one
	Type       string // "text" (or empty) for text; "image", "audio", ... otherwise
	Content    string
	Platform   string // e.g. "whatsapp", "whatsapp_personal", "telegram", "web"
}

// MessageRecord is a persisted conversation log entry.
type MessageRecord struct {
	CustomerID int64
	Direction  string // "incoming" or "outgoing"
	Platform   string
	Content    string
}
