package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// WhatsAppBusinessClient sends messages through the WhatsApp Business
// Cloud API (graph.facebook.com). Receiving is webhook-based and lives
// in the HTTP layer.
type WhatsAppBusinessClient struct {
	baseURL       string
	accessToken   string
	phoneNumberID string
	httpClient    *http.Client
	logger        *slog.Logger
}

func NewWhatsAppBusinessClient(baseURL, accessToken, phoneNumberID string, logger *slog.Logger) *WhatsAppBusinessClient {
	return &WhatsAppBusinessClient{
		baseURL:       baseURL,
		accessToken:   accessToken,
		phoneNumberID: phoneNumberID,
		httpClient:    &http.Client{Timeout: 10 * time.Second},
		logger:        logger.With("component", "whatsapp_business"),
	}
}

// SendMessage delivers a text message to the recipient phone number.
func (w *WhatsAppBusinessClient) SendMessage(ctx context.Context, to, content string) error {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text": map[string]string{
			"body": content,
		},
	}
	return w.post(ctx, payload)
}

// MarkMessageRead flags an inbound message as read so the customer sees
// the bot has received it.
func (w *WhatsAppBusinessClient) MarkMessageRead(ctx context.Context, messageID string) error {
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"status":            "read",
		"message_id":        messageID,
	}
	return w.post(ctx, payload)
}

func (w *WhatsAppBusinessClient) post(ctx context.Context, payload map[string]any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", w.baseURL, w.phoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+w.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("graph api request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		w.logger.Error("graph api rejected request", "status", resp.StatusCode, "body", string(body))
		return fmt.Errorf("graph api status %d", resp.StatusCode)
	}
	return nil
}
