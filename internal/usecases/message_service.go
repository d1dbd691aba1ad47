package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dataseller/internal/bot"
	"dataseller/internal/catalog"
	"dataseller/internal/entities"
	"dataseller/internal/infrastructure"
	"dataseller/internal/interfaces"

	"github.com/google/uuid"
)

var (
	ErrDuplicateMessage = errors.New("duplicate message")
	ErrRateLimited      = errors.New("sender rate limited")
)

// CustomerStore is the slice of the customer repository the message
// service needs.
type CustomerStore interface {
	Upsert(ctx context.Context, phoneNumber, name string) (*entities.Customer, error)
}

// OrderStore records orders captured from purchase messages.
type OrderStore interface {
	Create(ctx context.Context, o *entities.Order) error
}

// ProductStore resolves a catalog offer to its products table row.
type ProductStore interface {
	ProductID(ctx context.Context, network catalog.Network, size string) (int, error)
}

// MessageLog persists the conversation transcript.
type MessageLog interface {
	Insert(ctx context.Context, rec entities.MessageRecord) error
}

// Deduper filters redelivered transport messages.
type Deduper interface {
	FirstSeen(ctx context.Context, messageID string) bool
}

// MessageService runs one conversation turn: dedup, persist the
// customer and transcript, generate the reply through the bot core,
// capture complete orders, and send the reply back on the originating
// channel. Reply generation itself is pure; everything stateful happens
// here.
type MessageService struct {
	bot       *bot.Bot
	catalog   *catalog.Catalog
	customers CustomerStore
	orders    OrderStore
	products  ProductStore
	log       MessageLog
	dedup     Deduper
	limiter   *infrastructure.MessageRateLimiter
	metrics   *infrastructure.Metrics
	logger    *slog.Logger

	// Messengers by platform name.
	messengers map[string]interfaces.Messenger
}

func NewMessageService(
	b *bot.Bot,
	cat *catalog.Catalog,
	customers CustomerStore,
	orders OrderStore,
	products ProductStore,
	log MessageLog,
	dedup Deduper,
	limiter *infrastructure.MessageRateLimiter,
	metrics *infrastructure.Metrics,
	logger *slog.Logger,
) *MessageService {
	return &MessageService{
		bot:        b,
		catalog:    cat,
		customers:  customers,
		orders:     orders,
		products:   products,
		log:        log,
		dedup:      dedup,
		limiter:    limiter,
		metrics:    metrics,
		logger:     logger.With("component", "message_service"),
		messengers: make(map[string]interfaces.Messenger),
	}
}

// RegisterMessenger attaches an outbound channel. Nil messengers are
// ignored so unconfigured channels can be passed straight through.
func (s *MessageService) RegisterMessenger(platform string, m interfaces.Messenger) {
	if m == nil {
		return
	}
	s.messengers[platform] = m
}

// ProcessMessage handles one inbound message end to end. Errors are
// logged, never returned to the transport: the webhook has already been
// acknowledged by the time this runs.
func (s *MessageService) ProcessMessage(ctx context.Context, msg entities.Message) {
	customer, reply, err := s.converse(ctx, msg)
	if err != nil {
		return
	}
	s.reply(ctx, msg, customer.ID, reply)
}

// Reply runs one turn synchronously and returns the reply text instead
// of dispatching it. Used by request/response channels like the web
// widget, which have no outbound messenger to push to.
func (s *MessageService) Reply(ctx context.Context, msg entities.Message) (string, error) {
	customer, reply, err := s.converse(ctx, msg)
	if err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.OutgoingMessages.WithLabelValues(msg.Platform).Inc()
	}
	if err := s.log.Insert(ctx, entities.MessageRecord{
		CustomerID: customer.ID,
		Direction:  "outgoing",
		Platform:   msg.Platform,
		Content:    reply,
	}); err != nil {
		s.logger.Warn("failed logging outgoing message", "error", err)
	}
	return reply, nil
}

// converse is the shared turn logic: dedup, rate limit, persistence of
// the customer and incoming transcript, then reply generation with
// order capture.
func (s *MessageService) converse(ctx context.Context, msg entities.Message) (*entities.Customer, string, error) {
	// Web messages carry no transport ID and are never deduplicated.
	if s.dedup != nil && msg.ID != "" && !s.dedup.FirstSeen(ctx, msg.ID) {
		s.logger.Debug("duplicate message skipped", "id", msg.ID)
		return nil, "", ErrDuplicateMessage
	}
	if s.limiter != nil && !s.limiter.Allow(msg.From) {
		s.logger.Warn("sender rate limited", "from", msg.From)
		return nil, "", ErrRateLimited
	}

	if s.metrics != nil {
		s.metrics.IncomingMessages.WithLabelValues(msg.Platform).Inc()
	}

	customer, err := s.customers.Upsert(ctx, msg.From, msg.SenderName)
	if err != nil {
		s.logger.Error("failed upserting customer", "error", err)
		s.countError("customer_upsert")
		return nil, "", fmt.Errorf("upsert customer: %w", err)
	}

	if err := s.log.Insert(ctx, entities.MessageRecord{
		CustomerID: customer.ID,
		Direction:  "incoming",
		Platform:   msg.Platform,
		Content:    msg.Content,
	}); err != nil {
		s.logger.Warn("failed logging incoming message", "error", err)
	}

	if msg.Type != "" && msg.Type != "text" {
		return customer, nonTextReply(msg.Type), nil
	}

	intent := s.bot.Classify(msg.Content)
	if s.metrics != nil {
		s.metrics.Intents.WithLabelValues(string(intent)).Inc()
	}

	reply := s.bot.HandleMessage(msg.Content, msg.From)
	if intent == bot.IntentOrderSubmission {
		if orderReply, ok := s.captureOrder(ctx, customer, msg.Content); ok {
			reply = orderReply
		}
	}
	return customer, reply, nil
}

// captureOrder records a pending order when the message carries a
// complete, catalog-valid (network, size, phone) triple. Incomplete or
// unknown combinations fall back to the generic purchase instructions.
func (s *MessageService) captureOrder(ctx context.Context, customer *entities.Customer, text string) (string, bool) {
	extracted := s.bot.Extract(text)
	if !extracted.Complete() {
		return "", false
	}
	offer, ok := s.catalog.Find(extracted.Network, extracted.Size)
	if !ok {
		return "", false
	}

	productID := 0
	if s.products != nil {
		id, err := s.products.ProductID(ctx, offer.Network, offer.Size)
		if err != nil {
			s.logger.Warn("product row lookup failed", "error", err)
		} else {
			productID = id
		}
	}

	order := &entities.Order{
		Reference:       newOrderRef(),
		CustomerID:      customer.ID,
		ProductID:       productID,
		Network:         string(offer.Network),
		BundleSize:      offer.Size,
		PhoneToRecharge: extracted.Phone,
		Amount:          offer.Price,
		Status:          entities.OrderStatusPending,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.logger.Error("failed storing order", "error", err)
		s.countError("order_create")
		return "", false
	}

	if s.metrics != nil {
		s.metrics.OrdersCaptured.Inc()
	}
	s.logger.Info("order captured",
		"reference", order.Reference,
		"network", order.Network,
		"size", order.BundleSize,
	)
	return orderSummary(order, offer), true
}

func (s *MessageService) reply(ctx context.Context, msg entities.Message, customerID int64, text string) {
	messenger, ok := s.messengers[msg.Platform]
	if !ok {
		s.logger.Warn("no messenger for platform", "platform", msg.Platform)
		return
	}

	if err := messenger.SendMessage(ctx, msg.From, text); err != nil {
		s.logger.Error("failed sending reply", "error", err, "platform", msg.Platform)
		s.countError("send")
		return
	}
	if s.metrics != nil {
		s.metrics.OutgoingMessages.WithLabelValues(msg.Platform).Inc()
	}

	if err := s.log.Insert(ctx, entities.MessageRecord{
		CustomerID: customerID,
		Direction:  "outgoing",
		Platform:   msg.Platform,
		Content:    text,
	}); err != nil {
		s.logger.Warn("failed logging outgoing message", "error", err)
	}
}

func (s *MessageService) countError(stage string) {
	if s.metrics != nil {
		s.metrics.Errors.WithLabelValues(stage).Inc()
	}
}

// nonTextReply acknowledges media messages. Customers send receipt
// images here; verification itself happens through the admin API.
func nonTextReply(messageType string) string {
	if messageType == "image" {
		return "I received your image! Receipt processing coming soon."
	}
	return fmt.Sprintf("I received your %s message. Currently I only process text and images.", messageType)
}

func newOrderRef() string {
	return "ord-" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func orderSummary(order *entities.Order, offer catalog.BundleOffer) string {
	var sb strings.Builder
	sb.WriteString("✅ *ORDER RECEIVED*\n\n")
	fmt.Fprintf(&sb, "📶 Network: %s\n", order.Network)
	fmt.Fprintf(&sb, "📦 Bundle: %s (%s)\n", order.BundleSize, offer.Validity)
	fmt.Fprintf(&sb, "📱 Phone: %s\n", order.PhoneToRecharge)
	fmt.Fprintf(&sb, "💰 Amount: ₦%d\n", order.Amount)
	fmt.Fprintf(&sb, "🔖 Reference: %s\n\n", order.Reference)
	sb.WriteString("Please make payment and send your receipt to complete the order. 💳")
	return sb.String()
}
