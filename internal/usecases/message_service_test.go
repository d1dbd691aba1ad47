package usecases

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"dataseller/internal/bot"
	"dataseller/internal/catalog"
	"dataseller/internal/entities"
	"dataseller/internal/infrastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCustomerStore struct {
	upserts []string
	failing bool
}

func (f *fakeCustomerStore) Upsert(_ context.Context, phoneNumber, _ string) (*entities.Customer, error) {
	if f.failing {
		return nil, errors.New("db down")
	}
	f.upserts = append(f.upserts, phoneNumber)
	return &entities.Customer{ID: 7, PhoneNumber: phoneNumber}, nil
}

type fakeOrderStore struct {
	orders  []*entities.Order
	failing bool
}

func (f *fakeOrderStore) Create(_ context.Context, o *entities.Order) error {
	if f.failing {
		return errors.New("db down")
	}
	f.orders = append(f.orders, o)
	return nil
}

type fakeProductStore struct{}

func (fakeProductStore) ProductID(_ context.Context, network catalog.Network, size string) (int, error) {
	if network == catalog.NetworkMTN && size == "2GB" {
		return 12, nil
	}
	return 0, errors.New("no such product")
}

type fakeMessageLog struct {
	records []entities.MessageRecord
}

func (f *fakeMessageLog) Insert(_ context.Context, rec entities.MessageRecord) error {
	f.records = append(f.records, rec)
	return nil
}

type fakeMessenger struct {
	sent    []string
	failing bool
}

func (f *fakeMessenger) SendMessage(_ context.Context, _, content string) error {
	if f.failing {
		return errors.New("network error")
	}
	f.sent = append(f.sent, content)
	return nil
}

type rejectAllDeduper struct{}

func (rejectAllDeduper) FirstSeen(context.Context, string) bool { return false }

func newTestService(t *testing.T) (*MessageService, *fakeCustomerStore, *fakeOrderStore, *fakeMessageLog, *fakeMessenger) {
	t.Helper()
	cat := catalog.Default()
	customers := &fakeCustomerStore{}
	orders := &fakeOrderStore{}
	log := &fakeMessageLog{}
	messenger := &fakeMessenger{}

	svc := NewMessageService(
		bot.New(cat), cat,
		customers, orders, fakeProductStore{}, log,
		nil, nil, nil,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	svc.RegisterMessenger("whatsapp", messenger)
	return svc, customers, orders, log, messenger
}

func TestProcessMessageRepliesAndLogsBothDirections(t *testing.T) {
	svc, customers, _, log, messenger := newTestService(t)

	svc.ProcessMessage(context.Background(), entities.Message{
		ID:       "wamid.1",
		From:     "2348031234567",
		Content:  "hello",
		Platform: "whatsapp",
	})

	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0], "Welcome to our Automated Data Service")
	assert.Equal(t, []string{"2348031234567"}, customers.upserts)

	require.Len(t, log.records, 2)
	assert.Equal(t, "incoming", log.records[0].Direction)
	assert.Equal(t, "hello", log.records[0].Content)
	assert.Equal(t, "outgoing", log.records[1].Direction)
	assert.Equal(t, int64(7), log.records[1].CustomerID)
}

func TestProcessMessageCapturesCompleteOrder(t *testing.T) {
	svc, _, orders, _, messenger := newTestService(t)

	svc.ProcessMessage(context.Background(), entities.Message{
		ID:       "wamid.2",
		From:     "2348031234567",
		Content:  "I want to buy MTN 2GB for 08012345678",
		Platform: "whatsapp",
	})

	require.Len(t, orders.orders, 1)
	order := orders.orders[0]
	assert.Equal(t, "MTN", order.Network)
	assert.Equal(t, "2GB", order.BundleSize)
	assert.Equal(t, 12, order.ProductID)
	assert.Equal(t, "08012345678", order.PhoneToRecharge)
	assert.Equal(t, 500, order.Amount)
	assert.Equal(t, entities.OrderStatusPending, order.Status)
	assert.Equal(t, int64(7), order.CustomerID)
	assert.True(t, strings.HasPrefix(order.Reference, "ord-"))

	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0], "ORDER RECEIVED")
	assert.Contains(t, messenger.sent[0], order.Reference)
	assert.Contains(t, messenger.sent[0], "₦500")
}

func TestProcessMessageOrderSurvivesProductLookupFailure(t *testing.T) {
	svc, _, orders, _, messenger := newTestService(t)

	// The fake product store only knows MTN 2GB; the order still lands
	// without a product row reference.
	svc.ProcessMessage(context.Background(), entities.Message{
		ID:       "wamid.glo",
		From:     "2348031234567",
		Content:  "buy glo 1gb for 08012345678",
		Platform: "whatsapp",
	})

	require.Len(t, orders.orders, 1)
	assert.Equal(t, 0, orders.orders[0].ProductID)
	assert.Equal(t, "GLO", orders.orders[0].Network)
	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0], "ORDER RECEIVED")
}

func TestProcessMessageIncompleteOrderFallsBackToInstructions(t *testing.T) {
	svc, _, orders, _, messenger := newTestService(t)

	// No phone number: classified as a purchase but not captured.
	svc.ProcessMessage(context.Background(), entities.Message{
		ID:       "wamid.3",
		From:     "2348031234567",
		Content:  "buy mtn 2gb",
		Platform: "whatsapp",
	})

	assert.Empty(t, orders.orders)
	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0], "HOW TO BUY DATA")
}

func TestProcessMessageUnknownCombinationNotCaptured(t *testing.T) {
	svc, _, orders, _, messenger := newTestService(t)

	// GLO sells no plain 2GB bundle.
	svc.ProcessMessage(context.Background(), entities.Message{
		ID:       "wamid.4",
		From:     "2348031234567",
		Content:  "buy glo 2gb for 08012345678",
		Platform: "whatsapp",
	})

	assert.Empty(t, orders.orders)
	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0], "HOW TO BUY DATA")
}

func TestProcessMessageOrderStoreFailureStillReplies(t *testing.T) {
	svc, _, orders, _, messenger := newTestService(t)
	orders.failing = true

	svc.ProcessMessage(context.Background(), entities.Message{
		ID:       "wamid.5",
		From:     "2348031234567",
		Content:  "buy mtn 2gb for 08012345678",
		Platform: "whatsapp",
	})

	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0], "HOW TO BUY DATA")
}

func TestReplyReturnsComposedTextAndLogsBothDirections(t *testing.T) {
	svc, customers, _, log, messenger := newTestService(t)

	reply, err := svc.Reply(context.Background(), entities.Message{
		From:     "web-visitor-1",
		Content:  "hello",
		Platform: "web",
	})

	require.NoError(t, err)
	assert.Contains(t, reply, "Welcome to our Automated Data Service")
	// No messenger involved on the synchronous path.
	assert.Empty(t, messenger.sent)
	assert.Equal(t, []string{"web-visitor-1"}, customers.upserts)

	require.Len(t, log.records, 2)
	assert.Equal(t, "incoming", log.records[0].Direction)
	assert.Equal(t, "outgoing", log.records[1].Direction)
	assert.Equal(t, "web", log.records[1].Platform)
	assert.Equal(t, reply, log.records[1].Content)
}

func TestReplyCapturesCompleteOrder(t *testing.T) {
	svc, _, orders, _, _ := newTestService(t)

	reply, err := svc.Reply(context.Background(), entities.Message{
		From:     "web-visitor-1",
		Content:  "buy mtn 2gb for 08012345678",
		Platform: "web",
	})

	require.NoError(t, err)
	require.Len(t, orders.orders, 1)
	assert.Contains(t, reply, "ORDER RECEIVED")
	assert.Contains(t, reply, orders.orders[0].Reference)
}

func TestReplyRateLimited(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)
	svc.limiter = infrastructure.NewMessageRateLimiter(0, 1)

	msg := entities.Message{From: "web-visitor-1", Content: "hello", Platform: "web"}

	_, err := svc.Reply(context.Background(), msg)
	require.NoError(t, err)

	// Burst exhausted, no refill.
	_, err = svc.Reply(context.Background(), msg)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestReplyCustomerFailurePropagates(t *testing.T) {
	svc, customers, _, log, _ := newTestService(t)
	customers.failing = true

	_, err := svc.Reply(context.Background(), entities.Message{
		From:     "web-visitor-1",
		Content:  "hello",
		Platform: "web",
	})

	assert.Error(t, err)
	assert.Empty(t, log.records)
}

func TestProcessMessageImageGetsReceiptAcknowledgement(t *testing.T) {
	svc, _, orders, _, messenger := newTestService(t)

	svc.ProcessMessage(context.Background(), entities.Message{
		ID:       "wamid.img",
		From:     "2348031234567",
		Type:     "image",
		Platform: "whatsapp",
	})

	assert.Empty(t, orders.orders)
	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0], "Receipt processing coming soon")
}

func TestProcessMessageUnsupportedTypeExplains(t *testing.T) {
	svc, _, _, _, messenger := newTestService(t)

	svc.ProcessMessage(context.Background(), entities.Message{
		ID:       "wamid.aud",
		From:     "2348031234567",
		Type:     "audio",
		Platform: "whatsapp",
	})

	require.Len(t, messenger.sent, 1)
	assert.Contains(t, messenger.sent[0], "audio")
	assert.Contains(t, messenger.sent[0], "only process text and images")
}

func TestProcessMessageDuplicateSkipped(t *testing.T) {
	svc, customers, _, _, messenger := newTestService(t)
	svc.dedup = rejectAllDeduper{}

	svc.ProcessMessage(context.Background(), entities.Message{
		ID:       "wamid.6",
		From:     "2348031234567",
		Content:  "hello",
		Platform: "whatsapp",
	})

	assert.Empty(t, messenger.sent)
	assert.Empty(t, customers.upserts)
}

func TestProcessMessageCustomerFailureStopsProcessing(t *testing.T) {
	svc, customers, _, log, messenger := newTestService(t)
	customers.failing = true

	svc.ProcessMessage(context.Background(), entities.Message{
		ID:       "wamid.7",
		From:     "2348031234567",
		Content:  "hello",
		Platform: "whatsapp",
	})

	assert.Empty(t, messenger.sent)
	assert.Empty(t, log.records)
}

func TestProcessMessageUnknownPlatformDropsReply(t *testing.T) {
	svc, _, _, log, messenger := newTestService(t)

	svc.ProcessMessage(context.Background(), entities.Message{
		ID:       "wamid.8",
		From:     "2348031234567",
		Content:  "hello",
		Platform: "sms",
	})

	assert.Empty(t, messenger.sent)
	// Incoming still logged, outgoing never happens.
	require.Len(t, log.records, 1)
	assert.Equal(t, "incoming", log.records[0].Direction)
}

func TestProcessMessageSendFailureSkipsOutgoingLog(t *testing.T) {
	svc, _, _, log, messenger := newTestService(t)
	messenger.failing = true

	svc.ProcessMessage(context.Background(), entities.Message{
		ID:       "wamid.9",
		From:     "2348031234567",
		Content:  "hello",
		Platform: "whatsapp",
	})

	require.Len(t, log.records, 1)
	assert.Equal(t, "incoming", log.records[0].Direction)
}
