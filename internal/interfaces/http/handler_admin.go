package http

import (
	"context"
	"log/slog"
	"net/http"

	"dataseller/internal/catalog"
	"dataseller/internal/entities"
	"dataseller/internal/infrastructure"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
)

// Store slices used by the admin API. Declared here so the handlers can
// be tested against fakes.
type OrderAdminStore interface {
	List(ctx context.Context, status string, limit int) ([]entities.Order, error)
	GetByReference(ctx context.Context, reference string) (*entities.Order, error)
	UpdateStatus(ctx context.Context, reference, status string) error
	RecordTransaction(ctx context.Context, t *entities.Transaction) error
	TransactionsFor(ctx context.Context, orderID int64) ([]entities.Transaction, error)
}

type CustomerAdminStore interface {
	List(ctx context.Context, limit int) ([]entities.Customer, error)
	GetByPhone(ctx context.Context, phoneNumber string) (*entities.Customer, error)
	IncrementPurchases(ctx context.Context, customerID int64) error
}

type MessageStatsStore interface {
	CountByDirection(ctx context.Context) (incoming, outgoing int64, err error)
}

type AdminHandler struct {
	orders    OrderAdminStore
	customers CustomerAdminStore
	messages  MessageStatsStore
	catalog   *catalog.Catalog
	wa        *infrastructure.WhatsAppClient
	logger    *slog.Logger
}

func NewAdminHandler(
	orders OrderAdminStore,
	customers CustomerAdminStore,
	messages MessageStatsStore,
	cat *catalog.Catalog,
	wa *infrastructure.WhatsAppClient,
	logger *slog.Logger,
) *AdminHandler {
	return &AdminHandler{
		orders:    orders,
		customers: customers,
		messages:  messages,
		catalog:   cat,
		wa:        wa,
		logger:    logger.With("component", "admin_api"),
	}
}

// GetStats returns message traffic and backlog counters.
func (h *AdminHandler) GetStats(c *gin.Context) {
	incoming, outgoing, err := h.messages.CountByDirection(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}
	pending, err := h.orders.List(c.Request.Context(), entities.OrderStatusPending, 1000)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"incoming_messages": incoming,
		"outgoing_messages": outgoing,
		"pending_orders":    len(pending),
	})
}

func (h *AdminHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customers.List(c.Request.Context(), queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customers"})
		return
	}
	c.JSON(http.StatusOK, customers)
}

// GetCustomer looks a customer up by phone number.
func (h *AdminHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customers.GetByPhone(c.Request.Context(), c.Param("phone"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch customer"})
		return
	}
	if customer == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Customer not found"})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// ListOrders returns recent orders, optionally filtered by ?status=.
func (h *AdminHandler) ListOrders(c *gin.Context) {
	status := c.Query("status")
	if status != "" && !validOrderStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status"})
		return
	}
	orders, err := h.orders.List(c.Request.Context(), status, queryLimit(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *AdminHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	transactions, err := h.orders.TransactionsFor(c.Request.Context(), order.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "transactions": transactions})
}

// VerifyPayment records a manually verified payment against a pending
// order and moves it to paid.
func (h *AdminHandler) VerifyPayment(c *gin.Context) {
	reference := c.Param("reference")

	var payload struct {
		BankReference string `json:"bank_reference" binding:"required"`
		BankName      string `json:"bank_name"`
		Amount        int    `json:"amount"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	order, err := h.orders.GetByReference(c.Request.Context(), reference)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	if order.Status != entities.OrderStatusPending {
		c.JSON(http.StatusConflict, gin.H{"error": "Order is not awaiting payment", "status": order.Status})
		return
	}

	amount := payload.Amount
	if amount == 0 {
		amount = order.Amount
	}
	tx := &entities.Transaction{
		OrderID:            order.ID,
		BankReference:      payload.BankReference,
		Amount:             amount,
		IsVerified:         true,
		VerificationMethod: "manual",
		BankName:           payload.BankName,
	}
	if err := h.orders.RecordTransaction(c.Request.Context(), tx); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record transaction"})
		return
	}
	if err := h.orders.UpdateStatus(c.Request.Context(), reference, entities.OrderStatusPaid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	h.logger.Info("payment verified", "reference", reference, "bank_reference", payload.BankReference)
	c.JSON(http.StatusOK, gin.H{"status": entities.OrderStatusPaid, "reference": reference})
}

// UpdateOrderStatus moves an order through its lifecycle. Marking an
// order completed also bumps the customer's purchase counter.
func (h *AdminHandler) UpdateOrderStatus(c *gin.Context) {
	reference := c.Param("reference")

	var payload struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil || !validOrderStatus(payload.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	order, err := h.orders.GetByReference(c.Request.Context(), reference)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if err := h.orders.UpdateStatus(c.Request.Context(), reference, payload.Status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
		return
	}

	if payload.Status == entities.OrderStatusCompleted {
		if err := h.customers.IncrementPurchases(c.Request.Context(), order.CustomerID); err != nil {
			h.logger.Warn("failed bumping purchase counter", "error", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": payload.Status, "reference": reference})
}

// GetCatalog lists every bundle on offer.
func (h *AdminHandler) GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog.AllPlans())
}

// GetWhatsAppQR returns the pairing QR as a PNG while the personal
// WhatsApp session is not yet logged in.
func (h *AdminHandler) GetWhatsAppQR(c *gin.Context) {
	if h.wa == nil {
		c.String(http.StatusServiceUnavailable, "WhatsApp not configured")
		return
	}
	if h.wa.IsLoggedIn() {
		c.String(http.StatusOK, "Already logged in")
		return
	}
	code := h.wa.GetQR()
	if code == "" {
		c.String(http.StatusAccepted, "QR code not yet available. Please wait...")
		return
	}
	png, err := qrcode.Encode(code, qrcode.Medium, 256)
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to generate QR code")
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *AdminHandler) GetWhatsAppStatus(c *gin.Context) {
	if h.wa == nil {
		c.JSON(http.StatusOK, gin.H{"connected": false, "configured": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"configured": true,
		"connected":  h.wa.IsConnected(),
		"logged_in":  h.wa.IsLoggedIn(),
		"phone":      h.wa.PhoneNumber(),
		"has_qr":     h.wa.GetQR() != "",
	})
}

func (h *AdminHandler) LogoutWhatsApp(c *gin.Context) {
	if h.wa == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WhatsApp not configured"})
		return
	}
	if err := h.wa.Logout(c.Request.Context()); err != nil {
		h.logger.Warn("whatsapp logout", "error", err)
	}
	c.JSON(http.StatusOK, gin.H{"status": "logged_out"})
}

func validOrderStatus(s string) bool {
	switch s {
	case entities.OrderStatusPending, entities.OrderStatusPaid,
		entities.OrderStatusProcessing, entities.OrderStatusCompleted,
		entities.OrderStatusFailed:
		return true
	}
	return false
}
