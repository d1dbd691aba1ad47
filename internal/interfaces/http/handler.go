package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"dataseller/internal/entities"
	"dataseller/internal/infrastructure"
	"dataseller/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MessageProcessor is the slice of the message service the webhook
// handlers need. Push channels use ProcessMessage; the web widget has
// no outbound messenger and gets its reply back through Reply.
type MessageProcessor interface {
	ProcessMessage(ctx context.Context, msg entities.Message)
	Reply(ctx context.Context, msg entities.Message) (string, error)
}

// MessageReader marks transport messages as read once accepted.
// Nil when the Graph API client is not configured.
type MessageReader interface {
	MarkMessageRead(ctx context.Context, messageID string) error
}

type Handler struct {
	processor   MessageProcessor
	reader      MessageReader
	verifyToken string
	logger      *slog.Logger
}

func NewHandler(processor MessageProcessor, reader MessageReader, verifyToken string, logger *slog.Logger) *Handler {
	return &Handler{
		processor:   processor,
		reader:      reader,
		verifyToken: verifyToken,
		logger:      logger.With("component", "http"),
	}
}

func SetupRoutes(
	r *gin.Engine,
	h *Handler,
	auth *usecases.AuthUsecase,
	admin *AdminHandler,
	wa *infrastructure.WhatsAppClient,
	middleware *Middleware,
) {
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(10 << 20))
	r.Use(middleware.CORSMiddleware())

	r.GET("/", h.Home)
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/webhook", h.VerifyWebhook)
	r.POST("/webhook", h.ReceiveWebhook)
	r.POST("/webhook/web", h.HandleWebMessage)

	r.POST("/api/auth/login", func(c *gin.Context) {
		var loginReq struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := c.ShouldBindJSON(&loginReq); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		token, err := auth.Login(c.Request.Context(), loginReq.Username, loginReq.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token})
	})

	api := r.Group("/api/admin")
	api.Use(middleware.AuthRequired())
	api.Use(middleware.RateLimitPerUser(5, 10))
	{
		api.GET("/stats", admin.GetStats)
		api.GET("/customers", admin.ListCustomers)
		api.GET("/customers/:phone", admin.GetCustomer)
		api.GET("/orders", admin.ListOrders)
		api.GET("/orders/:reference", admin.GetOrder)
		api.POST("/orders/:reference/verify-payment", admin.VerifyPayment)
		api.PUT("/orders/:reference/status", admin.UpdateOrderStatus)
		api.GET("/catalog", admin.GetCatalog)

		if wa != nil {
			waGroup := api.Group("/whatsapp")
			waGroup.GET("/qr", admin.GetWhatsAppQR)
			waGroup.GET("/status", admin.GetWhatsAppStatus)
			waGroup.POST("/logout", admin.LogoutWhatsApp)
		}
	}
}

// VerifyWebhook answers Meta's subscription handshake: echo the
// challenge when the verify token matches, 403 otherwise.
func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token == h.verifyToken {
		h.logger.Info("webhook verified")
		c.String(http.StatusOK, challenge)
		return
	}
	c.String(http.StatusForbidden, "Verification failed")
}

// ReceiveWebhook ingests a message notification. It always answers
// 200 "OK": any other status makes Meta retry with backoff and
// eventually disable the subscription.
func (h *Handler) ReceiveWebhook(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("unparseable webhook payload", "error", err)
		c.String(http.StatusOK, "OK")
		return
	}

	msg, senderName, ok := payload.firstTextMessage()
	if !ok {
		// Status update, not a message.
		c.String(http.StatusOK, "OK")
		return
	}

	if h.reader != nil {
		go func() {
			if err := h.reader.MarkMessageRead(context.Background(), msg.ID); err != nil {
				h.logger.Warn("failed marking message read", "error", err)
			}
		}()
	}

	go h.processor.ProcessMessage(context.Background(), entities.Message{
		ID:         msg.ID,
		From:       msg.From,
		SenderName: senderName,
		Type:       msg.Type,
		Content:    SanitizeString(msg.Text.Body),
		Platform:   "whatsapp",
	})

	c.String(http.StatusOK, "OK")
}

// HandleWebMessage accepts messages from the web chat widget and
// answers with the bot's reply in the response body.
func (h *Handler) HandleWebMessage(c *gin.Context) {
	var payload struct {
		From    string `json:"from" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply, err := h.processor.Reply(c.Request.Context(), entities.Message{
		From:     payload.From,
		Content:  SanitizeString(payload.Content),
		Platform: "web",
	})
	if errors.Is(err, usecases.ErrRateLimited) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many messages, slow down"})
		return
	}
	if err != nil {
		h.logger.Error("web message failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Message could not be processed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "data-bundle-bot",
	})
}

func (h *Handler) Home(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(
		"<h1>Data Bundle Bot</h1><p>WhatsApp webhook is running.</p>"))
}
