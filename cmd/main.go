package main

import (
	"context"
	"errors"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"dataseller/internal/bot"
	"dataseller/internal/catalog"
	"dataseller/internal/config"
	"dataseller/internal/entities"
	"dataseller/internal/infrastructure"
	"dataseller/internal/interfaces/http"
	"dataseller/internal/repository"
	"dataseller/internal/usecases"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.mau.fi/whatsmeow/types/events"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// NewPostgresClient runs the schema migrations before returning.
	pg, err := infrastructure.NewPostgresClient(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed connecting to database", "error", err)
		os.Exit(1)
	}
	defer pg.Close()

	customerRepo := repository.NewCustomerRepository(pg.Pool)
	orderRepo := repository.NewOrderRepository(pg.Pool)
	productRepo := repository.NewProductRepository(pg.Pool)
	messageRepo := repository.NewMessageLogRepository(pg.Pool)
	userRepo := repository.NewUserRepository(pg.Pool)

	cat := catalog.Default()
	if err := productRepo.SyncFromCatalog(ctx, cat, logger); err != nil {
		logger.Warn("failed syncing catalog to products table", "error", err)
	}

	authUsecase := usecases.NewAuthUsecase(userRepo, cfg.JWTSecret)
	if cfg.AdminPassword != "" {
		if err := authUsecase.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			logger.Warn("failed ensuring admin user", "error", err)
		}
	} else {
		logger.Warn("ADMIN_PASSWORD not set, admin API has no login")
	}

	redisClient := infrastructure.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, logger)
	deduper := infrastructure.NewMessageDeduper(redisClient, 24*time.Hour, logger)
	limiter := infrastructure.NewMessageRateLimiter(1, 5)
	metrics := infrastructure.NewMetrics("dataseller", prometheus.DefaultRegisterer)

	svc := usecases.NewMessageService(
		bot.New(cat), cat,
		customerRepo, orderRepo, productRepo, messageRepo,
		deduper, limiter, metrics, logger,
	)

	// WhatsApp Cloud API sender for webhook-delivered messages.
	var waBusiness *infrastructure.WhatsAppBusinessClient
	if cfg.WhatsAppConfigured() {
		waBusiness = infrastructure.NewWhatsAppBusinessClient(
			cfg.GraphAPIBaseURL, cfg.WhatsAppToken, cfg.WhatsAppPhoneNumberID, logger)
		svc.RegisterMessenger("whatsapp", waBusiness)
	} else {
		logger.Warn("WhatsApp Cloud API not configured, webhook replies disabled")
	}

	// Optional personal-WhatsApp channel over whatsmeow.
	waClient := startPersonalWhatsApp(ctx, cfg, svc, logger)

	// Optional Telegram channel.
	startTelegram(ctx, cfg, svc, logger)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	var reader http.MessageReader
	if waBusiness != nil {
		reader = waBusiness
	}
	handler := http.NewHandler(svc, reader, cfg.VerifyToken, logger)
	adminHandler := http.NewAdminHandler(orderRepo, customerRepo, messageRepo, cat, waClient, logger)
	middleware := http.NewMiddleware(cfg.JWTSecret)
	http.SetupRoutes(r, handler, authUsecase, adminHandler, waClient, middleware)

	server := &nethttp.Server{
		Addr:              cfg.HTTPListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http server listening", "addr", cfg.HTTPListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", "error", err)
	}
	if waClient != nil {
		waClient.Disconnect()
	}
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.AppEnv == "production" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// startPersonalWhatsApp wires the QR-paired personal session when a
// device store path is configured. Failure to start is not fatal: the
// Cloud API webhook channel keeps working without it.
func startPersonalWhatsApp(ctx context.Context, cfg *config.Config, svc *usecases.MessageService, logger *slog.Logger) *infrastructure.WhatsAppClient {
	if cfg.WhatsAppStorePath == "" {
		return nil
	}

	waClient, err := infrastructure.NewWhatsAppClient(ctx, cfg.WhatsAppStorePath, logger)
	if err != nil {
		logger.Warn("personal whatsapp disabled", "error", err)
		return nil
	}

	waClient.AddHandler(func(evt interface{}) {
		v, ok := evt.(*events.Message)
		if !ok || v.Info.IsGroup {
			return
		}
		sender, content := waClient.ParseMessage(v)
		if content == "" {
			return
		}
		go svc.ProcessMessage(ctx, entities.Message{
			ID:         v.Info.ID,
			From:       sender,
			SenderName: v.Info.PushName,
			Content:    content,
			Platform:   "whatsapp_personal",
		})
	})

	if err := waClient.Connect(ctx); err != nil {
		logger.Warn("personal whatsapp connect failed", "error", err)
		return waClient
	}

	svc.RegisterMessenger("whatsapp_personal", waClient)
	return waClient
}

// startTelegram begins long polling when a bot token is configured.
func startTelegram(ctx context.Context, cfg *config.Config, svc *usecases.MessageService, logger *slog.Logger) {
	if cfg.TelegramBotToken == "" {
		return
	}

	tg, err := infrastructure.NewTelegramClient(cfg.TelegramBotToken, logger)
	if err != nil {
		logger.Warn("telegram disabled", "error", err)
		return
	}
	if tg == nil {
		return
	}

	svc.RegisterMessenger("telegram", tg)
	go tg.Poll(ctx, func(messageID, chatID, text string) {
		svc.ProcessMessage(ctx, entities.Message{
			ID:       messageID,
			From:     chatID,
			Content:  text,
			Platform: "telegram",
		})
	})
}
