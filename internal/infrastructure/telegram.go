package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramClient is the optional Telegram channel. The same bundle
// conversation runs over long polling when a bot token is configured.
type TelegramClient struct {
	Bot    *tgbotapi.BotAPI
	logger *slog.Logger
}

func NewTelegramClient(token string, logger *slog.Logger) (*TelegramClient, error) {
	if token == "" {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramClient{
		Bot:    bot,
		logger: logger.With("component", "telegram"),
	}, nil
}

// SendMessage delivers text to a chat ID given as a decimal string.
func (t *TelegramClient) SendMessage(ctx context.Context, to, content string) error {
	_ = ctx // the bot API has no context-aware send
	chatID, err := strconv.ParseInt(to, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid chat id %q: %w", to, err)
	}
	_, err = t.Bot.Send(tgbotapi.NewMessage(chatID, content))
	return err
}

// Poll consumes updates until ctx is cancelled, forwarding each text
// message to handle.
func (t *TelegramClient) Poll(ctx context.Context, handle func(messageID, chatID, text string)) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := t.Bot.GetUpdatesChan(u)

	t.logger.Info("telegram polling started", "bot", t.Bot.Self.UserName)
	for {
		select {
		case <-ctx.Done():
			t.Bot.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			handle(
				strconv.Itoa(update.Message.MessageID),
				strconv.FormatInt(update.Message.Chat.ID, 10),
				update.Message.Text,
			)
		}
	}
}
