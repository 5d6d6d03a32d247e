package notify

import (
	"bytes"
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// TelegramNotifier delivers alerts as photo messages to a single chat,
// using the telebot library. The bot is send-only: no poller is attached
// and no inbound updates are handled.
type TelegramNotifier struct {
	bot    *telebot.Bot
	chat   telebot.ChatID
	logger *logrus.Logger
}

func NewTelegramNotifier(token string, chatID int64, logger *logrus.Logger) (*TelegramNotifier, error) {
	bot, err := telebot.NewBot(telebot.Settings{Token: token})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &TelegramNotifier{
		bot:    bot,
		chat:   telebot.ChatID(chatID),
		logger: logger,
	}, nil
}

// NotifyTest sends a wiring-check message. Telegram has no per-message
// priority, so test sends only differ by their message text.
func (n *TelegramNotifier) NotifyTest(ctx context.Context, message string, image []byte) error {
	return n.Notify(ctx, message, image)
}

// Notify sends the message as a photo caption when an image is provided,
// or as a plain text message otherwise.
func (n *TelegramNotifier) Notify(_ context.Context, message string, image []byte) error {
	var err error
	if len(image) > 0 {
		photo := &telebot.Photo{
			File:    telebot.FromReader(bytes.NewReader(image)),
			Caption: message,
		}
		_, err = n.bot.Send(n.chat, photo)
	} else {
		_, err = n.bot.Send(n.chat, message)
	}
	if err != nil {
		return fmt.Errorf("send telegram notification: %w", err)
	}
	n.logger.WithField("chat_id", int64(n.chat)).Debug("telegram notification delivered")
	return nil
}
