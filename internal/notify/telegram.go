package notify

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/davr-ledger/davr-ledger/internal/reminders"
)

// TelegramNotifier delivers notifications over the Telegram bot API. The
// owner's external reference is the chat id.
type TelegramNotifier struct {
	bot *tgbotapi.BotAPI
}

// NewTelegramNotifier connects the bot.
func NewTelegramNotifier(token string) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("notify: telegram: %w", err)
	}
	return &TelegramNotifier{bot: bot}, nil
}

// Send delivers the rendered notification to the owner's chat.
func (t *TelegramNotifier) Send(ctx context.Context, externalRef string, n reminders.Notification) error {
	chatID, err := strconv.ParseInt(externalRef, 10, 64)
	if err != nil {
		return fmt.Errorf("notify: telegram: invalid chat id %q: %w", externalRef, err)
	}
	text := Render(n)
	if text == "" {
		return nil
	}
	if _, err := t.bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		return fmt.Errorf("notify: telegram: send: %w", err)
	}
	return nil
}
