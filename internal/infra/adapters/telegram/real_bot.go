package telegram

import (
	"context"
	"errors"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"course-subscription-platform/internal/domain/ports/adapter"
)

var _ adapter.TelegramBotAdapter = (*RealBotAdapter)(nil)

// RealBotAdapter sends user-facing messages through the Telegram Bot API.
// This platform only pushes; update handling lives in the mini-app backend.
type RealBotAdapter struct {
	bot *tgbotapi.BotAPI
}

func NewRealBotAdapter(token string) (*RealBotAdapter, error) {
	if token == "" {
		return nil, errors.New("bot token is empty")
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &RealBotAdapter{bot: bot}, nil
}

func (b *RealBotAdapter) SendMessage(ctx context.Context, telegramID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := tgbotapi.NewMessage(telegramID, text)
	_, err := b.bot.Send(msg)
	return err
}
