package adapter

import "context"

// TelegramBotAdapter is the external messaging sink. Calls are fire-and-forget
// from the caller's perspective; errors are logged, never propagated upstream.
type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, telegramID int64, text string) error
}
