package messenger

import (
	"context"
	"fmt"

	"coursebot/internal/domain"

	tele "gopkg.in/telebot.v3"
)

// Button is an inline button with a callback payload
type Button struct {
	Text string
	Data string
}

// Messenger pushes messages to a chat outside of a request/response cycle
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string, rows ...[]Button) error
}

// sender is the part of *tele.Bot used here
type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Telegram delivers messages through the bot API
type Telegram struct {
	bot sender
}

// NewTelegram creates a messenger on top of a bot
func NewTelegram(bot sender) *Telegram {
	return &Telegram{bot: bot}
}

// Send delivers text with optional inline button rows.
// Every failure is wrapped with domain.ErrTransport.
func (t *Telegram) Send(ctx context.Context, chatID int64, text string, rows ...[]Button) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: chat %d: %w", domain.ErrTransport, chatID, err)
	}

	var opts []interface{}
	if markup := InlineMarkup(rows); markup != nil {
		opts = append(opts, markup)
	}

	if _, err := t.bot.Send(tele.ChatID(chatID), text, opts...); err != nil {
		return fmt.Errorf("%w: chat %d: %w", domain.ErrTransport, chatID, err)
	}
	return nil
}

// InlineMarkup converts button rows into an inline keyboard, nil when empty
func InlineMarkup(rows [][]Button) *tele.ReplyMarkup {
	if len(rows) == 0 {
		return nil
	}

	markup := &tele.ReplyMarkup{}
	teleRows := make([]tele.Row, 0, len(rows))
	for _, row := range rows {
		btns := make([]tele.Btn, 0, len(row))
		for _, b := range row {
			btns = append(btns, markup.Data(b.Text, b.Data))
		}
		teleRows = append(teleRows, markup.Row(btns...))
	}
	markup.Inline(teleRows...)
	return markup
}
