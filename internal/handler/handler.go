package handler

import (
	"context"
	"time"

	"coursebot/internal/conversation"
	"coursebot/internal/messenger"
	"coursebot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler adapts telebot updates to the conversation router
type Handler struct {
	bot     *tele.Bot
	router  *conversation.Router
	timeout time.Duration
	logger  *zap.Logger
}

// NewHandler creates a new handler instance. timeout bounds the work done for one update.
func NewHandler(
	bot *tele.Bot,
	router *conversation.Router,
	timeout time.Duration,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:     bot,
		router:  router,
		timeout: timeout,
		logger:  logger,
	}
}

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers() {
	h.bot.Use(
		middleware.Recover(h.logger),
		middleware.Logging(h.logger),
	)

	// Commands
	h.bot.Handle("/start", h.handleText)

	// Text messages, including buttons of the reply keyboard
	h.bot.Handle(tele.OnText, h.handleText)

	// Inline buttons carry dynamic payloads, so everything lands here
	h.bot.Handle(tele.OnCallback, h.handleCallback)
}

func (h *Handler) handleText(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	resp := h.router.HandleText(ctx, conversation.Inbound{
		UserID:    sender.ID,
		FirstName: sender.FirstName,
		Username:  sender.Username,
		Text:      c.Text(),
	})
	return h.deliver(c, resp)
}

// deliver applies a router response to the chat
func (h *Handler) deliver(c tele.Context, resp conversation.Response) error {
	logger := middleware.LoggerFrom(c, h.logger)

	if c.Callback() != nil {
		h.applyToPrompt(c, &resp)

		if err := c.Respond(&tele.CallbackResponse{Text: resp.Notice}); err != nil {
			logger.Warn("Failed to acknowledge callback", zap.Error(err))
		}
	}

	for _, m := range resp.Messages {
		if err := c.Send(m.Text, sendOptions(m)...); err != nil {
			return err
		}
	}
	return nil
}

// applyToPrompt changes the message carrying the pressed button. A failed
// edit falls back to sending the new card as a fresh message.
func (h *Handler) applyToPrompt(c tele.Context, resp *conversation.Response) {
	logger := middleware.LoggerFrom(c, h.logger)

	switch {
	case resp.DeletePrompt:
		if err := c.Delete(); err != nil {
			logger.Warn("Failed to delete message", zap.Error(err))
		}

	case resp.EditPrompt != nil:
		if err := c.Edit(resp.EditPrompt.Text, sendOptions(*resp.EditPrompt)...); err != nil {
			if h.handleEditError(err, logger) != nil {
				resp.Messages = append(resp.Messages, *resp.EditPrompt)
			}
		}

	case resp.AppendPrompt != "":
		if msg := c.Message(); msg != nil {
			if err := c.Edit(msg.Text + resp.AppendPrompt); err != nil {
				_ = h.handleEditError(err, logger)
			}
		}
	}
}

// sendOptions builds the telebot options for a message
func sendOptions(m conversation.Message) []interface{} {
	if markup := markupFor(m); markup != nil {
		return []interface{}{markup}
	}
	return nil
}

// markupFor converts the keyboards of a message, nil when it has none
func markupFor(m conversation.Message) *tele.ReplyMarkup {
	if len(m.Inline) > 0 {
		return messenger.InlineMarkup(m.Inline)
	}
	if len(m.Keyboard) == 0 {
		return nil
	}

	markup := &tele.ReplyMarkup{ResizeKeyboard: true}
	rows := make([]tele.Row, 0, len(m.Keyboard))
	for _, labels := range m.Keyboard {
		btns := make([]tele.Btn, 0, len(labels))
		for _, label := range labels {
			btns = append(btns, markup.Text(label))
		}
		rows = append(rows, markup.Row(btns...))
	}
	markup.Reply(rows...)
	return markup
}
