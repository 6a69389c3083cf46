package handler

import (
	"context"
	"strings"
	"unicode"

	"coursebot/internal/domain"
	"coursebot/internal/middleware"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// handleEditError swallows "message is not modified", which means another
// press already edited the message. Any other error is logged and returned.
func (h *Handler) handleEditError(err error, logger *zap.Logger) error {
	if err == nil {
		return nil
	}

	if strings.Contains(err.Error(), "message is not modified") {
		logger.Debug("Message already modified by another callback")
		return nil
	}

	logger.Warn("Failed to edit message", zap.Error(err))
	return err
}

// handleCallback handles ALL callback queries
func (h *Handler) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil || c.Sender() == nil {
		h.logger.Warn("handleCallback: callback is nil")
		return nil
	}

	// Payloads contain ':' so telebot never matches them to a unique handler
	// and the raw "\f"-prefixed data arrives here
	data := cleanCallbackData(callback.Data)
	middleware.LoggerFrom(c, h.logger).Info("Processing callback",
		zap.String("data", data),
		zap.String("id", callback.ID),
	)

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	sender := c.Sender()
	caller := domain.User{ID: sender.ID, FirstName: sender.FirstName, Username: sender.Username}

	resp := h.router.HandleAction(ctx, caller, data)
	return h.deliver(c, resp)
}
