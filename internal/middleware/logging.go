package middleware

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

const loggerKey = "logger"

// Logging attaches a request id and a child logger to every update
func Logging(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			rid := uuid.NewString()
			fields := []zap.Field{zap.String("rid", rid)}
			if sender := c.Sender(); sender != nil {
				fields = append(fields, zap.Int64("user_id", sender.ID))
			}

			l := logger.With(fields...)
			c.Set(loggerKey, l)

			start := time.Now()
			err := next(c)

			if err != nil {
				l.Warn("Update handled with error", zap.Error(err), zap.Duration("took", time.Since(start)))
			} else {
				l.Debug("Update handled", zap.Duration("took", time.Since(start)))
			}
			return err
		}
	}
}

// LoggerFrom returns the per-update logger, or fallback when none is set
func LoggerFrom(c tele.Context, fallback *zap.Logger) *zap.Logger {
	if l, ok := c.Get(loggerKey).(*zap.Logger); ok {
		return l
	}
	return fallback
}
