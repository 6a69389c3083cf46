package middleware

import (
	"runtime/debug"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Recover catches panics in handlers so one bad update doesn't stop the poller
func Recover(logger *zap.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					LoggerFrom(c, logger).Error("Panic recovered",
						zap.Any("panic", r),
						zap.ByteString("stack", debug.Stack()),
					)
					err = nil
				}
			}()
			return next(c)
		}
	}
}
