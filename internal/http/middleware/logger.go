package middleware

import (
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"docvault/internal/logging"
)

// Logger logs each HTTP request as one JSON line with request_id, method, path,
// status and latency in milliseconds. It also places a request-scoped logger in
// the user context for handlers and services.
//
// Errors returned by the chain are rendered here with the app's error handler so
// the logged status is the one the client receives.
func Logger(l *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		rid, _ := c.Locals(RequestIDLocalKey).(string)
		reqLogger := l.With(zap.String("request_id", rid))
		c.SetUserContext(logging.WithContext(c.UserContext(), reqLogger))

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.String("request_id", rid),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		}
		if status >= fiber.StatusInternalServerError {
			l.Error("request", fields...)
		} else {
			l.Info("request", fields...)
		}
		return nil
	}
}

// LoggerWithWriter is Logger over a JSON logger writing to w with timestamps in loc.
func LoggerWithWriter(w io.Writer, loc *time.Location) fiber.Handler {
	return Logger(logging.NewWithWriter(w, zapcore.InfoLevel, loc))
}
