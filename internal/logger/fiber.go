package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const localsKey = "logger"

// Middleware logs every request once it has been handled and hands a
// request-scoped logger to the handlers, through Locals and the user
// context. It expects the requestid middleware to run first.
func Middleware(base *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		requestID := c.GetRespHeader(fiber.HeaderXRequestID)

		reqLog := base.With(
			zap.String("request_id", requestID),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		)
		c.Locals(localsKey, reqLog)
		ctx := WithRequestID(c.UserContext(), requestID)
		c.SetUserContext(WithContext(ctx, reqLog))

		chainErr := c.Next()
		if chainErr != nil {
			// run the app error handler so the logged status is the one sent
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		fields := []zap.Field{
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.IP()),
		}
		if q := string(c.Request().URI().QueryString()); q != "" {
			fields = append(fields, zap.String("query", q))
		}
		if chainErr != nil {
			fields = append(fields, zap.Error(chainErr))
		}

		switch {
		case status >= 500:
			reqLog.Error("http request", fields...)
		case status >= 400:
			reqLog.Warn("http request", fields...)
		default:
			reqLog.Info("http request", fields...)
		}
		return nil
	}
}

// From returns the request logger set by Middleware, or a no-op logger.
func From(c *fiber.Ctx) *zap.Logger {
	if l, ok := c.Locals(localsKey).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
