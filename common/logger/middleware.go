package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Middleware 请求日志中间件
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.IP()),
		}
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			fields = append(fields, zap.String("requestId", rid))
		}

		lg := L().WithOptions(zap.WithCaller(false))
		switch {
		case err != nil:
			lg.Error("HTTP", append(fields, zap.Error(err))...)
		case status >= fiber.StatusInternalServerError:
			lg.Error("HTTP", fields...)
		case status >= fiber.StatusBadRequest:
			lg.Warn("HTTP", fields...)
		default:
			lg.Info("HTTP", fields...)
		}
		return err
	}
}
