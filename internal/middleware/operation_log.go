package middleware

import (
	"time"

	"github.com/obsamadmin/app-center/common/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// OperationLogMiddleware 管理操作审计日志
func OperationLogMiddleware(module, action string) fiber.Handler {
	audit := logger.Named("audit")
	return func(c *fiber.Ctx) error {
		startTime := time.Now()

		err := c.Next()

		fields := []zap.Field{
			zap.String("module", module),
			zap.String("action", action),
			zap.String("username", GetCurrentUsername(c)),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
			zap.Int("status", c.Response().StatusCode()),
			zap.Int64("duration", time.Since(startTime).Milliseconds()),
		}
		if err != nil {
			audit.Warn("操作失败", append(fields, zap.Error(err))...)
		} else {
			audit.Info("操作完成", fields...)
		}
		return err
	}
}
