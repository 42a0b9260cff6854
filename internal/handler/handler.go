package handler

import (
	"errors"
	"strconv"

	"github.com/obsamadmin/app-center/common/logger"
	"github.com/obsamadmin/app-center/common/response"
	"github.com/obsamadmin/app-center/internal/logic"
	"github.com/obsamadmin/app-center/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// fail 将业务错误映射为 HTTP 响应
func fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, logic.ErrInvalidArgument):
		return response.BadRequest(c, err.Error())
	case errors.Is(err, logic.ErrAccessDenied):
		return response.Forbidden(c, err.Error())
	case errors.Is(err, logic.ErrNotFound):
		return response.NotFound(c, err.Error())
	case errors.Is(err, logic.ErrAlreadyExists):
		return response.Conflict(c, err.Error())
	default:
		logger.Error("请求处理失败",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("username", middleware.GetCurrentUsername(c)),
			zap.Error(err),
		)
		return response.ServerError(c, "")
	}
}

// paramID 解析路径中的应用ID
func paramID(c *fiber.Ctx) (int64, error) {
	return strconv.ParseInt(c.Params("applicationId"), 10, 64)
}
