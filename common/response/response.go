package response

import (
	"github.com/gofiber/fiber/v2"
)

// Response 统一响应结构
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// 响应码定义
const (
	CodeSuccess      = 0
	CodeBadRequest   = 400
	CodeUnauthorized = 401
	CodeForbidden    = 403
	CodeNotFound     = 404
	CodeConflict     = 409
	CodeServerError  = 500
)

// 响应消息定义
const (
	MsgSuccess      = "success"
	MsgBadRequest   = "bad request"
	MsgUnauthorized = "unauthorized"
	MsgForbidden    = "forbidden"
	MsgNotFound     = "not found"
	MsgConflict     = "conflict"
	MsgServerError  = "server error"
)

// Success 成功响应
func Success(c *fiber.Ctx, data any) error {
	return c.JSON(Response{
		Code:    CodeSuccess,
		Message: MsgSuccess,
		Data:    data,
	})
}

// Fail 指定 HTTP 状态与错误码的失败响应
func Fail(c *fiber.Ctx, status, code int, message string) error {
	return c.Status(status).JSON(Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *fiber.Ctx, message string) error {
	if message == "" {
		message = MsgBadRequest
	}
	return Fail(c, fiber.StatusBadRequest, CodeBadRequest, message)
}

// Unauthorized 未授权响应
func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = MsgUnauthorized
	}
	return Fail(c, fiber.StatusUnauthorized, CodeUnauthorized, message)
}

// Forbidden 禁止访问响应
func Forbidden(c *fiber.Ctx, message string) error {
	if message == "" {
		message = MsgForbidden
	}
	return Fail(c, fiber.StatusForbidden, CodeForbidden, message)
}

// NotFound 未找到响应
func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = MsgNotFound
	}
	return Fail(c, fiber.StatusNotFound, CodeNotFound, message)
}

// Conflict 资源冲突响应
func Conflict(c *fiber.Ctx, message string) error {
	if message == "" {
		message = MsgConflict
	}
	return Fail(c, fiber.StatusConflict, CodeConflict, message)
}

// ServerError 服务器错误响应
func ServerError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = MsgServerError
	}
	return Fail(c, fiber.StatusInternalServerError, CodeServerError, message)
}
