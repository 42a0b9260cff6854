package middleware

import (
	"strings"

	"github.com/obsamadmin/app-center/common/response"
	"github.com/obsamadmin/app-center/internal/auth"

	"github.com/gofiber/fiber/v2"
)

// 上下文键
const (
	LocalUsername = "username"
	LocalToken    = "token"
)

// AuthMiddleware 认证中间件 (SSO Token 验证)，登录ID即用户名
func AuthMiddleware(tokenName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 获取Token
		token := getToken(c, tokenName)
		if token == "" {
			return response.Unauthorized(c, "请先登录")
		}

		// 检查登录状态
		if !auth.IsLogin(token) {
			return response.Unauthorized(c, "登录已过期，请重新登录")
		}

		// 获取登录ID
		username, err := auth.GetLoginId(token)
		if err != nil || strings.TrimSpace(username) == "" {
			return response.Unauthorized(c, "获取用户信息失败")
		}

		c.Locals(LocalUsername, username)
		c.Locals(LocalToken, token)

		return c.Next()
	}
}

// AdminMiddleware 管理员校验，按默认管理员表达式判定
func AdminMiddleware(evaluator *auth.Evaluator, expression string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username := GetCurrentUsername(c)
		if username == "" {
			return response.Unauthorized(c, "请先登录")
		}
		if !evaluator.HasAccess(c.UserContext(), username, []string{expression}) {
			return response.Forbidden(c, "没有操作权限")
		}
		return c.Next()
	}
}

// getToken 从请求中获取Token
func getToken(c *fiber.Ctx, tokenName string) string {
	if tokenName == "" {
		tokenName = "satoken"
	}

	// 从Header获取
	token := c.Get(tokenName)
	if token != "" {
		return token
	}

	// 从Authorization获取
	authHeader := c.Get("Authorization")
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "Bearer ") {
			return strings.TrimPrefix(authHeader, "Bearer ")
		}
		return authHeader
	}

	// 从Query获取
	token = c.Query(tokenName)
	if token != "" {
		return token
	}

	// 从Cookie获取
	return c.Cookies(tokenName)
}

// GetCurrentUsername 获取当前用户名
func GetCurrentUsername(c *fiber.Ctx) string {
	if username, ok := c.Locals(LocalUsername).(string); ok {
		return username
	}
	return ""
}

// GetCurrentToken 获取当前请求的 Token
func GetCurrentToken(c *fiber.Ctx) string {
	if token, ok := c.Locals(LocalToken).(string); ok {
		return token
	}
	return ""
}
