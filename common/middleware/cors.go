package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// CORS 跨域中间件，tokenName 为 SaToken 令牌头名称
func CORS(tokenName string) fiber.Handler {
	headers := []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "If-None-Match"}
	if tokenName != "" {
		headers = append(headers, tokenName)
	}
	return cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     strings.Join(headers, ","),
		ExposeHeaders:    "Content-Length,Content-Type,ETag,Cache-Control",
		AllowCredentials: false,
		MaxAge:           86400,
	})
}
