package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/obsamadmin/app-center/common/response"
	"github.com/obsamadmin/app-center/internal/middleware"
	"github.com/obsamadmin/app-center/internal/svc"

	"github.com/gofiber/fiber/v2"
)

// illustrationMaxAge 插图缓存时间（秒）
const illustrationMaxAge = 86400

// Illustration 应用插图，支持 If-None-Match 协商缓存
func Illustration(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "参数错误")
	}

	ctx := c.UserContext()
	username := middleware.GetCurrentUsername(c)

	// 先只取元数据，命中缓存时不加载插图内容
	meta, err := svc.Ctx.Applications.ImageMetadata(ctx, id, username)
	if err != nil {
		return fail(c, err)
	}
	if meta == nil {
		return response.NotFound(c, "应用未设置插图")
	}

	etag := `"` + strconv.FormatInt(meta.LastUpdated, 10) + `"`
	c.Set(fiber.HeaderCacheControl, "max-age="+strconv.Itoa(illustrationMaxAge))
	c.Set(fiber.HeaderETag, etag)
	if c.Get(fiber.HeaderIfNoneMatch) == etag {
		return c.SendStatus(fiber.StatusNotModified)
	}

	img, err := svc.Ctx.Images.GetImage(ctx, meta.ID)
	if err != nil {
		return fail(c, err)
	}
	if img == nil {
		return response.NotFound(c, "应用未设置插图")
	}

	c.Set(fiber.HeaderLastModified, time.UnixMilli(meta.LastUpdated).UTC().Format(http.TimeFormat))
	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(img.FileBody)
}
