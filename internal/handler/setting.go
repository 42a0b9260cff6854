package handler

import (
	"strconv"

	"github.com/obsamadmin/app-center/common/response"
	"github.com/obsamadmin/app-center/internal/svc"
	"github.com/obsamadmin/app-center/internal/types"

	"github.com/gofiber/fiber/v2"
)

// SettingSetMaxFavorite 设置收藏上限，小于等于0表示不限制
func SettingSetMaxFavorite(c *fiber.Ctx) error {
	number, err := strconv.ParseInt(c.Query("number"), 10, 64)
	if err != nil {
		return response.BadRequest(c, "number 参数错误")
	}

	if err := svc.Ctx.Settings.SetMaxFavorites(c.UserContext(), number); err != nil {
		return fail(c, err)
	}
	return response.Success(c, nil)
}

// SettingSetDefaultImage 设置默认插图，空请求体表示清除
func SettingSetDefaultImage(c *fiber.Ctx) error {
	var img *types.ApplicationImage
	if len(c.Body()) > 0 {
		img = &types.ApplicationImage{}
		if err := c.BodyParser(img); err != nil {
			return response.BadRequest(c, "参数解析失败")
		}
	}

	saved, err := svc.Ctx.Settings.SetDefaultImage(c.UserContext(), img)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, saved)
}

// SettingGeneral 获取通用设置
func SettingGeneral(c *fiber.Ctx) error {
	settings, err := svc.Ctx.Settings.GeneralSettings(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, settings)
}
