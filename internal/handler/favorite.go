package handler

import (
	"github.com/obsamadmin/app-center/common/response"
	"github.com/obsamadmin/app-center/internal/middleware"
	"github.com/obsamadmin/app-center/internal/svc"
	"github.com/obsamadmin/app-center/internal/types"

	"github.com/gofiber/fiber/v2"
)

// FavoriteAdd 收藏应用
func FavoriteAdd(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "参数错误")
	}

	if err := svc.Ctx.Favorites.AddFavorite(c.UserContext(), id, middleware.GetCurrentUsername(c)); err != nil {
		return fail(c, err)
	}
	return response.Success(c, nil)
}

// FavoriteRemove 取消收藏
func FavoriteRemove(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "参数错误")
	}

	if err := svc.Ctx.Favorites.RemoveFavorite(c.UserContext(), id, middleware.GetCurrentUsername(c)); err != nil {
		return fail(c, err)
	}
	return response.Success(c, nil)
}

// FavoriteList 收藏应用列表
func FavoriteList(c *fiber.Ctx) error {
	list, err := svc.Ctx.Visibility.ListFavorites(c.UserContext(), middleware.GetCurrentUsername(c))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, list)
}

// FavoriteOrder 批量更新收藏排序
func FavoriteOrder(c *fiber.Ctx) error {
	var req []*types.ApplicationOrder
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "参数解析失败")
	}

	username := middleware.GetCurrentUsername(c)
	for _, order := range req {
		if err := svc.Ctx.Visibility.UpdateFavoriteOrder(c.UserContext(), order, username); err != nil {
			return fail(c, err)
		}
	}
	return response.Success(c, nil)
}
