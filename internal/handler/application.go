package handler

import (
	"github.com/obsamadmin/app-center/common/response"
	"github.com/obsamadmin/app-center/internal/middleware"
	"github.com/obsamadmin/app-center/internal/svc"
	"github.com/obsamadmin/app-center/internal/types"

	"github.com/gofiber/fiber/v2"
)

// AppCreate 创建应用
func AppCreate(c *fiber.Ctx) error {
	var req types.Application
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "参数解析失败")
	}

	// 系统应用只能由配置声明
	req.ID = 0
	req.System = false
	req.ChangedManually = false

	app, err := svc.Ctx.Applications.CreateApplication(c.UserContext(), &req)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, app)
}

// AppUpdate 更新应用
func AppUpdate(c *fiber.Ctx) error {
	var req types.Application
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "参数解析失败")
	}

	app, err := svc.Ctx.Applications.UpdateApplication(c.UserContext(), &req, middleware.GetCurrentUsername(c))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, app)
}

// AppDelete 删除应用
func AppDelete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "参数错误")
	}

	if err := svc.Ctx.Applications.DeleteApplication(c.UserContext(), id, middleware.GetCurrentUsername(c)); err != nil {
		return fail(c, err)
	}
	return response.Success(c, nil)
}

// AppList 管理员应用列表
func AppList(c *fiber.Ctx) error {
	var req types.ListApplicationsRequest
	if err := c.QueryParser(&req); err != nil {
		return response.BadRequest(c, "参数解析失败")
	}

	list, err := svc.Ctx.Visibility.ListApplications(c.UserContext(), req.Offset, req.Limit, req.Keyword)
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, list)
}

// AppAuthorizedList 当前用户可见的应用列表
func AppAuthorizedList(c *fiber.Ctx) error {
	var req types.ListApplicationsRequest
	if err := c.QueryParser(&req); err != nil {
		return response.BadRequest(c, "参数解析失败")
	}

	list, err := svc.Ctx.Visibility.ListAuthorizedApplications(c.UserContext(), req.Offset, req.Limit, req.Keyword, middleware.GetCurrentUsername(c))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, list)
}

// AppMandatoryAndFavoriteList 必选应用与收藏应用
func AppMandatoryAndFavoriteList(c *fiber.Ctx) error {
	list, err := svc.Ctx.Visibility.ListMandatoryAndFavorites(c.UserContext(), middleware.GetCurrentUsername(c))
	if err != nil {
		return fail(c, err)
	}
	return response.Success(c, list)
}
