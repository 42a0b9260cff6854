package router

import (
	commonMiddleware "github.com/obsamadmin/app-center/common/middleware"
	"github.com/obsamadmin/app-center/internal/handler"
	"github.com/obsamadmin/app-center/internal/middleware"
	"github.com/obsamadmin/app-center/internal/svc"

	"github.com/gofiber/fiber/v2"
)

// Setup 设置路由
func Setup(app *fiber.App, sc *svc.ServiceContext) {
	tokenName := sc.Config.SaToken.TokenName

	// 管理员中间件简写
	admin := middleware.AdminMiddleware(sc.Evaluator, sc.Config.AppCenter.DefaultAdministratorsExpression)
	audit := func(action string) fiber.Handler { return middleware.OperationLogMiddleware("应用中心", action) }

	// 全局中间件
	app.Use(commonMiddleware.CORS(tokenName), commonMiddleware.RequestID(), commonMiddleware.Logger(), commonMiddleware.Recover())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	// ========== 需要认证的路由 ==========
	apps := app.Group("/api/appCenter/applications", middleware.AuthMiddleware(tokenName))

	// 应用管理
	apps.Post("/addApplication", admin, audit("创建应用"), handler.AppCreate)
	apps.Post("/editApplication", admin, audit("编辑应用"), handler.AppUpdate)
	apps.Delete("/deleteApplication/:applicationId", admin, audit("删除应用"), handler.AppDelete)
	apps.Get("/getApplicationsList", admin, handler.AppList)

	// 通用设置
	apps.Get("/setMaxFavorite", admin, audit("设置收藏上限"), handler.SettingSetMaxFavorite)
	apps.Post("/setDefaultImage", admin, audit("设置默认插图"), handler.SettingSetDefaultImage)
	apps.Get("/getGeneralSettings", handler.SettingGeneral)

	// 收藏
	apps.Get("/addFavoriteApplication/:applicationId", handler.FavoriteAdd)
	apps.Get("/deleteFavoriteApplication/:applicationId", handler.FavoriteRemove)
	apps.Get("/getFavoriteApplicationsList", handler.FavoriteList)
	apps.Put("/applicationsOrder", handler.FavoriteOrder)

	// 用户可见应用
	apps.Get("/getAuthorizedApplicationsList", handler.AppAuthorizedList)
	apps.Get("/getMandatoryAndFavoriteApplicationsList", handler.AppMandatoryAndFavoriteList)
	apps.Get("/illustration/:applicationId", handler.Illustration)
}
