package router

import (
	"cardmarket/app"
	"cardmarket/system/market"

	"github.com/gofiber/fiber/v2"
)

// Register 负责集中注册所有 HTTP 路由。
// 只依赖 app.App 和 fiber.App，不包含业务逻辑，只做分组与路由绑定。
func Register(a *app.App, f *fiber.App) {
	api := f.Group("/api")

	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"msg": "ok"})
	})

	// 后台管理路由分组
	admin := f.Group("/admin")

	// 注册交易市场组件路由
	market.RegisterRoutes(a.MarketModule, api, admin)
}
