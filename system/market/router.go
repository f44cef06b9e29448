package market

import (
	controller "cardmarket/system/market/external/http"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册交易市场组件路由
func RegisterRoutes(m *Module, api, admin fiber.Router) {
	controller.NewAuthController(m.internalApp).RegisterRoutes(api)
	controller.NewCatalogController(m.internalApp).RegisterRoutes(api)
	controller.NewCartController(m.internalApp).RegisterRoutes(api)
	controller.NewCommunityController(m.internalApp).RegisterRoutes(api)

	// 通用实体管理接口
	controller.NewEntityController(m.internalApp).RegisterRoutes(admin)
}
