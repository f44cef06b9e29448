package controller

import (
	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/mvc"
	"cardmarket/pkg/core/result"
	"cardmarket/pkg/core/util"
	"cardmarket/system/market/internal/app"

	"github.com/gofiber/fiber/v2"
)

// CatalogController 卡牌目录与用户公开信息
type CatalogController struct {
	app *app.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

func NewCatalogController(app *app.App) *CatalogController {
	return &CatalogController{
		app: app,
		err: errorc.NewErrorBuilder("CatalogController"),
		log: logger.GetLogger().WithEntryName("CatalogController"),
	}
}

func (ctrl *CatalogController) RegisterRoutes(api fiber.Router) {
	api.Get("/cards", ctrl.ListCards)
	api.Get("/cards/:id", ctrl.GetCard)
	api.Get("/users/:id/offers", ctrl.UserOffers)
	api.Get("/users/:id/reviews", ctrl.UserReviews)
}

// ListCards 分页列出卡牌，带 name 参数时按名称模糊查询
func (ctrl *CatalogController) ListCards(ctx *fiber.Ctx) error {
	if name := ctx.Query("name"); name != "" {
		cards, err := ctrl.app.CatalogService.Search(util.Context(ctx), name)
		return result.Once(ctx, cards, err)
	}

	var page mvc.Page
	if err := ctx.QueryParser(&page); err != nil {
		return ctrl.err.New("分页参数错误", err).ValidWithCtx().WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}
	// 排序只允许按主键，避免把任意字符串拼进 SQL
	page.Sort = ""
	res, err := ctrl.app.CatalogService.List(util.Context(ctx), &page)
	return result.Once(ctx, res, err)
}

func (ctrl *CatalogController) GetCard(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	card, err := ctrl.app.CatalogService.Get(util.Context(ctx), id)
	return result.Maybe(ctx, card, err)
}

func (ctrl *CatalogController) UserOffers(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	offers, err := ctrl.app.CatalogService.OffersOfUser(util.Context(ctx), id)
	return result.Once(ctx, offers, err)
}

func (ctrl *CatalogController) UserReviews(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	summary, err := ctrl.app.ReviewService.ListForUser(util.Context(ctx), id)
	return result.Once(ctx, summary, err)
}
