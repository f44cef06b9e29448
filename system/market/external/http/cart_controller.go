package controller

import (
	"cardmarket/pkg/core/result"
	"cardmarket/pkg/core/security"
	"cardmarket/pkg/core/util"
	"cardmarket/system/market/internal/app"

	"github.com/gofiber/fiber/v2"
)

// CartController 购物车与订单
type CartController struct {
	app *app.App
}

func NewCartController(app *app.App) *CartController {
	return &CartController{app: app}
}

func (ctrl *CartController) RegisterRoutes(api fiber.Router) {
	requireAuth := ctrl.app.Auth.RequireAuth()

	cart := api.Group("/cart", requireAuth)
	cart.Get("/", ctrl.Get)
	cart.Post("/offers/:offerId", ctrl.AddOffer)
	cart.Delete("/offers/:offerId", ctrl.RemoveOffer)

	orders := api.Group("/orders")
	orders.Post("/checkout", requireAuth, ctrl.Checkout)
	orders.Get("/", requireAuth, ctrl.History)
	orders.Get("/:id/offers", ctrl.OrderOffers)
}

func (ctrl *CartController) Get(ctx *fiber.Ctx) error {
	userID, err := security.GetUserID(ctx)
	if err != nil {
		return err
	}
	cart, err := ctrl.app.CartService.Get(util.Context(ctx), userID)
	return result.Once(ctx, cart, err)
}

func (ctrl *CartController) AddOffer(ctx *fiber.Ctx) error {
	userID, err := security.GetUserID(ctx)
	if err != nil {
		return err
	}
	offerID, err := paramID(ctx, "offerId")
	if err != nil {
		return err
	}
	cart, err := ctrl.app.CartService.AddOffer(util.Context(ctx), userID, offerID)
	return result.Once(ctx, cart, err)
}

func (ctrl *CartController) RemoveOffer(ctx *fiber.Ctx) error {
	userID, err := security.GetUserID(ctx)
	if err != nil {
		return err
	}
	offerID, err := paramID(ctx, "offerId")
	if err != nil {
		return err
	}
	cart, err := ctrl.app.CartService.RemoveOffer(util.Context(ctx), userID, offerID)
	return result.Once(ctx, cart, err)
}

// Checkout 结算购物车
func (ctrl *CartController) Checkout(ctx *fiber.Ctx) error {
	userID, err := security.GetUserID(ctx)
	if err != nil {
		return err
	}
	order, err := ctrl.app.OrderService.Checkout(util.Context(ctx), userID)
	if err != nil {
		return err
	}
	return result.Created(ctx, order)
}

func (ctrl *CartController) History(ctx *fiber.Ctx) error {
	userID, err := security.GetUserID(ctx)
	if err != nil {
		return err
	}
	orders, err := ctrl.app.OrderService.History(util.Context(ctx), userID)
	return result.Once(ctx, orders, err)
}

func (ctrl *CartController) OrderOffers(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	offers, err := ctrl.app.OrderService.OffersOf(util.Context(ctx), id)
	return result.Once(ctx, offers, err)
}
