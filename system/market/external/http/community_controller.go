package controller

import (
	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/result"
	"cardmarket/pkg/core/security"
	"cardmarket/pkg/core/util"
	"cardmarket/system/market/internal/app"
	"cardmarket/system/market/internal/model/dto"
	"cardmarket/utils"

	"github.com/gofiber/fiber/v2"
)

// CommunityController 话题、评价与交换
type CommunityController struct {
	app *app.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

func NewCommunityController(app *app.App) *CommunityController {
	return &CommunityController{
		app: app,
		err: errorc.NewErrorBuilder("CommunityController"),
		log: logger.GetLogger().WithEntryName("CommunityController"),
	}
}

func (ctrl *CommunityController) RegisterRoutes(api fiber.Router) {
	requireAuth := ctrl.app.Auth.RequireAuth()

	discussions := api.Group("/discussions")
	discussions.Get("/", ctrl.ListDiscussions)
	discussions.Post("/", requireAuth, ctrl.CreateDiscussion)
	discussions.Get("/:id/messages", ctrl.ListMessages)
	discussions.Post("/:id/messages", requireAuth, ctrl.AddMessage)

	reviews := api.Group("/reviews")
	reviews.Post("/", requireAuth, ctrl.CreateReview)
	reviews.Delete("/:id", requireAuth, ctrl.DeleteReview)
	// 兼容旧表单提交
	api.Post("/removeRecensione", requireAuth, ctrl.RemoveReview)

	exchanges := api.Group("/exchanges", requireAuth)
	exchanges.Get("/", ctrl.ListExchanges)
	exchanges.Post("/", ctrl.ProposeExchange)
	exchanges.Post("/:id/accept", ctrl.AcceptExchange)
	exchanges.Post("/:id/reject", ctrl.RejectExchange)
}

// bind 解析并校验请求体
func (ctrl *CommunityController) bind(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return ctrl.err.New("解析请求参数失败", err).ValidWithCtx().WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}
	if errMsg, err := utils.Validate(req); err != nil {
		return ctrl.err.New(errMsg, err).ValidWithCtx().WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}
	return nil
}

func (ctrl *CommunityController) ListDiscussions(ctx *fiber.Ctx) error {
	list, err := ctrl.app.DiscussionService.List(util.Context(ctx))
	return result.Once(ctx, list, err)
}

// CreateDiscussion 表单字段 topic-title
func (ctrl *CommunityController) CreateDiscussion(ctx *fiber.Ctx) error {
	userID, err := security.GetUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateDiscussionReq
	if err := ctrl.bind(ctx, &req); err != nil {
		return err
	}
	d, err := ctrl.app.DiscussionService.Create(util.Context(ctx), userID, req.Title)
	if err != nil {
		return err
	}
	return result.Created(ctx, d)
}

func (ctrl *CommunityController) ListMessages(ctx *fiber.Ctx) error {
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	msgs, err := ctrl.app.DiscussionService.ListMessages(util.Context(ctx), id)
	return result.Once(ctx, msgs, err)
}

func (ctrl *CommunityController) AddMessage(ctx *fiber.Ctx) error {
	userID, err := security.GetUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	var req dto.AddMessageReq
	if err := ctrl.bind(ctx, &req); err != nil {
		return err
	}
	m, err := ctrl.app.DiscussionService.AddMessage(util.Context(ctx), userID, id, req.Text)
	if err != nil {
		return err
	}
	return result.Created(ctx, m)
}

func (ctrl *CommunityController) CreateReview(ctx *fiber.Ctx) error {
	userID, err := security.GetUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.CreateReviewReq
	if err := ctrl.bind(ctx, &req); err != nil {
		return err
	}
	r, err := ctrl.app.ReviewService.Create(util.Context(ctx), userID, &req)
	if err != nil {
		return err
	}
	return result.Created(ctx, r)
}

func (ctrl *CommunityController) DeleteReview(ctx *fiber.Ctx) error {
	userID, err := security.GetUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	err = ctrl.app.ReviewService.Delete(util.Context(ctx), userID, id)
	return result.Once(ctx, "删除成功", err)
}

// RemoveReview 表单字段 idRecensione
func (ctrl *CommunityController) RemoveReview(ctx *fiber.Ctx) error {
	userID, err := security.GetUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.RemoveReviewReq
	if err := ctrl.bind(ctx, &req); err != nil {
		return err
	}
	err = ctrl.app.ReviewService.Delete(util.Context(ctx), userID, req.ReviewID)
	return result.Once(ctx, "删除成功", err)
}

func (ctrl *CommunityController) ListExchanges(ctx *fiber.Ctx) error {
	userID, err := security.GetUserID(ctx)
	if err != nil {
		return err
	}
	list, err := ctrl.app.ExchangeService.ListForUser(util.Context(ctx), userID)
	return result.Once(ctx, list, err)
}

func (ctrl *CommunityController) ProposeExchange(ctx *fiber.Ctx) error {
	userID, err := security.GetUserID(ctx)
	if err != nil {
		return err
	}
	var req dto.ProposeExchangeReq
	if err := ctrl.bind(ctx, &req); err != nil {
		return err
	}
	ex, err := ctrl.app.ExchangeService.Propose(util.Context(ctx), userID, req.OfferedOfferID, req.RequestedOfferID)
	if err != nil {
		return err
	}
	return result.Created(ctx, ex)
}

func (ctrl *CommunityController) AcceptExchange(ctx *fiber.Ctx) error {
	userID, err := security.GetUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	ex, err := ctrl.app.ExchangeService.Accept(util.Context(ctx), userID, id)
	return result.Once(ctx, ex, err)
}

func (ctrl *CommunityController) RejectExchange(ctx *fiber.Ctx) error {
	userID, err := security.GetUserID(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	ex, err := ctrl.app.ExchangeService.Reject(util.Context(ctx), userID, id)
	return result.Once(ctx, ex, err)
}
