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

// AuthController 注册与登录
type AuthController struct {
	app *app.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

func NewAuthController(app *app.App) *AuthController {
	return &AuthController{
		app: app,
		err: errorc.NewErrorBuilder("AuthController"),
		log: logger.GetLogger().WithEntryName("AuthController"),
	}
}

func (ctrl *AuthController) RegisterRoutes(api fiber.Router) {
	auth := api.Group("/auth")
	auth.Post("/register", ctrl.Register)
	auth.Post("/login", ctrl.Login)
	auth.Get("/me", ctrl.app.Auth.RequireAuth(), ctrl.Me)
}

// Register 注册新用户
func (ctrl *AuthController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterReq
	if err := ctx.BodyParser(&req); err != nil {
		return ctrl.err.New("解析请求参数失败", err).ValidWithCtx().WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}
	if errMsg, err := utils.Validate(&req); err != nil {
		return ctrl.err.New(errMsg, err).ValidWithCtx().WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}

	user, err := ctrl.app.AuthService.Register(util.Context(ctx), &req)
	if err != nil {
		return err
	}
	return result.Created(ctx, user)
}

// Login 登录并返回令牌
func (ctrl *AuthController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginReq
	if err := ctx.BodyParser(&req); err != nil {
		return ctrl.err.New("解析请求参数失败", err).ValidWithCtx().WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}
	if errMsg, err := utils.Validate(&req); err != nil {
		return ctrl.err.New(errMsg, err).ValidWithCtx().WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}

	res, err := ctrl.app.AuthService.Login(util.Context(ctx), req.Email, req.Password)
	return result.Once(ctx, res, err)
}

// Me 当前登录用户
func (ctrl *AuthController) Me(ctx *fiber.Ctx) error {
	userID, err := security.GetUserID(ctx)
	if err != nil {
		return err
	}
	user, err := ctrl.app.AuthService.Profile(util.Context(ctx), userID)
	return result.Maybe(ctx, user, err)
}
