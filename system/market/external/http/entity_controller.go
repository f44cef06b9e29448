package controller

import (
	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/result"
	"cardmarket/pkg/core/security"
	"cardmarket/pkg/core/util"
	"cardmarket/system/market/internal/app"
	"cardmarket/system/market/internal/model"

	"github.com/gofiber/fiber/v2"
)

// EntityController 按实体类型直接读写的管理接口
type EntityController struct {
	app *app.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

func NewEntityController(app *app.App) *EntityController {
	return &EntityController{
		app: app,
		err: errorc.NewErrorBuilder("EntityController"),
		log: logger.GetLogger().WithEntryName("EntityController"),
	}
}

func (ctrl *EntityController) RegisterRoutes(admin fiber.Router) {
	entities := admin.Group("/entities", ctrl.app.Auth.RequirePermission(security.MarketAdmin))
	entities.Get("/:kind", ctrl.List)
	entities.Get("/:kind/:id", ctrl.Get)
	entities.Post("/:kind", ctrl.Create)
	entities.Put("/:kind/:id", ctrl.Update)
	entities.Delete("/:kind/:id", ctrl.Delete)
}

func (ctrl *EntityController) kind(ctx *fiber.Ctx) (model.Kind, error) {
	kind, err := model.ParseKind(ctx.Params("kind"))
	if err != nil {
		return 0, ctrl.err.New("不支持的实体类型", err).Unsupported().WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}
	return kind, nil
}

// body 按实体类型解析请求体
func (ctrl *EntityController) body(ctx *fiber.Ctx, kind model.Kind) (model.Entity, error) {
	e, err := ctrl.app.Facade.New(kind)
	if err != nil {
		return nil, err
	}
	if err := ctx.BodyParser(e); err != nil {
		return nil, ctrl.err.New("解析请求参数失败", err).ValidWithCtx().WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}
	return e, nil
}

// public 用户实体不输出密码
func public(e model.Entity) model.Entity {
	if u, ok := e.(*model.User); ok {
		return u.Public()
	}
	return e
}

func (ctrl *EntityController) List(ctx *fiber.Ctx) error {
	kind, err := ctrl.kind(ctx)
	if err != nil {
		return err
	}
	list, err := ctrl.app.Facade.RetrieveAll(util.Context(ctx), kind)
	if err != nil {
		return err
	}
	content := make([]model.Entity, 0, len(list))
	for _, e := range list {
		content = append(content, public(e))
	}
	return result.OK(ctx, fiber.Map{
		"total":   len(content),
		"content": content,
	})
}

func (ctrl *EntityController) Get(ctx *fiber.Ctx) error {
	kind, err := ctrl.kind(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	e, err := ctrl.app.Facade.RetrieveByID(util.Context(ctx), kind, id)
	if err != nil {
		return err
	}
	if e == nil {
		return ctrl.err.New("记录不存在", nil).NotFound().WithTraceID(util.Context(ctx))
	}
	return result.OK(ctx, public(e))
}

func (ctrl *EntityController) Create(ctx *fiber.Ctx) error {
	kind, err := ctrl.kind(ctx)
	if err != nil {
		return err
	}
	e, err := ctrl.body(ctx, kind)
	if err != nil {
		return err
	}
	e.SetID(0)
	if err := ctrl.app.Facade.Save(util.Context(ctx), e); err != nil {
		return err
	}
	return result.Created(ctx, public(e))
}

func (ctrl *EntityController) Update(ctx *fiber.Ctx) error {
	kind, err := ctrl.kind(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	if !ctrl.app.Facade.Supports(kind, true) {
		return ctrl.err.New("实体类型不支持更新: "+kind.String(), nil).Unsupported().WithTraceID(util.Context(ctx)).ToLog(ctrl.log.GetLogger())
	}
	e, err := ctrl.body(ctx, kind)
	if err != nil {
		return err
	}
	if _, err := ctrl.app.Facade.Update(util.Context(ctx), kind, id, e); err != nil {
		return err
	}
	return result.OK(ctx, public(e))
}

func (ctrl *EntityController) Delete(ctx *fiber.Ctx) error {
	kind, err := ctrl.kind(ctx)
	if err != nil {
		return err
	}
	id, err := paramID(ctx, "id")
	if err != nil {
		return err
	}
	err = ctrl.app.Facade.Delete(util.Context(ctx), kind, id)
	return result.Once(ctx, "删除成功", err)
}
