package controller

import (
	"strconv"

	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/util"

	"github.com/gofiber/fiber/v2"
)

// paramID 解析路径中的正整数主键
func paramID(ctx *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errorc.New(name+"参数错误", err).ValidWithCtx().WithTraceID(util.Context(ctx))
	}
	return id, nil
}
