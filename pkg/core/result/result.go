package result

import (
	errorc "cardmarket/pkg/core/err"
	"cardmarket/pkg/core/util"

	"github.com/gofiber/fiber/v2"
)

func OK(c *fiber.Ctx, v interface{}) error {
	return c.Status(200).JSON(fiber.Map{"status": 200, "data": v})
}

func Created(c *fiber.Ctx, v interface{}) error {
	return c.Status(201).JSON(fiber.Map{"status": 201, "data": v})
}

func BadRequestNormal(c *fiber.Ctx, message string, err error) error {
	return errorc.New(message, err).ValidWithCtx().WithTraceID(util.Context(c))
}

func Once(c *fiber.Ctx, v interface{}, err error) error {
	if err == nil {
		return OK(c, v)
	}
	return err
}

// Maybe 查询结果为空时返回 404
func Maybe[T any](c *fiber.Ctx, v *T, err error) error {
	if err != nil {
		return err
	}
	if v == nil {
		return errorc.New("记录不存在", nil).NotFound().WithTraceID(util.Context(c))
	}
	return OK(c, v)
}
