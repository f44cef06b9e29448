package start

import (
	"cardmarket/pkg/core/fiber_handle"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/util"
	"fmt"

	"github.com/gofiber/fiber/v2"
	recover2 "github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func GetApp() *fiber.App {
	app := fiber.New(
		fiber.Config{
			BodyLimit:    4 * 1024 * 1024,
			ErrorHandler: fiber_handle.ErrHandler,
			JSONEncoder:  json.Marshal,
			JSONDecoder:  json.Unmarshal,
		})
	app.Use(fiber_handle.Cors())
	app.Use(recover2.New(recover2.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.GetLogger().WithTrace(util.Context(c)).
				WithField("path", c.Path()).
				Error(fmt.Sprintf("请求处理崩溃: %+v", e))
		},
	}))
	return app
}
