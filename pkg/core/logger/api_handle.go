package logger

import (
	errorc "cardmarket/pkg/core/err"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	Logger *Log
}

// NewApiLogger 请求日志中间件，记录耗时与错误链
func NewApiLogger(config Config) fiber.Handler {
	log := config.Logger.WithField("EntryName", "API")

	return func(c *fiber.Ctx) (err error) {
		url := c.OriginalURL()
		url = strings.SplitN(url, "?", 2)[0]

		start := time.Now()

		err = c.Next()

		log.WithField("status", c.Response().StatusCode()).
			WithField("latency", time.Since(start).Round(time.Millisecond)).
			WithField("method", c.Method()).
			WithField("path", url).
			WithField("userId", c.Locals("user_id")).
			WithTrace(c.UserContext()).
			Debug("请求处理完毕")

		if err != nil {
			errc := errorc.ParseError(err)
			if errc.ErrorCode == nil || errc.Code >= 500 {
				errc.ToLog(log.WithTrace(c.UserContext()).GetLogger())
			}
		}

		return err
	}
}
