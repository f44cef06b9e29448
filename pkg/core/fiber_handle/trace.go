package fiber_handle

import (
	"cardmarket/pkg/core/consts"
	"cardmarket/pkg/core/tracer"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type TracerConfig struct {
	Tracer tracer.Tracer
}

// NewApiTracer 为每个请求开启追踪，请求头带有 TraceID 时沿用上游的
func NewApiTracer(config TracerConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		url := strings.SplitN(c.OriginalURL(), "?", 2)[0]
		name := strings.TrimPrefix(url, "/")
		ctx := c.UserContext()

		parentTrace := c.Get(consts.TraceHeaderName)
		var traceID string
		finish := func() {}
		if len(parentTrace) == 0 {
			ctx, traceID, finish = config.Tracer.StartTrace(ctx, name)
		} else {
			var err error
			ctx, traceID, finish, err = config.Tracer.StartTraceWithParent(ctx, name, parentTrace)
			if err != nil {
				// 如果解析父追踪上下文失败，创建新的追踪
				ctx, traceID, finish = config.Tracer.StartTrace(ctx, name)
			}
		}
		defer finish()

		c.SetUserContext(ctx)
		c.Locals(consts.TraceKey, traceID)
		c.Set(consts.TraceHeaderName, traceID)
		return c.Next()
	}
}
