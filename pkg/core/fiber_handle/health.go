package fiber_handle

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

type HealthCheckConfig struct {
	Path string
	// Ping 可选的依赖探活，返回错误时健康检查返回 503
	Ping func(ctx context.Context) error
}

func HealthCheck(config HealthCheckConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Path() != config.Path {
			return c.Next()
		}
		if config.Ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := config.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).SendString(err.Error())
			}
		}
		return c.Status(200).SendString("")
	}
}
