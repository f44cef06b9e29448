package app

import (
	"context"

	"cardmarket/base"
	"cardmarket/pkg/core/fiber_handle"
	"cardmarket/pkg/core/logger"
	"cardmarket/pkg/core/start"
	"cardmarket/pkg/db"

	"github.com/gofiber/fiber/v2"
)

func GetApp() *fiber.App {
	app := start.GetApp()

	app.Use(fiber_handle.HealthCheck(fiber_handle.HealthCheckConfig{
		Path: "/health",
		Ping: func(ctx context.Context) error {
			return db.Ping(ctx, base.DB)
		},
	}))
	app.Use(fiber_handle.NewApiTracer(fiber_handle.TracerConfig{Tracer: base.Tracer}))
	app.Use(logger.NewApiLogger(logger.Config{Logger: base.Logger}))

	return app
}
