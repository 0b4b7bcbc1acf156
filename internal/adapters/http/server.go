// Package http exposes the lifecycle operations as a local JSON API.
package http

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/melih/grf/internal/core/ports"
)

// NewApp wires the handlers onto a fiber app. Followed log streams outlive
// their request handlers; they end when ctx is done or the app shuts down.
func NewApp(ctx context.Context, service ports.LifecycleService, logger *slog.Logger) *fiber.App {
	ctx, cancel := context.WithCancel(ctx)
	containerHandler := NewContainerHandler(ctx, service, logger)
	proxyHandler := NewProxyHandler(service, logger)

	app := fiber.New(fiber.Config{
		AppName:               "grf",
		DisableStartupMessage: true,
	})
	app.Hooks().OnShutdown(func() error {
		cancel()
		return nil
	})
	app.Use(recover.New())

	// Subdomain requests go to Grafana before API routing.
	app.Use(proxyHandler.ProxyRequest)

	api := app.Group("/api")
	v1 := api.Group("/v1")

	containers := v1.Group("/containers")
	containers.Get("/", containerHandler.ListContainers)
	containers.Post("/", containerHandler.StartContainer)
	containers.Delete("/", containerHandler.StopContainers)
	containers.Get("/:id/logs", containerHandler.GetContainerLogs)

	v1.Post("/plugins/reload", containerHandler.ReloadPlugins)
	v1.Get("/tags", containerHandler.ListTags)

	return app
}
