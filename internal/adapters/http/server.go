// Package http is the control surface of the daemon: a Fiber API exposing
// image preparation and container launch, plus the subdomain proxy in front
// of launched applications.
package http

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/pharoslabs/pharos/internal/core/ports"
)

// NewServer assembles the Fiber app with all routes mounted. The proxy runs
// before the API group so subdomain traffic never reaches the control routes.
func NewServer(builder ports.BuilderService, containers ports.ContainerService, appPort int, log *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "pharos",
		DisableStartupMessage: true,
	})

	proxy := NewProxyHandler(containers, appPort)
	app.Use(proxy.ProxyRequest)

	h := NewHandler(builder, containers, log)
	app.Get("/healthz", h.Healthz)

	v1 := app.Group("/api").Group("/v1")

	images := v1.Group("/images")
	images.Post("/", h.BuildImage)
	images.Get("/", h.ListImages)

	containerRoutes := v1.Group("/containers")
	containerRoutes.Get("/", h.ListContainers)
	containerRoutes.Post("/", h.LaunchContainer)
	containerRoutes.Get("/:id", h.GetContainer)
	containerRoutes.Delete("/:id", h.StopContainer)
	containerRoutes.Get("/:id/logs", h.GetContainerLogs)

	return app
}
