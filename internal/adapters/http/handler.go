package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/pharoslabs/pharos/internal/core/domain"
	"github.com/pharoslabs/pharos/internal/core/ports"
)

// Handler exposes the two bootstrap phases over HTTP: image preparation and
// container launch. Build and run stay separate endpoints; a launch never
// implicitly triggers a build.
type Handler struct {
	builder    ports.BuilderService
	containers ports.ContainerService
	log        *slog.Logger
}

func NewHandler(builder ports.BuilderService, containers ports.ContainerService, log *slog.Logger) *Handler {
	return &Handler{builder: builder, containers: containers, log: log}
}

// BuildImage handles POST /api/v1/images.
func (h *Handler) BuildImage(c *fiber.Ctx) error {
	var req ports.BuildRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Tag == "" {
		req.Tag = "pharos-app-" + uuid.NewString()[:8]
	}

	img, err := h.builder.PrepareImage(c.Context(), req)
	if err != nil {
		h.log.Error("image preparation failed", "tag", req.Tag, "error", err)
		return c.Status(buildStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(img)
}

// ListImages handles GET /api/v1/images.
func (h *Handler) ListImages(c *fiber.Ctx) error {
	return c.JSON(h.builder.Images())
}

type launchRequest struct {
	Image string `json:"image"`
	Name  string `json:"name"`
}

// LaunchContainer handles POST /api/v1/containers.
func (h *Handler) LaunchContainer(c *fiber.Ctx) error {
	var req launchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Image == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "image is required"})
	}

	ctr, err := h.containers.Launch(c.Context(), req.Image, req.Name)
	if err != nil {
		h.log.Error("launch failed", "image", req.Image, "error", err)
		return c.Status(launchStatus(err)).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(ctr)
}

// ListContainers handles GET /api/v1/containers.
func (h *Handler) ListContainers(c *fiber.Ctx) error {
	containers, err := h.containers.List(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(containers)
}

// GetContainer handles GET /api/v1/containers/:id.
func (h *Handler) GetContainer(c *fiber.Ctx) error {
	ctr, err := h.containers.Inspect(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(ctr)
}

// StopContainer handles DELETE /api/v1/containers/:id.
func (h *Handler) StopContainer(c *fiber.Ctx) error {
	if err := h.containers.Stop(c.Context(), c.Params("id")); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(fiber.StatusOK)
}

// GetContainerLogs handles GET /api/v1/containers/:id/logs.
func (h *Handler) GetContainerLogs(c *fiber.Ctx) error {
	logs, err := h.containers.Logs(c.Context(), c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	c.Set("Content-Type", "text/plain")
	return c.SendStream(logs)
}

// Healthz handles GET /healthz.
func (h *Handler) Healthz(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// buildStatus maps a preparation failure to a status code: an unresolvable
// manifest is the caller's problem, everything else is ours.
func buildStatus(err error) int {
	if errors.Is(err, domain.ErrUnresolvable) {
		return fiber.StatusUnprocessableEntity
	}
	return fiber.StatusInternalServerError
}

// launchStatus maps a launch failure to a status code: a port conflict is a
// resource conflict, a crashed entry point is a bad upstream.
func launchStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrPortTaken):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrEntryPoint):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
