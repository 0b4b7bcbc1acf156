package http

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/melih/grf/internal/core/domain"
	"github.com/melih/grf/internal/core/ports"
)

type ContainerHandler struct {
	service ports.LifecycleService
	logger  *slog.Logger

	// streams bounds followed log streams.
	streams context.Context
}

func NewContainerHandler(streams context.Context, service ports.LifecycleService, logger *slog.Logger) *ContainerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContainerHandler{service: service, logger: logger, streams: streams}
}

// ListContainers returns the running containers selected by the enterprise
// and version query parameters. Without a version any Grafana container is
// listed.
func (h *ContainerHandler) ListContainers(c *fiber.Ctx) error {
	match := domain.MatchFor(domain.EditionFor(c.QueryBool("enterprise")), c.Query("version"))

	containers, err := h.service.FindContainers(c.Context(), match)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(containers)
}

type StartContainerRequest struct {
	Enterprise bool   `json:"enterprise"`
	Version    string `json:"version"`
	RandomPort bool   `json:"random_port"`
	Proxy      string `json:"proxy"`
}

func (h *ContainerHandler) StartContainer(c *fiber.Ctx) error {
	var req StartContainerRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
	}

	// Log tailing needs a terminal; clients use the logs endpoint instead.
	result, err := h.service.Start(c.Context(), domain.StartOptions{
		Edition:    domain.EditionFor(req.Enterprise),
		Version:    req.Version,
		RandomPort: req.RandomPort,
		Proxy:      req.Proxy,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// StopContainers kills the containers selected like ListContainers does.
func (h *ContainerHandler) StopContainers(c *fiber.Ctx) error {
	edition := domain.EditionFor(c.QueryBool("enterprise"))
	if err := h.service.Stop(c.Context(), edition, c.Query("version")); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

func (h *ContainerHandler) ReloadPlugins(c *fiber.Ctx) error {
	if err := h.service.ReloadPlugins(c.Context()); err != nil {
		return errorResponse(c, err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// ListTags never fails: without a local enterprise image there are simply
// no suggestions.
func (h *ContainerHandler) ListTags(c *fiber.Ctx) error {
	tags, err := h.service.ListEnterpriseTags(c.Context())
	if err != nil {
		h.logger.Warn("listing enterprise tags", "error", err)
		tags = []string{}
	}
	return c.JSON(tags)
}

func (h *ContainerHandler) GetContainerLogs(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Container ID is required",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)

	if !c.QueryBool("follow") {
		var buf bytes.Buffer
		if err := h.service.ContainerLogs(c.Context(), id, false, &buf, &buf); err != nil {
			return errorResponse(c, err)
		}
		return c.Send(buf.Bytes())
	}

	// The stream writer runs after the handler returns, so it cannot use the
	// request context. It ends on server shutdown or when a write fails
	// because the client went away.
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		ctx, cancel := context.WithCancel(h.streams)
		defer cancel()

		fw := &flushWriter{w: w, cancel: cancel}
		if err := h.service.ContainerLogs(ctx, id, true, fw, fw); err != nil {
			h.logger.Warn("following container logs", "containerID", domain.ShortID(id), "error", err)
		}
	})
	return nil
}

// flushWriter pushes every chunk to the client immediately and cancels the
// stream once the client stops reading.
type flushWriter struct {
	w      *bufio.Writer
	cancel context.CancelFunc
}

func (f *flushWriter) Write(p []byte) (int, error) {
	n, err := f.w.Write(p)
	if err == nil {
		err = f.w.Flush()
	}
	if err != nil {
		f.cancel()
	}
	return n, err
}

func errorResponse(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrRuntimeQuery), errors.Is(err, domain.ErrRuntimeOperation):
		return fiber.StatusBadGateway
	case errors.Is(err, domain.ErrPortAllocation):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
