package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/hrbot/api/http/presenter"
	"github.com/artem13815/hrbot/pkg/health"
)

const readinessTimeout = 3 * time.Second

// HealthHandler serves the probes used by the deployment.
type HealthHandler struct{ svc health.ReadinessUseCase }

func NewHealthHandler(svc health.ReadinessUseCase) *HealthHandler { return &HealthHandler{svc: svc} }

// Health reports that the process is serving HTTP.
// @Summary Liveness probe
// @Tags    health
// @Produce json
// @Success 200 {object} presenter.StatusResponse
// @Router  /api/v1/health [get]
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return presenter.JSON(c, http.StatusOK, presenter.StatusResponse{Status: "ok"})
}

// Ready pings Postgres and, when configured, Redis.
// @Summary Readiness probe
// @Tags    health
// @Produce json
// @Success 200 {object} presenter.ReadinessResponse
// @Failure 503 {object} presenter.ReadinessResponse
// @Router  /api/v1/ready [get]
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), readinessTimeout)
	defer cancel()
	if err := h.svc.Ready(ctx); err != nil {
		return presenter.JSON(c, http.StatusServiceUnavailable, presenter.ReadinessResponse{
			Status:  "not_ready",
			Details: err.Error(),
		})
	}
	return presenter.JSON(c, http.StatusOK, presenter.ReadinessResponse{Status: "ready"})
}
