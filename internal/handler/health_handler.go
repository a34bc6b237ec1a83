package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/lor-tracker-api/internal/utils"
)

// HealthHandler exposes liveness information.
type HealthHandler struct {
	appName string
	version string
}

// NewHealthHandler constructs a HealthHandler.
func NewHealthHandler(appName, version string) *HealthHandler {
	return &HealthHandler{appName: appName, version: version}
}

// Check reports process liveness.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return utils.SendSuccess(c, "ok", fiber.Map{
		"app":     h.appName,
		"version": h.version,
	})
}
