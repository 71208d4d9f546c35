package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lexkit/practice-service/internal/service"
	apperrors "github.com/lexkit/practice-service/pkg/util/errorutil"
)

// AlertsHandler exposes the derived alert surface.
type AlertsHandler struct {
	service *service.AlertService
}

// NewAlertsHandler constructs handler.
func NewAlertsHandler(alertService *service.AlertService) *AlertsHandler {
	return &AlertsHandler{service: alertService}
}

// ListAlerts GET /alerts. The set is recomputed on every call.
func (h *AlertsHandler) ListAlerts(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	alerts, err := h.service.ComputeAlerts(c.Context(), viewer)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": alerts})
}

// DismissAlert POST /alerts/:id/dismiss. Alert ids are deterministic,
// so the id in the path is the full composite identity.
func (h *AlertsHandler) DismissAlert(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	alertID := strings.TrimSpace(c.Params("id"))
	if alertID == "" {
		return apperrors.NewValidationError("alert id required", nil)
	}

	if err := h.service.DismissAlert(c.Context(), viewer, alertID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"dismissed": alertID}})
}
