package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lexkit/practice-service/internal/api/dto"
	"github.com/lexkit/practice-service/internal/service"
)

// NotificationsHandler exposes backend-sourced customer notifications.
type NotificationsHandler struct {
	service *service.NotificationService
}

// NewNotificationsHandler constructs handler.
func NewNotificationsHandler(notificationService *service.NotificationService) *NotificationsHandler {
	return &NotificationsHandler{service: notificationService}
}

// ListNotifications GET /notifications.
func (h *NotificationsHandler) ListNotifications(c *fiber.Ctx) error {
	if _, err := viewerFromContext(c); err != nil {
		return err
	}
	notifications, err := h.service.ListNotifications(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, dto.NotificationResponse{
			ID:         n.ID,
			CustomerID: n.CustomerID,
			Message:    n.Message,
			CreatedAt:  n.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteNotification DELETE /notifications/:id.
func (h *NotificationsHandler) DeleteNotification(c *fiber.Ctx) error {
	viewer, err := viewerFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteNotification(c.Context(), viewer, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}
