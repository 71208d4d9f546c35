package service

import (
	"context"

	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/internal/events"
	"github.com/lexkit/practice-service/internal/repository"
)

// NotificationService exposes backend-sourced customer notifications.
// When the backend has nothing for a customer, the alert engine
// synthesizes a local fallback instead, so a degraded backend never
// empties the alert surface.
type NotificationService struct {
	notifications repository.NotificationRepository
	dispatcher    events.Dispatcher
}

// NewNotificationService constructs the service.
func NewNotificationService(notifications repository.NotificationRepository, dispatcher events.Dispatcher) *NotificationService {
	return &NotificationService{notifications: notifications, dispatcher: dispatcher}
}

// ListNotifications returns all pending customer notifications.
func (s *NotificationService) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	return s.notifications.List(ctx)
}

// DeleteNotification removes a handled notification.
func (s *NotificationService) DeleteNotification(ctx context.Context, viewer domain.ViewerContext, id string) error {
	if err := s.notifications.Delete(ctx, id); err != nil {
		return err
	}
	publishWithBroadcast(ctx, s.dispatcher, events.EventDataUpdated, id, viewer.ConsultantID, nil)
	return nil
}
