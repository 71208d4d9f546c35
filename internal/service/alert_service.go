package service

import (
	"context"
	"time"

	"github.com/lexkit/practice-service/internal/alerts"
	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/internal/repository"
)

// AlertService assembles the snapshot for one alert computation pass
// and applies the viewer's dismissals. It holds no derived state: every
// call recomputes from the latest repository reads.
type AlertService struct {
	customers     repository.CustomerRepository
	cases         repository.CaseRepository
	meetings      repository.MeetingRepository
	notifications repository.NotificationRepository
	dismissals    *alerts.DismissalCache
	now           func() time.Time
}

// AlertDependencies bundles collaborators for the alert service.
type AlertDependencies struct {
	CustomerRepo     repository.CustomerRepository
	CaseRepo         repository.CaseRepository
	MeetingRepo      repository.MeetingRepository
	NotificationRepo repository.NotificationRepository
	Dismissals       *alerts.DismissalCache
}

// NewAlertService constructs the service.
func NewAlertService(deps AlertDependencies) *AlertService {
	return &AlertService{
		customers:     deps.CustomerRepo,
		cases:         deps.CaseRepo,
		meetings:      deps.MeetingRepo,
		notifications: deps.NotificationRepo,
		dismissals:    deps.Dismissals,
		now:           time.Now,
	}
}

// ComputeAlerts derives the current alert list for the viewer.
func (s *AlertService) ComputeAlerts(ctx context.Context, viewer domain.ViewerContext) ([]domain.Alert, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	dismissed := s.dismissals.Dismissed(ctx, viewer.ConsultantID)
	isDismissed := func(alertID string) bool {
		_, ok := dismissed[alertID]
		return ok
	}
	return alerts.Compute(*snap, s.now(), viewer, isDismissed), nil
}

// DismissAlert suppresses an alert id for the viewer until the TTL
// elapses. If the underlying condition still holds afterwards, the
// next computation pass surfaces it again.
func (s *AlertService) DismissAlert(ctx context.Context, viewer domain.ViewerContext, alertID string) error {
	return s.dismissals.Dismiss(ctx, viewer.ConsultantID, alertID)
}

// snapshotPage caps a single repository read. The snapshot keeps paging
// until a short page comes back: the repositories order by recency, so
// a capped single read would be exactly the read that loses the
// longest-stale entities the computation exists to surface.
const snapshotPage = 500

func collectAll[T any](page func(limit, offset int) ([]T, error)) ([]T, error) {
	var all []T
	for offset := 0; ; offset += snapshotPage {
		batch, err := page(snapshotPage, offset)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < snapshotPage {
			return all, nil
		}
	}
}

func (s *AlertService) snapshot(ctx context.Context) (*alerts.Snapshot, error) {
	customers, err := collectAll(func(limit, offset int) ([]domain.Customer, error) {
		return s.customers.List(ctx, repository.CustomerFilter{Limit: limit, Offset: offset})
	})
	if err != nil {
		return nil, err
	}
	cases, err := collectAll(func(limit, offset int) ([]domain.Case, error) {
		return s.cases.List(ctx, repository.CaseFilter{Limit: limit, Offset: offset})
	})
	if err != nil {
		return nil, err
	}
	meetings, err := collectAll(func(limit, offset int) ([]domain.Meeting, error) {
		return s.meetings.List(ctx, repository.MeetingFilter{Limit: limit, Offset: offset})
	})
	if err != nil {
		return nil, err
	}
	notifications, err := s.notifications.List(ctx)
	if err != nil {
		return nil, err
	}
	return &alerts.Snapshot{
		Customers:     customers,
		Cases:         cases,
		Meetings:      meetings,
		Notifications: notifications,
	}, nil
}
