package service

import (
	"context"
	"strings"
	"time"

	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/internal/events"
	"github.com/lexkit/practice-service/internal/repository"
	apperrors "github.com/lexkit/practice-service/pkg/util/errorutil"
)

// MeetingService manages consultations and appointments.
type MeetingService struct {
	meetings   repository.MeetingRepository
	customers  repository.CustomerRepository
	dispatcher events.Dispatcher
}

// MeetingCreateInput describes scheduling payload.
type MeetingCreateInput struct {
	CustomerID  string
	Title       string
	ScheduledAt time.Time
	AssignedTo  *string
}

// NewMeetingService constructs the service.
func NewMeetingService(meetings repository.MeetingRepository, customers repository.CustomerRepository, dispatcher events.Dispatcher) *MeetingService {
	return &MeetingService{meetings: meetings, customers: customers, dispatcher: dispatcher}
}

// ScheduleMeeting creates a meeting in SCHEDULED state.
func (s *MeetingService) ScheduleMeeting(ctx context.Context, actor string, input MeetingCreateInput) (*domain.Meeting, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if input.ScheduledAt.IsZero() {
		return nil, apperrors.NewValidationError("scheduled_at required", nil)
	}
	if _, err := s.customers.GetByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	m := &domain.Meeting{
		CustomerID:  input.CustomerID,
		Title:       title,
		ScheduledAt: input.ScheduledAt,
		Status:      domain.MeetingStatusScheduled,
		AssignedTo:  input.AssignedTo,
	}
	if err := s.meetings.Create(ctx, m); err != nil {
		return nil, err
	}
	publishWithBroadcast(ctx, s.dispatcher, events.EventMeetingChanged, m.ID, actor, events.MeetingChangedPayload{Status: m.Status})
	return m, nil
}

// SetStatus marks a meeting done or cancelled. A meeting left in
// SCHEDULED past its start time shows up as missed in the alert pass.
func (s *MeetingService) SetStatus(ctx context.Context, viewer domain.ViewerContext, id string, status domain.MeetingStatus) (*domain.Meeting, error) {
	switch status {
	case domain.MeetingStatusScheduled, domain.MeetingStatusDone, domain.MeetingStatusCancelled:
	default:
		return nil, apperrors.NewValidationError("unknown meeting status", map[string]any{"status": status})
	}

	m, err := s.meetings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.CanSeeMeeting(m) {
		return nil, apperrors.NewForbidden("meeting not visible")
	}

	m.Status = status
	if err := s.meetings.Update(ctx, m); err != nil {
		return nil, err
	}
	publishWithBroadcast(ctx, s.dispatcher, events.EventMeetingChanged, m.ID, viewer.ConsultantID, events.MeetingChangedPayload{Status: status})
	return m, nil
}

// ListMeetings returns meetings visible to the viewer.
func (s *MeetingService) ListMeetings(ctx context.Context, viewer domain.ViewerContext, filter repository.MeetingFilter) ([]domain.Meeting, error) {
	if !viewer.IsAdmin() {
		filter.AssignedTo = &viewer.ConsultantID
	}
	return s.meetings.List(ctx, filter)
}
