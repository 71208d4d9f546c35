package service

import (
	"context"
	"strings"
	"time"

	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/internal/events"
	"github.com/lexkit/practice-service/internal/lifecycle"
	"github.com/lexkit/practice-service/internal/repository"
	"github.com/lexkit/practice-service/pkg/db/transactor"
	apperrors "github.com/lexkit/practice-service/pkg/util/errorutil"
)

// CaseService coordinates matter workflows. Unlike customers there is
// no free-edit discipline: every state change is checked against the
// adjacency table.
type CaseService struct {
	cases      repository.CaseRepository
	history    repository.CaseHistoryRepository
	customers  repository.CustomerRepository
	tx         transactor.Transactor
	dispatcher events.Dispatcher
}

// CaseDependencies bundles collaborators for the case service.
type CaseDependencies struct {
	CaseRepo     repository.CaseRepository
	HistoryRepo  repository.CaseHistoryRepository
	CustomerRepo repository.CustomerRepository
	Transactor   transactor.Transactor
	Dispatcher   events.Dispatcher
}

// CaseCreateInput describes case creation payload.
type CaseCreateInput struct {
	CustomerID string
	Title      string
	CaseType   string
	Deadline   *time.Time
	Priority   domain.CasePriority
	AssignedTo *string
}

// NewCaseService constructs the service.
func NewCaseService(deps CaseDependencies) *CaseService {
	return &CaseService{
		cases:      deps.CaseRepo,
		history:    deps.HistoryRepo,
		customers:  deps.CustomerRepo,
		tx:         deps.Transactor,
		dispatcher: deps.Dispatcher,
	}
}

// CreateCase opens a matter at AWAITING_INTAKE for an existing
// customer, with its initial history entry.
func (s *CaseService) CreateCase(ctx context.Context, actor string, input CaseCreateInput) (*domain.Case, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, apperrors.NewValidationError("title required", nil)
	}
	if _, err := s.customers.GetByID(ctx, input.CustomerID); err != nil {
		return nil, err
	}

	now := time.Now()
	c := &domain.Case{
		CustomerID:      input.CustomerID,
		Title:           title,
		CaseType:        strings.TrimSpace(input.CaseType),
		State:           domain.CaseStateAwaitingIntake,
		LastStateChange: now,
		Deadline:        input.Deadline,
		Priority:        input.Priority,
		AssignedTo:      input.AssignedTo,
	}
	if c.Priority == "" {
		c.Priority = domain.CasePriorityMedium
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.cases.Create(txCtx, c); err != nil {
			return err
		}
		entry := &domain.CaseHistoryEntry{
			CaseID:    c.ID,
			FromState: domain.CaseStateAwaitingIntake,
			ToState:   domain.CaseStateAwaitingIntake,
			ChangedBy: actor,
			ChangedAt: now,
		}
		return s.history.Append(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventCaseCreated, c.ID, actor, nil)
	return c, nil
}

// ChangeState moves a case to a directly reachable state, appending the
// transition record and stamping LastStateChange atomically.
func (s *CaseService) ChangeState(ctx context.Context, viewer domain.ViewerContext, caseID string, newState domain.CaseState) (*domain.Case, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !viewer.CanSeeCase(c) {
		return nil, apperrors.NewForbidden("case not visible")
	}
	if !lifecycle.CaseTransitions.Allowed(c.State, newState) {
		return nil, apperrors.NewTransitionError("state not reachable from current state", map[string]any{
			"from":    c.State,
			"to":      newState,
			"allowed": lifecycle.CaseTransitions.NextOf(c.State),
		})
	}

	now := time.Now()
	oldState := c.State
	c.State = newState
	c.LastStateChange = now

	err = s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.cases.Update(txCtx, c); err != nil {
			return err
		}
		entry := &domain.CaseHistoryEntry{
			CaseID:    c.ID,
			FromState: oldState,
			ToState:   newState,
			ChangedBy: viewer.ConsultantID,
			ChangedAt: now,
		}
		return s.history.Append(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventCaseStateChanged, c.ID, viewer.ConsultantID, events.CaseStateChangedPayload{
		OldState: oldState,
		NewState: newState,
	})
	return c, nil
}

// ToggleReadyForWork flips the ready flag. The flag has no meaning
// while the matter still sits in its earliest awaiting stage, so the
// toggle is rejected there.
func (s *CaseService) ToggleReadyForWork(ctx context.Context, viewer domain.ViewerContext, caseID string, ready bool) (*domain.Case, error) {
	c, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !viewer.CanSeeCase(c) {
		return nil, apperrors.NewForbidden("case not visible")
	}
	if c.State == domain.CaseStateAwaitingIntake {
		return nil, apperrors.NewValidationError("case is still awaiting intake, ready flag cannot be set", nil)
	}

	c.ReadyForWork = ready
	if err := s.cases.Update(ctx, c); err != nil {
		return nil, err
	}
	s.publish(ctx, events.EventDataUpdated, c.ID, viewer.ConsultantID, events.DataUpdatedPayload{Source: events.EventCaseUpdated})
	return c, nil
}

// ListCases returns cases visible to the viewer.
func (s *CaseService) ListCases(ctx context.Context, viewer domain.ViewerContext, filter repository.CaseFilter) ([]domain.Case, error) {
	if !viewer.IsAdmin() {
		filter.AssignedTo = &viewer.ConsultantID
	}
	if viewer.CaseType != "" {
		filter.CaseType = &viewer.CaseType
	}
	return s.cases.List(ctx, filter)
}

// GetCase fetches one case, enforcing visibility.
func (s *CaseService) GetCase(ctx context.Context, viewer domain.ViewerContext, id string) (*domain.Case, error) {
	c, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.CanSeeCase(c) {
		return nil, apperrors.NewForbidden("case not visible")
	}
	return c, nil
}

// GetHistory returns the append-only transition log, oldest first.
func (s *CaseService) GetHistory(ctx context.Context, caseID string) ([]domain.CaseHistoryEntry, error) {
	return s.history.ListByCase(ctx, caseID)
}

func (s *CaseService) publish(ctx context.Context, eventType events.EventType, subjectID, actor string, payload any) {
	publishWithBroadcast(ctx, s.dispatcher, eventType, subjectID, actor, payload)
}
