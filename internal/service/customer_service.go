package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/internal/events"
	"github.com/lexkit/practice-service/internal/lifecycle"
	"github.com/lexkit/practice-service/internal/repository"
	"github.com/lexkit/practice-service/pkg/db/transactor"
	apperrors "github.com/lexkit/practice-service/pkg/util/errorutil"
)

// CustomerService coordinates the lead-to-client workflow. Status
// changes come in through two disciplines: the free edit (any status,
// field guards still apply) and the guided advance along the linear
// pipeline. Both append history atomically with the status write and
// go through the optimistic version check.
type CustomerService struct {
	customers   repository.CustomerRepository
	history     repository.CustomerHistoryRepository
	consultants repository.ConsultantRepository
	tx          transactor.Transactor
	dispatcher  events.Dispatcher
}

// CustomerDependencies bundles collaborators for the customer service.
type CustomerDependencies struct {
	CustomerRepo   repository.CustomerRepository
	HistoryRepo    repository.CustomerHistoryRepository
	ConsultantRepo repository.ConsultantRepository
	Transactor     transactor.Transactor
	Dispatcher     events.Dispatcher
}

// CustomerCreateInput describes customer creation payload.
type CustomerCreateInput struct {
	Name     string
	Email    string
	Phone    string
	Services []string
}

// CustomerPatch is the free-edit payload. Nil fields stay untouched;
// ExpectedVersion must match the version the caller last observed.
type CustomerPatch struct {
	Name            *string
	Email           *string
	Phone           *string
	Services        []string
	Status          *domain.CustomerStatus
	AssignedTo      *string
	FollowUpDate    *time.Time
	ExpectedVersion int64
}

// NewCustomerService constructs the service.
func NewCustomerService(deps CustomerDependencies) *CustomerService {
	return &CustomerService{
		customers:   deps.CustomerRepo,
		history:     deps.HistoryRepo,
		consultants: deps.ConsultantRepo,
		tx:          deps.Transactor,
		dispatcher:  deps.Dispatcher,
	}
}

// CreateCustomer registers a new lead at INTAKE with its initial
// history entry written in the same transaction.
func (s *CustomerService) CreateCustomer(ctx context.Context, actor string, input CustomerCreateInput) (*domain.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}

	customer := &domain.Customer{
		Name:     name,
		Email:    strings.TrimSpace(input.Email),
		Phone:    strings.TrimSpace(input.Phone),
		Services: input.Services,
		Status:   domain.CustomerStatusIntake,
	}

	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.customers.Create(txCtx, customer); err != nil {
			return err
		}
		entry := &domain.StatusHistoryEntry{
			CustomerID: customer.ID,
			Status:     domain.CustomerStatusIntake,
			ChangedBy:  actor,
			ChangedAt:  customer.CreatedAt,
		}
		return s.history.Append(txCtx, entry)
	})
	if err != nil {
		return nil, err
	}
	customer.LastStatusChange = customer.CreatedAt

	s.publish(ctx, events.EventCustomerCreated, customer.ID, actor, nil)
	return customer, nil
}

// UpdateCustomer applies a free-edit patch. A status change is accepted
// for any target value in the enum, but field guards still hold:
// entering CLIENT as a non-admin requires an assignee from the closer
// roster, and entering ON_HOLD requires a follow-up date.
func (s *CustomerService) UpdateCustomer(ctx context.Context, viewer domain.ViewerContext, id string, patch CustomerPatch) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.CanSeeCustomer(customer) {
		return nil, apperrors.NewForbidden("customer not visible")
	}

	oldStatus := customer.Status
	applyPatch(customer, patch)

	statusChanged := customer.Status != oldStatus
	if statusChanged {
		if !domain.ValidCustomerStatus(customer.Status) {
			return nil, apperrors.NewValidationError("unknown customer status", map[string]any{"status": customer.Status})
		}
		if !lifecycle.CustomerPolicy.Allowed(oldStatus, customer.Status) {
			return nil, apperrors.NewTransitionError("status change not allowed", nil)
		}
		if err := s.guardStatusEntry(ctx, viewer, customer); err != nil {
			return nil, err
		}
	}

	if err := s.commitCustomer(ctx, customer, patch.ExpectedVersion, statusChanged, viewer.ConsultantID); err != nil {
		return nil, err
	}

	if statusChanged {
		s.publish(ctx, events.EventCustomerStatusChanged, customer.ID, viewer.ConsultantID, events.CustomerStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: customer.Status,
			Guided:    false,
		})
	} else {
		s.publish(ctx, events.EventDataUpdated, customer.ID, viewer.ConsultantID, events.DataUpdatedPayload{Source: events.EventCustomerUpdated})
	}
	return customer, nil
}

// AdvanceCustomer moves the customer one step along the guided
// pipeline. Outside the pipeline, or already at CLIENT, nothing
// happens: no history entry, no version bump, advanced=false.
func (s *CustomerService) AdvanceCustomer(ctx context.Context, viewer domain.ViewerContext, id string, expectedVersion int64) (*domain.Customer, bool, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if !viewer.CanSeeCustomer(customer) {
		return nil, false, apperrors.NewForbidden("customer not visible")
	}

	next, ok := lifecycle.CustomerAdvanceSequence.Next(customer.Status)
	if !ok {
		return customer, false, nil
	}

	oldStatus := customer.Status
	customer.Status = next
	if err := s.guardStatusEntry(ctx, viewer, customer); err != nil {
		return nil, false, err
	}

	if err := s.commitCustomer(ctx, customer, expectedVersion, true, viewer.ConsultantID); err != nil {
		return nil, false, err
	}

	s.publish(ctx, events.EventCustomerStatusChanged, customer.ID, viewer.ConsultantID, events.CustomerStatusChangedPayload{
		OldStatus: oldStatus,
		NewStatus: customer.Status,
		Guided:    true,
	})
	return customer, true, nil
}

// ListCustomers returns customers visible to the viewer.
func (s *CustomerService) ListCustomers(ctx context.Context, viewer domain.ViewerContext, filter repository.CustomerFilter) ([]domain.Customer, error) {
	if !viewer.IsAdmin() {
		filter.AssignedTo = &viewer.ConsultantID
	}
	return s.customers.List(ctx, filter)
}

// ListConfirmedClients returns engaged clients visible to the viewer.
func (s *CustomerService) ListConfirmedClients(ctx context.Context, viewer domain.ViewerContext) ([]domain.Customer, error) {
	return s.ListCustomers(ctx, viewer, repository.CustomerFilter{
		Statuses: []domain.CustomerStatus{domain.CustomerStatusClient},
	})
}

// GetCustomer fetches one customer, enforcing visibility.
func (s *CustomerService) GetCustomer(ctx context.Context, viewer domain.ViewerContext, id string) (*domain.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !viewer.CanSeeCustomer(customer) {
		return nil, apperrors.NewForbidden("customer not visible")
	}
	return customer, nil
}

// GetHistory returns the append-only status log, oldest first.
func (s *CustomerService) GetHistory(ctx context.Context, id string) ([]domain.StatusHistoryEntry, error) {
	return s.history.ListByCustomer(ctx, id)
}

// guardStatusEntry enforces the field guards tied to entering a status.
func (s *CustomerService) guardStatusEntry(ctx context.Context, viewer domain.ViewerContext, customer *domain.Customer) error {
	switch customer.Status {
	case domain.CustomerStatusClient:
		if viewer.IsAdmin() {
			return nil
		}
		if customer.AssignedTo == nil || *customer.AssignedTo == "" {
			return apperrors.NewValidationError("an assignee from the closer roster is required to confirm a client", nil)
		}
		closers, err := s.consultants.ListClosers(ctx)
		if err != nil {
			return err
		}
		for i := range closers {
			if closers[i].ID == *customer.AssignedTo {
				return nil
			}
		}
		return apperrors.NewValidationError("assignee is not on the closer roster", map[string]any{"assigned_to": *customer.AssignedTo})
	case domain.CustomerStatusOnHold:
		if customer.FollowUpDate == nil {
			return apperrors.NewValidationError("follow-up date required to put a customer on hold", nil)
		}
	}
	return nil
}

// commitCustomer writes the patched entity and, when the status moved,
// the matching history entry in one transaction. A stale version is
// surfaced as a conflict carrying the authoritative entity so callers
// can discard their local patch.
func (s *CustomerService) commitCustomer(ctx context.Context, customer *domain.Customer, expectedVersion int64, statusChanged bool, actor string) error {
	now := time.Now()
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.customers.UpdateVersioned(txCtx, customer, expectedVersion); err != nil {
			return err
		}
		if !statusChanged {
			return nil
		}
		entry := &domain.StatusHistoryEntry{
			CustomerID: customer.ID,
			Status:     customer.Status,
			ChangedBy:  actor,
			ChangedAt:  now,
		}
		return s.history.Append(txCtx, entry)
	})
	if err == nil {
		if statusChanged {
			customer.LastStatusChange = now
		}
		return nil
	}
	if errors.Is(err, repository.ErrVersionConflict) {
		details := map[string]any{"expected_version": expectedVersion}
		if live, reloadErr := s.customers.GetByID(ctx, customer.ID); reloadErr == nil {
			*customer = *live
			details["current_version"] = live.Version
		}
		return apperrors.NewConflictError("customer was modified by someone else, reload and retry", details)
	}
	return err
}

func applyPatch(customer *domain.Customer, patch CustomerPatch) {
	if patch.Name != nil {
		customer.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		customer.Email = strings.TrimSpace(*patch.Email)
	}
	if patch.Phone != nil {
		customer.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Services != nil {
		customer.Services = patch.Services
	}
	if patch.Status != nil {
		customer.Status = *patch.Status
	}
	if patch.AssignedTo != nil {
		if *patch.AssignedTo == "" {
			customer.AssignedTo = nil
		} else {
			customer.AssignedTo = patch.AssignedTo
		}
	}
	if patch.FollowUpDate != nil {
		customer.FollowUpDate = patch.FollowUpDate
	}
}

func (s *CustomerService) publish(ctx context.Context, eventType events.EventType, subjectID, actor string, payload any) {
	publishWithBroadcast(ctx, s.dispatcher, eventType, subjectID, actor, payload)
}
