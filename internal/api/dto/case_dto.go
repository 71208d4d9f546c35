package dto

import (
	"time"

	"github.com/lexkit/practice-service/internal/domain"
)

// CreateCaseRequest payload.
type CreateCaseRequest struct {
	CustomerID string              `json:"customer_id"`
	Title      string              `json:"title"`
	CaseType   string              `json:"case_type"`
	Deadline   *time.Time          `json:"deadline"`
	Priority   domain.CasePriority `json:"priority"`
	AssignedTo *string             `json:"assigned_to"`
}

// ChangeCaseStateRequest payload.
type ChangeCaseStateRequest struct {
	State domain.CaseState `json:"state"`
}

// SetCaseReadyRequest payload.
type SetCaseReadyRequest struct {
	Ready bool `json:"ready"`
}

// CaseResponse is the case view returned to clients.
type CaseResponse struct {
	ID              string              `json:"id"`
	CustomerID      string              `json:"customer_id"`
	Title           string              `json:"title"`
	CaseType        string              `json:"case_type"`
	State           domain.CaseState    `json:"state"`
	LastStateChange time.Time           `json:"last_state_change"`
	Deadline        *time.Time          `json:"deadline"`
	ReadyForWork    bool                `json:"ready_for_work"`
	Priority        domain.CasePriority `json:"priority"`
	AssignedTo      *string             `json:"assigned_to"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

// CaseHistoryResponse is one immutable transition record.
type CaseHistoryResponse struct {
	ID        string           `json:"id"`
	FromState domain.CaseState `json:"from_state"`
	ToState   domain.CaseState `json:"to_state"`
	ChangedBy string           `json:"changed_by"`
	ChangedAt time.Time        `json:"changed_at"`
}
