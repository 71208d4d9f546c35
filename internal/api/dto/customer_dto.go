package dto

import (
	"time"

	"github.com/lexkit/practice-service/internal/domain"
)

// CreateCustomerRequest payload.
type CreateCustomerRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone"`
	Services []string `json:"services"`
}

// UpdateCustomerRequest is the free-edit payload. Absent fields stay
// untouched; version carries the caller's last observed version.
type UpdateCustomerRequest struct {
	Name         *string                `json:"name"`
	Email        *string                `json:"email"`
	Phone        *string                `json:"phone"`
	Services     []string               `json:"services"`
	Status       *domain.CustomerStatus `json:"status"`
	AssignedTo   *string                `json:"assigned_to"`
	FollowUpDate *time.Time             `json:"follow_up_date"`
	Version      int64                  `json:"version"`
}

// AdvanceCustomerRequest carries the version for the guided advance.
type AdvanceCustomerRequest struct {
	Version int64 `json:"version"`
}

// CustomerResponse is the customer view returned to clients.
type CustomerResponse struct {
	ID               string                `json:"id"`
	Name             string                `json:"name"`
	Email            string                `json:"email"`
	Phone            string                `json:"phone"`
	Services         []string              `json:"services"`
	Status           domain.CustomerStatus `json:"status"`
	AssignedTo       *string               `json:"assigned_to"`
	FollowUpDate     *time.Time            `json:"follow_up_date"`
	Version          int64                 `json:"version"`
	LastStatusChange time.Time             `json:"last_status_change"`
	CreatedAt        time.Time             `json:"created_at"`
	UpdatedAt        time.Time             `json:"updated_at"`
}

// AdvanceCustomerResponse reports whether the guided step moved.
type AdvanceCustomerResponse struct {
	Customer CustomerResponse `json:"customer"`
	Advanced bool             `json:"advanced"`
}

// StatusHistoryResponse is one immutable log entry.
type StatusHistoryResponse struct {
	ID        string                `json:"id"`
	Status    domain.CustomerStatus `json:"status"`
	ChangedBy string                `json:"changed_by"`
	ChangedAt time.Time             `json:"changed_at"`
}
