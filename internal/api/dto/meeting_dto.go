package dto

import (
	"time"

	"github.com/lexkit/practice-service/internal/domain"
)

// CreateMeetingRequest payload.
type CreateMeetingRequest struct {
	CustomerID  string    `json:"customer_id"`
	Title       string    `json:"title"`
	ScheduledAt time.Time `json:"scheduled_at"`
	AssignedTo  *string   `json:"assigned_to"`
}

// SetMeetingStatusRequest payload.
type SetMeetingStatusRequest struct {
	Status domain.MeetingStatus `json:"status"`
}

// MeetingResponse is the meeting view returned to clients.
type MeetingResponse struct {
	ID          string               `json:"id"`
	CustomerID  string               `json:"customer_id"`
	Title       string               `json:"title"`
	ScheduledAt time.Time            `json:"scheduled_at"`
	Status      domain.MeetingStatus `json:"status"`
	AssignedTo  *string              `json:"assigned_to"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
}
