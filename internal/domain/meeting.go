package domain

import "time"

// MeetingStatus enumerates scheduling states for a meeting.
type MeetingStatus string

const (
	MeetingStatusScheduled MeetingStatus = "SCHEDULED"
	MeetingStatusDone      MeetingStatus = "DONE"
	MeetingStatusCancelled MeetingStatus = "CANCELLED"
)

// Meeting is a scheduled consultation or appointment with a customer.
type Meeting struct {
	ID          string
	CustomerID  string
	Title       string
	ScheduledAt time.Time
	Status      MeetingStatus
	AssignedTo  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
