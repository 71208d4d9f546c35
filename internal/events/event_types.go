package events

import (
	"time"

	"github.com/lexkit/practice-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCustomerCreated       EventType = "customer_created"
	EventCustomerStatusChanged EventType = "customer_status_changed"
	// EventCustomerUpdated marks a field-only edit: no status moved.
	EventCustomerUpdated  EventType = "customer_updated"
	EventCaseCreated      EventType = "case_created"
	EventCaseStateChanged EventType = "case_state_changed"
	// EventCaseUpdated marks a non-transition case edit, such as the
	// ready-for-work toggle.
	EventCaseUpdated    EventType = "case_updated"
	EventMeetingChanged EventType = "meeting_changed"
	// EventDataUpdated is the generic broadcast fired alongside every
	// successful mutation; the alert poller keys off it to recompute.
	EventDataUpdated EventType = "data_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// CustomerStatusChangedPayload payload.
type CustomerStatusChangedPayload struct {
	OldStatus domain.CustomerStatus `json:"old_status"`
	NewStatus domain.CustomerStatus `json:"new_status"`
	Guided    bool                  `json:"guided"`
}

// CaseStateChangedPayload payload.
type CaseStateChangedPayload struct {
	OldState domain.CaseState `json:"old_state"`
	NewState domain.CaseState `json:"new_state"`
}

// MeetingChangedPayload payload.
type MeetingChangedPayload struct {
	Status domain.MeetingStatus `json:"status"`
}

// DataUpdatedPayload names the mutation that triggered the broadcast.
type DataUpdatedPayload struct {
	Source EventType `json:"source"`
}
