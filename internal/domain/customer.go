package domain

import "time"

// CustomerStatus enumerates pipeline states for a lead/client record.
type CustomerStatus string

const (
	CustomerStatusIntake                CustomerStatus = "INTAKE"
	CustomerStatusSendProposal          CustomerStatus = "SEND_PROPOSAL"
	CustomerStatusWaitingApproval       CustomerStatus = "WAITING_APPROVAL"
	CustomerStatusSendContract          CustomerStatus = "SEND_CONTRACT"
	CustomerStatusWaitingAcceptance     CustomerStatus = "WAITING_ACCEPTANCE"
	CustomerStatusSendResponse          CustomerStatus = "SEND_RESPONSE"
	CustomerStatusClient                CustomerStatus = "CLIENT"
	CustomerStatusConsultationScheduled CustomerStatus = "CONSULTATION_SCHEDULED"
	CustomerStatusConsultationDone      CustomerStatus = "CONSULTATION_DONE"
	CustomerStatusOnHold                CustomerStatus = "ON_HOLD"
	CustomerStatusArchived              CustomerStatus = "ARCHIVED"
)

// ValidCustomerStatus reports whether the value is a known pipeline state.
func ValidCustomerStatus(status CustomerStatus) bool {
	switch status {
	case CustomerStatusIntake, CustomerStatusSendProposal, CustomerStatusWaitingApproval,
		CustomerStatusSendContract, CustomerStatusWaitingAcceptance, CustomerStatusSendResponse,
		CustomerStatusClient, CustomerStatusConsultationScheduled, CustomerStatusConsultationDone,
		CustomerStatusOnHold, CustomerStatusArchived:
		return true
	}
	return false
}

// Customer is the aggregate for a lead or engaged client.
type Customer struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Services     []string
	Status       CustomerStatus
	AssignedTo   *string
	FollowUpDate *time.Time
	Version      int64
	// LastStatusChange is derived from the status history log; the last
	// history entry is authoritative for staleness computations.
	LastStatusChange time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// StatusHistoryEntry is an immutable record of one status change.
// Entries are only ever appended; the last entry mirrors the
// customer's current status.
type StatusHistoryEntry struct {
	ID         string
	CustomerID string
	Status     CustomerStatus
	ChangedBy  string
	ChangedAt  time.Time
}

// IsWaitingOnParty reports whether the status means the firm is waiting
// on the other party to react.
func (s CustomerStatus) IsWaitingOnParty() bool {
	return s == CustomerStatusWaitingApproval || s == CustomerStatusWaitingAcceptance
}

// NeedsResponse reports whether the status means the firm owes the
// customer an action.
func (s CustomerStatus) NeedsResponse() bool {
	return s == CustomerStatusSendProposal || s == CustomerStatusSendContract || s == CustomerStatusSendResponse
}
