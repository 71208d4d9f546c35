package domain

import "time"

// CaseState enumerates lifecycle states for a legal matter.
type CaseState string

const (
	CaseStateAwaitingIntake   CaseState = "AWAITING_INTAKE"
	CaseStatePreparation      CaseState = "PREPARATION"
	CaseStateFiled            CaseState = "FILED"
	CaseStateHearingScheduled CaseState = "HEARING_SCHEDULED"
	CaseStateAwaitingDecision CaseState = "AWAITING_DECISION"
	CaseStateDecisionReceived CaseState = "DECISION_RECEIVED"
	CaseStateClosed           CaseState = "CLOSED"
	CaseStateDismissed        CaseState = "DISMISSED"
)

// CasePriority enumerates urgency for scheduling work.
type CasePriority string

const (
	CasePriorityLow    CasePriority = "LOW"
	CasePriorityMedium CasePriority = "MEDIUM"
	CasePriorityHigh   CasePriority = "HIGH"
	CasePriorityUrgent CasePriority = "URGENT"
)

// Case is the aggregate for a single legal matter owned by a customer.
type Case struct {
	ID              string
	CustomerID      string
	Title           string
	CaseType        string
	State           CaseState
	LastStateChange time.Time
	Deadline        *time.Time
	ReadyForWork    bool
	Priority        CasePriority
	AssignedTo      *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// CaseHistoryEntry is an immutable audit record of one state transition.
type CaseHistoryEntry struct {
	ID        string
	CaseID    string
	FromState CaseState
	ToState   CaseState
	ChangedBy string
	ChangedAt time.Time
}

// Finalized reports whether the state belongs to the closed family.
// Finalized cases no longer participate in deadline alerting.
func (s CaseState) Finalized() bool {
	return s == CaseStateClosed || s == CaseStateDismissed
}
