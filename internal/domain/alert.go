package domain

// AlertKind categorizes what condition produced an alert.
type AlertKind string

const (
	AlertKindDeadline AlertKind = "deadline"
	AlertKindFollow   AlertKind = "follow"
	AlertKindRespond  AlertKind = "respond"
	AlertKindMeeting  AlertKind = "meeting"
)

// AlertSeverity grades how urgent an alert is.
type AlertSeverity string

const (
	AlertSeverityWarn     AlertSeverity = "warn"
	AlertSeverityCritical AlertSeverity = "critical"
)

// AlertSubjectType names the entity family an alert points at.
type AlertSubjectType string

const (
	AlertSubjectCustomer AlertSubjectType = "customer"
	AlertSubjectCase     AlertSubjectType = "case"
	AlertSubjectMeeting  AlertSubjectType = "meeting"
)

// Alert is an ephemeral, derived notice. It is never persisted; the
// aggregation engine recomputes the full set on every pass, and the ID
// is a deterministic function of subject, kind and threshold bucket so
// the same underlying condition always maps to the same identity.
type Alert struct {
	ID          string           `json:"id"`
	SubjectID   string           `json:"subject_id"`
	SubjectType AlertSubjectType `json:"subject_type"`
	Kind        AlertKind        `json:"kind"`
	Severity    AlertSeverity    `json:"severity"`
	Message     string           `json:"message"`
}
