// Package alerts derives the time-sensitive reminder surface from the
// current entity snapshots. The engine is a pure function: same inputs
// always yield the same alerts with the same identities, so it is safe
// to re-run on every poll or data-updated broadcast without
// accumulating state.
package alerts

import (
	"fmt"
	"sort"
	"time"

	"github.com/lexkit/practice-service/internal/domain"
)

// Threshold tiers. Hours are measured against the last recorded status
// change of the entity.
const (
	// UpcomingDeadlineWindow is how far ahead a case deadline starts
	// producing a warn-level alert.
	UpcomingDeadlineWindow = 48 * time.Hour
	// FollowWarnAfter is when a "waiting on the other party" state goes
	// stale enough to warn about.
	FollowWarnAfter = 48 * time.Hour
	// FollowCriticalAfter escalates a stale waiting state to critical.
	FollowCriticalAfter = 72 * time.Hour
	// RespondAfter is when a "needs our response" state starts nagging.
	RespondAfter = 12 * time.Hour
)

// Snapshot bundles the entity views one computation pass reads.
type Snapshot struct {
	Customers     []domain.Customer
	Cases         []domain.Case
	Meetings      []domain.Meeting
	Notifications []domain.Notification
}

// Dismissed reports whether the viewer has dismissed the alert id and
// the dismissal has not expired.
type Dismissed func(alertID string) bool

// AlertID builds the deterministic identity for a condition. Identity
// is a composite of subject, kind and threshold bucket: recomputation
// of the same condition never mints a fresh id, and a condition moving
// to another bucket (say warn to critical) changes only the suffix.
func AlertID(kind domain.AlertKind, subjectType domain.AlertSubjectType, subjectID, bucket string) string {
	return fmt.Sprintf("%s:%s:%s:%s", kind, subjectType, subjectID, bucket)
}

// Compute derives the visible alert list for one viewer. The pipeline
// is: generate all candidate alerts, drop dismissed ids, drop entities
// outside the viewer's visibility, dedupe by id, order deterministically.
func Compute(snap Snapshot, now time.Time, viewer domain.ViewerContext, dismissed Dismissed) []domain.Alert {
	candidates := generate(snap, now)

	customersByID := make(map[string]*domain.Customer, len(snap.Customers))
	for i := range snap.Customers {
		customersByID[snap.Customers[i].ID] = &snap.Customers[i]
	}
	casesByID := make(map[string]*domain.Case, len(snap.Cases))
	for i := range snap.Cases {
		casesByID[snap.Cases[i].ID] = &snap.Cases[i]
	}
	meetingsByID := make(map[string]*domain.Meeting, len(snap.Meetings))
	for i := range snap.Meetings {
		meetingsByID[snap.Meetings[i].ID] = &snap.Meetings[i]
	}

	seen := make(map[string]struct{}, len(candidates))
	result := make([]domain.Alert, 0, len(candidates))
	for _, alert := range candidates {
		if dismissed != nil && dismissed(alert.ID) {
			continue
		}
		if !visible(alert, viewer, customersByID, casesByID, meetingsByID) {
			continue
		}
		if _, dup := seen[alert.ID]; dup {
			continue
		}
		seen[alert.ID] = struct{}{}
		result = append(result, alert)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Severity != result[j].Severity {
			return result[i].Severity == domain.AlertSeverityCritical
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func generate(snap Snapshot, now time.Time) []domain.Alert {
	var alerts []domain.Alert
	alerts = append(alerts, deadlineAlerts(snap.Cases, now)...)
	alerts = append(alerts, customerStalenessAlerts(snap.Customers, now)...)
	alerts = append(alerts, caseStalenessAlerts(snap.Cases, now)...)
	alerts = append(alerts, meetingAlerts(snap.Meetings, now)...)
	alerts = append(alerts, fallbackFollowUpAlerts(snap.Customers, snap.Notifications, now)...)
	return alerts
}

// deadlineAlerts classifies non-finalized case deadlines. A deadline in
// the past is overdue (critical); one within the upcoming window is a
// warn. Finalized cases keep their deadline value but never alert.
func deadlineAlerts(cases []domain.Case, now time.Time) []domain.Alert {
	var alerts []domain.Alert
	for i := range cases {
		c := &cases[i]
		if c.Deadline == nil || c.State.Finalized() {
			continue
		}
		switch {
		case c.Deadline.Before(now):
			alerts = append(alerts, domain.Alert{
				ID:          AlertID(domain.AlertKindDeadline, domain.AlertSubjectCase, c.ID, "overdue"),
				SubjectID:   c.ID,
				SubjectType: domain.AlertSubjectCase,
				Kind:        domain.AlertKindDeadline,
				Severity:    domain.AlertSeverityCritical,
				Message:     fmt.Sprintf("deadline for case %q passed %s", c.Title, c.Deadline.Format(time.RFC3339)),
			})
		case c.Deadline.Sub(now) <= UpcomingDeadlineWindow:
			alerts = append(alerts, domain.Alert{
				ID:          AlertID(domain.AlertKindDeadline, domain.AlertSubjectCase, c.ID, "upcoming"),
				SubjectID:   c.ID,
				SubjectType: domain.AlertSubjectCase,
				Kind:        domain.AlertKindDeadline,
				Severity:    domain.AlertSeverityWarn,
				Message:     fmt.Sprintf("deadline for case %q due %s", c.Title, c.Deadline.Format(time.RFC3339)),
			})
		}
	}
	return alerts
}

func customerStalenessAlerts(customers []domain.Customer, now time.Time) []domain.Alert {
	var alerts []domain.Alert
	for i := range customers {
		c := &customers[i]
		elapsed := now.Sub(c.LastStatusChange)
		switch {
		case c.Status.IsWaitingOnParty():
			if alert, ok := stalenessAlert(domain.AlertSubjectCustomer, c.ID, c.Name, elapsed); ok {
				alerts = append(alerts, alert)
			}
		case c.Status.NeedsResponse():
			if elapsed >= RespondAfter {
				alerts = append(alerts, domain.Alert{
					ID:          AlertID(domain.AlertKindRespond, domain.AlertSubjectCustomer, c.ID, "12h"),
					SubjectID:   c.ID,
					SubjectType: domain.AlertSubjectCustomer,
					Kind:        domain.AlertKindRespond,
					Severity:    domain.AlertSeverityWarn,
					Message:     fmt.Sprintf("%s has been awaiting our response for %dh", c.Name, int(elapsed.Hours())),
				})
			}
		}
	}
	return alerts
}

func caseStalenessAlerts(cases []domain.Case, now time.Time) []domain.Alert {
	var alerts []domain.Alert
	for i := range cases {
		c := &cases[i]
		if c.State != domain.CaseStateAwaitingDecision {
			continue
		}
		if alert, ok := stalenessAlert(domain.AlertSubjectCase, c.ID, c.Title, now.Sub(c.LastStateChange)); ok {
			alerts = append(alerts, alert)
		}
	}
	return alerts
}

// stalenessAlert buckets elapsed waiting time into warn/critical tiers.
func stalenessAlert(subjectType domain.AlertSubjectType, subjectID, label string, elapsed time.Duration) (domain.Alert, bool) {
	var severity domain.AlertSeverity
	var bucket string
	switch {
	case elapsed >= FollowCriticalAfter:
		severity, bucket = domain.AlertSeverityCritical, "72h"
	case elapsed >= FollowWarnAfter:
		severity, bucket = domain.AlertSeverityWarn, "48h"
	default:
		return domain.Alert{}, false
	}
	return domain.Alert{
		ID:          AlertID(domain.AlertKindFollow, subjectType, subjectID, bucket),
		SubjectID:   subjectID,
		SubjectType: subjectType,
		Kind:        domain.AlertKindFollow,
		Severity:    severity,
		Message:     fmt.Sprintf("%s waiting on the other party for %dh", label, int(elapsed.Hours())),
	}, true
}

func meetingAlerts(meetings []domain.Meeting, now time.Time) []domain.Alert {
	var alerts []domain.Alert
	for i := range meetings {
		m := &meetings[i]
		if m.Status != domain.MeetingStatusScheduled {
			continue
		}
		if m.ScheduledAt.Before(now) {
			alerts = append(alerts, domain.Alert{
				ID:          AlertID(domain.AlertKindMeeting, domain.AlertSubjectMeeting, m.ID, "missed"),
				SubjectID:   m.ID,
				SubjectType: domain.AlertSubjectMeeting,
				Kind:        domain.AlertKindMeeting,
				Severity:    domain.AlertSeverityCritical,
				Message:     fmt.Sprintf("meeting %q was not held as scheduled", m.Title),
			})
			continue
		}
		if sameDay(m.ScheduledAt, now) {
			alerts = append(alerts, domain.Alert{
				ID:          AlertID(domain.AlertKindMeeting, domain.AlertSubjectMeeting, m.ID, "today"),
				SubjectID:   m.ID,
				SubjectType: domain.AlertSubjectMeeting,
				Kind:        domain.AlertKindMeeting,
				Severity:    domain.AlertSeverityWarn,
				Message:     fmt.Sprintf("meeting %q today at %s", m.Title, m.ScheduledAt.Format("15:04")),
			})
		}
	}
	return alerts
}

// fallbackFollowUpAlerts keeps the alert surface alive when the
// notification backend produced nothing for a parked customer whose
// follow-up date has elapsed.
func fallbackFollowUpAlerts(customers []domain.Customer, notifications []domain.Notification, now time.Time) []domain.Alert {
	notified := make(map[string]struct{}, len(notifications))
	for i := range notifications {
		notified[notifications[i].CustomerID] = struct{}{}
	}

	var alerts []domain.Alert
	for i := range customers {
		c := &customers[i]
		if c.Status != domain.CustomerStatusOnHold || c.FollowUpDate == nil {
			continue
		}
		if c.FollowUpDate.After(now) {
			continue
		}
		if _, ok := notified[c.ID]; ok {
			continue
		}
		alerts = append(alerts, domain.Alert{
			ID:          AlertID(domain.AlertKindFollow, domain.AlertSubjectCustomer, c.ID, "followup"),
			SubjectID:   c.ID,
			SubjectType: domain.AlertSubjectCustomer,
			Kind:        domain.AlertKindFollow,
			Severity:    domain.AlertSeverityWarn,
			Message:     fmt.Sprintf("follow-up date for %s has passed", c.Name),
		})
	}
	return alerts
}

func visible(alert domain.Alert, viewer domain.ViewerContext,
	customers map[string]*domain.Customer, cases map[string]*domain.Case, meetings map[string]*domain.Meeting) bool {
	switch alert.SubjectType {
	case domain.AlertSubjectCustomer:
		c, ok := customers[alert.SubjectID]
		return ok && viewer.CanSeeCustomer(c)
	case domain.AlertSubjectCase:
		cs, ok := cases[alert.SubjectID]
		return ok && viewer.CanSeeCase(cs)
	case domain.AlertSubjectMeeting:
		m, ok := meetings[alert.SubjectID]
		return ok && viewer.CanSeeMeeting(m)
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
