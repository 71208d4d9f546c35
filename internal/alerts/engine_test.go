package alerts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexkit/practice-service/internal/domain"
)

var (
	testNow   = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	adminView = domain.ViewerContext{ConsultantID: "admin-1", Role: domain.ConsultantRoleAdmin}
)

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func findAlert(t *testing.T, alerts []domain.Alert, id string) domain.Alert {
	t.Helper()
	for _, a := range alerts {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("alert %s not found in %v", id, alerts)
	return domain.Alert{}
}

func hasAlert(alerts []domain.Alert, id string) bool {
	for _, a := range alerts {
		if a.ID == id {
			return true
		}
	}
	return false
}

func TestDeadlineAlerts(t *testing.T) {
	tests := []struct {
		name       string
		deadline   time.Time
		state      domain.CaseState
		wantBucket string
		wantNone   bool
	}{
		{"past deadline is overdue", testNow.Add(-time.Hour), domain.CaseStateFiled, "overdue", false},
		{"a microsecond late is overdue", testNow.Add(-time.Microsecond), domain.CaseStateFiled, "overdue", false},
		{"deadline exactly now is upcoming", testNow, domain.CaseStateFiled, "upcoming", false},
		{"deadline at the window edge is upcoming", testNow.Add(UpcomingDeadlineWindow), domain.CaseStateFiled, "upcoming", false},
		{"deadline beyond the window is silent", testNow.Add(UpcomingDeadlineWindow + time.Second), domain.CaseStateFiled, "", true},
		{"closed case never alerts", testNow.Add(-time.Hour), domain.CaseStateClosed, "", true},
		{"dismissed case never alerts", testNow.Add(-time.Hour), domain.CaseStateDismissed, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{Cases: []domain.Case{{
				ID:              "case-1",
				Title:           "Smith v. Jones",
				State:           tt.state,
				LastStateChange: testNow,
				Deadline:        timePtr(tt.deadline),
			}}}
			got := Compute(snap, testNow, adminView, nil)
			if tt.wantNone {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, AlertID(domain.AlertKindDeadline, domain.AlertSubjectCase, "case-1", tt.wantBucket), got[0].ID)
		})
	}
}

func TestCustomerStalenessTiers(t *testing.T) {
	tests := []struct {
		name         string
		status       domain.CustomerStatus
		elapsed      time.Duration
		wantID       string
		wantSeverity domain.AlertSeverity
		wantNone     bool
	}{
		{"waiting under 48h is silent", domain.CustomerStatusWaitingApproval, 47 * time.Hour, "", "", true},
		{"waiting at 48h warns", domain.CustomerStatusWaitingApproval, 48 * time.Hour, "follow:customer:cust-1:48h", domain.AlertSeverityWarn, false},
		{"waiting at 50h warns", domain.CustomerStatusWaitingAcceptance, 50 * time.Hour, "follow:customer:cust-1:48h", domain.AlertSeverityWarn, false},
		{"waiting at 72h escalates", domain.CustomerStatusWaitingApproval, 72 * time.Hour, "follow:customer:cust-1:72h", domain.AlertSeverityCritical, false},
		{"waiting at 75h stays critical", domain.CustomerStatusWaitingApproval, 75 * time.Hour, "follow:customer:cust-1:72h", domain.AlertSeverityCritical, false},
		{"respond under 12h is silent", domain.CustomerStatusSendProposal, 11 * time.Hour, "", "", true},
		{"respond at 12h nags", domain.CustomerStatusSendContract, 12 * time.Hour, "respond:customer:cust-1:12h", domain.AlertSeverityWarn, false},
		{"client status is silent", domain.CustomerStatusClient, 100 * time.Hour, "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{Customers: []domain.Customer{{
				ID:               "cust-1",
				Name:             "Acme Corp",
				Status:           tt.status,
				LastStatusChange: testNow.Add(-tt.elapsed),
			}}}
			got := Compute(snap, testNow, adminView, nil)
			if tt.wantNone {
				assert.Empty(t, got)
				return
			}
			require.Len(t, got, 1)
			assert.Equal(t, tt.wantID, got[0].ID)
			assert.Equal(t, tt.wantSeverity, got[0].Severity)
		})
	}
}

func TestCaseDecisionStaleness(t *testing.T) {
	snap := Snapshot{Cases: []domain.Case{{
		ID:              "case-7",
		Title:           "Estate of Doe",
		State:           domain.CaseStateAwaitingDecision,
		LastStateChange: testNow.Add(-80 * time.Hour),
	}}}
	got := Compute(snap, testNow, adminView, nil)
	require.Len(t, got, 1)
	assert.Equal(t, "follow:case:case-7:72h", got[0].ID)
	assert.Equal(t, domain.AlertSeverityCritical, got[0].Severity)
}

func TestMeetingAlerts(t *testing.T) {
	snap := Snapshot{Meetings: []domain.Meeting{
		{ID: "m-past", Title: "missed one", ScheduledAt: testNow.Add(-2 * time.Hour), Status: domain.MeetingStatusScheduled},
		{ID: "m-today", Title: "later today", ScheduledAt: testNow.Add(3 * time.Hour), Status: domain.MeetingStatusScheduled},
		{ID: "m-tomorrow", Title: "tomorrow", ScheduledAt: testNow.Add(26 * time.Hour), Status: domain.MeetingStatusScheduled},
		{ID: "m-done", Title: "already held", ScheduledAt: testNow.Add(-2 * time.Hour), Status: domain.MeetingStatusDone},
		{ID: "m-cancelled", Title: "called off", ScheduledAt: testNow.Add(3 * time.Hour), Status: domain.MeetingStatusCancelled},
	}}
	got := Compute(snap, testNow, adminView, nil)
	require.Len(t, got, 2)

	missed := findAlert(t, got, "meeting:meeting:m-past:missed")
	assert.Equal(t, domain.AlertSeverityCritical, missed.Severity)

	today := findAlert(t, got, "meeting:meeting:m-today:today")
	assert.Equal(t, domain.AlertSeverityWarn, today.Severity)
}

func TestFallbackFollowUpOnlyWithoutBackendNotification(t *testing.T) {
	parked := domain.Customer{
		ID:           "cust-9",
		Name:         "Parked Lead",
		Status:       domain.CustomerStatusOnHold,
		FollowUpDate: timePtr(testNow.Add(-24 * time.Hour)),
	}

	t.Run("fallback fires when the backend is silent", func(t *testing.T) {
		got := Compute(Snapshot{Customers: []domain.Customer{parked}}, testNow, adminView, nil)
		require.Len(t, got, 1)
		assert.Equal(t, "follow:customer:cust-9:followup", got[0].ID)
	})

	t.Run("backend notification suppresses the fallback", func(t *testing.T) {
		snap := Snapshot{
			Customers:     []domain.Customer{parked},
			Notifications: []domain.Notification{{ID: "n-1", CustomerID: "cust-9", Message: "call back"}},
		}
		got := Compute(snap, testNow, adminView, nil)
		assert.Empty(t, got)
	})

	t.Run("future follow-up date stays silent", func(t *testing.T) {
		future := parked
		future.FollowUpDate = timePtr(testNow.Add(24 * time.Hour))
		got := Compute(Snapshot{Customers: []domain.Customer{future}}, testNow, adminView, nil)
		assert.Empty(t, got)
	})
}

func TestComputeIsDeterministic(t *testing.T) {
	snap := Snapshot{
		Customers: []domain.Customer{
			{ID: "c-1", Name: "a", Status: domain.CustomerStatusWaitingApproval, LastStatusChange: testNow.Add(-50 * time.Hour)},
			{ID: "c-2", Name: "b", Status: domain.CustomerStatusSendProposal, LastStatusChange: testNow.Add(-20 * time.Hour)},
		},
		Cases: []domain.Case{
			{ID: "k-1", Title: "x", State: domain.CaseStateFiled, LastStateChange: testNow, Deadline: timePtr(testNow.Add(-time.Hour))},
		},
	}

	first := Compute(snap, testNow, adminView, nil)
	second := Compute(snap, testNow, adminView, nil)
	assert.Equal(t, first, second)

	// Critical alerts sort ahead of warns, ties break on id.
	require.NotEmpty(t, first)
	assert.Equal(t, domain.AlertSeverityCritical, first[0].Severity)
	for i := 1; i < len(first); i++ {
		if first[i-1].Severity == first[i].Severity {
			assert.Less(t, first[i-1].ID, first[i].ID)
		}
	}
}

func TestDismissedAlertsAreFiltered(t *testing.T) {
	snap := Snapshot{Customers: []domain.Customer{{
		ID:               "cust-1",
		Name:             "Acme Corp",
		Status:           domain.CustomerStatusWaitingApproval,
		LastStatusChange: testNow.Add(-50 * time.Hour),
	}}}

	id := "follow:customer:cust-1:48h"
	dismissed := func(alertID string) bool { return alertID == id }

	got := Compute(snap, testNow, adminView, dismissed)
	assert.False(t, hasAlert(got, id))

	// Escalation mints a different bucket, so the dismissal no longer
	// matches once the condition worsens.
	snap.Customers[0].LastStatusChange = testNow.Add(-80 * time.Hour)
	got = Compute(snap, testNow, adminView, dismissed)
	assert.True(t, hasAlert(got, "follow:customer:cust-1:72h"))
}

func TestVisibilityFiltering(t *testing.T) {
	other := strPtr("other-consultant")
	mine := strPtr("cons-1")
	snap := Snapshot{
		Customers: []domain.Customer{
			{ID: "c-mine", Name: "mine", Status: domain.CustomerStatusWaitingApproval, LastStatusChange: testNow.Add(-50 * time.Hour), AssignedTo: mine},
			{ID: "c-other", Name: "other", Status: domain.CustomerStatusWaitingApproval, LastStatusChange: testNow.Add(-50 * time.Hour), AssignedTo: other},
		},
		Cases: []domain.Case{
			{ID: "k-family", Title: "family", CaseType: "family", State: domain.CaseStateFiled, LastStateChange: testNow, Deadline: timePtr(testNow.Add(time.Hour)), AssignedTo: mine},
			{ID: "k-tax", Title: "tax", CaseType: "tax", State: domain.CaseStateFiled, LastStateChange: testNow, Deadline: timePtr(testNow.Add(time.Hour)), AssignedTo: mine},
		},
	}

	viewer := domain.ViewerContext{ConsultantID: "cons-1", Role: domain.ConsultantRoleConsultant, CaseType: "family"}
	got := Compute(snap, testNow, viewer, nil)

	assert.True(t, hasAlert(got, "follow:customer:c-mine:48h"))
	assert.False(t, hasAlert(got, "follow:customer:c-other:48h"))
	assert.True(t, hasAlert(got, "deadline:case:k-family:upcoming"))
	assert.False(t, hasAlert(got, "deadline:case:k-tax:upcoming"))

	// Admin with no practice-area scoping sees everything.
	all := Compute(snap, testNow, adminView, nil)
	assert.Len(t, all, 4)
}
