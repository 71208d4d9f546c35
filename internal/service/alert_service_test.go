package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lexkit/practice-service/internal/alerts"
	"github.com/lexkit/practice-service/internal/domain"
)

func newAlertFixture(t *testing.T, now time.Time) (*AlertService, *fakeCustomerRepo, *fakeCaseRepo, *fakeMeetingRepo, *fakeNotificationRepo) {
	t.Helper()
	customerRepo := newFakeCustomerRepo()
	caseRepo := newFakeCaseRepo()
	meetingRepo := newFakeMeetingRepo()
	notificationRepo := &fakeNotificationRepo{}
	dismissals := alerts.NewDismissalCache(newMemKV(), 7*24*time.Hour, zap.NewNop())

	svc := NewAlertService(AlertDependencies{
		CustomerRepo:     customerRepo,
		CaseRepo:         caseRepo,
		MeetingRepo:      meetingRepo,
		NotificationRepo: notificationRepo,
		Dismissals:       dismissals,
	})
	svc.now = func() time.Time { return now }
	return svc, customerRepo, caseRepo, meetingRepo, notificationRepo
}

func TestComputeAlertsEndToEnd(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc, customerRepo, caseRepo, _, _ := newAlertFixture(t, now)

	ctx := context.Background()
	stale := &domain.Customer{Name: "Waiting Lead", Status: domain.CustomerStatusWaitingApproval}
	require.NoError(t, customerRepo.Create(ctx, stale))
	stored := customerRepo.customers[stale.ID]
	stored.LastStatusChange = now.Add(-50 * time.Hour)

	overdue := now.Add(-time.Hour)
	require.NoError(t, caseRepo.Create(ctx, &domain.Case{
		CustomerID:      stale.ID,
		Title:           "Overdue matter",
		State:           domain.CaseStateFiled,
		LastStateChange: now,
		Deadline:        &overdue,
	}))

	got, err := svc.ComputeAlerts(ctx, adminViewer())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.AlertSeverityCritical, got[0].Severity, "overdue deadline sorts first")
	assert.Equal(t, domain.AlertKindDeadline, got[0].Kind)
	assert.Equal(t, domain.AlertKindFollow, got[1].Kind)
}

func TestComputeAlertsSeesEntitiesBeyondOnePage(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc, _, caseRepo, _, _ := newAlertFixture(t, now)
	ctx := context.Background()

	// A full page of recently touched, quiet matters. Their deadlines
	// sit far outside the upcoming window, so none of them alert.
	farOut := now.Add(30 * 24 * time.Hour)
	for i := 0; i < snapshotPage; i++ {
		c := &domain.Case{
			CustomerID:      "cust-1",
			Title:           "Quiet matter",
			State:           domain.CaseStateFiled,
			LastStateChange: now,
			Deadline:        &farOut,
		}
		require.NoError(t, caseRepo.Create(ctx, c))
		caseRepo.cases[c.ID].UpdatedAt = now
	}

	// The overdue matter is the least recently updated of them all, so
	// a single recency-ordered read capped at one page would miss it.
	overdue := now.Add(-time.Hour)
	stale := &domain.Case{
		CustomerID:      "cust-1",
		Title:           "Overdue matter",
		State:           domain.CaseStateFiled,
		LastStateChange: now,
		Deadline:        &overdue,
	}
	require.NoError(t, caseRepo.Create(ctx, stale))
	caseRepo.cases[stale.ID].UpdatedAt = now.Add(-90 * 24 * time.Hour)

	got, err := svc.ComputeAlerts(ctx, adminViewer())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.AlertKindDeadline, got[0].Kind)
	assert.Equal(t, stale.ID, got[0].SubjectID)
}

func TestDismissSuppressesUntilConditionChanges(t *testing.T) {
	now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	svc, customerRepo, _, _, _ := newAlertFixture(t, now)

	ctx := context.Background()
	lead := &domain.Customer{Name: "Waiting Lead", Status: domain.CustomerStatusWaitingApproval}
	require.NoError(t, customerRepo.Create(ctx, lead))
	customerRepo.customers[lead.ID].LastStatusChange = now.Add(-50 * time.Hour)

	viewer := adminViewer()
	got, err := svc.ComputeAlerts(ctx, viewer)
	require.NoError(t, err)
	require.Len(t, got, 1)

	require.NoError(t, svc.DismissAlert(ctx, viewer, got[0].ID))
	got, err = svc.ComputeAlerts(ctx, viewer)
	require.NoError(t, err)
	assert.Empty(t, got)

	// Dismissals are per viewer: another admin still sees the alert.
	other := domain.ViewerContext{ConsultantID: "admin-2", Role: domain.ConsultantRoleAdmin}
	got, err = svc.ComputeAlerts(ctx, other)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// Escalation to critical mints a new id the dismissal no longer covers.
	customerRepo.customers[lead.ID].LastStatusChange = now.Add(-80 * time.Hour)
	got, err = svc.ComputeAlerts(ctx, viewer)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, domain.AlertSeverityCritical, got[0].Severity)
}
