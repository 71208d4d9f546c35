package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lexkit/practice-service/internal/domain"
)

func newMeetingFixture() (*MeetingService, string) {
	customerRepo := newFakeCustomerRepo()
	customer := &domain.Customer{Name: "Acme", Status: domain.CustomerStatusClient}
	_ = customerRepo.Create(context.Background(), customer)

	svc := NewMeetingService(newFakeMeetingRepo(), customerRepo, &recordingDispatcher{})
	return svc, customer.ID
}

func TestScheduleMeeting(t *testing.T) {
	svc, customerID := newMeetingFixture()

	meeting, err := svc.ScheduleMeeting(context.Background(), "admin-1", MeetingCreateInput{
		CustomerID:  customerID,
		Title:       "Initial consultation",
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MeetingStatusScheduled, meeting.Status)
}

func TestScheduleMeetingValidation(t *testing.T) {
	svc, customerID := newMeetingFixture()

	_, err := svc.ScheduleMeeting(context.Background(), "admin-1", MeetingCreateInput{
		CustomerID: customerID,
		Title:      "no time set",
	})
	require.Error(t, err)

	_, err = svc.ScheduleMeeting(context.Background(), "admin-1", MeetingCreateInput{
		CustomerID:  "no-such-customer",
		Title:       "orphan",
		ScheduledAt: time.Now(),
	})
	require.Error(t, err)
}

func TestSetMeetingStatus(t *testing.T) {
	svc, customerID := newMeetingFixture()
	meeting, err := svc.ScheduleMeeting(context.Background(), "admin-1", MeetingCreateInput{
		CustomerID:  customerID,
		Title:       "Initial consultation",
		ScheduledAt: time.Now().Add(24 * time.Hour),
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(context.Background(), adminViewer(), meeting.ID, domain.MeetingStatus("BOGUS"))
	require.Error(t, err)

	done, err := svc.SetStatus(context.Background(), adminViewer(), meeting.ID, domain.MeetingStatusDone)
	require.NoError(t, err)
	assert.Equal(t, domain.MeetingStatusDone, done.Status)
}
