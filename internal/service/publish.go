package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lexkit/practice-service/internal/events"
)

// publishWithBroadcast emits the specific event plus the generic
// data-updated broadcast every successful mutation fires. Dispatch
// failures are deliberately swallowed: eventing is best effort and must
// never fail the mutation that already committed.
func publishWithBroadcast(ctx context.Context, dispatcher events.Dispatcher, eventType events.EventType, subjectID, actor string, payload any) {
	if dispatcher == nil {
		return
	}
	now := time.Now()
	_ = dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Actor:     actor,
		Timestamp: now,
		Payload:   payload,
	})
	if eventType == events.EventDataUpdated {
		return
	}
	_ = dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventDataUpdated,
		SubjectID: subjectID,
		Actor:     actor,
		Timestamp: now,
		Payload:   events.DataUpdatedPayload{Source: eventType},
	})
}
