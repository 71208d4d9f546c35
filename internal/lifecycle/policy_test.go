package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lexkit/practice-service/internal/domain"
)

func TestCustomerPolicyAllowsAnyEdit(t *testing.T) {
	statuses := []domain.CustomerStatus{
		domain.CustomerStatusIntake,
		domain.CustomerStatusClient,
		domain.CustomerStatusArchived,
		domain.CustomerStatusOnHold,
	}
	for _, from := range statuses {
		for _, to := range statuses {
			assert.True(t, CustomerPolicy.Allowed(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCustomerAdvanceSequence(t *testing.T) {
	tests := []struct {
		name     string
		from     domain.CustomerStatus
		wantNext domain.CustomerStatus
		wantOK   bool
	}{
		{"intake advances to proposal", domain.CustomerStatusIntake, domain.CustomerStatusSendProposal, true},
		{"proposal advances to approval", domain.CustomerStatusSendProposal, domain.CustomerStatusWaitingApproval, true},
		{"response advances to client", domain.CustomerStatusSendResponse, domain.CustomerStatusClient, true},
		{"client is terminal", domain.CustomerStatusClient, "", false},
		{"on hold sits outside the pipeline", domain.CustomerStatusOnHold, "", false},
		{"archived sits outside the pipeline", domain.CustomerStatusArchived, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok := CustomerAdvanceSequence.Next(tt.from)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantNext, next)
		})
	}
}

func TestCaseTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    domain.CaseState
		to      domain.CaseState
		allowed bool
	}{
		{"intake to preparation", domain.CaseStateAwaitingIntake, domain.CaseStatePreparation, true},
		{"intake may be dismissed", domain.CaseStateAwaitingIntake, domain.CaseStateDismissed, true},
		{"intake cannot skip to filed", domain.CaseStateAwaitingIntake, domain.CaseStateFiled, false},
		{"filed to hearing", domain.CaseStateFiled, domain.CaseStateHearingScheduled, true},
		{"filed straight to decision wait", domain.CaseStateFiled, domain.CaseStateAwaitingDecision, true},
		{"decision received to closed", domain.CaseStateDecisionReceived, domain.CaseStateClosed, true},
		{"closed has no successors", domain.CaseStateClosed, domain.CaseStatePreparation, false},
		{"dismissed has no successors", domain.CaseStateDismissed, domain.CaseStateAwaitingIntake, false},
		{"no backward move", domain.CaseStateHearingScheduled, domain.CaseStateFiled, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CaseTransitions.Allowed(tt.from, tt.to))
		})
	}
}

func TestAdjacencyNextOfReturnsCopy(t *testing.T) {
	next := CaseTransitions.NextOf(domain.CaseStateFiled)
	assert.Len(t, next, 3)

	next[0] = domain.CaseStateClosed
	assert.False(t, CaseTransitions.Allowed(domain.CaseStateFiled, domain.CaseStateClosed))
}

func TestFinalizedFamily(t *testing.T) {
	assert.True(t, domain.CaseStateClosed.Finalized())
	assert.True(t, domain.CaseStateDismissed.Finalized())
	assert.False(t, domain.CaseStateAwaitingDecision.Finalized())
}
