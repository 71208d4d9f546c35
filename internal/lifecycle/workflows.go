package lifecycle

import "github.com/lexkit/practice-service/internal/domain"

// CustomerAdvanceSequence is the guided happy path from first contact
// to engaged client. Parking states (ON_HOLD, ARCHIVED) and the
// consultation states sit outside it and never advance.
var CustomerAdvanceSequence = Sequence[domain.CustomerStatus]{
	domain.CustomerStatusIntake,
	domain.CustomerStatusSendProposal,
	domain.CustomerStatusWaitingApproval,
	domain.CustomerStatusSendContract,
	domain.CustomerStatusWaitingAcceptance,
	domain.CustomerStatusSendResponse,
	domain.CustomerStatusClient,
}

// CustomerPolicy is deliberately unconstrained: the edit form may set
// any pipeline status directly.
var CustomerPolicy = AlwaysLegal[domain.CustomerStatus]{}

// CaseTransitions is the authoritative adjacency table for matters.
// CLOSED and DISMISSED are terms of the finalized family and have no
// successors.
var CaseTransitions = AdjacencyTable[domain.CaseState]{
	domain.CaseStateAwaitingIntake:   {domain.CaseStatePreparation, domain.CaseStateDismissed},
	domain.CaseStatePreparation:      {domain.CaseStateFiled, domain.CaseStateDismissed},
	domain.CaseStateFiled:            {domain.CaseStateHearingScheduled, domain.CaseStateAwaitingDecision, domain.CaseStateDismissed},
	domain.CaseStateHearingScheduled: {domain.CaseStateAwaitingDecision, domain.CaseStateDecisionReceived},
	domain.CaseStateAwaitingDecision: {domain.CaseStateDecisionReceived},
	domain.CaseStateDecisionReceived: {domain.CaseStateClosed},
	domain.CaseStateClosed:           {},
	domain.CaseStateDismissed:        {},
}
