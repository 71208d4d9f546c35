// Package lifecycle provides the transition legality machinery shared by
// the customer and case workflows. Both workflows go through the same
// Policy interface; customers use the permissive policy (operators may
// jump anywhere in the pipeline), cases use an explicit adjacency table.
package lifecycle

// Policy decides whether a tagged transition is legal.
type Policy[S comparable] interface {
	Allowed(from, to S) bool
}

// AlwaysLegal permits every transition. Field-level guards (assignee,
// follow-up date) are enforced by the services, not here.
type AlwaysLegal[S comparable] struct{}

// Allowed always reports true.
func (AlwaysLegal[S]) Allowed(_, _ S) bool { return true }

// AdjacencyTable permits only transitions present in the table. States
// missing from the table have no legal successors.
type AdjacencyTable[S comparable] map[S][]S

// Allowed reports whether to is directly reachable from from.
func (t AdjacencyTable[S]) Allowed(from, to S) bool {
	for _, candidate := range t[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// NextOf returns a copy of the allowed-next set for a state.
func (t AdjacencyTable[S]) NextOf(from S) []S {
	return append([]S(nil), t[from]...)
}

// Sequence is a linear ordering of states used by the guided "advance"
// operation. Advancing from the final state, or from a state outside
// the sequence, yields no next step.
type Sequence[S comparable] []S

// Next returns the state following from, and whether one exists.
func (seq Sequence[S]) Next(from S) (S, bool) {
	var zero S
	for i, s := range seq {
		if s == from {
			if i+1 < len(seq) {
				return seq[i+1], true
			}
			return zero, false
		}
	}
	return zero, false
}
