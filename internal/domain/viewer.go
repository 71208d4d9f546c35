package domain

// ViewerContext carries the capabilities of the caller for visibility
// filtering. Transition guards and the alert engine consult it instead
// of re-deriving role checks at each call site.
type ViewerContext struct {
	ConsultantID string
	Role         ConsultantRole
	// CaseType scopes case alerts to one practice area when non-empty.
	CaseType string
}

// IsAdmin reports whether the viewer sees every entity.
func (v ViewerContext) IsAdmin() bool {
	return v.Role == ConsultantRoleAdmin
}

// CanSeeCustomer applies the assignment visibility rule.
func (v ViewerContext) CanSeeCustomer(c *Customer) bool {
	if v.IsAdmin() {
		return true
	}
	return c.AssignedTo != nil && *c.AssignedTo == v.ConsultantID
}

// CanSeeCase applies assignment and practice-area scoping.
func (v ViewerContext) CanSeeCase(cs *Case) bool {
	if v.CaseType != "" && cs.CaseType != v.CaseType {
		return false
	}
	if v.IsAdmin() {
		return true
	}
	return cs.AssignedTo != nil && *cs.AssignedTo == v.ConsultantID
}

// CanSeeMeeting applies the assignment visibility rule.
func (v ViewerContext) CanSeeMeeting(m *Meeting) bool {
	if v.IsAdmin() {
		return true
	}
	return m.AssignedTo != nil && *m.AssignedTo == v.ConsultantID
}
