package domain

import "time"

// ConsultantRole enumerates internal operator roles.
type ConsultantRole string

const (
	ConsultantRoleConsultant ConsultantRole = "CONSULTANT"
	ConsultantRoleCloser     ConsultantRole = "CLOSER"
	ConsultantRoleAdmin      ConsultantRole = "ADMIN"
)

// Consultant models a firm employee handling leads and cases.
type Consultant struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         ConsultantRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanClose reports whether the consultant may be assigned as the
// responsible closer when a lead becomes a client.
func (c *Consultant) CanClose() bool {
	return c.Active && (c.Role == ConsultantRoleCloser || c.Role == ConsultantRoleAdmin)
}
