package dto

import (
	"time"

	"github.com/lexkit/practice-service/internal/domain"
)

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the access token and the consultant profile.
type LoginResponse struct {
	Token      string             `json:"token"`
	ExpiresAt  time.Time          `json:"expires_at"`
	Consultant ConsultantResponse `json:"consultant"`
}

// CreateConsultantRequest payload (admin only).
type CreateConsultantRequest struct {
	Name     string                `json:"name"`
	Email    string                `json:"email"`
	Password string                `json:"password"`
	Role     domain.ConsultantRole `json:"role"`
}

// ConsultantResponse is the public consultant view.
type ConsultantResponse struct {
	ID     string                `json:"id"`
	Name   string                `json:"name"`
	Email  string                `json:"email"`
	Role   domain.ConsultantRole `json:"role"`
	Active bool                  `json:"active"`
}
