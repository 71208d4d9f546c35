package handlers

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/lexkit/practice-service/internal/api/dto"
	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/internal/service"
	apperrors "github.com/lexkit/practice-service/pkg/util/errorutil"
)

// AuthHandler manages consultant authentication endpoints.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{service: authService}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("email, password required", nil)
	}

	consultant, token, expiresAt, err := h.service.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.LoginResponse{
		Token:      token,
		ExpiresAt:  expiresAt,
		Consultant: consultantResponse(consultant),
	}})
}

// CreateConsultant POST /auth/consultants (admin only).
func (h *AuthHandler) CreateConsultant(c *fiber.Ctx) error {
	var req dto.CreateConsultantRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}
	switch req.Role {
	case domain.ConsultantRoleAdmin, domain.ConsultantRoleConsultant, domain.ConsultantRoleCloser:
	default:
		return apperrors.NewValidationError("unknown role", map[string]any{"role": req.Role})
	}

	consultant, err := h.service.CreateConsultant(c.Context(), req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": consultantResponse(consultant)})
}

func consultantResponse(consultant *domain.Consultant) dto.ConsultantResponse {
	return dto.ConsultantResponse{
		ID:     consultant.ID,
		Name:   consultant.Name,
		Email:  consultant.Email,
		Role:   consultant.Role,
		Active: consultant.Active,
	}
}
