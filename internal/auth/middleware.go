package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/internal/repository"
	apperrors "github.com/lexkit/practice-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated consultant.
type Principal struct {
	Consultant *domain.Consultant
}

// Viewer derives the capability object handlers pass into services.
// The optional caseType narrows case visibility to one practice area
// for this request.
func (p *Principal) Viewer(caseType string) domain.ViewerContext {
	return domain.ViewerContext{
		ConsultantID: p.Consultant.ID,
		Role:         p.Consultant.Role,
		CaseType:     caseType,
	}
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens      *TokenManager
	consultants repository.ConsultantRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, consultants repository.ConsultantRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, consultants: consultants}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	consultant, err := m.consultants.GetByID(c.Context(), claims.ConsultantID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewUnauthorized("consultant not found")
		}
		return apperrors.MapError(err)
	}
	if !consultant.Active {
		return apperrors.NewUnauthorized("consultant inactive")
	}

	c.Locals(principalKey, &Principal{Consultant: consultant})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated consultant.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
