package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/lexkit/practice-service/internal/auth"
	"github.com/lexkit/practice-service/internal/config"
	"github.com/lexkit/practice-service/internal/domain"
	"github.com/lexkit/practice-service/internal/repository"
	apperrors "github.com/lexkit/practice-service/pkg/util/errorutil"
)

// AuthService coordinates consultant login and provisioning.
type AuthService struct {
	consultants repository.ConsultantRepository
	tokenMgr    *auth.TokenManager
	bcryptCost  int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, consultants repository.ConsultantRepository) *AuthService {
	return &AuthService{
		consultants: consultants,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost:  cfg.Auth.BcryptCost,
	}
}

// Login authenticates a consultant and returns a role-bearing token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Consultant, string, time.Time, error) {
	consultant, err := s.consultants.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, err
	}
	if !consultant.Active {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("consultant inactive")
	}
	if err := auth.ComparePassword(consultant.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(consultant.ID, consultant.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return consultant, token, exp, nil
}

// CreateConsultant provisions a new account (admin only, enforced at
// the route level).
func (s *AuthService) CreateConsultant(ctx context.Context, name, email, password string, role domain.ConsultantRole) (*domain.Consultant, error) {
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	consultant := &domain.Consultant{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		Active:       true,
	}
	if err := s.consultants.Create(ctx, consultant); err != nil {
		return nil, err
	}
	return consultant, nil
}

// TokenManager exposes the manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
