package service

import (
	"context"
	"time"

	"github.com/spec-kit/commerce-service/internal/auth"
	"github.com/spec-kit/commerce-service/internal/config"
	"github.com/spec-kit/commerce-service/internal/repository"
	apperrors "github.com/spec-kit/commerce-service/pkg/util/errorutil"
)

// AuthService exchanges a username and password for a bearer token.
type AuthService struct {
	credentials repository.CredentialRepository
	tokenMgr    *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, credentials repository.CredentialRepository) *AuthService {
	return &AuthService{
		credentials: credentials,
		tokenMgr:    auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
	}
}

// TokenManager exposes the signer for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// Authenticate verifies the password and account status flags.
// Unknown usernames and wrong passwords yield the same error.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, time.Time, error) {
	credential, err := s.credentials.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return "", time.Time{}, apperrors.NewUnauthorized("bad credentials")
		}
		return "", time.Time{}, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(credential.Password, password); err != nil {
		return "", time.Time{}, apperrors.NewUnauthorized("bad credentials")
	}
	if !credential.CanAuthenticate() {
		return "", time.Time{}, apperrors.NewUnauthorized("account disabled")
	}
	token, exp, err := s.tokenMgr.GenerateToken(credential)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}
