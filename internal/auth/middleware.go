package auth

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-service/internal/domain"
	apperrors "github.com/spec-kit/commerce-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	UserID   int
	Username string
	Role     domain.RoleBasedAuthority
}

// IsAdmin reports whether the principal holds ROLE_ADMIN.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == domain.RoleAdmin
}

// CredentialLoader re-reads a credential so revoked accounts are rejected
// before their token expires. Services without access to credentials pass nil.
type CredentialLoader interface {
	GetByUsername(ctx context.Context, username string) (*domain.Credential, error)
}

// AuthMiddleware validates bearer tokens and stores the principal.
type AuthMiddleware struct {
	tokens      *TokenManager
	credentials CredentialLoader
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, credentials CredentialLoader) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, credentials: credentials}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	principal, err := m.authenticate(c)
	if err != nil {
		return err
	}
	c.Locals(principalKey, principal)
	c.SetUserContext(ContextWithPrincipal(c.UserContext(), principal))
	return c.Next()
}

// Optional authenticates the caller when an Authorization header is present
// and lets anonymous requests through otherwise.
func (m *AuthMiddleware) Optional(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		return c.Next()
	}
	return m.Handle(c)
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*Principal, error) {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return nil, apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return nil, apperrors.NewUnauthorized("invalid token")
	}

	principal := &Principal{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}

	if m.credentials != nil {
		credential, err := m.credentials.GetByUsername(c.UserContext(), claims.Username)
		if err != nil {
			if apperrors.IsNotFound(err) {
				return nil, apperrors.NewUnauthorized("credential not found")
			}
			return nil, apperrors.MapError(err)
		}
		if !credential.CanAuthenticate() {
			return nil, apperrors.NewUnauthorized("account disabled")
		}
		principal.UserID = credential.UserID
		principal.Role = credential.Role
	}
	return principal, nil
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
