package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/commerce-service/internal/api/dto"
	"github.com/spec-kit/commerce-service/internal/service"
	apperrors "github.com/spec-kit/commerce-service/pkg/util/errorutil"
)

// UsersHandler serves /api/users. Password hashes never leave the service.
type UsersHandler struct {
	*CrudHandler[dto.UserDto]
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{
		CrudHandler: NewCrudHandler[dto.UserDto](users, func(d *dto.UserDto) int { return d.UserID }, redactUser),
		users:       users,
	}
}

// FindByUsername GET /username/:username.
func (h *UsersHandler) FindByUsername(c *fiber.Ctx) error {
	username, err := pathUsername(c)
	if err != nil {
		return err
	}
	user, err := h.users.FindByUsername(c.UserContext(), username)
	if err != nil {
		return err
	}
	return h.respond(c, user)
}

// CredentialsHandler serves /api/credentials.
type CredentialsHandler struct {
	*CrudHandler[dto.CredentialDto]
	credentials *service.CredentialService
}

// NewCredentialsHandler constructs handler.
func NewCredentialsHandler(credentials *service.CredentialService) *CredentialsHandler {
	return &CredentialsHandler{
		CrudHandler: NewCrudHandler[dto.CredentialDto](credentials, func(d *dto.CredentialDto) int { return d.CredentialID }, redactCredential),
		credentials: credentials,
	}
}

// FindByUsername GET /username/:username.
func (h *CredentialsHandler) FindByUsername(c *fiber.Ctx) error {
	username, err := pathUsername(c)
	if err != nil {
		return err
	}
	credential, err := h.credentials.FindByUsername(c.UserContext(), username)
	if err != nil {
		return err
	}
	return h.respond(c, credential)
}

// AuthHandler serves /api/authenticate.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Authenticate POST /authenticate.
func (h *AuthHandler) Authenticate(c *fiber.Ctx) error {
	var req dto.AuthenticationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password required", nil)
	}
	token, _, err := h.auth.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthenticationResponse{JWTToken: token})
}

func pathUsername(c *fiber.Ctx) (string, error) {
	username := strings.TrimSpace(c.Params("username"))
	if username == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "invalid username")
	}
	return username, nil
}

func redactUser(u *dto.UserDto) {
	if u.Credential != nil {
		redactCredential(u.Credential)
	}
}

func redactCredential(c *dto.CredentialDto) {
	c.Password = ""
}
