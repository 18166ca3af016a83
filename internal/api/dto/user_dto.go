package dto

import (
	"strings"

	"github.com/spec-kit/commerce-service/internal/domain"
	apperrors "github.com/spec-kit/commerce-service/pkg/util/errorutil"
)

// CredentialDto is the transport shape of a credential. The owning user is
// referenced by id only.
type CredentialDto struct {
	CredentialID            int                       `json:"credentialId,omitempty"`
	Username                string                    `json:"username"`
	Password                string                    `json:"password,omitempty"`
	RoleBasedAuthority      domain.RoleBasedAuthority `json:"roleBasedAuthority,omitempty"`
	IsEnabled               bool                      `json:"isEnabled"`
	IsAccountNonExpired     bool                      `json:"isAccountNonExpired"`
	IsAccountNonLocked      bool                      `json:"isAccountNonLocked"`
	IsCredentialsNonExpired bool                      `json:"isCredentialsNonExpired"`
	UserID                  int                       `json:"userId,omitempty"`
}

// UserDto is the transport shape of a user with its credential embedded.
type UserDto struct {
	UserID     int            `json:"userId,omitempty"`
	FirstName  string         `json:"firstName"`
	LastName   string         `json:"lastName"`
	ImageURL   string         `json:"imageUrl,omitempty"`
	Email      string         `json:"email"`
	Phone      string         `json:"phone"`
	Credential *CredentialDto `json:"credential,omitempty"`
}

// AuthenticationRequest is the login payload.
type AuthenticationRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthenticationResponse carries the issued bearer token.
type AuthenticationResponse struct {
	JWTToken string `json:"jwtToken"`
}

// Validate checks required fields of a user payload, including its credential.
func (u *UserDto) Validate() error {
	details := map[string]any{}
	if strings.TrimSpace(u.FirstName) == "" {
		details["firstName"] = "required"
	}
	if u.Email != "" && !strings.Contains(u.Email, "@") {
		details["email"] = "malformed"
	}
	if u.Credential != nil {
		credentialDetails(u.Credential, "credential.", details)
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid user", details)
	}
	return nil
}

// Validate checks required fields of a standalone credential payload.
func (c *CredentialDto) Validate() error {
	details := map[string]any{}
	credentialDetails(c, "", details)
	if c.UserID <= 0 {
		details["userId"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid credential", details)
	}
	return nil
}

// credentialDetails leaves the password optional: an update may omit it to
// keep the stored hash. Creation enforces it downstream.
func credentialDetails(c *CredentialDto, prefix string, details map[string]any) {
	if strings.TrimSpace(c.Username) == "" {
		details[prefix+"username"] = "required"
	}
}
