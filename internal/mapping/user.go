package mapping

import (
	"github.com/spec-kit/commerce-service/internal/api/dto"
	"github.com/spec-kit/commerce-service/internal/domain"
)

// CredentialToDTO maps a credential entity to its DTO.
func CredentialToDTO(c *domain.Credential) *dto.CredentialDto {
	if c == nil {
		return nil
	}
	return &dto.CredentialDto{
		CredentialID:            c.ID,
		Username:                c.Username,
		Password:                c.Password,
		RoleBasedAuthority:      c.Role,
		IsEnabled:               c.IsEnabled,
		IsAccountNonExpired:     c.IsAccountNonExpired,
		IsAccountNonLocked:      c.IsAccountNonLocked,
		IsCredentialsNonExpired: c.IsCredentialsNonExpired,
		UserID:                  c.UserID,
	}
}

// CredentialToEntity maps a credential DTO to its entity.
func CredentialToEntity(d *dto.CredentialDto) *domain.Credential {
	if d == nil {
		return nil
	}
	return &domain.Credential{
		ID:                      d.CredentialID,
		UserID:                  d.UserID,
		Username:                d.Username,
		Password:                d.Password,
		Role:                    d.RoleBasedAuthority,
		IsEnabled:               d.IsEnabled,
		IsAccountNonExpired:     d.IsAccountNonExpired,
		IsAccountNonLocked:      d.IsAccountNonLocked,
		IsCredentialsNonExpired: d.IsCredentialsNonExpired,
	}
}

// UserToDTO maps a user and its optional credential.
func UserToDTO(a *domain.Account) *dto.UserDto {
	if a == nil {
		return nil
	}
	return &dto.UserDto{
		UserID:     a.User.ID,
		FirstName:  a.User.FirstName,
		LastName:   a.User.LastName,
		ImageURL:   a.User.ImageURL,
		Email:      a.User.Email,
		Phone:      a.User.Phone,
		Credential: CredentialToDTO(a.Credential),
	}
}

// UserToEntity maps a user DTO to an account.
func UserToEntity(d *dto.UserDto) *domain.Account {
	if d == nil {
		return nil
	}
	return &domain.Account{
		User: domain.User{
			ID:        d.UserID,
			FirstName: d.FirstName,
			LastName:  d.LastName,
			ImageURL:  d.ImageURL,
			Email:     d.Email,
			Phone:     d.Phone,
		},
		Credential: CredentialToEntity(d.Credential),
	}
}
