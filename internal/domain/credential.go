package domain

import "time"

// RoleBasedAuthority enumerates the authority granted to a credential.
type RoleBasedAuthority string

const (
	RoleUser  RoleBasedAuthority = "ROLE_USER"
	RoleAdmin RoleBasedAuthority = "ROLE_ADMIN"
)

// Credential holds login data for a User. Username is unique.
type Credential struct {
	ID                      int
	UserID                  int
	Username                string
	Password                string
	Role                    RoleBasedAuthority
	IsEnabled               bool
	IsAccountNonExpired     bool
	IsAccountNonLocked      bool
	IsCredentialsNonExpired bool
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

// CanAuthenticate reports whether every account status flag allows login.
func (c *Credential) CanAuthenticate() bool {
	return c.IsEnabled && c.IsAccountNonExpired && c.IsAccountNonLocked && c.IsCredentialsNonExpired
}
