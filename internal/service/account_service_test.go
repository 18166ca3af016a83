package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-service/internal/api/dto"
	"github.com/spec-kit/commerce-service/internal/auth"
	"github.com/spec-kit/commerce-service/internal/config"
	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/events"
	"github.com/spec-kit/commerce-service/internal/repository/memory"
	apperrors "github.com/spec-kit/commerce-service/pkg/util/errorutil"
)

type accountFixture struct {
	users       *UserService
	credentials *CredentialService
	auth        *AuthService
}

func newAccounts(t *testing.T) accountFixture {
	t.Helper()
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	credentialRepo := memory.NewCredentialRepository(store)
	deps := AccountDependencies{
		AccountRepo:    memory.NewAccountRepository(store),
		CredentialRepo: credentialRepo,
		UserRepo:       userRepo,
		Dispatcher:     events.NewInMemoryDispatcher(),
		Logger:         zap.NewNop(),
		BcryptCost:     4,
	}
	return accountFixture{
		users:       NewUserService(deps),
		credentials: NewCredentialService(deps),
		auth:        NewAuthService(config.AuthConfig{JWTSecret: "secret", AccessTokenTTLMinutes: 5}, credentialRepo),
	}
}

func john() *dto.UserDto {
	return &dto.UserDto{
		FirstName: "John",
		LastName:  "Doe",
		Email:     "john@mail.com",
		Phone:     "+21622125144",
		Credential: &dto.CredentialDto{
			Username:                "john",
			Password:                "123",
			IsEnabled:               true,
			IsAccountNonExpired:     true,
			IsAccountNonLocked:      true,
			IsCredentialsNonExpired: true,
		},
	}
}

func jane() *dto.UserDto {
	u := john()
	u.FirstName = "Jane"
	u.Email = "jane@mail.com"
	u.Credential.Username = "jane"
	return u
}

func asPrincipal(ctx context.Context, userID int, username string, role domain.RoleBasedAuthority) context.Context {
	return auth.ContextWithPrincipal(ctx, &auth.Principal{UserID: userID, Username: username, Role: role})
}

func TestUserService_SaveHashesPassword(t *testing.T) {
	ctx := context.Background()
	f := newAccounts(t)

	saved, err := f.users.Save(ctx, john())
	require.NoError(t, err)

	assert.Equal(t, 1, saved.UserID)
	require.NotNil(t, saved.Credential)
	assert.Equal(t, saved.UserID, saved.Credential.UserID)
	assert.Equal(t, domain.RoleUser, saved.Credential.RoleBasedAuthority)
	assert.True(t, auth.IsHashed(saved.Credential.Password))
	assert.NoError(t, auth.ComparePassword(saved.Credential.Password, "123"))
}

func TestUserService_CreateRequiresPassword(t *testing.T) {
	f := newAccounts(t)
	payload := john()
	payload.Credential.Password = ""

	_, err := f.users.Save(context.Background(), payload)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidationFailed, de.Code)
	assert.Contains(t, de.Details, "credential.password")
}

func TestUserService_UpdateKeepsHashWhenPasswordOmitted(t *testing.T) {
	ctx := context.Background()
	f := newAccounts(t)
	saved, err := f.users.Save(ctx, john())
	require.NoError(t, err)

	payload := john()
	payload.LastName = "Smith"
	payload.Credential.Password = ""
	updated, err := f.users.Update(ctx, saved.UserID, payload)
	require.NoError(t, err)

	assert.Equal(t, "Smith", updated.LastName)
	assert.Equal(t, saved.Credential.Password, updated.Credential.Password)
	assert.Equal(t, saved.Credential.CredentialID, updated.Credential.CredentialID)
}

func TestUserService_UpdateWithoutCredentialKeepsStoredOne(t *testing.T) {
	ctx := context.Background()
	f := newAccounts(t)
	saved, err := f.users.Save(ctx, john())
	require.NoError(t, err)

	payload := john()
	payload.Credential = nil
	updated, err := f.users.Update(ctx, saved.UserID, payload)
	require.NoError(t, err)

	require.NotNil(t, updated.Credential)
	assert.Equal(t, "john", updated.Credential.Username)
}

func TestUserService_UpdateAbsentIsNotFound(t *testing.T) {
	f := newAccounts(t)

	_, err := f.users.Update(context.Background(), 5, john())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserService_DeleteThenFindByUsername(t *testing.T) {
	ctx := context.Background()
	f := newAccounts(t)
	saved, err := f.users.Save(ctx, john())
	require.NoError(t, err)

	found, err := f.users.FindByUsername(ctx, "john")
	require.NoError(t, err)
	assert.Equal(t, saved.UserID, found.UserID)

	require.NoError(t, f.users.DeleteByID(ctx, 1))

	_, err = f.users.FindByUsername(ctx, "john")
	assert.True(t, apperrors.IsNotFound(err))
	_, err = f.users.FindByID(ctx, 1)
	assert.True(t, apperrors.IsNotFound(err))
	_, err = f.credentials.FindByUsername(ctx, "john")
	assert.True(t, apperrors.IsNotFound(err))

	assert.NoError(t, f.users.DeleteByID(ctx, 1))
}

func TestUserService_DuplicateUsernameConflicts(t *testing.T) {
	ctx := context.Background()
	f := newAccounts(t)
	_, err := f.users.Save(ctx, john())
	require.NoError(t, err)

	_, err = f.users.Save(ctx, john())
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	all, err := f.users.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUserService_RejectedUpdateLeavesUserUntouched(t *testing.T) {
	ctx := context.Background()
	f := newAccounts(t)
	_, err := f.users.Save(ctx, john())
	require.NoError(t, err)
	savedJane, err := f.users.Save(ctx, jane())
	require.NoError(t, err)

	payload := jane()
	payload.FirstName = "Hacked"
	payload.Credential.Username = "john"
	_, err = f.users.Update(ctx, savedJane.UserID, payload)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	reloaded, err := f.users.FindByID(ctx, savedJane.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Jane", reloaded.FirstName)
	require.NotNil(t, reloaded.Credential)
	assert.Equal(t, "jane", reloaded.Credential.Username)
}

func TestUserService_RoleIsAssignedByServer(t *testing.T) {
	ctx := context.Background()
	f := newAccounts(t)

	payload := john()
	payload.Credential.RoleBasedAuthority = domain.RoleAdmin
	saved, err := f.users.Save(ctx, payload)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, saved.Credential.RoleBasedAuthority)

	owner := asPrincipal(ctx, saved.UserID, "john", domain.RoleUser)
	payload = john()
	payload.Credential.RoleBasedAuthority = domain.RoleAdmin
	updated, err := f.users.Update(owner, saved.UserID, payload)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, updated.Credential.RoleBasedAuthority)

	admin := asPrincipal(ctx, 99, "root", domain.RoleAdmin)
	promoted := jane()
	promoted.Credential.RoleBasedAuthority = domain.RoleAdmin
	created, err := f.users.Save(admin, promoted)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, created.Credential.RoleBasedAuthority)

	payload = john()
	payload.Credential.RoleBasedAuthority = domain.RoleAdmin
	updated, err = f.users.Update(admin, saved.UserID, payload)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, updated.Credential.RoleBasedAuthority)
}

func TestUserService_UpdateOtherUserForbidden(t *testing.T) {
	ctx := context.Background()
	f := newAccounts(t)
	savedJohn, err := f.users.Save(ctx, john())
	require.NoError(t, err)
	savedJane, err := f.users.Save(ctx, jane())
	require.NoError(t, err)

	payload := john()
	payload.FirstName = "Hacked"
	_, err = f.users.Update(asPrincipal(ctx, savedJane.UserID, "jane", domain.RoleUser), savedJohn.UserID, payload)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	reloaded, err := f.users.FindByID(ctx, savedJohn.UserID)
	require.NoError(t, err)
	assert.Equal(t, "John", reloaded.FirstName)
}

func TestCredentialService_WritesRestrictedToOwner(t *testing.T) {
	ctx := context.Background()
	f := newAccounts(t)
	savedJohn, err := f.users.Save(ctx, john())
	require.NoError(t, err)
	savedJane, err := f.users.Save(ctx, jane())
	require.NoError(t, err)
	janeCtx := asPrincipal(ctx, savedJane.UserID, "jane", domain.RoleUser)

	hijack := &dto.CredentialDto{Username: "john", Password: "pwned", UserID: savedJohn.UserID, IsEnabled: true}
	_, err = f.credentials.Update(janeCtx, savedJohn.Credential.CredentialID, hijack)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	// moving one's own credential id onto another user is refused too.
	moved := &dto.CredentialDto{Username: "jane", UserID: savedJohn.UserID, IsEnabled: true}
	_, err = f.credentials.Update(janeCtx, savedJane.Credential.CredentialID, moved)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeForbidden))

	stored, err := f.credentials.FindByUsername(ctx, "john")
	require.NoError(t, err)
	assert.NoError(t, auth.ComparePassword(stored.Password, "123"))

	own := &dto.CredentialDto{Username: "jane", Password: "new", UserID: savedJane.UserID, IsEnabled: true,
		IsAccountNonExpired: true, IsAccountNonLocked: true, IsCredentialsNonExpired: true, RoleBasedAuthority: domain.RoleAdmin}
	updated, err := f.credentials.Update(janeCtx, savedJane.Credential.CredentialID, own)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, updated.RoleBasedAuthority)
	assert.NoError(t, auth.ComparePassword(updated.Password, "new"))

	admin := asPrincipal(ctx, 0, "root", domain.RoleAdmin)
	_, err = f.credentials.Update(admin, savedJohn.Credential.CredentialID, hijack)
	assert.NoError(t, err)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	ctx := context.Background()
	f := newAccounts(t)

	require.NoError(t, f.users.EnsureAdmin(ctx, "", ""))
	all, err := f.users.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, f.users.EnsureAdmin(ctx, "root", "s3cret"))
	require.NoError(t, f.users.EnsureAdmin(ctx, "root", "other"))

	all, err = f.users.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	stored, err := f.credentials.FindByUsername(ctx, "root")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, stored.RoleBasedAuthority)
	assert.NoError(t, auth.ComparePassword(stored.Password, "s3cret"))

	_, _, err = f.auth.Authenticate(ctx, "root", "s3cret")
	assert.NoError(t, err)
}

func TestCredentialService_RequiresExistingUser(t *testing.T) {
	f := newAccounts(t)

	_, err := f.credentials.Save(context.Background(), &dto.CredentialDto{Username: "ghost", Password: "x", UserID: 9})
	de := apperrors.ToDomainError(err)
	assert.Equal(t, apperrors.CodeValidationFailed, de.Code)
	assert.Contains(t, de.Details, "userId")
}

func TestCredentialService_SaveForUserWithoutCredential(t *testing.T) {
	ctx := context.Background()
	f := newAccounts(t)
	payload := john()
	payload.Credential = nil
	user, err := f.users.Save(ctx, payload)
	require.NoError(t, err)
	assert.Nil(t, user.Credential)

	saved, err := f.credentials.Save(ctx, &dto.CredentialDto{Username: "jdoe", Password: "pw", UserID: user.UserID, IsEnabled: true})
	require.NoError(t, err)
	assert.True(t, auth.IsHashed(saved.Password))

	reloaded, err := f.users.FindByID(ctx, user.UserID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.Credential)
	assert.Equal(t, "jdoe", reloaded.Credential.Username)
}

func TestAuthService_Authenticate(t *testing.T) {
	ctx := context.Background()
	f := newAccounts(t)
	_, err := f.users.Save(ctx, john())
	require.NoError(t, err)

	locked := john()
	locked.Credential.Username = "locked"
	locked.Credential.IsAccountNonLocked = false
	_, err = f.users.Save(ctx, locked)
	require.NoError(t, err)

	token, _, err := f.auth.Authenticate(ctx, "john", "123")
	require.NoError(t, err)
	claims, err := f.auth.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "john", claims.Username)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "john", password: "nope"},
		{name: "unknown user", username: "nobody", password: "123"},
		{name: "locked account", username: "locked", password: "123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := f.auth.Authenticate(ctx, tt.username, tt.password)
			assert.True(t, apperrors.HasCode(err, apperrors.CodeUnauthorized))
		})
	}
}
