package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/commerce-service/internal/api/dto"
	"github.com/spec-kit/commerce-service/internal/auth"
	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/events"
	"github.com/spec-kit/commerce-service/internal/mapping"
	"github.com/spec-kit/commerce-service/internal/repository"
	apperrors "github.com/spec-kit/commerce-service/pkg/util/errorutil"
)

// AccountDependencies bundles repositories for the user-service.
type AccountDependencies struct {
	AccountRepo    repository.AccountRepository
	CredentialRepo repository.CredentialRepository
	UserRepo       repository.UserRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	BcryptCost     int
}

// UserService manages users and their embedded credential.
type UserService struct {
	*CrudService[domain.Account, dto.UserDto]
	accounts   repository.AccountRepository
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(deps AccountDependencies) *UserService {
	s := &UserService{accounts: deps.AccountRepo, bcryptCost: deps.BcryptCost}
	s.CrudService = NewCrudService(CrudConfig[domain.Account, dto.UserDto]{
		Resource:   events.ResourceUser,
		Repo:       deps.AccountRepo,
		ToDTO:      mapping.UserToDTO,
		ToEntity:   mapping.UserToEntity,
		IDOf:       func(a *domain.Account) int { return a.User.ID },
		SetID:      func(a *domain.Account, id int) { a.User.ID = id },
		Validate:   (*dto.UserDto).Validate,
		Dispatcher: deps.Dispatcher,
		Logger:     deps.Logger,
		BeforeSave: s.prepareCredential,
	})
	return s
}

// FindByUsername looks a user up through its credential's username.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*dto.UserDto, error) {
	account, err := s.accounts.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("user with username "+username, map[string]any{"username": username})
		}
		return nil, apperrors.MapError(err)
	}
	return mapping.UserToDTO(account), nil
}

// EnsureAdmin seeds a ROLE_ADMIN account unless username is already taken.
// Empty arguments disable seeding.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	_, err := s.accounts.GetByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !apperrors.IsNotFound(err) {
		return apperrors.MapError(err)
	}

	hashed, err := auth.EnsureHashed(password, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	account := &domain.Account{
		User: domain.User{FirstName: username},
		Credential: &domain.Credential{
			Username:                username,
			Password:                hashed,
			Role:                    domain.RoleAdmin,
			IsEnabled:               true,
			IsAccountNonExpired:     true,
			IsAccountNonLocked:      true,
			IsCredentialsNonExpired: true,
		},
	}
	return apperrors.MapError(s.accounts.Create(ctx, account))
}

func (s *UserService) prepareCredential(ctx context.Context, account, existing *domain.Account) error {
	var stored *domain.Credential
	if existing != nil {
		if err := authorizeOwner(ctx, existing.User.ID); err != nil {
			return err
		}
		stored = existing.Credential
	}
	if account.Credential == nil {
		return nil
	}
	return finalizeCredential(ctx, account.Credential, stored, s.bcryptCost, "credential.")
}

// CredentialService manages credentials directly.
type CredentialService struct {
	*CrudService[domain.Credential, dto.CredentialDto]
	credentials repository.CredentialRepository
	users       repository.UserRepository
	bcryptCost  int
}

// NewCredentialService constructs the service.
func NewCredentialService(deps AccountDependencies) *CredentialService {
	s := &CredentialService{credentials: deps.CredentialRepo, users: deps.UserRepo, bcryptCost: deps.BcryptCost}
	s.CrudService = NewCrudService(CrudConfig[domain.Credential, dto.CredentialDto]{
		Resource:   events.ResourceCredential,
		Repo:       deps.CredentialRepo,
		ToDTO:      mapping.CredentialToDTO,
		ToEntity:   mapping.CredentialToEntity,
		IDOf:       func(c *domain.Credential) int { return c.ID },
		SetID:      func(c *domain.Credential, id int) { c.ID = id },
		Validate:   (*dto.CredentialDto).Validate,
		Dispatcher: deps.Dispatcher,
		Logger:     deps.Logger,
		BeforeSave: s.prepare,
	})
	return s
}

// FindByUsername returns the credential with the given username.
func (s *CredentialService) FindByUsername(ctx context.Context, username string) (*dto.CredentialDto, error) {
	credential, err := s.credentials.GetByUsername(ctx, username)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NewNotFound("credential with username "+username, map[string]any{"username": username})
		}
		return nil, apperrors.MapError(err)
	}
	return mapping.CredentialToDTO(credential), nil
}

func (s *CredentialService) prepare(ctx context.Context, credential, existing *domain.Credential) error {
	if err := authorizeOwner(ctx, credential.UserID); err != nil {
		return err
	}
	if existing != nil {
		if err := authorizeOwner(ctx, existing.UserID); err != nil {
			return err
		}
	}
	if _, err := s.users.GetByID(ctx, credential.UserID); err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewValidationError("user does not exist", map[string]any{"userId": credential.UserID})
		}
		return apperrors.MapError(err)
	}
	return finalizeCredential(ctx, credential, existing, s.bcryptCost, "")
}

// finalizeCredential applies the role rules and stores only bcrypt hashes. An
// empty password on update keeps the stored hash; on create it is rejected.
func finalizeCredential(ctx context.Context, credential, stored *domain.Credential, cost int, fieldPrefix string) error {
	applyRole(ctx, credential, stored)
	if credential.Password == "" {
		if stored == nil {
			return apperrors.NewValidationError("invalid credential", map[string]any{fieldPrefix + "password": "required"})
		}
		credential.Password = stored.Password
		return nil
	}
	hashed, err := auth.EnsureHashed(credential.Password, cost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	credential.Password = hashed
	return nil
}

// applyRole lets only admins choose a role. Everyone else gets ROLE_USER on
// create and keeps the stored role on update.
func applyRole(ctx context.Context, credential, stored *domain.Credential) {
	if principal, ok := auth.PrincipalFrom(ctx); ok && principal.IsAdmin() {
		if credential.Role == "" {
			credential.Role = domain.RoleUser
		}
		return
	}
	if stored != nil {
		credential.Role = stored.Role
		return
	}
	credential.Role = domain.RoleUser
}

// authorizeOwner rejects a non-admin caller writing someone else's account.
// Anonymous calls are left to the route guards.
func authorizeOwner(ctx context.Context, userID int) error {
	principal, ok := auth.PrincipalFrom(ctx)
	if !ok || principal.IsAdmin() || principal.UserID == userID {
		return nil
	}
	return apperrors.NewForbidden("cannot modify another user's account")
}
