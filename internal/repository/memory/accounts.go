package memory

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/repository"
	apperrors "github.com/spec-kit/commerce-service/pkg/util/errorutil"
)

type userRepository struct {
	store *Store
}

// NewUserRepository returns an in-memory UserRepository.
func NewUserRepository(store *Store) repository.UserRepository {
	return &userRepository{store: store}
}

func (r *userRepository) Create(_ context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.insertUser(user)
	return nil
}

func (r *userRepository) Update(_ context.Context, user *domain.User) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.replaceUser(user)
}

func (r *userRepository) GetByID(_ context.Context, id int) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &user, nil
}

func (r *userRepository) List(_ context.Context) ([]domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.User, 0, len(s.users.rows))
	for _, id := range s.users.sortedIDs() {
		result = append(result, s.users.rows[id])
	}
	return result, nil
}

// Delete removes the user and, like ON DELETE CASCADE, its credential.
func (r *userRepository) Delete(_ context.Context, id int) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteUser(id)
	return nil
}

type credentialRepository struct {
	store *Store
}

// NewCredentialRepository returns an in-memory CredentialRepository.
func NewCredentialRepository(store *Store) repository.CredentialRepository {
	return &credentialRepository{store: store}
}

func (r *credentialRepository) Create(_ context.Context, c *domain.Credential) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCredential(c, 0); err != nil {
		return err
	}
	s.insertCredential(c)
	return nil
}

func (r *credentialRepository) Update(_ context.Context, c *domain.Credential) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.credentials.rows[c.ID]; !ok {
		return pgx.ErrNoRows
	}
	if err := s.checkCredential(c, c.ID); err != nil {
		return err
	}
	s.replaceCredential(c)
	return nil
}

func (r *credentialRepository) GetByID(_ context.Context, id int) (*domain.Credential, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.credentials.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &c, nil
}

func (r *credentialRepository) GetByUsername(_ context.Context, username string) (*domain.Credential, error) {
	return r.find(func(c domain.Credential) bool { return c.Username == username })
}

func (r *credentialRepository) GetByUserID(_ context.Context, userID int) (*domain.Credential, error) {
	return r.find(func(c domain.Credential) bool { return c.UserID == userID })
}

func (r *credentialRepository) List(_ context.Context) ([]domain.Credential, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Credential, 0, len(s.credentials.rows))
	for _, id := range s.credentials.sortedIDs() {
		result = append(result, s.credentials.rows[id])
	}
	return result, nil
}

func (r *credentialRepository) Delete(_ context.Context, id int) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.credentials.rows, id)
	return nil
}

func (r *credentialRepository) DeleteByUserID(_ context.Context, userID int) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.credentials.rows {
		if c.UserID == userID {
			delete(s.credentials.rows, id)
		}
	}
	return nil
}

func (r *credentialRepository) find(match func(domain.Credential) bool) (*domain.Credential, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.findCredential(match)
}

// checkCredential enforces the user foreign key and the unique constraints.
// selfID is skipped when comparing against existing rows.
func (s *Store) checkCredential(c *domain.Credential, selfID int) error {
	if _, ok := s.users.rows[c.UserID]; !ok {
		return apperrors.NewValidationError("referenced record does not exist",
			map[string]any{"constraint": "credentials_user_id_fkey"})
	}
	return s.checkCredentialUnique(c, selfID)
}

// checkCredentialUnique enforces the unique username and user_id constraints.
func (s *Store) checkCredentialUnique(c *domain.Credential, selfID int) error {
	for id, other := range s.credentials.rows {
		if id == selfID {
			continue
		}
		if other.Username == c.Username {
			return apperrors.NewConflict("duplicate value", map[string]any{"constraint": "credentials_username_key"})
		}
		if other.UserID == c.UserID {
			return apperrors.NewConflict("duplicate value", map[string]any{"constraint": "credentials_user_id_key"})
		}
	}
	return nil
}

// The helpers below assume s.mu is held for writing.

func (s *Store) insertUser(user *domain.User) {
	user.ID = s.users.nextID()
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	s.users.rows[user.ID] = *user
}

func (s *Store) replaceUser(user *domain.User) error {
	existing, ok := s.users.rows[user.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	user.CreatedAt = existing.CreatedAt
	user.UpdatedAt = s.now()
	s.users.rows[user.ID] = *user
	return nil
}

// deleteUser removes the user and, like ON DELETE CASCADE, its credential.
func (s *Store) deleteUser(id int) {
	delete(s.users.rows, id)
	for credID, c := range s.credentials.rows {
		if c.UserID == id {
			delete(s.credentials.rows, credID)
		}
	}
}

func (s *Store) insertCredential(c *domain.Credential) {
	c.ID = s.credentials.nextID()
	c.CreatedAt = s.now()
	c.UpdatedAt = c.CreatedAt
	s.credentials.rows[c.ID] = *c
}

func (s *Store) replaceCredential(c *domain.Credential) {
	c.CreatedAt = s.credentials.rows[c.ID].CreatedAt
	c.UpdatedAt = s.now()
	s.credentials.rows[c.ID] = *c
}

func (s *Store) findCredential(match func(domain.Credential) bool) (*domain.Credential, error) {
	for _, c := range s.credentials.rows {
		if match(c) {
			return &c, nil
		}
	}
	return nil, pgx.ErrNoRows
}
