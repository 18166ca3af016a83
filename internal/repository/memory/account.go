package memory

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/repository"
)

type accountRepository struct {
	store *Store
}

// NewAccountRepository returns an in-memory AccountRepository. Each write
// validates the credential before touching any row, all under the store lock,
// so a rejected write leaves both tables as they were.
func NewAccountRepository(store *Store) repository.AccountRepository {
	return &accountRepository{store: store}
}

func (r *accountRepository) Create(_ context.Context, account *domain.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if account.Credential != nil {
		// the user is new, so only the username can collide
		account.Credential.UserID = 0
		if err := s.checkCredentialUnique(account.Credential, 0); err != nil {
			return err
		}
	}
	s.insertUser(&account.User)
	if account.Credential != nil {
		account.Credential.UserID = account.User.ID
		s.insertCredential(account.Credential)
	}
	return nil
}

func (r *accountRepository) Update(_ context.Context, account *domain.Account) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users.rows[account.User.ID]; !ok {
		return pgx.ErrNoRows
	}
	credential := account.Credential
	if credential != nil {
		credential.UserID = account.User.ID
		credential.ID = 0
		if existing, err := s.findCredential(func(c domain.Credential) bool { return c.UserID == account.User.ID }); err == nil {
			credential.ID = existing.ID
		}
		if err := s.checkCredentialUnique(credential, credential.ID); err != nil {
			return err
		}
	}

	if err := s.replaceUser(&account.User); err != nil {
		return err
	}
	switch {
	case credential == nil:
	case credential.ID == 0:
		s.insertCredential(credential)
	default:
		s.replaceCredential(credential)
	}
	return nil
}

func (r *accountRepository) GetByID(_ context.Context, id int) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	account := &domain.Account{User: user}
	if c, err := s.findCredential(func(c domain.Credential) bool { return c.UserID == id }); err == nil {
		account.Credential = c
	}
	return account, nil
}

func (r *accountRepository) GetByUsername(_ context.Context, username string) (*domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, err := s.findCredential(func(c domain.Credential) bool { return c.Username == username })
	if err != nil {
		return nil, err
	}
	user, ok := s.users.rows[c.UserID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.Account{User: user, Credential: c}, nil
}

func (r *accountRepository) List(_ context.Context) ([]domain.Account, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]domain.User, 0, len(s.users.rows))
	for _, id := range s.users.sortedIDs() {
		users = append(users, s.users.rows[id])
	}
	credentials := make([]domain.Credential, 0, len(s.credentials.rows))
	for _, c := range s.credentials.rows {
		credentials = append(credentials, c)
	}
	return repository.JoinAccounts(users, credentials), nil
}

func (r *accountRepository) Delete(_ context.Context, id int) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deleteUser(id)
	return nil
}
