package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/commerce-service/internal/domain"
)

// AccountRepository stores a user together with its optional credential.
// The two rows are joined by credentials.user_id. Writes touching both rows
// are atomic: a failed credential write leaves the user row untouched.
type AccountRepository interface {
	Repository[domain.Account]
	GetByUsername(ctx context.Context, username string) (*domain.Account, error)
}

type accountRepository struct {
	db TxStarter
}

// NewAccountRepository returns a Postgres-backed implementation that runs
// every multi-row write in one transaction.
func NewAccountRepository(db TxStarter) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		if err := NewUserRepository(tx).Create(ctx, &account.User); err != nil {
			return err
		}
		if account.Credential == nil {
			return nil
		}
		account.Credential.UserID = account.User.ID
		return NewCredentialRepository(tx).Create(ctx, account.Credential)
	})
}

// Update replaces the user row. A supplied credential replaces the stored one
// (or is created); a nil credential leaves the stored one untouched.
func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		if err := NewUserRepository(tx).Update(ctx, &account.User); err != nil {
			return err
		}
		if account.Credential == nil {
			return nil
		}
		credentials := NewCredentialRepository(tx)
		account.Credential.UserID = account.User.ID
		existing, err := credentials.GetByUserID(ctx, account.User.ID)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			account.Credential.ID = 0
			return credentials.Create(ctx, account.Credential)
		case err != nil:
			return err
		}
		account.Credential.ID = existing.ID
		return credentials.Update(ctx, account.Credential)
	})
}

func (r *accountRepository) GetByID(ctx context.Context, id int) (*domain.Account, error) {
	user, err := NewUserRepository(r.db).GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	credential, err := NewCredentialRepository(r.db).GetByUserID(ctx, user.ID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &domain.Account{User: *user}, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.Account{User: *user, Credential: credential}, nil
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	credential, err := NewCredentialRepository(r.db).GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	user, err := NewUserRepository(r.db).GetByID(ctx, credential.UserID)
	if err != nil {
		return nil, err
	}
	return &domain.Account{User: *user, Credential: credential}, nil
}

func (r *accountRepository) List(ctx context.Context) ([]domain.Account, error) {
	users, err := NewUserRepository(r.db).List(ctx)
	if err != nil {
		return nil, err
	}
	credentials, err := NewCredentialRepository(r.db).List(ctx)
	if err != nil {
		return nil, err
	}
	return JoinAccounts(users, credentials), nil
}

func (r *accountRepository) Delete(ctx context.Context, id int) error {
	return WithTx(ctx, r.db, func(ctx context.Context, tx DBTX) error {
		if err := NewCredentialRepository(tx).DeleteByUserID(ctx, id); err != nil {
			return err
		}
		return NewUserRepository(tx).Delete(ctx, id)
	})
}

// JoinAccounts pairs each user with its credential, keeping the user order.
func JoinAccounts(users []domain.User, credentials []domain.Credential) []domain.Account {
	byUser := make(map[int]*domain.Credential, len(credentials))
	for i := range credentials {
		byUser[credentials[i].UserID] = &credentials[i]
	}

	result := make([]domain.Account, 0, len(users))
	for _, user := range users {
		result = append(result, domain.Account{User: user, Credential: byUser[user.ID]})
	}
	return result
}
