package memory

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/commerce-service/internal/domain"
	apperrors "github.com/spec-kit/commerce-service/pkg/util/errorutil"
)

func TestProductRepository_JoinsCategory(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	categories := NewCategoryRepository(store)
	products := NewProductRepository(store)

	category := &domain.Category{Title: "Electronics"}
	require.NoError(t, categories.Create(ctx, category))
	assert.Equal(t, 1, category.ID)

	product := &domain.Product{
		Title:     "Laptop Dell XPS",
		SKU:       "LAP-001",
		PriceUnit: decimal.NewFromInt(3500),
		Quantity:  5,
		Category:  &domain.Category{ID: category.ID},
	}
	require.NoError(t, products.Create(ctx, product))

	got, err := products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Electronics", got.Category.Title)

	count, err := categories.CountProducts(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestProductRepository_MissingCategory(t *testing.T) {
	products := NewProductRepository(NewStore())

	err := products.Create(context.Background(), &domain.Product{Title: "x", Category: &domain.Category{ID: 9}})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestRepositories_AbsentRows(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	_, err := NewProductRepository(store).GetByID(ctx, 42)
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	err = NewUserRepository(store).Update(ctx, &domain.User{ID: 42})
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	assert.NoError(t, NewCategoryRepository(store).Delete(ctx, 42))
}

func TestListPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(NewStore())

	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, users.Create(ctx, &domain.User{FirstName: name}))
	}

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "a", list[0].FirstName)
	assert.Equal(t, "c", list[2].FirstName)
}

func TestCredentialRepository_Constraints(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	users := NewUserRepository(store)
	credentials := NewCredentialRepository(store)

	john := &domain.User{FirstName: "John"}
	jane := &domain.User{FirstName: "Jane"}
	require.NoError(t, users.Create(ctx, john))
	require.NoError(t, users.Create(ctx, jane))

	require.NoError(t, credentials.Create(ctx, &domain.Credential{UserID: john.ID, Username: "john"}))

	err := credentials.Create(ctx, &domain.Credential{UserID: jane.ID, Username: "john"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	err = credentials.Create(ctx, &domain.Credential{UserID: john.ID, Username: "johnny"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	err = credentials.Create(ctx, &domain.Credential{UserID: 99, Username: "ghost"})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestAccountRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	accounts := NewAccountRepository(store)

	account := &domain.Account{
		User:       domain.User{FirstName: "John"},
		Credential: &domain.Credential{Username: "john", Password: "secret"},
	}
	require.NoError(t, accounts.Create(ctx, account))
	assert.Equal(t, account.User.ID, account.Credential.UserID)

	got, err := accounts.GetByUsername(ctx, "john")
	require.NoError(t, err)
	assert.Equal(t, "John", got.User.FirstName)

	require.NoError(t, accounts.Delete(ctx, account.User.ID))

	_, err = accounts.GetByUsername(ctx, "john")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestAccountRepository_UpdateKeepsCredentialWhenOmitted(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	accounts := NewAccountRepository(store)

	account := &domain.Account{
		User:       domain.User{FirstName: "John"},
		Credential: &domain.Credential{Username: "john"},
	}
	require.NoError(t, accounts.Create(ctx, account))

	require.NoError(t, accounts.Update(ctx, &domain.Account{User: domain.User{ID: account.User.ID, FirstName: "Johnny"}}))

	got, err := accounts.GetByID(ctx, account.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Johnny", got.User.FirstName)
	require.NotNil(t, got.Credential)
	assert.Equal(t, "john", got.Credential.Username)
}

func TestAccountRepository_RejectedWritesLeaveNoTrace(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	accounts := NewAccountRepository(store)

	john := &domain.Account{User: domain.User{FirstName: "John"}, Credential: &domain.Credential{Username: "john"}}
	require.NoError(t, accounts.Create(ctx, john))
	jane := &domain.Account{User: domain.User{FirstName: "Jane"}, Credential: &domain.Credential{Username: "jane"}}
	require.NoError(t, accounts.Create(ctx, jane))

	err := accounts.Create(ctx, &domain.Account{
		User:       domain.User{FirstName: "Mallory"},
		Credential: &domain.Credential{Username: "john"},
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	err = accounts.Update(ctx, &domain.Account{
		User:       domain.User{ID: jane.User.ID, FirstName: "Hacked"},
		Credential: &domain.Credential{Username: "john"},
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeConflict))

	all, err := accounts.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "John", all[0].User.FirstName)
	assert.Equal(t, "Jane", all[1].User.FirstName)
	require.NotNil(t, all[1].Credential)
	assert.Equal(t, "jane", all[1].Credential.Username)
}
