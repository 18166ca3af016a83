package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/persistence"
	"github.com/spec-kit/commerce-service/internal/repository"
	apperrors "github.com/spec-kit/commerce-service/pkg/util/errorutil"
)

// openTestPool connects to POSTGRES_TEST_DSN, migrates, and empties the tables.
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	for _, set := range []persistence.MigrationSet{persistence.CatalogMigrations, persistence.AccountMigrations} {
		require.NoError(t, persistence.RunMigrations(ctx, pool, set, zap.NewNop()))
	}
	var versionTables int
	require.NoError(t, pool.QueryRow(ctx,
		`SELECT count(*) FROM information_schema.tables WHERE table_name IN ('goose_db_version_catalog', 'goose_db_version_accounts')`,
	).Scan(&versionTables))
	require.Equal(t, 2, versionTables)
	_, err = pool.Exec(ctx, `TRUNCATE credentials, users, products, categories RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func TestPostgresCatalog(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	categories := repository.NewCategoryRepository(pool)
	products := repository.NewProductRepository(pool)

	category := &domain.Category{Title: "Electronics"}
	require.NoError(t, categories.Create(ctx, category))

	product := &domain.Product{
		Title:     "Laptop Dell XPS",
		SKU:       "LAP-001",
		PriceUnit: decimal.RequireFromString("3500.00"),
		Quantity:  5,
		Category:  &domain.Category{ID: category.ID},
	}
	require.NoError(t, products.Create(ctx, product))

	got, err := products.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, got.PriceUnit.Equal(decimal.NewFromInt(3500)))
	assert.Equal(t, "Electronics", got.Category.Title)

	count, err := categories.CountProducts(ctx, category.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, products.Delete(ctx, product.ID))
	_, err = products.GetByID(ctx, product.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
	require.NoError(t, products.Delete(ctx, product.ID))
}

func TestPostgresAccounts(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()
	credentials := repository.NewCredentialRepository(pool)
	accounts := repository.NewAccountRepository(pool)

	account := &domain.Account{
		User:       domain.User{FirstName: "John", Email: "john@mail.com"},
		Credential: &domain.Credential{Username: "john", Password: "hash", Role: domain.RoleUser, IsEnabled: true},
	}
	require.NoError(t, accounts.Create(ctx, account))
	assert.Equal(t, account.User.ID, account.Credential.UserID)

	byName, err := accounts.GetByUsername(ctx, "john")
	require.NoError(t, err)
	assert.Equal(t, account.User.ID, byName.User.ID)

	dup := &domain.Credential{UserID: account.User.ID, Username: "john", Password: "x", Role: domain.RoleUser}
	err = credentials.Create(ctx, dup)
	assert.True(t, apperrors.HasCode(apperrors.MapError(err), apperrors.CodeConflict))

	err = accounts.Create(ctx, &domain.Account{
		User:       domain.User{FirstName: "Mallory"},
		Credential: &domain.Credential{Username: "john", Password: "x", Role: domain.RoleUser},
	})
	assert.True(t, apperrors.HasCode(apperrors.MapError(err), apperrors.CodeConflict))
	all, err := accounts.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, accounts.Delete(ctx, account.User.ID))
	_, err = accounts.GetByUsername(ctx, "john")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
