package persistence

import (
	"context"
	"embed"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

//go:embed migrations/*/*.sql
var migrationFS embed.FS

// MigrationSet is one service's schema history. Each set keeps its own goose
// version table so both services can share a database.
type MigrationSet struct {
	Name  string
	dir   string
	table string
}

var (
	CatalogMigrations = MigrationSet{Name: "catalog", dir: "migrations/catalog", table: "goose_db_version_catalog"}
	AccountMigrations = MigrationSet{Name: "accounts", dir: "migrations/accounts", table: "goose_db_version_accounts"}
)

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

// RunMigrations applies set's embedded SQL migrations with goose.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool, set MigrationSet, logger *zap.Logger) error {
	if pool == nil {
		logger.Warn("no postgres pool available; skipping migrations", zap.String("set", set.Name))
		return nil
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFS)
	goose.SetTableName(set.table)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := goose.UpContext(ctx, db, set.dir); err != nil {
		return fmt.Errorf("apply %s migrations: %w", set.Name, err)
	}

	logger.Info("migrations applied", zap.String("set", set.Name), zap.String("table", set.table))
	return nil
}
