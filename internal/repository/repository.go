package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository is the persistence contract shared by every entity type.
// GetByID and Update return pgx.ErrNoRows when the id does not exist;
// Delete of an absent id is not an error.
type Repository[E any] interface {
	Create(ctx context.Context, entity *E) error
	Update(ctx context.Context, entity *E) error
	GetByID(ctx context.Context, id int) (*E, error)
	List(ctx context.Context) ([]E, error)
	Delete(ctx context.Context, id int) error
}

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
