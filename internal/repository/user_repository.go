package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/commerce-service/internal/domain"
)

// UserRepository defines persistence access for users.
type UserRepository interface {
	Repository[domain.User]
}

type userRepository struct {
	db DBTX
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (first_name, last_name, image_url, email, phone)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING user_id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		user.FirstName,
		user.LastName,
		user.ImageURL,
		user.Email,
		user.Phone,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET first_name=$1, last_name=$2, image_url=$3, email=$4, phone=$5, updated_at=NOW()
        WHERE user_id=$6`

	cmd, err := r.db.Exec(ctx, query,
		user.FirstName,
		user.LastName,
		user.ImageURL,
		user.Email,
		user.Phone,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int) (*domain.User, error) {
	const query = `
        SELECT user_id, first_name, last_name, image_url, email, phone, created_at, updated_at
        FROM users WHERE user_id=$1`

	var user domain.User
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.ImageURL,
		&user.Email,
		&user.Phone,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	const query = `
        SELECT user_id, first_name, last_name, image_url, email, phone, created_at, updated_at
        FROM users ORDER BY user_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.ID, &user.FirstName, &user.LastName, &user.ImageURL,
			&user.Email, &user.Phone, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

func (r *userRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM users WHERE user_id=$1`, id)
	return err
}
