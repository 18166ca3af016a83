package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/commerce-service/internal/domain"
)

// CredentialRepository handles persistence for user credentials.
type CredentialRepository interface {
	Repository[domain.Credential]
	GetByUsername(ctx context.Context, username string) (*domain.Credential, error)
	GetByUserID(ctx context.Context, userID int) (*domain.Credential, error)
	DeleteByUserID(ctx context.Context, userID int) error
}

type credentialRepository struct {
	db DBTX
}

// NewCredentialRepository instantiates the repository.
func NewCredentialRepository(db DBTX) CredentialRepository {
	return &credentialRepository{db: db}
}

const credentialSelect = `
        SELECT credential_id, user_id, username, password, role,
               is_enabled, is_account_non_expired, is_account_non_locked, is_credentials_non_expired,
               created_at, updated_at
        FROM credentials`

func (r *credentialRepository) Create(ctx context.Context, c *domain.Credential) error {
	const query = `
        INSERT INTO credentials (user_id, username, password, role,
            is_enabled, is_account_non_expired, is_account_non_locked, is_credentials_non_expired)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING credential_id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		c.UserID,
		c.Username,
		c.Password,
		c.Role,
		c.IsEnabled,
		c.IsAccountNonExpired,
		c.IsAccountNonLocked,
		c.IsCredentialsNonExpired,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *credentialRepository) Update(ctx context.Context, c *domain.Credential) error {
	const query = `
        UPDATE credentials
        SET user_id=$1, username=$2, password=$3, role=$4, is_enabled=$5, is_account_non_expired=$6,
            is_account_non_locked=$7, is_credentials_non_expired=$8, updated_at=NOW()
        WHERE credential_id=$9`

	cmd, err := r.db.Exec(ctx, query,
		c.UserID,
		c.Username,
		c.Password,
		c.Role,
		c.IsEnabled,
		c.IsAccountNonExpired,
		c.IsAccountNonLocked,
		c.IsCredentialsNonExpired,
		c.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *credentialRepository) GetByID(ctx context.Context, id int) (*domain.Credential, error) {
	return scanCredential(r.db.QueryRow(ctx, credentialSelect+` WHERE credential_id=$1`, id))
}

func (r *credentialRepository) GetByUsername(ctx context.Context, username string) (*domain.Credential, error) {
	return scanCredential(r.db.QueryRow(ctx, credentialSelect+` WHERE username=$1`, username))
}

func (r *credentialRepository) GetByUserID(ctx context.Context, userID int) (*domain.Credential, error) {
	return scanCredential(r.db.QueryRow(ctx, credentialSelect+` WHERE user_id=$1`, userID))
}

func (r *credentialRepository) List(ctx context.Context) ([]domain.Credential, error) {
	rows, err := r.db.Query(ctx, credentialSelect+` ORDER BY credential_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Credential
	for rows.Next() {
		c, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *c)
	}
	return result, rows.Err()
}

func (r *credentialRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM credentials WHERE credential_id=$1`, id)
	return err
}

func (r *credentialRepository) DeleteByUserID(ctx context.Context, userID int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM credentials WHERE user_id=$1`, userID)
	return err
}

func scanCredential(row pgx.Row) (*domain.Credential, error) {
	var c domain.Credential
	if err := row.Scan(
		&c.ID,
		&c.UserID,
		&c.Username,
		&c.Password,
		&c.Role,
		&c.IsEnabled,
		&c.IsAccountNonExpired,
		&c.IsAccountNonLocked,
		&c.IsCredentialsNonExpired,
		&c.CreatedAt,
		&c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}
