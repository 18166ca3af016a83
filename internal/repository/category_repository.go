package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/commerce-service/internal/domain"
)

// CategoryRepository manages category persistence.
type CategoryRepository interface {
	Repository[domain.Category]
	CountProducts(ctx context.Context, categoryID int) (int, error)
}

type categoryRepository struct {
	db DBTX
}

// NewCategoryRepository builds the repository.
func NewCategoryRepository(db DBTX) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	const query = `
        INSERT INTO categories (category_title, image_url)
        VALUES ($1,$2)
        RETURNING category_id, created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		category.Title,
		category.ImageURL,
	).Scan(&category.ID, &category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	const query = `
        UPDATE categories SET category_title=$1, image_url=$2, updated_at=NOW()
        WHERE category_id=$3
        RETURNING created_at, updated_at`
	return r.db.QueryRow(ctx, query,
		category.Title,
		category.ImageURL,
		category.ID,
	).Scan(&category.CreatedAt, &category.UpdatedAt)
}

func (r *categoryRepository) GetByID(ctx context.Context, id int) (*domain.Category, error) {
	const query = `
        SELECT category_id, category_title, image_url, created_at, updated_at
        FROM categories WHERE category_id=$1`
	var category domain.Category
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&category.ID,
		&category.Title,
		&category.ImageURL,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	const query = `
        SELECT category_id, category_title, image_url, created_at, updated_at
        FROM categories ORDER BY category_id`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var category domain.Category
		if err := rows.Scan(&category.ID, &category.Title, &category.ImageURL, &category.CreatedAt, &category.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, category)
	}
	return result, rows.Err()
}

func (r *categoryRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM categories WHERE category_id=$1`, id)
	return err
}

func (r *categoryRepository) CountProducts(ctx context.Context, categoryID int) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE category_id=$1`, categoryID).Scan(&count)
	if err != nil && err != pgx.ErrNoRows {
		return 0, err
	}
	return count, nil
}
