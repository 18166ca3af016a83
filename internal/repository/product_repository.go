package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/spec-kit/commerce-service/internal/domain"
)

// ProductRepository manages product persistence. Reads join the owning
// category so the returned product carries it.
type ProductRepository interface {
	Repository[domain.Product]
}

type productRepository struct {
	db DBTX
}

// NewProductRepository returns a Postgres-backed implementation.
func NewProductRepository(db DBTX) ProductRepository {
	return &productRepository{db: db}
}

const productSelect = `
        SELECT p.product_id, p.product_title, p.image_url, p.sku, p.price_unit::text, p.quantity,
               p.created_at, p.updated_at,
               c.category_id, c.category_title, c.image_url, c.created_at, c.updated_at
        FROM products p
        JOIN categories c ON c.category_id = p.category_id`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	const query = `
        INSERT INTO products (product_title, image_url, sku, price_unit, quantity, category_id)
        VALUES ($1, $2, $3, $4::numeric, $5, $6)
        RETURNING product_id, created_at, updated_at`

	return r.db.QueryRow(ctx, query,
		product.Title,
		product.ImageURL,
		product.SKU,
		product.PriceUnit.String(),
		product.Quantity,
		product.CategoryID(),
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	const query = `
        UPDATE products
        SET product_title=$1, image_url=$2, sku=$3, price_unit=$4::numeric, quantity=$5, category_id=$6, updated_at=NOW()
        WHERE product_id=$7`

	cmd, err := r.db.Exec(ctx, query,
		product.Title,
		product.ImageURL,
		product.SKU,
		product.PriceUnit.String(),
		product.Quantity,
		product.CategoryID(),
		product.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id int) (*domain.Product, error) {
	product, err := scanProduct(r.db.QueryRow(ctx, productSelect+` WHERE p.product_id=$1`, id))
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepository) List(ctx context.Context) ([]domain.Product, error) {
	rows, err := r.db.Query(ctx, productSelect+` ORDER BY p.product_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *product)
	}
	return result, rows.Err()
}

func (r *productRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, `DELETE FROM products WHERE product_id=$1`, id)
	return err
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		product  domain.Product
		category domain.Category
		price    string
	)
	if err := row.Scan(
		&product.ID,
		&product.Title,
		&product.ImageURL,
		&product.SKU,
		&price,
		&product.Quantity,
		&product.CreatedAt,
		&product.UpdatedAt,
		&category.ID,
		&category.Title,
		&category.ImageURL,
		&category.CreatedAt,
		&category.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parsed, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	product.PriceUnit = parsed
	product.Category = &category
	return &product, nil
}
