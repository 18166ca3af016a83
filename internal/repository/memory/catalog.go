package memory

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/repository"
	apperrors "github.com/spec-kit/commerce-service/pkg/util/errorutil"
)

type categoryRepository struct {
	store *Store
}

// NewCategoryRepository returns an in-memory CategoryRepository.
func NewCategoryRepository(store *Store) repository.CategoryRepository {
	return &categoryRepository{store: store}
}

func (r *categoryRepository) Create(_ context.Context, category *domain.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	category.ID = s.categories.nextID()
	category.CreatedAt = s.now()
	category.UpdatedAt = category.CreatedAt
	s.categories.rows[category.ID] = *category
	return nil
}

func (r *categoryRepository) Update(_ context.Context, category *domain.Category) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.categories.rows[category.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	category.CreatedAt = existing.CreatedAt
	category.UpdatedAt = s.now()
	s.categories.rows[category.ID] = *category
	return nil
}

func (r *categoryRepository) GetByID(_ context.Context, id int) (*domain.Category, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	category, ok := s.categories.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &category, nil
}

func (r *categoryRepository) List(_ context.Context) ([]domain.Category, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Category, 0, len(s.categories.rows))
	for _, id := range s.categories.sortedIDs() {
		result = append(result, s.categories.rows[id])
	}
	return result, nil
}

func (r *categoryRepository) Delete(_ context.Context, id int) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.categories.rows, id)
	return nil
}

func (r *categoryRepository) CountProducts(_ context.Context, categoryID int) (int, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, p := range s.products.rows {
		if p.CategoryID() == categoryID {
			count++
		}
	}
	return count, nil
}

type productRepository struct {
	store *Store
}

// NewProductRepository returns an in-memory ProductRepository.
func NewProductRepository(store *Store) repository.ProductRepository {
	return &productRepository{store: store}
}

func (r *productRepository) Create(_ context.Context, product *domain.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkCategory(product.CategoryID()); err != nil {
		return err
	}
	product.ID = s.products.nextID()
	product.CreatedAt = s.now()
	product.UpdatedAt = product.CreatedAt
	s.products.rows[product.ID] = s.productRow(product)
	return nil
}

func (r *productRepository) Update(_ context.Context, product *domain.Product) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.products.rows[product.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if err := s.checkCategory(product.CategoryID()); err != nil {
		return err
	}
	product.CreatedAt = existing.CreatedAt
	product.UpdatedAt = s.now()
	s.products.rows[product.ID] = s.productRow(product)
	return nil
}

func (r *productRepository) GetByID(_ context.Context, id int) (*domain.Product, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	row, ok := s.products.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return s.joinCategory(row), nil
}

func (r *productRepository) List(_ context.Context) ([]domain.Product, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Product, 0, len(s.products.rows))
	for _, id := range s.products.sortedIDs() {
		result = append(result, *s.joinCategory(s.products.rows[id]))
	}
	return result, nil
}

func (r *productRepository) Delete(_ context.Context, id int) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.products.rows, id)
	return nil
}

// productRow keeps only the category reference, mirroring the category_id column.
func (s *Store) productRow(p *domain.Product) domain.Product {
	row := *p
	row.Category = &domain.Category{ID: p.CategoryID()}
	return row
}

func (s *Store) joinCategory(row domain.Product) *domain.Product {
	if category, ok := s.categories.rows[row.CategoryID()]; ok {
		row.Category = &category
	} else {
		row.Category = &domain.Category{ID: row.CategoryID()}
	}
	return &row
}

func (s *Store) checkCategory(id int) error {
	if _, ok := s.categories.rows[id]; !ok {
		return apperrors.NewValidationError("referenced record does not exist",
			map[string]any{"constraint": "products_category_id_fkey"})
	}
	return nil
}
