package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/commerce-service/internal/api/dto"
	"github.com/spec-kit/commerce-service/internal/domain"
	"github.com/spec-kit/commerce-service/internal/events"
	"github.com/spec-kit/commerce-service/internal/mapping"
	"github.com/spec-kit/commerce-service/internal/repository"
	apperrors "github.com/spec-kit/commerce-service/pkg/util/errorutil"
)

// CatalogDependencies bundles repositories for the product-service.
type CatalogDependencies struct {
	ProductRepo  repository.Repository[domain.Product]
	CategoryRepo repository.CategoryRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// ProductService manages products.
type ProductService struct {
	*CrudService[domain.Product, dto.ProductDto]
	categories repository.CategoryRepository
}

// NewProductService constructs the service.
func NewProductService(deps CatalogDependencies) *ProductService {
	s := &ProductService{categories: deps.CategoryRepo}
	s.CrudService = NewCrudService(CrudConfig[domain.Product, dto.ProductDto]{
		Resource:   events.ResourceProduct,
		Repo:       deps.ProductRepo,
		ToDTO:      mapping.ProductToDTO,
		ToEntity:   mapping.ProductToEntity,
		IDOf:       func(p *domain.Product) int { return p.ID },
		SetID:      func(p *domain.Product, id int) { p.ID = id },
		Validate:   (*dto.ProductDto).Validate,
		Dispatcher: deps.Dispatcher,
		Logger:     deps.Logger,
		BeforeSave: s.resolveCategory,
	})
	return s
}

// resolveCategory requires the referenced category to exist and attaches it.
func (s *ProductService) resolveCategory(ctx context.Context, product, _ *domain.Product) error {
	categoryID := product.CategoryID()
	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NewValidationError("category does not exist", map[string]any{"categoryId": categoryID})
		}
		return apperrors.MapError(err)
	}
	product.Category = category
	return nil
}

// CategoryService manages categories.
type CategoryService struct {
	*CrudService[domain.Category, dto.CategoryDto]
	categories repository.CategoryRepository
}

// NewCategoryService constructs the service.
func NewCategoryService(deps CatalogDependencies) *CategoryService {
	s := &CategoryService{categories: deps.CategoryRepo}
	s.CrudService = NewCrudService(CrudConfig[domain.Category, dto.CategoryDto]{
		Resource:     events.ResourceCategory,
		Repo:         deps.CategoryRepo,
		ToDTO:        mapping.CategoryToDTO,
		ToEntity:     mapping.CategoryToEntity,
		IDOf:         func(c *domain.Category) int { return c.ID },
		SetID:        func(c *domain.Category, id int) { c.ID = id },
		Validate:     (*dto.CategoryDto).Validate,
		Dispatcher:   deps.Dispatcher,
		Logger:       deps.Logger,
		BeforeDelete: s.ensureEmpty,
	})
	return s
}

func (s *CategoryService) ensureEmpty(ctx context.Context, id int) error {
	count, err := s.categories.CountProducts(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count > 0 {
		return apperrors.NewConflict("category still has products", map[string]any{"categoryId": id, "products": count})
	}
	return nil
}
