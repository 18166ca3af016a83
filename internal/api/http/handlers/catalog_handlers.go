package handlers

import (
	"github.com/spec-kit/commerce-service/internal/api/dto"
	"github.com/spec-kit/commerce-service/internal/service"
)

// NewProductsHandler serves /api/products.
func NewProductsHandler(products *service.ProductService) *CrudHandler[dto.ProductDto] {
	return NewCrudHandler[dto.ProductDto](products, func(d *dto.ProductDto) int { return d.ProductID }, nil)
}

// NewCategoriesHandler serves /api/categories.
func NewCategoriesHandler(categories *service.CategoryService) *CrudHandler[dto.CategoryDto] {
	return NewCrudHandler[dto.CategoryDto](categories, func(d *dto.CategoryDto) int { return d.CategoryID }, nil)
}
