package mapping

import (
	"github.com/spec-kit/commerce-service/internal/api/dto"
	"github.com/spec-kit/commerce-service/internal/domain"
)

// CategoryToDTO maps a category entity to its DTO.
func CategoryToDTO(c *domain.Category) *dto.CategoryDto {
	if c == nil {
		return nil
	}
	return &dto.CategoryDto{
		CategoryID:    c.ID,
		CategoryTitle: c.Title,
		ImageURL:      c.ImageURL,
	}
}

// CategoryToEntity maps a category DTO to its entity.
func CategoryToEntity(d *dto.CategoryDto) *domain.Category {
	if d == nil {
		return nil
	}
	return &domain.Category{
		ID:       d.CategoryID,
		Title:    d.CategoryTitle,
		ImageURL: d.ImageURL,
	}
}

// ProductToDTO maps a product entity, embedding its category.
func ProductToDTO(p *domain.Product) *dto.ProductDto {
	if p == nil {
		return nil
	}
	return &dto.ProductDto{
		ProductID:    p.ID,
		ProductTitle: p.Title,
		ImageURL:     p.ImageURL,
		SKU:          p.SKU,
		PriceUnit:    p.PriceUnit,
		Quantity:     p.Quantity,
		Category:     CategoryToDTO(p.Category),
	}
}

// ProductToEntity maps a product DTO back to an entity.
func ProductToEntity(d *dto.ProductDto) *domain.Product {
	if d == nil {
		return nil
	}
	return &domain.Product{
		ID:        d.ProductID,
		Title:     d.ProductTitle,
		ImageURL:  d.ImageURL,
		SKU:       d.SKU,
		PriceUnit: d.PriceUnit,
		Quantity:  d.Quantity,
		Category:  CategoryToEntity(d.Category),
	}
}
