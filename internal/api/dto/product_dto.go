package dto

import (
	"strings"

	"github.com/shopspring/decimal"

	apperrors "github.com/spec-kit/commerce-service/pkg/util/errorutil"
)

// CategoryDto is the transport shape of a category.
type CategoryDto struct {
	CategoryID    int    `json:"categoryId,omitempty"`
	CategoryTitle string `json:"categoryTitle,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
}

// Prices are stored as NUMERIC(12,2).
const priceScale = 2

var maxPriceUnit = decimal.RequireFromString("9999999999.99")

// ProductDto is the transport shape of a product with its category embedded.
type ProductDto struct {
	ProductID    int             `json:"productId,omitempty"`
	ProductTitle string          `json:"productTitle"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	SKU          string          `json:"sku"`
	PriceUnit    decimal.Decimal `json:"priceUnit"`
	Quantity     int             `json:"quantity"`
	Category     *CategoryDto    `json:"category,omitempty"`
}

// Validate checks required fields of a create/update payload.
func (p *ProductDto) Validate() error {
	details := map[string]any{}
	if strings.TrimSpace(p.ProductTitle) == "" {
		details["productTitle"] = "required"
	}
	if strings.TrimSpace(p.SKU) == "" {
		details["sku"] = "required"
	}
	switch {
	case p.PriceUnit.IsNegative():
		details["priceUnit"] = "must not be negative"
	case !p.PriceUnit.Equal(p.PriceUnit.Truncate(priceScale)):
		details["priceUnit"] = "at most 2 decimal places"
	case p.PriceUnit.GreaterThan(maxPriceUnit):
		details["priceUnit"] = "exceeds " + maxPriceUnit.String()
	}
	if p.Quantity < 0 {
		details["quantity"] = "must not be negative"
	}
	if p.Category == nil || p.Category.CategoryID <= 0 {
		details["category.categoryId"] = "required"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid product", details)
	}
	return nil
}

// Validate checks required fields of a category payload.
func (c *CategoryDto) Validate() error {
	if strings.TrimSpace(c.CategoryTitle) == "" {
		return apperrors.NewValidationError("invalid category", map[string]any{"categoryTitle": "required"})
	}
	return nil
}
