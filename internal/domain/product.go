package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog item. Category carries the referenced category; only
// its ID is persisted on the product row.
type Product struct {
	ID        int
	Title     string
	ImageURL  string
	SKU       string
	PriceUnit decimal.Decimal
	Quantity  int
	Category  *Category
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CategoryID returns the referenced category id, or zero when unset.
func (p *Product) CategoryID() int {
	if p == nil || p.Category == nil {
		return 0
	}
	return p.Category.ID
}
