package dto

import "github.com/shopspring/decimal"

func init() {
	// priceUnit is rendered as a JSON number, matching what clients send.
	decimal.MarshalJSONWithoutQuotes = true
}

// Collection is the envelope returned by list endpoints.
type Collection[T any] struct {
	Collection []T `json:"collection"`
}

// NewCollection wraps items, rendering an empty slice instead of null.
func NewCollection[T any](items []T) Collection[T] {
	if items == nil {
		items = []T{}
	}
	return Collection[T]{Collection: items}
}
