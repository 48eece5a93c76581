package cartstore

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("cartstore: cart not found")

// Item is one cart line. Name, Price and Image are copied from the catalog at
// add time so the cart page can render without extra lookups.
type Item struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

// Store holds one cart snapshot per cart token. An unknown token reads as an
// empty cart, not an error.
type Store interface {
	Get(ctx context.Context, token string) ([]Item, error)
	Save(ctx context.Context, token string, items []Item) error
	Clear(ctx context.Context, token string) error
}
