package app

import (
	"context"

	"github.com/shoplite/retail-checkout/internal/cart/domain"
	catalog "github.com/shoplite/retail-checkout/internal/catalog/domain"
)

type CartRepo interface {
	Get(ctx context.Context, cartID string) (domain.Cart, error)
	Create(ctx context.Context, cart domain.Cart) (domain.Cart, error)
	Save(ctx context.Context, cart domain.Cart) (domain.Cart, error)
}

// CatalogReader provides the live product state add-time validation
// runs against. The catalog service satisfies it directly.
type CatalogReader interface {
	Get(ctx context.Context, name string) (catalog.Product, error)
}
