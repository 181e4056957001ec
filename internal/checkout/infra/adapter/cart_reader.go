package adapter

import (
	"context"

	cartapp "github.com/shoplite/retail-checkout/internal/cart/app"
	cartdomain "github.com/shoplite/retail-checkout/internal/cart/domain"
	checkoutapp "github.com/shoplite/retail-checkout/internal/checkout/app"
)

type CartServiceReader struct {
	svc *cartapp.Service
}

func NewCartServiceReader(svc *cartapp.Service) *CartServiceReader {
	return &CartServiceReader{svc: svc}
}

func (r *CartServiceReader) Cart(ctx context.Context, cartID string) (checkoutapp.Cart, error) {
	cart, err := r.svc.Get(ctx, cartID)
	if err != nil {
		return checkoutapp.Cart{}, err
	}

	items := make([]checkoutapp.CartItem, 0, len(cart.Items))
	for _, it := range cart.Items {
		items = append(items, checkoutapp.CartItem{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
		})
	}
	return checkoutapp.Cart{
		ID:         cart.ID,
		CustomerID: cart.CustomerID,
		Settled:    cart.Status == cartdomain.StatusSettled,
		Items:      items,
	}, nil
}

func (r *CartServiceReader) MarkSettled(ctx context.Context, cartID string) error {
	return r.svc.MarkSettled(ctx, cartID)
}
