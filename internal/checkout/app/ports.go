package app

import (
	"context"

	"github.com/shopspring/decimal"
)

// CartItem is the checkout view of one cart entry.
type CartItem struct {
	ProductName string
	Quantity    int64
}

// Cart is the checkout view of a cart.
type Cart struct {
	ID         string
	CustomerID string
	Settled    bool
	Items      []CartItem
}

// Product is the checkout view of live catalog state.
type Product struct {
	Name          string
	Price         decimal.Decimal
	Stock         int64
	Expired       bool
	NeedsShipping bool
	UnitWeight    decimal.Decimal
}

type CartReader interface {
	Cart(ctx context.Context, cartID string) (Cart, error)
	MarkSettled(ctx context.Context, cartID string) error
}

type CatalogStore interface {
	Product(ctx context.Context, name string) (Product, error)
	AdjustStock(ctx context.Context, name string, delta int64) error
}

type Wallet interface {
	Balance(ctx context.Context, customerID string) (decimal.Decimal, error)
	// Debit charges the wallet and returns the new balance.
	Debit(ctx context.Context, customerID string, amount decimal.Decimal) (decimal.Decimal, error)
	// Credit refunds a debit when the commit cannot finish.
	Credit(ctx context.Context, customerID string, amount decimal.Decimal) (decimal.Decimal, error)
}
