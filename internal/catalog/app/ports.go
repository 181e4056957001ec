package app

import (
	"context"

	"github.com/shoplite/retail-checkout/internal/catalog/domain"
)

type ProductRepo interface {
	Get(ctx context.Context, name string) (domain.Product, error)
	Save(ctx context.Context, p domain.Product) (domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	SetStock(ctx context.Context, name string, stock int64) (domain.Product, error)
	// AdjustStock applies delta atomically and fails with
	// domain.ErrOutOfStock if the result would go below zero.
	AdjustStock(ctx context.Context, name string, delta int64) (domain.Product, error)
}
