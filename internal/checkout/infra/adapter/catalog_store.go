package adapter

import (
	"context"

	catalogapp "github.com/shoplite/retail-checkout/internal/catalog/app"
	checkoutapp "github.com/shoplite/retail-checkout/internal/checkout/app"
)

type CatalogServiceStore struct {
	svc *catalogapp.Service
}

func NewCatalogServiceStore(svc *catalogapp.Service) *CatalogServiceStore {
	return &CatalogServiceStore{svc: svc}
}

func (s *CatalogServiceStore) Product(ctx context.Context, name string) (checkoutapp.Product, error) {
	p, err := s.svc.Get(ctx, name)
	if err != nil {
		return checkoutapp.Product{}, err
	}

	return checkoutapp.Product{
		Name:          p.Name,
		Price:         p.Price,
		Stock:         p.Stock,
		Expired:       p.IsExpired(),
		NeedsShipping: p.NeedsShipping(),
		UnitWeight:    p.Weight(),
	}, nil
}

func (s *CatalogServiceStore) AdjustStock(ctx context.Context, name string, delta int64) error {
	_, err := s.svc.AdjustStock(ctx, name, delta)
	return err
}
