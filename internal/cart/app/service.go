package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/shoplite/retail-checkout/internal/cart/domain"
)

type Service struct {
	repo    CartRepo
	catalog CatalogReader

	// mu serializes read-modify-write cycles on carts so concurrent
	// adds to one cart cannot drop each other's updates.
	mu sync.Mutex
}

func NewService(repo CartRepo, catalog CatalogReader) *Service {
	return &Service{
		repo:    repo,
		catalog: catalog,
	}
}

// Create opens an empty cart for the customer.
func (s *Service) Create(ctx context.Context, customerID string) (domain.Cart, error) {
	cart := domain.Cart{
		ID:         uuid.NewString(),
		CustomerID: customerID,
		Status:     domain.StatusOpen,
	}
	return s.repo.Create(ctx, cart)
}

func (s *Service) Get(ctx context.Context, cartID string) (domain.Cart, error) {
	return s.repo.Get(ctx, cartID)
}

// AddItem validates the requested quantity against current product state
// and adds it to the cart, merging duplicate products. The cart is
// persisted only when validation passes.
func (s *Service) AddItem(ctx context.Context, cartID, productName string, qty int64) (domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.repo.Get(ctx, cartID)
	if err != nil {
		return domain.Cart{}, err
	}

	p, err := s.catalog.Get(ctx, productName)
	if err != nil {
		return domain.Cart{}, fmt.Errorf("add item to cart %s: %w", cartID, err)
	}

	if err := cart.Add(p, qty); err != nil {
		return domain.Cart{}, fmt.Errorf("add item to cart %s: %w", cartID, err)
	}

	return s.repo.Save(ctx, cart)
}

// MarkSettled consumes the cart after a successful checkout.
func (s *Service) MarkSettled(ctx context.Context, cartID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.repo.Get(ctx, cartID)
	if err != nil {
		return err
	}
	cart.Status = domain.StatusSettled
	_, err = s.repo.Save(ctx, cart)
	return err
}
