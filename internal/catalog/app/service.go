package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shoplite/retail-checkout/internal/catalog/domain"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo ProductRepo
}

func NewService(repo ProductRepo) *Service {
	return &Service{
		repo: repo,
	}
}

// CreateExpirable registers a product that expires at a fixed instant.
// Expirable products always need shipping.
func (s *Service) CreateExpirable(ctx context.Context, name string, price decimal.Decimal, stock int64, expiresAt time.Time, unitWeight decimal.Decimal) (domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" || expiresAt.IsZero() {
		return domain.Product{}, ErrInvalidInput
	}
	if price.IsNegative() || stock < 0 || unitWeight.IsNegative() {
		return domain.Product{}, ErrInvalidInput
	}

	p := domain.Product{
		Name:       name,
		Kind:       domain.KindExpirable,
		Price:      price,
		Stock:      stock,
		ExpiresAt:  expiresAt,
		UnitWeight: unitWeight,
	}
	return s.repo.Save(ctx, p)
}

// CreateNonExpirable registers a product that never expires; whether it
// ships is fixed at creation.
func (s *Service) CreateNonExpirable(ctx context.Context, name string, price decimal.Decimal, stock int64, shippable bool, unitWeight decimal.Decimal) (domain.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Product{}, ErrInvalidInput
	}
	if price.IsNegative() || stock < 0 || unitWeight.IsNegative() {
		return domain.Product{}, ErrInvalidInput
	}

	p := domain.Product{
		Name:       name,
		Kind:       domain.KindNonExpirable,
		Price:      price,
		Stock:      stock,
		Shippable:  shippable,
		UnitWeight: unitWeight,
	}
	return s.repo.Save(ctx, p)
}

func (s *Service) Get(ctx context.Context, name string) (domain.Product, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, name)
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

// SetStock overwrites a product's stock, for restocking and corrections.
func (s *Service) SetStock(ctx context.Context, name string, stock int64) (domain.Product, error) {
	if strings.TrimSpace(name) == "" || stock < 0 {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.SetStock(ctx, name, stock)
}

// AdjustStock applies a signed stock delta. A committed checkout is the
// only caller that decrements.
func (s *Service) AdjustStock(ctx context.Context, name string, delta int64) (domain.Product, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Product{}, ErrInvalidInput
	}
	return s.repo.AdjustStock(ctx, name, delta)
}
