package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shoplite/retail-checkout/internal/catalog/domain"
)

// ProductRepo keeps products in a mutex-guarded map keyed by name, the
// single place product state is mutated. Values are copied on the way in
// and out so callers never alias store state.
type ProductRepo struct {
	mu       sync.RWMutex
	products map[string]domain.Product
	names    []string // insertion order, for a stable List
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{
		products: make(map[string]domain.Product),
	}
}

func (r *ProductRepo) Get(ctx context.Context, name string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[name]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	return p, nil
}

func (r *ProductRepo) Save(ctx context.Context, p domain.Product) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if existing, ok := r.products[p.Name]; ok {
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
		r.names = append(r.names, p.Name)
	}
	p.UpdatedAt = now
	r.products[p.Name] = p
	return p, nil
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Product, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, r.products[name])
	}
	return out, nil
}

func (r *ProductRepo) SetStock(ctx context.Context, name string, stock int64) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[name]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	p.Stock = stock
	p.UpdatedAt = time.Now()
	r.products[name] = p
	return p, nil
}

func (r *ProductRepo) AdjustStock(ctx context.Context, name string, delta int64) (domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[name]
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrNotFound, name)
	}
	next := p.Stock + delta
	if next < 0 {
		return domain.Product{}, fmt.Errorf("%w: %s", domain.ErrOutOfStock, name)
	}
	p.Stock = next
	p.UpdatedAt = time.Now()
	r.products[name] = p
	return p, nil
}
