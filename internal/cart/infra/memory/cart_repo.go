package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shoplite/retail-checkout/internal/cart/domain"
)

// CartRepo keeps carts in a mutex-guarded map keyed by cart ID. Carts
// are deep-copied on the way in and out so callers never share entry
// slices with the store.
type CartRepo struct {
	mu    sync.RWMutex
	carts map[string]domain.Cart
}

func NewCartRepo() *CartRepo {
	return &CartRepo{
		carts: make(map[string]domain.Cart),
	}
}

func (r *CartRepo) Get(ctx context.Context, cartID string) (domain.Cart, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return domain.Cart{}, fmt.Errorf("%w: %s", domain.ErrNotFound, cartID)
	}
	return copyCart(cart), nil
}

func (r *CartRepo) Create(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[cart.ID]; ok {
		return domain.Cart{}, fmt.Errorf("cart %s already exists", cart.ID)
	}
	now := time.Now()
	cart.CreatedAt = now
	cart.UpdatedAt = now
	r.carts[cart.ID] = copyCart(cart)
	return cart, nil
}

func (r *CartRepo) Save(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.carts[cart.ID]
	if !ok {
		return domain.Cart{}, fmt.Errorf("%w: %s", domain.ErrNotFound, cart.ID)
	}
	cart.CreatedAt = existing.CreatedAt
	cart.UpdatedAt = time.Now()
	r.carts[cart.ID] = copyCart(cart)
	return cart, nil
}

func copyCart(cart domain.Cart) domain.Cart {
	out := cart
	out.Items = make([]domain.Item, len(cart.Items))
	copy(out.Items, cart.Items)
	return out
}
