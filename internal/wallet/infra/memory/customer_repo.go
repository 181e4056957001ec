package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shoplite/retail-checkout/internal/wallet/domain"
)

// CustomerRepo keeps customers in a mutex-guarded map keyed by ID, so
// balance mutation stays centralized and atomic.
type CustomerRepo struct {
	mu        sync.RWMutex
	customers map[string]domain.Customer
}

func NewCustomerRepo() *CustomerRepo {
	return &CustomerRepo{
		customers: make(map[string]domain.Customer),
	}
}

func (r *CustomerRepo) Get(ctx context.Context, customerID string) (domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.customers[customerID]
	if !ok {
		return domain.Customer{}, fmt.Errorf("%w: %s", domain.ErrNotFound, customerID)
	}
	return c, nil
}

func (r *CustomerRepo) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.customers[c.ID]; ok {
		return domain.Customer{}, fmt.Errorf("customer %s already exists", c.ID)
	}
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	r.customers[c.ID] = c
	return c, nil
}

func (r *CustomerRepo) Debit(ctx context.Context, customerID string, amount decimal.Decimal) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[customerID]
	if !ok {
		return domain.Customer{}, fmt.Errorf("%w: %s", domain.ErrNotFound, customerID)
	}
	next := c.Balance.Sub(amount)
	if next.IsNegative() {
		return domain.Customer{}, fmt.Errorf("%w: balance %s, charge %s", domain.ErrInsufficientFunds, c.Balance, amount)
	}
	c.Balance = next
	c.UpdatedAt = time.Now()
	r.customers[customerID] = c
	return c, nil
}

func (r *CustomerRepo) Credit(ctx context.Context, customerID string, amount decimal.Decimal) (domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.customers[customerID]
	if !ok {
		return domain.Customer{}, fmt.Errorf("%w: %s", domain.ErrNotFound, customerID)
	}
	c.Balance = c.Balance.Add(amount)
	c.UpdatedAt = time.Now()
	r.customers[customerID] = c
	return c, nil
}
