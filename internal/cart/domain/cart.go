package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	catalog "github.com/shoplite/retail-checkout/internal/catalog/domain"
)

var (
	// ErrNotFound is returned when a requested cart does not exist.
	ErrNotFound = errors.New("cart not found")
	// ErrInvalidQuantity is returned for non-positive add quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")
	// ErrCartSettled is returned when a settled cart is modified or
	// checked out again. Settled carts are consumed.
	ErrCartSettled = errors.New("cart already settled")
)

const (
	StatusOpen    = "OPEN"
	StatusSettled = "SETTLED"
)

// Item is one cart entry. UnitPrice is captured at add time; prices are
// immutable, so it always equals the live catalog price.
type Item struct {
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
}

// LineTotal is the entry's price times quantity.
func (it Item) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
}

// Cart is an ordered sequence of entries unique by product name, owned
// by one customer.
type Cart struct {
	ID         string
	CustomerID string
	Status     string
	Items      []Item
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Add validates qty against the live product snapshot and appends an
// entry, merging with an existing entry for the same product. The merged
// quantity is re-validated against current stock. On any error the cart
// is left unchanged.
func (c *Cart) Add(p catalog.Product, qty int64) error {
	if c.Status == StatusSettled {
		return fmt.Errorf("%w: %s", ErrCartSettled, c.ID)
	}
	if qty <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQuantity, qty)
	}
	if qty > p.Stock {
		return fmt.Errorf("%w: %s", catalog.ErrOutOfStock, p.Name)
	}
	if p.IsExpired() {
		return fmt.Errorf("%w: %s", catalog.ErrExpired, p.Name)
	}

	for i, it := range c.Items {
		if it.ProductName != p.Name {
			continue
		}
		combined := it.Quantity + qty
		if combined > p.Stock {
			return fmt.Errorf("%w: %s", catalog.ErrOutOfStock, p.Name)
		}
		c.Items[i].Quantity = combined
		return nil
	}

	c.Items = append(c.Items, Item{
		ProductName: p.Name,
		Quantity:    qty,
		UnitPrice:   p.Price,
	})
	return nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Subtotal sums line totals over all entries.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}
