package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested product does not exist.
	ErrNotFound = errors.New("product not found")
	// ErrOutOfStock is returned when a requested quantity exceeds the
	// product's current stock.
	ErrOutOfStock = errors.New("not enough stock")
	// ErrExpired is returned when an expirable product is past its expiry.
	ErrExpired = errors.New("product expired")
)

// Kind discriminates product behaviour around expiry.
type Kind string

const (
	KindExpirable    Kind = "EXPIRABLE"
	KindNonExpirable Kind = "NON_EXPIRABLE"
)

// Product is an owned catalog record keyed by Name. Stock is the only
// mutable field; all writes go through the catalog store so mutation
// stays centralized.
type Product struct {
	Name  string
	Kind  Kind
	Price decimal.Decimal
	Stock int64

	// ExpiresAt is set for KindExpirable only.
	ExpiresAt time.Time
	// Shippable is set for KindNonExpirable only; expirable products
	// always ship.
	Shippable bool
	// UnitWeight is the per-unit weight in kilograms.
	UnitWeight decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsExpired reports whether the product is past its expiry. Monotonic in
// time: once true it never becomes false again.
func (p Product) IsExpired() bool {
	if p.Kind != KindExpirable {
		return false
	}
	return time.Now().After(p.ExpiresAt)
}

// NeedsShipping reports whether the product contributes to the shipping
// fee. Expirable products always need physical delivery.
func (p Product) NeedsShipping() bool {
	if p.Kind == KindExpirable {
		return true
	}
	return p.Shippable
}

// Weight returns the per-unit weight in kilograms.
func (p Product) Weight() decimal.Decimal {
	return p.UnitWeight
}
