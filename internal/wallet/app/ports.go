package app

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shoplite/retail-checkout/internal/wallet/domain"
)

type CustomerRepo interface {
	Get(ctx context.Context, customerID string) (domain.Customer, error)
	Create(ctx context.Context, c domain.Customer) (domain.Customer, error)
	// Debit subtracts amount atomically and fails with
	// domain.ErrInsufficientFunds if the balance would go below zero.
	Debit(ctx context.Context, customerID string, amount decimal.Decimal) (domain.Customer, error)
	// Credit adds amount atomically.
	Credit(ctx context.Context, customerID string, amount decimal.Decimal) (domain.Customer, error)
}
