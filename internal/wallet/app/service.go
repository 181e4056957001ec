package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shoplite/retail-checkout/internal/wallet/domain"
)

var ErrInvalidInput = errors.New("invalid input")

type Service struct {
	repo CustomerRepo
}

func NewService(repo CustomerRepo) *Service {
	return &Service{
		repo: repo,
	}
}

// Register opens a wallet with the given opening balance.
func (s *Service) Register(ctx context.Context, name string, openingBalance decimal.Decimal) (domain.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" || openingBalance.IsNegative() {
		return domain.Customer{}, ErrInvalidInput
	}

	c := domain.Customer{
		ID:      uuid.NewString(),
		Name:    name,
		Balance: openingBalance,
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, customerID string) (domain.Customer, error) {
	if strings.TrimSpace(customerID) == "" {
		return domain.Customer{}, ErrInvalidInput
	}
	return s.repo.Get(ctx, customerID)
}

func (s *Service) Balance(ctx context.Context, customerID string) (decimal.Decimal, error) {
	c, err := s.Get(ctx, customerID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return c.Balance, nil
}

// Debit charges the wallet. Only the checkout commit calls this.
func (s *Service) Debit(ctx context.Context, customerID string, amount decimal.Decimal) (domain.Customer, error) {
	if strings.TrimSpace(customerID) == "" || amount.IsNegative() {
		return domain.Customer{}, ErrInvalidInput
	}
	c, err := s.repo.Debit(ctx, customerID, amount)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("debit %s from customer %s: %w", amount, customerID, err)
	}
	return c, nil
}

// Credit refunds the wallet. Only checkout commit compensation calls
// this.
func (s *Service) Credit(ctx context.Context, customerID string, amount decimal.Decimal) (domain.Customer, error) {
	if strings.TrimSpace(customerID) == "" || amount.IsNegative() {
		return domain.Customer{}, ErrInvalidInput
	}
	c, err := s.repo.Credit(ctx, customerID, amount)
	if err != nil {
		return domain.Customer{}, fmt.Errorf("credit %s to customer %s: %w", amount, customerID, err)
	}
	return c, nil
}
