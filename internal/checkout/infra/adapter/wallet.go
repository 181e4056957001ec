package adapter

import (
	"context"

	"github.com/shopspring/decimal"

	walletapp "github.com/shoplite/retail-checkout/internal/wallet/app"
)

type WalletServiceAdapter struct {
	svc *walletapp.Service
}

func NewWalletServiceAdapter(svc *walletapp.Service) *WalletServiceAdapter {
	return &WalletServiceAdapter{svc: svc}
}

func (a *WalletServiceAdapter) Balance(ctx context.Context, customerID string) (decimal.Decimal, error) {
	return a.svc.Balance(ctx, customerID)
}

func (a *WalletServiceAdapter) Debit(ctx context.Context, customerID string, amount decimal.Decimal) (decimal.Decimal, error) {
	c, err := a.svc.Debit(ctx, customerID, amount)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return c.Balance, nil
}

func (a *WalletServiceAdapter) Credit(ctx context.Context, customerID string, amount decimal.Decimal) (decimal.Decimal, error) {
	c, err := a.svc.Credit(ctx, customerID, amount)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return c.Balance, nil
}
