package app

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shoplite/retail-checkout/internal/wallet/domain"
)

type fakeRepo struct {
	debited  decimal.Decimal
	credited decimal.Decimal
}

func (r *fakeRepo) Get(ctx context.Context, id string) (domain.Customer, error) {
	return domain.Customer{ID: id, Balance: decimal.NewFromInt(1000)}, nil
}

func (r *fakeRepo) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	return c, nil
}

func (r *fakeRepo) Debit(ctx context.Context, id string, amount decimal.Decimal) (domain.Customer, error) {
	r.debited = amount
	return domain.Customer{ID: id, Balance: decimal.NewFromInt(1000).Sub(amount)}, nil
}

func (r *fakeRepo) Credit(ctx context.Context, id string, amount decimal.Decimal) (domain.Customer, error) {
	r.credited = amount
	return domain.Customer{ID: id, Balance: decimal.NewFromInt(1000).Add(amount)}, nil
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(&fakeRepo{})

	t.Run("empty name -> invalid", func(t *testing.T) {
		_, err := svc.Register(context.Background(), "   ", decimal.NewFromInt(100))
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("negative opening balance -> invalid", func(t *testing.T) {
		_, err := svc.Register(context.Background(), "John Doe", decimal.NewFromInt(-1))
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("valid registration assigns id", func(t *testing.T) {
		c, err := svc.Register(context.Background(), "John Doe", decimal.NewFromInt(1000))
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		if c.ID == "" {
			t.Fatal("expected generated id")
		}
	})
}

func TestDebit(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	t.Run("negative amount -> invalid", func(t *testing.T) {
		_, err := svc.Debit(context.Background(), "c1", decimal.NewFromInt(-5))
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("debit passes amount through", func(t *testing.T) {
		c, err := svc.Debit(context.Background(), "c1", decimal.NewFromInt(411))
		if err != nil {
			t.Fatalf("debit: %v", err)
		}
		if !repo.debited.Equal(decimal.NewFromInt(411)) {
			t.Fatalf("expected debit of 411, got %s", repo.debited)
		}
		if !c.Balance.Equal(decimal.NewFromInt(589)) {
			t.Fatalf("expected balance 589, got %s", c.Balance)
		}
	})
}

func TestCredit(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)

	t.Run("negative amount -> invalid", func(t *testing.T) {
		_, err := svc.Credit(context.Background(), "c1", decimal.NewFromInt(-5))
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("credit passes amount through", func(t *testing.T) {
		c, err := svc.Credit(context.Background(), "c1", decimal.NewFromInt(411))
		if err != nil {
			t.Fatalf("credit: %v", err)
		}
		if !repo.credited.Equal(decimal.NewFromInt(411)) {
			t.Fatalf("expected credit of 411, got %s", repo.credited)
		}
		if !c.Balance.Equal(decimal.NewFromInt(1411)) {
			t.Fatalf("expected balance 1411, got %s", c.Balance)
		}
	})
}
