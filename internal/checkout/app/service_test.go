package app_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	cartapp "github.com/shoplite/retail-checkout/internal/cart/app"
	cartdomain "github.com/shoplite/retail-checkout/internal/cart/domain"
	cartmem "github.com/shoplite/retail-checkout/internal/cart/infra/memory"
	catalogapp "github.com/shoplite/retail-checkout/internal/catalog/app"
	catalogdomain "github.com/shoplite/retail-checkout/internal/catalog/domain"
	catalogmem "github.com/shoplite/retail-checkout/internal/catalog/infra/memory"
	"github.com/shoplite/retail-checkout/internal/checkout/app"
	"github.com/shoplite/retail-checkout/internal/checkout/infra/adapter"
	walletapp "github.com/shoplite/retail-checkout/internal/wallet/app"
	walletdomain "github.com/shoplite/retail-checkout/internal/wallet/domain"
	walletmem "github.com/shoplite/retail-checkout/internal/wallet/infra/memory"
)

type fixture struct {
	catalog  *catalogapp.Service
	carts    *cartapp.Service
	wallet   *walletapp.Service
	checkout *app.Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	catalogSvc := catalogapp.NewService(catalogmem.NewProductRepo())
	cartSvc := cartapp.NewService(cartmem.NewCartRepo(), catalogSvc)
	walletSvc := walletapp.NewService(walletmem.NewCustomerRepo())
	checkoutSvc := app.NewService(
		adapter.NewCartServiceReader(cartSvc),
		adapter.NewCatalogServiceStore(catalogSvc),
		adapter.NewWalletServiceAdapter(walletSvc),
		0,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		nil,
	)
	return &fixture{catalog: catalogSvc, carts: cartSvc, wallet: walletSvc, checkout: checkoutSvc}
}

func (f *fixture) seedScenario(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()

	if _, err := f.catalog.CreateExpirable(ctx, "Cheese", decimal.NewFromInt(100), 10, now.AddDate(0, 0, 7), decimal.NewFromFloat(0.2)); err != nil {
		t.Fatalf("seed cheese: %v", err)
	}
	if _, err := f.catalog.CreateExpirable(ctx, "Biscuits", decimal.NewFromInt(150), 5, now.AddDate(0, 0, 30), decimal.NewFromFloat(0.7)); err != nil {
		t.Fatalf("seed biscuits: %v", err)
	}
	if _, err := f.catalog.CreateNonExpirable(ctx, "Scratch Card", decimal.NewFromInt(50), 20, false, decimal.Zero); err != nil {
		t.Fatalf("seed scratch card: %v", err)
	}
}

func (f *fixture) stock(t *testing.T, name string) int64 {
	t.Helper()
	p, err := f.catalog.Get(context.Background(), name)
	if err != nil {
		t.Fatalf("get %s: %v", name, err)
	}
	return p.Stock
}

func (f *fixture) balance(t *testing.T, customerID string) decimal.Decimal {
	t.Helper()
	b, err := f.wallet.Balance(context.Background(), customerID)
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	return b
}

func TestCheckoutSettles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedScenario(t)

	customer, err := f.wallet.Register(ctx, "John Doe", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	cart, err := f.carts.Create(ctx, customer.ID)
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	for _, add := range []struct {
		name string
		qty  int64
	}{{"Cheese", 2}, {"Biscuits", 1}, {"Scratch Card", 1}} {
		if _, err := f.carts.AddItem(ctx, cart.ID, add.name, add.qty); err != nil {
			t.Fatalf("add %s: %v", add.name, err)
		}
	}

	receipt, err := f.checkout.Checkout(ctx, customer.ID, cart.ID)
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	if got := receipt.Subtotal.String(); got != "400" {
		t.Fatalf("subtotal: expected 400, got %s", got)
	}
	if got := receipt.ShippingFee.String(); got != "11" {
		t.Fatalf("shipping: expected 11, got %s", got)
	}
	if got := receipt.Total.String(); got != "411" {
		t.Fatalf("total: expected 411, got %s", got)
	}
	if got := receipt.BalanceAfter.String(); got != "589" {
		t.Fatalf("balance after: expected 589, got %s", got)
	}

	if len(receipt.Lines) != 3 || receipt.Lines[0].ProductName != "Cheese" || receipt.Lines[2].ProductName != "Scratch Card" {
		t.Fatalf("lines out of order: %+v", receipt.Lines)
	}
	if len(receipt.Shipment.Lines) != 2 {
		t.Fatalf("expected 2 shippable lines, got %d", len(receipt.Shipment.Lines))
	}
	if got := receipt.Shipment.TotalWeight.String(); got != "1.1" {
		t.Fatalf("package weight: expected 1.1, got %s", got)
	}

	if got := f.balance(t, customer.ID); got.String() != "589" {
		t.Fatalf("wallet balance: expected 589, got %s", got)
	}
	if got := f.stock(t, "Cheese"); got != 8 {
		t.Fatalf("cheese stock: expected 8, got %d", got)
	}
	if got := f.stock(t, "Biscuits"); got != 4 {
		t.Fatalf("biscuits stock: expected 4, got %d", got)
	}
	if got := f.stock(t, "Scratch Card"); got != 19 {
		t.Fatalf("scratch card stock: expected 19, got %d", got)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	customer, err := f.wallet.Register(ctx, "John Doe", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	cart, err := f.carts.Create(ctx, customer.ID)
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}

	if _, err := f.checkout.Checkout(ctx, customer.ID, cart.ID); !errors.Is(err, app.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	if got := f.balance(t, customer.ID); !got.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("balance changed on rejection: %s", got)
	}
}

func TestCheckoutInsufficientFunds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedScenario(t)

	customer, err := f.wallet.Register(ctx, "John Doe", decimal.NewFromInt(10))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	cart, err := f.carts.Create(ctx, customer.ID)
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	if _, err := f.carts.AddItem(ctx, cart.ID, "Cheese", 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := f.checkout.Checkout(ctx, customer.ID, cart.ID); !errors.Is(err, walletdomain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	if got := f.balance(t, customer.ID); !got.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("balance changed on rejection: %s", got)
	}
	if got := f.stock(t, "Cheese"); got != 10 {
		t.Fatalf("stock changed on rejection: %d", got)
	}
}

func TestCheckoutRevalidatesStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedScenario(t)

	customer, err := f.wallet.Register(ctx, "John Doe", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	cart, err := f.carts.Create(ctx, customer.ID)
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	if _, err := f.carts.AddItem(ctx, cart.ID, "Cheese", 5); err != nil {
		t.Fatalf("add: %v", err)
	}

	// Stock collapses after the items went in.
	if _, err := f.catalog.SetStock(ctx, "Cheese", 1); err != nil {
		t.Fatalf("set stock: %v", err)
	}

	if _, err := f.checkout.Checkout(ctx, customer.ID, cart.ID); !errors.Is(err, catalogdomain.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}
	if got := f.balance(t, customer.ID); !got.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("balance changed on rejection: %s", got)
	}
	if got := f.stock(t, "Cheese"); got != 1 {
		t.Fatalf("stock changed on rejection: %d", got)
	}
}

func TestCheckoutRevalidatesExpiry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.catalog.CreateExpirable(ctx, "Milk", decimal.NewFromInt(20), 10, time.Now().Add(30*time.Millisecond), decimal.NewFromFloat(1.0)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	customer, err := f.wallet.Register(ctx, "John Doe", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	cart, err := f.carts.Create(ctx, customer.ID)
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	if _, err := f.carts.AddItem(ctx, cart.ID, "Milk", 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	time.Sleep(60 * time.Millisecond)

	if _, err := f.checkout.Checkout(ctx, customer.ID, cart.ID); !errors.Is(err, catalogdomain.ErrExpired) {
		t.Fatalf("expected ErrExpired, got %v", err)
	}
	if got := f.balance(t, customer.ID); !got.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("balance changed on rejection: %s", got)
	}
}

func TestCheckoutConsumesCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedScenario(t)

	customer, err := f.wallet.Register(ctx, "John Doe", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	cart, err := f.carts.Create(ctx, customer.ID)
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	if _, err := f.carts.AddItem(ctx, cart.ID, "Cheese", 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := f.checkout.Checkout(ctx, customer.ID, cart.ID); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	t.Run("second checkout rejected", func(t *testing.T) {
		if _, err := f.checkout.Checkout(ctx, customer.ID, cart.ID); !errors.Is(err, cartdomain.ErrCartSettled) {
			t.Fatalf("expected ErrCartSettled, got %v", err)
		}
		if got := f.balance(t, customer.ID); got.String() != "898" {
			t.Fatalf("balance changed on rejection: %s", got)
		}
		if got := f.stock(t, "Cheese"); got != 9 {
			t.Fatalf("stock changed on rejection: %d", got)
		}
	})

	t.Run("adding to a settled cart rejected", func(t *testing.T) {
		if _, err := f.carts.AddItem(ctx, cart.ID, "Cheese", 1); !errors.Is(err, cartdomain.ErrCartSettled) {
			t.Fatalf("expected ErrCartSettled, got %v", err)
		}
	})
}

// blockedDecrementStore refuses to decrement one product, standing in
// for a stock write that lands between validation and commit.
type blockedDecrementStore struct {
	app.CatalogStore
	name string
}

func (s *blockedDecrementStore) AdjustStock(ctx context.Context, name string, delta int64) error {
	if name == s.name && delta < 0 {
		return fmt.Errorf("%w: %s", catalogdomain.ErrOutOfStock, name)
	}
	return s.CatalogStore.AdjustStock(ctx, name, delta)
}

func TestCheckoutCompensatesFailedCommit(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedScenario(t)

	// Same services, but the catalog store fails the Biscuits decrement
	// after Cheese has already been decremented.
	checkoutSvc := app.NewService(
		adapter.NewCartServiceReader(f.carts),
		&blockedDecrementStore{
			CatalogStore: adapter.NewCatalogServiceStore(f.catalog),
			name:         "Biscuits",
		},
		adapter.NewWalletServiceAdapter(f.wallet),
		0,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		nil,
	)

	customer, err := f.wallet.Register(ctx, "John Doe", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	cart, err := f.carts.Create(ctx, customer.ID)
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	if _, err := f.carts.AddItem(ctx, cart.ID, "Cheese", 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := f.carts.AddItem(ctx, cart.ID, "Biscuits", 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := checkoutSvc.Checkout(ctx, customer.ID, cart.ID); !errors.Is(err, catalogdomain.ErrOutOfStock) {
		t.Fatalf("expected ErrOutOfStock, got %v", err)
	}

	if got := f.balance(t, customer.ID); !got.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("debit not refunded after failed commit: %s", got)
	}
	if got := f.stock(t, "Cheese"); got != 10 {
		t.Fatalf("cheese decrement not rolled back: %d", got)
	}
	if got := f.stock(t, "Biscuits"); got != 5 {
		t.Fatalf("biscuits stock changed: %d", got)
	}

	t.Run("cart survives for a later attempt", func(t *testing.T) {
		if _, err := f.checkout.Checkout(ctx, customer.ID, cart.ID); err != nil {
			t.Fatalf("retry checkout: %v", err)
		}
		// 2x100 + 150 + 1.1kg * 10 = 361
		if got := f.balance(t, customer.ID); got.String() != "639" {
			t.Fatalf("expected balance 639 after retry, got %s", got)
		}
	})
}

func TestCheckoutRejectsForeignCart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedScenario(t)

	owner, err := f.wallet.Register(ctx, "John Doe", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("register owner: %v", err)
	}
	other, err := f.wallet.Register(ctx, "Jane Roe", decimal.NewFromInt(1000))
	if err != nil {
		t.Fatalf("register other: %v", err)
	}
	cart, err := f.carts.Create(ctx, owner.ID)
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	if _, err := f.carts.AddItem(ctx, cart.ID, "Cheese", 1); err != nil {
		t.Fatalf("add: %v", err)
	}

	if _, err := f.checkout.Checkout(ctx, other.ID, cart.ID); !errors.Is(err, cartdomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign cart, got %v", err)
	}
	if got := f.balance(t, other.ID); !got.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("other customer charged: %s", got)
	}
	if got := f.stock(t, "Cheese"); got != 10 {
		t.Fatalf("stock changed on rejection: %d", got)
	}

	t.Run("owner can still settle", func(t *testing.T) {
		if _, err := f.checkout.Checkout(ctx, owner.ID, cart.ID); err != nil {
			t.Fatalf("owner checkout: %v", err)
		}
	})
}

func TestConcurrentCheckoutsNeverOversell(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.catalog.CreateNonExpirable(ctx, "TV", decimal.NewFromInt(500), 1, true, decimal.NewFromInt(15)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	type attempt struct {
		customerID string
		cartID     string
	}
	attempts := make([]attempt, 2)
	for i := range attempts {
		customer, err := f.wallet.Register(ctx, "Customer", decimal.NewFromInt(10000))
		if err != nil {
			t.Fatalf("register: %v", err)
		}
		cart, err := f.carts.Create(ctx, customer.ID)
		if err != nil {
			t.Fatalf("create cart: %v", err)
		}
		if _, err := f.carts.AddItem(ctx, cart.ID, "TV", 1); err != nil {
			t.Fatalf("add: %v", err)
		}
		attempts[i] = attempt{customerID: customer.ID, cartID: cart.ID}
	}

	results := make([]error, len(attempts))
	g, ctx := errgroup.WithContext(ctx)
	for i, a := range attempts {
		i, a := i, a
		g.Go(func() error {
			_, results[i] = f.checkout.Checkout(ctx, a.customerID, a.cartID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("wait: %v", err)
	}

	var settled int
	for _, err := range results {
		if err == nil {
			settled++
		} else if !errors.Is(err, catalogdomain.ErrOutOfStock) {
			t.Fatalf("unexpected rejection: %v", err)
		}
	}
	if settled != 1 {
		t.Fatalf("expected exactly one settled checkout, got %d", settled)
	}
	if got := f.stock(t, "TV"); got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}
}
