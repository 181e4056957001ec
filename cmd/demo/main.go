// Command demo runs one checkout end to end against an in-memory store
// and prints the shipment notice and receipt.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	cartapp "github.com/shoplite/retail-checkout/internal/cart/app"
	cartmem "github.com/shoplite/retail-checkout/internal/cart/infra/memory"
	catalogapp "github.com/shoplite/retail-checkout/internal/catalog/app"
	catalogmem "github.com/shoplite/retail-checkout/internal/catalog/infra/memory"
	checkoutapp "github.com/shoplite/retail-checkout/internal/checkout/app"
	"github.com/shoplite/retail-checkout/internal/checkout/infra/adapter"
	"github.com/shoplite/retail-checkout/internal/report"
	walletapp "github.com/shoplite/retail-checkout/internal/wallet/app"
	walletmem "github.com/shoplite/retail-checkout/internal/wallet/infra/memory"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	catalogSvc := catalogapp.NewService(catalogmem.NewProductRepo())
	cartSvc := cartapp.NewService(cartmem.NewCartRepo(), catalogSvc)
	walletSvc := walletapp.NewService(walletmem.NewCustomerRepo())
	checkoutSvc := checkoutapp.NewService(
		adapter.NewCartServiceReader(cartSvc),
		adapter.NewCatalogServiceStore(catalogSvc),
		adapter.NewWalletServiceAdapter(walletSvc),
		0, nil, nil,
	)

	now := time.Now()
	if _, err := catalogSvc.CreateExpirable(ctx, "Cheese", decimal.NewFromInt(100), 10, now.AddDate(0, 0, 7), decimal.NewFromFloat(0.2)); err != nil {
		return err
	}
	if _, err := catalogSvc.CreateExpirable(ctx, "Biscuits", decimal.NewFromInt(150), 5, now.AddDate(0, 0, 30), decimal.NewFromFloat(0.7)); err != nil {
		return err
	}
	if _, err := catalogSvc.CreateNonExpirable(ctx, "TV", decimal.NewFromInt(500), 3, true, decimal.NewFromInt(15)); err != nil {
		return err
	}
	if _, err := catalogSvc.CreateNonExpirable(ctx, "Mobile Scratch Card", decimal.NewFromInt(50), 20, false, decimal.Zero); err != nil {
		return err
	}

	customer, err := walletSvc.Register(ctx, "John Doe", decimal.NewFromInt(1000))
	if err != nil {
		return err
	}

	cart, err := cartSvc.Create(ctx, customer.ID)
	if err != nil {
		return err
	}
	for _, add := range []struct {
		product string
		qty     int64
	}{
		{"Cheese", 2},
		{"Biscuits", 1},
		{"Mobile Scratch Card", 1},
	} {
		if _, err := cartSvc.AddItem(ctx, cart.ID, add.product, add.qty); err != nil {
			return err
		}
	}

	receipt, err := checkoutSvc.Checkout(ctx, customer.ID, cart.ID)
	if err != nil {
		return err
	}

	printer := report.NewPrinter(os.Stdout)
	printer.ShipmentNotice(receipt.Shipment)
	printer.Receipt(receipt)
	return nil
}
