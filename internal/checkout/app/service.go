package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	cartdomain "github.com/shoplite/retail-checkout/internal/cart/domain"
	catalogdomain "github.com/shoplite/retail-checkout/internal/catalog/domain"
	"github.com/shoplite/retail-checkout/internal/checkout/domain"
	"github.com/shoplite/retail-checkout/internal/shipping"
	walletdomain "github.com/shoplite/retail-checkout/internal/wallet/domain"
	"github.com/shoplite/retail-checkout/pkg/metrics"
)

var ErrEmptyCart = errors.New("cart is empty")

type Service struct {
	carts   CartReader
	catalog CatalogStore
	wallet  Wallet

	log           *slog.Logger
	metrics       *metrics.CheckoutMetrics
	maxConcurrent int

	// mu serializes checkouts so no other checkout can mutate stock or
	// balance between this one's validation and its commit.
	mu sync.Mutex
}

func NewService(carts CartReader, catalog CatalogStore, wallet Wallet, maxConcurrent int, log *slog.Logger, m *metrics.CheckoutMetrics) *Service {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		carts:         carts,
		catalog:       catalog,
		wallet:        wallet,
		log:           log,
		metrics:       m,
		maxConcurrent: maxConcurrent,
	}
}

// Checkout settles the cart against the customer's wallet: it re-checks
// every entry against current product state, computes subtotal plus
// shipping, verifies funds, then debits the balance, decrements stock
// and consumes the cart. Any failure before the commit leaves customer
// and products untouched.
func (s *Service) Checkout(ctx context.Context, customerID, cartID string) (domain.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, err := s.carts.Cart(ctx, cartID)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("load cart %s: %w", cartID, err)
	}
	if cart.CustomerID != customerID {
		// Carts belong to the customer who opened them; anyone else gets
		// the same answer as for a cart that does not exist.
		return domain.Receipt{}, fmt.Errorf("cart %s for customer %s: %w", cartID, customerID, cartdomain.ErrNotFound)
	}
	if len(cart.Items) == 0 {
		return domain.Receipt{}, s.reject(cartID, customerID, fmt.Errorf("checkout cart %s: %w", cartID, ErrEmptyCart))
	}
	if cart.Settled {
		return domain.Receipt{}, s.reject(cartID, customerID, fmt.Errorf("%w: %s", cartdomain.ErrCartSettled, cartID))
	}

	// Validation and compute phase: reads only. Stock may have moved
	// since items were added, so every entry is checked again here.
	// Lines are index-addressed to keep cart order.
	lines := make([]domain.Line, len(cart.Items))
	products := make([]Product, len(cart.Items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)
	for idx := range cart.Items {
		idx := idx
		g.Go(func() error {
			it := cart.Items[idx]
			p, err := s.catalog.Product(gctx, it.ProductName)
			if err != nil {
				return fmt.Errorf("product %s: %w", it.ProductName, err)
			}
			if p.Stock < it.Quantity {
				return fmt.Errorf("%w: %s", catalogdomain.ErrOutOfStock, p.Name)
			}
			if p.Expired {
				return fmt.Errorf("%w: %s", catalogdomain.ErrExpired, p.Name)
			}

			lines[idx] = domain.Line{
				ProductName: p.Name,
				Quantity:    it.Quantity,
				UnitPrice:   p.Price,
				LineTotal:   p.Price.Mul(decimal.NewFromInt(it.Quantity)),
			}
			products[idx] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Receipt{}, s.reject(cartID, customerID, err)
	}

	subtotal := decimal.Zero
	for _, ln := range lines {
		subtotal = subtotal.Add(ln.LineTotal)
	}

	shippable := make([]shipping.Item, 0, len(products))
	for i, p := range products {
		if p.NeedsShipping {
			shippable = append(shippable, shipping.Item{
				Name:       p.Name,
				UnitWeight: p.UnitWeight,
				Quantity:   cart.Items[i].Quantity,
			})
		}
	}
	fee := shipping.Fee(shippable)
	total := subtotal.Add(fee)

	balance, err := s.wallet.Balance(ctx, customerID)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("load balance for customer %s: %w", customerID, err)
	}
	if balance.LessThan(total) {
		return domain.Receipt{}, s.reject(cartID, customerID,
			fmt.Errorf("charge %s with balance %s: %w", total, balance, walletdomain.ErrInsufficientFunds))
	}

	// Commit. The stores re-check their own invariants, and external
	// stock writes are not serialized under s.mu, so a decrement can
	// still fail here. Any partial commit is compensated before the
	// error is returned: applied decrements are re-incremented and the
	// debit is credited back, so a failed checkout never leaves the
	// customer charged.
	newBalance, err := s.wallet.Debit(ctx, customerID, total)
	if err != nil {
		return domain.Receipt{}, fmt.Errorf("debit customer %s: %w", customerID, err)
	}
	for i, it := range cart.Items {
		if err := s.catalog.AdjustStock(ctx, it.ProductName, -it.Quantity); err != nil {
			s.compensate(ctx, customerID, total, cart.Items[:i])
			return domain.Receipt{}, s.reject(cartID, customerID, fmt.Errorf("decrement stock for %s: %w", it.ProductName, err))
		}
	}
	if err := s.carts.MarkSettled(ctx, cartID); err != nil {
		s.compensate(ctx, customerID, total, cart.Items)
		return domain.Receipt{}, s.reject(cartID, customerID, fmt.Errorf("settle cart %s: %w", cartID, err))
	}

	s.log.InfoContext(ctx, "checkout settled",
		slog.String("status", domain.StatusSettled),
		slog.String("cart_id", cartID),
		slog.String("customer_id", customerID),
		slog.String("total", total.String()),
	)
	if s.metrics != nil {
		s.metrics.Settled(total)
	}

	return domain.Receipt{
		CartID:       cartID,
		CustomerID:   customerID,
		Lines:        lines,
		Subtotal:     subtotal,
		ShippingFee:  fee,
		Total:        total,
		BalanceAfter: newBalance,
		Shipment:     shipping.BuildManifest(shippable),
	}, nil
}

// compensate undoes a partial commit: stock decrements already applied
// are re-incremented and the debited amount is credited back.
func (s *Service) compensate(ctx context.Context, customerID string, total decimal.Decimal, applied []CartItem) {
	for _, it := range applied {
		if err := s.catalog.AdjustStock(ctx, it.ProductName, it.Quantity); err != nil {
			s.log.ErrorContext(ctx, "stock compensation failed",
				slog.String("product", it.ProductName),
				slog.Any("err", err),
			)
		}
	}
	if _, err := s.wallet.Credit(ctx, customerID, total); err != nil {
		s.log.ErrorContext(ctx, "refund failed",
			slog.String("customer_id", customerID),
			slog.String("amount", total.String()),
			slog.Any("err", err),
		)
	}
}

func (s *Service) reject(cartID, customerID string, err error) error {
	s.log.Warn("checkout rejected",
		slog.String("status", domain.StatusRejected),
		slog.String("cart_id", cartID),
		slog.String("customer_id", customerID),
		slog.String("reason", RejectReason(err)),
		slog.Any("err", err),
	)
	if s.metrics != nil {
		s.metrics.Rejected(RejectReason(err))
	}
	return err
}

// RejectReason maps a checkout error onto its taxonomy label.
func RejectReason(err error) string {
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, catalogdomain.ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, catalogdomain.ErrExpired):
		return "expired"
	case errors.Is(err, walletdomain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, cartdomain.ErrCartSettled):
		return "cart_settled"
	default:
		return "other"
	}
}
