package domain

import (
	"github.com/shopspring/decimal"

	"github.com/shoplite/retail-checkout/internal/shipping"
)

// Settlement states. A checkout moves Pending -> Validated -> Settled,
// or Pending -> Rejected with no side effects.
const (
	StatusPending   = "PENDING"
	StatusValidated = "VALIDATED"
	StatusSettled   = "SETTLED"
	StatusRejected  = "REJECTED"
)

// Line is one receipt entry. All amounts keep full decimal precision;
// truncation for display is the renderer's job.
type Line struct {
	ProductName string
	Quantity    int64
	UnitPrice   decimal.Decimal
	LineTotal   decimal.Decimal
}

// Receipt is the derived outcome of a settled checkout. It is a value,
// never stored; the presentation collaborator renders it.
type Receipt struct {
	CartID       string
	CustomerID   string
	Lines        []Line
	Subtotal     decimal.Decimal
	ShippingFee  decimal.Decimal
	Total        decimal.Decimal
	BalanceAfter decimal.Decimal
	Shipment     shipping.Manifest
}
