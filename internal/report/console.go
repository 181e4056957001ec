// Package report renders receipts for a console. It is the presentation
// collaborator: the checkout service hands it a Receipt and does no
// formatting of its own.
package report

import (
	"fmt"
	"io"

	"github.com/shoplite/retail-checkout/internal/checkout/domain"
	"github.com/shoplite/retail-checkout/internal/shipping"
)

type Printer struct {
	w io.Writer
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// ShipmentNotice prints the package breakdown: quantity, name and line
// weight in grams per shippable item, then the total weight in
// kilograms. Nothing is printed for an empty manifest.
func (p *Printer) ShipmentNotice(m shipping.Manifest) {
	if len(m.Lines) == 0 {
		return
	}

	fmt.Fprintln(p.w, "** Shipment notice **")
	for _, ln := range m.Lines {
		fmt.Fprintf(p.w, "%dx %s %dg\n", ln.Quantity, ln.Name, ln.Grams)
	}
	fmt.Fprintf(p.w, "Total package weight %skg\n", m.TotalWeight)
}

// Receipt prints the checkout receipt. Monetary values are truncated to
// whole units here, for display only; the receipt itself keeps full
// precision. The closing balance is printed untruncated.
func (p *Printer) Receipt(r domain.Receipt) {
	fmt.Fprintln(p.w, "** Checkout receipt **")
	for _, ln := range r.Lines {
		fmt.Fprintf(p.w, "%dx %s %d\n", ln.Quantity, ln.ProductName, ln.LineTotal.IntPart())
	}
	fmt.Fprintln(p.w, "----------------------")
	fmt.Fprintf(p.w, "Subtotal %d\n", r.Subtotal.IntPart())
	fmt.Fprintf(p.w, "Shipping %d\n", r.ShippingFee.IntPart())
	fmt.Fprintf(p.w, "Amount %d\n", r.Total.IntPart())
	fmt.Fprintf(p.w, "Customer balance after payment: %s\n", r.BalanceAfter)
}
