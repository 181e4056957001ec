// Package shipping derives fees and package manifests from shippable
// line items. Everything here is a pure computation.
package shipping

import "github.com/shopspring/decimal"

// RatePerKg is the flat carrier rate applied to the total package weight.
var RatePerKg = decimal.NewFromInt(10)

var gramsPerKg = decimal.NewFromInt(1000)

// Item is one shippable cart line: quantity units of a product at
// UnitWeight kilograms each.
type Item struct {
	Name       string
	UnitWeight decimal.Decimal
	Quantity   int64
}

// ManifestLine is an Item's contribution to the package, with the line
// weight in grams for display.
type ManifestLine struct {
	Quantity int64
	Name     string
	Grams    int64
}

// Manifest describes the whole package: one line per shippable item plus
// the total weight in kilograms.
type Manifest struct {
	Lines       []ManifestLine
	TotalWeight decimal.Decimal
}

// Fee returns the shipping fee for the given items: total weight times
// RatePerKg. The empty set costs exactly zero.
func Fee(items []Item) decimal.Decimal {
	if len(items) == 0 {
		return decimal.Zero
	}
	return totalWeight(items).Mul(RatePerKg)
}

// BuildManifest returns the per-item weight breakdown and total package
// weight for the given items.
func BuildManifest(items []Item) Manifest {
	m := Manifest{TotalWeight: totalWeight(items)}
	if len(items) == 0 {
		return m
	}
	m.Lines = make([]ManifestLine, 0, len(items))
	for _, it := range items {
		lineWeight := it.UnitWeight.Mul(decimal.NewFromInt(it.Quantity))
		m.Lines = append(m.Lines, ManifestLine{
			Quantity: it.Quantity,
			Name:     it.Name,
			Grams:    lineWeight.Mul(gramsPerKg).IntPart(),
		})
	}
	return m
}

func totalWeight(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitWeight.Mul(decimal.NewFromInt(it.Quantity)))
	}
	return total
}
