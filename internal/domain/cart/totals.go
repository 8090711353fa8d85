package cart

import (
	"github.com/shopspring/decimal"
)

// Pricing holds the business constants for derived totals.
type Pricing struct {
	// FreeShippingThreshold is exclusive: a subtotal strictly above it ships
	// free, a subtotal exactly at it pays the flat fee.
	FreeShippingThreshold decimal.Decimal
	FlatShippingFee       decimal.Decimal
	// TaxRate applies to the subtotal only; shipping is not taxed.
	TaxRate decimal.Decimal
}

// DefaultPricing returns the storefront defaults: free shipping above 50.00,
// 5.99 flat fee otherwise, 8% tax.
func DefaultPricing() Pricing {
	return Pricing{
		FreeShippingThreshold: decimal.RequireFromString("50.00"),
		FlatShippingFee:       decimal.RequireFromString("5.99"),
		TaxRate:               decimal.RequireFromString("0.08"),
	}
}

func (p Pricing) isZero() bool {
	return p.FreeShippingThreshold.IsZero() && p.FlatShippingFee.IsZero() && p.TaxRate.IsZero()
}

// Totals are the monetary figures derived from a cart's lines. They carry
// full precision; round only at display time via Rounded.
type Totals struct {
	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Tax         decimal.Decimal
	GrandTotal  decimal.Decimal
	// TotalItems is the sum of line quantities, not the line count.
	TotalItems int
}

// Rounded returns the totals rounded to 2 decimal places for display.
func (t Totals) Rounded() Totals {
	t.Subtotal = t.Subtotal.Round(2)
	t.ShippingFee = t.ShippingFee.Round(2)
	t.Tax = t.Tax.Round(2)
	t.GrandTotal = t.GrandTotal.Round(2)
	return t
}

// CalculateTotals computes the derived totals for the given lines. It has no
// hidden state: identical lines always yield identical totals. An empty cart
// owes nothing, including shipping.
func CalculateTotals(lines []Line, p Pricing) Totals {
	subtotal := decimal.Zero
	items := 0
	for _, l := range lines {
		subtotal = subtotal.Add(l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
		items += l.Quantity
	}

	if items == 0 {
		return Totals{
			Subtotal:    decimal.Zero,
			ShippingFee: decimal.Zero,
			Tax:         decimal.Zero,
			GrandTotal:  decimal.Zero,
		}
	}

	shipping := p.FlatShippingFee
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(p.TaxRate)

	return Totals{
		Subtotal:    subtotal,
		ShippingFee: shipping,
		Tax:         tax,
		GrandTotal:  subtotal.Add(shipping).Add(tax),
		TotalItems:  items,
	}
}
