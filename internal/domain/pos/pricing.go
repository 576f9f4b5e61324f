package pos

import (
	"github.com/shopspring/decimal"
)

// Totals is the result of pricing a cart
type Totals struct {
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
}

// PricingCalculator prices carts against a tax rate and discount policy
// It is a pure calculator: no side effects, invalid (negative) inputs
// are the caller's responsibility to prevent
type PricingCalculator struct {
	taxRate decimal.Decimal
	policy  DiscountPolicy
}

// NewPricingCalculator creates a calculator with the given tax rate
// (e.g. 0.08 for 8%)
func NewPricingCalculator(taxRate decimal.Decimal, policy DiscountPolicy) *PricingCalculator {
	return &PricingCalculator{taxRate: taxRate, policy: policy}
}

// TaxRate returns the configured tax rate
func (p *PricingCalculator) TaxRate() decimal.Decimal {
	return p.taxRate
}

// ComputeTotals prices the cart with an optional discount
//
// The subtotal uses each line's original price when an override
// happened, so discount and tax are computed against the original for
// audit purposes. Tax applies to the discounted base and never goes
// negative; the total itself may go negative when policy permits a
// fixed discount above the subtotal
func (p *PricingCalculator) ComputeTotals(cart *Cart, discount *Discount) Totals {
	subtotal := decimal.Zero
	for _, line := range cart.Lines() {
		subtotal = subtotal.Add(line.LineTotal())
	}

	discountAmount := decimal.Zero
	if discount != nil {
		discountAmount = discount.AmountFor(subtotal)
		if p.policy.ClampToSubtotal && discountAmount.GreaterThan(subtotal) {
			discountAmount = subtotal
		}
	}

	taxable := subtotal.Sub(discountAmount)
	taxBase := taxable
	if taxBase.IsNegative() {
		taxBase = decimal.Zero
	}
	tax := taxBase.Mul(p.taxRate)

	return Totals{
		Subtotal:       subtotal,
		DiscountAmount: discountAmount,
		Tax:            tax,
		Total:          taxable.Add(tax),
	}
}
