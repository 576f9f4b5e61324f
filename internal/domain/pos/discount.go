package pos

import (
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
)

// DiscountType is the discriminator of the discount variant
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "PERCENTAGE"
	DiscountTypeFixed      DiscountType = "FIXED"
)

// IsValid checks if the type is a valid DiscountType
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

// Discount is a cart-level discount; at most one is active per cart
type Discount struct {
	Type  DiscountType
	Value decimal.Decimal
}

// NewPercentageDiscount creates a percentage discount in [0, 100]
func NewPercentageDiscount(value decimal.Decimal) (Discount, error) {
	if value.IsNegative() || value.GreaterThan(decimal.NewFromInt(100)) {
		return Discount{}, shared.NewDomainError("INVALID_DISCOUNT", "Percentage must be between 0 and 100")
	}
	return Discount{Type: DiscountTypePercentage, Value: value}, nil
}

// NewFixedDiscount creates a fixed-amount discount
// The amount is deliberately not bounded by any subtotal here; whether
// it may exceed the subtotal is a DiscountPolicy decision
func NewFixedDiscount(value decimal.Decimal) (Discount, error) {
	if value.IsNegative() {
		return Discount{}, shared.NewDomainError("INVALID_DISCOUNT", "Fixed discount cannot be negative")
	}
	return Discount{Type: DiscountTypeFixed, Value: value}, nil
}

// AmountFor returns the discount amount against the given subtotal
func (d Discount) AmountFor(subtotal decimal.Decimal) decimal.Decimal {
	if d.Type == DiscountTypePercentage {
		return subtotal.Mul(d.Value).Div(decimal.NewFromInt(100))
	}
	return d.Value
}

// DiscountPolicy controls how a fixed discount interacts with the
// subtotal. Store credit scenarios legitimately push a total negative,
// so exceeding the subtotal is allowed by default and clamping is an
// opt-in policy
type DiscountPolicy struct {
	ClampToSubtotal bool
}
