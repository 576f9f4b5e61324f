package pos

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// TransactionMode distinguishes a sale from a quick in-register return
type TransactionMode string

const (
	ModeSale   TransactionMode = "SALE"
	ModeReturn TransactionMode = "RETURN"
)

// IsValid checks if the mode is a valid TransactionMode
func (m TransactionMode) IsValid() bool {
	return m == ModeSale || m == ModeReturn
}

// CartLine is one product in the cart with its quantity
// OriginalPrice is set the first time the unit price is manually
// overridden and preserved across later overrides, so receipts and
// pricing can annotate against the true original
type CartLine struct {
	Product       catalog.Product
	Quantity      int
	OriginalPrice *decimal.Decimal
}

// UnitPrice returns the effective unit price (after any override)
func (l *CartLine) UnitPrice() decimal.Decimal {
	return l.Product.Price
}

// BasePrice returns the price totals are computed against: the original
// price when an override happened, the current price otherwise
func (l *CartLine) BasePrice() decimal.Decimal {
	if l.OriginalPrice != nil {
		return *l.OriginalPrice
	}
	return l.Product.Price
}

// LineTotal returns BasePrice multiplied by quantity
func (l *CartLine) LineTotal() decimal.Decimal {
	return l.BasePrice().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// IsOverridden returns true when the unit price was manually changed
func (l *CartLine) IsOverridden() bool {
	return l.OriginalPrice != nil
}

// Cart holds the line items of the active transaction
// Lines are ordered and unique by product ID; quantity accumulates into
// the existing line instead of duplicating it. Stock ceilings in sale
// mode are advisory: the quantity is clamped and a per-line message is
// recorded, the transaction can still proceed
type Cart struct {
	mode       TransactionMode
	lines      []CartLine
	advisories map[uuid.UUID]string
}

// NewCart creates an empty cart for the given mode
func NewCart(mode TransactionMode) (*Cart, error) {
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_MODE", "Transaction mode must be SALE or RETURN")
	}
	return &Cart{
		mode:       mode,
		lines:      make([]CartLine, 0),
		advisories: make(map[uuid.UUID]string),
	}, nil
}

// Mode returns the transaction mode
func (c *Cart) Mode() TransactionMode {
	return c.mode
}

// IsEmpty returns true when the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Lines returns a copy of the cart lines in insertion order
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Line returns the line for a product, or nil
func (c *Cart) Line(productID uuid.UUID) *CartLine {
	for idx := range c.lines {
		if c.lines[idx].Product.ID == productID {
			return &c.lines[idx]
		}
	}
	return nil
}

// ItemCount returns the number of distinct lines
func (c *Cart) ItemCount() int {
	return len(c.lines)
}

// TotalQuantity returns the sum of all line quantities
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.lines {
		total += line.Quantity
	}
	return total
}

// Advisories returns a copy of the per-line advisory messages
func (c *Cart) Advisories() map[uuid.UUID]string {
	out := make(map[uuid.UUID]string, len(c.advisories))
	for k, v := range c.advisories {
		out[k] = v
	}
	return out
}

// AddLine adds one unit of the product to the cart
// In sale mode an out-of-stock or not-for-sale product is not added;
// incrementing an existing line past the product's stock leaves the
// quantity unchanged and records an advisory instead of failing
func (c *Cart) AddLine(product catalog.Product) error {
	if c.mode == ModeSale {
		if !product.IsSellable() {
			return shared.NewDomainError("NOT_FOR_SALE", "Product is not for sale")
		}
		if !product.InStock() {
			// Out of stock at this location is a no-op; the stock
			// coordinator surfaces the transfer affordance instead
			return nil
		}
	}

	if line := c.Line(product.ID); line != nil {
		if c.mode == ModeSale && line.Quantity+1 > product.StockQuantity {
			c.advisories[product.ID] = fmt.Sprintf("Max: %d", product.StockQuantity)
			return nil
		}
		line.Quantity++
		delete(c.advisories, product.ID)
		return nil
	}

	c.lines = append(c.lines, CartLine{Product: product, Quantity: 1})
	return nil
}

// SetQuantity sets the quantity for a product's line
// A non-positive quantity removes the line; in sale mode the quantity
// is clamped to the product's stock with an advisory when clamped
func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		c.RemoveLine(productID)
		return nil
	}

	line := c.Line(productID)
	if line == nil {
		return shared.ErrNotFound
	}

	if c.mode == ModeSale && quantity > line.Product.StockQuantity {
		line.Quantity = line.Product.StockQuantity
		c.advisories[productID] = fmt.Sprintf("Max: %d", line.Product.StockQuantity)
		return nil
	}

	line.Quantity = quantity
	delete(c.advisories, productID)
	return nil
}

// RemoveLine removes a product's line; idempotent
// Any advisory for the product is cleared with it
func (c *Cart) RemoveLine(productID uuid.UUID) {
	for idx := range c.lines {
		if c.lines[idx].Product.ID == productID {
			c.lines = append(c.lines[:idx], c.lines[idx+1:]...)
			break
		}
	}
	delete(c.advisories, productID)
}

// OverridePrice changes the unit price of a line
// The pre-override price is captured as OriginalPrice only once, so
// repeated overrides keep pointing at the true original
func (c *Cart) OverridePrice(productID uuid.UUID, newPrice decimal.Decimal) error {
	if newPrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	line := c.Line(productID)
	if line == nil {
		return shared.ErrNotFound
	}

	if line.OriginalPrice == nil {
		original := line.Product.Price
		line.OriginalPrice = &original
	}
	line.Product.Price = newPrice
	return nil
}

// Subtotal returns the sum of line totals as Money
func (c *Cart) Subtotal() valueobject.Money {
	subtotal := decimal.Zero
	for _, line := range c.lines {
		subtotal = subtotal.Add(line.LineTotal())
	}
	return valueobject.NewMoneyUSD(subtotal)
}

// Clone returns a deep copy of the cart
func (c *Cart) Clone() *Cart {
	clone := &Cart{
		mode:       c.mode,
		lines:      make([]CartLine, len(c.lines)),
		advisories: make(map[uuid.UUID]string, len(c.advisories)),
	}
	for idx, line := range c.lines {
		copied := line
		if line.OriginalPrice != nil {
			original := *line.OriginalPrice
			copied.OriginalPrice = &original
		}
		clone.lines[idx] = copied
	}
	for k, v := range c.advisories {
		clone.advisories[k] = v
	}
	return clone
}

// Clear removes every line and advisory
func (c *Cart) Clear() {
	c.lines = c.lines[:0]
	c.advisories = make(map[uuid.UUID]string)
}
