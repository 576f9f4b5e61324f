package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// Product is a point-in-time snapshot of a sellable item
// The product catalog is owned by an external store; the transaction
// engine only reads snapshots and requests stock mutations through
// the ProductStore port
type Product struct {
	shared.BaseAggregateRoot
	SKU             string
	Name            string
	Price           decimal.Decimal
	Cost            decimal.Decimal
	StockQuantity   int
	ReorderPoint    int
	LocationID      uuid.UUID
	IsAgeRestricted bool
	IsNotForSale    bool
}

// NewProduct creates a new product snapshot
func NewProduct(sku, name string, price, cost decimal.Decimal, stock int, locationID uuid.UUID) (*Product, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              name,
		Price:             price,
		Cost:              cost,
		StockQuantity:     stock,
		LocationID:        locationID,
	}, nil
}

// PriceMoney returns the unit price as a Money value object
func (p *Product) PriceMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(p.Price)
}

// InStock returns true if at least one unit is available
func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// IsBelowReorderPoint returns true when stock has fallen to or below
// the reorder threshold
func (p *Product) IsBelowReorderPoint() bool {
	return p.StockQuantity <= p.ReorderPoint
}

// IsSellable returns true if the product may be added to a sale cart
func (p *Product) IsSellable() bool {
	return !p.IsNotForSale
}

// DecrementStock removes quantity units, failing when availability is
// insufficient rather than clamping
func (p *Product) DecrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > p.StockQuantity {
		return shared.ErrInsufficientStock
	}
	p.StockQuantity -= quantity
	return nil
}

// AdjustStock applies a signed stock correction
func (p *Product) AdjustStock(delta int) error {
	if p.StockQuantity+delta < 0 {
		return shared.ErrInsufficientStock
	}
	p.StockQuantity += delta
	return nil
}
