package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ProductStore is the port to the external product catalog
// Reads return point-in-time snapshots; stock mutations are conditional
// at the store boundary (ErrInsufficientStock on shortfall) because
// concurrent terminals may race on the same product
type ProductStore interface {
	// FindByID returns a product snapshot by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// ListByLocation returns the products visible at a location
	ListByLocation(ctx context.Context, locationID uuid.UUID) ([]Product, error)

	// ListBySKU returns every location's snapshot carrying the SKU
	ListBySKU(ctx context.Context, sku string) ([]Product, error)

	// DecrementStock atomically removes quantity units from a product
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error

	// AdjustStock applies a signed stock correction
	AdjustStock(ctx context.Context, productID uuid.UUID, delta int) error

	// Save creates or updates a product snapshot
	Save(ctx context.Context, product *Product) error
}
