package pos

import (
	"time"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/shared"
)

// HeldOrder is a suspended transaction: the cart plus the selected
// customer, parked in the registry until resumed. Resuming removes it,
// so an order can be resumed at most once
type HeldOrder struct {
	ID           uuid.UUID
	Cart         *Cart
	CustomerID   uuid.UUID
	CustomerName string
	HeldAt       time.Time
}

// NewHeldOrder suspends a cart
// An empty cart cannot be held
func NewHeldOrder(cart *Cart, customerID uuid.UUID, customerName string) (*HeldOrder, error) {
	if cart == nil || cart.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	return &HeldOrder{
		ID:           uuid.New(),
		Cart:         cart.Clone(),
		CustomerID:   customerID,
		CustomerName: customerName,
		HeldAt:       time.Now(),
	}, nil
}
