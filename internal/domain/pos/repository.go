package pos

import (
	"context"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// Capabilities gating privileged register operations
const (
	CapabilityPriceOverride = "pos.price.override"
	CapabilityApplyDiscount = "pos.discount.apply"
	CapabilityProcessReturn = "pos.sale.return"
	CapabilityVoidSale      = "pos.sale.void"
)

// SaleRepository persists finalized sales
type SaleRepository interface {
	// Save creates or updates a sale
	Save(ctx context.Context, sale *Sale) error

	// FindByID finds a sale by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByNumber finds a sale by its sale number
	FindByNumber(ctx context.Context, number string) (*Sale, error)

	// ListRecent returns the most recent sales, newest first
	ListRecent(ctx context.Context, limit int) ([]Sale, error)

	// GenerateNumber generates the next unique sale number
	GenerateNumber(ctx context.Context) (string, error)
}

// HeldOrderStore is the suspended-order registry shared by the
// sessions at one terminal
type HeldOrderStore interface {
	// Put appends a held order to the registry
	Put(ctx context.Context, order *HeldOrder) error

	// Take removes and returns a held order; a second Take for the
	// same ID fails, making resume at-most-once
	Take(ctx context.Context, id uuid.UUID) (*HeldOrder, error)

	// List returns all held orders
	List(ctx context.Context) ([]HeldOrder, error)
}

// TransferRequestStore persists stock transfer requests
type TransferRequestStore interface {
	// Save creates or updates a transfer request
	Save(ctx context.Context, request *StockTransferRequest) error

	// ListByStatus returns transfer requests in the given status
	ListByStatus(ctx context.Context, status TransferStatus) ([]StockTransferRequest, error)
}

// OfflineQueue parks finalized sales while the terminal is offline
type OfflineQueue interface {
	// Enqueue appends a queued sale
	Enqueue(ctx context.Context, sale *Sale) error

	// Drain applies fn to each queued sale in order, removing the
	// ones fn accepts; it stops at the first error
	Drain(ctx context.Context, fn func(ctx context.Context, sale *Sale) error) error

	// Len returns the number of queued sales
	Len(ctx context.Context) (int, error)
}

// ConnectivityProbe reports whether the external store is reachable
type ConnectivityProbe interface {
	IsOnline(ctx context.Context) bool
}

// PermissionChecker gates privileged operations
// Permission administration itself is an external concern
type PermissionChecker interface {
	HasCapability(ctx context.Context, userID uuid.UUID, capability string) bool
}

// IntentToken is the opaque payment-intent handle issued by the gateway
type IntentToken string

// CaptureResult is the gateway's answer for one capture attempt
type CaptureResult struct {
	Approved bool
	Message  string
}

// PaymentGateway is the port to the card payment processor
// The production adapter talks to a real acquirer; tests use a
// deterministic fake
type PaymentGateway interface {
	// CreateIntent requests a payment-intent handle for the amount
	CreateIntent(ctx context.Context, amount valueobject.Money) (IntentToken, error)

	// Capture runs the payment for a previously created intent
	Capture(ctx context.Context, token IntentToken) (CaptureResult, error)
}

// Customer is the directory's view of a customer
type Customer struct {
	ID       uuid.UUID
	Name     string
	Email    string
	IsWalkIn bool
}

// CustomerDirectory is the read-only customer lookup
type CustomerDirectory interface {
	// FindByID resolves a customer by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)

	// WalkIn returns the default walk-in customer record
	WalkIn(ctx context.Context) (*Customer, error)
}

// ReceiptNotifier is told when a finalized sale has documents available
// Rendering, printing and emailing are external concerns
type ReceiptNotifier interface {
	SaleReady(ctx context.Context, sale *Sale) error
}
