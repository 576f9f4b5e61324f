package pos

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/shared"
)

// TransferStatus is the status of a stock transfer request
type TransferStatus string

const (
	TransferStatusPending  TransferStatus = "PENDING"
	TransferStatusApproved TransferStatus = "APPROVED"
	TransferStatusRejected TransferStatus = "REJECTED"
)

// IsValid checks if the status is a valid TransferStatus
func (s TransferStatus) IsValid() bool {
	switch s {
	case TransferStatusPending, TransferStatusApproved, TransferStatusRejected:
		return true
	}
	return false
}

// StockTransferRequest asks to move inventory between locations to
// fulfill a sale. The engine only creates pending requests; approval
// and rejection belong to an external workflow
type StockTransferRequest struct {
	shared.BaseEntity
	ProductID        uuid.UUID
	FromLocationID   uuid.UUID
	ToLocationID     uuid.UUID
	Quantity         int
	RequestingUserID uuid.UUID
	Status           TransferStatus
}

// NewStockTransferRequest creates a pending transfer request
func NewStockTransferRequest(productID, fromLocationID, toLocationID, requestingUserID uuid.UUID, quantity int) (*StockTransferRequest, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if fromLocationID == uuid.Nil || toLocationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Both locations are required")
	}
	if fromLocationID == toLocationID {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Source and destination locations must differ")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}

	return &StockTransferRequest{
		BaseEntity:       shared.NewBaseEntity(),
		ProductID:        productID,
		FromLocationID:   fromLocationID,
		ToLocationID:     toLocationID,
		Quantity:         quantity,
		RequestingUserID: requestingUserID,
		Status:           TransferStatusPending,
	}, nil
}

// Approve marks the request approved; only pending requests transition
func (r *StockTransferRequest) Approve() error {
	return r.transition(TransferStatusApproved)
}

// Reject marks the request rejected; only pending requests transition
func (r *StockTransferRequest) Reject() error {
	return r.transition(TransferStatusRejected)
}

func (r *StockTransferRequest) transition(target TransferStatus) error {
	if r.Status != TransferStatusPending {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot transition transfer request in %s status", r.Status))
	}
	r.Status = target
	return nil
}
