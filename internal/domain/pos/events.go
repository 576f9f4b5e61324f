package pos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeSale         = "Sale"
	AggregateTypeHeldOrder    = "HeldOrder"
	AggregateTypeTransfer     = "StockTransferRequest"
	AggregateTypeVerification = "AgeVerification"
)

// Event type constants
const (
	EventTypeSaleCompleted        = "SaleCompleted"
	EventTypeSaleQueued           = "SaleQueued"
	EventTypeSaleVoided           = "SaleVoided"
	EventTypeCartHeld             = "CartHeld"
	EventTypeCartResumed          = "CartResumed"
	EventTypeTransferRequested    = "StockTransferRequested"
	EventTypeVerificationPassed   = "AgeVerificationPassed"
	EventTypeVerificationRejected = "AgeVerificationRejected"
)

// SaleItemInfo represents sale line information for events
type SaleItemInfo struct {
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

func saleItemInfos(sale *Sale) []SaleItemInfo {
	items := make([]SaleItemInfo, len(sale.Items))
	for i, item := range sale.Items {
		items[i] = SaleItemInfo{
			ProductID: item.ProductID,
			SKU:       item.SKU,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
	}
	return items
}

// SaleCompletedEvent is raised when a transaction is finalized online
// This event triggers receipt generation
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	SaleID       uuid.UUID       `json:"sale_id"`
	SaleNumber   string          `json:"sale_number"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	LocationID   uuid.UUID       `json:"location_id"`
	Items        []SaleItemInfo  `json:"items"`
	Total        decimal.Decimal `json:"total"`
	TenderCount  int             `json:"tender_count"`
	IsReturn     bool            `json:"is_return"`
}

// NewSaleCompletedEvent creates a new SaleCompletedEvent
func NewSaleCompletedEvent(sale *Sale) *SaleCompletedEvent {
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		SaleNumber:      sale.Number,
		CustomerID:      sale.CustomerID,
		CustomerName:    sale.CustomerName,
		LocationID:      sale.LocationID,
		Items:           saleItemInfos(sale),
		Total:           sale.Total,
		TenderCount:     sale.TenderCount(),
		IsReturn:        sale.IsReturn(),
	}
}

// EventType returns the event type name
func (e *SaleCompletedEvent) EventType() string {
	return EventTypeSaleCompleted
}

// SaleQueuedEvent is raised when a transaction is finalized offline and
// parked in the local queue pending sync
type SaleQueuedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID       `json:"sale_id"`
	SaleNumber string          `json:"sale_number"`
	Total      decimal.Decimal `json:"total"`
}

// NewSaleQueuedEvent creates a new SaleQueuedEvent
func NewSaleQueuedEvent(sale *Sale) *SaleQueuedEvent {
	return &SaleQueuedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleQueued, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		SaleNumber:      sale.Number,
		Total:           sale.Total,
	}
}

// EventType returns the event type name
func (e *SaleQueuedEvent) EventType() string {
	return EventTypeSaleQueued
}

// SaleVoidedEvent is raised when a completed sale is voided
// Stock is intentionally not restocked by a void
type SaleVoidedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID       `json:"sale_id"`
	SaleNumber string          `json:"sale_number"`
	Total      decimal.Decimal `json:"total"`
}

// NewSaleVoidedEvent creates a new SaleVoidedEvent
func NewSaleVoidedEvent(sale *Sale) *SaleVoidedEvent {
	return &SaleVoidedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleVoided, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		SaleNumber:      sale.Number,
		Total:           sale.Total,
	}
}

// EventType returns the event type name
func (e *SaleVoidedEvent) EventType() string {
	return EventTypeSaleVoided
}

// CartHeldEvent is raised when an in-progress cart is suspended
type CartHeldEvent struct {
	shared.BaseDomainEvent
	HeldOrderID  uuid.UUID `json:"held_order_id"`
	CustomerID   uuid.UUID `json:"customer_id"`
	CustomerName string    `json:"customer_name"`
	LineCount    int       `json:"line_count"`
}

// NewCartHeldEvent creates a new CartHeldEvent
func NewCartHeldEvent(order *HeldOrder) *CartHeldEvent {
	return &CartHeldEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartHeld, AggregateTypeHeldOrder, order.ID),
		HeldOrderID:     order.ID,
		CustomerID:      order.CustomerID,
		CustomerName:    order.CustomerName,
		LineCount:       order.Cart.ItemCount(),
	}
}

// EventType returns the event type name
func (e *CartHeldEvent) EventType() string {
	return EventTypeCartHeld
}

// CartResumedEvent is raised when a held order is restored as the
// active cart; the held order is removed from the registry
type CartResumedEvent struct {
	shared.BaseDomainEvent
	HeldOrderID uuid.UUID `json:"held_order_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
}

// NewCartResumedEvent creates a new CartResumedEvent
func NewCartResumedEvent(order *HeldOrder) *CartResumedEvent {
	return &CartResumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCartResumed, AggregateTypeHeldOrder, order.ID),
		HeldOrderID:     order.ID,
		CustomerID:      order.CustomerID,
	}
}

// EventType returns the event type name
func (e *CartResumedEvent) EventType() string {
	return EventTypeCartResumed
}

// TransferRequestedEvent is raised when the stock coordinator emits a
// transfer request toward another location
type TransferRequestedEvent struct {
	shared.BaseDomainEvent
	RequestID      uuid.UUID `json:"request_id"`
	ProductID      uuid.UUID `json:"product_id"`
	FromLocationID uuid.UUID `json:"from_location_id"`
	ToLocationID   uuid.UUID `json:"to_location_id"`
	Quantity       int       `json:"quantity"`
}

// NewTransferRequestedEvent creates a new TransferRequestedEvent
func NewTransferRequestedEvent(request *StockTransferRequest) *TransferRequestedEvent {
	return &TransferRequestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeTransferRequested, AggregateTypeTransfer, request.ID),
		RequestID:       request.ID,
		ProductID:       request.ProductID,
		FromLocationID:  request.FromLocationID,
		ToLocationID:    request.ToLocationID,
		Quantity:        request.Quantity,
	}
}

// EventType returns the event type name
func (e *TransferRequestedEvent) EventType() string {
	return EventTypeTransferRequested
}

// VerificationPassedEvent is raised when an age verification succeeds
// and the deferred add executes
type VerificationPassedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Method    string    `json:"method"`
}

// NewVerificationPassedEvent creates a new VerificationPassedEvent
func NewVerificationPassedEvent(productID uuid.UUID, method string) *VerificationPassedEvent {
	return &VerificationPassedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVerificationPassed, AggregateTypeVerification, productID),
		ProductID:       productID,
		Method:          method,
	}
}

// EventType returns the event type name
func (e *VerificationPassedEvent) EventType() string {
	return EventTypeVerificationPassed
}

// VerificationRejectedEvent is raised when an age verification fails or
// is cancelled; the pending product is discarded
type VerificationRejectedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Reason    string    `json:"reason"`
}

// NewVerificationRejectedEvent creates a new VerificationRejectedEvent
func NewVerificationRejectedEvent(productID uuid.UUID, reason string) *VerificationRejectedEvent {
	return &VerificationRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeVerificationRejected, AggregateTypeVerification, productID),
		ProductID:       productID,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *VerificationRejectedEvent) EventType() string {
	return EventTypeVerificationRejected
}
