package pos

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// SaleStatus is the status of a finalized transaction
type SaleStatus string

const (
	SaleStatusCompleted SaleStatus = "COMPLETED"
	SaleStatusVoided    SaleStatus = "VOIDED"
	SaleStatusReturn    SaleStatus = "RETURN"
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusCompleted, SaleStatusVoided, SaleStatusReturn:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target
// Only COMPLETED -> VOIDED is legal; RETURN and VOIDED are terminal
func (s SaleStatus) CanTransitionTo(target SaleStatus) bool {
	return s == SaleStatusCompleted && target == SaleStatusVoided
}

// SaleItem is a frozen copy of a cart line at finalization time
type SaleItem struct {
	ProductID     uuid.UUID
	SKU           string
	Name          string
	Quantity      int
	UnitPrice     decimal.Decimal
	OriginalPrice *decimal.Decimal
	LineTotal     decimal.Decimal
}

// SaleTender is a frozen copy of an accepted tender
type SaleTender struct {
	TenderID   uuid.UUID
	MethodID   uuid.UUID
	MethodName string
	Amount     decimal.Decimal
}

// Sale is the finalized transaction aggregate
// Created exactly once per finalized transaction and immutable after
// that, except for the COMPLETED -> VOIDED transition, queue clearing
// on sync, and late attachment of a customer email for document
// delivery
type Sale struct {
	shared.BaseAggregateRoot
	Number         string
	CustomerID     uuid.UUID
	CustomerName   string
	CustomerEmail  string
	CashierID      uuid.UUID
	LocationID     uuid.UUID
	Items          []SaleItem
	Tenders        []SaleTender
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	Tax            decimal.Decimal
	Total          decimal.Decimal
	DiscountType   *DiscountType
	DiscountValue  *decimal.Decimal
	ChangeDue      decimal.Decimal
	Status         SaleStatus
	IsQueued       bool
	VoidedAt       *time.Time
}

// NewSale finalizes a cart into a Sale
// The cart must be non-empty and the customer resolved; the mode
// decides between a COMPLETED sale and a RETURN
func NewSale(number string, cart *Cart, customerID uuid.UUID, customerName string, cashierID, locationID uuid.UUID, totals Totals, tenders []Tender, discount *Discount, changeDue decimal.Decimal) (*Sale, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Sale number cannot be empty")
	}
	if cart == nil || cart.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}
	if customerID == uuid.Nil {
		return nil, shared.ErrCustomerRequired
	}

	status := SaleStatusCompleted
	if cart.Mode() == ModeReturn {
		status = SaleStatusReturn
	}

	items := make([]SaleItem, 0, cart.ItemCount())
	for _, line := range cart.Lines() {
		item := SaleItem{
			ProductID: line.Product.ID,
			SKU:       line.Product.SKU,
			Name:      line.Product.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice(),
			LineTotal: line.LineTotal(),
		}
		if line.OriginalPrice != nil {
			original := *line.OriginalPrice
			item.OriginalPrice = &original
		}
		items = append(items, item)
	}

	saleTenders := make([]SaleTender, 0, len(tenders))
	for _, tender := range tenders {
		saleTenders = append(saleTenders, SaleTender{
			TenderID:   tender.ID,
			MethodID:   tender.MethodID,
			MethodName: tender.MethodName,
			Amount:     tender.Amount,
		})
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		CustomerID:        customerID,
		CustomerName:      customerName,
		CashierID:         cashierID,
		LocationID:        locationID,
		Items:             items,
		Tenders:           saleTenders,
		Subtotal:          totals.Subtotal,
		DiscountAmount:    totals.DiscountAmount,
		Tax:               totals.Tax,
		Total:             totals.Total,
		ChangeDue:         changeDue,
		Status:            status,
	}
	if discount != nil {
		discountType := discount.Type
		discountValue := discount.Value
		sale.DiscountType = &discountType
		sale.DiscountValue = &discountValue
	}

	return sale, nil
}

// MarkQueued tags the sale as recorded locally pending sync
func (s *Sale) MarkQueued() {
	s.IsQueued = true
	s.UpdatedAt = time.Now()
}

// MarkSynced clears the queued flag once the sale has been committed
func (s *Sale) MarkSynced() error {
	if !s.IsQueued {
		return shared.NewDomainError("NOT_QUEUED", "Sale is not queued")
	}
	s.IsQueued = false
	s.UpdatedAt = time.Now()
	return nil
}

// Void marks a completed sale as voided
// Stock is not restocked by a void; a formal customer return is the
// workflow that handles item-level restocking
func (s *Sale) Void() error {
	if !s.Status.CanTransitionTo(SaleStatusVoided) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot void sale in %s status", s.Status))
	}

	now := time.Now()
	s.Status = SaleStatusVoided
	s.VoidedAt = &now
	s.UpdatedAt = now

	s.AddDomainEvent(NewSaleVoidedEvent(s))

	return nil
}

// AttachCustomerEmail records an email for document delivery after the
// sale was finalized
func (s *Sale) AttachCustomerEmail(email string) error {
	if email == "" || !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	s.CustomerEmail = email
	s.UpdatedAt = time.Now()
	return nil
}

// TotalMoney returns the total as Money
func (s *Sale) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(s.Total)
}

// TenderCount returns the number of tenders on the sale
func (s *Sale) TenderCount() int {
	return len(s.Tenders)
}

// IsReturn returns true for a return transaction
func (s *Sale) IsReturn() bool {
	return s.Status == SaleStatusReturn
}

// IsVoided returns true once the sale has been voided
func (s *Sale) IsVoided() bool {
	return s.Status == SaleStatusVoided
}
