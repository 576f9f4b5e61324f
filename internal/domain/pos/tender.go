package pos

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/pos/backend/internal/domain/shared"
)

// TenderMethod describes one way of paying
// Cash methods may overpay (producing change); integrated methods run
// through the card terminal before their tender is accepted
type TenderMethod struct {
	ID           uuid.UUID
	Name         string
	IsCash       bool
	IsIntegrated bool
}

// Tender is one payment instrument applied toward the total
// Immutable once accepted except for removal from the set
type Tender struct {
	ID         uuid.UUID
	MethodID   uuid.UUID
	MethodName string
	Amount     decimal.Decimal
	IsCash     bool
	AddedAt    time.Time
}

// PaymentReconciler accumulates tenders against a required total
// Tenders stay in acceptance order and are never reordered. Remaining
// is compared against a small tolerance; with decimal arithmetic the
// tolerance is a formality, but the contract remaining <= tolerance
// for full payment is preserved
type PaymentReconciler struct {
	total     decimal.Decimal
	tolerance decimal.Decimal
	tenders   []Tender
}

// NewPaymentReconciler creates a reconciler for the given total
func NewPaymentReconciler(total, tolerance decimal.Decimal) *PaymentReconciler {
	return &PaymentReconciler{
		total:     total,
		tolerance: tolerance,
		tenders:   make([]Tender, 0),
	}
}

// Total returns the required total
func (r *PaymentReconciler) Total() decimal.Decimal {
	return r.total
}

// Tenders returns the accepted tenders in acceptance order
func (r *PaymentReconciler) Tenders() []Tender {
	out := make([]Tender, len(r.tenders))
	copy(out, r.tenders)
	return out
}

// Paid returns the sum of accepted tender amounts
func (r *PaymentReconciler) Paid() decimal.Decimal {
	paid := decimal.Zero
	for _, tender := range r.tenders {
		paid = paid.Add(tender.Amount)
	}
	return paid
}

// Remaining returns total minus the sum of tenders (may be negative
// after a cash overpayment)
func (r *PaymentReconciler) Remaining() decimal.Decimal {
	return r.total.Sub(r.Paid())
}

// IsFullyPaid returns true when the remaining amount is within tolerance
func (r *PaymentReconciler) IsFullyPaid() bool {
	return r.Remaining().LessThanOrEqual(r.tolerance)
}

// ChangeDue returns the overpayment owed back to the customer
func (r *PaymentReconciler) ChangeDue() decimal.Decimal {
	change := r.Paid().Sub(r.total)
	if change.IsNegative() {
		return decimal.Zero
	}
	return change
}

// AddTender applies an amount with the given method
//
// Amounts at or below the tolerance are dropped without error (nil
// tender returned). Non-cash amounts are capped to the remaining
// balance before acceptance, so a card can never overpay; cash may
// exceed the remaining balance and produces change
func (r *PaymentReconciler) AddTender(method TenderMethod, amount decimal.Decimal) *Tender {
	if amount.LessThanOrEqual(r.tolerance) {
		return nil
	}

	if !method.IsCash {
		remaining := r.Remaining()
		if amount.GreaterThan(remaining) {
			amount = remaining
		}
		if amount.LessThanOrEqual(r.tolerance) {
			return nil
		}
	}

	tender := Tender{
		ID:         uuid.New(),
		MethodID:   method.ID,
		MethodName: method.Name,
		Amount:     amount,
		IsCash:     method.IsCash,
		AddedAt:    time.Now(),
	}
	r.tenders = append(r.tenders, tender)
	return &tender
}

// RemoveTender removes an accepted tender before confirmation
func (r *PaymentReconciler) RemoveTender(tenderID uuid.UUID) error {
	for idx := range r.tenders {
		if r.tenders[idx].ID == tenderID {
			r.tenders = append(r.tenders[:idx], r.tenders[idx+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

// Confirm hands back the final tender set
// Unreachable until the total is fully covered
func (r *PaymentReconciler) Confirm() ([]Tender, error) {
	if !r.IsFullyPaid() {
		return nil, shared.ErrNotFullyPaid
	}
	return r.Tenders(), nil
}
