package pos

import (
	"time"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
)

// GateState is the state of the age verification gate
type GateState string

const (
	GateIdle     GateState = "IDLE"
	GateAwaiting GateState = "AWAITING_VERIFICATION"
)

// IDCheckOutcome is the result of a scanned or simulated ID check
type IDCheckOutcome string

const (
	IDCheckValid    IDCheckOutcome = "VALID"
	IDCheckUnderage IDCheckOutcome = "UNDERAGE"
	IDCheckExpired  IDCheckOutcome = "EXPIRED"
	IDCheckFake     IDCheckOutcome = "FAKE"
)

// VerificationRequest holds the deferred add while verification is in
// progress. It is an explicit pending value rather than a captured
// callback, so the gate owns the full lifecycle of the request
type VerificationRequest struct {
	Product     catalog.Product
	RequestedAt time.Time
}

// AgeVerificationGate intercepts restricted products on their way into
// the cart. At most one verification is pending at a time; success
// releases the held product for the deferred add, rejection or
// cancellation discards it. Either way the gate returns to idle
type AgeVerificationGate struct {
	state      GateState
	pending    *VerificationRequest
	minimumAge int
	now        func() time.Time
}

// NewAgeVerificationGate creates an idle gate with the given minimum age
func NewAgeVerificationGate(minimumAge int) *AgeVerificationGate {
	return &AgeVerificationGate{
		state:      GateIdle,
		minimumAge: minimumAge,
		now:        time.Now,
	}
}

// WithClock replaces the gate's clock; used by tests
func (g *AgeVerificationGate) WithClock(now func() time.Time) *AgeVerificationGate {
	g.now = now
	return g
}

// State returns the current gate state
func (g *AgeVerificationGate) State() GateState {
	return g.state
}

// MinimumAge returns the configured minimum age
func (g *AgeVerificationGate) MinimumAge() int {
	return g.minimumAge
}

// Pending returns the held request, or nil when idle
func (g *AgeVerificationGate) Pending() *VerificationRequest {
	return g.pending
}

// Request holds a restricted product pending verification
// Fails when a verification is already in progress or the product is
// not age restricted
func (g *AgeVerificationGate) Request(product catalog.Product) error {
	if g.state != GateIdle {
		return shared.ErrVerificationPending
	}
	if !product.IsAgeRestricted {
		return shared.NewDomainError("NOT_RESTRICTED", "Product does not require age verification")
	}

	g.pending = &VerificationRequest{Product: product, RequestedAt: g.now()}
	g.state = GateAwaiting
	return nil
}

// VerifyBirthDate resolves the pending request by manual date-of-birth
// entry. On success the held product is released for the deferred add;
// an underage result discards it
func (g *AgeVerificationGate) VerifyBirthDate(year int, month time.Month, day int) (*catalog.Product, error) {
	if g.state != GateAwaiting {
		return nil, shared.NewDomainError("NO_PENDING_VERIFICATION", "No verification in progress")
	}

	age := AgeAt(year, month, day, g.now())
	if age < g.minimumAge {
		g.reset()
		return nil, shared.NewDomainError("UNDERAGE", "Customer does not meet the minimum age")
	}

	return g.release(), nil
}

// VerifyIDCheck resolves the pending request with a scanned ID outcome
// Only a valid outcome releases the held product
func (g *AgeVerificationGate) VerifyIDCheck(outcome IDCheckOutcome) (*catalog.Product, error) {
	if g.state != GateAwaiting {
		return nil, shared.NewDomainError("NO_PENDING_VERIFICATION", "No verification in progress")
	}

	switch outcome {
	case IDCheckValid:
		return g.release(), nil
	case IDCheckUnderage:
		g.reset()
		return nil, shared.NewDomainError("UNDERAGE", "Customer does not meet the minimum age")
	case IDCheckExpired:
		g.reset()
		return nil, shared.NewDomainError("ID_EXPIRED", "Identity document has expired")
	case IDCheckFake:
		g.reset()
		return nil, shared.NewDomainError("ID_REJECTED", "Identity document failed validation")
	default:
		g.reset()
		return nil, shared.NewDomainError("INVALID_OUTCOME", "Unknown ID check outcome")
	}
}

// VerifyScanner resolves the pending request via the hardware scanner
// path, which always reports a valid document. The scan delay is the
// caller's concern
func (g *AgeVerificationGate) VerifyScanner() (*catalog.Product, error) {
	return g.VerifyIDCheck(IDCheckValid)
}

// Cancel discards the pending request and returns the gate to idle
// No-op when nothing is pending
func (g *AgeVerificationGate) Cancel() {
	g.reset()
}

func (g *AgeVerificationGate) release() *catalog.Product {
	product := g.pending.Product
	g.reset()
	return &product
}

func (g *AgeVerificationGate) reset() {
	g.pending = nil
	g.state = GateIdle
}

// AgeAt computes whole years elapsed from the birth date to the
// reference time: the year difference, minus one when the reference
// month/day precedes the birth month/day
func AgeAt(year int, month time.Month, day int, at time.Time) int {
	age := at.Year() - year
	if at.Month() < month || (at.Month() == month && at.Day() < day) {
		age--
	}
	return age
}
