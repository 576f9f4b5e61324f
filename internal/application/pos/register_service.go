package pos

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/domain/shared"
)

// Session is the state of the active transaction at this terminal
// One cart per cashier session; mutations run under the service mutex
// so the cooperative single-writer model holds even behind an HTTP
// surface
type Session struct {
	CashierID uuid.UUID
	Cart      *pos.Cart
	Customer  *pos.Customer
	Discount  *pos.Discount
	Gate      *pos.AgeVerificationGate
}

// RegisterService drives the active cashier session: cart mutation
// behind the age verification gate, permission-gated price overrides
// and discounts, and hold/resume of in-progress transactions
type RegisterService struct {
	products    catalog.ProductStore
	customers   pos.CustomerDirectory
	permissions pos.PermissionChecker
	heldOrders  pos.HeldOrderStore
	publisher   shared.EventPublisher
	pricing     *pos.PricingCalculator
	minimumAge  int
	logger      *zap.Logger

	mu      sync.Mutex
	session *Session
}

// NewRegisterService creates a new RegisterService
func NewRegisterService(
	products catalog.ProductStore,
	customers pos.CustomerDirectory,
	permissions pos.PermissionChecker,
	heldOrders pos.HeldOrderStore,
	publisher shared.EventPublisher,
	pricing *pos.PricingCalculator,
	minimumAge int,
	logger *zap.Logger,
) *RegisterService {
	return &RegisterService{
		products:    products,
		customers:   customers,
		permissions: permissions,
		heldOrders:  heldOrders,
		publisher:   publisher,
		pricing:     pricing,
		minimumAge:  minimumAge,
		logger:      logger,
	}
}

// StartSession opens a fresh session in the given mode, defaulting the
// customer to the walk-in record. Return mode needs the return
// capability
func (s *RegisterService) StartSession(ctx context.Context, cashierID uuid.UUID, mode pos.TransactionMode) (*CartView, error) {
	if mode == pos.ModeReturn && !s.permissions.HasCapability(ctx, cashierID, pos.CapabilityProcessReturn) {
		return nil, shared.ErrPermissionDenied
	}

	cart, err := pos.NewCart(mode)
	if err != nil {
		return nil, err
	}
	walkIn, err := s.customers.WalkIn(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = &Session{
		CashierID: cashierID,
		Cart:      cart,
		Customer:  walkIn,
		Gate:      pos.NewAgeVerificationGate(s.minimumAge),
	}

	s.logger.Info("session started",
		zap.String("cashier_id", cashierID.String()),
		zap.String("mode", string(mode)),
	)

	view := s.cartViewLocked()
	return &view, nil
}

// CurrentSession returns the active session, or an error when none is
// open
func (s *RegisterService) CurrentSession() (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, shared.NewDomainError("NO_SESSION", "No active session")
	}
	return s.session, nil
}

// AddItem adds one unit of a product to the cart
// A restricted product in sale mode is held by the age gate instead;
// the returned view flags the pending verification
func (s *RegisterService) AddItem(ctx context.Context, productID uuid.UUID) (*CartView, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, shared.NewDomainError("NO_SESSION", "No active session")
	}

	if product.IsAgeRestricted && s.session.Cart.Mode() != pos.ModeReturn {
		if err := s.session.Gate.Request(*product); err != nil {
			return nil, err
		}
		view := s.cartViewLocked()
		return &view, nil
	}

	if err := s.session.Cart.AddLine(*product); err != nil {
		return nil, err
	}
	view := s.cartViewLocked()
	return &view, nil
}

// VerifyAgeByBirthDate resolves the pending verification with a manual
// date-of-birth entry; on success the deferred add executes
func (s *RegisterService) VerifyAgeByBirthDate(ctx context.Context, year int, month time.Month, day int) (*CartView, error) {
	return s.resolveVerification(ctx, "birth_date", func(gate *pos.AgeVerificationGate) (*catalog.Product, error) {
		return gate.VerifyBirthDate(year, month, day)
	})
}

// VerifyAgeByIDCheck resolves the pending verification with a scanned
// ID outcome
func (s *RegisterService) VerifyAgeByIDCheck(ctx context.Context, outcome pos.IDCheckOutcome) (*CartView, error) {
	return s.resolveVerification(ctx, "id_check", func(gate *pos.AgeVerificationGate) (*catalog.Product, error) {
		return gate.VerifyIDCheck(outcome)
	})
}

// VerifyAgeByScanner resolves the pending verification via the
// hardware scanner simulation
func (s *RegisterService) VerifyAgeByScanner(ctx context.Context) (*CartView, error) {
	return s.resolveVerification(ctx, "scanner", func(gate *pos.AgeVerificationGate) (*catalog.Product, error) {
		return gate.VerifyScanner()
	})
}

func (s *RegisterService) resolveVerification(ctx context.Context, method string, verify func(*pos.AgeVerificationGate) (*catalog.Product, error)) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, shared.NewDomainError("NO_SESSION", "No active session")
	}

	pending := s.session.Gate.Pending()
	product, err := verify(s.session.Gate)
	if err != nil {
		if pending != nil {
			_ = s.publisher.Publish(ctx, pos.NewVerificationRejectedEvent(pending.Product.ID, err.Error()))
		}
		return nil, err
	}

	if err := s.session.Cart.AddLine(*product); err != nil {
		return nil, err
	}
	_ = s.publisher.Publish(ctx, pos.NewVerificationPassedEvent(product.ID, method))

	view := s.cartViewLocked()
	return &view, nil
}

// CancelVerification discards the pending verification; the cart is
// left unchanged and the gate returns to idle
func (s *RegisterService) CancelVerification(ctx context.Context) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, shared.NewDomainError("NO_SESSION", "No active session")
	}

	if pending := s.session.Gate.Pending(); pending != nil {
		_ = s.publisher.Publish(ctx, pos.NewVerificationRejectedEvent(pending.Product.ID, "cancelled"))
	}
	s.session.Gate.Cancel()

	view := s.cartViewLocked()
	return &view, nil
}

// SetQuantity sets the quantity of a line (non-positive removes it)
func (s *RegisterService) SetQuantity(ctx context.Context, productID uuid.UUID, quantity int) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, shared.NewDomainError("NO_SESSION", "No active session")
	}
	if err := s.session.Cart.SetQuantity(productID, quantity); err != nil {
		return nil, err
	}
	view := s.cartViewLocked()
	return &view, nil
}

// RemoveItem removes a line from the cart
func (s *RegisterService) RemoveItem(ctx context.Context, productID uuid.UUID) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, shared.NewDomainError("NO_SESSION", "No active session")
	}
	s.session.Cart.RemoveLine(productID)
	view := s.cartViewLocked()
	return &view, nil
}

// OverrideLinePrice changes a line's unit price, gated by the
// price-override capability
func (s *RegisterService) OverrideLinePrice(ctx context.Context, productID uuid.UUID, newPrice decimal.Decimal) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, shared.NewDomainError("NO_SESSION", "No active session")
	}
	if !s.permissions.HasCapability(ctx, s.session.CashierID, pos.CapabilityPriceOverride) {
		return nil, shared.ErrPermissionDenied
	}
	if err := s.session.Cart.OverridePrice(productID, newPrice); err != nil {
		return nil, err
	}
	view := s.cartViewLocked()
	return &view, nil
}

// ApplyDiscount sets the cart-level discount, gated by the discount
// capability; at most one discount is active
func (s *RegisterService) ApplyDiscount(ctx context.Context, discount pos.Discount) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, shared.NewDomainError("NO_SESSION", "No active session")
	}
	if !s.permissions.HasCapability(ctx, s.session.CashierID, pos.CapabilityApplyDiscount) {
		return nil, shared.ErrPermissionDenied
	}
	s.session.Discount = &discount
	view := s.cartViewLocked()
	return &view, nil
}

// ClearDiscount removes the cart-level discount
func (s *RegisterService) ClearDiscount(ctx context.Context) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, shared.NewDomainError("NO_SESSION", "No active session")
	}
	s.session.Discount = nil
	view := s.cartViewLocked()
	return &view, nil
}

// SelectCustomer resolves and attaches a customer to the session
func (s *RegisterService) SelectCustomer(ctx context.Context, customerID uuid.UUID) (*CartView, error) {
	customer, err := s.customers.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, shared.NewDomainError("NO_SESSION", "No active session")
	}
	s.session.Customer = customer
	view := s.cartViewLocked()
	return &view, nil
}

// Hold suspends the active cart into the registry and clears the
// session cart. An empty cart cannot be held
func (s *RegisterService) Hold(ctx context.Context) (*HeldOrderView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, shared.NewDomainError("NO_SESSION", "No active session")
	}

	order, err := pos.NewHeldOrder(s.session.Cart, s.session.Customer.ID, s.session.Customer.Name)
	if err != nil {
		return nil, err
	}
	if err := s.heldOrders.Put(ctx, order); err != nil {
		return nil, err
	}

	s.session.Cart.Clear()
	s.session.Discount = nil
	_ = s.publisher.Publish(ctx, pos.NewCartHeldEvent(order))

	s.logger.Info("cart held", zap.String("held_order_id", order.ID.String()))

	view := ToHeldOrderView(order)
	return &view, nil
}

// Resume restores a held order as the active cart and removes it from
// the registry; a held order can be resumed at most once. A non-empty
// active cart blocks the resume so in-progress work is never silently
// discarded
func (s *RegisterService) Resume(ctx context.Context, heldOrderID uuid.UUID) (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, shared.NewDomainError("NO_SESSION", "No active session")
	}
	if !s.session.Cart.IsEmpty() {
		return nil, shared.NewDomainError("CART_NOT_EMPTY", "Hold or finish the current cart before resuming")
	}

	order, err := s.heldOrders.Take(ctx, heldOrderID)
	if err != nil {
		return nil, err
	}

	s.session.Cart = order.Cart
	s.session.Customer = &pos.Customer{ID: order.CustomerID, Name: order.CustomerName}
	_ = s.publisher.Publish(ctx, pos.NewCartResumedEvent(order))

	s.logger.Info("cart resumed", zap.String("held_order_id", order.ID.String()))

	view := s.cartViewLocked()
	return &view, nil
}

// ListHeld returns the registry contents for the resume picker
func (s *RegisterService) ListHeld(ctx context.Context) ([]HeldOrderView, error) {
	orders, err := s.heldOrders.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]HeldOrderView, len(orders))
	for i := range orders {
		views[i] = ToHeldOrderView(&orders[i])
	}
	return views, nil
}

// CartView builds the presentation view of the active session
func (s *RegisterService) CartView() (*CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, shared.NewDomainError("NO_SESSION", "No active session")
	}
	view := s.cartViewLocked()
	return &view, nil
}

func (s *RegisterService) cartViewLocked() CartView {
	session := s.session
	totals := s.pricing.ComputeTotals(session.Cart, session.Discount)
	advisories := session.Cart.Advisories()

	lines := make([]CartLineView, 0, session.Cart.ItemCount())
	for _, line := range session.Cart.Lines() {
		lines = append(lines, CartLineView{
			ProductID:     line.Product.ID,
			SKU:           line.Product.SKU,
			Name:          line.Product.Name,
			Quantity:      line.Quantity,
			UnitPrice:     line.UnitPrice(),
			OriginalPrice: line.OriginalPrice,
			LineTotal:     line.LineTotal(),
			Advisory:      advisories[line.Product.ID],
		})
	}

	view := CartView{
		Mode:                 session.Cart.Mode(),
		Lines:                lines,
		Subtotal:             totals.Subtotal,
		DiscountAmount:       totals.DiscountAmount,
		Tax:                  totals.Tax,
		Total:                totals.Total,
		VerificationRequired: session.Gate.State() == pos.GateAwaiting,
	}
	if session.Customer != nil {
		view.CustomerID = session.Customer.ID
		view.CustomerName = session.Customer.Name
	}
	if pending := session.Gate.Pending(); pending != nil {
		productID := pending.Product.ID
		view.PendingProductID = &productID
	}
	return view
}
