package pos

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/domain/shared"
)

// CheckoutService reconciles tenders against the transaction total and
// finalizes the sale: stock decrement, persistence, receipt, and the
// offline queue when the external store is unreachable
type CheckoutService struct {
	register    *RegisterService
	sales       pos.SaleRepository
	products    catalog.ProductStore
	terminal    *TerminalService
	probe       pos.ConnectivityProbe
	queue       pos.OfflineQueue
	permissions pos.PermissionChecker
	publisher   shared.EventPublisher
	receipts    pos.ReceiptNotifier
	pricing     *pos.PricingCalculator
	tolerance   decimal.Decimal
	logger      *zap.Logger

	mu         sync.Mutex
	reconciler *pos.PaymentReconciler
	totals     *pos.Totals
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	register *RegisterService,
	sales pos.SaleRepository,
	products catalog.ProductStore,
	terminal *TerminalService,
	probe pos.ConnectivityProbe,
	queue pos.OfflineQueue,
	permissions pos.PermissionChecker,
	publisher shared.EventPublisher,
	receipts pos.ReceiptNotifier,
	pricing *pos.PricingCalculator,
	tolerance decimal.Decimal,
	logger *zap.Logger,
) *CheckoutService {
	return &CheckoutService{
		register:    register,
		sales:       sales,
		products:    products,
		terminal:    terminal,
		probe:       probe,
		queue:       queue,
		permissions: permissions,
		publisher:   publisher,
		receipts:    receipts,
		pricing:     pricing,
		tolerance:   tolerance,
		logger:      logger,
	}
}

// BeginPayment freezes the cart totals and opens the tender screen
// A pending age verification or an empty cart blocks payment
func (s *CheckoutService) BeginPayment(ctx context.Context) (*PaymentView, error) {
	session, err := s.register.CurrentSession()
	if err != nil {
		return nil, err
	}
	if session.Gate.State() == pos.GateAwaiting {
		return nil, shared.ErrVerificationPending
	}
	if session.Cart.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	totals := s.pricing.ComputeTotals(session.Cart, session.Discount)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals = &totals
	s.reconciler = pos.NewPaymentReconciler(totals.Total, s.tolerance)

	view := s.paymentViewLocked("")
	return &view, nil
}

// AddTender routes one tender through the reconciler. Integrated
// methods run the card terminal first and are appended only when the
// terminal reports success; cash and other manual methods are appended
// directly. A failed or cancelled attempt leaves the reconciler
// untouched and surfaces the terminal message in the view
func (s *CheckoutService) AddTender(ctx context.Context, method pos.TenderMethod, amount decimal.Decimal, observer pos.TerminalObserver) (*PaymentView, error) {
	s.mu.Lock()
	if s.reconciler == nil {
		s.mu.Unlock()
		return nil, shared.NewDomainError("NO_PAYMENT", "Payment has not been started")
	}
	// integrated tenders charge only what is still owed
	charge := amount
	if method.IsIntegrated {
		if remaining := s.reconciler.Remaining(); charge.GreaterThan(remaining) {
			charge = remaining
		}
	}
	s.mu.Unlock()

	message := ""
	if method.IsIntegrated {
		if charge.LessThanOrEqual(s.tolerance) {
			view, err := s.PaymentView()
			return view, err
		}
		session, err := s.terminal.ProcessPayment(ctx, charge, observer)
		if session.Status != pos.TerminalSuccess {
			// gateway transport errors surface the same way as a
			// decline: a failed terminal state with its message
			if err != nil {
				s.logger.Warn("terminal attempt failed", zap.Error(err))
			}
			s.mu.Lock()
			defer s.mu.Unlock()
			view := s.paymentViewLocked(session.Message)
			return &view, nil
		}
		message = session.Message
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reconciler == nil {
		return nil, shared.NewDomainError("NO_PAYMENT", "Payment has not been started")
	}
	// the lock was released for the terminal run; the append re-caps
	// non-cash to what is still owed, so a capture that raced another
	// tender records less than the terminal charged
	if method.IsIntegrated {
		if remaining := s.reconciler.Remaining(); charge.GreaterThan(remaining) {
			s.logger.Warn("captured amount exceeds remaining balance",
				zap.String("captured", charge.StringFixed(2)),
				zap.String("remaining", remaining.StringFixed(2)),
			)
		}
	}
	s.reconciler.AddTender(method, charge)
	view := s.paymentViewLocked(message)
	return &view, nil
}

// RemoveTender removes a previously accepted tender, permitted any
// time before confirmation
func (s *CheckoutService) RemoveTender(ctx context.Context, tenderID uuid.UUID) (*PaymentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reconciler == nil {
		return nil, shared.NewDomainError("NO_PAYMENT", "Payment has not been started")
	}
	if err := s.reconciler.RemoveTender(tenderID); err != nil {
		return nil, err
	}
	view := s.paymentViewLocked("")
	return &view, nil
}

// CancelPayment abandons the tender screen and returns to the cart
// Accepted tenders are discarded with it
func (s *CheckoutService) CancelPayment(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconciler = nil
	s.totals = nil
	return nil
}

// PaymentView returns the current reconciler state
func (s *CheckoutService) PaymentView() (*PaymentView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.reconciler == nil {
		return nil, shared.NewDomainError("NO_PAYMENT", "Payment has not been started")
	}
	view := s.paymentViewLocked("")
	return &view, nil
}

// Finalize commits the transaction once tenders cover the total
// Online: stock moves, the sale persists, and the receipt fires
// Offline: the sale parks in the local queue with stock untouched
// until SyncQueued drains it
func (s *CheckoutService) Finalize(ctx context.Context) (*SaleResponse, error) {
	session, err := s.register.CurrentSession()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.reconciler == nil {
		s.mu.Unlock()
		return nil, shared.NewDomainError("NO_PAYMENT", "Payment has not been started")
	}
	tenders, err := s.reconciler.Confirm()
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	totals := *s.totals
	changeDue := s.reconciler.ChangeDue()
	s.mu.Unlock()

	number, err := s.sales.GenerateNumber(ctx)
	if err != nil {
		return nil, err
	}

	sale, err := pos.NewSale(
		number,
		session.Cart,
		session.Customer.ID,
		session.Customer.Name,
		session.CashierID,
		s.locationOf(session.Cart),
		totals,
		tenders,
		session.Discount,
		changeDue,
	)
	if err != nil {
		return nil, err
	}

	if s.probe.IsOnline(ctx) {
		if err := s.applyStockMovements(ctx, sale); err != nil {
			return nil, err
		}
		if err := s.sales.Save(ctx, sale); err != nil {
			return nil, err
		}
		_ = s.publisher.Publish(ctx, pos.NewSaleCompletedEvent(sale))
		if err := s.receipts.SaleReady(ctx, sale); err != nil {
			s.logger.Warn("receipt notification failed",
				zap.String("sale_number", sale.Number),
				zap.Error(err),
			)
		}
		s.logger.Info("sale completed",
			zap.String("sale_number", sale.Number),
			zap.String("total", sale.Total.StringFixed(2)),
		)
	} else {
		sale.MarkQueued()
		if err := s.queue.Enqueue(ctx, sale); err != nil {
			return nil, err
		}
		_ = s.publisher.Publish(ctx, pos.NewSaleQueuedEvent(sale))
		s.logger.Warn("terminal offline, sale queued",
			zap.String("sale_number", sale.Number),
		)
	}

	// reset for the next transaction
	session.Cart.Clear()
	session.Discount = nil
	s.mu.Lock()
	s.reconciler = nil
	s.totals = nil
	s.mu.Unlock()

	response := ToSaleResponse(sale)
	return &response, nil
}

// Void voids a completed sale, gated by the void capability
// Stock already sold stays sold; a void is a financial correction, not
// a return
func (s *CheckoutService) Void(ctx context.Context, cashierID, saleID uuid.UUID) (*SaleResponse, error) {
	if !s.permissions.HasCapability(ctx, cashierID, pos.CapabilityVoidSale) {
		return nil, shared.ErrPermissionDenied
	}

	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if err := sale.Void(); err != nil {
		return nil, err
	}
	if err := s.sales.Save(ctx, sale); err != nil {
		return nil, err
	}
	for _, event := range sale.GetDomainEvents() {
		_ = s.publisher.Publish(ctx, event)
	}
	sale.ClearDomainEvents()

	s.logger.Info("sale voided", zap.String("sale_number", sale.Number))

	response := ToSaleResponse(sale)
	return &response, nil
}

// AttachEmail attaches a customer email to a finalized sale and
// re-announces the receipt so it can be emailed
func (s *CheckoutService) AttachEmail(ctx context.Context, saleID uuid.UUID, email string) (*SaleResponse, error) {
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if err := sale.AttachCustomerEmail(email); err != nil {
		return nil, err
	}
	if err := s.sales.Save(ctx, sale); err != nil {
		return nil, err
	}
	if err := s.receipts.SaleReady(ctx, sale); err != nil {
		s.logger.Warn("receipt notification failed",
			zap.String("sale_number", sale.Number),
			zap.Error(err),
		)
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// SyncQueued drains the offline queue while the store is reachable
// Each queued sale gets its deferred stock movement, persists, and
// fires its receipt. The first failure stops the drain so nothing is
// lost
func (s *CheckoutService) SyncQueued(ctx context.Context) (int, error) {
	if !s.probe.IsOnline(ctx) {
		return 0, shared.NewDomainError("OFFLINE", "External store is not reachable")
	}

	synced := 0
	err := s.queue.Drain(ctx, func(ctx context.Context, sale *pos.Sale) error {
		if err := s.applyStockMovements(ctx, sale); err != nil {
			return err
		}
		if err := sale.MarkSynced(); err != nil {
			return err
		}
		if err := s.sales.Save(ctx, sale); err != nil {
			return err
		}
		_ = s.publisher.Publish(ctx, pos.NewSaleCompletedEvent(sale))
		if err := s.receipts.SaleReady(ctx, sale); err != nil {
			s.logger.Warn("receipt notification failed",
				zap.String("sale_number", sale.Number),
				zap.Error(err),
			)
		}
		synced++
		return nil
	})
	if err != nil {
		return synced, err
	}

	if synced > 0 {
		s.logger.Info("offline queue drained", zap.Int("synced", synced))
	}
	return synced, nil
}

// QueuedCount reports how many sales await sync
func (s *CheckoutService) QueuedCount(ctx context.Context) (int, error) {
	return s.queue.Len(ctx)
}

// applyStockMovements decrements inventory for a finalized sale
// Returns leave stock untouched; restocking belongs to the formal
// customer-return workflow, not the register's return mode
func (s *CheckoutService) applyStockMovements(ctx context.Context, sale *pos.Sale) error {
	if sale.IsReturn() {
		return nil
	}
	for _, item := range sale.Items {
		if err := s.products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func (s *CheckoutService) locationOf(cart *pos.Cart) uuid.UUID {
	lines := cart.Lines()
	if len(lines) == 0 {
		return uuid.Nil
	}
	return lines[0].Product.LocationID
}

func (s *CheckoutService) paymentViewLocked(message string) PaymentView {
	tenders := s.reconciler.Tenders()
	views := make([]TenderView, len(tenders))
	for i, tender := range tenders {
		views[i] = TenderView{
			ID:         tender.ID,
			MethodID:   tender.MethodID,
			MethodName: tender.MethodName,
			Amount:     tender.Amount,
		}
	}
	return PaymentView{
		Total:       s.totals.Total,
		Paid:        s.reconciler.Paid(),
		Remaining:   s.reconciler.Remaining(),
		ChangeDue:   s.reconciler.ChangeDue(),
		IsFullyPaid: s.reconciler.IsFullyPaid(),
		Tenders:     views,
		Message:     message,
	}
}
