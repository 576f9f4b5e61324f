package pos

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
)

// MockProductStore is a mock implementation of catalog.ProductStore
type MockProductStore struct {
	mock.Mock
}

func (m *MockProductStore) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductStore) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, locationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductStore) ListBySKU(ctx context.Context, sku string) ([]catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductStore) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	args := m.Called(ctx, productID, quantity)
	return args.Error(0)
}

func (m *MockProductStore) AdjustStock(ctx context.Context, productID uuid.UUID, delta int) error {
	args := m.Called(ctx, productID, delta)
	return args.Error(0)
}

func (m *MockProductStore) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

// MockSaleRepository is a mock implementation of pos.SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *pos.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pos.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pos.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByNumber(ctx context.Context, number string) (*pos.Sale, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pos.Sale), args.Error(1)
}

func (m *MockSaleRepository) ListRecent(ctx context.Context, limit int) ([]pos.Sale, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pos.Sale), args.Error(1)
}

func (m *MockSaleRepository) GenerateNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// MockHeldOrderStore is a mock implementation of pos.HeldOrderStore
type MockHeldOrderStore struct {
	mock.Mock
}

func (m *MockHeldOrderStore) Put(ctx context.Context, order *pos.HeldOrder) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockHeldOrderStore) Take(ctx context.Context, id uuid.UUID) (*pos.HeldOrder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pos.HeldOrder), args.Error(1)
}

func (m *MockHeldOrderStore) List(ctx context.Context) ([]pos.HeldOrder, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pos.HeldOrder), args.Error(1)
}

// MockTransferRequestStore is a mock implementation of pos.TransferRequestStore
type MockTransferRequestStore struct {
	mock.Mock
}

func (m *MockTransferRequestStore) Save(ctx context.Context, request *pos.StockTransferRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockTransferRequestStore) ListByStatus(ctx context.Context, status pos.TransferStatus) ([]pos.StockTransferRequest, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pos.StockTransferRequest), args.Error(1)
}

// MockReceiptNotifier is a mock implementation of pos.ReceiptNotifier
type MockReceiptNotifier struct {
	mock.Mock
}

func (m *MockReceiptNotifier) SaleReady(ctx context.Context, sale *pos.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

// eventRecorder collects published events in order
type eventRecorder struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (r *eventRecorder) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, events...)
	return nil
}

func (r *eventRecorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.EventType()
	}
	return out
}

// stubPermissions grants exactly the listed capabilities
type stubPermissions struct {
	granted map[string]bool
}

func allowAll() stubPermissions {
	return stubPermissions{granted: map[string]bool{
		pos.CapabilityPriceOverride: true,
		pos.CapabilityApplyDiscount: true,
		pos.CapabilityProcessReturn: true,
		pos.CapabilityVoidSale:      true,
	}}
}

func allowNone() stubPermissions {
	return stubPermissions{granted: map[string]bool{}}
}

func (s stubPermissions) HasCapability(ctx context.Context, userID uuid.UUID, capability string) bool {
	return s.granted[capability]
}

// stubProbe reports a fixed connectivity state
type stubProbe struct {
	online bool
}

func (s *stubProbe) IsOnline(ctx context.Context) bool {
	return s.online
}

// stubDirectory serves a fixed walk-in customer plus extras by ID
type stubDirectory struct {
	walkIn pos.Customer
	known  map[uuid.UUID]pos.Customer
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{
		walkIn: pos.Customer{ID: uuid.New(), Name: "Walk-in Customer", IsWalkIn: true},
		known:  make(map[uuid.UUID]pos.Customer),
	}
}

func (s *stubDirectory) FindByID(ctx context.Context, id uuid.UUID) (*pos.Customer, error) {
	if c, ok := s.known[id]; ok {
		return &c, nil
	}
	return nil, shared.ErrNotFound
}

func (s *stubDirectory) WalkIn(ctx context.Context) (*pos.Customer, error) {
	c := s.walkIn
	return &c, nil
}

// memQueue is an in-memory offline queue
type memQueue struct {
	mu    sync.Mutex
	sales []*pos.Sale
}

func (q *memQueue) Enqueue(ctx context.Context, sale *pos.Sale) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.sales = append(q.sales, sale)
	return nil
}

func (q *memQueue) Drain(ctx context.Context, fn func(ctx context.Context, sale *pos.Sale) error) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.sales) > 0 {
		if err := fn(ctx, q.sales[0]); err != nil {
			return err
		}
		q.sales = q.sales[1:]
	}
	return nil
}

func (q *memQueue) Len(ctx context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.sales), nil
}

// scriptedGateway is a deterministic pos.PaymentGateway for tests
type scriptedGateway struct {
	approve bool
	message string
	err     error
}

func (g *scriptedGateway) CreateIntent(ctx context.Context, amount valueobject.Money) (pos.IntentToken, error) {
	if g.err != nil {
		return "", g.err
	}
	return pos.IntentToken("intent-" + amount.StringFixed(2)), nil
}

func (g *scriptedGateway) Capture(ctx context.Context, token pos.IntentToken) (pos.CaptureResult, error) {
	if g.err != nil {
		return pos.CaptureResult{}, g.err
	}
	return pos.CaptureResult{Approved: g.approve, Message: g.message}, nil
}

func newTestProduct(t *testing.T, name string, price float64, stock int, locationID uuid.UUID) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct("SKU-"+name, name, decimal.NewFromFloat(price), decimal.Zero, stock, locationID)
	require.NoError(t, err)
	return product
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}
