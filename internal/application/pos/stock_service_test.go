package pos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/pos"
)

type stockFixture struct {
	service    *StockService
	products   *MockProductStore
	transfers  *MockTransferRequestStore
	events     *eventRecorder
	locationID uuid.UUID
}

func newStockFixture(t *testing.T) *stockFixture {
	t.Helper()
	f := &stockFixture{
		products:   new(MockProductStore),
		transfers:  new(MockTransferRequestStore),
		events:     &eventRecorder{},
		locationID: uuid.New(),
	}
	f.service = NewStockService(f.products, f.transfers, f.events, f.locationID, testLogger())
	return f
}

func TestListProducts(t *testing.T) {
	f := newStockFixture(t)

	healthy := newTestProduct(t, "Widget", 25.00, 50, f.locationID)
	healthy.ReorderPoint = 5
	low := newTestProduct(t, "Gasket", 3.00, 2, f.locationID)
	low.ReorderPoint = 5

	f.products.On("ListByLocation", mock.Anything, f.locationID).Return([]catalog.Product{*healthy, *low}, nil)

	views, err := f.service.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.False(t, views[0].IsLowStock)
	assert.True(t, views[1].IsLowStock)
}

func TestTransferOptions(t *testing.T) {
	f := newStockFixture(t)

	here := newTestProduct(t, "Widget", 25.00, 0, f.locationID)
	elsewhere := newTestProduct(t, "Widget", 25.00, 7, uuid.New())
	elsewhere.SKU = here.SKU
	empty := newTestProduct(t, "Widget", 25.00, 0, uuid.New())
	empty.SKU = here.SKU

	f.products.On("FindByID", mock.Anything, here.ID).Return(here, nil)
	f.products.On("ListBySKU", mock.Anything, here.SKU).Return([]catalog.Product{*here, *elsewhere, *empty}, nil)

	options, err := f.service.TransferOptions(context.Background(), here.ID)
	require.NoError(t, err)

	// only the stocked sibling at another location qualifies
	require.Len(t, options, 1)
	assert.Equal(t, elsewhere.LocationID, options[0].LocationID)
	assert.Equal(t, 7, options[0].StockQuantity)
}

func TestRequestTransfer(t *testing.T) {
	t.Run("creates a pending single-unit request", func(t *testing.T) {
		f := newStockFixture(t)
		from := uuid.New()
		f.transfers.On("Save", mock.Anything, mock.AnythingOfType("*pos.StockTransferRequest")).Return(nil)

		view, err := f.service.RequestTransfer(context.Background(), uuid.New(), uuid.New(), from)
		require.NoError(t, err)

		assert.Equal(t, pos.TransferStatusPending, view.Status)
		assert.Equal(t, 1, view.Quantity)
		assert.Equal(t, from, view.FromLocationID)
		assert.Equal(t, f.locationID, view.ToLocationID)
		assert.Contains(t, f.events.types(), pos.EventTypeTransferRequested)
		f.transfers.AssertExpectations(t)
	})

	t.Run("rejects the active location as source", func(t *testing.T) {
		f := newStockFixture(t)
		_, err := f.service.RequestTransfer(context.Background(), uuid.New(), uuid.New(), f.locationID)
		assert.Error(t, err)
	})
}

func TestListPendingTransfers(t *testing.T) {
	f := newStockFixture(t)

	request, err := pos.NewStockTransferRequest(uuid.New(), uuid.New(), f.locationID, uuid.New(), 1)
	require.NoError(t, err)
	f.transfers.On("ListByStatus", mock.Anything, pos.TransferStatusPending).Return([]pos.StockTransferRequest{*request}, nil)

	views, err := f.service.ListPendingTransfers(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, request.ID, views[0].ID)
}

func TestReceiveStock(t *testing.T) {
	f := newStockFixture(t)
	productID := uuid.New()

	assert.Error(t, f.service.ReceiveStock(context.Background(), productID, 0))

	f.products.On("AdjustStock", mock.Anything, productID, 3).Return(nil)
	require.NoError(t, f.service.ReceiveStock(context.Background(), productID, 3))
	f.products.AssertExpectations(t)
}
