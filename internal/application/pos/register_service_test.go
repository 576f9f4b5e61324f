package pos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/domain/shared"
)

type registerFixture struct {
	service    *RegisterService
	products   *MockProductStore
	heldOrders *MockHeldOrderStore
	directory  *stubDirectory
	events     *eventRecorder
}

func newRegisterFixture(t *testing.T, permissions stubPermissions) *registerFixture {
	t.Helper()
	f := &registerFixture{
		products:   new(MockProductStore),
		heldOrders: new(MockHeldOrderStore),
		directory:  newStubDirectory(),
		events:     &eventRecorder{},
	}
	pricing := pos.NewPricingCalculator(decimal.NewFromFloat(0.08), pos.DiscountPolicy{})
	f.service = NewRegisterService(f.products, f.directory, permissions, f.heldOrders, f.events, pricing, 21, testLogger())
	return f
}

func (f *registerFixture) startSale(t *testing.T) uuid.UUID {
	t.Helper()
	cashierID := uuid.New()
	_, err := f.service.StartSession(context.Background(), cashierID, pos.ModeSale)
	require.NoError(t, err)
	return cashierID
}

func TestStartSession(t *testing.T) {
	t.Run("defaults to the walk-in customer", func(t *testing.T) {
		f := newRegisterFixture(t, allowNone())

		view, err := f.service.StartSession(context.Background(), uuid.New(), pos.ModeSale)
		require.NoError(t, err)

		assert.Equal(t, pos.ModeSale, view.Mode)
		assert.Equal(t, "Walk-in Customer", view.CustomerName)
		assert.Empty(t, view.Lines)
	})

	t.Run("return mode needs the return capability", func(t *testing.T) {
		f := newRegisterFixture(t, allowNone())

		_, err := f.service.StartSession(context.Background(), uuid.New(), pos.ModeReturn)
		assert.ErrorIs(t, err, shared.ErrPermissionDenied)

		f = newRegisterFixture(t, allowAll())
		view, err := f.service.StartSession(context.Background(), uuid.New(), pos.ModeReturn)
		require.NoError(t, err)
		assert.Equal(t, pos.ModeReturn, view.Mode)
	})
}

func TestAddItem(t *testing.T) {
	t.Run("adds an unrestricted product", func(t *testing.T) {
		f := newRegisterFixture(t, allowNone())
		f.startSale(t)

		product := newTestProduct(t, "Widget", 25.00, 10, uuid.New())
		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		view, err := f.service.AddItem(context.Background(), product.ID)
		require.NoError(t, err)
		require.Len(t, view.Lines, 1)
		assert.Equal(t, 1, view.Lines[0].Quantity)
		assert.False(t, view.VerificationRequired)
		assert.Equal(t, "27.00", view.Total.StringFixed(2))
	})

	t.Run("requires an open session", func(t *testing.T) {
		f := newRegisterFixture(t, allowNone())
		product := newTestProduct(t, "Widget", 25.00, 10, uuid.New())
		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		_, err := f.service.AddItem(context.Background(), product.ID)
		assert.Error(t, err)
	})
}

func TestAddItemAgeRestricted(t *testing.T) {
	setup := func(t *testing.T) (*registerFixture, uuid.UUID) {
		f := newRegisterFixture(t, allowNone())
		f.startSale(t)
		product := newTestProduct(t, "Bourbon", 35.00, 5, uuid.New())
		product.IsAgeRestricted = true
		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)

		view, err := f.service.AddItem(context.Background(), product.ID)
		require.NoError(t, err)
		require.True(t, view.VerificationRequired)
		require.NotNil(t, view.PendingProductID)
		assert.Empty(t, view.Lines)
		return f, product.ID
	}

	t.Run("valid birth date releases the deferred add", func(t *testing.T) {
		f, productID := setup(t)

		view, err := f.service.VerifyAgeByBirthDate(context.Background(), 1990, time.January, 1)
		require.NoError(t, err)

		require.Len(t, view.Lines, 1)
		assert.Equal(t, productID, view.Lines[0].ProductID)
		assert.False(t, view.VerificationRequired)
		assert.Contains(t, f.events.types(), pos.EventTypeVerificationPassed)
	})

	t.Run("underage birth date discards the product", func(t *testing.T) {
		f, _ := setup(t)

		now := time.Now()
		_, err := f.service.VerifyAgeByBirthDate(context.Background(), now.Year()-18, now.Month(), now.Day())
		require.Error(t, err)

		view, err := f.service.CartView()
		require.NoError(t, err)
		assert.Empty(t, view.Lines)
		assert.False(t, view.VerificationRequired)
		assert.Contains(t, f.events.types(), pos.EventTypeVerificationRejected)
	})

	t.Run("id check outcomes", func(t *testing.T) {
		f, _ := setup(t)
		_, err := f.service.VerifyAgeByIDCheck(context.Background(), pos.IDCheckFake)
		assert.Error(t, err)

		f, productID := setup(t)
		view, err := f.service.VerifyAgeByScanner(context.Background())
		require.NoError(t, err)
		require.Len(t, view.Lines, 1)
		assert.Equal(t, productID, view.Lines[0].ProductID)
	})

	t.Run("cancel discards the pending request", func(t *testing.T) {
		f, _ := setup(t)

		view, err := f.service.CancelVerification(context.Background())
		require.NoError(t, err)
		assert.False(t, view.VerificationRequired)
		assert.Empty(t, view.Lines)
		assert.Contains(t, f.events.types(), pos.EventTypeVerificationRejected)
	})

	t.Run("second restricted add while pending fails", func(t *testing.T) {
		f, productID := setup(t)

		_, err := f.service.AddItem(context.Background(), productID)
		assert.ErrorIs(t, err, shared.ErrVerificationPending)
	})
}

func TestOverrideLinePrice(t *testing.T) {
	product := newTestProduct(t, "Widget", 30.00, 10, uuid.New())

	t.Run("denied without the capability", func(t *testing.T) {
		f := newRegisterFixture(t, allowNone())
		f.startSale(t)
		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		_, err := f.service.AddItem(context.Background(), product.ID)
		require.NoError(t, err)

		_, err = f.service.OverrideLinePrice(context.Background(), product.ID, decimal.NewFromFloat(20.00))
		assert.ErrorIs(t, err, shared.ErrPermissionDenied)
	})

	t.Run("annotates the original price", func(t *testing.T) {
		f := newRegisterFixture(t, allowAll())
		f.startSale(t)
		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		_, err := f.service.AddItem(context.Background(), product.ID)
		require.NoError(t, err)

		view, err := f.service.OverrideLinePrice(context.Background(), product.ID, decimal.NewFromFloat(20.00))
		require.NoError(t, err)

		require.NotNil(t, view.Lines[0].OriginalPrice)
		assert.Equal(t, "30", view.Lines[0].OriginalPrice.String())
		assert.Equal(t, "20", view.Lines[0].UnitPrice.String())
	})
}

func TestApplyDiscount(t *testing.T) {
	product := newTestProduct(t, "Widget", 50.00, 10, uuid.New())

	t.Run("denied without the capability", func(t *testing.T) {
		f := newRegisterFixture(t, allowNone())
		f.startSale(t)

		discount, _ := pos.NewPercentageDiscount(decimal.NewFromInt(10))
		_, err := f.service.ApplyDiscount(context.Background(), discount)
		assert.ErrorIs(t, err, shared.ErrPermissionDenied)
	})

	t.Run("recomputes totals", func(t *testing.T) {
		f := newRegisterFixture(t, allowAll())
		f.startSale(t)
		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		_, err := f.service.AddItem(context.Background(), product.ID)
		require.NoError(t, err)
		_, err = f.service.SetQuantity(context.Background(), product.ID, 2)
		require.NoError(t, err)

		discount, _ := pos.NewPercentageDiscount(decimal.NewFromInt(10))
		view, err := f.service.ApplyDiscount(context.Background(), discount)
		require.NoError(t, err)

		assert.Equal(t, "100.00", view.Subtotal.StringFixed(2))
		assert.Equal(t, "10.00", view.DiscountAmount.StringFixed(2))
		assert.Equal(t, "97.20", view.Total.StringFixed(2))

		view, err = f.service.ClearDiscount(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "108.00", view.Total.StringFixed(2))
	})
}

func TestHoldAndResume(t *testing.T) {
	product := newTestProduct(t, "Widget", 25.00, 10, uuid.New())

	t.Run("hold clears the session and registers the order", func(t *testing.T) {
		f := newRegisterFixture(t, allowNone())
		f.startSale(t)
		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		f.heldOrders.On("Put", mock.Anything, mock.AnythingOfType("*pos.HeldOrder")).Return(nil)
		_, err := f.service.AddItem(context.Background(), product.ID)
		require.NoError(t, err)

		held, err := f.service.Hold(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, held.LineCount)

		view, err := f.service.CartView()
		require.NoError(t, err)
		assert.Empty(t, view.Lines)
		assert.Contains(t, f.events.types(), pos.EventTypeCartHeld)
		f.heldOrders.AssertExpectations(t)
	})

	t.Run("empty cart cannot be held", func(t *testing.T) {
		f := newRegisterFixture(t, allowNone())
		f.startSale(t)

		_, err := f.service.Hold(context.Background())
		assert.Error(t, err)
	})

	t.Run("resume restores the cart and customer", func(t *testing.T) {
		f := newRegisterFixture(t, allowNone())
		f.startSale(t)

		cart, _ := pos.NewCart(pos.ModeSale)
		require.NoError(t, cart.AddLine(*product))
		order, err := pos.NewHeldOrder(cart, uuid.New(), "Ada")
		require.NoError(t, err)
		f.heldOrders.On("Take", mock.Anything, order.ID).Return(order, nil)

		view, err := f.service.Resume(context.Background(), order.ID)
		require.NoError(t, err)

		require.Len(t, view.Lines, 1)
		assert.Equal(t, "Ada", view.CustomerName)
		assert.Contains(t, f.events.types(), pos.EventTypeCartResumed)
	})

	t.Run("resume over a non-empty cart is blocked", func(t *testing.T) {
		f := newRegisterFixture(t, allowNone())
		f.startSale(t)
		f.products.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		_, err := f.service.AddItem(context.Background(), product.ID)
		require.NoError(t, err)

		_, err = f.service.Resume(context.Background(), uuid.New())
		assert.Error(t, err)
		f.heldOrders.AssertNotCalled(t, "Take", mock.Anything, mock.Anything)
	})
}

func TestSelectCustomer(t *testing.T) {
	f := newRegisterFixture(t, allowNone())
	f.startSale(t)

	customer := pos.Customer{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"}
	f.directory.known[customer.ID] = customer

	view, err := f.service.SelectCustomer(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", view.CustomerName)

	_, err = f.service.SelectCustomer(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
