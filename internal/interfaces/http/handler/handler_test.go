package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apppos "github.com/pos/backend/internal/application/pos"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/cache"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/event"
	"github.com/pos/backend/internal/infrastructure/payment"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/infrastructure/printing"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/pos/backend/internal/interfaces/http/router"
)

type testServer struct {
	engine    *gin.Engine
	cashierID uuid.UUID
	productID uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{
		Path:            ":memory:",
		MaxOpenConns:    1,
		ConnMaxLifetime: 5,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })

	locationID := uuid.New()
	product, err := catalog.NewProduct("SKU-COFFEE", "Coffee", decimal.NewFromFloat(12.50), decimal.Zero, 10, locationID)
	require.NoError(t, err)

	products := persistence.NewGormProductRepository(db.DB)
	require.NoError(t, products.Save(context.Background(), product))

	log := zap.NewNop()
	bus := event.NewInMemoryEventBus(log)
	require.NoError(t, bus.Start(context.Background()))
	t.Cleanup(func() { _ = bus.Stop(context.Background()) })

	cashierID := uuid.New()
	permissions := auth.NewStaticPermissionChecker()
	permissions.GrantAll(cashierID)

	pricing := pos.NewPricingCalculator(decimal.NewFromFloat(0.08), pos.DiscountPolicy{})
	gateway := payment.NewSimulatedGateway(0, log)

	registerService := apppos.NewRegisterService(
		products,
		persistence.NewGormCustomerDirectory(db.DB),
		permissions,
		cache.NewInMemoryHeldOrderStore(),
		bus,
		pricing,
		21,
		log,
	)
	terminalService := apppos.NewTerminalService(gateway, apppos.TerminalTiming{}, log)
	checkoutService := apppos.NewCheckoutService(
		registerService,
		persistence.NewGormSaleRepository(db.DB),
		products,
		terminalService,
		cache.NewManualProbe(true),
		persistence.NewGormOfflineQueue(db.DB),
		permissions,
		bus,
		printing.NewLogReceiptNotifier(log),
		pricing,
		decimal.NewFromFloat(0.005),
		log,
	)
	stockService := apppos.NewStockService(
		products,
		persistence.NewGormTransferRepository(db.DB),
		bus,
		locationID,
		log,
	)

	engine := gin.New()
	engine.Use(middleware.RequestID())

	r := router.NewRouter(engine)
	r.Register(NewRegisterHandler(registerService))
	r.Register(NewCheckoutHandler(checkoutService, log))
	r.Register(NewStockHandler(stockService))
	r.Setup()

	return &testServer{
		engine:    engine,
		cashierID: cashierID,
		productID: product.ID,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Cashier-ID", s.cashierID.String())

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func TestStartSessionRequiresCashierHeader(t *testing.T) {
	server := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/session", strings.NewReader(`{"mode":"SALE"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCashCheckoutFlow(t *testing.T) {
	server := newTestServer(t)

	w := server.do(t, http.MethodPost, "/api/v1/session", `{"mode":"SALE"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, "Walk-in Customer", data["customer_name"])

	w = server.do(t, http.MethodPost, "/api/v1/session/items",
		fmt.Sprintf(`{"product_id":%q}`, server.productID))
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Equal(t, "13.5", data["total"])

	w = server.do(t, http.MethodPost, "/api/v1/payment", "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = server.do(t, http.MethodPost, "/api/v1/payment/tenders",
		`{"method_name":"Cash","amount":"20.00","is_cash":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Equal(t, true, data["is_fully_paid"])
	assert.Equal(t, "6.5", data["change_due"])

	w = server.do(t, http.MethodPost, "/api/v1/payment/finalize", "")
	require.Equal(t, http.StatusCreated, w.Code)
	data = decodeData(t, w)
	assert.Contains(t, data["number"], "POS-")
	assert.Equal(t, string(pos.SaleStatusCompleted), data["status"])

	w = server.do(t, http.MethodGet, "/api/v1/session/cart", "")
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeData(t, w)
	assert.Empty(t, data["lines"])
}

func TestIntegratedTenderFlow(t *testing.T) {
	server := newTestServer(t)

	w := server.do(t, http.MethodPost, "/api/v1/session", `{"mode":"SALE"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = server.do(t, http.MethodPost, "/api/v1/session/items",
		fmt.Sprintf(`{"product_id":%q}`, server.productID))
	require.Equal(t, http.StatusOK, w.Code)

	w = server.do(t, http.MethodPost, "/api/v1/payment", "")
	require.Equal(t, http.StatusCreated, w.Code)

	w = server.do(t, http.MethodPost, "/api/v1/payment/tenders",
		`{"method_name":"Card","amount":"100.00","is_integrated":true}`)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeData(t, w)
	assert.Equal(t, true, data["is_fully_paid"])
	assert.Equal(t, pos.TerminalMsgApproved, data["message"])

	tenders, ok := data["tenders"].([]any)
	require.True(t, ok)
	require.Len(t, tenders, 1)
	tender := tenders[0].(map[string]any)
	// charge capped to the amount owed, not the requested 100
	assert.Equal(t, "13.5", tender["amount"])
}

func TestAddUnknownProduct(t *testing.T) {
	server := newTestServer(t)

	w := server.do(t, http.MethodPost, "/api/v1/session", `{"mode":"SALE"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w = server.do(t, http.MethodPost, "/api/v1/session/items",
		fmt.Sprintf(`{"product_id":%q}`, uuid.New()))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetCartWithoutSession(t *testing.T) {
	server := newTestServer(t)

	w := server.do(t, http.MethodGet, "/api/v1/session/cart", "")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestListProducts(t *testing.T) {
	server := newTestServer(t)

	w := server.do(t, http.MethodGet, "/api/v1/products", "")
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Success bool             `json:"success"`
		Data    []map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "SKU-COFFEE", envelope.Data[0]["sku"])
}
