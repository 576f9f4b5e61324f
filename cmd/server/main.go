package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	apppos "github.com/pos/backend/internal/application/pos"
	"github.com/pos/backend/internal/domain/pos"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/pos/backend/internal/infrastructure/cache"
	"github.com/pos/backend/internal/infrastructure/config"
	"github.com/pos/backend/internal/infrastructure/event"
	"github.com/pos/backend/internal/infrastructure/logger"
	"github.com/pos/backend/internal/infrastructure/payment"
	"github.com/pos/backend/internal/infrastructure/persistence"
	"github.com/pos/backend/internal/infrastructure/printing"
	"github.com/pos/backend/internal/interfaces/http/handler"
	"github.com/pos/backend/internal/interfaces/http/middleware"
	"github.com/pos/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting POS terminal backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Terminal-local database
	gormLogLevel := gormlogger.Silent
	if cfg.Log.Level == "debug" {
		gormLogLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database ready", zap.String("path", cfg.Database.Path))

	// Held-order registry and connectivity probe
	// Redis is the shared registry; a single register without Redis
	// falls back to the in-memory registry and runs permanently online
	var heldOrders pos.HeldOrderStore
	var probe pos.ConnectivityProbe

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	redisErr := redisClient.Ping(pingCtx).Err()
	cancelPing()
	if redisErr == nil {
		heldOrders = cache.NewRedisHeldOrderStoreWithClient(redisClient, "", 0)
		probe = cache.NewRedisProbe(redisClient, 2*time.Second)
		log.Info("Connected to Redis", zap.String("addr", cfg.Redis.Addr()))
		defer func() {
			_ = redisClient.Close()
		}()
	} else {
		heldOrders = cache.NewInMemoryHeldOrderStore()
		probe = cache.NewManualProbe(true)
		log.Warn("Redis unreachable, using in-memory held order registry",
			zap.String("addr", cfg.Redis.Addr()),
			zap.Error(redisErr),
		)
	}

	// Event bus
	bus := event.NewInMemoryEventBus(log)
	if err := bus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		_ = bus.Stop(context.Background())
	}()

	// Repositories
	products := persistence.NewGormProductRepository(db.DB)
	sales := persistence.NewGormSaleRepository(db.DB)
	transfers := persistence.NewGormTransferRepository(db.DB)
	customers := persistence.NewGormCustomerDirectory(db.DB)
	queue := persistence.NewGormOfflineQueue(db.DB)

	// Permissions for the bound operator
	permissions := auth.NewStaticPermissionChecker()
	if cashierID, err := uuid.Parse(cfg.POS.CashierID); err == nil {
		permissions.GrantAll(cashierID)
		log.Info("Operator capabilities granted", zap.String("cashier_id", cashierID.String()))
	}

	locationID, err := uuid.Parse(cfg.POS.LocationID)
	if err != nil {
		locationID = uuid.New()
		log.Warn("No location configured, generated ephemeral location",
			zap.String("location_id", locationID.String()),
		)
	}

	// Domain wiring
	pricing := pos.NewPricingCalculator(cfg.POS.TaxRate, pos.DiscountPolicy{
		ClampToSubtotal: cfg.POS.ClampDiscounts,
	})
	gateway := payment.NewSimulatedGateway(cfg.Terminal.DeclineEvery, log)
	receipts := printing.NewLogReceiptNotifier(log)

	// Application services
	registerService := apppos.NewRegisterService(
		products, customers, permissions, heldOrders, bus, pricing, cfg.POS.MinimumAge, log)
	terminalService := apppos.NewTerminalService(gateway, apppos.TerminalTiming{
		CardPresentDelay: cfg.Terminal.CardPresentDelay,
		ProcessingDelay:  cfg.Terminal.ProcessingDelay,
	}, log)
	checkoutService := apppos.NewCheckoutService(
		registerService, sales, products, terminalService, probe, queue,
		permissions, bus, receipts, pricing, cfg.POS.PaymentTolerance, log)
	stockService := apppos.NewStockService(products, transfers, bus, locationID, log)

	// HTTP surface
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))

	r := router.NewRouter(engine)
	r.Register(handler.NewRegisterHandler(registerService))
	r.Register(handler.NewCheckoutHandler(checkoutService, log))
	r.Register(handler.NewStockHandler(stockService))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
