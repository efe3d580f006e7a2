package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	dashboardmemory "github.com/farmart-ke/farmart-api/internal/domains/dashboard/adapters/memory"
	dashboardpostgres "github.com/farmart-ke/farmart-api/internal/domains/dashboard/adapters/persistence/postgres"
	dashboardapp "github.com/farmart-ke/farmart-api/internal/domains/dashboard/application"
	dashboardports "github.com/farmart-ke/farmart-api/internal/domains/dashboard/ports"
	listingsmemory "github.com/farmart-ke/farmart-api/internal/domains/listings/adapters/memory"
	listingspostgres "github.com/farmart-ke/farmart-api/internal/domains/listings/adapters/persistence/postgres"
	listingsapp "github.com/farmart-ke/farmart-api/internal/domains/listings/application"
	listingsports "github.com/farmart-ke/farmart-api/internal/domains/listings/ports"
	ordersmemory "github.com/farmart-ke/farmart-api/internal/domains/orders/adapters/memory"
	ordersobs "github.com/farmart-ke/farmart-api/internal/domains/orders/adapters/observability"
	orderspostgres "github.com/farmart-ke/farmart-api/internal/domains/orders/adapters/persistence/postgres"
	ordersapp "github.com/farmart-ke/farmart-api/internal/domains/orders/application"
	ordersports "github.com/farmart-ke/farmart-api/internal/domains/orders/ports"
	paymentscachememory "github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/cache/memory"
	paymentscacheredis "github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/cache/redis"
	paymentsmemory "github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/memory"
	"github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/mpesa"
	paymentsobs "github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/observability"
	paymentspostgres "github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/persistence/postgres"
	paymentsworkflows "github.com/farmart-ke/farmart-api/internal/domains/payments/adapters/workflows"
	paymentsapp "github.com/farmart-ke/farmart-api/internal/domains/payments/application"
	paymentsports "github.com/farmart-ke/farmart-api/internal/domains/payments/ports"
	usersmemory "github.com/farmart-ke/farmart-api/internal/domains/users/adapters/memory"
	userspostgres "github.com/farmart-ke/farmart-api/internal/domains/users/adapters/persistence/postgres"
	usersapp "github.com/farmart-ke/farmart-api/internal/domains/users/application"
	usersports "github.com/farmart-ke/farmart-api/internal/domains/users/ports"
	"github.com/farmart-ke/farmart-api/internal/httpapi"
	"github.com/farmart-ke/farmart-api/internal/platform/migrations"
	platformobservability "github.com/farmart-ke/farmart-api/internal/platform/observability"
	platformpostgres "github.com/farmart-ke/farmart-api/internal/platform/postgres"
	platformredis "github.com/farmart-ke/farmart-api/internal/platform/redis"
)

// Run boots the marketplace HTTP API with observability, repositories,
// and workflows wired.
func Run(ctx context.Context) error {
	const serviceName = "farmart-api"
	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	store, cleanupStore := buildStorage(ctx, cfg, logger)
	defer cleanupStore()

	var userOpts []usersapp.Option
	if cfg.SessionTTL > 0 {
		userOpts = append(userOpts, usersapp.WithSessionTTL(cfg.SessionTTL))
	}
	userService := usersapp.NewService(store.users, store.sessions, userOpts...)
	listingService := listingsapp.NewService(store.listings)

	orderService := ordersobs.New(
		ordersapp.NewCoordinator(store.ordersUow, store.orders),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	redisClient, cleanupRedis := platformredis.ConnectFromEnv(ctx, cfg.RedisAddr, logger)
	defer cleanupRedis()
	var tokenCache paymentsports.TokenCache = paymentscachememory.NewTokenCache()
	if redisClient != nil {
		tokenCache = paymentscacheredis.NewTokenCache(redisClient)
		logger.Info("mpesa token cache configured with redis")
	}
	if !cfg.MpesaConfigured() {
		logger.Warn("M-Pesa credentials not set, STK pushes will fail against the gateway")
	}
	stkClient := mpesa.NewClient(cfg.Mpesa, tokenCache)

	var pushOrchestrator paymentsports.PushOrchestrator = paymentsworkflows.NewInlinePushOrchestrator(stkClient)
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, running STK push inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		pushOrchestrator = paymentsworkflows.NewTemporalPushOrchestrator(temporalClient)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	paymentService := paymentsobs.New(
		paymentsapp.NewService(store.payments, store.orders, store.ordersUow, pushOrchestrator),
		paymentsobs.WithLogger(logger),
		paymentsobs.WithTracer(instruments.Tracer("internal.payments.application")),
		paymentsobs.WithMeter(instruments.Meter("internal.payments.application")),
	)
	dashboardService := dashboardapp.NewService(store.dashboard)

	handlers := httpapi.Handlers{
		Users:     httpapi.NewUserAPI(userService),
		Listings:  httpapi.NewListingAPI(listingService),
		Orders:    httpapi.NewOrderAPI(orderService),
		Payments:  httpapi.NewPaymentAPI(paymentService),
		Dashboard: httpapi.NewDashboardAPI(dashboardService),
	}
	router := httpapi.NewRouter(handlers, userService, otelgin.Middleware(serviceName))

	addr := ":" + cfg.Port
	logger.Info("farmart API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("farmart API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

// storage bundles the persistence ports the services consume.
type storage struct {
	users     usersports.Repository
	sessions  usersports.SessionStore
	listings  listingsports.Repository
	orders    ordersports.Repository
	ordersUow ordersports.UnitOfWork
	payments  paymentsports.Repository
	dashboard dashboardports.Repository
}

// buildStorage wires Postgres-backed adapters, falling back to the
// coherent in-memory set when no database is configured.
func buildStorage(ctx context.Context, cfg Config, logger *slog.Logger) (storage, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory storage")
		return buildMemoryStorage(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return buildMemoryStorage(), func() {}
	}
	if err := migrations.Run(db); err != nil {
		logger.Warn("failed to run migrations, falling back to memory", slog.String("error", err.Error()))
		return buildMemoryStorage(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return buildMemoryStorage(), func() {}
	}
	logger.Info("storage configured with postgres")
	return storage{
		users:     userspostgres.NewRepository(db),
		sessions:  userspostgres.NewSessionStore(db),
		listings:  listingspostgres.NewRepository(db),
		orders:    orderspostgres.NewRepository(db),
		ordersUow: orderspostgres.NewUnitOfWork(db),
		payments:  paymentspostgres.NewRepository(db),
		dashboard: dashboardpostgres.NewRepository(db),
	}, func() { _ = sqlDB.Close() }
}

// buildMemoryStorage shares one listings repository between the listing
// service and the order unit of work so dev-mode stock stays coherent.
func buildMemoryStorage() storage {
	listings := listingsmemory.NewRepository()
	orders := ordersmemory.NewStore(listings)
	return storage{
		users:     usersmemory.NewRepository(),
		sessions:  usersmemory.NewSessionStore(),
		listings:  listings,
		orders:    orders,
		ordersUow: orders,
		payments:  paymentsmemory.NewRepository(),
		dashboard: dashboardmemory.NewRepository(orders, listings),
	}
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	if cfg.TemporalDisabled {
		return nil, errors.New("temporal disabled via TEMPORAL_DISABLED env")
	}
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	logger := workerlog.NewStructuredLogger(effectiveLogger(instruments))
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    logger,
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func effectiveLogger(instruments *platformobservability.Instruments) *slog.Logger {
	if instruments != nil && instruments.Logger != nil {
		return instruments.Logger
	}
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}
