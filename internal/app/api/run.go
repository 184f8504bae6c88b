package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"gorm.io/gorm"

	bookingevents "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/adapters/events"
	bookingmemory "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/adapters/memory"
	bookingobs "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/adapters/observability"
	bookingpostgres "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/adapters/persistence/postgres"
	bookingworkflows "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/adapters/workflows"
	bookingapp "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/application"
	bookingports "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/ports"
	orderevents "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/adapters/events"
	ordermemory "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/adapters/memory"
	orderobs "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/adapters/persistence/postgres"
	orderredis "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/adapters/persistence/redis"
	orderapp "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/application"
	orderports "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/ports"
	"github.com/loziogigio/vinc-pim-sub014/internal/platform/migrations"
	platformobservability "github.com/loziogigio/vinc-pim-sub014/internal/platform/observability"
	platformpostgres "github.com/loziogigio/vinc-pim-sub014/internal/platform/postgres"
	"github.com/loziogigio/vinc-pim-sub014/internal/platform/sweeper"
	transport "github.com/loziogigio/vinc-pim-sub014/internal/transport/http"
)

// Run boots the lifecycle engine HTTP API with observability, repositories,
// the hold sweep, and durable expiry timers wired.
func Run(ctx context.Context) error {
	const serviceName = "lifecycle-api"
	cfg, err := LoadConfig()
	if err != nil {
		return err
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

	db, cleanupDB := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanupDB()
	if db != nil {
		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	idemStore, cleanupIdem := buildIdempotencyStore(ctx, cfg, db, logger)
	defer cleanupIdem()
	coreOrders := orderapp.NewService(
		buildOrderRepository(db, logger),
		orderapp.WithIdempotencyStore(idemStore),
		orderapp.WithPublisher(orderevents.NewSlogPublisher(logger)),
	)
	orderService := orderobs.New(
		coreOrders,
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	bookingRepo, departureRepo := buildBookingRepositories(db, logger)
	var expiry bookingports.HoldExpiryOrchestrator = bookingworkflows.NewSweepOnlyHoldExpiry()
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal unavailable, hold expiry relies on the sweep alone", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		expiry = bookingworkflows.NewTemporalHoldExpiry(temporalClient)
		logger.Info("durable hold expiry enabled", slog.String("namespace", cfg.TemporalNamespace))
	}
	coreBookings := bookingapp.NewService(
		bookingRepo,
		departureRepo,
		bookingapp.WithPublisher(bookingevents.NewSlogPublisher(logger)),
		bookingapp.WithExpiryOrchestrator(expiry),
		bookingapp.WithHoldTTL(cfg.HoldTTL),
	)
	bookingService := bookingobs.New(
		coreBookings,
		bookingobs.WithLogger(logger),
		bookingobs.WithTracer(instruments.Tracer("internal.bookings.application")),
		bookingobs.WithMeter(instruments.Meter("internal.bookings.application")),
	)

	sweepOpts := []sweeper.Option{sweeper.WithLogger(logger)}
	if cfg.SweepInterval > 0 {
		sweepOpts = append(sweepOpts, sweeper.WithInterval(cfg.SweepInterval))
	}
	holdSweeper, err := sweeper.New(bookingService.ExpireDueHolds, sweepOpts...)
	if err != nil {
		return fmt.Errorf("failed to build hold sweeper: %w", err)
	}
	if err := holdSweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start hold sweeper: %w", err)
	}
	defer func() {
		if err := holdSweeper.Stop(); err != nil {
			logger.Warn("hold sweeper shutdown failed", slog.String("error", err.Error()))
		}
	}()

	handlers := transport.NewHandlers(orderService, bookingService)
	router := transport.NewRouter(handlers, otelgin.Middleware(serviceName))
	addr := ":" + cfg.Port
	logger.Info("lifecycle API listening", slog.String("addr", addr))
	if err := router.Run(addr); err != nil {
		logger.Error("lifecycle API server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildOrderRepository(db *gorm.DB, logger *slog.Logger) orderports.Repository {
	if db == nil {
		return ordermemory.NewRepository()
	}
	logger.Info("order repository configured with postgres")
	return orderpostgres.NewRepository(db)
}

func buildBookingRepositories(db *gorm.DB, logger *slog.Logger) (bookingports.BookingRepository, bookingports.DepartureRepository) {
	if db == nil {
		return bookingmemory.NewBookingRepository(), bookingmemory.NewDepartureRepository()
	}
	logger.Info("booking repositories configured with postgres")
	return bookingpostgres.NewBookingRepository(db), bookingpostgres.NewDepartureRepository(db)
}

// buildIdempotencyStore prefers Redis, then Postgres, then memory.
func buildIdempotencyStore(ctx context.Context, cfg Config, db *gorm.DB, logger *slog.Logger) (orderports.IdempotencyStore, func()) {
	if cfg.RedisAddr != "" {
		store := orderredis.NewIdempotencyStore(cfg.RedisAddr, orderredis.DefaultKeyTTL)
		if err := store.Ping(ctx); err != nil {
			logger.Warn("redis unavailable for idempotency keys", slog.String("error", err.Error()))
			_ = store.Close()
		} else {
			logger.Info("payment idempotency store configured with redis")
			return store, func() { _ = store.Close() }
		}
	}
	if db != nil {
		logger.Info("payment idempotency store configured with postgres")
		return orderpostgres.NewIdempotencyStore(db), func() {}
	}
	return ordermemory.NewIdempotencyStore(), func() {}
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
	options := client.Options{
		HostPort:  cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Logger:    workerlog.NewStructuredLogger(instruments.Logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}
