package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"
	"gorm.io/gorm"

	bookingevents "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/adapters/events"
	bookingmemory "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/adapters/memory"
	bookingpostgres "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/adapters/persistence/postgres"
	bookingapp "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/application"
	bookingports "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/ports"
	platformobservability "github.com/loziogigio/vinc-pim-sub014/internal/platform/observability"
	platformpostgres "github.com/loziogigio/vinc-pim-sub014/internal/platform/postgres"
	bookingactivities "github.com/loziogigio/vinc-pim-sub014/internal/platform/temporal/activities/bookings"
	bookingworkflows "github.com/loziogigio/vinc-pim-sub014/internal/platform/temporal/workflows/bookings"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	const serviceName = "lifecycle-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
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
	bookingRepo, departureRepo := buildBookingRepositories(db, logger)

	// The worker only drives expiry, so the sweep-free service is enough.
	bookingService := bookingapp.NewService(
		bookingRepo,
		departureRepo,
		bookingapp.WithPublisher(bookingevents.NewSlogPublisher(logger)),
	)
	activities := bookingactivities.NewActivities(bookingService)

	tracerOptions := temporalotel.TracerOptions{Tracer: instruments.Tracer("temporal-worker")}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		logger.Error("failed to configure Temporal tracing interceptor", slog.String("error", err.Error()))
		os.Exit(1)
	}
	clientOptions := client.Options{
		HostPort:  envOrDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		Namespace: envOrDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	clientOptions.Interceptors = append(clientOptions.Interceptors, tracingInterceptor)
	temporalClient, err := client.Dial(clientOptions)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, bookingworkflows.HoldExpiryTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(bookingworkflows.HoldExpiryWorkflow, workflow.RegisterOptions{Name: bookingworkflows.HoldExpiryWorkflowName})
	w.RegisterActivityWithOptions(activities.ExpireHold, activity.RegisterOptions{Name: bookingactivities.ExpireHoldActivityName})

	logger.Info("worker listening", slog.String("taskQueue", bookingworkflows.HoldExpiryTaskQueue), slog.String("namespace", clientOptions.Namespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}

func buildBookingRepositories(db *gorm.DB, logger *slog.Logger) (bookingports.BookingRepository, bookingports.DepartureRepository) {
	if db == nil {
		logger.Warn("POSTGRES_DSN not set, worker using in-memory booking repositories")
		return bookingmemory.NewBookingRepository(), bookingmemory.NewDepartureRepository()
	}
	logger.Info("worker booking repositories configured with postgres")
	return bookingpostgres.NewBookingRepository(db), bookingpostgres.NewDepartureRepository(db)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
