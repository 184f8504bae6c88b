// Command hold-sweeper runs the recurring hold-expiry sweep as a standalone
// process, for deployments that don't keep the API's in-process sweep running.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	bookingevents "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/adapters/events"
	bookingpostgres "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/adapters/persistence/postgres"
	bookingapp "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/application"
	platformpostgres "github.com/loziogigio/vinc-pim-sub014/internal/platform/postgres"
	"github.com/loziogigio/vinc-pim-sub014/internal/platform/sweeper"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot sweep holds")
	}

	service := bookingapp.NewService(
		bookingpostgres.NewBookingRepository(db),
		bookingpostgres.NewDepartureRepository(db),
		bookingapp.WithPublisher(bookingevents.NewSlogPublisher(logger)),
	)

	opts := []sweeper.Option{sweeper.WithLogger(logger)}
	if raw := os.Getenv("SWEEP_INTERVAL_SECONDS"); raw != "" {
		seconds, err := strconv.Atoi(raw)
		if err != nil || seconds <= 0 {
			log.Fatalf("invalid SWEEP_INTERVAL_SECONDS %q", raw)
		}
		opts = append(opts, sweeper.WithInterval(time.Duration(seconds)*time.Second))
	}
	holdSweeper, err := sweeper.New(service.ExpireDueHolds, opts...)
	if err != nil {
		log.Fatalf("failed to build hold sweeper: %v", err)
	}
	if err := holdSweeper.Start(ctx); err != nil {
		log.Fatalf("failed to start hold sweeper: %v", err)
	}

	<-ctx.Done()
	if err := holdSweeper.Stop(); err != nil {
		logger.Warn("hold sweeper shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("hold sweeper stopped")
}
