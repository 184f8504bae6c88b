//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	bookingspostgres "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/adapters/persistence/postgres"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/ports"
	"github.com/loziogigio/vinc-pim-sub014/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("lifecycle_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedHold(t *testing.T, id string, ttl time.Duration, now time.Time) *domain.Booking {
	t.Helper()
	booking, err := domain.NewHold(id, "tenant-a", "ord-1", "dep-1", "seat", 2, ttl, now)
	require.NoError(t, err)
	return booking
}

func TestBookingRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := bookingspostgres.NewBookingRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, seedHold(t, "b-1", 30*time.Minute, time.Now()))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	retrieved, err := repo.GetByID(ctx, "tenant-a", "b-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusHeld, retrieved.Status)
	assert.Equal(t, 2, retrieved.UnitsHeld)

	_, err = repo.GetByID(ctx, "tenant-b", "b-1")
	assert.ErrorIs(t, err, ports.ErrBookingNotFound)
}

func TestBookingRepository_UpdateVersioned(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := bookingspostgres.NewBookingRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, seedHold(t, "b-1", 30*time.Minute, time.Now()))
	require.NoError(t, err)

	created.Status = domain.StatusConfirmed
	updated, err := repo.UpdateVersioned(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	// The stale copy loses the race.
	created.Status = domain.StatusCancelled
	_, err = repo.UpdateVersioned(ctx, created)
	assert.ErrorIs(t, err, ports.ErrVersionConflict)
}

func TestBookingRepository_ListLapsedHolds(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := bookingspostgres.NewBookingRepository(db)
	ctx := context.Background()
	now := time.Now()

	// Two lapsed holds, one live hold, one confirmed booking.
	_, err := repo.Create(ctx, seedHold(t, "b-old-1", time.Minute, now.Add(-time.Hour)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, seedHold(t, "b-old-2", time.Minute, now.Add(-30*time.Minute)))
	require.NoError(t, err)
	_, err = repo.Create(ctx, seedHold(t, "b-live", time.Hour, now))
	require.NoError(t, err)
	confirmed := seedHold(t, "b-confirmed", time.Minute, now.Add(-time.Hour))
	confirmed.Status = domain.StatusConfirmed
	_, err = repo.Create(ctx, confirmed)
	require.NoError(t, err)

	lapsed, err := repo.ListLapsedHolds(ctx, now, 0)
	require.NoError(t, err)
	require.Len(t, lapsed, 2)
	// Oldest deadline first.
	assert.Equal(t, "b-old-1", lapsed[0].ID)
	assert.Equal(t, "b-old-2", lapsed[1].ID)

	limited, err := repo.ListLapsedHolds(ctx, now, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestDepartureRepository_RoundTripAndVersioning(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := bookingspostgres.NewDepartureRepository(db)
	ctx := context.Background()

	departure, err := domain.NewDeparture("dep-1", "tenant-a", "morning tour", time.Now().Add(48*time.Hour), 10, time.Now())
	require.NoError(t, err)
	departure.Status = domain.DepartureActive

	created, err := repo.Create(ctx, departure)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	require.NoError(t, created.Hold(4))
	updated, err := repo.UpdateVersioned(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, 4, updated.CapacityHeld)
	assert.Equal(t, int64(2), updated.Version)

	retrieved, err := repo.GetByID(ctx, "tenant-a", "dep-1")
	require.NoError(t, err)
	assert.Equal(t, 6, retrieved.Remaining())

	_, err = repo.GetByID(ctx, "tenant-b", "dep-1")
	assert.ErrorIs(t, err, ports.ErrDepartureNotFound)

	// Stale version write conflicts.
	created.CapacityHeld = 0
	_, err = repo.UpdateVersioned(ctx, created)
	assert.ErrorIs(t, err, ports.ErrVersionConflict)
}
