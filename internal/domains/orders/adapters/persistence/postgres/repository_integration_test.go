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

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	orderspostgres "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/adapters/persistence/postgres"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/ports"
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

func seedOrder(t *testing.T, id string) *domain.Order {
	t.Helper()
	order := domain.NewOrder(id, "tenant-a", "cust-1", time.Now())
	_, err := order.AddLine("SKU-1", "widget", 2, decimal.RequireFromString("25.00"), decimal.RequireFromString("22"))
	require.NoError(t, err)
	return order
}

func TestOrderRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, seedOrder(t, "ord-1"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	retrieved, err := repo.GetByID(ctx, "tenant-a", "ord-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, retrieved.Status)
	assert.Len(t, retrieved.Items, 1)
	assert.True(t, retrieved.OrderTotal.Equal(decimal.RequireFromString("61.00")))

	// Wrong tenant does not resolve.
	_, err = repo.GetByID(ctx, "tenant-b", "ord-1")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestOrderRepository_UpdateVersioned(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, seedOrder(t, "ord-1"))
	require.NoError(t, err)

	created.Notes = "updated"
	updated, err := repo.UpdateVersioned(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	// Saving the stale copy again must conflict.
	created.Notes = "stale write"
	_, err = repo.UpdateVersioned(ctx, created)
	assert.ErrorIs(t, err, ports.ErrVersionConflict)
}

func TestOrderRepository_PaymentsAndHistoryRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()

	order := seedOrder(t, "ord-1")
	require.NoError(t, order.Payment.Record(domain.Payment{
		ID: "pay-1", Amount: decimal.RequireFromString("30.00"), Method: "card", Confirmed: true,
	}))
	order.Recalculate()
	order.TransitionTo(domain.StatusPending, "sales-1", time.Now())

	created, err := repo.Create(ctx, order)
	require.NoError(t, err)

	retrieved, err := repo.GetByID(ctx, "tenant-a", created.ID)
	require.NoError(t, err)
	assert.Len(t, retrieved.Payment.Payments, 1)
	assert.True(t, retrieved.Payment.AmountPaid.Equal(decimal.RequireFromString("30.00")))
	assert.Equal(t, domain.PaymentPartial, retrieved.Payment.Status)
	require.Len(t, retrieved.History, 1)
	assert.Equal(t, domain.StatusDraft, retrieved.History[0].From)
}

func TestOrderRepository_FindCurrentDraft(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := orderspostgres.NewRepository(db)
	ctx := context.Background()

	none, err := repo.FindCurrentDraft(ctx, "tenant-a", "cust-1")
	require.NoError(t, err)
	assert.Nil(t, none)

	current := seedOrder(t, "ord-1")
	current.IsCurrent = true
	_, err = repo.Create(ctx, current)
	require.NoError(t, err)

	found, err := repo.FindCurrentDraft(ctx, "tenant-a", "cust-1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "ord-1", found.ID)
}

func TestIdempotencyStore_SaveAndConflict(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	store := orderspostgres.NewIdempotencyStore(db)
	ctx := context.Background()

	missing, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.Nil(t, missing)

	record := ports.IdempotencyRecord{
		Key: "key-1", RequestHash: "hash-1", OrderID: "ord-1", PaymentID: "pay-1", CreatedAt: time.Now(),
	}
	saved, err := store.Save(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, "hash-1", saved.RequestHash)

	stored, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "pay-1", stored.PaymentID)

	// Same key with a different payload returns the stored record and a conflict.
	conflicting := record
	conflicting.RequestHash = "hash-2"
	existing, err := store.Save(ctx, conflicting)
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.NotNil(t, existing)
	assert.Equal(t, "hash-1", existing.RequestHash)
}
