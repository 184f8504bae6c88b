package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/ports"
)

var _ ports.DepartureRepository = (*DepartureRepository)(nil)

// DepartureRepository persists departures in PostgreSQL using GORM.
type DepartureRepository struct {
	db *gorm.DB
}

// NewDepartureRepository wires a PostgreSQL-backed departure repository.
func NewDepartureRepository(db *gorm.DB) *DepartureRepository {
	return &DepartureRepository{db: db}
}

type departureRecord struct {
	ID                string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	TenantID          string    `gorm:"column:tenant_id;type:varchar(64);index"`
	Name              string    `gorm:"column:name"`
	DepartsAt         time.Time `gorm:"column:departs_at;index"`
	Status            string    `gorm:"column:status;type:varchar(32)"`
	CapacityTotal     int       `gorm:"column:capacity_total"`
	CapacityHeld      int       `gorm:"column:capacity_held"`
	CapacityConfirmed int       `gorm:"column:capacity_confirmed"`
	Version           int64     `gorm:"column:version"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (departureRecord) TableName() string { return "departures" }

// Create inserts a fresh departure at version 1.
func (r *DepartureRepository) Create(ctx context.Context, departure *domain.Departure) (*domain.Departure, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if departure == nil {
		return nil, errors.New("departure is nil")
	}
	record := toDepartureRecord(departure)
	record.Version = 1
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches a departure scoped to the tenant.
func (r *DepartureRepository) GetByID(ctx context.Context, tenantID, departureID string) (*domain.Departure, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record departureRecord
	err := r.db.WithContext(ctx).
		First(&record, "id = ? AND tenant_id = ?", departureID, tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrDepartureNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// UpdateVersioned writes the row iff the stored version still matches the
// caller's, bumping it by one. The capacity invariant rides on this: two
// concurrent capacity checks cannot both commit against the same version.
func (r *DepartureRepository) UpdateVersioned(ctx context.Context, departure *domain.Departure) (*domain.Departure, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if departure == nil {
		return nil, errors.New("departure is nil")
	}
	record := toDepartureRecord(departure)
	record.Version = departure.Version + 1
	result := r.db.WithContext(ctx).
		Model(&departureRecord{}).
		Where("id = ? AND tenant_id = ? AND version = ?", departure.ID, departure.TenantID, departure.Version).
		Select("*").Omit("id", "tenant_id", "created_at").
		Updates(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, departure.TenantID, departure.ID); err != nil {
			return nil, err
		}
		return nil, ports.ErrVersionConflict
	}
	return r.GetByID(ctx, departure.TenantID, departure.ID)
}

func (r *DepartureRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres departure repository not configured")
	}
	return nil
}

func toDepartureRecord(departure *domain.Departure) departureRecord {
	return departureRecord{
		ID:                departure.ID,
		TenantID:          departure.TenantID,
		Name:              departure.Name,
		DepartsAt:         departure.DepartsAt,
		Status:            string(departure.Status),
		CapacityTotal:     departure.CapacityTotal,
		CapacityHeld:      departure.CapacityHeld,
		CapacityConfirmed: departure.CapacityConfirmed,
		Version:           departure.Version,
		CreatedAt:         departure.CreatedAt,
		UpdatedAt:         departure.UpdatedAt,
	}
}

func (rec departureRecord) toDomain() *domain.Departure {
	return &domain.Departure{
		ID:                rec.ID,
		TenantID:          rec.TenantID,
		Name:              rec.Name,
		DepartsAt:         rec.DepartsAt,
		Status:            domain.DepartureStatus(rec.Status),
		CapacityTotal:     rec.CapacityTotal,
		CapacityHeld:      rec.CapacityHeld,
		CapacityConfirmed: rec.CapacityConfirmed,
		Version:           rec.Version,
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}
