package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/ports"
)

var _ ports.BookingRepository = (*BookingRepository)(nil)

// BookingRepository persists bookings in PostgreSQL using GORM. The version
// column backs the optimistic-concurrency contract of the port.
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository wires a PostgreSQL-backed booking repository.
func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingRecord struct {
	ID            string    `gorm:"primaryKey;column:id;type:varchar(64)"`
	TenantID      string    `gorm:"column:tenant_id;type:varchar(64);index"`
	OrderID       string    `gorm:"column:order_id;type:varchar(64);index"`
	DepartureID   string    `gorm:"column:departure_id;type:varchar(64);index"`
	ResourceType  string    `gorm:"column:resource_type;type:varchar(32)"`
	UnitsHeld     int       `gorm:"column:units_held"`
	Status        string    `gorm:"column:status;type:varchar(32);index:idx_bookings_status_expiry"`
	CancelReason  string    `gorm:"column:cancel_reason"`
	HeldAt        time.Time `gorm:"column:held_at"`
	HoldExpiresAt time.Time `gorm:"column:hold_expires_at;index:idx_bookings_status_expiry"`
	Version       int64     `gorm:"column:version"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (bookingRecord) TableName() string { return "bookings" }

// Create inserts a fresh booking at version 1.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, errors.New("booking is nil")
	}
	if err := booking.Validate(); err != nil {
		return nil, err
	}
	record := toBookingRecord(booking)
	record.Version = 1
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches a booking scoped to the tenant.
func (r *BookingRepository) GetByID(ctx context.Context, tenantID, bookingID string) (*domain.Booking, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record bookingRecord
	err := r.db.WithContext(ctx).
		First(&record, "id = ? AND tenant_id = ?", bookingID, tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrBookingNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// UpdateVersioned writes the row iff the stored version still matches the
// caller's, bumping it by one.
func (r *BookingRepository) UpdateVersioned(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, errors.New("booking is nil")
	}
	record := toBookingRecord(booking)
	record.Version = booking.Version + 1
	result := r.db.WithContext(ctx).
		Model(&bookingRecord{}).
		Where("id = ? AND tenant_id = ? AND version = ?", booking.ID, booking.TenantID, booking.Version).
		Select("*").Omit("id", "tenant_id", "created_at").
		Updates(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, booking.TenantID, booking.ID); err != nil {
			return nil, err
		}
		return nil, ports.ErrVersionConflict
	}
	return r.GetByID(ctx, booking.TenantID, booking.ID)
}

// ListLapsedHolds returns held bookings past their expiry across all tenants,
// oldest expiry first. A non-positive limit means no limit.
func (r *BookingRepository) ListLapsedHolds(ctx context.Context, now time.Time, limit int) ([]*domain.Booking, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).
		Where("status = ? AND hold_expires_at <= ?", string(domain.StatusHeld), now).
		Order("hold_expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var records []bookingRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	bookings := make([]*domain.Booking, 0, len(records))
	for _, record := range records {
		bookings = append(bookings, record.toDomain())
	}
	return bookings, nil
}

func (r *BookingRepository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres booking repository not configured")
	}
	return nil
}

func toBookingRecord(booking *domain.Booking) bookingRecord {
	return bookingRecord{
		ID:            booking.ID,
		TenantID:      booking.TenantID,
		OrderID:       booking.OrderID,
		DepartureID:   booking.DepartureID,
		ResourceType:  booking.ResourceType,
		UnitsHeld:     booking.UnitsHeld,
		Status:        string(booking.Status),
		CancelReason:  booking.CancelReason,
		HeldAt:        booking.HeldAt,
		HoldExpiresAt: booking.HoldExpiresAt,
		Version:       booking.Version,
		CreatedAt:     booking.CreatedAt,
		UpdatedAt:     booking.UpdatedAt,
	}
}

func (rec bookingRecord) toDomain() *domain.Booking {
	return &domain.Booking{
		ID:            rec.ID,
		TenantID:      rec.TenantID,
		OrderID:       rec.OrderID,
		DepartureID:   rec.DepartureID,
		ResourceType:  rec.ResourceType,
		UnitsHeld:     rec.UnitsHeld,
		Status:        domain.Status(rec.Status),
		CancelReason:  rec.CancelReason,
		HeldAt:        rec.HeldAt,
		HoldExpiresAt: rec.HoldExpiresAt,
		Version:       rec.Version,
		CreatedAt:     rec.CreatedAt,
		UpdatedAt:     rec.UpdatedAt,
	}
}
