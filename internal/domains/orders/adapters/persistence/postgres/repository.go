package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Embedded collections
// (lines, payments, history) travel as JSON columns; the version column backs
// the optimistic-concurrency contract of the port.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate to a relational table.
type orderRecord struct {
	ID                string                `gorm:"primaryKey;column:id;type:varchar(64)"`
	TenantID          string                `gorm:"column:tenant_id;type:varchar(64);index:idx_orders_tenant_customer"`
	CustomerID        string                `gorm:"column:customer_id;type:varchar(64);index:idx_orders_tenant_customer"`
	Status            string                `gorm:"column:status;type:varchar(32);index"`
	IsCurrent         bool                  `gorm:"column:is_current"`
	Notes             string                `gorm:"column:notes"`
	Items             []domain.LineItem     `gorm:"column:items;serializer:json"`
	LineSKUs          pq.StringArray        `gorm:"column:line_skus;type:text[];index:idx_orders_line_skus,type:gin"`
	ShippingCost      decimal.Decimal       `gorm:"column:shipping_cost;type:decimal(18,2)"`
	SubtotalGross     decimal.Decimal       `gorm:"column:subtotal_gross;type:decimal(18,2)"`
	SubtotalNet       decimal.Decimal       `gorm:"column:subtotal_net;type:decimal(18,2)"`
	TotalDiscount     decimal.Decimal       `gorm:"column:total_discount;type:decimal(18,2)"`
	TotalVAT          decimal.Decimal       `gorm:"column:total_vat;type:decimal(18,2)"`
	OrderTotal        decimal.Decimal       `gorm:"column:order_total;type:decimal(18,2)"`
	PaymentStatus     string                `gorm:"column:payment_status;type:varchar(32)"`
	PaymentOverridden bool                  `gorm:"column:payment_overridden"`
	AmountDue         decimal.Decimal       `gorm:"column:amount_due;type:decimal(18,2)"`
	AmountPaid        decimal.Decimal       `gorm:"column:amount_paid;type:decimal(18,2)"`
	AmountRemaining   decimal.Decimal       `gorm:"column:amount_remaining;type:decimal(18,2)"`
	Payments          []domain.Payment      `gorm:"column:payments;serializer:json"`
	History           []domain.StatusChange `gorm:"column:history;serializer:json"`
	Version           int64                 `gorm:"column:version"`
	CreatedAt         time.Time             `gorm:"column:created_at;index"`
	UpdatedAt         time.Time             `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Create inserts a fresh aggregate at version 1.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(order)
	record.Version = 1
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

// GetByID fetches an order scoped to the tenant.
func (r *Repository) GetByID(ctx context.Context, tenantID, orderID string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).
		First(&record, "id = ? AND tenant_id = ?", orderID, tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// UpdateVersioned writes the row iff the stored version still matches the
// caller's, bumping it by one. A zero row count means someone else won.
func (r *Repository) UpdateVersioned(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	record.Version = order.Version + 1
	result := r.db.WithContext(ctx).
		Model(&orderRecord{}).
		Where("id = ? AND tenant_id = ? AND version = ?", order.ID, order.TenantID, order.Version).
		Select("*").Omit("id", "tenant_id", "created_at").
		Updates(&record)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// Distinguish a lost race from a missing row.
		if _, err := r.GetByID(ctx, order.TenantID, order.ID); err != nil {
			return nil, err
		}
		return nil, ports.ErrVersionConflict
	}
	return r.GetByID(ctx, order.TenantID, order.ID)
}

// FindCurrentDraft returns the customer's active cart, or nil when none.
func (r *Repository) FindCurrentDraft(ctx context.Context, tenantID, customerID string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).
		First(&record, "tenant_id = ? AND customer_id = ? AND is_current AND status = ?",
			tenantID, customerID, string(domain.StatusDraft)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	// line_skus is a denormalized index so orders can be found by SKU without
	// unpacking the JSON items column.
	skus := make(pq.StringArray, 0, len(order.Items))
	for _, item := range order.Items {
		skus = append(skus, item.SKU)
	}
	return orderRecord{
		ID:                order.ID,
		TenantID:          order.TenantID,
		CustomerID:        order.CustomerID,
		Status:            string(order.Status),
		IsCurrent:         order.IsCurrent,
		Notes:             order.Notes,
		Items:             order.Items,
		LineSKUs:          skus,
		ShippingCost:      order.ShippingCost,
		SubtotalGross:     order.SubtotalGross,
		SubtotalNet:       order.SubtotalNet,
		TotalDiscount:     order.TotalDiscount,
		TotalVAT:          order.TotalVAT,
		OrderTotal:        order.OrderTotal,
		PaymentStatus:     string(order.Payment.Status),
		PaymentOverridden: order.Payment.Overridden,
		AmountDue:         order.Payment.AmountDue,
		AmountPaid:        order.Payment.AmountPaid,
		AmountRemaining:   order.Payment.AmountRemaining,
		Payments:          order.Payment.Payments,
		History:           order.History,
		Version:           order.Version,
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
}

func (rec orderRecord) toDomain() *domain.Order {
	return &domain.Order{
		ID:            rec.ID,
		TenantID:      rec.TenantID,
		CustomerID:    rec.CustomerID,
		Status:        domain.Status(rec.Status),
		IsCurrent:     rec.IsCurrent,
		Notes:         rec.Notes,
		Items:         rec.Items,
		ShippingCost:  rec.ShippingCost,
		SubtotalGross: rec.SubtotalGross,
		SubtotalNet:   rec.SubtotalNet,
		TotalDiscount: rec.TotalDiscount,
		TotalVAT:      rec.TotalVAT,
		OrderTotal:    rec.OrderTotal,
		Payment: domain.PaymentLedger{
			Status:          domain.PaymentStatus(rec.PaymentStatus),
			Overridden:      rec.PaymentOverridden,
			AmountDue:       rec.AmountDue,
			AmountPaid:      rec.AmountPaid,
			AmountRemaining: rec.AmountRemaining,
			Payments:        rec.Payments,
		},
		History:   rec.History,
		Version:   rec.Version,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}
}
