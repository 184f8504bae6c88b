package migrations

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace
// adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&orderRecord{},
		&idempotencyRecord{},
		&bookingRecord{},
		&departureRecord{},
	)
}

// Order schema mirrors the orders Postgres adapter. Lines, payments, and
// status history travel as JSON; line_skus is a denormalized text[] index.
type orderRecord struct {
	ID                string          `gorm:"primaryKey;column:id;type:varchar(64)"`
	TenantID          string          `gorm:"column:tenant_id;type:varchar(64);index:idx_orders_tenant_customer"`
	CustomerID        string          `gorm:"column:customer_id;type:varchar(64);index:idx_orders_tenant_customer"`
	Status            string          `gorm:"column:status;type:varchar(32);index"`
	IsCurrent         bool            `gorm:"column:is_current"`
	Notes             string          `gorm:"column:notes"`
	Items             string          `gorm:"column:items;type:jsonb"`
	LineSKUs          pq.StringArray  `gorm:"column:line_skus;type:text[];index:idx_orders_line_skus,type:gin"`
	ShippingCost      decimal.Decimal `gorm:"column:shipping_cost;type:decimal(18,2)"`
	SubtotalGross     decimal.Decimal `gorm:"column:subtotal_gross;type:decimal(18,2)"`
	SubtotalNet       decimal.Decimal `gorm:"column:subtotal_net;type:decimal(18,2)"`
	TotalDiscount     decimal.Decimal `gorm:"column:total_discount;type:decimal(18,2)"`
	TotalVAT          decimal.Decimal `gorm:"column:total_vat;type:decimal(18,2)"`
	OrderTotal        decimal.Decimal `gorm:"column:order_total;type:decimal(18,2)"`
	PaymentStatus     string          `gorm:"column:payment_status;type:varchar(32)"`
	PaymentOverridden bool            `gorm:"column:payment_overridden"`
	AmountDue         decimal.Decimal `gorm:"column:amount_due;type:decimal(18,2)"`
	AmountPaid        decimal.Decimal `gorm:"column:amount_paid;type:decimal(18,2)"`
	AmountRemaining   decimal.Decimal `gorm:"column:amount_remaining;type:decimal(18,2)"`
	Payments          string          `gorm:"column:payments;type:jsonb"`
	History           string          `gorm:"column:history;type:jsonb"`
	Version           int64           `gorm:"column:version"`
	CreatedAt         time.Time       `gorm:"column:created_at;index"`
	UpdatedAt         time.Time       `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// Idempotency schema mirrors the payment idempotency store.
type idempotencyRecord struct {
	Key         string    `gorm:"primaryKey;column:key;type:varchar(128)"`
	RequestHash string    `gorm:"column:request_hash;type:varchar(64)"`
	OrderID     string    `gorm:"column:order_id;type:varchar(64);index"`
	PaymentID   string    `gorm:"column:payment_id;type:varchar(64)"`
	CreatedAt   time.Time `gorm:"column:created_at"`
}

func (idempotencyRecord) TableName() string { return "payment_idempotency_keys" }

// Booking schema mirrors the bookings Postgres adapter. The composite
// status/expiry index backs the lapsed-hold sweep.
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

// Departure schema mirrors the bookings Postgres adapter.
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
