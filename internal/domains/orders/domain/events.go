package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is the base interface for all order domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time
	TenantID  string
	OrderID   string
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderTransitioned is raised when an order changes status.
type OrderTransitioned struct {
	BaseEvent
	From    Status
	To      Status
	ActorID string
}

// EventName returns the event type identifier.
func (e OrderTransitioned) EventName() string {
	return "orders.order.transitioned"
}

// OrderDuplicated is raised when a clone-as-new-draft is created.
type OrderDuplicated struct {
	BaseEvent
	SourceOrderID string
	ActorID       string
}

// EventName returns the event type identifier.
func (e OrderDuplicated) EventName() string {
	return "orders.order.duplicated"
}

// PaymentRecorded is raised when a payment lands on the ledger.
type PaymentRecorded struct {
	BaseEvent
	PaymentID     string
	Amount        decimal.Decimal
	Confirmed     bool
	PaymentStatus PaymentStatus
}

// EventName returns the event type identifier.
func (e PaymentRecorded) EventName() string {
	return "orders.payment.recorded"
}

// LineAdjusted is raised when a line adjustment is applied or removed.
type LineAdjusted struct {
	BaseEvent
	LineNumber   int
	AdjustmentID string
	Type         AdjustmentType
	Removed      bool
	UnitPrice    decimal.Decimal
}

// EventName returns the event type identifier.
func (e LineAdjusted) EventName() string {
	return "orders.line.adjusted"
}
