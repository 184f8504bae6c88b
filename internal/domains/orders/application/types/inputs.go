// Package types holds the command inputs of the orders application layer.
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineInput describes one cart line to add.
type LineInput struct {
	SKU         string
	Description string
	Quantity    int
	ListPrice   decimal.Decimal
	VATRate     decimal.Decimal
}

// CreateOrderInput opens a new draft order.
type CreateOrderInput struct {
	CustomerID  string
	Notes       string
	MakeCurrent bool
	Lines       []LineInput
}

// AdjustmentInput describes a price adjustment for one line.
type AdjustmentInput struct {
	Type        string
	NewValue    decimal.Decimal
	Reason      string
	Description string
}

// PaymentInput records a payment against an order. Confirmed defaults to true
// when nil (pending bank transfers pass an explicit false). RecordedAt defaults
// to now. IdempotencyKey, when set, makes retries replay the original outcome.
type PaymentInput struct {
	Amount         decimal.Decimal
	Method         string
	Reference      string
	Notes          string
	Confirmed      *bool
	RecordedAt     *time.Time
	IdempotencyKey string
}

// PaymentPatch carries a partial clerical correction; nil fields are untouched.
type PaymentPatch struct {
	Amount     *decimal.Decimal
	Method     *string
	Reference  *string
	Notes      *string
	Confirmed  *bool
	RecordedAt *time.Time
}
