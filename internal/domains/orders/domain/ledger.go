package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loziogigio/vinc-pim-sub014/internal/shared/money"
)

// PaymentStatus is the derived settlement state of an order's ledger.
type PaymentStatus string

const (
	PaymentNotRequired PaymentStatus = "not_required"
	PaymentAwaiting    PaymentStatus = "awaiting"
	PaymentPartial     PaymentStatus = "partial"
	PaymentPaid        PaymentStatus = "paid"
	PaymentFailed      PaymentStatus = "failed"
	PaymentRefunded    PaymentStatus = "refunded"
)

// ErrInvalidPaymentStatus rejects status values outside the vocabulary.
var ErrInvalidPaymentStatus = errors.New("invalid payment status")

// Known reports whether the status belongs to the vocabulary.
func (s PaymentStatus) Known() bool {
	switch s {
	case PaymentNotRequired, PaymentAwaiting, PaymentPartial, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	default:
		return false
	}
}

// Payment is one ledger record. Records are appended by RecordPayment; edits
// are reserved for clerical corrections and always recompute the ledger.
type Payment struct {
	ID         string
	Amount     decimal.Decimal
	Method     string
	Reference  string
	Notes      string
	Confirmed  bool
	RecordedAt time.Time
	RecordedBy string
}

// PaymentLedger tracks payments against an order. AmountPaid is always the sum
// of confirmed records; Status derives from (AmountPaid, AmountDue) except for
// manual overrides, which survive until the next ledger mutation.
type PaymentLedger struct {
	Status          PaymentStatus
	AmountDue       decimal.Decimal
	AmountPaid      decimal.Decimal
	AmountRemaining decimal.Decimal
	Payments        []Payment

	// Overridden marks a manual status write. Exported so persistence can carry it.
	Overridden bool
}

// NewPaymentLedger returns an empty awaiting ledger.
func NewPaymentLedger() PaymentLedger {
	return PaymentLedger{
		Status:          PaymentAwaiting,
		AmountDue:       money.Zero,
		AmountPaid:      money.Zero,
		AmountRemaining: money.Zero,
	}
}

// Record appends a payment. Amounts must be strictly positive.
func (pl *PaymentLedger) Record(p Payment) error {
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	p.Amount = money.Round2(p.Amount)
	pl.Payments = append(pl.Payments, p)
	pl.Overridden = false
	return nil
}

// Find returns the payment with the given id, or nil.
func (pl *PaymentLedger) Find(paymentID string) *Payment {
	for i := range pl.Payments {
		if pl.Payments[i].ID == paymentID {
			return &pl.Payments[i]
		}
	}
	return nil
}

// Edit applies a clerical correction to an existing record. This is the one
// place a financial record is mutated rather than appended; the caller
// recomputes the ledger in the same unit of work.
func (pl *PaymentLedger) Edit(paymentID string, patch func(*Payment)) error {
	p := pl.Find(paymentID)
	if p == nil {
		return ErrPaymentNotFound
	}
	patch(p)
	if !p.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	p.Amount = money.Round2(p.Amount)
	pl.Overridden = false
	return nil
}

// Delete removes the payment with the given id.
func (pl *PaymentLedger) Delete(paymentID string) error {
	for i := range pl.Payments {
		if pl.Payments[i].ID == paymentID {
			pl.Payments = append(pl.Payments[:i], pl.Payments[i+1:]...)
			pl.Overridden = false
			return nil
		}
	}
	return ErrPaymentNotFound
}

// Override writes the status manually, bypassing derivation once. A sticky
// not_required override survives recomputation until a payment is recorded;
// any other override lasts until the next ledger mutation.
func (pl *PaymentLedger) Override(status PaymentStatus) error {
	if !status.Known() {
		return ErrInvalidPaymentStatus
	}
	pl.Status = status
	pl.Overridden = true
	return nil
}

// Recompute re-derives paid/remaining from the confirmed records and, unless a
// manual override is in force, the status.
func (pl *PaymentLedger) Recompute(amountDue decimal.Decimal) {
	pl.AmountDue = money.Round2(amountDue)
	paid := money.Zero
	for i := range pl.Payments {
		if pl.Payments[i].Confirmed {
			paid = paid.Add(pl.Payments[i].Amount)
		}
	}
	pl.AmountPaid = money.Round2(paid)
	pl.AmountRemaining = pl.AmountDue.Sub(pl.AmountPaid)

	if pl.Overridden {
		// not_required stays sticky only while nothing has been paid.
		if pl.Status != PaymentNotRequired || pl.AmountPaid.IsZero() {
			return
		}
		pl.Overridden = false
	}
	pl.Status = deriveStatus(pl.AmountPaid, pl.AmountDue)
}

func deriveStatus(paid, due decimal.Decimal) PaymentStatus {
	remaining := due.Sub(paid)
	switch {
	case due.IsPositive() && remaining.LessThanOrEqual(money.Zero):
		return PaymentPaid
	case paid.IsPositive() && paid.LessThan(due):
		return PaymentPartial
	default:
		return PaymentAwaiting
	}
}
