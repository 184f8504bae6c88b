package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loziogigio/vinc-pim-sub014/internal/shared/money"
)

// AdjustmentType names the supported line price mutations.
type AdjustmentType string

const (
	AdjustmentPriceOverride      AdjustmentType = "price_override"
	AdjustmentDiscountPercentage AdjustmentType = "discount_percentage"
	AdjustmentDiscountFixed      AdjustmentType = "discount_fixed"
)

// ErrUnknownAdjustmentType rejects adjustment types outside the vocabulary.
var ErrUnknownAdjustmentType = errors.New("unknown adjustment type")

// Known reports whether the type belongs to the vocabulary.
func (t AdjustmentType) Known() bool {
	switch t {
	case AdjustmentPriceOverride, AdjustmentDiscountPercentage, AdjustmentDiscountFixed:
		return true
	default:
		return false
	}
}

// Adjustment is one immutable entry in a line's price audit trail. Records are
// appended and removed whole, never edited in place.
type Adjustment struct {
	ID          string
	Type        AdjustmentType
	NewValue    decimal.Decimal
	Reason      string
	Description string
	AppliedBy   string
	AppliedAt   time.Time
}

// ApplyAdjustment appends the record and recomputes the unit price from the
// full chain. The caller recalculates order totals afterwards.
func (l *LineItem) ApplyAdjustment(adj Adjustment) error {
	if !adj.Type.Known() {
		return ErrUnknownAdjustmentType
	}
	l.Adjustments = append(l.Adjustments, adj)
	l.UnitPrice = l.replayUnitPrice()
	return nil
}

// RemoveAdjustment deletes the record with the given id and replays the
// remaining chain from the list price. Replaying, rather than restoring the
// previous value, keeps removal of a middle record well-defined.
func (l *LineItem) RemoveAdjustment(adjustmentID string) error {
	idx := -1
	for i := range l.Adjustments {
		if l.Adjustments[i].ID == adjustmentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrAdjustmentNotFound
	}
	l.Adjustments = append(l.Adjustments[:idx], l.Adjustments[idx+1:]...)
	l.UnitPrice = l.replayUnitPrice()
	return nil
}

// replayUnitPrice folds the adjustment chain over the immutable list price.
// Last applied wins; each step derives from the list price, never from the
// running value, so the chain has no order-of-operations surprises beyond
// its own sequence.
func (l *LineItem) replayUnitPrice() decimal.Decimal {
	unit := l.ListPrice
	for _, adj := range l.Adjustments {
		switch adj.Type {
		case AdjustmentPriceOverride:
			unit = money.Round2(adj.NewValue)
		case AdjustmentDiscountPercentage:
			unit = money.Round2(l.ListPrice.Mul(decimal.NewFromInt(1).Sub(adj.NewValue.Div(decimal.NewFromInt(100)))))
		case AdjustmentDiscountFixed:
			unit = money.Round2(decimal.Max(money.Zero, l.ListPrice.Sub(adj.NewValue)))
		}
	}
	return unit
}
