package ports

import (
	"context"

	"github.com/shopspring/decimal"

	ordertypes "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/application/types"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"
)

// Service exposes the order lifecycle, line adjustment, and payment ledger use
// cases. Every call carries the actor context explicitly; a rejected operation
// returns the untouched aggregate state via its error, never a partial write.
type Service interface {
	CreateOrder(ctx context.Context, act actor.Context, input ordertypes.CreateOrderInput) (*domain.Order, error)
	GetOrder(ctx context.Context, act actor.Context, orderID string) (*domain.Order, error)
	Transition(ctx context.Context, act actor.Context, orderID string, to domain.Status) (*domain.Order, error)
	Duplicate(ctx context.Context, act actor.Context, orderID string, opts domain.DuplicateOptions) (*domain.Order, error)

	AddLine(ctx context.Context, act actor.Context, orderID string, input ordertypes.LineInput) (*domain.Order, error)
	UpdateLineQuantity(ctx context.Context, act actor.Context, orderID string, lineNumber, quantity int) (*domain.Order, error)
	RemoveLine(ctx context.Context, act actor.Context, orderID string, lineNumber int) (*domain.Order, error)
	SetShippingCost(ctx context.Context, act actor.Context, orderID string, amount decimal.Decimal) (*domain.Order, error)

	AddLineAdjustment(ctx context.Context, act actor.Context, orderID string, lineNumber int, input ordertypes.AdjustmentInput) (*domain.Order, error)
	RemoveLineAdjustment(ctx context.Context, act actor.Context, orderID, adjustmentID string) (*domain.Order, error)

	RecordPayment(ctx context.Context, act actor.Context, orderID string, input ordertypes.PaymentInput) (*domain.Order, error)
	EditPayment(ctx context.Context, act actor.Context, orderID, paymentID string, patch ordertypes.PaymentPatch) (*domain.Order, error)
	DeletePayment(ctx context.Context, act actor.Context, orderID, paymentID string) (*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, act actor.Context, orderID string, status domain.PaymentStatus) (*domain.Order, error)
}
