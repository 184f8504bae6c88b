package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	ordertypes "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/application/types"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/ports"
	"github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"
)

// Service orchestrates the order lifecycle, line adjustments, and the payment
// ledger. Every mutation loads the aggregate, applies the change in memory,
// recalculates, and persists through one versioned save, so rejected
// operations never leave partial writes behind.
type Service struct {
	repo      ports.Repository
	idem      ports.IdempotencyStore
	publisher ports.Publisher
	now       func() time.Time
}

// Option customizes the service wiring.
type Option func(*Service)

// WithIdempotencyStore enables replay-safe payment recording.
func WithIdempotencyStore(store ports.IdempotencyStore) Option {
	return func(s *Service) { s.idem = store }
}

// WithPublisher injects the domain event publisher.
func WithPublisher(p ports.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the order application service.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

var _ ports.Service = (*Service)(nil)

// CreateOrder opens a new draft, optionally claiming the current-cart flag.
func (s *Service) CreateOrder(ctx context.Context, act actor.Context, input ordertypes.CreateOrderInput) (*domain.Order, error) {
	order := domain.NewOrder(uuid.NewString(), act.TenantID, input.CustomerID, s.now())
	order.Notes = input.Notes
	for _, line := range input.Lines {
		if _, err := order.AddLine(line.SKU, line.Description, line.Quantity, line.ListPrice, line.VATRate); err != nil {
			return nil, mapError(err)
		}
	}
	if input.MakeCurrent {
		if err := s.releaseCurrentDraft(ctx, act.TenantID, input.CustomerID); err != nil {
			return nil, err
		}
		order.IsCurrent = true
	}
	return s.repo.Create(ctx, order)
}

// GetOrder loads an order scoped to the actor's tenant.
func (s *Service) GetOrder(ctx context.Context, act actor.Context, orderID string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, act.TenantID, orderID)
}

// Transition moves the order to a new status when the table allows the edge
// for the actor's role. Totals are untouched; an audit entry is appended.
func (s *Service) Transition(ctx context.Context, act actor.Context, orderID string, to domain.Status) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, act.TenantID, orderID)
	if err != nil {
		return nil, err
	}
	from := order.Status
	if !domain.Transitions.Can(from, to, act.Role) {
		return nil, ErrInvalidTransition
	}
	order.TransitionTo(to, act.ActorID, s.now())
	saved, err := s.save(ctx, order)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.OrderTransitioned{
		BaseEvent: s.event(saved),
		From:      from,
		To:        to,
		ActorID:   act.ActorID,
	})
	return saved, nil
}

// Duplicate spawns a fresh draft from any order, regardless of its status.
// The source is never mutated.
func (s *Service) Duplicate(ctx context.Context, act actor.Context, orderID string, opts domain.DuplicateOptions) (*domain.Order, error) {
	source, err := s.repo.GetByID(ctx, act.TenantID, orderID)
	if err != nil {
		return nil, err
	}
	clone := source.Duplicate(uuid.NewString(), opts, s.now())
	created, err := s.repo.Create(ctx, clone)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.OrderDuplicated{
		BaseEvent:     s.event(created),
		SourceOrderID: source.ID,
		ActorID:       act.ActorID,
	})
	return created, nil
}

// AddLine appends a cart line while the order is editable.
func (s *Service) AddLine(ctx context.Context, act actor.Context, orderID string, input ordertypes.LineInput) (*domain.Order, error) {
	return s.modify(ctx, act, orderID, func(order *domain.Order) error {
		_, err := order.AddLine(input.SKU, input.Description, input.Quantity, input.ListPrice, input.VATRate)
		return err
	})
}

// UpdateLineQuantity changes a line's quantity while the order is editable.
func (s *Service) UpdateLineQuantity(ctx context.Context, act actor.Context, orderID string, lineNumber, quantity int) (*domain.Order, error) {
	return s.modify(ctx, act, orderID, func(order *domain.Order) error {
		return order.UpdateLineQuantity(lineNumber, quantity)
	})
}

// RemoveLine deletes a line while the order is editable.
func (s *Service) RemoveLine(ctx context.Context, act actor.Context, orderID string, lineNumber int) (*domain.Order, error) {
	return s.modify(ctx, act, orderID, func(order *domain.Order) error {
		return order.RemoveLine(lineNumber)
	})
}

// SetShippingCost updates the shipping amount while the order is editable.
func (s *Service) SetShippingCost(ctx context.Context, act actor.Context, orderID string, amount decimal.Decimal) (*domain.Order, error) {
	return s.modify(ctx, act, orderID, func(order *domain.Order) error {
		return order.SetShippingCost(amount)
	})
}

// AddLineAdjustment applies a price override or discount to one line, appends
// the audit record, and recomputes totals.
func (s *Service) AddLineAdjustment(ctx context.Context, act actor.Context, orderID string, lineNumber int, input ordertypes.AdjustmentInput) (*domain.Order, error) {
	adjType := domain.AdjustmentType(input.Type)
	if !adjType.Known() {
		return nil, mapError(domain.ErrUnknownAdjustmentType)
	}
	adj := domain.Adjustment{
		ID:          uuid.NewString(),
		Type:        adjType,
		NewValue:    input.NewValue,
		Reason:      input.Reason,
		Description: input.Description,
		AppliedBy:   act.ActorID,
		AppliedAt:   s.now(),
	}
	var adjusted *domain.LineItem
	order, err := s.modify(ctx, act, orderID, func(order *domain.Order) error {
		line := order.Line(lineNumber)
		if line == nil {
			return domain.ErrLineNotFound
		}
		if err := line.ApplyAdjustment(adj); err != nil {
			return err
		}
		adjusted = line
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.LineAdjusted{
		BaseEvent:    s.event(order),
		LineNumber:   lineNumber,
		AdjustmentID: adj.ID,
		Type:         adj.Type,
		UnitPrice:    adjusted.UnitPrice,
	})
	return order, nil
}

// RemoveLineAdjustment drops a record by id and replays the remaining chain.
func (s *Service) RemoveLineAdjustment(ctx context.Context, act actor.Context, orderID, adjustmentID string) (*domain.Order, error) {
	var lineNumber int
	var adjType domain.AdjustmentType
	order, err := s.modify(ctx, act, orderID, func(order *domain.Order) error {
		for i := range order.Items {
			line := &order.Items[i]
			for _, adj := range line.Adjustments {
				if adj.ID == adjustmentID {
					lineNumber = line.LineNumber
					adjType = adj.Type
					return line.RemoveAdjustment(adjustmentID)
				}
			}
		}
		return domain.ErrAdjustmentNotFound
	})
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.LineAdjusted{
		BaseEvent:    s.event(order),
		LineNumber:   lineNumber,
		AdjustmentID: adjustmentID,
		Type:         adjType,
		Removed:      true,
		UnitPrice:    order.Line(lineNumber).UnitPrice,
	})
	return order, nil
}

// RecordPayment appends a payment and re-derives the ledger. Payments are
// accepted in any order status: deposits land on quotations and balances on
// confirmed orders alike. With an idempotency key, retries replay the stored
// outcome instead of double-charging.
func (s *Service) RecordPayment(ctx context.Context, act actor.Context, orderID string, input ordertypes.PaymentInput) (*domain.Order, error) {
	fingerprint := ""
	if key := input.IdempotencyKey; key != "" && s.idem != nil {
		var err error
		fingerprint, err = FingerprintPayment(orderID, input)
		if err != nil {
			return nil, err
		}
		stored, err := s.idem.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if stored != nil {
			if stored.RequestHash != fingerprint || stored.OrderID != orderID {
				return nil, ports.ErrIdempotencyConflict
			}
			return s.repo.GetByID(ctx, act.TenantID, orderID)
		}
	}

	payment := domain.Payment{
		ID:         uuid.NewString(),
		Amount:     input.Amount,
		Method:     input.Method,
		Reference:  input.Reference,
		Notes:      input.Notes,
		Confirmed:  true,
		RecordedAt: s.now(),
		RecordedBy: act.ActorID,
	}
	if input.Confirmed != nil {
		payment.Confirmed = *input.Confirmed
	}
	if input.RecordedAt != nil {
		payment.RecordedAt = *input.RecordedAt
	}

	order, err := s.repo.GetByID(ctx, act.TenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Payment.Record(payment); err != nil {
		return nil, mapError(err)
	}
	order.Recalculate()
	saved, err := s.save(ctx, order)
	if err != nil {
		return nil, err
	}

	if fingerprint != "" {
		record := ports.IdempotencyRecord{
			Key:         input.IdempotencyKey,
			RequestHash: fingerprint,
			OrderID:     orderID,
			PaymentID:   payment.ID,
			CreatedAt:   s.now(),
		}
		if _, err := s.idem.Save(ctx, record); err != nil && !errors.Is(err, ports.ErrIdempotencyConflict) {
			return nil, err
		}
	}

	s.publish(ctx, domain.PaymentRecorded{
		BaseEvent:     s.event(saved),
		PaymentID:     payment.ID,
		Amount:        payment.Amount,
		Confirmed:     payment.Confirmed,
		PaymentStatus: saved.Payment.Status,
	})
	return saved, nil
}

// EditPayment corrects fields of an existing record. The edit and the ledger
// recomputation land in the same versioned save, so no intermediate state is
// ever visible.
func (s *Service) EditPayment(ctx context.Context, act actor.Context, orderID, paymentID string, patch ordertypes.PaymentPatch) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, act.TenantID, orderID)
	if err != nil {
		return nil, err
	}
	err = order.Payment.Edit(paymentID, func(p *domain.Payment) {
		if patch.Amount != nil {
			p.Amount = *patch.Amount
		}
		if patch.Method != nil {
			p.Method = *patch.Method
		}
		if patch.Reference != nil {
			p.Reference = *patch.Reference
		}
		if patch.Notes != nil {
			p.Notes = *patch.Notes
		}
		if patch.Confirmed != nil {
			p.Confirmed = *patch.Confirmed
		}
		if patch.RecordedAt != nil {
			p.RecordedAt = *patch.RecordedAt
		}
	})
	if err != nil {
		return nil, mapError(err)
	}
	order.Recalculate()
	return s.save(ctx, order)
}

// DeletePayment removes a record and re-derives the ledger.
func (s *Service) DeletePayment(ctx context.Context, act actor.Context, orderID, paymentID string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, act.TenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Payment.Delete(paymentID); err != nil {
		return nil, mapError(err)
	}
	order.Recalculate()
	return s.save(ctx, order)
}

// UpdatePaymentStatus manually overrides the derived status, e.g. marking a
// sample order not_required. The next ledger mutation re-derives normally.
func (s *Service) UpdatePaymentStatus(ctx context.Context, act actor.Context, orderID string, status domain.PaymentStatus) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, act.TenantID, orderID)
	if err != nil {
		return nil, err
	}
	if err := order.Payment.Override(status); err != nil {
		return nil, mapError(err)
	}
	return s.save(ctx, order)
}

// modify runs an edit on a cart-mutating operation: the order must still be in
// an editable status, and totals are recomputed before the versioned save.
func (s *Service) modify(ctx context.Context, act actor.Context, orderID string, fn func(*domain.Order) error) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, act.TenantID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanModify() {
		return nil, mapError(domain.ErrOrderLocked)
	}
	if err := fn(order); err != nil {
		return nil, mapError(err)
	}
	order.Recalculate()
	return s.save(ctx, order)
}

func (s *Service) save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	order.UpdatedAt = s.now()
	saved, err := s.repo.UpdateVersioned(ctx, order)
	if errors.Is(err, ports.ErrVersionConflict) {
		return nil, ErrConflict
	}
	return saved, err
}

// releaseCurrentDraft clears the is_current flag from the customer's previous
// active cart, keeping at most one per (tenant, customer).
func (s *Service) releaseCurrentDraft(ctx context.Context, tenantID, customerID string) error {
	previous, err := s.repo.FindCurrentDraft(ctx, tenantID, customerID)
	if err != nil || previous == nil {
		return err
	}
	previous.IsCurrent = false
	previous.UpdatedAt = s.now()
	_, err = s.repo.UpdateVersioned(ctx, previous)
	if errors.Is(err, ports.ErrVersionConflict) {
		return ErrConflict
	}
	return err
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if s.publisher != nil {
		s.publisher.Publish(ctx, event)
	}
}

func (s *Service) event(order *domain.Order) domain.BaseEvent {
	return domain.BaseEvent{Timestamp: s.now(), TenantID: order.TenantID, OrderID: order.ID}
}
