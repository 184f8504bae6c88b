package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordertypes "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/application/types"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/ports"
	"github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"
)

const tracerName = "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/adapters/observability/service"

var _ ports.Service = (*Service)(nil)

// Service decorates the orders application port with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

// WithMeter injects the meter used to create service metrics instruments.
func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wires a decorator around the core service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  defaultLogger(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CreateOrder opens a new draft order with instrumentation.
func (s *Service) CreateOrder(ctx context.Context, act actor.Context, input ordertypes.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.CreateOrder", actorAttrs(act)...)
	defer span.End()

	result, err := s.inner.CreateOrder(ctx, act, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order")
	}
	s.logInfo(ctx, "order created", slog.String("order.id", result.ID), slog.Int("lines", len(result.Items)))
	return result, nil
}

// GetOrder loads an order.
func (s *Service) GetOrder(ctx context.Context, act actor.Context, orderID string) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.GetOrder", orderAttrs(act, orderID)...)
	defer span.End()

	result, err := s.inner.GetOrder(ctx, act, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", orderID))
	}
	return result, nil
}

// Transition moves the order status.
func (s *Service) Transition(ctx context.Context, act actor.Context, orderID string, to domain.Status) (*domain.Order, error) {
	attrs := append(orderAttrs(act, orderID), attribute.String("order.status.to", string(to)))
	ctx, span := s.startSpan(ctx, "Service.Transition", attrs...)
	defer span.End()

	result, err := s.inner.Transition(ctx, act, orderID, to)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "order transition rejected",
			slog.String("order.id", orderID), slog.String("to", string(to)))
	}
	s.metrics.recordTransition(ctx, to)
	s.logInfo(ctx, "order transitioned", slog.String("order.id", orderID), slog.String("to", string(to)))
	return result, nil
}

// Duplicate clones an order as a fresh draft.
func (s *Service) Duplicate(ctx context.Context, act actor.Context, orderID string, opts domain.DuplicateOptions) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.Duplicate", orderAttrs(act, orderID)...)
	defer span.End()

	result, err := s.inner.Duplicate(ctx, act, orderID, opts)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to duplicate order", slog.String("order.id", orderID))
	}
	s.logInfo(ctx, "order duplicated", slog.String("source.id", orderID), slog.String("order.id", result.ID))
	return result, nil
}

// AddLine appends a cart line.
func (s *Service) AddLine(ctx context.Context, act actor.Context, orderID string, input ordertypes.LineInput) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.AddLine", orderAttrs(act, orderID)...)
	defer span.End()

	result, err := s.inner.AddLine(ctx, act, orderID, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add line", slog.String("order.id", orderID))
	}
	return result, nil
}

// UpdateLineQuantity changes a line quantity.
func (s *Service) UpdateLineQuantity(ctx context.Context, act actor.Context, orderID string, lineNumber, quantity int) (*domain.Order, error) {
	attrs := append(orderAttrs(act, orderID), attribute.Int("order.line", lineNumber))
	ctx, span := s.startSpan(ctx, "Service.UpdateLineQuantity", attrs...)
	defer span.End()

	result, err := s.inner.UpdateLineQuantity(ctx, act, orderID, lineNumber, quantity)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update line quantity",
			slog.String("order.id", orderID), slog.Int("line", lineNumber))
	}
	return result, nil
}

// RemoveLine deletes a line.
func (s *Service) RemoveLine(ctx context.Context, act actor.Context, orderID string, lineNumber int) (*domain.Order, error) {
	attrs := append(orderAttrs(act, orderID), attribute.Int("order.line", lineNumber))
	ctx, span := s.startSpan(ctx, "Service.RemoveLine", attrs...)
	defer span.End()

	result, err := s.inner.RemoveLine(ctx, act, orderID, lineNumber)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove line",
			slog.String("order.id", orderID), slog.Int("line", lineNumber))
	}
	return result, nil
}

// SetShippingCost updates the shipping amount.
func (s *Service) SetShippingCost(ctx context.Context, act actor.Context, orderID string, amount decimal.Decimal) (*domain.Order, error) {
	ctx, span := s.startSpan(ctx, "Service.SetShippingCost", orderAttrs(act, orderID)...)
	defer span.End()

	result, err := s.inner.SetShippingCost(ctx, act, orderID, amount)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to set shipping cost", slog.String("order.id", orderID))
	}
	return result, nil
}

// AddLineAdjustment applies a price adjustment to a line.
func (s *Service) AddLineAdjustment(ctx context.Context, act actor.Context, orderID string, lineNumber int, input ordertypes.AdjustmentInput) (*domain.Order, error) {
	attrs := append(orderAttrs(act, orderID),
		attribute.Int("order.line", lineNumber),
		attribute.String("adjustment.type", input.Type),
	)
	ctx, span := s.startSpan(ctx, "Service.AddLineAdjustment", attrs...)
	defer span.End()

	result, err := s.inner.AddLineAdjustment(ctx, act, orderID, lineNumber, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to adjust line",
			slog.String("order.id", orderID), slog.Int("line", lineNumber))
	}
	s.metrics.recordAdjustment(ctx, input.Type)
	s.logInfo(ctx, "line adjusted",
		slog.String("order.id", orderID), slog.Int("line", lineNumber), slog.String("type", input.Type))
	return result, nil
}

// RemoveLineAdjustment removes an adjustment by id.
func (s *Service) RemoveLineAdjustment(ctx context.Context, act actor.Context, orderID, adjustmentID string) (*domain.Order, error) {
	attrs := append(orderAttrs(act, orderID), attribute.String("adjustment.id", adjustmentID))
	ctx, span := s.startSpan(ctx, "Service.RemoveLineAdjustment", attrs...)
	defer span.End()

	result, err := s.inner.RemoveLineAdjustment(ctx, act, orderID, adjustmentID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove adjustment",
			slog.String("order.id", orderID), slog.String("adjustment.id", adjustmentID))
	}
	return result, nil
}

// RecordPayment appends a payment to the ledger.
func (s *Service) RecordPayment(ctx context.Context, act actor.Context, orderID string, input ordertypes.PaymentInput) (*domain.Order, error) {
	attrs := append(orderAttrs(act, orderID), attribute.String("payment.method", input.Method))
	ctx, span := s.startSpan(ctx, "Service.RecordPayment", attrs...)
	defer span.End()

	result, err := s.inner.RecordPayment(ctx, act, orderID, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to record payment", slog.String("order.id", orderID))
	}
	s.metrics.recordPayment(ctx, result.Payment.Status)
	s.logInfo(ctx, "payment recorded",
		slog.String("order.id", orderID), slog.String("payment.status", string(result.Payment.Status)))
	return result, nil
}

// EditPayment corrects an existing ledger record.
func (s *Service) EditPayment(ctx context.Context, act actor.Context, orderID, paymentID string, patch ordertypes.PaymentPatch) (*domain.Order, error) {
	attrs := append(orderAttrs(act, orderID), attribute.String("payment.id", paymentID))
	ctx, span := s.startSpan(ctx, "Service.EditPayment", attrs...)
	defer span.End()

	result, err := s.inner.EditPayment(ctx, act, orderID, paymentID, patch)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to edit payment",
			slog.String("order.id", orderID), slog.String("payment.id", paymentID))
	}
	return result, nil
}

// DeletePayment removes a ledger record.
func (s *Service) DeletePayment(ctx context.Context, act actor.Context, orderID, paymentID string) (*domain.Order, error) {
	attrs := append(orderAttrs(act, orderID), attribute.String("payment.id", paymentID))
	ctx, span := s.startSpan(ctx, "Service.DeletePayment", attrs...)
	defer span.End()

	result, err := s.inner.DeletePayment(ctx, act, orderID, paymentID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to delete payment",
			slog.String("order.id", orderID), slog.String("payment.id", paymentID))
	}
	return result, nil
}

// UpdatePaymentStatus manually overrides the ledger status.
func (s *Service) UpdatePaymentStatus(ctx context.Context, act actor.Context, orderID string, status domain.PaymentStatus) (*domain.Order, error) {
	attrs := append(orderAttrs(act, orderID), attribute.String("payment.status", string(status)))
	ctx, span := s.startSpan(ctx, "Service.UpdatePaymentStatus", attrs...)
	defer span.End()

	result, err := s.inner.UpdatePaymentStatus(ctx, act, orderID, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to override payment status",
			slog.String("order.id", orderID))
	}
	return result, nil
}

func actorAttrs(act actor.Context) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("tenant.id", act.TenantID),
		attribute.String("actor.role", string(act.Role)),
	}
}

func orderAttrs(act actor.Context, orderID string) []attribute.KeyValue {
	return append(actorAttrs(act), attribute.String("order.id", orderID))
}

func (s *Service) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tracer := s.tracer
	if tracer == nil {
		tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if err == nil {
		return nil
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	}
	return err
}

func defaultLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMetrics struct {
	transitions metric.Int64Counter
	adjustments metric.Int64Counter
	payments    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	transitions, _ := m.Int64Counter("orders.service.transitions", metric.WithDescription("Order status transitions applied"))
	adjustments, _ := m.Int64Counter("orders.service.adjustments", metric.WithDescription("Line adjustments applied"))
	payments, _ := m.Int64Counter("orders.service.payments", metric.WithDescription("Payments recorded"))
	return serviceMetrics{transitions: transitions, adjustments: adjustments, payments: payments}
}

func (m serviceMetrics) recordTransition(ctx context.Context, to domain.Status) {
	addCounter(ctx, m.transitions, 1, attribute.String("order.status", string(to)))
}

func (m serviceMetrics) recordAdjustment(ctx context.Context, adjType string) {
	addCounter(ctx, m.adjustments, 1, attribute.String("adjustment.type", adjType))
}

func (m serviceMetrics) recordPayment(ctx context.Context, status domain.PaymentStatus) {
	addCounter(ctx, m.payments, 1, attribute.String("payment.status", string(status)))
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}
