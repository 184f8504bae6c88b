package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	bookingtypes "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/application/types"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/ports"
	"github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"
)

const tracerName = "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/adapters/observability/service"

var _ ports.Service = (*Service)(nil)

// Service decorates the bookings application port with tracing, logging, and metrics.
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

// CreateHold reserves capacity with instrumentation.
func (s *Service) CreateHold(ctx context.Context, act actor.Context, input bookingtypes.CreateHoldInput) (*domain.Booking, error) {
	attrs := append(actorAttrs(act),
		attribute.String("departure.id", input.DepartureID),
		attribute.Int("booking.units", input.Units),
	)
	ctx, span := s.startSpan(ctx, "Service.CreateHold", attrs...)
	defer span.End()

	result, err := s.inner.CreateHold(ctx, act, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create hold",
			slog.String("departure.id", input.DepartureID), slog.Int("units", input.Units))
	}
	s.metrics.recordHold(ctx)
	s.logInfo(ctx, "hold created",
		slog.String("booking.id", result.ID),
		slog.String("departure.id", result.DepartureID),
		slog.Int("units", result.UnitsHeld),
		slog.Time("expires_at", result.HoldExpiresAt))
	return result, nil
}

// GetBooking loads a booking.
func (s *Service) GetBooking(ctx context.Context, act actor.Context, bookingID string) (*domain.Booking, error) {
	ctx, span := s.startSpan(ctx, "Service.GetBooking", bookingAttrs(act, bookingID)...)
	defer span.End()

	result, err := s.inner.GetBooking(ctx, act, bookingID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load booking", slog.String("booking.id", bookingID))
	}
	return result, nil
}

// ConfirmBooking confirms a hold.
func (s *Service) ConfirmBooking(ctx context.Context, act actor.Context, bookingID string) (*domain.Booking, error) {
	ctx, span := s.startSpan(ctx, "Service.ConfirmBooking", bookingAttrs(act, bookingID)...)
	defer span.End()

	result, err := s.inner.ConfirmBooking(ctx, act, bookingID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to confirm booking", slog.String("booking.id", bookingID))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "booking confirmed", slog.String("booking.id", bookingID))
	return result, nil
}

// CancelBooking cancels a hold or confirmed booking.
func (s *Service) CancelBooking(ctx context.Context, act actor.Context, bookingID, reason string) (*domain.Booking, error) {
	ctx, span := s.startSpan(ctx, "Service.CancelBooking", bookingAttrs(act, bookingID)...)
	defer span.End()

	result, err := s.inner.CancelBooking(ctx, act, bookingID, reason)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel booking", slog.String("booking.id", bookingID))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logInfo(ctx, "booking cancelled", slog.String("booking.id", bookingID), slog.String("reason", reason))
	return result, nil
}

// CheckInBooking marks a confirmed booking as checked in.
func (s *Service) CheckInBooking(ctx context.Context, act actor.Context, bookingID string) (*domain.Booking, error) {
	ctx, span := s.startSpan(ctx, "Service.CheckInBooking", bookingAttrs(act, bookingID)...)
	defer span.End()

	result, err := s.inner.CheckInBooking(ctx, act, bookingID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to check in booking", slog.String("booking.id", bookingID))
	}
	s.metrics.recordTransition(ctx, result.Status)
	return result, nil
}

// MarkNoShow marks a confirmed booking as a no-show.
func (s *Service) MarkNoShow(ctx context.Context, act actor.Context, bookingID string) (*domain.Booking, error) {
	ctx, span := s.startSpan(ctx, "Service.MarkNoShow", bookingAttrs(act, bookingID)...)
	defer span.End()

	result, err := s.inner.MarkNoShow(ctx, act, bookingID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to mark no-show", slog.String("booking.id", bookingID))
	}
	s.metrics.recordTransition(ctx, result.Status)
	return result, nil
}

// ExpireHold expires a single lapsed hold.
func (s *Service) ExpireHold(ctx context.Context, tenantID, bookingID string) (*domain.Booking, error) {
	attrs := []attribute.KeyValue{
		attribute.String("tenant.id", tenantID),
		attribute.String("booking.id", bookingID),
	}
	ctx, span := s.startSpan(ctx, "Service.ExpireHold", attrs...)
	defer span.End()

	result, err := s.inner.ExpireHold(ctx, tenantID, bookingID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to expire hold", slog.String("booking.id", bookingID))
	}
	s.metrics.recordExpiry(ctx, 1)
	s.logInfo(ctx, "hold expired", slog.String("booking.id", bookingID), slog.Int("units", result.UnitsHeld))
	return result, nil
}

// ExpireDueHolds sweeps all lapsed holds.
func (s *Service) ExpireDueHolds(ctx context.Context) (int, error) {
	ctx, span := s.startSpan(ctx, "Service.ExpireDueHolds")
	defer span.End()

	expired, err := s.inner.ExpireDueHolds(ctx)
	if err != nil {
		return expired, s.handleError(ctx, span, err, "hold sweep finished with errors", slog.Int("expired", expired))
	}
	if expired > 0 {
		s.metrics.recordExpiry(ctx, int64(expired))
		s.logInfo(ctx, "hold sweep completed", slog.Int("expired", expired))
	}
	return expired, nil
}

// CreateDeparture opens a new departure.
func (s *Service) CreateDeparture(ctx context.Context, act actor.Context, input bookingtypes.CreateDepartureInput) (*domain.Departure, error) {
	attrs := append(actorAttrs(act), attribute.Int("departure.capacity", input.Capacity))
	ctx, span := s.startSpan(ctx, "Service.CreateDeparture", attrs...)
	defer span.End()

	result, err := s.inner.CreateDeparture(ctx, act, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create departure")
	}
	s.logInfo(ctx, "departure created", slog.String("departure.id", result.ID), slog.Int("capacity", result.CapacityTotal))
	return result, nil
}

// GetDeparture loads a departure.
func (s *Service) GetDeparture(ctx context.Context, act actor.Context, departureID string) (*domain.Departure, error) {
	attrs := append(actorAttrs(act), attribute.String("departure.id", departureID))
	ctx, span := s.startSpan(ctx, "Service.GetDeparture", attrs...)
	defer span.End()

	result, err := s.inner.GetDeparture(ctx, act, departureID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load departure", slog.String("departure.id", departureID))
	}
	return result, nil
}

// TransitionDeparture drives the departure lifecycle.
func (s *Service) TransitionDeparture(ctx context.Context, act actor.Context, departureID string, to domain.DepartureStatus) (*domain.Departure, error) {
	attrs := append(actorAttrs(act),
		attribute.String("departure.id", departureID),
		attribute.String("departure.status.to", string(to)),
	)
	ctx, span := s.startSpan(ctx, "Service.TransitionDeparture", attrs...)
	defer span.End()

	result, err := s.inner.TransitionDeparture(ctx, act, departureID, to)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "departure transition rejected",
			slog.String("departure.id", departureID), slog.String("to", string(to)))
	}
	s.logInfo(ctx, "departure transitioned", slog.String("departure.id", departureID), slog.String("to", string(to)))
	return result, nil
}

func actorAttrs(act actor.Context) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("tenant.id", act.TenantID),
		attribute.String("actor.role", string(act.Role)),
	}
}

func bookingAttrs(act actor.Context, bookingID string) []attribute.KeyValue {
	return append(actorAttrs(act), attribute.String("booking.id", bookingID))
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
	holds       metric.Int64Counter
	transitions metric.Int64Counter
	expiries    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	holds, _ := m.Int64Counter("bookings.service.holds", metric.WithDescription("Capacity holds created"))
	transitions, _ := m.Int64Counter("bookings.service.transitions", metric.WithDescription("Booking status transitions applied"))
	expiries, _ := m.Int64Counter("bookings.service.expiries", metric.WithDescription("Holds expired by timer or sweep"))
	return serviceMetrics{holds: holds, transitions: transitions, expiries: expiries}
}

func (m serviceMetrics) recordHold(ctx context.Context) {
	addCounter(ctx, m.holds, 1)
}

func (m serviceMetrics) recordTransition(ctx context.Context, to domain.Status) {
	addCounter(ctx, m.transitions, 1, attribute.String("booking.status", string(to)))
}

func (m serviceMetrics) recordExpiry(ctx context.Context, n int64) {
	addCounter(ctx, m.expiries, n)
}

func addCounter(ctx context.Context, counter metric.Int64Counter, value int64, attrs ...attribute.KeyValue) {
	if counter == nil {
		return
	}
	counter.Add(ctx, value, metric.WithAttributes(attrs...))
}
