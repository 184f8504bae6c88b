package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	bookingtypes "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/application/types"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/ports"
	"github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"
)

// maxCapacityRetries bounds the optimistic-concurrency loop on departure
// capacity. Contention beyond this surfaces as ErrConflict for the caller.
const maxCapacityRetries = 5

// Service is the booking capacity manager. Capacity arithmetic runs as a
// read-mutate-write cycle against the versioned Departure aggregate, retried
// on conflict, so two concurrent holds can never both claim the last units.
type Service struct {
	bookings   ports.BookingRepository
	departures ports.DepartureRepository
	publisher  ports.Publisher
	expiry     ports.HoldExpiryOrchestrator
	holdTTL    time.Duration
	now        func() time.Time
}

// Option customizes the service wiring.
type Option func(*Service)

// WithPublisher injects the domain event publisher.
func WithPublisher(p ports.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

// WithExpiryOrchestrator enables durable per-hold expiry timers.
func WithExpiryOrchestrator(o ports.HoldExpiryOrchestrator) Option {
	return func(s *Service) { s.expiry = o }
}

// WithHoldTTL overrides the default hold TTL.
func WithHoldTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.holdTTL = ttl
		}
	}
}

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the booking application service.
func NewService(bookings ports.BookingRepository, departures ports.DepartureRepository, opts ...Option) *Service {
	s := &Service{
		bookings:   bookings,
		departures: departures,
		holdTTL:    domain.DefaultHoldTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

var _ ports.Service = (*Service)(nil)

// CreateHold atomically checks and reserves capacity, then records the hold.
// The check-and-increment happens inside the versioned departure save: a
// concurrent winner invalidates our version and we re-read and re-check.
func (s *Service) CreateHold(ctx context.Context, act actor.Context, input bookingtypes.CreateHoldInput) (*domain.Booking, error) {
	ttl := input.TTL
	if ttl <= 0 {
		ttl = s.holdTTL
	}
	booking, err := domain.NewHold(
		uuid.NewString(), act.TenantID, input.OrderID, input.DepartureID,
		input.ResourceType, input.Units, ttl, s.now(),
	)
	if err != nil {
		return nil, mapError(err)
	}

	if _, err := s.adjustDeparture(ctx, act.TenantID, input.DepartureID, func(dep *domain.Departure) error {
		return dep.Hold(input.Units)
	}); err != nil {
		return nil, err
	}

	created, err := s.bookings.Create(ctx, booking)
	if err != nil {
		// The reservation landed but the booking did not; hand the units back.
		_, _ = s.adjustDeparture(ctx, act.TenantID, input.DepartureID, func(dep *domain.Departure) error {
			return dep.ReleaseHeld(input.Units)
		})
		return nil, err
	}

	if s.expiry != nil {
		// Best effort: the periodic sweep expires the hold anyway.
		_ = s.expiry.ScheduleExpiry(ctx, created.TenantID, created.ID, created.HoldExpiresAt)
	}

	s.publish(ctx, domain.HoldCreated{
		BaseEvent: s.event(created),
		Units:     created.UnitsHeld,
		ExpiresAt: created.HoldExpiresAt,
	})
	return created, nil
}

// GetBooking loads a booking scoped to the actor's tenant.
func (s *Service) GetBooking(ctx context.Context, act actor.Context, bookingID string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, act.TenantID, bookingID)
}

// ConfirmBooking moves a live hold to confirmed, shifting its units from held
// to confirmed capacity. A lapsed hold is rejected with ErrHoldExpired and
// left for the sweep.
func (s *Service) ConfirmBooking(ctx context.Context, act actor.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, act.TenantID, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.HoldLapsed(s.now()) {
		return nil, mapError(domain.ErrHoldExpired)
	}
	saved, err := s.transition(ctx, booking, domain.StatusConfirmed, act.Role)
	if err != nil {
		return nil, err
	}
	if _, err := s.adjustDeparture(ctx, saved.TenantID, saved.DepartureID, func(dep *domain.Departure) error {
		return dep.ConfirmUnits(saved.UnitsHeld)
	}); err != nil {
		return nil, err
	}
	s.publish(ctx, domain.BookingConfirmed{
		BaseEvent: s.event(saved),
		Units:     saved.UnitsHeld,
		ActorID:   act.ActorID,
	})
	return saved, nil
}

// CancelBooking cancels a held or confirmed booking and releases its units
// from whichever counter currently carries them.
func (s *Service) CancelBooking(ctx context.Context, act actor.Context, bookingID, reason string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, act.TenantID, bookingID)
	if err != nil {
		return nil, err
	}
	wasHeld := booking.Status == domain.StatusHeld
	booking.CancelReason = reason
	saved, err := s.transition(ctx, booking, domain.StatusCancelled, act.Role)
	if err != nil {
		return nil, err
	}
	if _, err := s.adjustDeparture(ctx, saved.TenantID, saved.DepartureID, func(dep *domain.Departure) error {
		if wasHeld {
			return dep.ReleaseHeld(saved.UnitsHeld)
		}
		return dep.ReleaseConfirmed(saved.UnitsHeld)
	}); err != nil {
		return nil, err
	}
	s.publish(ctx, domain.BookingCancelled{
		BaseEvent: s.event(saved),
		Units:     saved.UnitsHeld,
		Reason:    reason,
		ActorID:   act.ActorID,
	})
	return saved, nil
}

// CheckInBooking marks a confirmed booking as checked in. Capacity stays
// confirmed; the departure has been consumed, not released.
func (s *Service) CheckInBooking(ctx context.Context, act actor.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, act.TenantID, bookingID)
	if err != nil {
		return nil, err
	}
	saved, err := s.transition(ctx, booking, domain.StatusCheckedIn, act.Role)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.BookingCheckedIn{BaseEvent: s.event(saved), ActorID: act.ActorID})
	return saved, nil
}

// MarkNoShow marks a confirmed booking as a no-show.
func (s *Service) MarkNoShow(ctx context.Context, act actor.Context, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, act.TenantID, bookingID)
	if err != nil {
		return nil, err
	}
	saved, err := s.transition(ctx, booking, domain.StatusNoShow, act.Role)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, domain.BookingNoShow{BaseEvent: s.event(saved), ActorID: act.ActorID})
	return saved, nil
}

// ExpireHold expires one lapsed hold as the system actor. A booking that left
// held in the meantime loses the race and is rejected as an invalid
// transition, which callers treat as a no-op.
func (s *Service) ExpireHold(ctx context.Context, tenantID, bookingID string) (*domain.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, tenantID, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.HoldLapsed(s.now()) {
		return nil, ErrInvalidTransition
	}
	saved, err := s.transition(ctx, booking, domain.StatusExpired, actor.RoleSystem)
	if err != nil {
		return nil, err
	}
	if _, err := s.adjustDeparture(ctx, saved.TenantID, saved.DepartureID, func(dep *domain.Departure) error {
		return dep.ReleaseHeld(saved.UnitsHeld)
	}); err != nil {
		return nil, err
	}
	s.publish(ctx, domain.HoldExpired{BaseEvent: s.event(saved), Units: saved.UnitsHeld})
	return saved, nil
}

// ExpireDueHolds sweeps every lapsed hold. Races with confirmations or other
// sweep instances resolve through the booking's versioned status write, so a
// hold is expired exactly once and double releases cannot happen.
func (s *Service) ExpireDueHolds(ctx context.Context) (int, error) {
	lapsed, err := s.bookings.ListLapsedHolds(ctx, s.now(), 0)
	if err != nil {
		return 0, err
	}
	expired := 0
	var errs error
	for _, booking := range lapsed {
		if _, err := s.ExpireHold(ctx, booking.TenantID, booking.ID); err != nil {
			if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ports.ErrBookingNotFound) {
				continue // someone else transitioned it first
			}
			errs = errors.Join(errs, err)
			continue
		}
		expired++
	}
	return expired, errs
}

// CreateDeparture opens a new draft departure for the tenant.
func (s *Service) CreateDeparture(ctx context.Context, act actor.Context, input bookingtypes.CreateDepartureInput) (*domain.Departure, error) {
	departure, err := domain.NewDeparture(
		uuid.NewString(), act.TenantID, input.Name, input.DepartsAt, input.Capacity, s.now(),
	)
	if err != nil {
		return nil, mapError(err)
	}
	return s.departures.Create(ctx, departure)
}

// GetDeparture loads a departure scoped to the actor's tenant.
func (s *Service) GetDeparture(ctx context.Context, act actor.Context, departureID string) (*domain.Departure, error) {
	return s.departures.GetByID(ctx, act.TenantID, departureID)
}

// TransitionDeparture drives the admin-only departure lifecycle.
func (s *Service) TransitionDeparture(ctx context.Context, act actor.Context, departureID string, to domain.DepartureStatus) (*domain.Departure, error) {
	departure, err := s.departures.GetByID(ctx, act.TenantID, departureID)
	if err != nil {
		return nil, err
	}
	if !domain.DepartureTransitions.Can(departure.Status, to, act.Role) {
		return nil, ErrInvalidTransition
	}
	departure.Status = to
	departure.UpdatedAt = s.now()
	saved, err := s.departures.UpdateVersioned(ctx, departure)
	if errors.Is(err, ports.ErrVersionConflict) {
		return nil, ErrConflict
	}
	return saved, err
}

// transition validates the table edge and writes the booking status through a
// versioned save. A version miss means another transition won first, which the
// state machine reports as an invalid transition.
func (s *Service) transition(ctx context.Context, booking *domain.Booking, to domain.Status, role actor.Role) (*domain.Booking, error) {
	if !domain.Transitions.Can(booking.Status, to, role) {
		return nil, ErrInvalidTransition
	}
	booking.Status = to
	booking.UpdatedAt = s.now()
	saved, err := s.bookings.UpdateVersioned(ctx, booking)
	if errors.Is(err, ports.ErrVersionConflict) {
		return nil, ErrInvalidTransition
	}
	return saved, err
}

// adjustDeparture runs a capacity mutation inside the optimistic-concurrency
// loop: read, apply, conditional write, retry on version conflict.
func (s *Service) adjustDeparture(ctx context.Context, tenantID, departureID string, apply func(*domain.Departure) error) (*domain.Departure, error) {
	for attempt := 0; attempt < maxCapacityRetries; attempt++ {
		departure, err := s.departures.GetByID(ctx, tenantID, departureID)
		if err != nil {
			return nil, err
		}
		if err := apply(departure); err != nil {
			return nil, mapError(err)
		}
		departure.UpdatedAt = s.now()
		saved, err := s.departures.UpdateVersioned(ctx, departure)
		if errors.Is(err, ports.ErrVersionConflict) {
			continue
		}
		return saved, err
	}
	return nil, ErrConflict
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if s.publisher != nil {
		s.publisher.Publish(ctx, event)
	}
}

func (s *Service) event(booking *domain.Booking) domain.BaseEvent {
	return domain.BaseEvent{
		Timestamp:   s.now(),
		TenantID:    booking.TenantID,
		BookingID:   booking.ID,
		DepartureID: booking.DepartureID,
	}
}
