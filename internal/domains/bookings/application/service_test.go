package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/adapters/memory"
	bookingtypes "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/application/types"
	"github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/domain"
	"github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"
)

func salesActor() actor.Context {
	return actor.Context{TenantID: "tenant-a", ActorID: "sales-1", Role: actor.RoleSales}
}

func adminActor() actor.Context {
	return actor.Context{TenantID: "tenant-a", ActorID: "admin-1", Role: actor.RoleAdmin}
}

func warehouseActor() actor.Context {
	return actor.Context{TenantID: "tenant-a", ActorID: "wh-1", Role: actor.RoleWarehouse}
}

type fixture struct {
	svc        *Service
	departures *memory.DepartureRepository
	clock      *fakeClock
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// scheduleRecorder captures expiry scheduling calls.
type scheduleRecorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *scheduleRecorder) ScheduleExpiry(_ context.Context, _, bookingID string, _ time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, bookingID)
	return nil
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	clock := &fakeClock{now: time.Unix(1700000000, 0)}
	departures := memory.NewDepartureRepository()
	opts = append([]Option{WithClock(clock.Now)}, opts...)
	svc := NewService(memory.NewBookingRepository(), departures, opts...)
	return &fixture{svc: svc, departures: departures, clock: clock}
}

// newActiveDeparture creates and activates a departure through the service.
func (f *fixture) newActiveDeparture(t *testing.T, capacity int) *domain.Departure {
	t.Helper()
	ctx := context.Background()
	dep, err := f.svc.CreateDeparture(ctx, adminActor(), bookingtypes.CreateDepartureInput{
		Name:      "morning tour",
		DepartsAt: f.clock.Now().Add(48 * time.Hour),
		Capacity:  capacity,
	})
	require.NoError(t, err)
	dep, err = f.svc.TransitionDeparture(ctx, adminActor(), dep.ID, domain.DepartureActive)
	require.NoError(t, err)
	return dep
}

func (f *fixture) hold(t *testing.T, departureID string, units int) *domain.Booking {
	t.Helper()
	booking, err := f.svc.CreateHold(context.Background(), salesActor(), bookingtypes.CreateHoldInput{
		OrderID: "ord-1", DepartureID: departureID, ResourceType: "seat", Units: units,
	})
	require.NoError(t, err)
	return booking
}

func (f *fixture) departure(t *testing.T, departureID string) *domain.Departure {
	t.Helper()
	dep, err := f.svc.GetDeparture(context.Background(), adminActor(), departureID)
	require.NoError(t, err)
	return dep
}

func TestCreateHold_ReservesCapacity(t *testing.T) {
	f := newFixture(t)
	dep := f.newActiveDeparture(t, 10)

	booking := f.hold(t, dep.ID, 4)
	require.Equal(t, domain.StatusHeld, booking.Status)
	require.Equal(t, f.clock.Now().Add(domain.DefaultHoldTTL), booking.HoldExpiresAt)

	reloaded := f.departure(t, dep.ID)
	require.Equal(t, 4, reloaded.CapacityHeld)
	require.Equal(t, 6, reloaded.Remaining())
}

func TestCreateHold_CustomTTL(t *testing.T) {
	f := newFixture(t)
	dep := f.newActiveDeparture(t, 10)

	booking, err := f.svc.CreateHold(context.Background(), salesActor(), bookingtypes.CreateHoldInput{
		OrderID: "ord-1", DepartureID: dep.ID, ResourceType: "seat", Units: 1, TTL: 5 * time.Minute,
	})
	require.NoError(t, err)
	require.Equal(t, f.clock.Now().Add(5*time.Minute), booking.HoldExpiresAt)
}

func TestCreateHold_InsufficientCapacity(t *testing.T) {
	f := newFixture(t)
	dep := f.newActiveDeparture(t, 3)
	f.hold(t, dep.ID, 2)

	_, err := f.svc.CreateHold(context.Background(), salesActor(), bookingtypes.CreateHoldInput{
		OrderID: "ord-2", DepartureID: dep.ID, ResourceType: "seat", Units: 2,
	})
	require.ErrorIs(t, err, ErrInsufficientCapacity)

	// The failed hold left the counters untouched.
	require.Equal(t, 2, f.departure(t, dep.ID).CapacityHeld)
}

func TestCreateHold_InactiveDeparture(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dep, err := f.svc.CreateDeparture(ctx, adminActor(), bookingtypes.CreateDepartureInput{
		Name: "draft tour", DepartsAt: f.clock.Now().Add(time.Hour), Capacity: 10,
	})
	require.NoError(t, err)

	_, err = f.svc.CreateHold(ctx, salesActor(), bookingtypes.CreateHoldInput{
		OrderID: "ord-1", DepartureID: dep.ID, ResourceType: "seat", Units: 1,
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCreateHold_SchedulesDurableExpiry(t *testing.T) {
	recorder := &scheduleRecorder{}
	f := newFixture(t, WithExpiryOrchestrator(recorder))
	dep := f.newActiveDeparture(t, 10)

	booking := f.hold(t, dep.ID, 1)
	require.Equal(t, []string{booking.ID}, recorder.calls)
}

func TestCreateHold_ConcurrentHoldsNeverOversell(t *testing.T) {
	f := newFixture(t)
	dep := f.newActiveDeparture(t, 5)

	// Two racing holds of 3 units on 5 seats: exactly one may win.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.CreateHold(context.Background(), salesActor(), bookingtypes.CreateHoldInput{
				OrderID: "ord-1", DepartureID: dep.ID, ResourceType: "seat", Units: 3,
			})
			errs[i] = err
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, ErrInsufficientCapacity)
		}
	}
	require.Equal(t, 1, winners)

	reloaded := f.departure(t, dep.ID)
	require.Equal(t, 3, reloaded.CapacityHeld)
	require.LessOrEqual(t, reloaded.CapacityHeld+reloaded.CapacityConfirmed, reloaded.CapacityTotal)
}

func TestConfirmBooking_MovesUnitsToConfirmed(t *testing.T) {
	f := newFixture(t)
	dep := f.newActiveDeparture(t, 10)
	booking := f.hold(t, dep.ID, 4)

	confirmed, err := f.svc.ConfirmBooking(context.Background(), salesActor(), booking.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusConfirmed, confirmed.Status)

	reloaded := f.departure(t, dep.ID)
	require.Equal(t, 0, reloaded.CapacityHeld)
	require.Equal(t, 4, reloaded.CapacityConfirmed)
}

func TestConfirmBooking_LapsedHoldRejected(t *testing.T) {
	f := newFixture(t)
	dep := f.newActiveDeparture(t, 10)
	booking := f.hold(t, dep.ID, 4)

	f.clock.Advance(domain.DefaultHoldTTL + time.Second)
	_, err := f.svc.ConfirmBooking(context.Background(), salesActor(), booking.ID)
	require.ErrorIs(t, err, ErrHoldExpired)

	// The hold stays held for the sweep; units are still reserved.
	require.Equal(t, 4, f.departure(t, dep.ID).CapacityHeld)
}

func TestConfirmBooking_RoleEnforcement(t *testing.T) {
	f := newFixture(t)
	dep := f.newActiveDeparture(t, 10)
	booking := f.hold(t, dep.ID, 1)

	customer := actor.Context{TenantID: "tenant-a", ActorID: "cust-1", Role: actor.RoleCustomer}
	_, err := f.svc.ConfirmBooking(context.Background(), customer, booking.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCancelBooking_ReleasesHeldUnits(t *testing.T) {
	f := newFixture(t)
	dep := f.newActiveDeparture(t, 10)
	booking := f.hold(t, dep.ID, 4)

	cancelled, err := f.svc.CancelBooking(context.Background(), salesActor(), booking.ID, "customer changed plans")
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.Equal(t, "customer changed plans", cancelled.CancelReason)

	reloaded := f.departure(t, dep.ID)
	require.Equal(t, 0, reloaded.CapacityHeld)
	require.Equal(t, 10, reloaded.Remaining())
}

func TestCancelBooking_ReleasesConfirmedUnits(t *testing.T) {
	f := newFixture(t)
	dep := f.newActiveDeparture(t, 10)
	booking := f.hold(t, dep.ID, 4)
	_, err := f.svc.ConfirmBooking(context.Background(), salesActor(), booking.ID)
	require.NoError(t, err)

	// confirmed→cancelled is admin-only.
	_, err = f.svc.CancelBooking(context.Background(), salesActor(), booking.ID, "ops")
	require.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.CancelBooking(context.Background(), adminActor(), booking.ID, "ops")
	require.NoError(t, err)

	reloaded := f.departure(t, dep.ID)
	require.Equal(t, 0, reloaded.CapacityConfirmed)
	require.Equal(t, 10, reloaded.Remaining())
}

func TestCheckInAndNoShow_LeaveCapacityConfirmed(t *testing.T) {
	f := newFixture(t)
	dep := f.newActiveDeparture(t, 10)
	ctx := context.Background()

	first := f.hold(t, dep.ID, 2)
	_, err := f.svc.ConfirmBooking(ctx, salesActor(), first.ID)
	require.NoError(t, err)
	checkedIn, err := f.svc.CheckInBooking(ctx, warehouseActor(), first.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCheckedIn, checkedIn.Status)

	second := f.hold(t, dep.ID, 3)
	_, err = f.svc.ConfirmBooking(ctx, salesActor(), second.ID)
	require.NoError(t, err)
	noShow, err := f.svc.MarkNoShow(ctx, warehouseActor(), second.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusNoShow, noShow.Status)

	// Neither outcome releases capacity; the departure was consumed.
	require.Equal(t, 5, f.departure(t, dep.ID).CapacityConfirmed)
}

func TestExpireHold_ReleasesCapacity(t *testing.T) {
	f := newFixture(t)
	dep := f.newActiveDeparture(t, 10)
	booking := f.hold(t, dep.ID, 4)

	// A live hold does not expire.
	_, err := f.svc.ExpireHold(context.Background(), "tenant-a", booking.ID)
	require.ErrorIs(t, err, ErrInvalidTransition)

	f.clock.Advance(domain.DefaultHoldTTL + time.Second)
	expired, err := f.svc.ExpireHold(context.Background(), "tenant-a", booking.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusExpired, expired.Status)
	require.Equal(t, 10, f.departure(t, dep.ID).Remaining())
}

func TestExpireDueHolds_SweepsOnlyLapsedHolds(t *testing.T) {
	f := newFixture(t)
	dep := f.newActiveDeparture(t, 10)
	ctx := context.Background()

	lapsing := f.hold(t, dep.ID, 2)
	confirmed := f.hold(t, dep.ID, 3)
	_, err := f.svc.ConfirmBooking(ctx, salesActor(), confirmed.ID)
	require.NoError(t, err)

	f.clock.Advance(domain.DefaultHoldTTL + time.Second)

	// A fresh hold created after the clock advanced is not due yet.
	live := f.hold(t, dep.ID, 1)

	expired, err := f.svc.ExpireDueHolds(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, expired)

	swept, err := f.svc.GetBooking(ctx, salesActor(), lapsing.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusExpired, swept.Status)

	untouched, err := f.svc.GetBooking(ctx, salesActor(), live.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusHeld, untouched.Status)

	reloaded := f.departure(t, dep.ID)
	require.Equal(t, 1, reloaded.CapacityHeld)
	require.Equal(t, 3, reloaded.CapacityConfirmed)
}

func TestExpireDueHolds_SecondSweepIsANoOp(t *testing.T) {
	f := newFixture(t)
	dep := f.newActiveDeparture(t, 10)
	f.hold(t, dep.ID, 4)
	f.clock.Advance(domain.DefaultHoldTTL + time.Second)

	expired, err := f.svc.ExpireDueHolds(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, expired)

	again, err := f.svc.ExpireDueHolds(context.Background())
	require.NoError(t, err)
	require.Equal(t, 0, again)

	// Capacity was released exactly once.
	require.Equal(t, 10, f.departure(t, dep.ID).Remaining())
}

func TestCreateDeparture_Validation(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CreateDeparture(context.Background(), adminActor(), bookingtypes.CreateDepartureInput{
		Name: "empty tour", DepartsAt: f.clock.Now(), Capacity: 0,
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestTransitionDeparture_AdminOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	dep, err := f.svc.CreateDeparture(ctx, adminActor(), bookingtypes.CreateDepartureInput{
		Name: "tour", DepartsAt: f.clock.Now().Add(time.Hour), Capacity: 5,
	})
	require.NoError(t, err)

	_, err = f.svc.TransitionDeparture(ctx, salesActor(), dep.ID, domain.DepartureActive)
	require.ErrorIs(t, err, ErrInvalidTransition)

	activated, err := f.svc.TransitionDeparture(ctx, adminActor(), dep.ID, domain.DepartureActive)
	require.NoError(t, err)
	require.Equal(t, domain.DepartureActive, activated.Status)

	_, err = f.svc.TransitionDeparture(ctx, adminActor(), dep.ID, domain.DepartureCompleted)
	require.ErrorIs(t, err, ErrInvalidTransition, "active cannot jump to completed")
}
