package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"
)

func activeDeparture(t *testing.T, capacity int) *Departure {
	t.Helper()
	dep, err := NewDeparture("dep-1", "tenant-a", "morning tour", time.Now().Add(48*time.Hour), capacity, time.Now())
	require.NoError(t, err)
	dep.Status = DepartureActive
	return dep
}

func TestNewDeparture_RejectsNonPositiveCapacity(t *testing.T) {
	_, err := NewDeparture("dep-1", "tenant-a", "tour", time.Now(), 0, time.Now())
	require.ErrorIs(t, err, ErrInvalidCapacity)
}

func TestDeparture_HoldRespectsCapacity(t *testing.T) {
	dep := activeDeparture(t, 10)
	require.NoError(t, dep.Hold(6))
	require.Equal(t, 4, dep.Remaining())

	require.ErrorIs(t, dep.Hold(5), ErrInsufficientCapacity)
	require.NoError(t, dep.Hold(4))
	require.Equal(t, 0, dep.Remaining())
}

func TestDeparture_DraftRejectsHolds(t *testing.T) {
	dep, err := NewDeparture("dep-1", "tenant-a", "tour", time.Now(), 10, time.Now())
	require.NoError(t, err)
	require.ErrorIs(t, dep.Hold(1), ErrDepartureNotOpen)
}

func TestDeparture_ConfirmMovesHeldToConfirmed(t *testing.T) {
	dep := activeDeparture(t, 10)
	require.NoError(t, dep.Hold(4))
	require.NoError(t, dep.ConfirmUnits(4))

	require.Equal(t, 0, dep.CapacityHeld)
	require.Equal(t, 4, dep.CapacityConfirmed)
	require.Equal(t, 6, dep.Remaining())

	require.ErrorIs(t, dep.ConfirmUnits(1), ErrCapacityUnderflow)
}

func TestDeparture_ReleaseCannotUnderflow(t *testing.T) {
	dep := activeDeparture(t, 10)
	require.NoError(t, dep.Hold(3))

	require.ErrorIs(t, dep.ReleaseHeld(4), ErrCapacityUnderflow)
	require.NoError(t, dep.ReleaseHeld(3))
	require.Equal(t, 10, dep.Remaining())

	require.ErrorIs(t, dep.ReleaseConfirmed(1), ErrCapacityUnderflow)
}

func TestDeparture_UnitsMustBePositive(t *testing.T) {
	dep := activeDeparture(t, 10)
	require.ErrorIs(t, dep.Hold(0), ErrInvalidUnits)
	require.ErrorIs(t, dep.ConfirmUnits(-1), ErrInvalidUnits)
	require.ErrorIs(t, dep.ReleaseHeld(0), ErrInvalidUnits)
}

func TestDepartureTransitions_AdminOnly(t *testing.T) {
	require.True(t, DepartureTransitions.Can(DepartureDraft, DepartureActive, actor.RoleAdmin))
	require.False(t, DepartureTransitions.Can(DepartureDraft, DepartureActive, actor.RoleSales))
	require.False(t, DepartureTransitions.Can(DepartureDraft, DepartureActive, actor.RoleSystem))

	require.True(t, DepartureTransitions.Terminal(DepartureCancelled))
	require.True(t, DepartureTransitions.Terminal(DepartureCompleted))
	require.False(t, DepartureTransitions.Terminal(DepartureClosed))
}
