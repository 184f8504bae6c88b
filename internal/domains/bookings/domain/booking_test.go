package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"
)

func TestNewHold_SetsExpiryFromTTL(t *testing.T) {
	now := time.Unix(1700000000, 0)
	booking, err := NewHold("b-1", "tenant-a", "ord-1", "dep-1", "seat", 2, 10*time.Minute, now)
	require.NoError(t, err)
	require.Equal(t, StatusHeld, booking.Status)
	require.Equal(t, now.Add(10*time.Minute), booking.HoldExpiresAt)
}

func TestNewHold_ZeroTTLUsesDefault(t *testing.T) {
	now := time.Unix(1700000000, 0)
	booking, err := NewHold("b-1", "tenant-a", "ord-1", "dep-1", "seat", 2, 0, now)
	require.NoError(t, err)
	require.Equal(t, now.Add(DefaultHoldTTL), booking.HoldExpiresAt)
}

func TestNewHold_RejectsNonPositiveUnits(t *testing.T) {
	_, err := NewHold("b-1", "tenant-a", "ord-1", "dep-1", "seat", 0, time.Minute, time.Now())
	require.ErrorIs(t, err, ErrInvalidUnits)
}

func TestHoldLapsed_BoundaryAndStatus(t *testing.T) {
	now := time.Unix(1700000000, 0)
	booking, err := NewHold("b-1", "tenant-a", "ord-1", "dep-1", "seat", 2, 10*time.Minute, now)
	require.NoError(t, err)

	require.False(t, booking.HoldLapsed(now))
	// The deadline itself counts as lapsed.
	require.True(t, booking.HoldLapsed(now.Add(10*time.Minute)))
	require.True(t, booking.HoldLapsed(now.Add(time.Hour)))

	// Only held bookings lapse.
	booking.Status = StatusConfirmed
	require.False(t, booking.HoldLapsed(now.Add(time.Hour)))
}

func TestBookingTransitions_RoleMatrix(t *testing.T) {
	require.True(t, Transitions.Can(StatusHeld, StatusConfirmed, actor.RoleSales))
	require.True(t, Transitions.Can(StatusHeld, StatusExpired, actor.RoleSystem))
	require.False(t, Transitions.Can(StatusHeld, StatusExpired, actor.RoleCustomer))
	require.False(t, Transitions.Can(StatusHeld, StatusCheckedIn, actor.RoleAdmin), "no edge exists")

	require.True(t, Transitions.Can(StatusConfirmed, StatusCheckedIn, actor.RoleWarehouse))
	require.False(t, Transitions.Can(StatusConfirmed, StatusCancelled, actor.RoleCustomer))
	require.True(t, Transitions.Can(StatusConfirmed, StatusCancelled, actor.RoleAdmin))

	for _, terminal := range []Status{StatusCheckedIn, StatusCancelled, StatusExpired, StatusNoShow} {
		require.True(t, Transitions.Terminal(terminal), "%s should be terminal", terminal)
	}
}
