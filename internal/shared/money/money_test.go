package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRound2_HalfAwayFromZero(t *testing.T) {
	require.Equal(t, "2.35", Round2(decimal.RequireFromString("2.345")).StringFixed(2))
	require.Equal(t, "-2.35", Round2(decimal.RequireFromString("-2.345")).StringFixed(2))
	require.Equal(t, "2.34", Round2(decimal.RequireFromString("2.344")).StringFixed(2))
}

func TestPercent_RoundsAtTheStep(t *testing.T) {
	// 33.33 * 22% = 7.3326, rounded to 7.33 here, not downstream.
	got := Percent(decimal.RequireFromString("33.33"), decimal.RequireFromString("22"))
	require.Equal(t, "7.33", got.StringFixed(2))
}

func TestFromFloat_Normalizes(t *testing.T) {
	require.Equal(t, "19.99", FromFloat(19.99).StringFixed(2))
}
