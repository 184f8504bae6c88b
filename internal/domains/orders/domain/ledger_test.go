package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLedger_DerivesPaidFromConfirmedRecords(t *testing.T) {
	ledger := NewPaymentLedger()
	require.NoError(t, ledger.Record(Payment{ID: "p1", Amount: dec("50.00"), Confirmed: true}))
	require.NoError(t, ledger.Record(Payment{ID: "p2", Amount: dec("50.00"), Confirmed: true}))
	ledger.Recompute(dec("100.00"))

	require.Equal(t, PaymentPaid, ledger.Status)
	require.True(t, ledger.AmountPaid.Equal(dec("100.00")))
	require.True(t, ledger.AmountRemaining.IsZero())
}

func TestLedger_UnconfirmedRecordsDoNotCount(t *testing.T) {
	ledger := NewPaymentLedger()
	require.NoError(t, ledger.Record(Payment{ID: "p1", Amount: dec("60.00"), Confirmed: true}))
	require.NoError(t, ledger.Record(Payment{ID: "p2", Amount: dec("40.00"), Confirmed: false}))
	ledger.Recompute(dec("100.00"))

	require.Equal(t, PaymentPartial, ledger.Status)
	require.True(t, ledger.AmountPaid.Equal(dec("60.00")))
	require.True(t, ledger.AmountRemaining.Equal(dec("40.00")))
}

func TestLedger_OverpaymentIsStillPaid(t *testing.T) {
	ledger := NewPaymentLedger()
	require.NoError(t, ledger.Record(Payment{ID: "p1", Amount: dec("120.00"), Confirmed: true}))
	ledger.Recompute(dec("100.00"))

	require.Equal(t, PaymentPaid, ledger.Status)
	require.True(t, ledger.AmountRemaining.Equal(dec("-20.00")))
}

func TestLedger_ZeroDueStaysAwaiting(t *testing.T) {
	ledger := NewPaymentLedger()
	ledger.Recompute(dec("0"))
	require.Equal(t, PaymentAwaiting, ledger.Status)
}

func TestLedger_RejectsNonPositiveAmounts(t *testing.T) {
	ledger := NewPaymentLedger()
	require.ErrorIs(t, ledger.Record(Payment{ID: "p1", Amount: dec("0")}), ErrInvalidAmount)
	require.ErrorIs(t, ledger.Record(Payment{ID: "p2", Amount: dec("-5.00")}), ErrInvalidAmount)
}

func TestLedger_NotRequiredOverrideIsStickyUntilPayment(t *testing.T) {
	ledger := NewPaymentLedger()
	require.NoError(t, ledger.Override(PaymentNotRequired))

	// Recomputing the due amount alone does not disturb the override.
	ledger.Recompute(dec("100.00"))
	require.Equal(t, PaymentNotRequired, ledger.Status)

	// A confirmed payment ends it and derivation resumes.
	require.NoError(t, ledger.Record(Payment{ID: "p1", Amount: dec("30.00"), Confirmed: true}))
	ledger.Recompute(dec("100.00"))
	require.Equal(t, PaymentPartial, ledger.Status)
	require.False(t, ledger.Overridden)
}

func TestLedger_OverrideClearedByLedgerMutation(t *testing.T) {
	ledger := NewPaymentLedger()
	require.NoError(t, ledger.Record(Payment{ID: "p1", Amount: dec("10.00"), Confirmed: true}))
	require.NoError(t, ledger.Override(PaymentFailed))
	require.Equal(t, PaymentFailed, ledger.Status)

	// An edit is a ledger mutation; the override does not survive it.
	require.NoError(t, ledger.Edit("p1", func(p *Payment) { p.Amount = dec("20.00") }))
	ledger.Recompute(dec("100.00"))
	require.Equal(t, PaymentPartial, ledger.Status)
}

func TestLedger_OverrideRejectsUnknownStatus(t *testing.T) {
	ledger := NewPaymentLedger()
	require.ErrorIs(t, ledger.Override(PaymentStatus("settled")), ErrInvalidPaymentStatus)
}

func TestLedger_EditValidatesAmount(t *testing.T) {
	ledger := NewPaymentLedger()
	require.NoError(t, ledger.Record(Payment{ID: "p1", Amount: dec("10.00"), Confirmed: true}))

	require.ErrorIs(t, ledger.Edit("missing", func(p *Payment) {}), ErrPaymentNotFound)
	require.ErrorIs(t, ledger.Edit("p1", func(p *Payment) { p.Amount = dec("0") }), ErrInvalidAmount)
}

func TestLedger_DeleteRecomputes(t *testing.T) {
	ledger := NewPaymentLedger()
	require.NoError(t, ledger.Record(Payment{ID: "p1", Amount: dec("100.00"), Confirmed: true}))
	ledger.Recompute(dec("100.00"))
	require.Equal(t, PaymentPaid, ledger.Status)

	require.NoError(t, ledger.Delete("p1"))
	ledger.Recompute(dec("100.00"))
	require.Equal(t, PaymentAwaiting, ledger.Status)
	require.True(t, ledger.AmountPaid.IsZero())

	require.ErrorIs(t, ledger.Delete("p1"), ErrPaymentNotFound)
}
