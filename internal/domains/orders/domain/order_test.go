package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTestOrder(t *testing.T) *Order {
	t.Helper()
	return NewOrder("ord-1", "tenant-a", "cust-1", time.Now())
}

func TestAddLine_ComputesTotals(t *testing.T) {
	order := newTestOrder(t)

	// 10 x 25.00 at 22% VAT: net 250.00, VAT 55.00, total 305.00
	_, err := order.AddLine("SKU-1", "widget", 10, dec("25.00"), dec("22"))
	require.NoError(t, err)

	require.True(t, order.SubtotalNet.Equal(dec("250.00")), "net = %s", order.SubtotalNet)
	require.True(t, order.TotalVAT.Equal(dec("55.00")), "vat = %s", order.TotalVAT)
	require.True(t, order.OrderTotal.Equal(dec("305.00")), "total = %s", order.OrderTotal)
	require.True(t, order.TotalDiscount.IsZero())
	require.True(t, order.Payment.AmountDue.Equal(dec("305.00")))
}

func TestAddLine_RejectsNonPositiveQuantity(t *testing.T) {
	order := newTestOrder(t)
	_, err := order.AddLine("SKU-1", "widget", 0, dec("25.00"), dec("22"))
	require.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestLineNumbers_GrowByTensAndSurviveRemoval(t *testing.T) {
	order := newTestOrder(t)
	first, err := order.AddLine("SKU-1", "", 1, dec("1.00"), dec("0"))
	require.NoError(t, err)
	second, err := order.AddLine("SKU-2", "", 1, dec("1.00"), dec("0"))
	require.NoError(t, err)
	require.Equal(t, 10, first.LineNumber)
	require.Equal(t, 20, second.LineNumber)

	require.NoError(t, order.RemoveLine(10))
	third, err := order.AddLine("SKU-3", "", 1, dec("1.00"), dec("0"))
	require.NoError(t, err)
	require.Equal(t, 30, third.LineNumber)
}

func TestPercentageDiscount_RecomputesEverything(t *testing.T) {
	order := newTestOrder(t)
	line, err := order.AddLine("SKU-1", "widget", 10, dec("25.00"), dec("22"))
	require.NoError(t, err)

	// 20% off list: unit 20.00, net 200.00, discount 50.00, VAT 44.00, total 244.00
	err = line.ApplyAdjustment(Adjustment{
		ID: "adj-1", Type: AdjustmentDiscountPercentage, NewValue: dec("20"),
	})
	require.NoError(t, err)
	order.Recalculate()

	require.True(t, line.UnitPrice.Equal(dec("20.00")), "unit = %s", line.UnitPrice)
	require.True(t, order.SubtotalGross.Equal(dec("250.00")))
	require.True(t, order.SubtotalNet.Equal(dec("200.00")))
	require.True(t, order.TotalDiscount.Equal(dec("50.00")))
	require.True(t, order.TotalVAT.Equal(dec("44.00")))
	require.True(t, order.OrderTotal.Equal(dec("244.00")))
}

func TestAdjustmentChain_LastWinsAndReplaysOnRemoval(t *testing.T) {
	order := newTestOrder(t)
	line, err := order.AddLine("SKU-1", "widget", 1, dec("100.00"), dec("0"))
	require.NoError(t, err)

	require.NoError(t, line.ApplyAdjustment(Adjustment{ID: "a", Type: AdjustmentDiscountPercentage, NewValue: dec("10")}))
	require.NoError(t, line.ApplyAdjustment(Adjustment{ID: "b", Type: AdjustmentPriceOverride, NewValue: dec("75.50")}))
	require.True(t, line.UnitPrice.Equal(dec("75.50")))

	// Removing the override replays the remaining chain from the list price.
	require.NoError(t, line.RemoveAdjustment("b"))
	require.True(t, line.UnitPrice.Equal(dec("90.00")), "unit = %s", line.UnitPrice)

	require.NoError(t, line.RemoveAdjustment("a"))
	require.True(t, line.UnitPrice.Equal(dec("100.00")))

	require.ErrorIs(t, line.RemoveAdjustment("missing"), ErrAdjustmentNotFound)
}

func TestFixedDiscount_FloorsAtZero(t *testing.T) {
	order := newTestOrder(t)
	line, err := order.AddLine("SKU-1", "widget", 1, dec("5.00"), dec("0"))
	require.NoError(t, err)

	require.NoError(t, line.ApplyAdjustment(Adjustment{ID: "a", Type: AdjustmentDiscountFixed, NewValue: dec("9.00")}))
	require.True(t, line.UnitPrice.IsZero())
}

func TestApplyAdjustment_RejectsUnknownType(t *testing.T) {
	order := newTestOrder(t)
	line, err := order.AddLine("SKU-1", "widget", 1, dec("5.00"), dec("0"))
	require.NoError(t, err)

	err = line.ApplyAdjustment(Adjustment{ID: "a", Type: "coupon", NewValue: dec("1.00")})
	require.ErrorIs(t, err, ErrUnknownAdjustmentType)
}

func TestRecalculate_IsIdempotent(t *testing.T) {
	order := newTestOrder(t)
	_, err := order.AddLine("SKU-1", "widget", 3, dec("19.99"), dec("22"))
	require.NoError(t, err)
	require.NoError(t, order.SetShippingCost(dec("7.50")))

	total := order.OrderTotal
	for i := 0; i < 5; i++ {
		order.Recalculate()
	}
	require.True(t, order.OrderTotal.Equal(total))
}

func TestSetShippingCost_RejectsNegative(t *testing.T) {
	order := newTestOrder(t)
	require.ErrorIs(t, order.SetShippingCost(dec("-1.00")), ErrInvalidAmount)
}

func TestDuplicate_OptionsControlTheClone(t *testing.T) {
	order := newTestOrder(t)
	order.Notes = "rush delivery"
	line, err := order.AddLine("SKU-1", "widget", 4, dec("50.00"), dec("22"))
	require.NoError(t, err)
	require.NoError(t, line.ApplyAdjustment(Adjustment{ID: "a", Type: AdjustmentDiscountPercentage, NewValue: dec("50")}))
	order.Recalculate()
	require.NoError(t, order.Payment.Record(Payment{ID: "p1", Amount: dec("10.00"), Confirmed: true}))
	order.Recalculate()

	clone := order.Duplicate("ord-2", DuplicateOptions{IncludeDiscounts: true}, time.Now())
	require.Equal(t, StatusDraft, clone.Status)
	require.Equal(t, "rush delivery", clone.Notes)
	require.Len(t, clone.Items[0].Adjustments, 1)
	require.True(t, clone.Items[0].UnitPrice.Equal(dec("25.00")))
	require.Empty(t, clone.Payment.Payments, "payments never carry over")
	require.False(t, clone.IsCurrent)

	bare := order.Duplicate("ord-3", DuplicateOptions{ResetQuantities: true, ClearNotes: true}, time.Now())
	require.Empty(t, bare.Notes)
	require.Equal(t, 1, bare.Items[0].Quantity)
	require.Empty(t, bare.Items[0].Adjustments)
	require.True(t, bare.Items[0].UnitPrice.Equal(dec("50.00")), "discounts dropped, back to list")

	// The source is untouched.
	require.Equal(t, 4, order.Items[0].Quantity)
	require.Len(t, order.Payment.Payments, 1)
}

func TestTransitionTable_RoleEnforcement(t *testing.T) {
	require.True(t, Transitions.Can(StatusDraft, StatusPending, actor.RoleCustomer))
	require.True(t, Transitions.Can(StatusDraft, StatusQuotation, actor.RoleSales))
	require.False(t, Transitions.Can(StatusDraft, StatusQuotation, actor.RoleCustomer))
	require.False(t, Transitions.Can(StatusDraft, StatusShipped, actor.RoleAdmin), "no edge, even for admin")

	// confirmed→cancelled carries an empty role set: admin only.
	require.False(t, Transitions.Can(StatusConfirmed, StatusCancelled, actor.RoleSales))
	require.True(t, Transitions.Can(StatusConfirmed, StatusCancelled, actor.RoleAdmin))

	require.True(t, Transitions.Terminal(StatusDelivered))
	require.True(t, Transitions.Terminal(StatusCancelled))
	require.False(t, Transitions.Terminal(StatusShipped))
}

func TestTransitionTo_AppendsHistory(t *testing.T) {
	order := newTestOrder(t)
	now := time.Now()
	order.TransitionTo(StatusPending, "cust-1", now)
	order.TransitionTo(StatusConfirmed, "system", now.Add(time.Minute))

	require.Equal(t, StatusConfirmed, order.Status)
	require.Len(t, order.History, 2)
	require.Equal(t, StatusDraft, order.History[0].From)
	require.Equal(t, StatusPending, order.History[0].To)
	require.Equal(t, "cust-1", order.History[0].ActorID)
}

func TestCanModify_OnlyDraftAndQuotation(t *testing.T) {
	order := newTestOrder(t)
	require.True(t, order.CanModify())
	order.Status = StatusQuotation
	require.True(t, order.CanModify())
	order.Status = StatusPending
	require.False(t, order.CanModify())
	order.Status = StatusConfirmed
	require.False(t, order.CanModify())
}
