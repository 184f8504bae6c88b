package transport

import (
	"time"

	"github.com/shopspring/decimal"

	ordertypes "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/application/types"
	orderdomain "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/domain"
)

// Monetary amounts travel as decimal strings on the wire; binding into
// decimal.Decimal keeps float64 out of the money path entirely.

type lineRequest struct {
	SKU         string          `json:"sku" binding:"required"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity" binding:"required,gt=0"`
	ListPrice   decimal.Decimal `json:"list_price" binding:"required"`
	VATRate     decimal.Decimal `json:"vat_rate"`
}

type createOrderRequest struct {
	CustomerID  string        `json:"customer_id" binding:"required"`
	Notes       string        `json:"notes"`
	MakeCurrent bool          `json:"make_current"`
	Lines       []lineRequest `json:"lines" binding:"dive"`
}

type transitionOrderRequest struct {
	Status string `json:"status" binding:"required"`
}

type duplicateOrderRequest struct {
	IncludeDiscounts bool `json:"include_discounts"`
	ResetQuantities  bool `json:"reset_quantities"`
	ClearNotes       bool `json:"clear_notes"`
}

type updateLineQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type shippingCostRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type adjustmentRequest struct {
	Type        string          `json:"type" binding:"required,oneof=price_override discount_percentage discount_fixed"`
	NewValue    decimal.Decimal `json:"new_value" binding:"required"`
	Reason      string          `json:"reason" binding:"required"`
	Description string          `json:"description"`
}

type paymentRequest struct {
	Amount     decimal.Decimal `json:"amount" binding:"required"`
	Method     string          `json:"method" binding:"required"`
	Reference  string          `json:"reference"`
	Notes      string          `json:"notes"`
	Confirmed  *bool           `json:"confirmed"`
	RecordedAt *time.Time      `json:"recorded_at"`
}

type paymentPatchRequest struct {
	Amount     *decimal.Decimal `json:"amount"`
	Method     *string          `json:"method"`
	Reference  *string          `json:"reference"`
	Notes      *string          `json:"notes"`
	Confirmed  *bool            `json:"confirmed"`
	RecordedAt *time.Time       `json:"recorded_at"`
}

type paymentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=not_required awaiting partial paid failed refunded"`
}

type createDepartureRequest struct {
	Name      string    `json:"name" binding:"required"`
	DepartsAt time.Time `json:"departs_at" binding:"required"`
	Capacity  int       `json:"capacity" binding:"required,gt=0"`
}

type transitionDepartureRequest struct {
	Status string `json:"status" binding:"required"`
}

type createHoldRequest struct {
	OrderID      string `json:"order_id" binding:"required"`
	DepartureID  string `json:"departure_id" binding:"required"`
	ResourceType string `json:"resource_type"`
	Units        int    `json:"units" binding:"required,gt=0"`
	TTLSeconds   int    `json:"ttl_seconds" binding:"gte=0"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason"`
}

func (r lineRequest) toInput() ordertypes.LineInput {
	return ordertypes.LineInput{
		SKU:         r.SKU,
		Description: r.Description,
		Quantity:    r.Quantity,
		ListPrice:   r.ListPrice,
		VATRate:     r.VATRate,
	}
}

func (r createOrderRequest) toInput() ordertypes.CreateOrderInput {
	lines := make([]ordertypes.LineInput, 0, len(r.Lines))
	for _, line := range r.Lines {
		lines = append(lines, line.toInput())
	}
	return ordertypes.CreateOrderInput{
		CustomerID:  r.CustomerID,
		Notes:       r.Notes,
		MakeCurrent: r.MakeCurrent,
		Lines:       lines,
	}
}

func (r duplicateOrderRequest) toOptions() orderdomain.DuplicateOptions {
	return orderdomain.DuplicateOptions{
		IncludeDiscounts: r.IncludeDiscounts,
		ResetQuantities:  r.ResetQuantities,
		ClearNotes:       r.ClearNotes,
	}
}

func (r adjustmentRequest) toInput() ordertypes.AdjustmentInput {
	return ordertypes.AdjustmentInput{
		Type:        r.Type,
		NewValue:    r.NewValue,
		Reason:      r.Reason,
		Description: r.Description,
	}
}

func (r paymentRequest) toInput(idempotencyKey string) ordertypes.PaymentInput {
	return ordertypes.PaymentInput{
		Amount:         r.Amount,
		Method:         r.Method,
		Reference:      r.Reference,
		Notes:          r.Notes,
		Confirmed:      r.Confirmed,
		RecordedAt:     r.RecordedAt,
		IdempotencyKey: idempotencyKey,
	}
}

func (r paymentPatchRequest) toPatch() ordertypes.PaymentPatch {
	return ordertypes.PaymentPatch{
		Amount:     r.Amount,
		Method:     r.Method,
		Reference:  r.Reference,
		Notes:      r.Notes,
		Confirmed:  r.Confirmed,
		RecordedAt: r.RecordedAt,
	}
}
