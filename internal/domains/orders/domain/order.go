package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"
	"github.com/loziogigio/vinc-pim-sub014/internal/shared/money"
	"github.com/loziogigio/vinc-pim-sub014/internal/shared/transition"
)

// Status enumerates the order lifecycle.
type Status = transition.State

const (
	StatusDraft     Status = "draft"
	StatusQuotation Status = "quotation"
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Transitions is the order status matrix. Delivered and cancelled are terminal.
var Transitions = transition.Table{
	StatusDraft: {
		StatusQuotation: {actor.RoleSales},
		StatusPending:   {actor.RoleCustomer, actor.RoleAPI, actor.RoleSales},
		StatusCancelled: {actor.RoleCustomer, actor.RoleSales},
	},
	StatusQuotation: {
		StatusDraft:     {actor.RoleSales},
		StatusPending:   {actor.RoleCustomer, actor.RoleAPI, actor.RoleSales},
		StatusCancelled: {actor.RoleCustomer, actor.RoleSales},
	},
	StatusPending: {
		StatusConfirmed: {actor.RoleSystem, actor.RoleAPI, actor.RoleSales},
		StatusCancelled: {actor.RoleCustomer, actor.RoleSales},
	},
	StatusConfirmed: {
		StatusShipped:   {actor.RoleWarehouse},
		StatusCancelled: {},
	},
	StatusShipped: {
		StatusDelivered: {actor.RoleWarehouse, actor.RoleSystem},
	},
	StatusDelivered: {},
	StatusCancelled: {},
}

var (
	ErrLineNotFound       = errors.New("order line not found")
	ErrAdjustmentNotFound = errors.New("line adjustment not found")
	ErrPaymentNotFound    = errors.New("payment not found")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrOrderLocked        = errors.New("order status forbids modification")
	ErrInvalidStatus      = errors.New("order status is invalid")
)

// lineNumberStep leaves gaps so lines can be spliced in without renumbering.
const lineNumberStep = 10

// Order is the commerce aggregate root: cart lines, derived totals, and the
// embedded payment ledger. Monetary fields are derived — Recalculate is the
// only writer.
type Order struct {
	ID         string
	TenantID   string
	CustomerID string
	Status     Status
	IsCurrent  bool
	Notes      string

	Items []LineItem

	ShippingCost  decimal.Decimal
	SubtotalGross decimal.Decimal
	SubtotalNet   decimal.Decimal
	TotalDiscount decimal.Decimal
	TotalVAT      decimal.Decimal
	OrderTotal    decimal.Decimal

	Payment PaymentLedger

	// History is the status audit trail, appended on every transition.
	History []StatusChange

	// Version backs optimistic concurrency; the repository bumps it on save.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusChange is one audit entry of the order's lifecycle.
type StatusChange struct {
	From    Status
	To      Status
	ActorID string
	At      time.Time
}

// TransitionTo writes the status and an audit entry; the transition itself must
// already be authorized against the table. Totals are untouched.
func (o *Order) TransitionTo(to Status, actorID string, now time.Time) {
	o.History = append(o.History, StatusChange{From: o.Status, To: to, ActorID: actorID, At: now})
	o.Status = to
}

// LineItem is one order line. LineNumber is unique within the order and grows
// by tens. Derived fields are recomputed by Recalculate.
type LineItem struct {
	LineNumber  int
	SKU         string
	Description string
	Quantity    int
	ListPrice   decimal.Decimal
	UnitPrice   decimal.Decimal
	VATRate     decimal.Decimal

	LineGross decimal.Decimal
	LineNet   decimal.Decimal
	LineVAT   decimal.Decimal
	LineTotal decimal.Decimal

	Adjustments []Adjustment
}

// NewOrder constructs a fresh draft for a tenant's customer.
func NewOrder(id, tenantID, customerID string, now time.Time) *Order {
	o := &Order{
		ID:         id,
		TenantID:   tenantID,
		CustomerID: customerID,
		Status:     StatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	o.Payment = NewPaymentLedger()
	o.Recalculate()
	return o
}

// CanModify reports whether cart-mutating operations are allowed. Only draft
// and quotation orders are editable; everything later is locked.
func (o *Order) CanModify() bool {
	return o.Status == StatusDraft || o.Status == StatusQuotation
}

// Validate enforces structural invariants on the aggregate.
func (o *Order) Validate() error {
	if !Transitions.Known(o.Status) {
		return ErrInvalidStatus
	}
	seen := make(map[int]struct{}, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		if item.Quantity <= 0 {
			return ErrInvalidQuantity
		}
		if _, dup := seen[item.LineNumber]; dup {
			return errors.New("duplicate line number")
		}
		seen[item.LineNumber] = struct{}{}
	}
	return nil
}

// NextLineNumber returns the line number for an appended line.
func (o *Order) NextLineNumber() int {
	max := 0
	for i := range o.Items {
		if o.Items[i].LineNumber > max {
			max = o.Items[i].LineNumber
		}
	}
	return max + lineNumberStep
}

// Line returns the item with the given line number, or nil.
func (o *Order) Line(lineNumber int) *LineItem {
	for i := range o.Items {
		if o.Items[i].LineNumber == lineNumber {
			return &o.Items[i]
		}
	}
	return nil
}

// AddLine appends a new line and returns it. Pricing starts at list price;
// adjustments come later through the adjustment engine.
func (o *Order) AddLine(sku, description string, quantity int, listPrice, vatRate decimal.Decimal) (*LineItem, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	item := LineItem{
		LineNumber:  o.NextLineNumber(),
		SKU:         sku,
		Description: description,
		Quantity:    quantity,
		ListPrice:   money.Round2(listPrice),
		UnitPrice:   money.Round2(listPrice),
		VATRate:     vatRate,
	}
	o.Items = append(o.Items, item)
	o.Recalculate()
	return o.Line(item.LineNumber), nil
}

// UpdateLineQuantity changes a line's quantity and recomputes totals.
func (o *Order) UpdateLineQuantity(lineNumber, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	line := o.Line(lineNumber)
	if line == nil {
		return ErrLineNotFound
	}
	line.Quantity = quantity
	o.Recalculate()
	return nil
}

// RemoveLine deletes a line. Remaining lines keep their numbers.
func (o *Order) RemoveLine(lineNumber int) error {
	for i := range o.Items {
		if o.Items[i].LineNumber == lineNumber {
			o.Items = append(o.Items[:i], o.Items[i+1:]...)
			o.Recalculate()
			return nil
		}
	}
	return ErrLineNotFound
}

// SetShippingCost writes the shipping amount and recomputes totals.
func (o *Order) SetShippingCost(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return ErrInvalidAmount
	}
	o.ShippingCost = money.Round2(amount)
	o.Recalculate()
	return nil
}

// Recalculate derives every monetary field from the items and shipping cost,
// rounding to 2 decimals at each step. It is idempotent and total: calling it
// on a well-formed order never fails, and repeated calls are stable.
func (o *Order) Recalculate() {
	gross, net, vat := money.Zero, money.Zero, money.Zero
	for i := range o.Items {
		item := &o.Items[i]
		qty := decimal.NewFromInt(int64(item.Quantity))
		item.LineGross = money.Round2(qty.Mul(item.ListPrice))
		item.LineNet = money.Round2(qty.Mul(item.UnitPrice))
		item.LineVAT = money.Percent(item.LineNet, item.VATRate)
		item.LineTotal = item.LineNet.Add(item.LineVAT)
		gross = gross.Add(item.LineGross)
		net = net.Add(item.LineNet)
		vat = vat.Add(item.LineVAT)
	}
	o.SubtotalGross = gross
	o.SubtotalNet = net
	o.TotalDiscount = gross.Sub(net)
	o.TotalVAT = vat
	o.OrderTotal = net.Add(vat).Add(o.ShippingCost)
	o.Payment.Recompute(o.OrderTotal)
}

// DuplicateOptions controls what the clone carries over.
type DuplicateOptions struct {
	IncludeDiscounts bool
	ResetQuantities  bool
	ClearNotes       bool
}

// Duplicate spawns a fresh draft from this order without mutating it. The
// clone gets a new identity, an empty payment ledger, and no current-cart flag.
func (o *Order) Duplicate(newID string, opts DuplicateOptions, now time.Time) *Order {
	clone := NewOrder(newID, o.TenantID, o.CustomerID, now)
	if !opts.ClearNotes {
		clone.Notes = o.Notes
	}
	clone.ShippingCost = o.ShippingCost
	clone.Items = make([]LineItem, 0, len(o.Items))
	for i := range o.Items {
		src := o.Items[i]
		item := LineItem{
			LineNumber:  src.LineNumber,
			SKU:         src.SKU,
			Description: src.Description,
			Quantity:    src.Quantity,
			ListPrice:   src.ListPrice,
			UnitPrice:   src.UnitPrice,
			VATRate:     src.VATRate,
		}
		if opts.ResetQuantities {
			item.Quantity = 1
		}
		if opts.IncludeDiscounts {
			item.Adjustments = append([]Adjustment(nil), src.Adjustments...)
		} else {
			item.UnitPrice = src.ListPrice
		}
		clone.Items = append(clone.Items, item)
	}
	clone.Recalculate()
	return clone
}

// Clone deep-copies the aggregate so adapters never alias caller state.
func (o *Order) Clone() *Order {
	clone := *o
	clone.Items = make([]LineItem, len(o.Items))
	for i := range o.Items {
		clone.Items[i] = o.Items[i]
		clone.Items[i].Adjustments = append([]Adjustment(nil), o.Items[i].Adjustments...)
	}
	clone.Payment.Payments = append([]Payment(nil), o.Payment.Payments...)
	clone.History = append([]StatusChange(nil), o.History...)
	return &clone
}
