package transport

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	orderdomain "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/domain"
	orderports "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/ports"
	sharederrors "github.com/loziogigio/vinc-pim-sub014/internal/shared/errors"
)

// IdempotencyKeyHeader carries the client-chosen payment retry key.
const IdempotencyKeyHeader = "Idempotency-Key"

// OrderAPI wires HTTP transport with the orders bounded context service.
type OrderAPI struct {
	service orderports.Service
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service orderports.Service) OrderAPI {
	return OrderAPI{service: service}
}

// Post /v1/orders
// Open a new draft order
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload createOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := api.service.CreateOrder(c.Request.Context(), actorFrom(c), payload.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Get /v1/orders/:id
// Load an order
func (api *OrderAPI) GetOrder(c *gin.Context) {
	order, err := api.service.GetOrder(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Post /v1/orders/:id/transition
// Move the order to a new status
func (api *OrderAPI) TransitionOrder(c *gin.Context) {
	var payload transitionOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := api.service.Transition(c.Request.Context(), actorFrom(c), c.Param("id"), orderdomain.Status(payload.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Post /v1/orders/:id/duplicate
// Clone the order as a fresh draft
func (api *OrderAPI) DuplicateOrder(c *gin.Context) {
	var payload duplicateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := api.service.Duplicate(c.Request.Context(), actorFrom(c), c.Param("id"), payload.toOptions())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Post /v1/orders/:id/lines
// Append a cart line
func (api *OrderAPI) AddLine(c *gin.Context) {
	var payload lineRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := api.service.AddLine(c.Request.Context(), actorFrom(c), c.Param("id"), payload.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Patch /v1/orders/:id/lines/:line
// Change a line quantity
func (api *OrderAPI) UpdateLineQuantity(c *gin.Context) {
	lineNumber, ok := parseLineParam(c)
	if !ok {
		return
	}
	var payload updateLineQuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := api.service.UpdateLineQuantity(c.Request.Context(), actorFrom(c), c.Param("id"), lineNumber, payload.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Delete /v1/orders/:id/lines/:line
// Remove a line
func (api *OrderAPI) RemoveLine(c *gin.Context) {
	lineNumber, ok := parseLineParam(c)
	if !ok {
		return
	}
	order, err := api.service.RemoveLine(c.Request.Context(), actorFrom(c), c.Param("id"), lineNumber)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Put /v1/orders/:id/shipping
// Set the shipping cost
func (api *OrderAPI) SetShippingCost(c *gin.Context) {
	var payload shippingCostRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := api.service.SetShippingCost(c.Request.Context(), actorFrom(c), c.Param("id"), payload.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Post /v1/orders/:id/lines/:line/adjustments
// Apply a price adjustment to a line
func (api *OrderAPI) AddLineAdjustment(c *gin.Context) {
	lineNumber, ok := parseLineParam(c)
	if !ok {
		return
	}
	var payload adjustmentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := api.service.AddLineAdjustment(c.Request.Context(), actorFrom(c), c.Param("id"), lineNumber, payload.toInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Delete /v1/orders/:id/adjustments/:adjustmentId
// Remove an adjustment from its line
func (api *OrderAPI) RemoveLineAdjustment(c *gin.Context) {
	order, err := api.service.RemoveLineAdjustment(c.Request.Context(), actorFrom(c), c.Param("id"), c.Param("adjustmentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Post /v1/orders/:id/payments
// Record a payment against the order
func (api *OrderAPI) RecordPayment(c *gin.Context) {
	var payload paymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	input := payload.toInput(c.GetHeader(IdempotencyKeyHeader))
	order, err := api.service.RecordPayment(c.Request.Context(), actorFrom(c), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// Patch /v1/orders/:id/payments/:paymentId
// Correct an existing payment record
func (api *OrderAPI) EditPayment(c *gin.Context) {
	var payload paymentPatchRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := api.service.EditPayment(c.Request.Context(), actorFrom(c), c.Param("id"), c.Param("paymentId"), payload.toPatch())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Delete /v1/orders/:id/payments/:paymentId
// Remove a payment record
func (api *OrderAPI) DeletePayment(c *gin.Context) {
	order, err := api.service.DeletePayment(c.Request.Context(), actorFrom(c), c.Param("id"), c.Param("paymentId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// Put /v1/orders/:id/payment-status
// Manually override the payment ledger status
func (api *OrderAPI) UpdatePaymentStatus(c *gin.Context) {
	var payload paymentStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	order, err := api.service.UpdatePaymentStatus(c.Request.Context(), actorFrom(c), c.Param("id"), orderdomain.PaymentStatus(payload.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func parseLineParam(c *gin.Context) (int, bool) {
	lineNumber, err := strconv.Atoi(c.Param("line"))
	if err != nil {
		responder.Respond(c, sharederrors.ErrBadRequest.WithDetail("line must be an integer"))
		return 0, false
	}
	return lineNumber, true
}
