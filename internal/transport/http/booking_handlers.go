package transport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	bookingtypes "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/application/types"
	bookingdomain "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/domain"
	bookingports "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/ports"
)

// BookingAPI wires HTTP transport with the bookings bounded context service.
type BookingAPI struct {
	service bookingports.Service
}

// NewBookingAPI creates a BookingAPI backed by the provided service.
func NewBookingAPI(service bookingports.Service) BookingAPI {
	return BookingAPI{service: service}
}

// Post /v1/bookings/holds
// Reserve capacity against a departure
func (api *BookingAPI) CreateHold(c *gin.Context) {
	var payload createHoldRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	input := bookingtypes.CreateHoldInput{
		OrderID:      payload.OrderID,
		DepartureID:  payload.DepartureID,
		ResourceType: payload.ResourceType,
		Units:        payload.Units,
		TTL:          time.Duration(payload.TTLSeconds) * time.Second,
	}
	booking, err := api.service.CreateHold(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, booking)
}

// Get /v1/bookings/:id
// Load a booking
func (api *BookingAPI) GetBooking(c *gin.Context) {
	booking, err := api.service.GetBooking(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Post /v1/bookings/:id/confirm
// Confirm a hold
func (api *BookingAPI) ConfirmBooking(c *gin.Context) {
	booking, err := api.service.ConfirmBooking(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Post /v1/bookings/:id/cancel
// Cancel a held or confirmed booking
func (api *BookingAPI) CancelBooking(c *gin.Context) {
	var payload cancelBookingRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	booking, err := api.service.CancelBooking(c.Request.Context(), actorFrom(c), c.Param("id"), payload.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Post /v1/bookings/:id/check-in
// Check in a confirmed booking
func (api *BookingAPI) CheckInBooking(c *gin.Context) {
	booking, err := api.service.CheckInBooking(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Post /v1/bookings/:id/no-show
// Mark a confirmed booking as a no-show
func (api *BookingAPI) MarkNoShow(c *gin.Context) {
	booking, err := api.service.MarkNoShow(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

// Post /v1/bookings/sweep-expired
// Expire every lapsed hold now
func (api *BookingAPI) SweepExpiredHolds(c *gin.Context) {
	expired, err := api.service.ExpireDueHolds(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"expired": expired})
}

// Post /v1/departures
// Open a new departure
func (api *BookingAPI) CreateDeparture(c *gin.Context) {
	var payload createDepartureRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	input := bookingtypes.CreateDepartureInput{
		Name:      payload.Name,
		DepartsAt: payload.DepartsAt,
		Capacity:  payload.Capacity,
	}
	departure, err := api.service.CreateDeparture(c.Request.Context(), actorFrom(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, departure)
}

// Get /v1/departures/:id
// Load a departure with its capacity counters
func (api *BookingAPI) GetDeparture(c *gin.Context) {
	departure, err := api.service.GetDeparture(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, departure)
}

// Post /v1/departures/:id/transition
// Drive the departure lifecycle
func (api *BookingAPI) TransitionDeparture(c *gin.Context) {
	var payload transitionDepartureRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	departure, err := api.service.TransitionDeparture(
		c.Request.Context(), actorFrom(c), c.Param("id"), bookingdomain.DepartureStatus(payload.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, departure)
}
