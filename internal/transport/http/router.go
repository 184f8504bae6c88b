// Package transport exposes the lifecycle engine over HTTP with gin.
package transport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	bookingports "github.com/loziogigio/vinc-pim-sub014/internal/domains/bookings/ports"
	orderports "github.com/loziogigio/vinc-pim-sub014/internal/domains/orders/ports"
	"github.com/loziogigio/vinc-pim-sub014/internal/shared/actor"
)

// Handlers groups the per-context HTTP APIs mounted by the router.
type Handlers struct {
	Orders   OrderAPI
	Bookings BookingAPI
}

// NewHandlers builds the handler set from the application services.
func NewHandlers(orders orderports.Service, bookings bookingports.Service) Handlers {
	return Handlers{
		Orders:   NewOrderAPI(orders),
		Bookings: NewBookingAPI(bookings),
	}
}

// NewRouter mounts every route under /v1. All routes except the health check
// require the identity headers. Extra middleware runs before every route.
func NewRouter(handlers Handlers, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	v1.Use(ActorContext())

	orders := v1.Group("/orders")
	{
		orders.POST("", handlers.Orders.CreateOrder)
		orders.GET("/:id", handlers.Orders.GetOrder)
		orders.POST("/:id/transition", handlers.Orders.TransitionOrder)
		orders.POST("/:id/duplicate", handlers.Orders.DuplicateOrder)
		orders.POST("/:id/lines", handlers.Orders.AddLine)
		orders.PATCH("/:id/lines/:line", handlers.Orders.UpdateLineQuantity)
		orders.DELETE("/:id/lines/:line", handlers.Orders.RemoveLine)
		orders.PUT("/:id/shipping", handlers.Orders.SetShippingCost)
		orders.POST("/:id/lines/:line/adjustments", handlers.Orders.AddLineAdjustment)
		orders.DELETE("/:id/adjustments/:adjustmentId", handlers.Orders.RemoveLineAdjustment)
		orders.POST("/:id/payments", handlers.Orders.RecordPayment)
		orders.PATCH("/:id/payments/:paymentId", handlers.Orders.EditPayment)
		orders.DELETE("/:id/payments/:paymentId", handlers.Orders.DeletePayment)
		orders.PUT("/:id/payment-status", handlers.Orders.UpdatePaymentStatus)
	}

	departures := v1.Group("/departures")
	{
		departures.POST("", handlers.Bookings.CreateDeparture)
		departures.GET("/:id", handlers.Bookings.GetDeparture)
		departures.POST("/:id/transition", handlers.Bookings.TransitionDeparture)
	}

	bookings := v1.Group("/bookings")
	{
		bookings.POST("/holds", handlers.Bookings.CreateHold)
		bookings.GET("/:id", handlers.Bookings.GetBooking)
		bookings.POST("/:id/confirm", handlers.Bookings.ConfirmBooking)
		bookings.POST("/:id/cancel", handlers.Bookings.CancelBooking)
		bookings.POST("/:id/check-in", handlers.Bookings.CheckInBooking)
		bookings.POST("/:id/no-show", handlers.Bookings.MarkNoShow)
		bookings.POST("/sweep-expired", RequireRole(actor.RoleSystem), handlers.Bookings.SweepExpiredHolds)
	}

	return router
}
