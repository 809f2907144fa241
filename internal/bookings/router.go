package bookings

import (
	"github.com/gin-gonic/gin"

	"tourly/internal/shared/middleware"
)

func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller) {

	// PUBLIC BOOKING FLOW
	// Identity is the client-generated UUID in the payload; no login.

	bookings := rg.Group("/bookings")
	{
		bookings.POST("", controller.CreateBooking)                       // POST /api/v1/bookings
		bookings.GET("/:bookingId", controller.GetBooking)                // GET /api/v1/bookings/:bookingId
		bookings.GET("/:bookingId/status", controller.GetBookingStatus)   // GET /api/v1/bookings/:bookingId/status
	}

	clients := rg.Group("/clients")
	{
		clients.GET("/:clientId/bookings", controller.GetClientBookings) // GET /api/v1/clients/:clientId/bookings
	}

	// ADMIN BOOKING MANAGEMENT

	adminBookings := rg.Group("/admin/bookings")
	adminBookings.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminBookings.GET("", controller.ListBookings)                       // GET /api/v1/admin/bookings
		adminBookings.GET("/:bookingId", controller.GetBooking)              // GET /api/v1/admin/bookings/:bookingId
		adminBookings.POST("/:bookingId/approve", controller.ApproveBooking) // POST /api/v1/admin/bookings/:bookingId/approve
		adminBookings.POST("/:bookingId/reject", controller.RejectBooking)   // POST /api/v1/admin/bookings/:bookingId/reject
	}
}
