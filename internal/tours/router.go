package tours

import (
	"github.com/gin-gonic/gin"

	"tourly/internal/shared/middleware"
)

func SetupTourRoutes(rg *gin.RouterGroup, controller *Controller) {

	// PUBLIC TOUR BROWSING

	tours := rg.Group("/tours")
	{
		tours.GET("", controller.ListTours)              // GET /api/v1/tours
		tours.GET("/active", controller.GetActiveTours)  // GET /api/v1/tours/active
		tours.GET("/:tourId", controller.GetTour)        // GET /api/v1/tours/:tourId
	}

	// ADMIN TOUR MANAGEMENT

	adminTours := rg.Group("/admin/tours")
	adminTours.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		adminTours.POST("", controller.CreateTour)           // POST /api/v1/admin/tours
		adminTours.PUT("/:tourId", controller.UpdateTour)    // PUT /api/v1/admin/tours/:tourId
		adminTours.DELETE("/:tourId", controller.DeleteTour) // DELETE /api/v1/admin/tours/:tourId
	}
}
