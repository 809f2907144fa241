package analytics

import (
	"github.com/gin-gonic/gin"

	"tourly/internal/shared/middleware"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller Controller) {
	admin := rg.Group("/admin/analytics")
	admin.Use(middleware.JWTAuth())
	admin.Use(middleware.RequireAdmin())

	admin.GET("/overview", controller.GetOverview)
	admin.GET("/occupancy", controller.GetTourOccupancy)
	admin.GET("/bookings/daily", controller.GetDailyBookingStats)
}
