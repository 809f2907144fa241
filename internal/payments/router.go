package payments

import (
	"github.com/gin-gonic/gin"

	"tourly/internal/shared/middleware"
)

func SetupPaymentRoutes(rg *gin.RouterGroup, controller *Controller) {
	// Public: the booking form reads the enabled methods.
	rg.GET("/payment-settings", controller.GetSettings) // GET /api/v1/payment-settings

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuth(), middleware.RequireAdmin())
	{
		admin.PUT("/payment-settings", controller.UpdateSettings) // PUT /api/v1/admin/payment-settings
	}
}
