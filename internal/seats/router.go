package seats

import (
	"github.com/gin-gonic/gin"
)

// SetupSeatRoutes registers the public seat map endpoints. Reservation
// identity is the client-generated UUID in the request body, not a login,
// so no auth middleware applies here.
func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller) {
	tours := rg.Group("/tours")
	{
		tours.GET("/:tourId/seats", controller.GetSeatMap)   // GET /api/v1/tours/:tourId/seats?bus=0
		tours.POST("/:tourId/seats", controller.ReserveSeats) // POST /api/v1/tours/:tourId/seats?bus=0
	}
}
