package analytics

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tourly/internal/shared/utils/response"
)

// Controller defines the analytics controller interface
type Controller interface {
	GetOverview(c *gin.Context)
	GetTourOccupancy(c *gin.Context)
	GetDailyBookingStats(c *gin.Context)
}

// controller implements the Controller interface
type controller struct {
	service Service
}

// NewController creates a new analytics controller instance
func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) GetOverview(c *gin.Context) {
	overview, err := ctrl.service.GetOverview()
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Overview analytics retrieved successfully", overview, nil)
}

func (ctrl *controller) GetTourOccupancy(c *gin.Context) {
	occupancy, err := ctrl.service.GetTourOccupancy()
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Tour occupancy retrieved successfully", occupancy, nil)
}

func (ctrl *controller) GetDailyBookingStats(c *gin.Context) {
	days := 30
	if daysStr := c.Query("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil || parsed < 1 || parsed > 365 {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid days parameter", nil, "days must be between 1 and 365")
			return
		}
		days = parsed
	}

	stats, err := ctrl.service.GetDailyBookingStats(days)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, err.Error(), nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Daily booking statistics retrieved successfully", stats, nil)
}
