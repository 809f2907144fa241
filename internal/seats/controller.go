package seats

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"tourly/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetSeatMap serves the polled seat map for one bus of a tour.
func (c *Controller) GetSeatMap(ctx *gin.Context) {
	tourID := ctx.Param("tourId")
	if tourID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Tour ID is required", nil, "missing tour ID")
		return
	}

	busIndex, err := busIndexParam(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid bus index", nil, err.Error())
		return
	}

	seatMap, err := c.service.GetSeatMap(ctx.Request.Context(), tourID, busIndex)
	if err != nil {
		response.RespondJSON(ctx, "error", seatErrorStatus(err), "Failed to get seat map", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Seat map retrieved successfully", seatMap, nil)
}

// ReserveSeats replaces the calling client's reservation set for one bus.
func (c *Controller) ReserveSeats(ctx *gin.Context) {
	tourID := ctx.Param("tourId")
	if tourID == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Tour ID is required", nil, "missing tour ID")
		return
	}

	busIndex, err := busIndexParam(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid bus index", nil, err.Error())
		return
	}

	var req ReserveSeatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	result, err := c.service.ReplaceReservations(ctx.Request.Context(), tourID, busIndex, req)
	if err != nil {
		if IsConflict(err) {
			response.RespondJSON(ctx, "error", http.StatusConflict, "Seat no longer available", nil, gin.H{
				"seat": ConflictSeat(err),
			})
			return
		}
		response.RespondJSON(ctx, "error", seatErrorStatus(err), "Failed to reserve seats", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Reservations updated successfully", result, nil)
}

// busIndexParam reads the optional ?bus= query parameter, defaulting to
// the first bus.
func busIndexParam(ctx *gin.Context) (int, error) {
	raw := ctx.DefaultQuery("bus", "0")
	return strconv.Atoi(raw)
}

func seatErrorStatus(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "does not exist"),
		strings.Contains(msg, "unknown seat"),
		strings.Contains(msg, "not open"),
		strings.Contains(msg, "seat selection"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
