package bookings

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tourly/internal/seats"
	"tourly/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// CreateBooking accepts a booking form from the public client.
func (c *Controller) CreateBooking(ctx *gin.Context) {
	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	booking, err := c.service.CreateBooking(ctx.Request.Context(), req)
	if err != nil {
		if seats.IsConflict(err) {
			response.RespondJSON(ctx, "error", http.StatusConflict, "Seat no longer available", nil, gin.H{
				"seat": seats.ConflictSeat(err),
			})
			return
		}
		response.RespondJSON(ctx, "error", bookingErrorStatus(err), "Failed to create booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

func (c *Controller) GetBooking(ctx *gin.Context) {
	bookingID := ctx.Param("bookingId")
	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID)
	if err != nil {
		response.RespondJSON(ctx, "error", bookingErrorStatus(err), "Failed to get booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking retrieved successfully", booking, nil)
}

// GetBookingStatus serves the status poll for confirmation pages.
func (c *Controller) GetBookingStatus(ctx *gin.Context) {
	bookingID := ctx.Param("bookingId")
	status, err := c.service.GetBookingStatus(ctx.Request.Context(), bookingID)
	if err != nil {
		response.RespondJSON(ctx, "error", bookingErrorStatus(err), "Failed to get booking status", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking status retrieved successfully", status, nil)
}

func (c *Controller) GetClientBookings(ctx *gin.Context) {
	clientID := ctx.Param("clientId")
	if _, err := uuid.Parse(clientID); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid client ID", nil, err.Error())
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(ctx.DefaultQuery("offset", "0"))

	bookings, err := c.service.GetClientBookings(ctx.Request.Context(), clientID, limit, offset)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get bookings", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", bookings, nil)
}

//  ADMIN OPERATIONS

func (c *Controller) ListBookings(ctx *gin.Context) {
	var query BookingListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.ListBookings(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list bookings", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Bookings retrieved successfully", result, nil)
}

func (c *Controller) ApproveBooking(ctx *gin.Context) {
	adminID, err := currentUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	booking, err := c.service.ApproveBooking(ctx.Request.Context(), ctx.Param("bookingId"), adminID)
	if err != nil {
		if seats.IsConflict(err) {
			response.RespondJSON(ctx, "error", http.StatusConflict, "Seat no longer available", nil, gin.H{
				"seat": seats.ConflictSeat(err),
			})
			return
		}
		response.RespondJSON(ctx, "error", bookingErrorStatus(err), "Failed to approve booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking approved successfully", booking, nil)
}

func (c *Controller) RejectBooking(ctx *gin.Context) {
	adminID, err := currentUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	var req ResolveBookingRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
			return
		}
	}

	booking, err := c.service.RejectBooking(ctx.Request.Context(), ctx.Param("bookingId"), adminID, req.Reason)
	if err != nil {
		response.RespondJSON(ctx, "error", bookingErrorStatus(err), "Failed to reject booking", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Booking rejected successfully", booking, nil)
}

func currentUserID(ctx *gin.Context) (uuid.UUID, error) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, errors.New("no authenticated user in context")
	}
	id, ok := raw.(string)
	if !ok {
		return uuid.Nil, errors.New("no authenticated user in context")
	}
	return uuid.Parse(id)
}

func bookingErrorStatus(err error) int {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBookingNotPending):
		return http.StatusConflict
	case errors.Is(err, ErrTourNotBookable),
		errors.Is(err, ErrSeatsMismatch),
		errors.Is(err, ErrPaymentRefRequired):
		return http.StatusBadRequest
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "invalid"),
		strings.Contains(msg, "unknown seat"),
		strings.Contains(msg, "does not"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
