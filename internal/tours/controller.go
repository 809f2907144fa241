package tours

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tourly/internal/shared/utils/response"
)

var errNoAuthenticatedUser = errors.New("no authenticated user in context")

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) CreateTour(ctx *gin.Context) {
	var req CreateTourRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	createdBy, err := currentUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	tour, err := c.service.CreateTour(ctx.Request.Context(), req, createdBy)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Failed to create tour", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusCreated, "Tour created successfully", tour, nil)
}

func (c *Controller) GetTour(ctx *gin.Context) {
	id := ctx.Param("tourId")
	if id == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Tour ID is required", nil, "missing tour ID")
		return
	}

	tour, err := c.service.GetTourByID(ctx.Request.Context(), id)
	if err != nil {
		response.RespondJSON(ctx, "error", tourErrorStatus(err), "Failed to get tour", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tour retrieved successfully", tour, nil)
}

func (c *Controller) ListTours(ctx *gin.Context) {
	var query TourListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid query parameters", nil, err.Error())
		return
	}

	result, err := c.service.ListTours(ctx.Request.Context(), query)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to list tours", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tours retrieved successfully", result, nil)
}

func (c *Controller) GetActiveTours(ctx *gin.Context) {
	tours, err := c.service.GetActiveTours(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get active tours", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Active tours retrieved successfully", tours, nil)
}

func (c *Controller) UpdateTour(ctx *gin.Context) {
	id := ctx.Param("tourId")
	if id == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Tour ID is required", nil, "missing tour ID")
		return
	}

	var req UpdateTourRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	updatedBy, err := currentUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	tour, err := c.service.UpdateTour(ctx.Request.Context(), id, req, updatedBy)
	if err != nil {
		response.RespondJSON(ctx, "error", tourErrorStatus(err), "Failed to update tour", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tour updated successfully", tour, nil)
}

func (c *Controller) DeleteTour(ctx *gin.Context) {
	id := ctx.Param("tourId")
	if id == "" {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Tour ID is required", nil, "missing tour ID")
		return
	}

	if err := c.service.DeleteTour(ctx.Request.Context(), id); err != nil {
		response.RespondJSON(ctx, "error", tourErrorStatus(err), "Failed to delete tour", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Tour deleted successfully", nil, nil)
}

func currentUserID(ctx *gin.Context) (uuid.UUID, error) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		return uuid.Nil, errNoAuthenticatedUser
	}
	id, ok := raw.(string)
	if !ok {
		return uuid.Nil, errNoAuthenticatedUser
	}
	return uuid.Parse(id)
}

func tourErrorStatus(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "invalid"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
