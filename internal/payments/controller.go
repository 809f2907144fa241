package payments

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tourly/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

// GetSettings serves the payment options the booking form renders.
func (c *Controller) GetSettings(ctx *gin.Context) {
	settings, err := c.service.GetSettings(ctx.Request.Context())
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to get payment settings", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment settings retrieved successfully", settings, nil)
}

func (c *Controller) UpdateSettings(ctx *gin.Context) {
	var req UpdatePaymentSettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(ctx, "error", http.StatusBadRequest, "Invalid request data", nil, err.Error())
		return
	}

	adminID, err := adminUserID(ctx)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusUnauthorized, "User not authenticated", nil, nil)
		return
	}

	settings, err := c.service.UpdateSettings(ctx.Request.Context(), req, adminID)
	if err != nil {
		response.RespondJSON(ctx, "error", http.StatusInternalServerError, "Failed to update payment settings", nil, err.Error())
		return
	}

	response.RespondJSON(ctx, "success", http.StatusOK, "Payment settings updated successfully", settings, nil)
}

func adminUserID(ctx *gin.Context) (uuid.UUID, error) {
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
