package subscription

import (
	"activityhub-backend/internal/middleware"
	"activityhub-backend/internal/services"
	"activityhub-backend/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListPlans godoc
// @Summary Subscription plan catalog
// @Tags subscriptions
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=[]models.Plan}
// @Router /subscriptions/plans [get]
func ListPlans(c *gin.Context) {
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", services.ListPlans()))
}

// CreateSubscription godoc
// @Summary Subscribe to a plan
// @Description Replaces any active subscription of the caller.
// @Tags subscriptions
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body CreateSubscriptionRequest true "Plan"
// @Success 201 {object} utils.Response{data=models.Subscription}
// @Failure 400 {object} utils.Response
// @Router /subscriptions [post]
func CreateSubscription(c *gin.Context) {
	var req CreateSubscriptionRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	sub, err := services.CreateSubscription(c.Request.Context(), middleware.CurrentUserID(c), req.PlanID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Subscription created", sub))
}

// CancelSubscription godoc
// @Summary Cancel a subscription
// @Tags subscriptions
// @Produce json
// @Security Bearer
// @Param id path string true "Subscription ID"
// @Success 200 {object} utils.Response{data=models.Subscription}
// @Failure 404 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /subscriptions/{id} [delete]
func CancelSubscription(c *gin.Context) {
	ctx := c.Request.Context()
	sub, err := services.GetSubscription(ctx, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if sub.UserID != middleware.CurrentUserID(c) {
		utils.RespondError(c, services.ErrNotOwner)
		return
	}

	sub, err = services.CancelSubscription(ctx, sub.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Subscription cancelled", sub))
}

// GetStatus godoc
// @Summary Subscription status of the caller
// @Tags subscriptions
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=services.SubscriptionStatus}
// @Router /subscriptions/status [get]
func GetStatus(c *gin.Context) {
	status, err := services.CheckSubscriptionStatus(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", status))
}
