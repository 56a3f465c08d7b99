package activity

import (
	"activityhub-backend/internal/middleware"
	"activityhub-backend/internal/services"
	"activityhub-backend/internal/utils"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// CreateActivity godoc
// @Summary Publish an activity
// @Tags activities
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body CreateActivityRequest true "Activity"
// @Success 201 {object} utils.Response{data=models.Activity}
// @Failure 400 {object} utils.Response
// @Router /activities [post]
func CreateActivity(c *gin.Context) {
	var req CreateActivityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	a, err := services.CreateActivity(c.Request.Context(), middleware.CurrentUserID(c), services.CreateActivityRequest{
		Title:           req.Title,
		Description:     req.Description,
		City:            req.City,
		Tags:            req.Tags,
		PriceMinorUnits: req.PriceMinorUnits,
		ScheduledAt:     req.ScheduledAt,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Activity created", a))
}

// GetActivity godoc
// @Summary Get an activity
// @Tags activities
// @Produce json
// @Security Bearer
// @Param id path string true "Activity ID"
// @Success 200 {object} utils.Response{data=models.Activity}
// @Failure 404 {object} utils.Response
// @Router /activities/{id} [get]
func GetActivity(c *gin.Context) {
	a, err := services.GetActivity(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", a))
}

// ListActivities godoc
// @Summary List activities
// @Tags activities
// @Produce json
// @Security Bearer
// @Param city query string false "Filter by city"
// @Param creator_id query string false "Filter by creator"
// @Param include_locked query bool false "Include locked activities"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} utils.Response{data=ActivityListResponse}
// @Router /activities [get]
func ListActivities(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid page number"))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid limit number"))
		return
	}
	includeLocked, _ := strconv.ParseBool(c.DefaultQuery("include_locked", "false"))

	activities, total, err := services.ListActivities(c.Request.Context(), services.ActivityFilter{
		City:          c.Query("city"),
		CreatorID:     c.Query("creator_id"),
		IncludeLocked: includeLocked,
		Page:          page,
		Limit:         limit,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", ActivityListResponse{
		Activities: activities,
		Total:      total,
		Page:       page,
		Limit:      limit,
	}))
}

// UpdateActivity godoc
// @Summary Edit an unlocked activity
// @Tags activities
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Activity ID"
// @Param input body UpdateActivityRequest true "Fields to change"
// @Success 200 {object} utils.Response{data=models.Activity}
// @Failure 409 {object} utils.Response
// @Router /activities/{id} [patch]
func UpdateActivity(c *gin.Context) {
	var req UpdateActivityRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	a, err := services.UpdateActivity(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), services.ActivityUpdate{
		Title:           req.Title,
		Description:     req.Description,
		City:            req.City,
		Tags:            req.Tags,
		PriceMinorUnits: req.PriceMinorUnits,
		ScheduledAt:     req.ScheduledAt,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Activity updated", a))
}

// RecommendActivities godoc
// @Summary Recommended activities for the caller
// @Tags activities
// @Produce json
// @Security Bearer
// @Param limit query int false "Maximum results" default(20)
// @Success 200 {object} utils.Response{data=[]services.Recommendation}
// @Router /activities/recommended [get]
func RecommendActivities(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid limit number"))
		return
	}

	recs, err := services.RecommendActivities(c.Request.Context(), middleware.CurrentUserID(c), limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", recs))
}
