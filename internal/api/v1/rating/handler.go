package rating

import (
	"activityhub-backend/internal/middleware"
	"activityhub-backend/internal/services"
	"activityhub-backend/internal/utils"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// SubmitRating godoc
// @Summary Rate a user
// @Tags ratings
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Rated user ID"
// @Param input body SubmitRatingRequest true "Rating"
// @Success 201 {object} utils.Response{data=services.RatingSummary}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /users/{id}/ratings [post]
func SubmitRating(c *gin.Context) {
	var req SubmitRatingRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	summary, err := services.SubmitRating(c.Request.Context(), c.Param("id"), middleware.CurrentUserID(c), req.Score, req.Feedback)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Rating submitted", summary))
}

// ListRatings godoc
// @Summary Latest ratings of a user
// @Tags ratings
// @Produce json
// @Security Bearer
// @Param id path string true "Rated user ID"
// @Param limit query int false "Maximum results" default(10)
// @Success 200 {object} utils.Response{data=[]services.RatingView}
// @Failure 404 {object} utils.Response
// @Router /users/{id}/ratings [get]
func ListRatings(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 100 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid limit number"))
		return
	}

	ratings, err := services.ListRatings(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", ratings))
}
