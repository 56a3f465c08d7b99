package matching

import (
	"activityhub-backend/internal/middleware"
	"activityhub-backend/internal/services"
	"activityhub-backend/internal/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// FindMatches godoc
// @Summary Find compatible users
// @Description Ranks available users by shared interests, rating and experience.
// @Tags matching
// @Produce json
// @Security Bearer
// @Param location query string false "City"
// @Param min_rating query number false "Minimum average rating"
// @Param interests query string false "Comma separated interests"
// @Param limit query int false "Maximum results" default(20)
// @Success 200 {object} utils.Response{data=[]services.Match}
// @Failure 400 {object} utils.Response
// @Router /matches [get]
func FindMatches(c *gin.Context) {
	var q MatchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid query parameters"))
		return
	}

	var interests []string
	if q.Interests != "" {
		interests = strings.Split(q.Interests, ",")
	}

	matches, err := services.FindCompatibleUsers(c.Request.Context(), middleware.CurrentUserID(c), services.MatchFilters{
		Location:  q.Location,
		MinRating: q.MinRating,
		Interests: interests,
		Limit:     q.Limit,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("success", matches))
}
