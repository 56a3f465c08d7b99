package user

import (
	"activityhub-backend/internal/middleware"
	"activityhub-backend/internal/services"
	"activityhub-backend/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// CurrentUser godoc
// @Summary Get current user
// @Description Get the caller's profile, rating aggregate and balance
// @Tags user
// @Produce  json
// @Security Bearer
// @Success 200 {object} utils.Response{data=user.UserResponse}
// @Failure 401 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /users/me [get]
func CurrentUser(c *gin.Context) {
	u, err := services.FindUserByID(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("User information retrieved successfully", NewUserResponse(u)))
}

// CreateProfile godoc
// @Summary Create the caller's marketplace profile
// @Tags user
// @Accept  json
// @Produce  json
// @Security Bearer
// @Param   input body CreateProfileRequest true "Profile"
// @Success 201 {object} utils.Response{data=user.UserResponse}
// @Failure 400 {object} utils.Response
// @Failure 409 {object} utils.Response
// @Router /users/me [post]
func CreateProfile(c *gin.Context) {
	var req CreateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	u, err := services.CreateUser(c.Request.Context(), services.CreateUserRequest{
		ID:          middleware.CurrentUserID(c),
		DisplayName: req.DisplayName,
		City:        req.City,
		Interests:   req.Interests,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Profile created", NewUserResponse(u)))
}

// UpdateProfile godoc
// @Summary Edit the caller's profile
// @Tags user
// @Accept  json
// @Produce  json
// @Security Bearer
// @Param   input body UpdateProfileRequest true "Fields to change"
// @Success 200 {object} utils.Response{data=user.UserResponse}
// @Failure 400 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /users/me [patch]
func UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	u, err := services.UpdateProfile(c.Request.Context(), middleware.CurrentUserID(c), services.ProfileUpdate{
		DisplayName: req.DisplayName,
		City:        req.City,
		Interests:   req.Interests,
		IsAvailable: req.IsAvailable,
	})
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("Profile updated", NewUserResponse(u)))
}
