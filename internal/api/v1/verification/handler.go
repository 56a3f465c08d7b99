package verification

import (
	"activityhub-backend/internal/middleware"
	"activityhub-backend/internal/services"
	"activityhub-backend/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetUploadToken godoc
// @Summary Get OSS STS token for verification documents
// @Description Temporary credentials limited to the caller's verification prefix
// @Tags verification
// @Produce json
// @Security Bearer
// @Success 200 {object} utils.Response{data=services.STSCredentials}
// @Failure 501 {object} utils.Response
// @Router /verification/token [get]
func GetUploadToken(c *gin.Context) {
	token, err := services.GetVerificationUploadToken(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, utils.NewSuccessResponse("OSS token retrieved successfully", token))
}

// CreateUploadURL godoc
// @Summary Presign a verification document upload
// @Description Returns a single-use PUT URL and marks the caller's verification as pending
// @Tags verification
// @Accept json
// @Produce json
// @Security Bearer
// @Param input body UploadURLRequest true "Document"
// @Success 201 {object} utils.Response{data=services.SignedUpload}
// @Failure 400 {object} utils.Response
// @Failure 501 {object} utils.Response
// @Router /verification/upload-url [post]
func CreateUploadURL(c *gin.Context) {
	var req UploadURLRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	upload, err := services.SignVerificationUpload(c.Request.Context(), middleware.CurrentUserID(c), req.Filename, req.ContentType)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, utils.NewResponse(http.StatusCreated, "Upload URL created", upload))
}
