package ledger

import (
	"activityhub-backend/internal/models"
	"activityhub-backend/internal/services"
	"activityhub-backend/internal/utils"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// exportLimit caps a single CSV export.
const exportLimit = 10000

// parseFilter reads the shared ledger query parameters. It returns the name of
// the first malformed parameter.
func parseFilter(c *gin.Context) (services.LedgerFilter, string) {
	var filter services.LedgerFilter

	if userID, exists := c.GetQuery("user_id"); exists {
		filter.UserID = &userID
	}
	if typeStr, exists := c.GetQuery("type"); exists {
		t := models.TransactionType(typeStr)
		filter.Type = &t
	}
	if s, exists := c.GetQuery("start_time"); exists {
		startTime, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return filter, "start_time"
		}
		filter.StartTime = &startTime
	}
	if s, exists := c.GetQuery("end_time"); exists {
		endTime, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return filter, "end_time"
		}
		filter.EndTime = &endTime
	}
	if s, exists := c.GetQuery("min_amount"); exists {
		minAmount, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return filter, "min_amount"
		}
		filter.MinAmount = &minAmount
	}
	if s, exists := c.GetQuery("max_amount"); exists {
		maxAmount, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return filter, "max_amount"
		}
		filter.MaxAmount = &maxAmount
	}
	return filter, ""
}

// ListLedger godoc
// @Summary List ledger entries
// @Description Get a paginated list of balance ledger entries with filtering. Admin only.
// @Tags admin
// @Produce json
// @Security Bearer
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Param user_id query string false "Filter by user ID"
// @Param type query string false "Filter by entry type"
// @Param start_time query string false "Filter by start time (RFC3339)"
// @Param end_time query string false "Filter by end time (RFC3339)"
// @Param min_amount query int false "Filter by minimum amount in minor units"
// @Param max_amount query int false "Filter by maximum amount in minor units"
// @Success 200 {object} utils.Response{data=LedgerListResponse}
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/ledger [get]
func ListLedger(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid page number"))
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid limit number"))
		return
	}

	filter, bad := parseFilter(c)
	if bad != "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid "+bad))
		return
	}
	filter.Page = page
	filter.Limit = limit

	entries, total, err := services.FindLedgerEntries(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	items := make([]LedgerEntry, 0, len(entries))
	for i := range entries {
		t := &entries[i]
		items = append(items, LedgerEntry{
			ID:            t.ID,
			CreatedAt:     t.CreatedAt,
			UserID:        t.UserID,
			PaymentID:     t.PaymentID,
			Amount:        t.Amount,
			BalanceBefore: t.BalanceBefore,
			BalanceAfter:  t.BalanceAfter,
			Reason:        t.Reason,
			Operator:      t.Operator,
			Type:          t.Type,
			Hash:          t.Hash,
			Valid:         services.VerifyTransaction(t),
		})
	}

	c.JSON(http.StatusOK, utils.NewSuccessResponse("Ledger entries retrieved successfully", LedgerListResponse{
		Entries: items,
		Total:   total,
		Page:    page,
		Limit:   limit,
	}))
}

// ExportLedger godoc
// @Summary Export ledger entries
// @Description Export ledger entries to CSV. Admin only.
// @Tags admin
// @Produce text/csv
// @Security Bearer
// @Param user_id query string false "Filter by user ID"
// @Param type query string false "Filter by entry type"
// @Param start_time query string false "Filter by start time (RFC3339)"
// @Param end_time query string false "Filter by end time (RFC3339)"
// @Success 200 {string} string "CSV content"
// @Failure 400 {object} utils.Response
// @Failure 401 {object} utils.Response
// @Failure 500 {object} utils.Response
// @Router /admin/ledger/export [get]
func ExportLedger(c *gin.Context) {
	filter, bad := parseFilter(c)
	if bad != "" {
		c.JSON(http.StatusBadRequest, utils.NewErrorResponse(http.StatusBadRequest, "Invalid "+bad))
		return
	}
	filter.Page = 1
	filter.Limit = exportLimit

	entries, _, err := services.FindLedgerEntries(c.Request.Context(), filter)
	if err != nil {
		utils.RespondError(c, err)
		return
	}

	csvContent, err := services.GenerateLedgerCSV(entries)
	if err != nil {
		c.JSON(http.StatusInternalServerError, utils.NewErrorResponse(http.StatusInternalServerError, "Failed to generate CSV"))
		return
	}

	filename := fmt.Sprintf("ledger_%s.csv", time.Now().Format("20060102150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "text/csv", csvContent)
}
