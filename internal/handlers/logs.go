package handlers

import (
	"net/http"
	"strconv"

	"vasplink/internal/services"

	"github.com/gin-gonic/gin"
)

type LogsHandler struct {
	logs *services.ActivityLogService
}

func NewLogsHandler(logs *services.ActivityLogService) *LogsHandler {
	return &LogsHandler{logs: logs}
}

type logsResponse struct {
	Logs       interface{} `json:"logs"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"total_pages"`
}

// List returns activity logs with pagination and optional method/path/user
// filters. Admin only.
func (h *LogsHandler) List(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	if limit > 1000 {
		limit = 1000
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	filter := services.ListFilter{
		Method: c.Query("method"),
		Path:   c.Query("path"),
		UserID: c.Query("user_id"),
	}

	logs, total, err := h.logs.List(filter, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch logs"})
		return
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, logsResponse{
		Logs:       logs,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	})
}
