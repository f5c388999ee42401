package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"vasplink/internal/logger"
	"vasplink/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ActivityLogService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewActivityLogService(db *gorm.DB, log *logger.Logger) *ActivityLogService {
	return &ActivityLogService{
		db:  db,
		log: log.With("service", "ActivityLogService"),
	}
}

func (s *ActivityLogService) record(c *gin.Context, statusCode int, responseTime time.Duration) {
	clientIP := c.ClientIP()
	if clientIP == "" {
		clientIP = c.Request.RemoteAddr
	}

	queryParams := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if len(values) > 0 {
			queryParams[key] = values[0]
		}
	}
	queryParamsJSON, _ := json.Marshal(queryParams)

	userID := ""
	if id, exists := c.Get("user_id"); exists {
		if str, ok := id.(string); ok {
			userID = str
		}
	}

	entry := &models.ActivityLog{
		ID:           uuid.New().String(),
		UserID:       userID,
		Method:       c.Request.Method,
		Path:         c.Request.URL.Path,
		UserAgent:    c.Request.UserAgent(),
		IPAddress:    clientIP,
		QueryParams:  string(queryParamsJSON),
		StatusCode:   statusCode,
		ResponseTime: responseTime.Milliseconds(),
	}

	// Persisting the log must never block or fail the request.
	go func() {
		if err := s.db.Create(entry).Error; err != nil {
			s.log.Warn("failed to save activity log", "error", err)
		}
	}()
}

// ListFilter narrows activity log queries.
type ListFilter struct {
	Method string
	Path   string
	UserID string
}

func (s *ActivityLogService) List(filter ListFilter, limit, offset int) ([]models.ActivityLog, int64, error) {
	query := s.db.Model(&models.ActivityLog{})
	if filter.Method != "" {
		query = query.Where("method = ?", strings.ToUpper(filter.Method))
	}
	if filter.Path != "" {
		query = query.Where("path LIKE ?", "%"+filter.Path+"%")
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count logs: %w", err)
	}

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	var logs []models.ActivityLog
	if err := query.Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch logs: %w", err)
	}

	return logs, total, nil
}

// Middleware records every request after it completes.
func (s *ActivityLogService) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.record(c, c.Writer.Status(), time.Since(start))
	}
}
