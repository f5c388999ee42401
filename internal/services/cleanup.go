package services

import (
	"os"
	"path/filepath"
	"time"

	"vasplink/internal/logger"
	"vasplink/internal/models"

	"gorm.io/gorm"
)

// Soft-deleted rows older than this are removed for good.
const purgeRetention = 30 * 24 * time.Hour

// CleanupService periodically removes stale temp render artifacts and purges
// soft-deleted records past their retention window.
type CleanupService struct {
	db       *gorm.DB
	log      *logger.Logger
	tempDir  string
	maxAge   time.Duration
	interval time.Duration
	ticker   *time.Ticker
	done     chan bool
}

func NewCleanupService(db *gorm.DB, log *logger.Logger, tempDir string, maxAge, interval time.Duration) *CleanupService {
	return &CleanupService{
		db:       db,
		log:      log.With("service", "CleanupService"),
		tempDir:  tempDir,
		maxAge:   maxAge,
		interval: interval,
		done:     make(chan bool),
	}
}

func (s *CleanupService) Start() {
	s.ticker = time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-s.done:
				return
			case <-s.ticker.C:
				s.runOnce()
			}
		}
	}()
	s.log.Info("cleanup service started", "interval", s.interval)
}

func (s *CleanupService) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	s.done <- true
	s.log.Info("cleanup service stopped")
}

func (s *CleanupService) runOnce() {
	s.cleanupTempFiles()
	s.purgeDeletedRows()
}

func (s *CleanupService) cleanupTempFiles() {
	if _, err := os.Stat(s.tempDir); os.IsNotExist(err) {
		return
	}

	err := filepath.Walk(s.tempDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && time.Since(info.ModTime()) > s.maxAge {
			s.log.Debug("removing stale temp file", "path", path)
			return os.Remove(path)
		}
		return nil
	})
	if err != nil {
		s.log.Warn("temp file cleanup failed", "dir", s.tempDir, "error", err)
	}
}

func (s *CleanupService) purgeDeletedRows() {
	cutoff := time.Now().Add(-purgeRetention)

	for _, model := range []interface{}{&models.Template{}, &models.Document{}} {
		result := s.db.Unscoped().
			Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
			Delete(model)
		if result.Error != nil {
			s.log.Warn("failed to purge soft-deleted rows", "error", result.Error)
			continue
		}
		if result.RowsAffected > 0 {
			s.log.Info("purged soft-deleted rows", "rows", result.RowsAffected)
		}
	}
}
