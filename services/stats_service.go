package services

import (
	"log"
	"sync"
	"time"

	"github.com/nkoroleva/medtest_platform/models"
	"gorm.io/gorm"
)

type PlatformStats struct {
	TotalWorkers  int64               `json:"total_workers"`
	TotalTests    int64               `json:"total_tests"`
	TotalResults  int64               `json:"total_results"`
	ActiveTests   int64               `json:"active_tests"`
	RecentResults []models.TestResult `json:"recent_results"`
	RefreshedAt   time.Time           `json:"refreshed_at"`
}

var (
	statsMu     sync.RWMutex
	cachedStats *PlatformStats
)

// RefreshPlatformStats recomputes the admin-panel counters and swaps the
// cache. Called at startup and from the cron schedule.
func RefreshPlatformStats(db *gorm.DB) error {
	stats := PlatformStats{RefreshedAt: time.Now().UTC()}

	if err := db.Model(&models.MedicalWorker{}).Count(&stats.TotalWorkers).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Test{}).Count(&stats.TotalTests).Error; err != nil {
		return err
	}
	if err := db.Model(&models.TestResult{}).Count(&stats.TotalResults).Error; err != nil {
		return err
	}
	if err := db.Model(&models.Test{}).Where("is_active = ?", true).Count(&stats.ActiveTests).Error; err != nil {
		return err
	}
	if err := db.Where("completed_at IS NOT NULL").
		Order("completed_at DESC").Limit(10).
		Find(&stats.RecentResults).Error; err != nil {
		return err
	}

	statsMu.Lock()
	cachedStats = &stats
	statsMu.Unlock()
	return nil
}

// GetPlatformStats returns the cached counters, computing them on first use.
func GetPlatformStats(db *gorm.DB) (*PlatformStats, error) {
	statsMu.RLock()
	stats := cachedStats
	statsMu.RUnlock()

	if stats != nil {
		return stats, nil
	}

	if err := RefreshPlatformStats(db); err != nil {
		log.Printf("Failed to compute platform stats: %v", err)
		return nil, err
	}

	statsMu.RLock()
	defer statsMu.RUnlock()
	return cachedStats, nil
}
