package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/nkoroleva/medtest_platform/models"
	"gorm.io/gorm"
)

// StartAttempt opens a new attempt for the worker on the test.
//
// Fails with ErrAccessDenied when the access policy rejects, or with
// *AttemptLimitError when max_attempts > 0 and the worker already holds that
// many results (open or completed) for the test. The count is re-read inside
// the insert transaction so two racing starts cannot both slip past a
// finite limit.
func StartAttempt(db *gorm.DB, worker *models.MedicalWorker, test *models.Test) (*models.TestResult, error) {
	allowed, err := CanAccess(db, worker, test)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrAccessDenied
	}

	result := models.TestResult{
		ID:        uuid.New(),
		WorkerID:  worker.ID,
		TestID:    test.ID,
		StartedAt: time.Now().UTC(),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var current models.Test
		if err := tx.First(&current, "id = ?", test.ID).Error; err != nil {
			return err
		}

		if current.MaxAttempts > 0 {
			var attempts int64
			if err := tx.Model(&models.TestResult{}).
				Where("worker_id = ? AND test_id = ?", worker.ID, test.ID).
				Count(&attempts).Error; err != nil {
				return err
			}
			if attempts >= int64(current.MaxAttempts) {
				var latest models.TestResult
				if err := tx.Where("worker_id = ? AND test_id = ?", worker.ID, test.ID).
					Order("completed_at DESC").First(&latest).Error; err != nil {
					return err
				}
				return &AttemptLimitError{LatestResultID: latest.ID}
			}
		}

		return tx.Create(&result).Error
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// FindResumable returns an existing result the worker should be redirected
// to instead of starting a fresh attempt: for simple tests under the default
// single-attempt setting, one result per (worker, test) is the rule, open or
// not. Tests that configure max_attempts differently rely on the limit check
// in StartAttempt instead. Returns nil when a new attempt may be started.
func FindResumable(db *gorm.DB, worker *models.MedicalWorker, test *models.Test) (*models.TestResult, error) {
	if test.AccessType != models.AccessTypeSimple || test.MaxAttempts != 1 {
		return nil, nil
	}

	var existing models.TestResult
	err := db.Where("worker_id = ? AND test_id = ?", worker.ID, test.ID).
		Order("started_at DESC").First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &existing, nil
}
