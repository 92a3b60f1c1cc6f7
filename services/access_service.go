package services

import (
	"errors"

	"github.com/nkoroleva/medtest_platform/models"
	"gorm.io/gorm"
)

// CanAccess reports whether a worker may view or start the given test.
// Simple tests are open to every authenticated worker while active;
// subscribed tests additionally require a TestSubscription row. Inactive
// tests are never accessible for starting new attempts.
func CanAccess(db *gorm.DB, worker *models.MedicalWorker, test *models.Test) (bool, error) {
	if !test.IsActive {
		return false, nil
	}

	if test.AccessType != models.AccessTypeSubscribed {
		return true, nil
	}

	var subscription models.TestSubscription
	err := db.Where("worker_id = ? AND test_id = ?", worker.ID, test.ID).First(&subscription).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CanViewResult allows the owning worker and any moderator to see a result.
func CanViewResult(worker *models.MedicalWorker, result *models.TestResult) bool {
	return result.WorkerID == worker.ID || worker.IsModerator
}
