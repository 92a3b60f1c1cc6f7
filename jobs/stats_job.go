package jobs

import (
	"log"

	"github.com/nkoroleva/medtest_platform/database"
	"github.com/nkoroleva/medtest_platform/services"
)

func RefreshPlatformStats() {
	log.Println("Running job: RefreshPlatformStats...")

	if err := services.RefreshPlatformStats(database.DB); err != nil {
		log.Printf("Error refreshing platform stats: %v", err)
		return
	}

	log.Println("Platform stats refreshed.")
}
