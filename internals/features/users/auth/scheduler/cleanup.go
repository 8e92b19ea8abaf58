package scheduler

import (
	"log"
	"time"

	"gorm.io/gorm"

	"famhealth_backend/internals/configs"
	"famhealth_backend/internals/features/users/auth/model"
)

// StartBlacklistCleanupScheduler sweeps expired blacklist rows daily.
func StartBlacklistCleanupScheduler(db *gorm.DB) {
	go func() {
		ttlDays := configs.GetEnvInt("TOKEN_BLACKLIST_TTL_DAYS", 7)

		for {
			deleteBefore := time.Now().Add(-time.Duration(ttlDays) * 24 * time.Hour)

			var expired []model.TokenBlacklist
			if err := db.
				Where("expired_at < ? AND deleted_at IS NULL", deleteBefore).
				Limit(100).
				Find(&expired).Error; err != nil {
				log.Printf("[CLEANUP ERROR] fetching expired tokens: %v", err)
			} else if len(expired) > 0 {
				if err := db.Delete(&expired).Error; err != nil {
					log.Printf("[CLEANUP ERROR] deleting tokens: %v", err)
				} else {
					log.Printf("[CLEANUP] removed %d expired blacklist tokens", len(expired))
				}
			}

			time.Sleep(24 * time.Hour)
		}
	}()
}
