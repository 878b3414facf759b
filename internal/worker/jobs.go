package worker

import (
	"context"
	"log"
	"time"

	"task-reminder/backend/internal/models"

	"gorm.io/gorm"
)

// TokenCleanupHandler deletes refresh tokens that expired before the
// job ran. Enqueued periodically by the server.
func TokenCleanupHandler(db *gorm.DB) JobHandler {
	return func(ctx context.Context, job *Job) error {
		result := db.WithContext(ctx).
			Where("expires_at < ?", time.Now()).
			Delete(&models.Token{})
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected > 0 {
			log.Printf("Cleaned up %d expired refresh tokens", result.RowsAffected)
		}
		return nil
	}
}
