package workers

import (
	"time"

	"github.com/hibiken/asynq"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jce-consulta/cedula-cli/internal/models"
	"github.com/jce-consulta/cedula-cli/internal/tasks"
)

// StartCleanupScheduler checks every minute whether the configured cleanup
// schedule is due and enqueues a payment expiry task when it is. The schedule
// lives in AppSettings so admins can change it without a restart.
func StartCleanupScheduler(client *asynq.Client, db *gorm.DB, logger zerolog.Logger) {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	lastRun := time.Now()

	for range ticker.C {
		now := time.Now()
		if cleanupDue(db, logger, lastRun, now) {
			task, err := tasks.NewExpirePaymentsTask(24)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to create payment expiry task")
				continue
			}

			if _, err := client.Enqueue(task, asynq.Queue("low")); err != nil {
				logger.Error().Err(err).Msg("Failed to enqueue payment expiry task")
				continue
			}

			logger.Info().Msg("Payment expiry task enqueued")
		}
		lastRun = now
	}
}

// cleanupDue reports whether the cron schedule fired between lastRun and now
func cleanupDue(db *gorm.DB, logger zerolog.Logger, lastRun, now time.Time) bool {
	var settings models.AppSettings
	if err := db.First(&settings).Error; err != nil {
		logger.Debug().Err(err).Msg("No settings found, skipping cleanup check")
		return false
	}

	if settings.CleanupSchedule == "" {
		return false
	}

	schedule, err := cron.ParseStandard(settings.CleanupSchedule)
	if err != nil {
		logger.Warn().Err(err).Str("schedule", settings.CleanupSchedule).Msg("Invalid cleanup schedule")
		return false
	}

	next := schedule.Next(lastRun)
	return !next.After(now)
}
