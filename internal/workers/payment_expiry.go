package workers

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jce-consulta/cedula-cli/internal/server"
	"github.com/jce-consulta/cedula-cli/internal/tasks"
)

// HandleExpirePayments marks stale pending payment orders as expired
func HandleExpirePayments(ctx context.Context, t *asynq.Task, db *gorm.DB, logger zerolog.Logger) error {
	payload, err := tasks.ParseExpirePayload(t)
	if err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	hoursOld := payload.HoursOld
	if hoursOld < 1 {
		hoursOld = 24
	}

	count, err := server.ExpirePendingOrders(db, hoursOld)
	if err != nil {
		return fmt.Errorf("failed to expire payment orders: %w", err)
	}

	if count > 0 {
		logger.Info().Int64("expired", count).Msg("Expired stale payment orders")
	}

	return nil
}
