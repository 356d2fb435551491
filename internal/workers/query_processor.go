package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/jce-consulta/cedula-cli/internal/models"
	"github.com/jce-consulta/cedula-cli/internal/registry"
	"github.com/jce-consulta/cedula-cli/internal/tasks"
)

// HandleProcessQuery resolves a pending cédula query against the registry
// and stores the outcome. The user already paid when the query was enqueued;
// a registry failure refunds the token.
func HandleProcessQuery(ctx context.Context, t *asynq.Task, db *gorm.DB, logger zerolog.Logger) error {
	payload, err := tasks.ParseQueryPayload(t)
	if err != nil {
		return fmt.Errorf("failed to parse payload: %w", err)
	}

	var query models.CedulaQuery
	if err := models.FindByID(db, payload.QueryID, &query); err != nil {
		// The query was deleted; retrying will not help
		logger.Warn().Str("query_id", payload.QueryID).Msg("Query not found, dropping task")
		return nil
	}

	if query.Status != models.QueryPending {
		logger.Debug().Str("query_id", query.ID).Str("status", query.Status).Msg("Query already resolved")
		return nil
	}

	record, err := registry.Lookup(query.Cedula)
	switch {
	case errors.Is(err, registry.ErrNotFound):
		query.Status = models.QueryCompleted
	case err != nil:
		query.Status = models.QueryFailed
		logger.Error().Err(err).Str("query_id", query.ID).Msg("Registry lookup failed")
		if err := db.Model(&models.User{}).Where("id = ?", query.UserID).
			UpdateColumn("tokens", gorm.Expr("tokens + 1")).Error; err != nil {
			logger.Error().Err(err).Str("user_id", query.UserID).Msg("Failed to refund token")
		}
	default:
		query.Status = models.QueryCompleted
		query.Result, _ = json.Marshal(record)
	}

	if err := db.Save(&query).Error; err != nil {
		return fmt.Errorf("failed to save query result: %w", err)
	}

	logger.Info().
		Str("query_id", query.ID).
		Str("status", query.Status).
		Msg("Query processed")

	return nil
}
