package tasks

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task type constants
const (
	// Cédula query tasks
	TypeProcessQuery = "cedula_query:process"

	// Payment maintenance tasks
	TypeExpirePayments = "payments:expire"
)

// QueryPayload is the payload for cédula query tasks
type QueryPayload struct {
	QueryID string `json:"query_id"`
}

// ExpirePayload is the payload for payment expiry tasks
type ExpirePayload struct {
	HoursOld int `json:"hours_old"`
}

// NewProcessQueryTask creates a task to resolve a pending cédula query
func NewProcessQueryTask(queryID string) (*asynq.Task, error) {
	payload, err := json.Marshal(QueryPayload{
		QueryID: queryID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeProcessQuery, payload), nil
}

// NewExpirePaymentsTask creates a task to expire stale pending payment orders
func NewExpirePaymentsTask(hoursOld int) (*asynq.Task, error) {
	payload, err := json.Marshal(ExpirePayload{
		HoursOld: hoursOld,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}
	return asynq.NewTask(TypeExpirePayments, payload), nil
}

// ParseQueryPayload parses a cédula query payload from an Asynq task
func ParseQueryPayload(task *asynq.Task) (QueryPayload, error) {
	var payload QueryPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, nil
}

// ParseExpirePayload parses a payment expiry payload from an Asynq task
func ParseExpirePayload(task *asynq.Task) (ExpirePayload, error) {
	var payload ExpirePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("failed to unmarshal payload: %w", err)
	}
	return payload, nil
}
