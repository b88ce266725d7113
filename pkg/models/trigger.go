package models

import (
	"time"
)

// TriggerKind classifies how a trigger starts executions.
type TriggerKind string

const (
	TriggerScheduled TriggerKind = "scheduled"
	TriggerManual    TriggerKind = "manual"
	TriggerWebhook   TriggerKind = "webhook"
)

// Valid reports whether k is one of the known kinds.
func (k TriggerKind) Valid() bool {
	switch k {
	case TriggerScheduled, TriggerManual, TriggerWebhook:
		return true
	}
	return false
}

// Trigger is a configured rule that starts executions of a workflow.
// Schedule is present iff Kind is scheduled.
type Trigger struct {
	ID           string         `json:"id"`
	WorkflowID   string         `json:"workflow_id"`
	Name         string         `json:"name"`
	Kind         TriggerKind    `json:"trigger_type"`
	Schedule     string         `json:"schedule,omitempty"`
	Enabled      bool           `json:"enabled"`
	Description  string         `json:"description,omitempty"`
	Config       map[string]any `json:"config,omitempty"`
	InputMapping map[string]any `json:"input_mapping,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// CreateTriggerRequest registers a new trigger with the engine.
type CreateTriggerRequest struct {
	Name         string         `json:"name"`
	WorkflowID   string         `json:"workflow_id"`
	Kind         TriggerKind    `json:"trigger_type"`
	Schedule     string         `json:"schedule,omitempty"`
	Enabled      bool           `json:"enabled"`
	Description  string         `json:"description,omitempty"`
	Config       map[string]any `json:"config,omitempty"`
	InputMapping map[string]any `json:"input_mapping,omitempty"`
}

// UpdateTriggerRequest updates trigger fields. Nil fields are omitted from
// the payload and left untouched by the engine.
type UpdateTriggerRequest struct {
	Name        *string `json:"name,omitempty"`
	Schedule    *string `json:"schedule,omitempty"`
	Enabled     *bool   `json:"enabled,omitempty"`
	Description *string `json:"description,omitempty"`
}
