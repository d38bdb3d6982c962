// Package web provides HTTP request and response types for the orchestrator API.
package web

import (
	"time"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
)

// StartExecutionRequest is the request body for starting a workflow execution.
type StartExecutionRequest struct {
	Channel     string         `json:"channel"`
	UserID      string         `json:"user_id"`
	ThreadTS    string         `json:"thread_ts,omitempty"`
	TriggerData map[string]any `json:"trigger_data,omitempty"`
}

// ContinueExecutionRequest resumes a paused execution with collected input.
type ContinueExecutionRequest struct {
	StepResult any            `json:"step_result,omitempty"`
	UserInput  map[string]any `json:"user_input,omitempty"`
}

// CancelExecutionRequest carries the optional reason for cancellation.
type CancelExecutionRequest struct {
	Reason string `json:"reason,omitempty"`
}

// MentionRequest is the request body for an inbound mention event.
type MentionRequest struct {
	Kind        string `json:"kind,omitempty"`
	MentionedID string `json:"mentioned_id" validate:"required"`
	SenderID    string `json:"sender_id"    validate:"required"`
	Channel     string `json:"channel"      validate:"required"`
	ThreadTS    string `json:"thread_ts,omitempty"`
	MessageTS   string `json:"message_ts"   validate:"required"`
	Text        string `json:"text"`
}

// ToEvent converts the request into the model the router consumes.
func (r *MentionRequest) ToEvent() *models.MentionEvent {
	kind := models.MentionKind(r.Kind)
	if r.Kind == "" {
		kind = models.MentionKindUser
	}

	return &models.MentionEvent{
		Kind:        kind,
		MentionedID: r.MentionedID,
		SenderID:    r.SenderID,
		Channel:     r.Channel,
		ThreadTS:    r.ThreadTS,
		MessageTS:   r.MessageTS,
		Text:        r.Text,
	}
}

// EscalateRequest triggers a manual escalation at the given level.
type EscalateRequest struct {
	Level int `json:"level" validate:"min=0"`
}

// AcknowledgeRequest records who answered a notification.
type AcknowledgeRequest struct {
	ResponderID string `json:"responder_id" validate:"required"`
}

// StartExecutionResponse returns the allocated execution id.
type StartExecutionResponse struct {
	ExecutionID string                 `json:"execution_id"`
	WorkflowID  string                 `json:"workflow_id"`
	Status      models.ExecutionStatus `json:"status"`
	StartedAt   time.Time              `json:"started_at"`
}
