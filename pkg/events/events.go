// Package events defines the lifecycle events published by the orchestrator services.
package events

import (
	"time"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
)

type EventType string

const Topic = "orchestrator.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Workflow execution lifecycle events.
	ExecutionStartedEvent   EventType = "workflow.execution.started"
	ExecutionCompletedEvent EventType = "workflow.execution.completed"
	ExecutionFailedEvent    EventType = "workflow.execution.failed"
	ExecutionCancelledEvent EventType = "workflow.execution.cancelled"

	// Mention and notification events.
	MentionReceivedEvent          EventType = "mention.received"
	MentionRuleFiredEvent         EventType = "mention.rule.fired"
	NotificationSentEvent         EventType = "notification.sent"
	NotificationAcknowledgedEvent EventType = "notification.acknowledged"
	NotificationEscalatedEvent    EventType = "notification.escalated"
	NotificationExpiredEvent      EventType = "notification.expired"

	// Thread context events.
	ThreadDeletedEvent EventType = "thread.context.deleted"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

type ExecutionStarted struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	WorkflowID  string `json:"workflow_id"`
	Channel     string `json:"channel,omitempty"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

type ExecutionCompleted struct {
	BaseEvent

	ExecutionID    string        `json:"execution_id"`
	WorkflowID     string        `json:"workflow_id"`
	CompletedSteps int           `json:"completed_steps"`
	Duration       time.Duration `json:"duration"`
}

func (e ExecutionCompleted) GetType() EventType {
	return ExecutionCompletedEvent
}

type ExecutionFailed struct {
	BaseEvent

	ExecutionID string        `json:"execution_id"`
	WorkflowID  string        `json:"workflow_id"`
	Error       string        `json:"error"`
	Timeout     bool          `json:"timeout,omitempty"`
	Duration    time.Duration `json:"duration"`
}

func (e ExecutionFailed) GetType() EventType {
	return ExecutionFailedEvent
}

type ExecutionCancelled struct {
	BaseEvent

	ExecutionID string `json:"execution_id"`
	WorkflowID  string `json:"workflow_id"`
	Reason      string `json:"reason,omitempty"`
}

func (e ExecutionCancelled) GetType() EventType {
	return ExecutionCancelledEvent
}

type MentionReceived struct {
	BaseEvent

	MentionID string          `json:"mention_id"`
	Channel   string          `json:"channel"`
	SenderID  string          `json:"sender_id"`
	Priority  models.Priority `json:"priority,omitempty"`
	IsUrgent  bool            `json:"is_urgent"`
}

func (e MentionReceived) GetType() EventType {
	return MentionReceivedEvent
}

type MentionRuleFired struct {
	BaseEvent

	MentionID string `json:"mention_id"`
	RuleID    string `json:"rule_id"`
	Actions   int    `json:"actions"`
}

func (e MentionRuleFired) GetType() EventType {
	return MentionRuleFiredEvent
}

type NotificationSent struct {
	BaseEvent

	NotificationID string                  `json:"notification_id"`
	MentionID      string                  `json:"mention_id"`
	Recipient      string                  `json:"recipient"`
	Kind           models.NotificationKind `json:"kind"`
	Level          int                     `json:"level,omitempty"`
}

func (e NotificationSent) GetType() EventType {
	return NotificationSentEvent
}

type NotificationAcknowledged struct {
	BaseEvent

	NotificationID string `json:"notification_id"`
	MentionID      string `json:"mention_id"`
	ResponderID    string `json:"responder_id"`
	Suppressed     int    `json:"suppressed"`
}

func (e NotificationAcknowledged) GetType() EventType {
	return NotificationAcknowledgedEvent
}

type NotificationEscalated struct {
	BaseEvent

	NotificationID string `json:"notification_id"`
	MentionID      string `json:"mention_id"`
	Recipient      string `json:"recipient"`
	Level          int    `json:"level"`
}

func (e NotificationEscalated) GetType() EventType {
	return NotificationEscalatedEvent
}

type NotificationExpired struct {
	BaseEvent

	NotificationID string `json:"notification_id"`
	MentionID      string `json:"mention_id"`
	Recipient      string `json:"recipient"`
}

func (e NotificationExpired) GetType() EventType {
	return NotificationExpiredEvent
}

type ThreadDeleted struct {
	BaseEvent

	ThreadID   string `json:"thread_id"`
	Channel    string `json:"channel"`
	Activities int    `json:"activities"`
}

func (e ThreadDeleted) GetType() EventType {
	return ThreadDeletedEvent
}
