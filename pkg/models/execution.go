package models

import "time"

// ExecutionStatus is the lifecycle state of a workflow run.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
	ExecutionStatusCancelled ExecutionStatus = "cancelled"
)

// Terminal reports whether the status is final.
func (s ExecutionStatus) Terminal() bool {
	switch s {
	case ExecutionStatusCompleted, ExecutionStatusFailed, ExecutionStatusCancelled:
		return true
	default:
		return false
	}
}

// ExecutionContext is the mutable per-run state the steps read and write.
// LastStepResultKey in Data always holds the most recent step result.
type ExecutionContext struct {
	Channel        string         `json:"channel,omitempty"`
	UserID         string         `json:"user_id,omitempty"`
	ThreadTS       string         `json:"thread_ts,omitempty"`
	Data           map[string]any `json:"data"`
	CurrentStep    string         `json:"current_step,omitempty"`
	CompletedSteps []string       `json:"completed_steps"`
	StartedAt      time.Time      `json:"started_at"`
	LastActivity   time.Time      `json:"last_activity"`
}

const LastStepResultKey = "lastStepResult"

// Execution is one running instance of a workflow. The engine is its sole mutator.
type Execution struct {
	ID         string           `json:"id"`
	WorkflowID string           `json:"workflow_id"`
	Status     ExecutionStatus  `json:"status"`
	Context    ExecutionContext `json:"context"`
	Error      string           `json:"error,omitempty"`
}
