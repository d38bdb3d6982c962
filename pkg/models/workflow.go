// Package models defines the core domain models for the support conversation orchestrator.
package models

import "time"

// Workflow is a registered, named graph of steps executed against a per-run
// context. Immutable once registered; the engine owns the registry keyed by ID.
type Workflow struct {
	ID          string           `json:"id"          validate:"required"`
	Name        string           `json:"name"        validate:"required,min=3"`
	Description string           `json:"description"`
	Steps       []*WorkflowStep  `json:"steps"       validate:"required,min=1"`
	Trigger     *WorkflowTrigger `json:"trigger,omitempty"`
	Settings    WorkflowSettings `json:"settings"`
}

// FirstStep returns the entry step of the definition.
func (w *Workflow) FirstStep() *WorkflowStep {
	if len(w.Steps) == 0 {
		return nil
	}

	return w.Steps[0]
}

// StepByID returns the step with the given id, if present.
func (w *Workflow) StepByID(id string) (*WorkflowStep, bool) {
	for _, step := range w.Steps {
		if step.ID == id {
			return step, true
		}
	}

	return nil, false
}

// WorkflowTrigger describes what starts the workflow (slash command, helpdesk
// event, schedule). The orchestrator treats it as opaque configuration.
type WorkflowTrigger struct {
	ID            string         `json:"id"`
	Type          string         `json:"type"`
	Configuration map[string]any `json:"configuration,omitempty"`
}

// WorkflowSettings carries per-definition execution policy.
type WorkflowSettings struct {
	TimeoutSeconds     int    `json:"timeout_seconds,omitempty"`
	MaxRetries         int    `json:"max_retries,omitempty"`
	NotifyOnStart      bool   `json:"notify_on_start,omitempty"`
	NotifyOnCompletion bool   `json:"notify_on_completion,omitempty"`
	NotifyOnError      bool   `json:"notify_on_error,omitempty"`
	NotifyChannel      string `json:"notify_channel,omitempty"`
}

const DefaultExecutionTimeout = 30 * time.Minute

// Timeout returns the configured execution timeout, falling back to the default.
func (s WorkflowSettings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return DefaultExecutionTimeout
	}

	return time.Duration(s.TimeoutSeconds) * time.Second
}
