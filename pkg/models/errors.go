// Package models provides standardized error types shared by the orchestrator services.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used across the workflow, escalation and thread services.
var (
	// ErrWorkflowNotFound indicates no workflow definition is registered under the id.
	ErrWorkflowNotFound = errors.New("workflow not found")

	// ErrExecutionNotFound indicates an execution id is unknown or already removed.
	ErrExecutionNotFound = errors.New("execution not found")

	// ErrInvalidExecutionState indicates an operation was attempted against an
	// execution that is not in a compatible state, e.g. resuming a completed run.
	ErrInvalidExecutionState = errors.New("execution is not in a runnable state")

	// ErrUnknownAction indicates a step referenced an action kind that was never registered.
	ErrUnknownAction = errors.New("unknown action")

	// ErrExecutionTimeout indicates an execution exceeded its configured timeout.
	ErrExecutionTimeout = errors.New("execution timed out")

	// ErrTeamNotFound indicates a team id is not registered with the escalation router.
	ErrTeamNotFound = errors.New("team not found")

	// ErrRuleNotFound indicates a mention rule id is not registered.
	ErrRuleNotFound = errors.New("rule not found")

	// ErrNotificationNotFound indicates a notification id is unknown.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrThreadNotFound indicates a thread context id is unknown.
	ErrThreadNotFound = errors.New("thread context not found")
)

// ValidationError aggregates every structural violation found while validating
// a registration payload. Nothing is applied when it is returned.
type ValidationError struct {
	Entity     string
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(e.Violations, "; "))
}

func NewValidationError(entity string, violations []string) *ValidationError {
	return &ValidationError{Entity: entity, Violations: violations}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError

	return errors.As(err, &ve)
}

// ActionError wraps a failure from a named built-in action with its kind.
type ActionError struct {
	Kind string
	Err  error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("action %s failed: %v", e.Kind, e.Err)
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
