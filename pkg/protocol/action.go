// Package protocol defines the contracts implemented by pluggable workflow actions.
package protocol

import (
	"context"
	"log/slog"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
)

// Action is a named built-in dispatched by action steps. Execute may read and
// mutate the execution context data bag; its result becomes the step result.
type Action interface {
	Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (any, error)
}

// ActionFactory builds actions of one kind from a step configuration.
type ActionFactory interface {
	ID() string
	Component() *models.RegisteredComponent
	Create(config map[string]any) (Action, error)
}
