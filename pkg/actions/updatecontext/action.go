// Package updatecontext implements the built-in action that merges data into
// the execution context.
package updatecontext

import (
	"context"
	"errors"
	"log/slog"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
)

type Action struct {
	data map[string]any
}

func NewAction(config map[string]any) *Action {
	data, _ := config["data"].(map[string]any)

	return &Action{data: data}
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (any, error) {
	logger = logger.With("action_type", "update_context")

	if len(a.data) == 0 {
		return nil, errors.New("update_context requires a data object")
	}

	for k, v := range a.data {
		executionCtx.Data[k] = v
	}

	logger.InfoContext(ctx, "Merged data into context", "keys", len(a.data))

	return map[string]any{"merged_keys": len(a.data)}, nil
}
