// Package assignuser implements the built-in action that records an assignee
// on the execution and, when a thread exists, on its context metadata.
package assignuser

import (
	"context"
	"errors"
	"log/slog"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/thread"
)

type Action struct {
	userID  string
	threads *thread.Store
}

func NewAction(config map[string]any, threads *thread.Store) *Action {
	userID, _ := config["user_id"].(string)

	return &Action{userID: userID, threads: threads}
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (any, error) {
	logger = logger.With("action_type", "assign_user", "user_id", a.userID)

	if a.userID == "" {
		return nil, errors.New("assign_user requires a user_id")
	}

	executionCtx.Data["assigned_user"] = a.userID

	if a.threads != nil && executionCtx.ThreadTS != "" {
		err := a.threads.RecordActivity(executionCtx.ThreadTS, models.ActivityKindAssignment, a.userID, map[string]any{
			"assigned_by": executionCtx.UserID,
		})
		if err != nil && !errors.Is(err, models.ErrThreadNotFound) {
			return nil, err
		}
	}

	logger.InfoContext(ctx, "Assigned user")

	return map[string]any{"assigned_user": a.userID}, nil
}
