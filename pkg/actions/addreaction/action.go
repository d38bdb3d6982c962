// Package addreaction implements the built-in action that reacts to a message.
package addreaction

import (
	"context"
	"errors"
	"log/slog"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/messaging"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
)

type Action struct {
	name      string
	timestamp string
	messenger messaging.Messenger
}

func NewAction(config map[string]any, messenger messaging.Messenger) *Action {
	name, _ := config["name"].(string)
	timestamp, _ := config["timestamp"].(string)

	return &Action{name: name, timestamp: timestamp, messenger: messenger}
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (any, error) {
	logger = logger.With("action_type", "add_reaction", "reaction", a.name)

	if a.name == "" {
		return nil, errors.New("add_reaction requires a reaction name")
	}

	timestamp := a.timestamp
	if timestamp == "" {
		timestamp = executionCtx.ThreadTS
	}

	if timestamp == "" {
		return nil, errors.New("add_reaction has no target message")
	}

	if err := a.messenger.AddReaction(ctx, executionCtx.Channel, timestamp, a.name); err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Added reaction", "timestamp", timestamp)

	return map[string]any{"reaction": a.name, "timestamp": timestamp}, nil
}
