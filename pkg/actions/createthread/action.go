// Package createthread implements the built-in action that opens a new Slack
// thread and points the execution at it.
package createthread

import (
	"context"
	"errors"
	"log/slog"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/messaging"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/thread"
)

type Action struct {
	text      string
	channel   string
	messenger messaging.Messenger
	threads   *thread.Store
}

func NewAction(config map[string]any, messenger messaging.Messenger, threads *thread.Store) *Action {
	text, _ := config["text"].(string)
	channel, _ := config["channel"].(string)

	return &Action{text: text, channel: channel, messenger: messenger, threads: threads}
}

func (a *Action) Execute(ctx context.Context, executionCtx *models.ExecutionContext, logger *slog.Logger) (any, error) {
	logger = logger.With("action_type", "create_thread")

	if a.text == "" {
		return nil, errors.New("create_thread requires text")
	}

	channel := a.channel
	if channel == "" {
		channel = executionCtx.Channel
	}

	if channel == "" {
		return nil, errors.New("create_thread has no target channel")
	}

	ref, err := a.messenger.SendMessage(ctx, channel, a.text, "")
	if err != nil {
		return nil, err
	}

	executionCtx.ThreadTS = ref.Timestamp

	if a.threads != nil {
		a.threads.CreateOrUpdate(ref.Timestamp, channel, executionCtx.UserID, nil)
	}

	logger.InfoContext(ctx, "Created thread", "channel", channel, "thread_ts", ref.Timestamp)

	return map[string]any{"channel": ref.Channel, "timestamp": ref.Timestamp}, nil
}
