// Package messaging defines the collaborator interfaces the orchestrator uses
// to deliver Slack messages and resolve display metadata. The wire-level Slack
// client implements these; the core never talks to the Web API directly.
package messaging

import (
	"context"
	"log/slog"
)

// DeliveryRef identifies a delivered message, usable as a thread anchor.
type DeliveryRef struct {
	Channel   string `json:"channel"`
	Timestamp string `json:"timestamp"`
}

// Messenger delivers messages and reactions. Delivery failures surface as errors.
type Messenger interface {
	SendMessage(ctx context.Context, channel, text, threadTS string) (DeliveryRef, error)
	AddReaction(ctx context.Context, channel, timestamp, name string) error
}

// UserInfo is the display metadata resolved for a user id.
type UserInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone,omitempty"`
}

// Directory resolves user and channel ids to display metadata.
type Directory interface {
	UserInfo(ctx context.Context, id string) (UserInfo, error)
	ChannelName(ctx context.Context, id string) (string, error)
}

// DisplayName resolves a user id to a readable name, degrading to "Unknown"
// rather than failing the caller.
func DisplayName(ctx context.Context, directory Directory, id string) string {
	if directory == nil {
		return "Unknown"
	}

	info, err := directory.UserInfo(ctx, id)
	if err != nil || info.Name == "" {
		return "Unknown"
	}

	return info.Name
}

// LoggerMessenger is a stand-in Messenger that logs instead of calling Slack.
// The binary runs with it until the wire-level client is wired in.
type LoggerMessenger struct {
	logger *slog.Logger
	sent   int
}

func NewLoggerMessenger(logger *slog.Logger) *LoggerMessenger {
	return &LoggerMessenger{logger: logger.With("module", "messenger")}
}

func (m *LoggerMessenger) SendMessage(ctx context.Context, channel, text, threadTS string) (DeliveryRef, error) {
	m.sent++
	m.logger.InfoContext(ctx, "Delivering message", "channel", channel, "thread_ts", threadTS, "text", text)

	return DeliveryRef{Channel: channel, Timestamp: generateTimestamp(m.sent)}, nil
}

func (m *LoggerMessenger) AddReaction(ctx context.Context, channel, timestamp, name string) error {
	m.logger.InfoContext(ctx, "Adding reaction", "channel", channel, "timestamp", timestamp, "reaction", name)

	return nil
}
