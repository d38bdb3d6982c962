package cmd

import (
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/channels/gochannel"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/channels/kafka"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/eventbus"
)

// NewEventBus creates the event bus for the given provider. The orchestrator
// core is single-process, so gochannel is the default; kafka fans lifecycle
// events out to external consumers.
func NewEventBus(provider string, logger *slog.Logger) eventbus.EventBus {
	switch provider {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(watermill.NewSlogLogger(logger), "orchestrator")
		if err != nil {
			panic(fmt.Errorf("failed to create Kafka pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub)
	case "gochannel", "":
		pub, sub, err := gochannel.CreateChannel(watermill.NewSlogLogger(logger))
		if err != nil {
			panic(fmt.Errorf("failed to create GoChannel pub/sub: %w", err))
		}

		return eventbus.NewWatermillEventBus(pub, sub)
	default:
		panic("Unsupported event bus provider: " + provider)
	}
}
