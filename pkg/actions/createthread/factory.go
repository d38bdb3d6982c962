package createthread

import (
	"github.com/keleshteri/zendesk-clickup-automation/pkg/messaging"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/protocol"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/thread"
)

func NewFactory(messenger messaging.Messenger, threads *thread.Store) *Factory {
	return &Factory{messenger: messenger, threads: threads}
}

type Factory struct {
	messenger messaging.Messenger
	threads   *thread.Store
}

func (*Factory) ID() string {
	return "create_thread"
}

func (*Factory) Component() *models.RegisteredComponent {
	return &models.RegisteredComponent{
		Type:        "create_thread",
		Name:        "Create Thread",
		Description: "Posts a parent message and anchors the execution to its thread",
		Schema: &models.JSONSchema{
			Type: "object",
			Properties: map[string]*models.Property{
				"text": {
					Type:        "string",
					Description: "Parent message text",
				},
				"channel": {
					Type:        "string",
					Description: "Channel override; defaults to the execution channel",
				},
			},
			Required: []string{"text"},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config, f.messenger, f.threads), nil
}
