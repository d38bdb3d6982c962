package addreaction

import (
	"github.com/keleshteri/zendesk-clickup-automation/pkg/messaging"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/protocol"
)

func NewFactory(messenger messaging.Messenger) *Factory {
	return &Factory{messenger: messenger}
}

type Factory struct {
	messenger messaging.Messenger
}

func (*Factory) ID() string {
	return "add_reaction"
}

func (*Factory) Component() *models.RegisteredComponent {
	return &models.RegisteredComponent{
		Type:        "add_reaction",
		Name:        "Add Reaction",
		Description: "Adds an emoji reaction to a message",
		Schema: &models.JSONSchema{
			Type: "object",
			Properties: map[string]*models.Property{
				"name": {
					Type:        "string",
					Description: "Emoji name without colons",
				},
				"timestamp": {
					Type:        "string",
					Description: "Target message; defaults to the execution thread anchor",
				},
			},
			Required: []string{"name"},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config, f.messenger), nil
}
