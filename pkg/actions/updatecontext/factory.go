package updatecontext

import (
	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/protocol"
)

func NewFactory() *Factory {
	return &Factory{}
}

type Factory struct{}

func (*Factory) ID() string {
	return "update_context"
}

func (*Factory) Component() *models.RegisteredComponent {
	return &models.RegisteredComponent{
		Type:        "update_context",
		Name:        "Update Context",
		Description: "Merges configured data into the execution data bag",
		Schema: &models.JSONSchema{
			Type: "object",
			Properties: map[string]*models.Property{
				"data": {
					Type:        "object",
					Description: "Key/value pairs merged into the data bag",
				},
			},
			Required: []string{"data"},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config), nil
}
