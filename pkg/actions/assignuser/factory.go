package assignuser

import (
	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/protocol"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/thread"
)

func NewFactory(threads *thread.Store) *Factory {
	return &Factory{threads: threads}
}

type Factory struct {
	threads *thread.Store
}

func (*Factory) ID() string {
	return "assign_user"
}

func (*Factory) Component() *models.RegisteredComponent {
	return &models.RegisteredComponent{
		Type:        "assign_user",
		Name:        "Assign User",
		Description: "Records a user as the conversation assignee",
		Schema: &models.JSONSchema{
			Type: "object",
			Properties: map[string]*models.Property{
				"user_id": {
					Type:        "string",
					Description: "The user to assign",
				},
			},
			Required: []string{"user_id"},
		},
	}
}

func (f *Factory) Create(config map[string]any) (protocol.Action, error) {
	return NewAction(config, f.threads), nil
}
