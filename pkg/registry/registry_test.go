package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/actions/updatecontext"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/log"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
)

func TestRegistry_CreateAction_UnknownKind(t *testing.T) {
	reg := NewRegistry(log.WithModule("test"))

	_, err := reg.CreateAction("launch_rocket", nil)
	assert.ErrorIs(t, err, models.ErrUnknownAction)
}

func TestRegistry_CreateAction_ValidConfig(t *testing.T) {
	reg := NewRegistry(log.WithModule("test"))
	require.NoError(t, reg.RegisterAction(updatecontext.NewFactory()))

	action, err := reg.CreateAction("update_context", map[string]any{
		"data": map[string]any{"category": "billing"},
	})

	require.NoError(t, err)
	assert.NotNil(t, action)
}

func TestRegistry_CreateAction_SchemaRejectsConfig(t *testing.T) {
	reg := NewRegistry(log.WithModule("test"))
	require.NoError(t, reg.RegisterAction(updatecontext.NewFactory()))

	// The data property is required by the action schema.
	_, err := reg.CreateAction("update_context", map[string]any{})

	require.Error(t, err)
	assert.True(t, models.IsValidationError(err))
}

func TestRegistry_Components(t *testing.T) {
	reg := NewRegistry(log.WithModule("test"))
	require.NoError(t, reg.RegisterAction(updatecontext.NewFactory()))

	components := reg.Components()

	require.Len(t, components, 1)
	assert.Equal(t, "update_context", components[0].Type)
	assert.NotNil(t, components[0].Schema)
}
