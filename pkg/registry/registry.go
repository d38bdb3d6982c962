// Package registry holds the string-keyed action factories available to
// workflow action steps, with JSON Schema validation of their configuration.
package registry

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/protocol"
	"github.com/xeipuuv/gojsonschema"
)

type entry struct {
	factory   protocol.ActionFactory
	component *models.RegisteredComponent
	schema    *gojsonschema.Schema
}

type Registry struct {
	mu      sync.RWMutex
	actions map[string]*entry
	logger  *slog.Logger
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		actions: make(map[string]*entry),
		logger:  logger.With("module", "registry"),
	}
}

// RegisterAction stores a factory under its ID, compiling the component schema
// once. Registering the same kind again replaces the previous factory.
func (r *Registry) RegisterAction(factory protocol.ActionFactory) error {
	component := factory.Component()

	var compiled *gojsonschema.Schema

	if component != nil && component.Schema != nil {
		raw, err := json.Marshal(component.Schema)
		if err != nil {
			return fmt.Errorf("failed to marshal schema for action %s: %w", factory.ID(), err)
		}

		compiled, err = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return fmt.Errorf("failed to compile schema for action %s: %w", factory.ID(), err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.actions[factory.ID()] = &entry{factory: factory, component: component, schema: compiled}
	r.logger.Debug("Registered action", "action_type", factory.ID())

	return nil
}

// CreateAction validates config against the registered schema and instantiates
// the action. An unregistered kind yields models.ErrUnknownAction.
func (r *Registry) CreateAction(kind string, config map[string]any) (protocol.Action, error) {
	r.mu.RLock()
	item, ok := r.actions[kind]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownAction, kind)
	}

	if item.schema != nil {
		if config == nil {
			config = map[string]any{}
		}

		result, err := item.schema.Validate(gojsonschema.NewGoLoader(config))
		if err != nil {
			return nil, fmt.Errorf("failed to validate configuration for action %s: %w", kind, err)
		}

		if !result.Valid() {
			violations := make([]string, 0, len(result.Errors()))
			for _, desc := range result.Errors() {
				violations = append(violations, desc.String())
			}

			return nil, models.NewValidationError("action configuration", violations)
		}
	}

	return item.factory.Create(config)
}

// Components lists the registered action kinds with their schemas, sorted by type.
func (r *Registry) Components() []*models.RegisteredComponent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	components := make([]*models.RegisteredComponent, 0, len(r.actions))

	for kind, item := range r.actions {
		if item.component != nil {
			components = append(components, item.component)

			continue
		}

		components = append(components, &models.RegisteredComponent{Type: kind})
	}

	sort.Slice(components, func(i, j int) bool { return components[i].Type < components[j].Type })

	return components
}
