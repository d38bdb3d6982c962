// Package workflow drives registered multi-step workflows to completion with
// timeouts, conditional branching and delayed continuations.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/eventbus"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/messaging"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/registry"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/scheduler"
	"go.opentelemetry.io/otel/trace"
)

// stalenessWindow is how long an execution may sit without activity before the
// periodic sweep removes it.
const stalenessWindow = 24 * time.Hour

const timeoutTimerKey = "timeout"

// StepSelector picks the next step id when a step lists several candidates.
// Returning "" ends the execution.
type StepSelector func(step *models.WorkflowStep, execution *models.Execution) string

// FirstListedSelector is the default policy: follow the first candidate.
func FirstListedSelector(step *models.WorkflowStep, _ *models.Execution) string {
	return step.NextSteps[0]
}

// Engine owns the definition registry and the active execution set. It is the
// sole mutator of executions.
type Engine struct {
	mu          sync.RWMutex
	definitions map[string]*models.Workflow
	executions  map[string]*models.Execution
	inFlight    map[string]bool

	registry  *registry.Registry
	sched     *scheduler.Scheduler
	bus       eventbus.EventBus
	messenger messaging.Messenger
	selector  StepSelector
	validate  *validator.Validate
	tracer    trace.Tracer
	logger    *slog.Logger
	now       func() time.Time
}

func NewEngine(
	reg *registry.Registry,
	sched *scheduler.Scheduler,
	bus eventbus.EventBus,
	messenger messaging.Messenger,
	logger *slog.Logger,
) *Engine {
	return &Engine{
		definitions: make(map[string]*models.Workflow),
		executions:  make(map[string]*models.Execution),
		inFlight:    make(map[string]bool),
		registry:    reg,
		sched:       sched,
		bus:         bus,
		messenger:   messenger,
		selector:    FirstListedSelector,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger.With("module", "workflow_engine"),
		now:         time.Now,
	}
}

// SetSelector replaces the next-step selection policy.
func (e *Engine) SetSelector(selector StepSelector) {
	if selector != nil {
		e.selector = selector
	}
}

// SetTracer enables span creation around step dispatch.
func (e *Engine) SetTracer(tracer trace.Tracer) {
	e.tracer = tracer
}

// Register validates the definition and stores it, replacing any prior
// definition with the same id. Nothing is stored when validation fails; the
// returned ValidationError lists every violation found.
func (e *Engine) Register(definition *models.Workflow) error {
	violations := e.collectViolations(definition)
	if len(violations) > 0 {
		return models.NewValidationError("workflow definition", violations)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.definitions[definition.ID] = definition
	e.logger.Info("Registered workflow", "workflow_id", definition.ID, "workflow_name", definition.Name, "steps", len(definition.Steps))

	return nil
}

// Definition returns a registered definition by id.
func (e *Engine) Definition(workflowID string) (*models.Workflow, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	definition, ok := e.definitions[workflowID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrWorkflowNotFound, workflowID)
	}

	return definition, nil
}

// Definitions returns every registered workflow, ordered by id.
func (e *Engine) Definitions() []*models.Workflow {
	e.mu.RLock()
	defer e.mu.RUnlock()

	definitions := make([]*models.Workflow, 0, len(e.definitions))
	for _, definition := range e.definitions {
		definitions = append(definitions, definition)
	}

	sort.Slice(definitions, func(i, j int) bool {
		return definitions[i].ID < definitions[j].ID
	})

	return definitions
}

// Start allocates an execution for workflowID, arms its timeout timer and
// begins executing asynchronously. The execution id is returned immediately.
func (e *Engine) Start(ctx context.Context, workflowID string, partial *models.ExecutionContext, triggerData map[string]any) (string, error) {
	e.mu.Lock()

	definition, ok := e.definitions[workflowID]
	if !ok {
		e.mu.Unlock()

		return "", fmt.Errorf("%w: %s", models.ErrWorkflowNotFound, workflowID)
	}

	now := e.now()
	executionID := "exec-" + uuid.New().String()[:8]

	execution := &models.Execution{
		ID:         executionID,
		WorkflowID: workflowID,
		Status:     models.ExecutionStatusRunning,
		Context: models.ExecutionContext{
			Data:           make(map[string]any),
			CurrentStep:    definition.FirstStep().ID,
			CompletedSteps: make([]string, 0, len(definition.Steps)),
			StartedAt:      now,
			LastActivity:   now,
		},
	}

	if partial != nil {
		execution.Context.Channel = partial.Channel
		execution.Context.UserID = partial.UserID
		execution.Context.ThreadTS = partial.ThreadTS

		for k, v := range partial.Data {
			execution.Context.Data[k] = v
		}
	}

	for k, v := range triggerData {
		execution.Context.Data[k] = v
	}

	e.executions[executionID] = execution
	settings := definition.Settings
	e.mu.Unlock()

	e.sched.Schedule(executionID, timeoutTimerKey, settings.Timeout(), func() {
		e.fail(executionID, models.ErrExecutionTimeout)
	})

	e.logger.Info("Started execution", "workflow_id", workflowID, "execution_id", executionID)
	e.publishStarted(ctx, execution)

	if settings.NotifyOnStart {
		e.notify(ctx, execution, settings, fmt.Sprintf("Workflow %q started.", definition.Name))
	}

	go e.run(executionID)

	return executionID, nil
}

// Continue merges a step result and user input into the data bag of a running
// execution and resumes it from its current step.
func (e *Engine) Continue(executionID string, stepResult any, userInput map[string]any) error {
	e.mu.Lock()

	execution, ok := e.executions[executionID]
	if !ok {
		e.mu.Unlock()

		return fmt.Errorf("%w: %s", models.ErrExecutionNotFound, executionID)
	}

	if execution.Status != models.ExecutionStatusRunning {
		e.mu.Unlock()

		return fmt.Errorf("%w: %s is %s", models.ErrInvalidExecutionState, executionID, execution.Status)
	}

	for k, v := range userInput {
		execution.Context.Data[k] = v
	}

	if stepResult != nil {
		execution.Context.Data[models.LastStepResultKey] = stepResult
	}

	execution.Context.LastActivity = e.now()
	e.mu.Unlock()

	go e.run(executionID)

	return nil
}

// Cancel transitions a running execution to cancelled and clears its timers.
// A non-existent or already-terminal execution yields ErrExecutionNotFound.
func (e *Engine) Cancel(ctx context.Context, executionID, reason string) error {
	e.mu.Lock()

	execution, ok := e.executions[executionID]
	if !ok || execution.Status != models.ExecutionStatusRunning {
		e.mu.Unlock()

		return fmt.Errorf("%w: %s", models.ErrExecutionNotFound, executionID)
	}

	execution.Status = models.ExecutionStatusCancelled
	execution.Context.LastActivity = e.now()

	settings, name := models.WorkflowSettings{}, execution.WorkflowID
	if definition, ok := e.definitions[execution.WorkflowID]; ok {
		settings, name = definition.Settings, definition.Name
	}
	e.mu.Unlock()

	e.sched.CancelOwner(executionID)
	e.logger.Info("Cancelled execution", "execution_id", executionID, "reason", reason)
	e.publishCancelled(ctx, execution, reason)

	if settings.NotifyOnCompletion {
		e.notify(ctx, execution, settings, fmt.Sprintf("Workflow %q was cancelled.", name))
	}

	return nil
}

// GetStatus returns a snapshot of a known execution.
func (e *Engine) GetStatus(executionID string) (*models.Execution, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	execution, ok := e.executions[executionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrExecutionNotFound, executionID)
	}

	return snapshotExecution(execution), nil
}

// ListActive returns snapshots of all running executions.
func (e *Engine) ListActive() []*models.Execution {
	e.mu.RLock()
	defer e.mu.RUnlock()

	active := make([]*models.Execution, 0, len(e.executions))

	for _, execution := range e.executions {
		if execution.Status == models.ExecutionStatusRunning {
			active = append(active, snapshotExecution(execution))
		}
	}

	return active
}

// Sweep removes executions idle past the staleness window, whatever their
// status, guarding against leaked runs whose trigger never resumed them.
func (e *Engine) Sweep() int {
	cutoff := e.now().Add(-stalenessWindow)

	e.mu.Lock()

	var stale []string

	for id, execution := range e.executions {
		if execution.Context.LastActivity.Before(cutoff) {
			stale = append(stale, id)
			delete(e.executions, id)
		}
	}
	e.mu.Unlock()

	for _, id := range stale {
		e.sched.CancelOwner(id)
		e.logger.Info("Swept stale execution", "execution_id", id)
	}

	return len(stale)
}

// Shutdown cancels every pending execution timer.
func (e *Engine) Shutdown() {
	e.mu.RLock()
	ids := make([]string, 0, len(e.executions))

	for id := range e.executions {
		ids = append(ids, id)
	}
	e.mu.RUnlock()

	for _, id := range ids {
		e.sched.CancelOwner(id)
	}
}

func (e *Engine) collectViolations(definition *models.Workflow) []string {
	var violations []string

	if definition == nil {
		return []string{"definition is required"}
	}

	if definition.ID == "" {
		violations = append(violations, "id is required")
	}

	if definition.Name == "" {
		violations = append(violations, "name is required")
	}

	if len(definition.Steps) == 0 {
		violations = append(violations, "at least one step is required")
	}

	seen := make(map[string]struct{}, len(definition.Steps))

	for i, step := range definition.Steps {
		if step == nil {
			violations = append(violations, fmt.Sprintf("step %d is nil", i))

			continue
		}

		if step.ID == "" {
			violations = append(violations, fmt.Sprintf("step %d is missing an id", i))
		} else if _, dup := seen[step.ID]; dup {
			violations = append(violations, fmt.Sprintf("step id %q is duplicated", step.ID))
		} else {
			seen[step.ID] = struct{}{}
		}

		if !step.Kind.Valid() {
			violations = append(violations, fmt.Sprintf("step %d has invalid kind %q", i, step.Kind))
		}

		if step.Configuration == nil {
			violations = append(violations, fmt.Sprintf("step %d is missing configuration", i))
		}

		for _, condition := range step.Conditions {
			if !condition.Operator.Valid() {
				violations = append(violations, fmt.Sprintf("step %d has invalid operator %q", i, condition.Operator))
			}
		}
	}

	for i, step := range definition.Steps {
		if step == nil {
			continue
		}

		for _, next := range step.NextSteps {
			if _, ok := seen[next]; !ok {
				violations = append(violations, fmt.Sprintf("step %d links to unknown step %q", i, next))
			}
		}
	}

	// Struct tags catch what the manual walk above does not (name length etc).
	if err := e.validate.Struct(definition); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			for _, fieldError := range fieldErrors {
				violation := fmt.Sprintf("%s fails %q", fieldError.Namespace(), fieldError.Tag())
				if !contains(violations, violation) {
					violations = append(violations, violation)
				}
			}
		}
	}

	return violations
}

func (e *Engine) notify(ctx context.Context, execution *models.Execution, settings models.WorkflowSettings, text string) {
	if e.messenger == nil {
		return
	}

	channel := settings.NotifyChannel
	if channel == "" {
		channel = execution.Context.Channel
	}

	if channel == "" {
		return
	}

	if _, err := e.messenger.SendMessage(ctx, channel, text, execution.Context.ThreadTS); err != nil {
		e.logger.Error("Failed to send workflow notification", "execution_id", execution.ID, "error", err)
	}
}

func snapshotExecution(execution *models.Execution) *models.Execution {
	snapshot := *execution
	snapshot.Context.CompletedSteps = append([]string(nil), execution.Context.CompletedSteps...)

	return &snapshot
}

func contains(items []string, needle string) bool {
	for _, item := range items {
		if item == needle {
			return true
		}
	}

	return false
}
