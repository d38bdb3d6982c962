package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/events"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/otelhelper"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/template"
	"go.opentelemetry.io/otel/attribute"
)

// run drives one execution's step loop. Only one loop per execution may be
// active; delayed continuations re-enter here when their timer fires.
func (e *Engine) run(executionID string) {
	e.mu.Lock()

	if e.inFlight[executionID] {
		e.mu.Unlock()

		return
	}

	e.inFlight[executionID] = true
	e.mu.Unlock()

	// A suspending loop hands its slot over before arming the timer; the defer
	// must then leave the slot alone, or it would clear a re-entrant run that
	// already claimed it.
	suspended := false

	defer func() {
		if suspended {
			return
		}

		e.mu.Lock()
		delete(e.inFlight, executionID)
		e.mu.Unlock()
	}()

	ctx := context.Background()

	for {
		e.mu.Lock()

		execution, ok := e.executions[executionID]
		if !ok || execution.Status != models.ExecutionStatusRunning {
			e.mu.Unlock()

			return
		}

		definition, ok := e.definitions[execution.WorkflowID]
		if !ok {
			e.mu.Unlock()
			e.fail(executionID, fmt.Errorf("%w: %s", models.ErrWorkflowNotFound, execution.WorkflowID))

			return
		}

		stepID := execution.Context.CurrentStep
		if stepID == "" {
			e.mu.Unlock()
			e.complete(ctx, executionID)

			return
		}

		step, found := definition.StepByID(stepID)
		workflowID := execution.WorkflowID
		executionCtx := cloneContext(execution.Context)
		e.mu.Unlock()

		logger := e.logger.With("workflow_id", workflowID, "execution_id", executionID, "step_id", stepID)

		if !found {
			e.fail(executionID, fmt.Errorf("step %s not found in workflow %s", stepID, workflowID))

			return
		}

		// A step whose gate conditions fail is skipped without side effects.
		if !models.EvaluateAll(step.Conditions, executionCtx.Data) {
			logger.Info("Step conditions not met, skipping")

			if !e.advance(ctx, executionID, step, nil, nil, true) {
				return
			}

			continue
		}

		if step.Kind == models.StepKindDelay {
			delay, err := delayDuration(step)
			if err != nil {
				e.fail(executionID, err)

				return
			}

			logger.Info("Suspending execution", "delay", delay.String())

			// The loop must release its in-flight slot before the timer is
			// armed, or a short delay could fire into a still-held slot.
			e.mu.Lock()
			delete(e.inFlight, executionID)
			e.mu.Unlock()

			suspended = true

			e.sched.Schedule(executionID, "delay:"+step.ID, delay, func() {
				result := map[string]any{"delayed_for": delay.String()}
				if e.advance(context.Background(), executionID, step, result, nil, false) {
					e.run(executionID)
				}
			})

			return
		}

		result, err := e.dispatch(ctx, workflowID, executionID, step, executionCtx, logger)
		if err != nil {
			logger.Error("Step execution failed", "error", err)
			e.fail(executionID, err)

			return
		}

		logger.Info("Step completed", "step_kind", step.Kind)

		if !e.advance(ctx, executionID, step, result, executionCtx, false) {
			return
		}
	}
}

// dispatch executes one step by kind against a context clone. The clone keeps
// the registry consistent while the step does I/O without holding the lock.
func (e *Engine) dispatch(
	ctx context.Context,
	workflowID, executionID string,
	step *models.WorkflowStep,
	executionCtx *models.ExecutionContext,
	logger *slog.Logger,
) (result any, err error) {
	if e.tracer != nil {
		spanCtx, s := otelhelper.StartSpan(ctx, e.tracer, "workflow.step",
			attribute.String(otelhelper.WorkflowIDKey, workflowID),
			attribute.String(otelhelper.ExecutionIDKey, executionID),
			attribute.String(otelhelper.StepIDKey, step.ID),
			attribute.String(otelhelper.StepKindKey, string(step.Kind)),
		)
		ctx = spanCtx

		defer func() {
			if err != nil {
				otelhelper.SetError(s, err)
			}

			s.End()
		}()
	}

	switch step.Kind {
	case models.StepKindMessage:
		return e.executeMessageStep(ctx, workflowID, executionID, step, executionCtx)
	case models.StepKindAction:
		return e.executeActionStep(ctx, step, executionCtx, logger)
	case models.StepKindCondition:
		return executeConditionStep(step, executionCtx)
	case models.StepKindIntegration:
		return executeIntegrationStep(ctx, step, logger)
	case models.StepKindDelay:
		// Handled by the loop before dispatch.
		return nil, fmt.Errorf("delay step %s reached dispatch", step.ID)
	default:
		return nil, fmt.Errorf("unhandled step kind %q", step.Kind)
	}
}

func (e *Engine) executeMessageStep(
	ctx context.Context,
	workflowID, executionID string,
	step *models.WorkflowStep,
	executionCtx *models.ExecutionContext,
) (any, error) {
	var (
		text string
		err  error
	)

	switch {
	case step.ConfigString("template") != "":
		text, err = template.RenderWithContext(step.ConfigString("template"), executionCtx, executionID, workflowID)
		if err != nil {
			return nil, err
		}
	case step.ConfigString("text") != "":
		text = step.ConfigString("text")
		if template.NeedsTemplating(text) {
			text, err = template.RenderWithContext(text, executionCtx, executionID, workflowID)
			if err != nil {
				return nil, err
			}
		}
	case step.Configuration["content"] != nil:
		text = fmt.Sprintf("%v", step.Configuration["content"])
	default:
		return nil, fmt.Errorf("message step %s has no content", step.ID)
	}

	channel := step.ConfigString("channel")
	if channel == "" {
		channel = executionCtx.Channel
	}

	if channel == "" {
		return nil, fmt.Errorf("message step %s has no target channel", step.ID)
	}

	ref, err := e.messenger.SendMessage(ctx, channel, text, executionCtx.ThreadTS)
	if err != nil {
		return nil, err
	}

	return map[string]any{"channel": ref.Channel, "timestamp": ref.Timestamp}, nil
}

func (e *Engine) executeActionStep(
	ctx context.Context,
	step *models.WorkflowStep,
	executionCtx *models.ExecutionContext,
	logger *slog.Logger,
) (any, error) {
	kind := step.ConfigString("action")
	if kind == "" {
		return nil, fmt.Errorf("%w: action step %s names no action", models.ErrUnknownAction, step.ID)
	}

	action, err := e.registry.CreateAction(kind, step.Configuration)
	if err != nil {
		return nil, err
	}

	result, err := action.Execute(ctx, executionCtx, logger.With("action_kind", kind))
	if err != nil {
		return nil, &models.ActionError{Kind: kind, Err: err}
	}

	return result, nil
}

// executeConditionStep evaluates the conditions in the step configuration and
// records the boolean outcome, so downstream steps can branch on lastStepResult.
func executeConditionStep(step *models.WorkflowStep, executionCtx *models.ExecutionContext) (any, error) {
	raw, err := json.Marshal(step.Configuration["conditions"])
	if err != nil {
		return nil, fmt.Errorf("condition step %s has malformed conditions: %w", step.ID, err)
	}

	var conditions []models.Condition

	if err := json.Unmarshal(raw, &conditions); err != nil {
		return nil, fmt.Errorf("condition step %s has malformed conditions: %w", step.ID, err)
	}

	return models.EvaluateAll(conditions, executionCtx.Data), nil
}

func executeIntegrationStep(ctx context.Context, step *models.WorkflowStep, logger *slog.Logger) (any, error) {
	system := step.ConfigString("system")
	if system == "" {
		return nil, fmt.Errorf("integration step %s names no system", step.ID)
	}

	operation := step.ConfigString("operation")

	logger.InfoContext(ctx, "Dispatching integration", "system", system, "operation", operation)

	return map[string]any{"system": system, "operation": operation, "status": "ok"}, nil
}

// advance records a completed (or skipped) step and moves the execution to its
// next step. It returns false when the loop should stop: the execution left
// the running state, suspended or completed.
func (e *Engine) advance(
	ctx context.Context,
	executionID string,
	step *models.WorkflowStep,
	result any,
	executionCtx *models.ExecutionContext,
	skipped bool,
) bool {
	e.mu.Lock()

	execution, ok := e.executions[executionID]
	if !ok || execution.Status != models.ExecutionStatusRunning {
		// The execution was cancelled or failed mid-dispatch; discard the result.
		e.mu.Unlock()

		return false
	}

	if executionCtx != nil {
		execution.Context.Data = executionCtx.Data
		execution.Context.ThreadTS = executionCtx.ThreadTS
	}

	execution.Context.CompletedSteps = append(execution.Context.CompletedSteps, step.ID)

	if !skipped {
		execution.Context.Data[models.LastStepResultKey] = result
	}

	execution.Context.LastActivity = e.now()

	var next string

	switch len(step.NextSteps) {
	case 0:
	case 1:
		next = step.NextSteps[0]
	default:
		next = e.selector(step, execution)
	}

	execution.Context.CurrentStep = next
	e.mu.Unlock()

	if next == "" {
		e.complete(ctx, executionID)

		return false
	}

	return true
}

func (e *Engine) complete(ctx context.Context, executionID string) {
	e.mu.Lock()

	execution, ok := e.executions[executionID]
	if !ok || execution.Status != models.ExecutionStatusRunning {
		e.mu.Unlock()

		return
	}

	execution.Status = models.ExecutionStatusCompleted
	execution.Context.LastActivity = e.now()

	settings, name := models.WorkflowSettings{}, execution.WorkflowID
	if definition, ok := e.definitions[execution.WorkflowID]; ok {
		settings, name = definition.Settings, definition.Name
	}
	e.mu.Unlock()

	e.sched.CancelOwner(executionID)
	e.logger.Info("Execution completed", "execution_id", executionID)
	e.publishCompleted(ctx, execution)

	if settings.NotifyOnCompletion {
		e.notify(ctx, execution, settings, fmt.Sprintf("Workflow %q completed.", name))
	}
}

func (e *Engine) fail(executionID string, cause error) {
	e.mu.Lock()

	execution, ok := e.executions[executionID]
	if !ok || execution.Status != models.ExecutionStatusRunning {
		e.mu.Unlock()

		return
	}

	execution.Status = models.ExecutionStatusFailed
	execution.Error = cause.Error()
	execution.Context.LastActivity = e.now()

	settings, name := models.WorkflowSettings{}, execution.WorkflowID
	if definition, ok := e.definitions[execution.WorkflowID]; ok {
		settings, name = definition.Settings, definition.Name
	}
	e.mu.Unlock()

	e.sched.CancelOwner(executionID)
	e.logger.Error("Execution failed", "execution_id", executionID, "error", cause)

	ctx := context.Background()
	e.publishFailed(ctx, execution, errors.Is(cause, models.ErrExecutionTimeout))

	if settings.NotifyOnError {
		text := fmt.Sprintf("Workflow %q ran into a problem and was stopped.", name)
		if errors.Is(cause, models.ErrExecutionTimeout) {
			text = fmt.Sprintf("Workflow %q did not finish in time and was stopped.", name)
		}

		e.notify(ctx, execution, settings, text)
	}
}

func delayDuration(step *models.WorkflowStep) (time.Duration, error) {
	if raw := step.ConfigString("duration"); raw != "" {
		delay, err := time.ParseDuration(raw)
		if err != nil {
			return 0, fmt.Errorf("delay step %s has invalid duration %q: %w", step.ID, raw, err)
		}

		return delay, nil
	}

	if raw, ok := step.Configuration["seconds"]; ok {
		switch v := raw.(type) {
		case int:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		}
	}

	return 0, fmt.Errorf("delay step %s has no duration", step.ID)
}

func cloneContext(executionCtx models.ExecutionContext) *models.ExecutionContext {
	clone := executionCtx
	clone.Data = make(map[string]any, len(executionCtx.Data))

	for k, v := range executionCtx.Data {
		clone.Data[k] = v
	}

	clone.CompletedSteps = append([]string(nil), executionCtx.CompletedSteps...)

	return &clone
}

func (e *Engine) publishStarted(ctx context.Context, execution *models.Execution) {
	if e.bus == nil {
		return
	}

	event := events.ExecutionStarted{
		BaseEvent:   e.baseEvent(events.ExecutionStartedEvent),
		ExecutionID: execution.ID,
		WorkflowID:  execution.WorkflowID,
		Channel:     execution.Context.Channel,
	}

	e.publish(ctx, execution.ID, event)
}

func (e *Engine) publishCompleted(ctx context.Context, execution *models.Execution) {
	if e.bus == nil {
		return
	}

	event := events.ExecutionCompleted{
		BaseEvent:      e.baseEvent(events.ExecutionCompletedEvent),
		ExecutionID:    execution.ID,
		WorkflowID:     execution.WorkflowID,
		CompletedSteps: len(execution.Context.CompletedSteps),
		Duration:       e.now().Sub(execution.Context.StartedAt),
	}

	e.publish(ctx, execution.ID, event)
}

func (e *Engine) publishFailed(ctx context.Context, execution *models.Execution, timeout bool) {
	if e.bus == nil {
		return
	}

	event := events.ExecutionFailed{
		BaseEvent:   e.baseEvent(events.ExecutionFailedEvent),
		ExecutionID: execution.ID,
		WorkflowID:  execution.WorkflowID,
		Error:       execution.Error,
		Timeout:     timeout,
		Duration:    e.now().Sub(execution.Context.StartedAt),
	}

	e.publish(ctx, execution.ID, event)
}

func (e *Engine) publishCancelled(ctx context.Context, execution *models.Execution, reason string) {
	if e.bus == nil {
		return
	}

	event := events.ExecutionCancelled{
		BaseEvent:   e.baseEvent(events.ExecutionCancelledEvent),
		ExecutionID: execution.ID,
		WorkflowID:  execution.WorkflowID,
		Reason:      reason,
	}

	e.publish(ctx, execution.ID, event)
}

func (e *Engine) baseEvent(eventType events.EventType) events.BaseEvent {
	return events.BaseEvent{
		ID:        e.bus.GenerateID(),
		Type:      eventType,
		Timestamp: e.now(),
	}
}

func (e *Engine) publish(ctx context.Context, key string, event eventbusEvent) {
	if err := e.bus.Publish(ctx, key, event); err != nil {
		e.logger.Error("Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}

type eventbusEvent interface {
	GetType() events.EventType
}
