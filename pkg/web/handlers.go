package web

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/escalation"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/registry"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/thread"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/workflow"
)

type APIHandlers struct {
	engine    *workflow.Engine
	router    *escalation.Router
	threads   *thread.Store
	registry  *registry.Registry
	validator *validator.Validate
}

func NewAPIHandlers(
	engine *workflow.Engine,
	router *escalation.Router,
	threads *thread.Store,
	registry *registry.Registry,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		engine:    engine,
		router:    router,
		threads:   threads,
		registry:  registry,
		validator: validator,
	}
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	definitions := h.engine.Definitions()

	return c.JSON(fiber.Map{
		"workflows":   definitions,
		"total_count": len(definitions),
	})
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	definition, err := h.engine.Definition(id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(definition)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var definition models.Workflow
	if err := c.Bind().JSON(&definition); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.engine.Register(&definition); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(definition)
}

func (h *APIHandlers) StartExecution(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req StartExecutionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	partial := &models.ExecutionContext{
		Channel:  req.Channel,
		UserID:   req.UserID,
		ThreadTS: req.ThreadTS,
	}

	executionID, err := h.engine.Start(c.Context(), id, partial, req.TriggerData)
	if err != nil {
		return handleServiceError(c, err)
	}

	execution, err := h.engine.GetStatus(executionID)
	if err != nil {
		return internalError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(StartExecutionResponse{
		ExecutionID: execution.ID,
		WorkflowID:  execution.WorkflowID,
		Status:      execution.Status,
		StartedAt:   execution.Context.StartedAt,
	})
}

func (h *APIHandlers) GetExecutions(c fiber.Ctx) error {
	executions := h.engine.ListActive()

	return c.JSON(fiber.Map{
		"executions":  executions,
		"total_count": len(executions),
	})
}

func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	execution, err := h.engine.GetStatus(id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(execution)
}

func (h *APIHandlers) ContinueExecution(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	var req ContinueExecutionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.engine.Continue(id, req.StepResult, req.UserInput); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusAccepted)
}

func (h *APIHandlers) CancelExecution(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	var req CancelExecutionRequest
	// Body is optional on cancellation.
	_ = c.Bind().JSON(&req)

	if err := h.engine.Cancel(c.Context(), id, req.Reason); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) CreateRule(c fiber.Ctx) error {
	var rule models.MentionRule
	if err := c.Bind().JSON(&rule); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.router.RegisterRule(&rule); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(rule)
}

func (h *APIHandlers) GetRule(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Rule ID is required")
	}

	rule, err := h.router.Rule(id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(rule)
}

func (h *APIHandlers) CreateTeam(c fiber.Ctx) error {
	var team models.Team
	if err := c.Bind().JSON(&team); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.router.RegisterTeam(&team); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(team)
}

func (h *APIHandlers) GetTeam(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Team ID is required")
	}

	team, err := h.router.Team(id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(team)
}

func (h *APIHandlers) ProcessMention(c fiber.Ctx) error {
	var req MentionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	event := req.ToEvent()

	if err := h.router.Process(c.Context(), event); err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"mention_id":    event.ID,
		"notifications": h.router.NotificationsForMention(event.ID),
	})
}

func (h *APIHandlers) EscalateMention(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Mention ID is required")
	}

	var req EscalateRequest
	_ = c.Bind().JSON(&req)

	if req.Level < 0 {
		return badRequest(c, "Escalation level must not be negative")
	}

	if err := h.router.Escalate(c.Context(), id, req.Level); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusAccepted)
}

func (h *APIHandlers) AcknowledgeNotification(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Notification ID is required")
	}

	var req AcknowledgeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.router.Acknowledge(c.Context(), id, req.ResponderID); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) EscalationStats(c fiber.Ctx) error {
	timeframe := 24 * time.Hour

	if hoursStr := c.Query("hours"); hoursStr != "" {
		hours, err := strconv.Atoi(hoursStr)
		if err != nil || hours <= 0 {
			return badRequest(c, "Invalid hours parameter")
		}

		timeframe = time.Duration(hours) * time.Hour
	}

	return c.JSON(h.router.Stats(timeframe))
}

func (h *APIHandlers) GetThread(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Thread ID is required")
	}

	tc, err := h.threads.GetContext(id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(tc)
}

func (h *APIHandlers) GetThreadSummary(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Thread ID is required")
	}

	summary, err := h.threads.GetSummary(id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(summary)
}

func (h *APIHandlers) DeleteThread(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Thread ID is required")
	}

	h.threads.Delete(c.Context(), id)

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetComponents(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"components": h.registry.Components(),
	})
}
