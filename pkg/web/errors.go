package web

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/models"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleServiceError maps service layer errors to problem responses.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case models.IsValidationError(err):
		return badRequest(c, err.Error())

	case errors.Is(err, models.ErrWorkflowNotFound):
		return notFound(c, "workflow not found")

	case errors.Is(err, models.ErrExecutionNotFound):
		return notFound(c, "execution not found")

	case errors.Is(err, models.ErrTeamNotFound):
		return notFound(c, "team not found")

	case errors.Is(err, models.ErrRuleNotFound):
		return notFound(c, "rule not found")

	case errors.Is(err, models.ErrNotificationNotFound):
		return notFound(c, "notification not found")

	case errors.Is(err, models.ErrThreadNotFound):
		return notFound(c, "thread context not found")

	case errors.Is(err, models.ErrInvalidExecutionState):
		problem := problems.NewStatusProblem(409).
			WithInstance(c.Path()).
			WithType("conflict").
			WithDetail(err.Error())

		return c.Status(fiber.StatusConflict).JSON(problem)

	default:
		return internalError(c, err)
	}
}
