// Package main provides the orchestrator API server.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/escalation"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/registry"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/thread"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/web"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/workflow"
)

type API struct {
	logger   *slog.Logger
	engine   *workflow.Engine
	router   *escalation.Router
	threads  *thread.Store
	registry *registry.Registry
	validate *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	engine *workflow.Engine,
	router *escalation.Router,
	threads *thread.Store,
	registry *registry.Registry,
) *API {
	return &API{
		logger:   logger,
		engine:   engine,
		router:   router,
		threads:  threads,
		registry: registry,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	handlers := web.NewAPIHandlers(a.engine, a.router, a.threads, a.registry, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Orchestrator API")
	})

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Post("/:id/start", handlers.StartExecution)

	e := app.Group("/executions")
	e.Get("/", handlers.GetExecutions)
	e.Get("/:id", handlers.GetExecution)
	e.Post("/:id/continue", handlers.ContinueExecution)
	e.Delete("/:id", handlers.CancelExecution)

	r := app.Group("/rules")
	r.Post("/", handlers.CreateRule)
	r.Get("/:id", handlers.GetRule)

	t := app.Group("/teams")
	t.Post("/", handlers.CreateTeam)
	t.Get("/:id", handlers.GetTeam)

	m := app.Group("/mentions")
	m.Post("/", handlers.ProcessMention)
	m.Post("/:id/escalate", handlers.EscalateMention)

	app.Post("/notifications/:id/ack", handlers.AcknowledgeNotification)
	app.Get("/escalation/stats", handlers.EscalationStats)

	th := app.Group("/threads")
	th.Get("/:id", handlers.GetThread)
	th.Get("/:id/summary", handlers.GetThreadSummary)
	th.Delete("/:id", handlers.DeleteThread)

	app.Get("/registry/components", handlers.GetComponents)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
