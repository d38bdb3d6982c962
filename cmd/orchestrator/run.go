package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
	cli "github.com/urfave/cli/v3"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/cmd"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/escalation"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/log"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/messaging"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/otelhelper"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/scheduler"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/thread"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/workflow"
)

func run(ctx context.Context, logger *slog.Logger, command *cli.Command) error {
	log.Setup(command.String("log-level"))

	logger.InfoContext(ctx, "Initializing orchestrator")

	eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	sched := scheduler.New(logger)
	defer sched.Stop()

	messenger := messaging.NewLoggerMessenger(logger)
	threads := thread.NewStore(eventBus, logger)
	registry := cmd.NewRegistry(logger, messenger, threads)

	engine := workflow.NewEngine(registry, sched, eventBus, messenger, logger)
	defer engine.Shutdown()

	if command.Bool("tracing") {
		tracer, err := otelhelper.NewTracer(ctx, "orchestrator")
		if err != nil {
			return fmt.Errorf("failed to initialize tracer: %w", err)
		}

		engine.SetTracer(tracer)
	}

	router := escalation.NewRouter(
		escalation.NewKeywordClassifier(),
		sched,
		messenger,
		nil,
		eventBus,
		logger,
	)

	sweeper := cron.New()

	_, err := sweeper.AddFunc("@hourly", func() {
		removedExecutions := engine.Sweep()
		expired := router.Sweep(context.Background())
		removedThreads := threads.Sweep(context.Background(), time.Now().Add(-thread.InactivityCutoff))

		logger.Info("Hourly sweep finished",
			"stale_executions", removedExecutions,
			"expired_notifications", expired,
			"removed_threads", removedThreads)
	})
	if err != nil {
		return err
	}

	sweeper.Start()
	defer sweeper.Stop()

	api := NewAPI(logger, engine, router, threads, registry)

	return api.Start(command.Int("port"))
}
