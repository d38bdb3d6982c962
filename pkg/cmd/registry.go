// Package cmd provides common initialization functions for command-line applications.
package cmd

import (
	"log/slog"

	"github.com/keleshteri/zendesk-clickup-automation/pkg/actions/addreaction"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/actions/assignuser"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/actions/createthread"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/actions/updatecontext"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/messaging"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/registry"
	"github.com/keleshteri/zendesk-clickup-automation/pkg/thread"
)

func registerNativeActions(reg *registry.Registry, messenger messaging.Messenger, threads *thread.Store) {
	if err := reg.RegisterAction(assignuser.NewFactory(threads)); err != nil {
		panic(err)
	}

	if err := reg.RegisterAction(createthread.NewFactory(messenger, threads)); err != nil {
		panic(err)
	}

	if err := reg.RegisterAction(addreaction.NewFactory(messenger)); err != nil {
		panic(err)
	}

	if err := reg.RegisterAction(updatecontext.NewFactory()); err != nil {
		panic(err)
	}
}

// NewRegistry builds the action registry with every built-in action wired to
// its collaborators.
func NewRegistry(logger *slog.Logger, messenger messaging.Messenger, threads *thread.Store) *registry.Registry {
	reg := registry.NewRegistry(logger)

	registerNativeActions(reg, messenger, threads)

	return reg
}
