package breakpoint

import (
	"context"
	"log"
	"sync"
	"time"
)

// refreshDelay gives the backend a moment to persist a newly accepted
// registration before the out-of-band refresh makes it lookup-able.
const refreshDelay = 500 * time.Millisecond

// RegistrarClient submits a capture-point registration to the backend.
// A nil error means the backend accepted it (2xx).
type RegistrarClient interface {
	RegisterBreakpoint(ctx context.Context, reg Registration) error
}

// Runner executes a task asynchronously; the caller never blocks on it.
type Runner func(task func())

// Registrar self-registers newly seen capture points, at most once per
// process lifetime per function:label identity. Claiming the identity
// happens before the network call, so a failed registration is never
// retried for that key.
type Registrar struct {
	client      RegistrarClient
	registry    *Registry
	serviceName string
	run         Runner
	debug       bool

	seen sync.Map // "function:label" -> struct{}
}

// NewRegistrar creates a Registrar submitting through client and
// refreshing registry after accepted registrations. run dispatches the
// network work off the caller's goroutine.
func NewRegistrar(client RegistrarClient, registry *Registry, serviceName string, run Runner, debug bool) *Registrar {
	if run == nil {
		run = func(task func()) { go task() }
	}
	return &Registrar{
		client:      client,
		registry:    registry,
		serviceName: serviceName,
		run:         run,
		debug:       debug,
	}
}

// EnsureRegistered registers the capture point exactly once per process
// lifetime and returns immediately; registration runs asynchronously.
// On backend acceptance it schedules a delayed registry refresh so the
// new breakpoint becomes visible without waiting for the periodic
// cycle.
func (g *Registrar) EnsureRegistered(file string, line int, function, label string) {
	key := function + ":" + label
	if _, claimed := g.seen.LoadOrStore(key, struct{}{}); claimed {
		return
	}

	if g.debug {
		log.Printf("[Tracekit] Auto-registering breakpoint: %s at %s:%d", label, file, line)
	}

	reg := Registration{
		ServiceName:  g.serviceName,
		FilePath:     file,
		LineNumber:   line,
		FunctionName: function,
		Label:        label,
	}

	g.run(func() {
		if err := g.client.RegisterBreakpoint(context.Background(), reg); err != nil {
			log.Printf("[Tracekit] Failed to auto-register breakpoint %s: %v", key, err)
			return
		}

		time.Sleep(refreshDelay)
		if err := g.registry.Refresh(context.Background()); err != nil {
			log.Printf("[Tracekit] Post-registration refresh failed: %v", err)
		}
	})
}
