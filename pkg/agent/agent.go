package agent

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tracekit/agent-go/pkg/breakpoint"
	"github.com/tracekit/agent-go/pkg/capture"
	"github.com/tracekit/agent-go/pkg/security"
	"github.com/tracekit/agent-go/pkg/snapshot"
	"github.com/tracekit/agent-go/pkg/transport"
)

// Agent is the Tracekit snapshot agent. It mirrors backend breakpoint
// configuration, gates capture requests, sanitizes captured state, and
// ships snapshots without ever disturbing the host application.
type Agent struct {
	config    *Config
	client    *transport.Client
	registry  *breakpoint.Registry
	registrar *breakpoint.Registrar
	scanner   *security.Scanner
	live      *transport.LiveChannel
	tasks     runner

	cancel  context.CancelFunc
	started atomic.Bool
	mu      sync.Mutex
}

var (
	globalAgent *Agent
	globalOnce  sync.Once
)

// Init initializes the global agent. Subsequent calls return the
// already-initialized instance. A missing API key or service name logs
// and leaves the agent disabled; Capture stays a safe no-op.
func Init(options ...ConfigOption) *Agent {
	globalOnce.Do(func() {
		config := NewConfig(options...)
		if err := config.Validate(); err != nil {
			log.Printf("[Tracekit] %v", err)
			return
		}

		globalAgent = New(config)
		globalAgent.Start()

		log.Printf("[Tracekit] Agent v%s initialized for service: %s, environment: %s",
			transport.Version, config.ServiceName, config.Environment)
	})

	return globalAgent
}

// GetAgent returns the global agent, nil when Init failed or was never
// called.
func GetAgent() *Agent {
	return globalAgent
}

// New creates an agent without starting it. Most applications use Init
// instead; New exists for embedding and tests.
func New(config *Config) *Agent {
	a := &Agent{
		config:  config,
		client:  transport.NewClient(config.BaseURL, config.APIKey, config.ServiceName),
		scanner: security.NewScanner(),
	}
	a.registry = breakpoint.NewRegistry(a.client, config.RefreshInterval, config.Debug)
	a.registrar = breakpoint.NewRegistrar(a.client, a.registry, config.ServiceName, a.tasks.Go, config.Debug)
	return a
}

// Start begins the periodic breakpoint refresh and, when configured,
// the live update channel. Idempotent.
func (a *Agent) Start() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.started.Load() {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel

	a.registry.Start(ctx)

	if a.config.LiveURL != "" {
		a.live = transport.NewLiveChannel(a.config.LiveURL, a.config.APIKey, func() {
			a.tasks.Go(func() {
				if err := a.registry.Refresh(context.Background()); err != nil {
					log.Printf("[Tracekit] Live-triggered refresh failed: %v", err)
				}
			})
		}, a.config.Debug)
		go a.live.Run(ctx)
	}

	a.started.Store(true)

	if a.config.Debug {
		log.Println("[Tracekit] Agent started")
	}
}

// Stop shuts the agent down, draining in-flight submissions. Idempotent.
func (a *Agent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.started.Load() {
		return
	}

	a.cancel()
	a.registry.Stop()
	if a.live != nil {
		a.live.Close()
	}
	a.tasks.Wait()
	a.started.Store(false)

	if a.config.Debug {
		log.Println("[Tracekit] Agent stopped")
	}
}

// Capture checks whether an active breakpoint covers the calling line
// and, if so, captures the given variables as a sanitized snapshot.
// The call never blocks on network I/O, never panics, and never returns
// an error: every internal failure degrades to a log line.
func (a *Agent) Capture(label string, variables map[string]any) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[Tracekit] Recovered panic in Capture: %v", rec)
		}
	}()

	if a == nil || !a.started.Load() {
		return
	}

	a.captureFrom(1, label, variables)
}

// captureFrom is the capture path shared by Capture and the package
// function; skip addresses the instrumented caller's frame.
func (a *Agent) captureFrom(skip int, label string, variables map[string]any) {
	loc, ok := capture.Caller(skip + 1)
	if !ok {
		if a.config.Debug {
			log.Println("[Tracekit] Could not resolve caller location, skipping capture")
		}
		return
	}

	a.registrar.EnsureRegistered(loc.File, loc.Line, loc.Function, label)

	cfg := a.registry.Lookup(loc.Function, label, loc.File, loc.Line)
	eligible, reason := breakpoint.Eligible(cfg, time.Now())
	if !eligible {
		if a.config.Debug {
			log.Printf("[Tracekit] Skipping capture at %s:%d (%s): %s", loc.File, loc.Line, label, reason)
		}
		return
	}

	sanitized, flags := snapshot.Sanitize(variables, a.scanner)

	snap := snapshot.New(cfg.ID, a.config.ServiceName)
	snap.FilePath = loc.File
	snap.FunctionName = loc.Function
	snap.Label = label
	snap.LineNumber = loc.Line
	snap.Variables = sanitized
	snap.SecurityFlags = flags
	snap.StackTrace = capture.StackTrace(skip + 1)
	if a.config.TraceContext != nil {
		snap.TraceID, snap.SpanID = a.config.TraceContext()
	}

	a.tasks.Go(func() {
		if err := a.client.SubmitSnapshot(context.Background(), snap); err != nil {
			log.Printf("[Tracekit] Failed to submit snapshot %s: %v", snap.ID, err)
			return
		}
		if a.config.Debug {
			log.Printf("[Tracekit] Snapshot captured: %s", label)
		}
	})
}

// Package-level convenience functions mirroring the Agent methods.

// Capture captures variables through the global agent. Safe to call
// even when the agent was never initialized.
func Capture(label string, variables map[string]any) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[Tracekit] Recovered panic in Capture: %v", rec)
		}
	}()

	if globalAgent == nil || !globalAgent.started.Load() {
		return
	}
	globalAgent.captureFrom(1, label, variables)
}

// Shutdown stops the global agent.
func Shutdown() {
	if globalAgent != nil {
		globalAgent.Stop()
	}
}
