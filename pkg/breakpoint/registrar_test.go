package breakpoint

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeRegistrarClient struct {
	calls atomic.Int32
	err   error
}

func (c *fakeRegistrarClient) RegisterBreakpoint(ctx context.Context, reg Registration) error {
	c.calls.Add(1)
	return c.err
}

// inlineRunner executes tasks synchronously so tests stay
// deterministic.
func inlineRunner(task func()) { task() }

func newTestRegistrar(client RegistrarClient, fetcher Fetcher) *Registrar {
	registry := NewRegistry(fetcher, time.Hour, false)
	return NewRegistrar(client, registry, "testsvc", inlineRunner, false)
}

func TestEnsureRegisteredOncePerIdentity(t *testing.T) {
	client := &fakeRegistrarClient{}
	g := newTestRegistrar(client, &fakeFetcher{batches: [][]Config{{}}})

	g.EnsureRegistered("billing.go", 42, "billing.Checkout", "order-charged")
	g.EnsureRegistered("billing.go", 42, "billing.Checkout", "order-charged")
	g.EnsureRegistered("billing.go", 99, "billing.Checkout", "order-charged") // same identity, moved line

	if got := client.calls.Load(); got != 1 {
		t.Errorf("registration calls = %d, want 1", got)
	}

	g.EnsureRegistered("billing.go", 42, "billing.Checkout", "order-refunded")
	if got := client.calls.Load(); got != 2 {
		t.Errorf("registration calls = %d, want 2 after new label", got)
	}
}

func TestEnsureRegisteredConcurrentClaim(t *testing.T) {
	client := &fakeRegistrarClient{}
	g := newTestRegistrar(client, &fakeFetcher{batches: [][]Config{{}}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.EnsureRegistered("svc.go", 7, "svc.Handle", "hot-path")
		}()
	}
	wg.Wait()

	if got := client.calls.Load(); got != 1 {
		t.Errorf("registration calls = %d, want 1", got)
	}
}

func TestAcceptedRegistrationTriggersRefresh(t *testing.T) {
	client := &fakeRegistrarClient{}
	fetcher := &fakeFetcher{batches: [][]Config{{labeled("bp-1", "svc.Handle", "hot-path", "svc.go", 7)}}}
	g := newTestRegistrar(client, fetcher)

	g.EnsureRegistered("svc.go", 7, "svc.Handle", "hot-path")

	if fetcher.callCount() != 1 {
		t.Fatalf("refresh calls = %d, want 1 after accepted registration", fetcher.callCount())
	}
	if got := g.registry.Lookup("svc.Handle", "hot-path", "svc.go", 7); got == nil {
		t.Error("breakpoint not lookup-able after post-registration refresh")
	}
}

func TestFailedRegistrationNotRetried(t *testing.T) {
	client := &fakeRegistrarClient{err: errors.New("backend rejected")}
	fetcher := &fakeFetcher{batches: [][]Config{{}}}
	g := newTestRegistrar(client, fetcher)

	g.EnsureRegistered("svc.go", 7, "svc.Handle", "hot-path")
	g.EnsureRegistered("svc.go", 7, "svc.Handle", "hot-path")

	if got := client.calls.Load(); got != 1 {
		t.Errorf("registration calls = %d, want 1 (no retry after failure)", got)
	}
	if fetcher.callCount() != 0 {
		t.Errorf("refresh calls = %d, want 0 after rejected registration", fetcher.callCount())
	}
}
