package agent

import (
	"log"
	"sync"
)

// runner dispatches fire-and-forget tasks. The pool is unbounded: the
// instrumented call site must never wait for capacity. Every task runs
// under recover so a transmission bug cannot take the host application
// down, and Wait drains in-flight tasks at shutdown (all tasks are
// bounded by the transport timeouts).
type runner struct {
	wg sync.WaitGroup
}

// Go runs task on its own goroutine.
func (r *runner) Go(task func()) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[Tracekit] Recovered panic in background task: %v", rec)
			}
		}()
		task()
	}()
}

// Wait blocks until all in-flight tasks finish.
func (r *runner) Wait() {
	r.wg.Wait()
}
