package breakpoint

import (
	"context"
	"log"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultRefreshInterval is the periodic refresh cadence when none is
// configured.
const DefaultRefreshInterval = 30 * time.Second

// Fetcher retrieves the current list of active breakpoints from the
// backend.
type Fetcher interface {
	FetchBreakpoints(ctx context.Context) ([]Config, error)
}

// Registry is the client-side cache of backend breakpoint configs,
// dual-keyed by function:label and file:line. The cache is an immutable
// map swapped wholesale on each successful refresh: concurrent readers
// observe either the fully-old or fully-new generation, never a mix,
// and configs removed upstream disappear on the next cycle.
type Registry struct {
	fetcher  Fetcher
	interval time.Duration
	debug    bool

	cache atomic.Value // map[string]*Config
	group singleflight.Group
	done  chan struct{}
}

// NewRegistry creates a Registry polling fetcher every interval.
// interval <= 0 selects DefaultRefreshInterval.
func NewRegistry(fetcher Fetcher, interval time.Duration, debug bool) *Registry {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	r := &Registry{
		fetcher:  fetcher,
		interval: interval,
		debug:    debug,
		done:     make(chan struct{}),
	}
	r.cache.Store(map[string]*Config{})
	return r
}

// Refresh fetches the active breakpoint list and atomically replaces
// the cache. On failure the prior cache stays intact and the error is
// returned for advisory logging; a failed refresh is never fatal.
// Concurrent callers are coalesced into a single fetch.
func (r *Registry) Refresh(ctx context.Context) error {
	_, err, _ := r.group.Do("refresh", func() (any, error) {
		configs, err := r.fetcher.FetchBreakpoints(ctx)
		if err != nil {
			return nil, err
		}
		r.cache.Store(buildIndex(configs))
		if r.debug {
			log.Printf("[Tracekit] Breakpoint cache updated: %d active breakpoints", len(configs))
		}
		return nil, nil
	})
	return err
}

// Lookup returns the best-matching config for a call site, or nil.
// A non-empty label is tried first under function:label; file:line is
// the universal fallback.
func (r *Registry) Lookup(function, label, file string, line int) *Config {
	cache := r.cache.Load().(map[string]*Config)

	if label != "" && function != "" {
		if cfg, ok := cache[function+":"+label]; ok {
			return cfg
		}
	}
	return cache[lineKey(file, line)]
}

// Len returns the number of cache entries (keys, not configs).
func (r *Registry) Len() int {
	return len(r.cache.Load().(map[string]*Config))
}

// Start launches the periodic refresh loop, beginning with an
// immediate refresh. Stop terminates it.
func (r *Registry) Start(ctx context.Context) {
	go func() {
		if err := r.Refresh(ctx); err != nil {
			log.Printf("[Tracekit] Failed to fetch breakpoints: %v", err)
		}

		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-r.done:
				return
			case <-ticker.C:
				if err := r.Refresh(ctx); err != nil {
					log.Printf("[Tracekit] Failed to fetch breakpoints: %v", err)
				}
			}
		}
	}()
}

// Stop terminates the periodic refresh loop. Safe to call once.
func (r *Registry) Stop() {
	close(r.done)
}

// buildIndex builds a fresh generation of the dual-keyed cache.
// Labeled configs index under both keys, unlabeled under file:line
// only.
func buildIndex(configs []Config) map[string]*Config {
	index := make(map[string]*Config, len(configs)*2)
	for i := range configs {
		cfg := &configs[i]
		if k := cfg.LabelKey(); k != "" {
			index[k] = cfg
		}
		index[cfg.LineKey()] = cfg
	}
	return index
}

func lineKey(file string, line int) string {
	return file + ":" + strconv.Itoa(line)
}
