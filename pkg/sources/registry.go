package sources

import (
	"sync"

	"github.com/modelscout/modelscout/pkg/logging"
)

// Registry is a thread-safe lookup table of available fetchers. It is an
// explicitly constructed, caller-owned instance: the orchestrator receives
// one rather than consulting shared global state, so tests can build
// isolated registries.
type Registry struct {
	mu       sync.RWMutex
	fetchers map[ID]Fetcher
	order    []ID // registration order for deterministic enumeration
}

// NewRegistry creates an empty fetcher registry.
func NewRegistry() *Registry {
	return &Registry{
		fetchers: make(map[ID]Fetcher),
	}
}

// Register adds a fetcher. A second registration under the same ID
// overwrites the first with a warning.
func (r *Registry) Register(f Fetcher) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := f.ID()
	if _, exists := r.fetchers[id]; exists {
		logging.Warn().
			Str("source", string(id)).
			Msg("Overwriting previously registered fetcher")
	} else {
		r.order = append(r.order, id)
	}
	r.fetchers[id] = f
}

// Get returns a fetcher by ID.
func (r *Registry) Get(id ID) (Fetcher, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, found := r.fetchers[id]
	return f, found
}

// All returns every registered fetcher in registration order.
func (r *Registry) All() []Fetcher {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fetchers := make([]Fetcher, 0, len(r.fetchers))
	for _, id := range r.order {
		fetchers = append(fetchers, r.fetchers[id])
	}
	return fetchers
}

// Enabled returns the fetchers that pass both the configuration's source
// filter and their own enablement predicate, in registration order.
func (r *Registry) Enabled(cfg *Config) []Fetcher {
	var enabled []Fetcher
	for _, f := range r.All() {
		if cfg.SourceEnabled(f.ID()) && f.Enabled(cfg) {
			enabled = append(enabled, f)
		}
	}
	return enabled
}

// Len returns the number of registered fetchers.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.fetchers)
}
