package bridge

import (
	"fmt"
	"log"
	"sync"

	"github.com/dmaxwell/rasterfx/internal/domain"
)

// Registry correlates asynchronous outcomes back to the caller that issued
// each job, keyed by the job's id. It is owned by a single Bridge instance,
// never process-global, and is safe for concurrent use by multiple callers.
type Registry struct {
	logger  *log.Logger
	mu      sync.Mutex
	pending map[string]func(domain.EffectOutcome)
}

func NewRegistry(logger *log.Logger) *Registry {
	return &Registry{
		logger:  logger,
		pending: make(map[string]func(domain.EffectOutcome)),
	}
}

// Register stores a resolver under id. An id already in flight is rejected;
// the caller must not reuse ids until the prior outcome is delivered.
func (r *Registry) Register(id string, resolve func(domain.EffectOutcome)) error {
	if id == "" {
		return fmt.Errorf("job id is required")
	}
	if resolve == nil {
		return fmt.Errorf("resolver is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.pending[id]; exists {
		return fmt.Errorf("job id %q is already in flight", id)
	}
	r.pending[id] = resolve
	return nil
}

// Resolve invokes and removes the resolver registered under the outcome's id.
// An unknown or already-resolved id is dropped with a logged anomaly; the
// protocol guards this invariant rather than crashing on it.
func (r *Registry) Resolve(id string, outcome domain.EffectOutcome) bool {
	r.mu.Lock()
	resolve, ok := r.pending[id]
	if ok {
		delete(r.pending, id)
	}
	r.mu.Unlock()

	if !ok {
		if r.logger != nil {
			r.logger.Printf("registry anomaly: outcome for unknown job id=%s dropped", id)
		}
		return false
	}

	resolve(outcome)
	return true
}

// Remove discards a pending entry without invoking it. Used to roll back a
// registration when submission fails after Register.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	delete(r.pending, id)
	r.mu.Unlock()
}

// Size reports the number of in-flight jobs, for diagnostics and metrics.
func (r *Registry) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}
