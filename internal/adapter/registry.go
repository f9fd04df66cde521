package adapter

import (
	"context"
	"sync"

	"github.com/claude/liftadapt/internal/accessory"
)

// Registry lazily creates and caches one Service per user. Every Service
// shares the registry's collaborators; only the identity differs.
type Registry struct {
	deps Deps

	mu       sync.Mutex
	services map[int]*Service
}

// NewRegistry returns a registry building services from deps. deps.Identity
// is ignored.
func NewRegistry(deps Deps) *Registry {
	return &Registry{
		deps:     deps.withDefaults(),
		services: make(map[int]*Service),
	}
}

// For returns the service for userID, creating it on first use. The
// preference load runs outside the registry lock. Concurrent first lookups
// keep one service and close the rest.
func (r *Registry) For(ctx context.Context, userID int) *Service {
	if svc, ok := r.cached(userID); ok {
		return svc
	}

	deps := r.deps
	deps.Identity = StaticIdentity(userID)
	svc := New(ctx, deps)

	r.mu.Lock()
	existing, ok := r.services[userID]
	if !ok {
		r.services[userID] = svc
	}
	r.mu.Unlock()

	if ok {
		svc.Close()
		return existing
	}
	return svc
}

func (r *Registry) cached(userID int) (*Service, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	svc, ok := r.services[userID]
	return svc, ok
}

// Library is the accessory library shared by every service.
func (r *Registry) Library() *accessory.Library { return r.deps.Library }

// Close unsubscribes every cached service.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, svc := range r.services {
		svc.Close()
		delete(r.services, id)
	}
}
