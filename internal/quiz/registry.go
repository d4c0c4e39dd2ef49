package quiz

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/techquiz/internal/logger"
)

type viewEntry struct {
	controller *Controller
	lastSeen   time.Time
}

// Registry keeps one Controller per mounted view.
type Registry struct {
	factory func() *Controller
	now     func() time.Time
	log     *logger.Logger

	mu    sync.Mutex
	views map[string]*viewEntry
}

// NewRegistry creates controllers with factory.
func NewRegistry(factory func() *Controller) *Registry {
	return &Registry{
		factory: factory,
		now:     time.Now,
		log:     logger.Default().WithPrefix("quiz-registry"),
		views:   map[string]*viewEntry{},
	}
}

// Create mounts a new view.
func (r *Registry) Create() (string, *Controller) {
	id := uuid.NewString()
	c := r.factory()

	r.mu.Lock()
	r.views[id] = &viewEntry{controller: c, lastSeen: r.now()}
	count := len(r.views)
	r.mu.Unlock()

	r.log.Debug("view mounted: id=%s views=%d", id, count)
	return id, c
}

// Get returns the controller of a mounted view and marks it as seen.
func (r *Registry) Get(id string) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.views[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.controller, true
}

// Dispose unmounts a view. It reports whether the view existed.
func (r *Registry) Dispose(id string) bool {
	r.mu.Lock()
	e, ok := r.views[id]
	delete(r.views, id)
	r.mu.Unlock()

	if ok {
		e.controller.Dispose()
		r.log.Debug("view disposed: id=%s", id)
	}
	return ok
}

// Sweep disposes views not seen for longer than maxIdle and returns how
// many were removed. A view with a live subscriber counts as seen.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	now := r.now()
	cutoff := now.Add(-maxIdle)

	r.mu.Lock()
	var stale []*Controller
	for id, e := range r.views {
		if e.controller.Subscribers() > 0 {
			e.lastSeen = now
			continue
		}
		if e.lastSeen.Before(cutoff) {
			stale = append(stale, e.controller)
			delete(r.views, id)
		}
	}
	r.mu.Unlock()

	for _, c := range stale {
		c.Dispose()
	}
	if len(stale) > 0 {
		r.log.Info("swept %d idle views", len(stale))
	}
	return len(stale)
}

// Len returns the number of mounted views.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.views)
}

// Close disposes every view.
func (r *Registry) Close() {
	r.mu.Lock()
	views := r.views
	r.views = map[string]*viewEntry{}
	r.mu.Unlock()

	for _, e := range views {
		e.controller.Dispose()
	}
	r.log.Debug("registry closed, disposed %d views", len(views))
}
