package relay

import (
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/rifkyrahmat2006/scorerelay/internal/domain"
)

// Registry tracks live connections and their group memberships.
// Safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	members map[string][]domain.Group
	count   atomic.Int64
}

func NewRegistry() *Registry {
	return &Registry{members: make(map[string][]domain.Group)}
}

// Connect registers id and joins it to the default groups.
// Registering an id twice returns the existing connection unchanged.
func (r *Registry) Connect(id string) domain.Connection {
	r.mu.Lock()
	groups, exists := r.members[id]
	if !exists {
		groups = slices.Clone(domain.DefaultGroups)
		r.members[id] = groups
	}
	r.mu.Unlock()

	if !exists {
		total := r.count.Add(1)
		slog.Info("Client connected", "client_id", id, "total", total)
	}

	return domain.Connection{ID: id, Groups: slices.Clone(groups)}
}

// Disconnect removes id from all groups. Unknown ids are ignored.
func (r *Registry) Disconnect(id string) {
	r.mu.Lock()
	_, exists := r.members[id]
	delete(r.members, id)
	r.mu.Unlock()

	if !exists {
		return
	}

	total := r.decrement()
	slog.Info("Client disconnected", "client_id", id, "total", total)
}

// decrement lowers the counter without letting it go below zero.
func (r *Registry) decrement() int64 {
	for {
		current := r.count.Load()
		if current <= 0 {
			return 0
		}
		if r.count.CompareAndSwap(current, current-1) {
			return current - 1
		}
	}
}

// Count returns the number of live connections.
func (r *Registry) Count() int {
	return int(r.count.Load())
}

// GroupSize returns the number of live connections in g.
func (r *Registry) GroupSize(g domain.Group) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for id, groups := range r.members {
		if (domain.Connection{ID: id, Groups: groups}).InGroup(g) {
			n++
		}
	}
	return n
}

// Members returns the ids of the connections in g, sorted.
func (r *Registry) Members(g domain.Group) []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.members))
	for id, groups := range r.members {
		if (domain.Connection{ID: id, Groups: groups}).InGroup(g) {
			ids = append(ids, id)
		}
	}
	r.mu.RUnlock()

	slices.Sort(ids)
	return ids
}
