// Package registry tracks the live occurrences of each surface ID.
//
// The same logical surface may be mounted at several tree positions at
// once; each mount is assigned an instance number unique among the
// currently-live occurrences of that ID. Instance lists are kept in
// registration order, which is also the focus cycling order.
package registry

import (
	"slices"
	"sync"

	"github.com/zjrosen/surfaces/internal/log"
	"github.com/zjrosen/surfaces/internal/surface"
)

// Registry maps a surface ID to its live instance numbers. Construct
// one per rendered tree with New; tests make their own.
type Registry struct {
	mu   sync.Mutex
	live map[surface.ID][]int
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{live: make(map[surface.ID][]int)}
}

// Register records a new occurrence of id and returns its instance
// number: the current maximum live number plus one, or 0 when no
// occurrence is live. Released numbers are not reused while siblings
// remain mounted; once the list empties, numbering restarts at 0.
func (r *Registry) Register(id surface.ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	instances := r.live[id]
	next := 0
	for _, n := range instances {
		if n >= next {
			next = n + 1
		}
	}
	r.live[id] = append(instances, next)
	log.Debug(log.CatRegistry, "registered", "id", id, "instance", next, "live", len(instances)+1)
	return next
}

// Remove deletes exactly the given instance from id's live list.
// Removing an absent id or instance is a no-op, so teardown paths may
// call it unconditionally. Survivors keep their numbers.
func (r *Registry) Remove(id surface.ID, instance int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	instances, ok := r.live[id]
	if !ok {
		return
	}
	idx := slices.Index(instances, instance)
	if idx < 0 {
		return
	}
	instances = slices.Delete(instances, idx, idx+1)
	if len(instances) == 0 {
		delete(r.live, id)
	} else {
		r.live[id] = instances
	}
	log.Debug(log.CatRegistry, "removed", "id", id, "instance", instance, "live", len(instances))
}

// Instances returns id's live instance numbers in registration order.
// The result is a copy; callers may keep it across further mutations.
func (r *Registry) Instances(id surface.ID) []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.live[id])
}

// Next returns the instance immediately following current in id's live
// list, wrapping to the first after the last. A current that is no
// longer live also yields the first. ok is false only when id has no
// live instance at all.
func (r *Registry) Next(id surface.ID, current int) (next int, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	instances := r.live[id]
	if len(instances) == 0 {
		return 0, false
	}
	idx := slices.Index(instances, current)
	if idx < 0 || idx == len(instances)-1 {
		return instances[0], true
	}
	return instances[idx+1], true
}
