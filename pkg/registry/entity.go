package registry

import (
	"sync"

	"github.com/cuemby/catalogengine/pkg/types"
	"github.com/google/uuid"
)

// EntityRegistry is a process-lifetime mapping UUID -> Entity (spec.md
// §4.C). GetOrRegister interns: a given UUID has at most one in-memory
// Entity instance per registry (spec.md §3 invariant 8, §8 property 8).
type EntityRegistry struct {
	mu       sync.RWMutex
	entities map[uuid.UUID]types.Entity
}

// NewEntityRegistry returns an empty registry.
func NewEntityRegistry() *EntityRegistry {
	return &EntityRegistry{entities: make(map[uuid.UUID]types.Entity)}
}

// GetOrRegister returns the interned Entity for id, allocating one if this
// is the first time id has been seen by this registry.
func (r *EntityRegistry) GetOrRegister(id uuid.UUID) types.Entity {
	r.mu.RLock()
	if e, ok := r.entities[id]; ok {
		r.mu.RUnlock()
		return e
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entities[id]; ok {
		return e
	}
	e := types.NewEntity(id)
	r.entities[id] = e
	return e
}

// Register inserts entity and returns any prior occupant of the same
// UUID (the zero Entity and false if there was none).
func (r *EntityRegistry) Register(entity types.Entity) (types.Entity, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prior, existed := r.entities[entity.ID]
	r.entities[entity.ID] = entity
	return prior, existed
}

// Lookup returns the interned Entity for id without allocating one.
func (r *EntityRegistry) Lookup(id uuid.UUID) (types.Entity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entities[id]
	return e, ok
}

// Size returns the number of interned entities.
func (r *EntityRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entities)
}
