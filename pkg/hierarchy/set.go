package hierarchy

import (
	"github.com/google/uuid"

	"github.com/cuemby/catalogengine/pkg/types"
)

// Set is the ENTITY_SET container: an insertion-ordered set of Entity
// with no duplicate UUIDs (spec.md §4.E).
type Set struct {
	name       string
	modifiable bool
	order      []uuid.UUID
	members    map[uuid.UUID]types.Entity
}

// NewSet builds an empty ENTITY_SET hierarchy named name.
func NewSet(name string, modifiable bool) *Set {
	return &Set{name: name, modifiable: modifiable, members: make(map[uuid.UUID]types.Entity)}
}

func (s *Set) Name() string              { return s.name }
func (s *Set) Kind() types.HierarchyKind { return types.EntitySet }
func (s *Set) Modifiable() bool          { return s.modifiable }
func (s *Set) Size() int                 { return len(s.order) }

// SetModifiable overrides the modifiable flag directly, bypassing Add's
// gate. Loaders build a container as modifiable, populate it, then apply
// the persisted flag with this method.
func (s *Set) SetModifiable(modifiable bool) { s.modifiable = modifiable }

// Add inserts e, a no-op if e is already a member (invariant 4: no
// duplicate UUIDs).
func (s *Set) Add(e types.Entity) error {
	if !s.modifiable {
		return notModifiable("Set.Add", s.name)
	}
	if _, exists := s.members[e.ID]; exists {
		return nil
	}
	s.order = append(s.order, e.ID)
	s.members[e.ID] = e
	return nil
}

// Remove removes e, reporting NotFound if absent.
func (s *Set) Remove(e types.Entity) error {
	if !s.modifiable {
		return notModifiable("Set.Remove", s.name)
	}
	if _, exists := s.members[e.ID]; !exists {
		return noSuchNode("Set.Remove", e.String())
	}
	delete(s.members, e.ID)
	for i, id := range s.order {
		if id == e.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Contains reports whether e is a member.
func (s *Set) Contains(e types.Entity) bool {
	_, ok := s.members[e.ID]
	return ok
}

// Items returns members in insertion order.
func (s *Set) Items() []types.Entity {
	out := make([]types.Entity, len(s.order))
	for i, id := range s.order {
		out[i] = s.members[id]
	}
	return out
}
