package hierarchy

import (
	"github.com/google/uuid"

	"github.com/cuemby/catalogengine/pkg/aspect"
	"github.com/cuemby/catalogengine/pkg/types"
)

// AspectMap is the ASPECT_MAP container: an insertion-ordered
// Entity -> Aspect map, every Aspect sharing one AspectDef (spec.md
// §4.E). The hierarchy name equals the AspectDef name unless the caller
// overrides it at construction.
type AspectMap struct {
	name       string
	modifiable bool
	def        *types.AspectDef
	order      []uuid.UUID
	aspects    map[uuid.UUID]aspect.Aspect
}

// NewAspectMap builds an empty ASPECT_MAP hierarchy named name, bound to
// def. Callers typically pass def.Name as name (spec.md §4.E).
func NewAspectMap(name string, modifiable bool, def *types.AspectDef) *AspectMap {
	return &AspectMap{name: name, modifiable: modifiable, def: def, aspects: make(map[uuid.UUID]aspect.Aspect)}
}

func (m *AspectMap) Name() string              { return m.name }
func (m *AspectMap) Kind() types.HierarchyKind { return types.AspectMap }
func (m *AspectMap) Modifiable() bool          { return m.modifiable }
func (m *AspectMap) Size() int                 { return len(m.order) }

// SetModifiable overrides the modifiable flag directly, bypassing Put's
// gate. Loaders build a container as modifiable, populate it, then apply
// the persisted flag with this method.
func (m *AspectMap) SetModifiable(modifiable bool) { m.modifiable = modifiable }

// Def returns the shared AspectDef every Aspect in this map is an
// instance of.
func (m *AspectMap) Def() *types.AspectDef { return m.def }

// Put associates e with a, overwriting any prior Aspect for e.
func (m *AspectMap) Put(e types.Entity, a aspect.Aspect) error {
	if !m.modifiable {
		return notModifiable("AspectMap.Put", m.name)
	}
	if _, exists := m.aspects[e.ID]; !exists {
		m.order = append(m.order, e.ID)
	}
	m.aspects[e.ID] = a
	return nil
}

// Get returns the Aspect for e.
func (m *AspectMap) Get(e types.Entity) (aspect.Aspect, bool) {
	a, ok := m.aspects[e.ID]
	return a, ok
}

// Remove removes the Aspect for e, reporting NotFound if absent.
func (m *AspectMap) Remove(e types.Entity) error {
	if !m.modifiable {
		return notModifiable("AspectMap.Remove", m.name)
	}
	if _, exists := m.aspects[e.ID]; !exists {
		return noSuchNode("AspectMap.Remove", e.String())
	}
	delete(m.aspects, e.ID)
	for i, id := range m.order {
		if id == e.ID {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}

// Keys returns the Entities with an Aspect, in insertion order.
func (m *AspectMap) Keys() []types.Entity {
	out := make([]types.Entity, len(m.order))
	for i, id := range m.order {
		out[i] = types.NewEntity(id)
	}
	return out
}
