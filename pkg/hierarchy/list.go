package hierarchy

import (
	"strconv"

	"github.com/cuemby/catalogengine/pkg/types"
)

// List is the ENTITY_LIST container: an ordered sequence of Entity keyed
// by integer position (spec.md §4.E).
type List struct {
	name       string
	modifiable bool
	items      []types.Entity
}

// NewList builds an empty ENTITY_LIST hierarchy named name.
func NewList(name string, modifiable bool) *List {
	return &List{name: name, modifiable: modifiable}
}

func (l *List) Name() string               { return l.name }
func (l *List) Kind() types.HierarchyKind  { return types.EntityList }
func (l *List) Modifiable() bool           { return l.modifiable }
func (l *List) Size() int                  { return len(l.items) }

// SetModifiable overrides the modifiable flag directly, bypassing Add's
// gate. Loaders build a container as modifiable, populate it, then apply
// the persisted flag with this method.
func (l *List) SetModifiable(modifiable bool) { l.modifiable = modifiable }

// Add appends e to the end of the sequence.
func (l *List) Add(e types.Entity) error {
	if !l.modifiable {
		return notModifiable("List.Add", l.name)
	}
	l.items = append(l.items, e)
	return nil
}

// Remove removes the first occurrence of e, reporting NotFound if absent.
func (l *List) Remove(e types.Entity) error {
	if !l.modifiable {
		return notModifiable("List.Remove", l.name)
	}
	for i, item := range l.items {
		if item.Equal(e) {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return nil
		}
	}
	return noSuchNode("List.Remove", e.String())
}

// Get returns the Entity at position i.
func (l *List) Get(i int) (types.Entity, error) {
	if i < 0 || i >= len(l.items) {
		return types.Entity{}, noSuchNode("List.Get", strconv.Itoa(i))
	}
	return l.items[i], nil
}

// Items returns the sequence in positional order.
func (l *List) Items() []types.Entity {
	out := make([]types.Entity, len(l.items))
	copy(out, l.items)
	return out
}
