package hierarchy

import (
	"github.com/google/uuid"

	"github.com/cuemby/catalogengine/pkg/types"
)

// Dir is the ENTITY_DIR container: an insertion-ordered string -> Entity
// map, one Entity per key (spec.md §4.E).
type Dir struct {
	name       string
	modifiable bool
	order      []string
	entries    map[string]types.Entity
}

// NewDir builds an empty ENTITY_DIR hierarchy named name.
func NewDir(name string, modifiable bool) *Dir {
	return &Dir{name: name, modifiable: modifiable, entries: make(map[string]types.Entity)}
}

func (d *Dir) Name() string              { return d.name }
func (d *Dir) Kind() types.HierarchyKind { return types.EntityDir }
func (d *Dir) Modifiable() bool          { return d.modifiable }
func (d *Dir) Size() int                 { return len(d.order) }

// SetModifiable overrides the modifiable flag directly, bypassing Put's
// gate. Loaders build a container as modifiable, populate it, then apply
// the persisted flag with this method.
func (d *Dir) SetModifiable(modifiable bool) { d.modifiable = modifiable }

// Put associates key with e, overwriting any prior Entity at key.
func (d *Dir) Put(key string, e types.Entity) error {
	if !d.modifiable {
		return notModifiable("Dir.Put", d.name)
	}
	if _, exists := d.entries[key]; !exists {
		d.order = append(d.order, key)
	}
	d.entries[key] = e
	return nil
}

// RemoveByKey removes the entry at key, reporting NotFound if absent.
func (d *Dir) RemoveByKey(key string) error {
	if !d.modifiable {
		return notModifiable("Dir.RemoveByKey", d.name)
	}
	if _, exists := d.entries[key]; !exists {
		return noSuchNode("Dir.RemoveByKey", key)
	}
	delete(d.entries, key)
	for i, k := range d.order {
		if k == key {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return nil
}

// RemoveByEntity removes every key currently pointing at the Entity with
// id uuid (spec.md §4.E: "removes all keys pointing at that UUID").
func (d *Dir) RemoveByEntity(id uuid.UUID) error {
	if !d.modifiable {
		return notModifiable("Dir.RemoveByEntity", d.name)
	}
	var remaining []string
	for _, k := range d.order {
		if d.entries[k].ID == id {
			delete(d.entries, k)
			continue
		}
		remaining = append(remaining, k)
	}
	d.order = remaining
	return nil
}

// Get returns the Entity at key.
func (d *Dir) Get(key string) (types.Entity, bool) {
	e, ok := d.entries[key]
	return e, ok
}

// Keys returns the directory's keys in insertion order.
func (d *Dir) Keys() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}
