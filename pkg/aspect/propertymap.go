package aspect

import (
	"github.com/cuemby/catalogengine/pkg/types"
)

// PropertyMapAspect is the Aspect representation that retains the full
// PropertyDef alongside each value, so callers (notably pkg/storage and
// pkg/codec) can recover type/flags per entry without a round trip
// through the AspectDef (spec.md §4.D).
type PropertyMapAspect struct {
	def   *types.AspectDef
	order []string
	props map[string]Property
}

// NewPropertyMapAspect builds a PropertyMapAspect bound to def, seeded
// with the given entries in order. Entries whose Def differs from the
// bound def's PropertyDef of the same name are accepted as-is — callers
// populating from storage are expected to pass the def's own PropertyDefs.
func NewPropertyMapAspect(def *types.AspectDef, entries ...Property) *PropertyMapAspect {
	a := &PropertyMapAspect{def: def, props: make(map[string]Property, len(entries))}
	for _, e := range entries {
		a.order = append(a.order, e.Def.Name)
		a.props[e.Def.Name] = e
	}
	return a
}

func (a *PropertyMapAspect) Def() *types.AspectDef { return a.def }

func (a *PropertyMapAspect) Names() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

func (a *PropertyMapAspect) Contains(name string) bool {
	_, ok := a.props[name]
	return ok
}

func (a *PropertyMapAspect) ReadObj(name string) (any, error) {
	p, ok := a.props[name]
	if !ok {
		return nil, notFound("PropertyMapAspect.ReadObj", name)
	}
	return p.Value, nil
}

func (a *PropertyMapAspect) Write(name string, v any) error {
	p, ok := a.props[name]
	if !ok {
		return notFound("PropertyMapAspect.Write", name)
	}
	if !p.Def.Writable {
		return notWritable("PropertyMapAspect.Write", name)
	}
	if v == nil && !p.Def.Nullable {
		return notNullable("PropertyMapAspect.Write", name)
	}
	p.Value = v
	a.props[name] = p
	return nil
}

func (a *PropertyMapAspect) Add(p Property) error {
	if !a.def.CanAddProperties {
		return notAddable("PropertyMapAspect.Add")
	}
	if _, exists := a.props[p.Def.Name]; exists {
		return duplicateName("PropertyMapAspect.Add", p.Def.Name)
	}
	a.order = append(a.order, p.Def.Name)
	a.props[p.Def.Name] = p
	return nil
}

func (a *PropertyMapAspect) Remove(name string) error {
	p, ok := a.props[name]
	if !ok {
		return notFound("PropertyMapAspect.Remove", name)
	}
	if !p.Def.Removable {
		return notRemovable("PropertyMapAspect.Remove", name)
	}
	delete(a.props, name)
	for i, n := range a.order {
		if n == name {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return nil
}

// Entries returns every (PropertyDef, value) pair, in insertion order.
func (a *PropertyMapAspect) Entries() []Property {
	out := make([]Property, len(a.order))
	for i, name := range a.order {
		out[i] = a.props[name]
	}
	return out
}
