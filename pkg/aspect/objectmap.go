package aspect

import (
	"github.com/cuemby/catalogengine/pkg/types"
)

// ObjectMapAspect is the memory-lean Aspect representation: it stores
// only name->value, resolving PropertyDef from the bound AspectDef on
// demand rather than per entry (spec.md §4.D).
type ObjectMapAspect struct {
	def    *types.AspectDef
	order  []string
	values map[string]any
}

// NewObjectMapAspect builds an ObjectMapAspect bound to def, seeded with
// the given name->value pairs in the given order.
func NewObjectMapAspect(def *types.AspectDef, names []string, values map[string]any) *ObjectMapAspect {
	a := &ObjectMapAspect{def: def, values: make(map[string]any, len(names))}
	for _, name := range names {
		a.order = append(a.order, name)
		a.values[name] = values[name]
	}
	return a
}

func (a *ObjectMapAspect) Def() *types.AspectDef { return a.def }

func (a *ObjectMapAspect) Names() []string {
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

func (a *ObjectMapAspect) Contains(name string) bool {
	_, ok := a.values[name]
	return ok
}

func (a *ObjectMapAspect) ReadObj(name string) (any, error) {
	v, ok := a.values[name]
	if !ok {
		return nil, notFound("ObjectMapAspect.ReadObj", name)
	}
	return v, nil
}

func (a *ObjectMapAspect) Write(name string, v any) error {
	if !a.Contains(name) {
		return notFound("ObjectMapAspect.Write", name)
	}
	pd, ok := a.def.Properties.Get(name)
	if !ok {
		return notFound("ObjectMapAspect.Write", name)
	}
	if !pd.Writable {
		return notWritable("ObjectMapAspect.Write", name)
	}
	if v == nil && !pd.Nullable {
		return notNullable("ObjectMapAspect.Write", name)
	}
	a.values[name] = v
	return nil
}

func (a *ObjectMapAspect) Add(p Property) error {
	if !a.def.CanAddProperties {
		return notAddable("ObjectMapAspect.Add")
	}
	if a.Contains(p.Def.Name) {
		return duplicateName("ObjectMapAspect.Add", p.Def.Name)
	}
	a.order = append(a.order, p.Def.Name)
	a.values[p.Def.Name] = p.Value
	return nil
}

func (a *ObjectMapAspect) Remove(name string) error {
	if !a.Contains(name) {
		return notFound("ObjectMapAspect.Remove", name)
	}
	pd, ok := a.def.Properties.Get(name)
	if ok && !pd.Removable {
		return notRemovable("ObjectMapAspect.Remove", name)
	}
	delete(a.values, name)
	for i, n := range a.order {
		if n == name {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return nil
}

// Values returns a copy of every (name, value) pair as a map, which
// carries no order; Names gives the insertion order.
func (a *ObjectMapAspect) Values() map[string]any {
	out := make(map[string]any, len(a.values))
	for k, v := range a.values {
		out[k] = v
	}
	return out
}
