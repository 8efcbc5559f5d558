package codec

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/cuemby/catalogengine/pkg/aspect"
	"github.com/cuemby/catalogengine/pkg/catalogerr"
	"github.com/cuemby/catalogengine/pkg/hierarchy"
	"github.com/cuemby/catalogengine/pkg/registry"
	"github.com/cuemby/catalogengine/pkg/types"
)

func marshalHierarchy(h hierarchy.Hierarchy) (*orderedMap, error) {
	contents, err := marshalHierarchyContents(h)
	if err != nil {
		return nil, err
	}
	m := newOrderedMap()
	m.set("type", h.Kind().Code())
	m.set("name", h.Name())
	m.set("contents", contents)
	return m, nil
}

func marshalHierarchyContents(h hierarchy.Hierarchy) (any, error) {
	switch v := h.(type) {
	case *hierarchy.List:
		return entityIDs(v.Items()), nil
	case *hierarchy.Set:
		return entityIDs(v.Items()), nil
	case *hierarchy.Dir:
		m := newOrderedMap()
		for _, key := range v.Keys() {
			e, _ := v.Get(key)
			m.set(key, e.ID.String())
		}
		return m, nil
	case *hierarchy.Tree:
		return marshalNode(v.Root()), nil
	case *hierarchy.AspectMap:
		m := newOrderedMap()
		for _, e := range v.Keys() {
			a, _ := v.Get(e)
			aOut, err := marshalAspect(a)
			if err != nil {
				return nil, err
			}
			m.set(e.ID.String(), aOut)
		}
		return m, nil
	default:
		return nil, catalogerr.New(catalogerr.KindWireFormat, "marshalHierarchyContents", "unknown hierarchy implementation")
	}
}

func entityIDs(entities []types.Entity) []string {
	out := make([]string, len(entities))
	for i, e := range entities {
		out[i] = e.ID.String()
	}
	return out
}

func marshalNode(n *hierarchy.Node) *orderedMap {
	children := newOrderedMap()
	for _, key := range n.ChildKeys() {
		child, _ := n.Get(key)
		children.set(key, marshalNode(child))
	}
	m := newOrderedMap()
	m.set("entityId", n.Value().ID.String())
	m.set("children", children)
	return m
}

func marshalAspect(a aspect.Aspect) (*orderedMap, error) {
	def := a.Def()
	m := newOrderedMap()
	for _, name := range a.Names() {
		pd, ok := def.Properties.Get(name)
		if !ok {
			return nil, catalogerr.New(catalogerr.KindSchema, "marshalAspect", "no property def for "+name)
		}
		v, err := a.ReadObj(name)
		if err != nil {
			return nil, err
		}
		out, err := marshalPropertyValue(v, pd)
		if err != nil {
			return nil, err
		}
		m.set(name, out)
	}
	return m, nil
}

// hierarchyWire is the decode-side envelope shared by all hierarchy kinds.
type hierarchyWire struct {
	Type     string          `json:"type"`
	Name     string          `json:"name"`
	Contents json.RawMessage `json:"contents"`
}

// nodeWire is the decode-side shape for one ENTITY_TREE node. Children is
// kept as a raw object so its members can be walked in document order via
// decodeOrderedObject rather than through Go's randomized map decoding.
type nodeWire struct {
	EntityID string          `json:"entityId"`
	Children json.RawMessage `json:"children"`
}

// toHierarchy rebuilds the container populated (every kind's mutators are
// gated on Modifiable, so the container is always built modifiable first)
// then has the persisted modifiable flag applied via SetModifiable, so a
// hierarchy saved with is_modifiable=0 can still be loaded.
func (w hierarchyWire) toHierarchy(f *registry.Factory, modifiable bool) (hierarchy.Hierarchy, error) {
	kind, err := types.HierarchyKindFromCode(w.Type)
	if err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "toHierarchy", "hierarchy "+w.Name, err)
	}
	switch kind {
	case types.EntityList:
		ids, err := decodeEntityIDs(w.Contents)
		if err != nil {
			return nil, err
		}
		l := hierarchy.NewList(w.Name, true)
		for _, id := range ids {
			if err := l.Add(f.Entities.GetOrRegister(id)); err != nil {
				return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "toHierarchy", w.Name, err)
			}
		}
		l.SetModifiable(modifiable)
		return l, nil
	case types.EntitySet:
		ids, err := decodeEntityIDs(w.Contents)
		if err != nil {
			return nil, err
		}
		s := hierarchy.NewSet(w.Name, true)
		for _, id := range ids {
			if err := s.Add(f.Entities.GetOrRegister(id)); err != nil {
				return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "toHierarchy", w.Name, err)
			}
		}
		s.SetModifiable(modifiable)
		return s, nil
	case types.EntityDir:
		entries, err := decodeOrderedObject(w.Contents)
		if err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "toHierarchy", w.Name, err)
		}
		d := hierarchy.NewDir(w.Name, true)
		for _, entry := range entries {
			idStr, err := unmarshalJSONString(entry.Value)
			if err != nil {
				return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "toHierarchy", w.Name, err)
			}
			id, err := uuid.Parse(idStr)
			if err != nil {
				return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "toHierarchy", w.Name, err)
			}
			if err := d.Put(entry.Key, f.Entities.GetOrRegister(id)); err != nil {
				return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "toHierarchy", w.Name, err)
			}
		}
		d.SetModifiable(modifiable)
		return d, nil
	case types.EntityTree:
		var root nodeWire
		if err := json.Unmarshal(w.Contents, &root); err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "toHierarchy", w.Name, err)
		}
		rootID, err := uuid.Parse(root.EntityID)
		if err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "toHierarchy", w.Name, err)
		}
		tr := hierarchy.NewTree(w.Name, true, f.Entities.GetOrRegister(rootID))
		if err := buildTreeChildren(tr, f, nil, root); err != nil {
			return nil, err
		}
		tr.SetModifiable(modifiable)
		return tr, nil
	case types.AspectMap:
		def, ok := f.AspectDefs.Resolve(w.Name)
		if !ok {
			return nil, catalogerr.New(catalogerr.KindNotFound, "toHierarchy", "no aspect def bound for hierarchy "+w.Name)
		}
		am := hierarchy.NewAspectMap(w.Name, true, def)
		if err := fillAspectMap(am, f, w.Contents); err != nil {
			return nil, err
		}
		am.SetModifiable(modifiable)
		return am, nil
	default:
		return nil, catalogerr.New(catalogerr.KindWireFormat, "toHierarchy", "unsupported hierarchy kind "+string(kind))
	}
}

func decodeEntityIDs(raw json.RawMessage) ([]uuid.UUID, error) {
	var strs []string
	if err := json.Unmarshal(raw, &strs); err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "decodeEntityIDs", "", err)
	}
	out := make([]uuid.UUID, len(strs))
	for i, s := range strs {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "decodeEntityIDs", s, err)
		}
		out[i] = id
	}
	return out, nil
}

func buildTreeChildren(tr *hierarchy.Tree, f *registry.Factory, parentPath []string, parent nodeWire) error {
	if len(parent.Children) == 0 {
		return nil
	}
	entries, err := decodeOrderedObject(parent.Children)
	if err != nil {
		return catalogerr.Wrap(catalogerr.KindWireFormat, "buildTreeChildren", "", err)
	}
	for _, entry := range entries {
		key := entry.Key
		var childWire nodeWire
		if err := json.Unmarshal(entry.Value, &childWire); err != nil {
			return catalogerr.Wrap(catalogerr.KindWireFormat, "buildTreeChildren", key, err)
		}
		childID, err := uuid.Parse(childWire.EntityID)
		if err != nil {
			return catalogerr.Wrap(catalogerr.KindWireFormat, "buildTreeChildren", key, err)
		}
		if err := tr.AddAtPath(parentPath, key, f.Entities.GetOrRegister(childID)); err != nil {
			return catalogerr.Wrap(catalogerr.KindWireFormat, "buildTreeChildren", key, err)
		}
		childPath := append(append([]string{}, parentPath...), key)
		if err := buildTreeChildren(tr, f, childPath, childWire); err != nil {
			return err
		}
	}
	return nil
}

// fillAspectMap decodes contents (a UUID string -> Aspect object map) into
// am, interning entities via f. Used both for a standalone ASPECT_MAP
// hierarchy and for populating the AspectMap a Catalog.Extend call returns.
func fillAspectMap(am *hierarchy.AspectMap, f *registry.Factory, contents json.RawMessage) error {
	def := am.Def()
	entries, err := decodeOrderedObject(contents)
	if err != nil {
		return catalogerr.Wrap(catalogerr.KindWireFormat, "fillAspectMap", am.Name(), err)
	}
	wasModifiable := am.Modifiable()
	if !wasModifiable {
		am.SetModifiable(true)
		defer am.SetModifiable(false)
	}
	for _, entry := range entries {
		id, err := uuid.Parse(entry.Key)
		if err != nil {
			return catalogerr.Wrap(catalogerr.KindWireFormat, "fillAspectMap", am.Name(), err)
		}
		a, err := unmarshalAspect(entry.Value, def)
		if err != nil {
			return err
		}
		if err := am.Put(f.Entities.GetOrRegister(id), a); err != nil {
			return catalogerr.Wrap(catalogerr.KindWireFormat, "fillAspectMap", am.Name(), err)
		}
	}
	return nil
}

func unmarshalAspect(raw json.RawMessage, def *types.AspectDef) (aspect.Aspect, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "unmarshalAspect", def.Name, err)
	}
	entries := make([]aspect.Property, 0, len(fields))
	for _, name := range def.Properties.Names() {
		rawVal, present := fields[name]
		if !present {
			continue
		}
		pd, _ := def.Properties.Get(name)
		v, err := unmarshalPropertyValue(rawVal, pd)
		if err != nil {
			return nil, err
		}
		entries = append(entries, aspect.Property{Def: pd, Value: v})
	}
	return aspect.NewPropertyMapAspect(def, entries...), nil
}
