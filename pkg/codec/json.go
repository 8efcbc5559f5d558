package codec

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/cuemby/catalogengine/pkg/catalog"
	"github.com/cuemby/catalogengine/pkg/catalogerr"
	"github.com/cuemby/catalogengine/pkg/registry"
	"github.com/cuemby/catalogengine/pkg/types"
)

// Marshal serializes cat to its compact canonical JSON form.
func Marshal(cat *catalog.Catalog) ([]byte, error) {
	root, err := marshalCatalog(cat)
	if err != nil {
		return nil, err
	}
	return json.Marshal(root)
}

// MarshalIndent serializes cat with 2-space indentation. Decoding either
// form yields an identical graph (spec.md §4.H bijection property).
func MarshalIndent(cat *catalog.Catalog) ([]byte, error) {
	root, err := marshalCatalog(cat)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(root, "", "  ")
}

func marshalCatalog(cat *catalog.Catalog) (*orderedMap, error) {
	defAspectDefs := newOrderedMap()
	for _, ad := range cat.Def().AspectDefs {
		out, err := marshalAspectDef(ad)
		if err != nil {
			return nil, err
		}
		defAspectDefs.set(ad.Name, out)
	}
	hdefs := make([]*orderedMap, len(cat.Def().HierarchyDefs))
	for i, hd := range cat.Def().HierarchyDefs {
		m := newOrderedMap()
		m.set("name", hd.Name)
		m.set("kind", hd.Kind.Code())
		m.set("modifiable", hd.Modifiable)
		hdefs[i] = m
	}
	defOut := newOrderedMap()
	defOut.set("aspectDefs", defAspectDefs)
	defOut.set("hierarchyDefs", hdefs)

	extOut := newOrderedMap()
	for _, ad := range cat.Extensions() {
		out, err := marshalAspectDef(ad)
		if err != nil {
			return nil, err
		}
		extOut.set(ad.Name, out)
	}

	hierarchies := newOrderedMap()
	for _, h := range cat.Hierarchies() {
		hOut, err := marshalHierarchy(h)
		if err != nil {
			return nil, err
		}
		hierarchies.set(h.Name(), hOut)
	}

	root := newOrderedMap()
	root.set("globalId", cat.GlobalID().String())
	if cat.URI() != nil {
		root.set("uri", *cat.URI())
	} else {
		root.set("uri", nil)
	}
	root.set("species", speciesToWire(cat.Species()))
	root.set("strict", cat.Def().Strict)
	if cat.Upstream() != nil {
		root.set("upstream", cat.Upstream().String())
	} else {
		root.set("upstream", nil)
	}
	root.set("def", defOut)
	root.set("aspectDefs", extOut)
	root.set("hierarchies", hierarchies)
	return root, nil
}

func speciesToWire(s types.Species) string {
	switch s {
	case types.SpeciesSink:
		return "sink"
	case types.SpeciesSource:
		return "source"
	case types.SpeciesMirror:
		return "mirror"
	default:
		return string(s)
	}
}

func speciesFromWire(s string) types.Species {
	switch s {
	case "sink":
		return types.SpeciesSink
	case "source":
		return types.SpeciesSource
	case "mirror":
		return types.SpeciesMirror
	default:
		return types.Species(s)
	}
}

type hierarchyDefWire struct {
	Name       string `json:"name"`
	Kind       string `json:"kind"`
	Modifiable bool   `json:"modifiable"`
}

type defWire struct {
	AspectDefs    map[string]aspectDefWire `json:"aspectDefs"`
	HierarchyDefs []hierarchyDefWire       `json:"hierarchyDefs"`
}

type catalogWire struct {
	GlobalID    string                   `json:"globalId"`
	URI         *string                  `json:"uri"`
	Species     string                   `json:"species"`
	Strict      bool                     `json:"strict"`
	Upstream    *string                  `json:"upstream"`
	Def         defWire                  `json:"def"`
	AspectDefs  map[string]aspectDefWire `json:"aspectDefs"`
	Hierarchies json.RawMessage          `json:"hierarchies"`
}

// Unmarshal reconstructs a *catalog.Catalog from its canonical JSON form,
// interning Entities and binding AspectDefs through f so identity is
// preserved across hierarchies and repeated AspectDef references.
func Unmarshal(data []byte, f *registry.Factory) (*catalog.Catalog, error) {
	var w catalogWire
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "codec.Unmarshal", "", err)
	}
	globalID, err := uuid.Parse(w.GlobalID)
	if err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "codec.Unmarshal", "globalId", err)
	}
	var upstream *uuid.UUID
	if w.Upstream != nil {
		id, err := uuid.Parse(*w.Upstream)
		if err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "codec.Unmarshal", "upstream", err)
		}
		upstream = &id
	}

	defAspectDefs := make([]*types.AspectDef, 0, len(w.Def.AspectDefs))
	for _, adw := range w.Def.AspectDefs {
		ad, err := adw.toAspectDef(f)
		if err != nil {
			return nil, err
		}
		defAspectDefs = append(defAspectDefs, ad)
	}
	hierarchyDefs := make([]types.HierarchyDef, len(w.Def.HierarchyDefs))
	for i, hdw := range w.Def.HierarchyDefs {
		kind, err := types.HierarchyKindFromCode(hdw.Kind)
		if err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "codec.Unmarshal", "hierarchyDefs", err)
		}
		hierarchyDefs[i] = types.HierarchyDef{Name: hdw.Name, Kind: kind, Modifiable: hdw.Modifiable}
	}

	cat, err := catalog.New(catalog.Config{
		GlobalID: globalID,
		Species:  speciesFromWire(w.Species),
		URI:      w.URI,
		Upstream: upstream,
		Def: types.CatalogDef{
			AspectDefs:    defAspectDefs,
			HierarchyDefs: hierarchyDefs,
			Strict:        w.Strict,
		},
	})
	if err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "codec.Unmarshal", "", err)
	}

	for _, adw := range w.AspectDefs {
		if _, err := adw.toAspectDef(f); err != nil {
			return nil, err
		}
	}

	var hierarchyEntries []orderedEntry
	if len(w.Hierarchies) > 0 {
		hierarchyEntries, err = decodeOrderedObject(w.Hierarchies)
		if err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "codec.Unmarshal", "hierarchies", err)
		}
	}
	for _, entry := range hierarchyEntries {
		name := entry.Key
		var hw hierarchyWire
		if err := json.Unmarshal(entry.Value, &hw); err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "codec.Unmarshal", "hierarchies."+name, err)
		}
		kind, err := types.HierarchyKindFromCode(hw.Type)
		if err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "codec.Unmarshal", "hierarchies."+name, err)
		}

		modifiable := true
		if hd, ok := cat.Def().HierarchyDefByName(hw.Name); ok {
			modifiable = hd.Modifiable
		}

		if kind == types.AspectMap {
			def, ok := f.AspectDefs.Resolve(hw.Name)
			if !ok {
				return nil, catalogerr.New(catalogerr.KindNotFound, "codec.Unmarshal", "no aspect def bound for hierarchy "+hw.Name)
			}
			am, err := cat.Extend(def)
			if err != nil {
				return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "codec.Unmarshal", "hierarchies."+name, err)
			}
			if err := fillAspectMap(am, f, hw.Contents); err != nil {
				return nil, err
			}
			am.SetModifiable(modifiable)
			continue
		}

		h, err := hw.toHierarchy(f, modifiable)
		if err != nil {
			return nil, err
		}
		if err := cat.AddHierarchy(h); err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindWireFormat, "codec.Unmarshal", "hierarchies."+name, err)
		}
	}

	return cat, nil
}
