package codec

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/cuemby/catalogengine/pkg/aspect"
	"github.com/cuemby/catalogengine/pkg/catalog"
	"github.com/cuemby/catalogengine/pkg/hierarchy"
	"github.com/cuemby/catalogengine/pkg/registry"
	"github.com/cuemby/catalogengine/pkg/types"
	"github.com/cuemby/catalogengine/pkg/value"
)

func buildProductDef(t *testing.T) *types.AspectDef {
	t.Helper()
	titleDef, err := types.NewPropertyDef("title", value.String)
	if err != nil {
		t.Fatalf("title def: %v", err)
	}
	tagsDef, err := types.NewPropertyDef("tags", value.String, types.Multivalued())
	if err != nil {
		t.Fatalf("tags def: %v", err)
	}
	pricesDef, err := types.NewPropertyDef("prices", value.Float, types.Multivalued())
	if err != nil {
		t.Fatalf("prices def: %v", err)
	}
	props, err := types.NewPropertyMap(titleDef, tagsDef, pricesDef)
	if err != nil {
		t.Fatalf("NewPropertyMap: %v", err)
	}
	return types.NewAspectDef("product", uuid.New(), props, types.VariantMutable)
}

func buildCatalog(t *testing.T) (*catalog.Catalog, *registry.Factory, types.Entity) {
	t.Helper()
	f := registry.NewFactory()
	def := buildProductDef(t)
	f.AspectDefs.Bind(def)

	cat, err := catalog.New(catalog.Config{
		GlobalID: uuid.New(),
		Species:  types.SpeciesSink,
		Def:      types.CatalogDef{AspectDefs: []*types.AspectDef{def}},
	})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}

	am, err := cat.Extend(def)
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	entity := f.Entities.GetOrRegister(uuid.New())
	titleProp, _ := def.Properties.Get("title")
	tagsProp, _ := def.Properties.Get("tags")
	pricesProp, _ := def.Properties.Get("prices")
	a := aspect.NewPropertyMapAspect(def,
		aspect.Property{Def: titleProp, Value: "Smart Watch"},
		aspect.Property{Def: tagsProp, Value: []any{"electronics", "gadget", "popular"}},
		aspect.Property{Def: pricesProp, Value: []any{199.99, 249.99, 299.99}},
	)
	if err := am.Put(entity, a); err != nil {
		t.Fatalf("Put: %v", err)
	}

	l := hierarchy.NewList("queue", true)
	e2 := f.Entities.GetOrRegister(uuid.New())
	if err := l.Add(entity); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := l.Add(e2); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := cat.AddHierarchy(l); err != nil {
		t.Fatalf("AddHierarchy: %v", err)
	}

	root := f.Entities.GetOrRegister(uuid.New())
	tr := hierarchy.NewTree("org", true, root)
	if err := tr.AddAtPath(nil, "eng", entity); err != nil {
		t.Fatalf("AddAtPath: %v", err)
	}
	if err := cat.AddHierarchy(tr); err != nil {
		t.Fatalf("AddHierarchy: %v", err)
	}

	return cat, f, entity
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	cat, _, entity := buildCatalog(t)

	data, err := Marshal(cat)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	f2 := registry.NewFactory()
	loaded, err := Unmarshal(data, f2)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if loaded.GlobalID() != cat.GlobalID() {
		t.Fatalf("globalId mismatch")
	}
	if loaded.Species() != types.SpeciesSink {
		t.Fatalf("species mismatch: %v", loaded.Species())
	}

	h, ok := loaded.Hierarchy("product")
	if !ok {
		t.Fatalf("expected product hierarchy")
	}
	pm := h.(*hierarchy.AspectMap)
	keys := pm.Keys()
	if len(keys) != 1 {
		t.Fatalf("expected 1 aspect entry, got %d", len(keys))
	}
	if keys[0].ID != entity.ID {
		t.Fatalf("entity identity mismatch across hierarchies")
	}
	loadedAspect, _ := pm.Get(keys[0])
	title, err := loadedAspect.ReadObj("title")
	if err != nil {
		t.Fatalf("ReadObj title: %v", err)
	}
	if title != "Smart Watch" {
		t.Fatalf("title: got %v", title)
	}
	tags, err := loadedAspect.ReadObj("tags")
	if err != nil {
		t.Fatalf("ReadObj tags: %v", err)
	}
	tagList, ok := tags.([]any)
	if !ok {
		t.Fatalf("tags: got %v", tags)
	}
	wantTags := []any{"electronics", "gadget", "popular"}
	if diff := cmp.Diff(wantTags, tagList); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}

	ql, ok := loaded.Hierarchy("queue")
	if !ok {
		t.Fatalf("expected queue hierarchy")
	}
	list := ql.(*hierarchy.List)
	items := list.Items()
	if len(items) != 2 || items[0].ID != entity.ID {
		t.Fatalf("queue order/identity mismatch: %v", items)
	}

	orgH, ok := loaded.Hierarchy("org")
	if !ok {
		t.Fatalf("expected org hierarchy")
	}
	tree := orgH.(*hierarchy.Tree)
	node, err := tree.NodeAt([]string{"eng"})
	if err != nil {
		t.Fatalf("NodeAt: %v", err)
	}
	if node.Value().ID != entity.ID {
		t.Fatalf("tree node identity mismatch")
	}
}

func TestMarshalIndentDecodesIdentically(t *testing.T) {
	cat, _, _ := buildCatalog(t)

	compact, err := Marshal(cat)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	pretty, err := MarshalIndent(cat)
	if err != nil {
		t.Fatalf("MarshalIndent: %v", err)
	}

	fc := registry.NewFactory()
	fromCompact, err := Unmarshal(compact, fc)
	if err != nil {
		t.Fatalf("Unmarshal compact: %v", err)
	}
	fp := registry.NewFactory()
	fromPretty, err := Unmarshal(pretty, fp)
	if err != nil {
		t.Fatalf("Unmarshal pretty: %v", err)
	}

	if fromCompact.GlobalID() != fromPretty.GlobalID() {
		t.Fatalf("globalId mismatch between variants")
	}
	hc, _ := fromCompact.Hierarchy("product")
	hp, _ := fromPretty.Hierarchy("product")
	if hc.(*hierarchy.AspectMap).Size() != hp.(*hierarchy.AspectMap).Size() {
		t.Fatalf("aspect map size mismatch between variants")
	}
}

func TestUnmarshalEmptyCatalog(t *testing.T) {
	cat, err := catalog.New(catalog.Config{GlobalID: uuid.New(), Species: types.SpeciesSource})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	data, err := Marshal(cat)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	f := registry.NewFactory()
	loaded, err := Unmarshal(data, f)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if loaded.Species() != types.SpeciesSource {
		t.Fatalf("species: got %v", loaded.Species())
	}
	if len(loaded.Hierarchies()) != 0 {
		t.Fatalf("expected no hierarchies")
	}
}

func TestValueRoundTripCommonPropertyTypes(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	cases := []struct {
		pt  value.PropertyType
		val any
	}{
		{value.Integer, int64(42)},
		{value.Float, 3.14},
		{value.Boolean, true},
		{value.String, "hello"},
		{value.DateTime, now},
		{value.BLOB, []byte{0xde, 0xad, 0xbe, 0xef}},
	}
	for _, c := range cases {
		pd := types.PropertyDef{Name: "v", Type: c.pt}
		marshaled, err := marshalPropertyValue(c.val, pd)
		if err != nil {
			t.Fatalf("marshal %s: %v", c.pt, err)
		}
		raw, err := json.Marshal(marshaled)
		if err != nil {
			t.Fatalf("encode %s: %v", c.pt, err)
		}
		back, err := unmarshalPropertyValue(raw, pd)
		if err != nil {
			t.Fatalf("unmarshal %s: %v", c.pt, err)
		}
		switch c.pt {
		case value.DateTime:
			if !back.(time.Time).Equal(c.val.(time.Time)) {
				t.Fatalf("%s round trip mismatch: %v != %v", c.pt, back, c.val)
			}
		case value.BLOB:
			if string(back.([]byte)) != string(c.val.([]byte)) {
				t.Fatalf("%s round trip mismatch", c.pt)
			}
		default:
			if back != c.val {
				t.Fatalf("%s round trip mismatch: %v != %v", c.pt, back, c.val)
			}
		}
	}
}
