package storage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuemby/catalogengine/pkg/aspect"
	"github.com/cuemby/catalogengine/pkg/catalog"
	"github.com/cuemby/catalogengine/pkg/catalogerr"
	"github.com/cuemby/catalogengine/pkg/hierarchy"
	"github.com/cuemby/catalogengine/pkg/registry"
	"github.com/cuemby/catalogengine/pkg/types"
	"github.com/cuemby/catalogengine/pkg/value"
)

func openTestDAO(t *testing.T) (*DAO, *registry.Factory) {
	t.Helper()
	f := registry.NewFactory()
	dsn := "file:" + uuid.New().String() + "?mode=memory&cache=shared"
	d, err := Open(context.Background(), dsn, f)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = d.Close() })
	return d, f
}

func personAspectDef(t *testing.T) *types.AspectDef {
	t.Helper()
	nameDef, err := types.NewPropertyDef("name", value.String)
	if err != nil {
		t.Fatalf("NewPropertyDef name: %v", err)
	}
	ageDef, err := types.NewPropertyDef("age", value.Integer)
	if err != nil {
		t.Fatalf("NewPropertyDef age: %v", err)
	}
	props, err := types.NewPropertyMap(nameDef, ageDef)
	if err != nil {
		t.Fatalf("NewPropertyMap: %v", err)
	}
	return types.NewAspectDef("person", uuid.New(), props, types.VariantMutable)
}

func TestEnsureSchemaIdempotent(t *testing.T) {
	d, _ := openTestDAO(t)
	if err := EnsureSchema(context.Background(), d.db); err != nil {
		t.Fatalf("second EnsureSchema: %v", err)
	}
}

func TestSaveLoadCatalogGenericAspect(t *testing.T) {
	ctx := context.Background()
	d, f := openTestDAO(t)

	def := personAspectDef(t)
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
	nameProp, _ := def.Properties.Get("name")
	ageProp, _ := def.Properties.Get("age")
	a := aspect.NewPropertyMapAspect(def,
		aspect.Property{Def: nameProp, Value: "ada"},
		aspect.Property{Def: ageProp, Value: int64(36)},
	)
	if err := am.Put(entity, a); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := d.SaveCatalog(ctx, cat); err != nil {
		t.Fatalf("SaveCatalog: %v", err)
	}

	loaded, err := d.LoadCatalog(ctx, cat.GlobalID())
	require.NoError(t, err)
	assert.Equal(t, types.SpeciesSink, loaded.Species())

	h, ok := loaded.Hierarchy("person")
	require.True(t, ok, "expected hierarchy person to be loaded")
	loadedMap, ok := h.(*hierarchy.AspectMap)
	require.True(t, ok, "expected *hierarchy.AspectMap, got %T", h)
	keys := loadedMap.Keys()
	require.Len(t, keys, 1)
	loadedAspect, ok := loadedMap.Get(keys[0])
	require.True(t, ok, "expected aspect for loaded entity")

	name, err := loadedAspect.ReadObj("name")
	require.NoError(t, err)
	assert.Equal(t, "ada", name)

	age, err := loadedAspect.ReadObj("age")
	require.NoError(t, err)
	assert.Equal(t, int64(36), age)
}

func TestSaveLoadCatalogMappedAspect(t *testing.T) {
	ctx := context.Background()
	d, f := openTestDAO(t)

	def := personAspectDef(t)
	f.AspectDefs.Bind(def)

	mapping := &AspectTableMapping{
		AspectDef: def,
		Table:     "person_profile",
		ColumnFor: map[string]string{"name": "full_name", "age": "years_old"},
		Pattern:   KeyPatternCatalogEntity,
	}
	if err := d.AddAspectTableMapping(ctx, mapping); err != nil {
		t.Fatalf("AddAspectTableMapping: %v", err)
	}

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
	nameProp, _ := def.Properties.Get("name")
	ageProp, _ := def.Properties.Get("age")
	a := aspect.NewPropertyMapAspect(def,
		aspect.Property{Def: nameProp, Value: "grace"},
		aspect.Property{Def: ageProp, Value: int64(40)},
	)
	if err := am.Put(entity, a); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := d.SaveCatalog(ctx, cat); err != nil {
		t.Fatalf("SaveCatalog: %v", err)
	}

	loaded, err := d.LoadCatalog(ctx, cat.GlobalID())
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	h, _ := loaded.Hierarchy("person")
	loadedMap := h.(*hierarchy.AspectMap)
	keys := loadedMap.Keys()
	loadedAspect, _ := loadedMap.Get(keys[0])
	name, err := loadedAspect.ReadObj("name")
	if err != nil {
		t.Fatalf("ReadObj name: %v", err)
	}
	if name != "grace" {
		t.Fatalf("name: got %v", name)
	}
}

func TestSaveLoadListHierarchy(t *testing.T) {
	ctx := context.Background()
	d, f := openTestDAO(t)

	cat, err := catalog.New(catalog.Config{GlobalID: uuid.New(), Species: types.SpeciesSink})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	l := hierarchy.NewList("queue", true)
	e1 := f.Entities.GetOrRegister(uuid.New())
	e2 := f.Entities.GetOrRegister(uuid.New())
	if err := l.Add(e1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := l.Add(e2); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := cat.AddHierarchy(l); err != nil {
		t.Fatalf("AddHierarchy: %v", err)
	}

	if err := d.SaveCatalog(ctx, cat); err != nil {
		t.Fatalf("SaveCatalog: %v", err)
	}

	loaded, err := d.LoadCatalog(ctx, cat.GlobalID())
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	h, ok := loaded.Hierarchy("queue")
	if !ok {
		t.Fatalf("expected hierarchy queue")
	}
	loadedList, ok := h.(*hierarchy.List)
	if !ok {
		t.Fatalf("expected *hierarchy.List, got %T", h)
	}
	items := loadedList.Items()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != e1.ID || items[1].ID != e2.ID {
		t.Fatalf("order mismatch: %v", items)
	}
}

func TestSaveLoadTreeHierarchy(t *testing.T) {
	ctx := context.Background()
	d, f := openTestDAO(t)

	cat, err := catalog.New(catalog.Config{GlobalID: uuid.New(), Species: types.SpeciesSink})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	root := f.Entities.GetOrRegister(uuid.New())
	child := f.Entities.GetOrRegister(uuid.New())
	tr := hierarchy.NewTree("org", true, root)
	if err := tr.AddAtPath(nil, "eng", child); err != nil {
		t.Fatalf("AddAtPath: %v", err)
	}
	if err := cat.AddHierarchy(tr); err != nil {
		t.Fatalf("AddHierarchy: %v", err)
	}

	if err := d.SaveCatalog(ctx, cat); err != nil {
		t.Fatalf("SaveCatalog: %v", err)
	}

	loaded, err := d.LoadCatalog(ctx, cat.GlobalID())
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	h, ok := loaded.Hierarchy("org")
	if !ok {
		t.Fatalf("expected hierarchy org")
	}
	loadedTree, ok := h.(*hierarchy.Tree)
	if !ok {
		t.Fatalf("expected *hierarchy.Tree, got %T", h)
	}
	node, err := loadedTree.NodeAt([]string{"eng"})
	if err != nil {
		t.Fatalf("NodeAt: %v", err)
	}
	if node.Value().ID != child.ID {
		t.Fatalf("child entity mismatch")
	}
}

func TestLoadCatalogNotFound(t *testing.T) {
	d, _ := openTestDAO(t)
	_, err := d.LoadCatalog(context.Background(), uuid.New())
	if !catalogerr.AsKind(err, catalogerr.KindNotFound) {
		t.Fatalf("expected not_found error, got %v", err)
	}
}

func TestDeleteCatalog(t *testing.T) {
	ctx := context.Background()
	d, _ := openTestDAO(t)

	cat, err := catalog.New(catalog.Config{GlobalID: uuid.New(), Species: types.SpeciesSink})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	if err := d.SaveCatalog(ctx, cat); err != nil {
		t.Fatalf("SaveCatalog: %v", err)
	}

	existed, err := d.DeleteCatalog(ctx, cat.GlobalID())
	if err != nil {
		t.Fatalf("DeleteCatalog: %v", err)
	}
	if !existed {
		t.Fatalf("expected catalog to have existed")
	}

	_, err = d.LoadCatalog(ctx, cat.GlobalID())
	if !catalogerr.AsKind(err, catalogerr.KindNotFound) {
		t.Fatalf("expected not_found after delete, got %v", err)
	}

	existed, err = d.DeleteCatalog(ctx, cat.GlobalID())
	if err != nil {
		t.Fatalf("second DeleteCatalog: %v", err)
	}
	if existed {
		t.Fatalf("expected second delete to report not-existed")
	}
}
