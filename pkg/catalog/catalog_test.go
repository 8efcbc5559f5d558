package catalog

import (
	"testing"

	"github.com/google/uuid"

	"github.com/cuemby/catalogengine/pkg/catalogerr"
	"github.com/cuemby/catalogengine/pkg/hierarchy"
	"github.com/cuemby/catalogengine/pkg/registry"
	"github.com/cuemby/catalogengine/pkg/types"
	"github.com/cuemby/catalogengine/pkg/value"
)

func personAspectDef(t *testing.T) *types.AspectDef {
	t.Helper()
	nameDef, err := types.NewPropertyDef("name", value.String)
	if err != nil {
		t.Fatalf("NewPropertyDef: %v", err)
	}
	props, err := types.NewPropertyMap(nameDef)
	if err != nil {
		t.Fatalf("NewPropertyMap: %v", err)
	}
	return types.NewAspectDef("person", uuid.New(), props, types.VariantMutable)
}

func TestCatalogNewRejectsInvalidSpecies(t *testing.T) {
	_, err := New(Config{GlobalID: uuid.New(), Species: "BOGUS"})
	if !catalogerr.AsKind(err, catalogerr.KindSchema) {
		t.Fatalf("expected schema error, got %v", err)
	}
}

func TestCatalogExtendCreatesAspectMap(t *testing.T) {
	c, err := New(Config{GlobalID: uuid.New(), Species: types.SpeciesSink})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ad := personAspectDef(t)

	am, err := c.Extend(ad)
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if am.Name() != "person" || am.Kind() != types.AspectMap {
		t.Fatalf("unexpected default hierarchy: %s/%s", am.Name(), am.Kind())
	}

	h, ok := c.Hierarchy("person")
	if !ok || h.Name() != "person" {
		t.Fatal("expected Hierarchy(person) to resolve the extended map")
	}

	exts := c.Extensions()
	if len(exts) != 1 || exts[0].Name != "person" {
		t.Fatalf("expected person in extensions, got %v", exts)
	}
}

func TestCatalogExtendDuplicateNameRejected(t *testing.T) {
	c, _ := New(Config{GlobalID: uuid.New(), Species: types.SpeciesSink})
	ad := personAspectDef(t)
	if _, err := c.Extend(ad); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if _, err := c.Extend(ad); !catalogerr.AsKind(err, catalogerr.KindSchema) {
		t.Fatalf("expected duplicate-name schema error, got %v", err)
	}
}

func TestCatalogAddHierarchyDuplicateRejected(t *testing.T) {
	c, _ := New(Config{GlobalID: uuid.New(), Species: types.SpeciesSink})
	l := hierarchy.NewList("members", true)
	if err := c.AddHierarchy(l); err != nil {
		t.Fatalf("AddHierarchy: %v", err)
	}
	if err := c.AddHierarchy(hierarchy.NewList("members", true)); !catalogerr.AsKind(err, catalogerr.KindSchema) {
		t.Fatalf("expected duplicate-name schema error, got %v", err)
	}
}

func TestCreateCatalogBindsAspectDefsToFactory(t *testing.T) {
	f := registry.NewFactory()
	ad := personAspectDef(t)
	def := types.CatalogDef{AspectDefs: []*types.AspectDef{ad}}

	c, err := CreateCatalog(f, Config{GlobalID: uuid.New(), Species: types.SpeciesSource, Def: def})
	if err != nil {
		t.Fatalf("CreateCatalog: %v", err)
	}
	if len(c.AllAspectDefs()) != 1 {
		t.Fatalf("expected 1 aspect def, got %d", len(c.AllAspectDefs()))
	}
	if _, ok := f.AspectDefs.Resolve("person"); !ok {
		t.Fatal("expected person bound in factory's dictionary")
	}
}
