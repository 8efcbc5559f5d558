package aspect

import (
	"testing"

	"github.com/google/uuid"

	"github.com/cuemby/catalogengine/pkg/catalogerr"
	"github.com/cuemby/catalogengine/pkg/types"
	"github.com/cuemby/catalogengine/pkg/value"
)

func mustPropertyDef(t *testing.T, name string, pt value.PropertyType, opts ...types.PropertyDefOption) types.PropertyDef {
	t.Helper()
	pd, err := types.NewPropertyDef(name, pt, opts...)
	if err != nil {
		t.Fatalf("NewPropertyDef(%s): %v", name, err)
	}
	return pd
}

func mutableAspectDef(t *testing.T) *types.AspectDef {
	t.Helper()
	nameDef := mustPropertyDef(t, "name", value.String)
	ageDef := mustPropertyDef(t, "age", value.Integer, types.NotRemovable())
	props, err := types.NewPropertyMap(nameDef, ageDef)
	if err != nil {
		t.Fatalf("NewPropertyMap: %v", err)
	}
	ad := types.NewAspectDef("person", uuid.New(), props, types.VariantFull)
	ad.SetMutability(true, true)
	return ad
}

func TestPropertyMapAspectReadWrite(t *testing.T) {
	ad := mutableAspectDef(t)
	nameDef, _ := ad.Properties.Get("name")
	ageDef, _ := ad.Properties.Get("age")
	a := NewPropertyMapAspect(ad, Property{Def: nameDef, Value: "ana"}, Property{Def: ageDef, Value: int64(30)})

	if !a.Contains("name") {
		t.Fatal("expected Contains(name) true")
	}
	v, err := a.ReadObj("name")
	if err != nil || v != "ana" {
		t.Fatalf("ReadObj(name) = %v, %v", v, err)
	}

	if err := a.Write("name", "maria"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	v, _ = a.ReadObj("name")
	if v != "maria" {
		t.Fatalf("expected maria, got %v", v)
	}

	if _, err := a.ReadObj("missing"); !catalogerr.AsKind(err, catalogerr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestPropertyMapAspectAddRemove(t *testing.T) {
	ad := mutableAspectDef(t)
	a := NewPropertyMapAspect(ad)

	nameDef, _ := ad.Properties.Get("name")
	if err := a.Add(Property{Def: nameDef, Value: "x"}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := a.Add(Property{Def: nameDef, Value: "y"}); !catalogerr.AsKind(err, catalogerr.KindSchema) {
		t.Fatalf("expected duplicate-name schema error, got %v", err)
	}

	if err := a.Remove("name"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if a.Contains("name") {
		t.Fatal("expected name removed")
	}
	if err := a.Remove("name"); !catalogerr.AsKind(err, catalogerr.KindNotFound) {
		t.Fatalf("expected NotFound removing twice, got %v", err)
	}
}

func TestPropertyMapAspectRemoveNotRemovable(t *testing.T) {
	ad := mutableAspectDef(t)
	ageDef, _ := ad.Properties.Get("age")
	a := NewPropertyMapAspect(ad, Property{Def: ageDef, Value: int64(1)})

	if err := a.Remove("age"); !catalogerr.AsKind(err, catalogerr.KindSchema) {
		t.Fatalf("expected NotRemovable schema error, got %v", err)
	}
}

func TestPropertyMapAspectAddRejectedWhenImmutable(t *testing.T) {
	nameDef := mustPropertyDef(t, "name", value.String)
	props, _ := types.NewPropertyMap(nameDef)
	ad := types.NewAspectDef("immutable", uuid.New(), props, types.VariantImmutable)

	a := NewPropertyMapAspect(ad)
	if err := a.Add(Property{Def: nameDef, Value: "z"}); !catalogerr.AsKind(err, catalogerr.KindSchema) {
		t.Fatalf("expected NotAddable, got %v", err)
	}
}

func TestObjectMapAspectRoundTrip(t *testing.T) {
	ad := mutableAspectDef(t)
	a := NewObjectMapAspect(ad, []string{"name", "age"}, map[string]any{"name": "ana", "age": int64(30)})

	if !a.Contains("age") {
		t.Fatal("expected Contains(age) true")
	}
	if err := a.Write("age", int64(31)); err != nil {
		t.Fatalf("Write: %v", err)
	}
	v, _ := a.ReadObj("age")
	if v != int64(31) {
		t.Fatalf("expected 31, got %v", v)
	}

	if err := a.Remove("age"); !catalogerr.AsKind(err, catalogerr.KindSchema) {
		t.Fatalf("expected NotRemovable, got %v", err)
	}

	vals := a.Values()
	if len(vals) != 2 {
		t.Fatalf("expected 2 values, got %d", len(vals))
	}
}

func TestObjectMapAspectNames(t *testing.T) {
	ad := mutableAspectDef(t)
	a := NewObjectMapAspect(ad, []string{"name"}, map[string]any{"name": "ana"})
	names := a.Names()
	if len(names) != 1 || names[0] != "name" {
		t.Fatalf("unexpected Names(): %v", names)
	}
}
