package hierarchy

import (
	"testing"

	"github.com/google/uuid"

	"github.com/cuemby/catalogengine/pkg/aspect"
	"github.com/cuemby/catalogengine/pkg/catalogerr"
	"github.com/cuemby/catalogengine/pkg/types"
	"github.com/cuemby/catalogengine/pkg/value"
)

func newEntity() types.Entity { return types.NewEntity(uuid.New()) }

func TestListAddRemoveGet(t *testing.T) {
	l := NewList("members", true)
	e1, e2 := newEntity(), newEntity()
	if err := l.Add(e1); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := l.Add(e2); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if l.Size() != 2 {
		t.Fatalf("expected size 2, got %d", l.Size())
	}
	got, err := l.Get(0)
	if err != nil || !got.Equal(e1) {
		t.Fatalf("Get(0) = %v, %v", got, err)
	}
	if err := l.Remove(e1); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if l.Size() != 1 {
		t.Fatalf("expected size 1 after remove, got %d", l.Size())
	}
	if err := l.Remove(e1); !catalogerr.AsKind(err, catalogerr.KindNotFound) {
		t.Fatalf("expected NotFound removing twice, got %v", err)
	}
}

func TestListNotModifiable(t *testing.T) {
	l := NewList("frozen", false)
	if err := l.Add(newEntity()); !catalogerr.AsKind(err, catalogerr.KindSchema) {
		t.Fatalf("expected NotModifiable, got %v", err)
	}
}

func TestSetNoDuplicates(t *testing.T) {
	s := NewSet("tags", true)
	e := newEntity()
	if err := s.Add(e); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := s.Add(e); err != nil {
		t.Fatalf("Add duplicate should be no-op, got %v", err)
	}
	if s.Size() != 1 {
		t.Fatalf("expected size 1, got %d", s.Size())
	}
	if !s.Contains(e) {
		t.Fatal("expected Contains true")
	}
}

func TestDirPutAndRemoveByEntity(t *testing.T) {
	d := NewDir("paths", true)
	e := newEntity()
	if err := d.Put("a", e); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := d.Put("b", e); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if d.Size() != 2 {
		t.Fatalf("expected size 2, got %d", d.Size())
	}
	if err := d.RemoveByEntity(e.ID); err != nil {
		t.Fatalf("RemoveByEntity: %v", err)
	}
	if d.Size() != 0 {
		t.Fatalf("expected size 0 after RemoveByEntity, got %d", d.Size())
	}
}

func TestDirRemoveByKeyNotFound(t *testing.T) {
	d := NewDir("paths", true)
	if err := d.RemoveByKey("missing"); !catalogerr.AsKind(err, catalogerr.KindNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestTreeAddAtPathAndCascadeRemove(t *testing.T) {
	root := newEntity()
	tr := NewTree("org", true, root)
	child := newEntity()
	if err := tr.AddAtPath(nil, "eng", child); err != nil {
		t.Fatalf("AddAtPath: %v", err)
	}
	grandchild := newEntity()
	if err := tr.AddAtPath([]string{"eng"}, "backend", grandchild); err != nil {
		t.Fatalf("AddAtPath: %v", err)
	}
	if tr.Size() != 3 {
		t.Fatalf("expected 3 nodes, got %d", tr.Size())
	}
	node, err := tr.NodeAt([]string{"eng", "backend"})
	if err != nil || !node.Value().Equal(grandchild) {
		t.Fatalf("NodeAt = %v, %v", node, err)
	}
	if err := tr.RemoveAtPath([]string{"eng"}); err != nil {
		t.Fatalf("RemoveAtPath: %v", err)
	}
	if tr.Size() != 1 {
		t.Fatalf("expected cascade delete to leave 1 node, got %d", tr.Size())
	}
}

func TestTreeAddAtPathMissingParent(t *testing.T) {
	tr := NewTree("org", true, newEntity())
	if err := tr.AddAtPath([]string{"nope"}, "x", newEntity()); !catalogerr.AsKind(err, catalogerr.KindNotFound) {
		t.Fatalf("expected NoSuchNode, got %v", err)
	}
}

func TestAspectMapPutGetRemove(t *testing.T) {
	nameDef, err := types.NewPropertyDef("name", value.String)
	if err != nil {
		t.Fatalf("NewPropertyDef: %v", err)
	}
	props, err := types.NewPropertyMap(nameDef)
	if err != nil {
		t.Fatalf("NewPropertyMap: %v", err)
	}
	def := types.NewAspectDef("person", uuid.New(), props, types.VariantMutable)
	m := NewAspectMap(def.Name, true, def)

	e := newEntity()
	a := aspect.NewPropertyMapAspect(def, aspect.Property{Def: nameDef, Value: "ana"})
	if err := m.Put(e, a); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok := m.Get(e)
	if !ok || got != a {
		t.Fatalf("Get mismatch: %v, %v", got, ok)
	}
	if err := m.Remove(e); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if m.Size() != 0 {
		t.Fatalf("expected size 0, got %d", m.Size())
	}
}
