package registry

import (
	"testing"

	"github.com/google/uuid"
)

func TestEntityRegistryInterning(t *testing.T) {
	r := NewEntityRegistry()
	id := uuid.New()

	e1 := r.GetOrRegister(id)
	e2 := r.GetOrRegister(id)

	if e1 != e2 {
		t.Fatalf("expected same Entity instance for repeated lookups of %s", id)
	}
	if r.Size() != 1 {
		t.Fatalf("expected 1 interned entity, got %d", r.Size())
	}
}

func TestEntityRegistryIsolatedPerInstance(t *testing.T) {
	id := uuid.New()
	r1 := NewEntityRegistry()
	r2 := NewEntityRegistry()

	r1.GetOrRegister(id)

	if _, ok := r2.Lookup(id); ok {
		t.Fatal("expected entity not to leak across independent registries")
	}
}

func TestAspectDefDictionaryResolve(t *testing.T) {
	d := NewAspectDefDictionary()
	if _, ok := d.Resolve("person"); ok {
		t.Fatal("expected no binding before Bind")
	}
	if _, err := d.MustResolve("person"); err == nil {
		t.Fatal("expected error resolving unbound name")
	}
}
