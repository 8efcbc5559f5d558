package hierarchy

import (
	"github.com/cuemby/catalogengine/pkg/catalogerr"
	"github.com/cuemby/catalogengine/pkg/types"
)

// Hierarchy is the common contract every one of the five container kinds
// satisfies (spec.md §4.E). Concrete operations live on the concrete
// types (*List, *Set, *Dir, *Tree, *AspectMap); callers that only need
// name/kind/modifiable bookkeeping (pkg/catalog, pkg/storage, pkg/codec)
// can hold a Hierarchy value without a type switch.
type Hierarchy interface {
	Name() string
	Kind() types.HierarchyKind
	Modifiable() bool
	Size() int
}

func typeMismatch(op string, want, got types.HierarchyKind) error {
	return catalogerr.New(catalogerr.KindSchema, op,
		"type mismatch: expected "+string(want)+" hierarchy, got "+string(got))
}

func noSuchNode(op, path string) error {
	return catalogerr.New(catalogerr.KindNotFound, op, "no such node at path "+path)
}

func notModifiable(op, name string) error {
	return catalogerr.New(catalogerr.KindSchema, op, "hierarchy "+name+" is not modifiable")
}

func duplicateKey(op, key string) error {
	return catalogerr.New(catalogerr.KindInvariant, op, "duplicate key "+key)
}
