package aspect

import (
	"github.com/cuemby/catalogengine/pkg/catalogerr"
	"github.com/cuemby/catalogengine/pkg/types"
)

// Property is a (PropertyDef, value) pair, the full form spec.md §4.D's
// Add operation takes and PropertyMap.Entries returns.
type Property struct {
	Def   types.PropertyDef
	Value any
}

// Aspect is the common contract both representations satisfy (spec.md
// §4.D). Implementations: *PropertyMapAspect, *ObjectMapAspect.
type Aspect interface {
	Def() *types.AspectDef
	ReadObj(name string) (any, error)
	Write(name string, v any) error
	Add(p Property) error
	Remove(name string) error
	Contains(name string) bool
	// Names returns property names currently present, in insertion order.
	Names() []string
}

func notFound(op, name string) error {
	return catalogerr.New(catalogerr.KindNotFound, op, "no such property "+name)
}

func notWritable(op, name string) error {
	return catalogerr.New(catalogerr.KindSchema, op, "property "+name+" is not writable")
}

func notNullable(op, name string) error {
	return catalogerr.New(catalogerr.KindSchema, op, "property "+name+" is not nullable")
}

func notAddable(op string) error {
	return catalogerr.New(catalogerr.KindSchema, op, "aspect def does not permit adding properties")
}

func notRemovable(op, name string) error {
	return catalogerr.New(catalogerr.KindSchema, op, "property "+name+" is not removable")
}

func duplicateName(op, name string) error {
	return catalogerr.New(catalogerr.KindSchema, op, "duplicate property name "+name)
}
