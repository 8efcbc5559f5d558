/*
Package aspect implements the two Aspect representations (spec.md §3
"Aspects (two representations)" and §4.D): PropertyMap and ObjectMap. Both
are typed bundles for one Entity under one AspectDef and expose an
identical observable contract:

	ReadObj(name)    -> current value or nil              (NoSuchProperty)
	Write(name, v)   -> replaces value                      (NotWritable, NotNullable, NoSuchProperty)
	Add(Property)    -> inserts a new name->value entry     (NotAddable, DuplicateName)
	Remove(name)     -> removes the entry                   (NotRemovable, NoSuchProperty)
	Contains(name)   -> bool

PropertyMap additionally exposes each entry as a (PropertyDef, value) pair
via Entries(); ObjectMap omits the PropertyDef per entry for memory-lean
cases, exposing only (name, value) via Values(), an unordered map. Both
keep insertion order (spec.md invariant 2): PropertyMap through
Entries(), ObjectMap through Names().

Add/Remove refuse per the bound AspectDef's CanAddProperties /
CanRemoveProperties flags — the same per-flag-refusal contract spec.md
§4.B describes for the AspectDef's own property-definition mutation,
applied here at the instance level to individual property entries.

There is no teacher analog for a typed, flag-enforcing value container;
this package is built directly to the spec.md §4.D contract table. Every
refusal is a pkg/catalogerr.Error built with catalogerr.New (KindNotFound
or KindSchema).
*/
package aspect
