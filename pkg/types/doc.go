/*
Package types holds the Catalog Engine's schema objects and identity
primitives: PropertyDef, AspectDef, CatalogDef, HierarchyDef, Entity, and
the Species/HierarchyKind enums (spec.md §3 "Data model" and §4.B "Schema
objects").

# Architecture

	┌──────────────────────── SCHEMA OBJECTS ─────────────────────────┐
	│                                                                    │
	│  CatalogDef                                                       │
	│    ├── []AspectDef           (definition-time aspect schemas)    │
	│    └── []HierarchyDef        (name, kind, modifiable)            │
	│                                                                    │
	│  AspectDef (one of Immutable / Mutable / Full, by flags)         │
	│    ├── Name string            (primary key across catalogs)     │
	│    ├── UUID uuid.UUID          (identifies a specific version)   │
	│    └── *PropertyMap            (ordered name -> PropertyDef)     │
	│                                                                    │
	│  PropertyDef (immutable after construction)                      │
	│    Name, Type, Default, HasDefault,                              │
	│    Readable, Writable, Nullable, Removable, Multivalued          │
	│                                                                    │
	│  Entity                                                          │
	│    ID uuid.UUID                (the only attribute; identity-only)│
	└───────────────────────────────────────────────────────────────┘

This package intentionally holds no behavior beyond what the schema objects
themselves guarantee (equality, ordered iteration, flag-driven mutation
refusal). The registry that interns Entities and the dictionary that
resolves AspectDefs by name live in pkg/registry; the containers that hold
Aspects and Entities live in pkg/aspect and pkg/hierarchy.

Grounded on the teacher's pkg/types: a flat catalog of plain, exported
structs (Node, Service, Task, ...) describing one cluster's domain objects.
Here the catalog of structs describes the *schema* of any catalog's domain
objects instead of one fixed domain.

# Hierarchy type codes

spec.md's JSON codec section describes hierarchies as "tagged by type (the
three-letter typeCode)" without spelling out the five codes the way it does
for PropertyType. This package assigns them explicitly (Open Question,
recorded in DESIGN.md): LST, SET, DIR, TRE, ASP for ENTITY_LIST, ENTITY_SET,
ENTITY_DIR, ENTITY_TREE, and ASPECT_MAP respectively.
*/
package types
