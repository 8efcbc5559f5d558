/*
Package codec implements the catalog engine's canonical JSON wire format
(spec.md §4.H). Marshal/MarshalIndent serialize an in-memory *catalog.Catalog;
Unmarshal reconstructs one through a *registry.Factory, so the same Entity
UUID decoded from two different hierarchies yields the same types.Entity
value and the same AspectDef name resolves to the same *types.AspectDef.

# Canonical form

	{
	  "globalId": "<uuid>",
	  "uri": "<string>" | null,
	  "species": "sink" | "source" | "mirror",
	  "strict": true,
	  "upstream": "<uuid>",
	  "def": {
	    "aspectDefs": { "<name>": <AspectDef>, ... },
	    "hierarchyDefs": [ {"name", "kind", "modifiable"}, ... ]
	  },
	  "aspectDefs": { "<name>": <AspectDef>, ... },   // extensions only, not in def.aspectDefs
	  "hierarchies": { "<name>": <Hierarchy>, ... }
	}

An AspectDef is `{"name", "properties": [<PropertyDef>, ...],
"canAddProperties", "canRemoveProperties", "readable", "writable"}`. A
PropertyDef is `{"name", "type", "hasDefaultValue", "defaultValue"?,
"readable", "writable", "nullable", "removable", "multivalued"}`.

A Hierarchy is `{"type": "<3-letter code>", "name", "contents": <kind-specific>}`:
LIST/SET contents are a JSON array of entity UUID strings; DIR contents are a
string→UUID object; TREE contents are a nested `{"entityId", "children"}`
node object; ASPECT_MAP contents are a UUID→Aspect object, where an Aspect is
a flat object of property name → value.

Values serialize by PropertyType: Integer/Float/Boolean as JSON
number/number/bool; String/Text/CLOB as JSON strings; BigInteger/BigDecimal/
DateTime/URI/UUID as strings (DateTime is RFC3339Nano, consistent with
pkg/storage's wire-text rule); BLOB as a hex string; multivalued properties
as a JSON array of the scalar form.

# Determinism

Object key order is stable across encodes of the same catalog (AspectDef
property order, Aspect property order following Names(), and the
top-level field order above) via the package's orderedMap helper, so
Marshal and MarshalIndent of the same graph differ only in whitespace —
the bijection property required by spec.md §4.H and exercised by
spec.md §8 property 1.

No teacher analog exists for a JSON codec; pkg/manager/fsm.go's
encoding/json Command marshal/unmarshal informed the general approach
(decode into wire structs, not directly into domain types) but not the
shape, which follows spec.md §4.H directly.
*/
package codec
