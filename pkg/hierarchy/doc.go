/*
Package hierarchy implements the five Hierarchy container kinds (spec.md
§3 "Hierarchies (five kinds)", §4.E): EntityList, EntitySet, EntityDir,
EntityTree, AspectMap. Each wraps an insertion-ordered container keyed
the way its kind requires:

	EntityList  ordered sequence of Entity, keyed by integer position
	EntitySet   insertion-ordered set of Entity, no duplicate UUIDs
	EntityDir   insertion-ordered string -> Entity map
	EntityTree  rooted tree of (Entity, ordered map<string, node>)
	AspectMap   insertion-ordered Entity -> Aspect map, one AspectDef

All five share the Hierarchy marker interface (Name, Kind, Modifiable)
so pkg/catalog can hold them uniformly in its ordered hierarchy map and
pkg/storage/pkg/codec can dispatch on Kind() without a type switch
leaking into callers that don't care (spec.md Design Note §9: "represent
[the five kinds] as a tagged variant with a common trait or interface").

Wrong-kind operations, missing tree parents, and mutation of a
non-modifiable hierarchy are reported as typed errors
(catalogerr.KindSchema / KindNotFound / KindInvariant) rather than
panics, following the teacher's storage-layer error-wrapping discipline.
There is no teacher analog for a multi-kind tagged container family;
this package is built directly to the spec.md §4.E operation table.
*/
package hierarchy
