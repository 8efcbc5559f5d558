/*
Package catalog implements the Catalog aggregate (spec.md §3, §4.F): the
top-level object a Factory creates, extends with AspectDefs and
Hierarchies, and hands to pkg/storage to save/load/delete.

A Catalog owns its CatalogDef (definition-time AspectDefs and
HierarchyDefs), a set of extensions (AspectDefs registered after
construction), an ordered map of Hierarchies by name, and a monotonic
version counter. extend registers an AspectDef and creates a matching
default ASPECT_MAP hierarchy in one step; addHierarchy inserts a
caller-built Hierarchy directly.

Grounded on the teacher's pkg/manager/manager.go: a Config-struct
constructor plus a mutex-guarded aggregate exposing narrow accessor
methods rather than exported mutable fields. The Raft/FSM replication
machinery that wrapped the teacher's aggregate is not carried — spec.md
§5 is explicit that the engine is single-writer-per-catalog with no
internal replication.
*/
package catalog
