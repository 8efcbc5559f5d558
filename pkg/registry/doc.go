/*
Package registry implements the Catalog Engine's process-scoped identity
registries (spec.md §3 "Entities and identity", §4.C, and Design Note §9
"Global factory / registry").

A Factory owns one EntityRegistry and one AspectDef dictionary. Both are
mutex-guarded maps, the same shape as the teacher's
pkg/manager.TokenManager (a map[string]*JoinToken behind a sync.RWMutex
with Generate/Validate/Revoke/List methods) — here re-purposed as
get-or-register/register/resolve-by-name over Entities and AspectDefs.

Design Note §9 calls for avoiding a process-global singleton: a Factory is
an explicit value callers construct and pass around (or thread through a
narrow context), never a package-level var. Tests construct independent
Factories to isolate state, exactly as the teacher's own tests construct
independent TokenManagers rather than reaching for a shared global.
*/
package registry
