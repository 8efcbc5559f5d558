package registry

import (
	"fmt"
	"sync"

	"github.com/cuemby/catalogengine/pkg/types"
)

// AspectDefDictionary is the process-lifetime, shared dictionary of
// AspectDefs keyed by name (spec.md §3: "AspectDefs persist beyond
// catalogs (shared dictionary)"; §4.B: "Resolving by name gives the
// AspectDef currently bound in the factory").
type AspectDefDictionary struct {
	mu   sync.RWMutex
	defs map[string]*types.AspectDef
}

// NewAspectDefDictionary returns an empty dictionary.
func NewAspectDefDictionary() *AspectDefDictionary {
	return &AspectDefDictionary{defs: make(map[string]*types.AspectDef)}
}

// Bind registers ad under its Name, replacing any AspectDef previously
// bound to that name (a newer schema version supersedes the old one for
// name-based resolution; UUID-keyed persistence, in pkg/storage, keeps
// both versions addressable).
func (d *AspectDefDictionary) Bind(ad *types.AspectDef) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.defs[ad.Name] = ad
}

// Resolve returns the AspectDef currently bound to name.
func (d *AspectDefDictionary) Resolve(name string) (*types.AspectDef, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	ad, ok := d.defs[name]
	return ad, ok
}

// MustResolve is Resolve but returns an error instead of a boolean, for
// callers in an error-returning call chain.
func (d *AspectDefDictionary) MustResolve(name string) (*types.AspectDef, error) {
	ad, ok := d.Resolve(name)
	if !ok {
		return nil, fmt.Errorf("aspect def %q is not registered", name)
	}
	return ad, nil
}

// All returns every bound AspectDef, in no particular order.
func (d *AspectDefDictionary) All() []*types.AspectDef {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]*types.AspectDef, 0, len(d.defs))
	for _, ad := range d.defs {
		out = append(out, ad)
	}
	return out
}
