package catalog

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cuemby/catalogengine/pkg/catalogerr"
	"github.com/cuemby/catalogengine/pkg/hierarchy"
	"github.com/cuemby/catalogengine/pkg/types"
)

// Config holds the fields needed to create a Catalog (spec.md §3
// "A Catalog is (globalId, species, upstream?, version, CatalogDef, ...)").
type Config struct {
	GlobalID uuid.UUID
	Species  types.Species
	URI      *string
	Upstream *uuid.UUID
	Def      types.CatalogDef
	Version  uint64
}

// Catalog is the top-level aggregate: definition-time schema, extension
// AspectDefs, an ordered map of Hierarchies, and a monotonic version
// (spec.md §4.F).
type Catalog struct {
	mu sync.Mutex

	globalID uuid.UUID
	species  types.Species
	uri      *string
	upstream *uuid.UUID
	def      types.CatalogDef
	version  uint64

	extensions    []*types.AspectDef
	hierarchyKeys []string
	hierarchies   map[string]hierarchy.Hierarchy
}

// New creates a Catalog from cfg. Species must be one of SINK, SOURCE,
// MIRROR (spec.md §3).
func New(cfg Config) (*Catalog, error) {
	if !cfg.Species.Valid() {
		return nil, catalogerr.New(catalogerr.KindSchema, "catalog.New", "invalid species "+string(cfg.Species))
	}
	return &Catalog{
		globalID:    cfg.GlobalID,
		species:     cfg.Species,
		uri:         cfg.URI,
		upstream:    cfg.Upstream,
		def:         cfg.Def,
		version:     cfg.Version,
		hierarchies: make(map[string]hierarchy.Hierarchy),
	}, nil
}

func (c *Catalog) GlobalID() uuid.UUID      { return c.globalID }
func (c *Catalog) Species() types.Species   { return c.species }
func (c *Catalog) URI() *string             { return c.uri }
func (c *Catalog) Upstream() *uuid.UUID     { return c.upstream }
func (c *Catalog) Version() uint64          { return c.version }
func (c *Catalog) Def() types.CatalogDef    { return c.def }

// BumpVersion advances the monotonic version counter. SaveCatalog
// persists the current version and does not call it.
func (c *Catalog) BumpVersion() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version++
}

// Extensions returns AspectDefs registered after construction, in
// registration order.
func (c *Catalog) Extensions() []*types.AspectDef {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*types.AspectDef, len(c.extensions))
	copy(out, c.extensions)
	return out
}

// AllAspectDefs returns CatalogDef's AspectDefs followed by extensions,
// the full set a save must persist (spec.md §4.G step 3: "for each
// AspectDef in CatalogDef ∪ extensions").
func (c *Catalog) AllAspectDefs() []*types.AspectDef {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*types.AspectDef, 0, len(c.def.AspectDefs)+len(c.extensions))
	out = append(out, c.def.AspectDefs...)
	out = append(out, c.extensions...)
	return out
}

// Extend registers aspectDef (if not already known by name) and creates
// a default ASPECT_MAP hierarchy of the same name, returning it (spec.md
// §4.F: "extend(aspectDef) registers the AspectDef and creates a default
// ASPECT_MAP hierarchy of the same name").
func (c *Catalog) Extend(aspectDef *types.AspectDef) (*hierarchy.AspectMap, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.hierarchies[aspectDef.Name]; exists {
		return nil, catalogerr.New(catalogerr.KindSchema, "Catalog.Extend", "duplicate hierarchy name "+aspectDef.Name)
	}
	if _, known := c.def.AspectDefByName(aspectDef.Name); !known {
		c.extensions = append(c.extensions, aspectDef)
	}

	am := hierarchy.NewAspectMap(aspectDef.Name, true, aspectDef)
	c.hierarchyKeys = append(c.hierarchyKeys, aspectDef.Name)
	c.hierarchies[aspectDef.Name] = am
	return am, nil
}

// AddHierarchy inserts h into the hierarchy map, refusing a duplicate
// name (spec.md §4.F).
func (c *Catalog) AddHierarchy(h hierarchy.Hierarchy) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.hierarchies[h.Name()]; exists {
		return catalogerr.New(catalogerr.KindSchema, "Catalog.AddHierarchy", "duplicate hierarchy name "+h.Name())
	}
	c.hierarchyKeys = append(c.hierarchyKeys, h.Name())
	c.hierarchies[h.Name()] = h
	return nil
}

// Hierarchy looks up a Hierarchy by name.
func (c *Catalog) Hierarchy(name string) (hierarchy.Hierarchy, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	h, ok := c.hierarchies[name]
	return h, ok
}

// Hierarchies returns every Hierarchy, in insertion order.
func (c *Catalog) Hierarchies() []hierarchy.Hierarchy {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]hierarchy.Hierarchy, len(c.hierarchyKeys))
	for i, name := range c.hierarchyKeys {
		out[i] = c.hierarchies[name]
	}
	return out
}
