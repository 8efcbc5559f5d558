package catalog

import (
	"github.com/cuemby/catalogengine/pkg/registry"
)

// CreateCatalog builds a Catalog, binding every AspectDef named in
// cfg.Def to f's AspectDefDictionary so later extend/lookup calls
// resolve against the same factory scope (spec.md §6: "create_catalog(
// globalId, species, def?, upstream?, version)", §4.C: registries are
// owned by a Factory, not process-global).
func CreateCatalog(f *registry.Factory, cfg Config) (*Catalog, error) {
	for _, ad := range cfg.Def.AspectDefs {
		f.AspectDefs.Bind(ad)
	}
	return New(cfg)
}
