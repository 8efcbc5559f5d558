package registry

// Factory scopes one EntityRegistry and one AspectDefDictionary together
// (spec.md §4.C: "Factories may be nested; each factory has its own
// registry so tests can isolate state"; Design Note §9: model registries
// as values owned by a Factory rather than process-global singletons).
type Factory struct {
	Entities   *EntityRegistry
	AspectDefs *AspectDefDictionary
}

// NewFactory returns a Factory with fresh, empty registries.
func NewFactory() *Factory {
	return &Factory{
		Entities:   NewEntityRegistry(),
		AspectDefs: NewAspectDefDictionary(),
	}
}
