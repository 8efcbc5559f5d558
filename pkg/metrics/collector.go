package metrics

import (
	"sync"
	"time"

	"github.com/cuemby/catalogengine/pkg/catalog"
	"github.com/cuemby/catalogengine/pkg/registry"
)

// Collector periodically samples gauges from a Factory's registries and
// a set of tracked Catalogs (spec.md has no notion of a cluster-wide
// collection loop; this samples what the factory actually holds).
type Collector struct {
	mu       sync.RWMutex
	factory  *registry.Factory
	catalogs map[string]*catalog.Catalog
	stopCh   chan struct{}
}

// NewCollector creates a new metrics collector scoped to factory.
func NewCollector(factory *registry.Factory) *Collector {
	return &Collector{
		factory:  factory,
		catalogs: make(map[string]*catalog.Catalog),
		stopCh:   make(chan struct{}),
	}
}

// Track registers cat so its hierarchy counts are sampled on each tick.
func (c *Collector) Track(cat *catalog.Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalogs[cat.GlobalID().String()] = cat
}

// Untrack removes a catalog from sampling, called after DeleteCatalog.
func (c *Collector) Untrack(globalID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.catalogs, globalID)
}

// Start begins collecting metrics every 15 seconds.
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector.
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	c.collectFactoryMetrics()
	c.collectHierarchyMetrics()
}

func (c *Collector) collectFactoryMetrics() {
	AspectDefsRegistered.Set(float64(len(c.factory.AspectDefs.All())))
}

func (c *Collector) collectHierarchyMetrics() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	CatalogsLoaded.Set(float64(len(c.catalogs)))

	kindCounts := make(map[string]int)
	for _, cat := range c.catalogs {
		for _, h := range cat.Hierarchies() {
			kindCounts[string(h.Kind())]++
		}
	}
	for kind, count := range kindCounts {
		HierarchiesTotal.WithLabelValues(kind).Set(float64(count))
	}
}
