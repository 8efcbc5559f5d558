package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/cuemby/catalogengine/pkg/catalogerr"
	"github.com/cuemby/catalogengine/pkg/types"
)

// DeleteScope resolves the open question of what DeleteCatalog does to a
// mapped table whose pattern lacks catalog_id (spec.md §9, DESIGN.md
// Open Question 1). DeleteScopeNone is the default: rows outlive the
// catalog that wrote them, matching the spec's "otherwise the rows
// remain" fallback for the conservative case.
type DeleteScope int

const (
	DeleteScopeNone DeleteScope = iota
	DeleteScopeTruncate
)

// KeyPattern names one of the four mapped-table key layouts from the
// (has_catalog_id, has_entity_id) combination (spec.md §4.G table).
type KeyPattern int

const (
	KeyPatternNone          KeyPattern = iota // false, false
	KeyPatternCatalogOnly                     // true,  false
	KeyPatternEntityOnly                       // false, true
	KeyPatternCatalogEntity                    // true,  true
)

func (k KeyPattern) HasCatalogID() bool { return k == KeyPatternCatalogOnly || k == KeyPatternCatalogEntity }
func (k KeyPattern) HasEntityID() bool  { return k == KeyPatternEntityOnly || k == KeyPatternCatalogEntity }

// AspectTableMapping records how one AspectDef's Aspects route to a
// dedicated table instead of the generic property_value table (spec.md
// §4.G "Aspect routing: generic vs. mapped"). ColumnFor maps a property
// name to its column name in Table; a PropertyDef absent from ColumnFor
// is not persisted by this mapping (it must be absent from the
// AspectDef, or the mapping is invalid — see Validate).
type AspectTableMapping struct {
	AspectDef   *types.AspectDef
	Table       string
	ColumnFor   map[string]string
	Pattern     KeyPattern
	DeleteScope DeleteScope
}

// Validate rejects mappings whose columns include a multivalued
// PropertyDef: "Multivalued properties are not representable in a
// mapped table; the engine rejects mappings whose columns include a
// multivalued PropertyDef" (spec.md §4.G).
func (m *AspectTableMapping) Validate() error {
	for _, name := range m.AspectDef.Properties.Names() {
		if _, mapped := m.ColumnFor[name]; !mapped {
			continue
		}
		pd, _ := m.AspectDef.Properties.Get(name)
		if pd.Multivalued {
			return catalogerr.New(catalogerr.KindSchema, "AspectTableMapping.Validate",
				"mapped table "+m.Table+" cannot map multivalued property "+name)
		}
	}
	return nil
}

// MappingRegistry is the engine's read-mostly table of AspectTableMapping
// by AspectDef name (spec.md §5: "read-only after startup registration;
// adding a mapping concurrently with a save is undefined").
type MappingRegistry struct {
	mu       sync.RWMutex
	mappings map[string]*AspectTableMapping
}

// NewMappingRegistry returns an empty registry.
func NewMappingRegistry() *MappingRegistry {
	return &MappingRegistry{mappings: make(map[string]*AspectTableMapping)}
}

// Add validates and registers mapping under its AspectDef's name.
func (r *MappingRegistry) Add(mapping *AspectTableMapping) error {
	if err := mapping.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mappings[mapping.AspectDef.Name] = mapping
	return nil
}

// Lookup returns the mapping registered for aspectDefName, if any.
func (r *MappingRegistry) Lookup(aspectDefName string) (*AspectTableMapping, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.mappings[aspectDefName]
	return m, ok
}

// All returns every registered mapping, in no particular order.
func (r *MappingRegistry) All() []*AspectTableMapping {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*AspectTableMapping, 0, len(r.mappings))
	for _, m := range r.mappings {
		out = append(out, m)
	}
	return out
}

// CreateTable issues a CREATE TABLE IF NOT EXISTS for mapping's table,
// one column per mapped property plus catalog_id/entity_id as the
// pattern requires (spec.md §6: "dao.create_table(mapping)").
func CreateTable(ctx context.Context, db *sql.DB, mapping *AspectTableMapping) error {
	var cols []string
	var pk []string
	if mapping.Pattern.HasCatalogID() {
		cols = append(cols, "catalog_id TEXT NOT NULL")
		pk = append(pk, "catalog_id")
	}
	if mapping.Pattern.HasEntityID() {
		cols = append(cols, "entity_id TEXT NOT NULL")
		pk = append(pk, "entity_id")
	}
	for _, pd := range mapping.AspectDef.Properties.Defs() {
		col, mapped := mapping.ColumnFor[pd.Name]
		if !mapped {
			continue
		}
		cols = append(cols, fmt.Sprintf("%s %s", col, sqlColumnType(pd.Type)))
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s", mapping.Table, strings.Join(cols, ", "))
	if len(pk) > 0 {
		stmt += fmt.Sprintf(", PRIMARY KEY (%s)", strings.Join(pk, ", "))
	}
	stmt += ")"
	_, err := db.ExecContext(ctx, stmt)
	return err
}
