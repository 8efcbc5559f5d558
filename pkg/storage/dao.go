package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/google/uuid"

	"github.com/cuemby/catalogengine/pkg/aspect"
	"github.com/cuemby/catalogengine/pkg/catalog"
	"github.com/cuemby/catalogengine/pkg/catalogerr"
	"github.com/cuemby/catalogengine/pkg/hierarchy"
	"github.com/cuemby/catalogengine/pkg/log"
	"github.com/cuemby/catalogengine/pkg/metrics"
	"github.com/cuemby/catalogengine/pkg/registry"
	"github.com/cuemby/catalogengine/pkg/types"
	"github.com/cuemby/catalogengine/pkg/value"
)

// DAO is the engine's SQL data access object (spec.md §4.G, §6: "dao.
// save_catalog", "dao.load_catalog", "dao.delete_catalog"). It owns a
// *sql.DB, a Factory for entity/AspectDef resolution on load, and a
// MappingRegistry for mapped-table routing decisions.
type DAO struct {
	db       *sql.DB
	factory  *registry.Factory
	mappings *MappingRegistry
}

// Open opens dataSourceName against the sqlite3 driver, ensures the
// generic schema exists, and returns a DAO bound to factory.
func Open(ctx context.Context, dataSourceName string, factory *registry.Factory) (*DAO, error) {
	db, err := sql.Open("sqlite3", dataSourceName)
	if err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.Open", "failed to open database", err)
	}
	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.Open", "failed to ensure schema", err)
	}
	return &DAO{db: db, factory: factory, mappings: NewMappingRegistry()}, nil
}

// Close closes the underlying database connection pool.
func (d *DAO) Close() error { return d.db.Close() }

// Mappings returns the DAO's MappingRegistry, for callers that want to
// register an AspectTableMapping (spec.md §6: "dao.add_aspect_table_mapping").
func (d *DAO) Mappings() *MappingRegistry { return d.mappings }

// AddAspectTableMapping validates and registers mapping, then creates
// its backing table (spec.md §6: "dao.add_aspect_table_mapping(mapping)").
func (d *DAO) AddAspectTableMapping(ctx context.Context, mapping *AspectTableMapping) error {
	if err := d.mappings.Add(mapping); err != nil {
		return err
	}
	return CreateTable(ctx, d.db, mapping)
}

// SaveCatalog persists cat transactionally: on any error the whole
// transaction rolls back and the prior on-disk snapshot is unchanged
// (spec.md §4.G "Save protocol").
func (d *DAO) SaveCatalog(ctx context.Context, cat *catalog.Catalog) (err error) {
	timer := metrics.NewTimer()
	clog := log.WithCatalogID(cat.GlobalID().String())
	defer func() {
		timer.ObserveDuration(metrics.SaveDuration)
		if err != nil {
			metrics.SavesTotal.WithLabelValues("rolled_back").Inc()
			clog.Error().Err(err).Msg("save failed")
		} else {
			metrics.SavesTotal.WithLabelValues("committed").Inc()
			clog.Info().Msg("catalog saved")
		}
	}()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.SaveCatalog", "begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = d.upsertCatalogRow(ctx, tx, cat); err != nil {
		return err
	}
	for _, ad := range cat.AllAspectDefs() {
		if err = d.upsertAspectDef(ctx, tx, cat.GlobalID(), ad); err != nil {
			return err
		}
	}
	for i, h := range cat.Hierarchies() {
		if err = d.upsertHierarchyRow(ctx, tx, cat.GlobalID(), h, i); err != nil {
			return err
		}
		if err = d.saveHierarchyContents(ctx, tx, cat.GlobalID(), h); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return catalogerr.Wrap(catalogerr.KindTransactionAborted, "DAO.SaveCatalog", "commit", err)
	}
	return nil
}

func (d *DAO) upsertCatalogRow(ctx context.Context, tx *sql.Tx, cat *catalog.Catalog) error {
	var upstream any
	if u := cat.Upstream(); u != nil {
		upstream = u.String()
	}
	var uri any
	if cat.URI() != nil {
		uri = *cat.URI()
	}
	strict := 0
	if cat.Def().Strict {
		strict = 1
	}
	_, err := tx.ExecContext(ctx, `
		INSERT INTO catalog (catalog_id, species, uri, upstream_catalog_id, is_strict, version_number)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(catalog_id) DO UPDATE SET
			species=excluded.species, uri=excluded.uri,
			upstream_catalog_id=excluded.upstream_catalog_id,
			is_strict=excluded.is_strict, version_number=excluded.version_number
	`, cat.GlobalID().String(), string(cat.Species()), uri, upstream, strict, cat.Version())
	if err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.upsertCatalogRow", "upsert catalog", err)
	}
	return nil
}

func (d *DAO) upsertAspectDef(ctx context.Context, tx *sql.Tx, catalogID uuid.UUID, ad *types.AspectDef) error {
	hashVersion := fmt.Sprintf("%016x", value.Hash(aspectDefFingerprint(ad), value.String))
	_, err := tx.ExecContext(ctx, `
		INSERT INTO aspect_def (aspect_def_id, name, hash_version, can_add_properties, can_remove_properties, is_readable, is_writable)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(aspect_def_id) DO UPDATE SET
			name=excluded.name, hash_version=excluded.hash_version,
			can_add_properties=excluded.can_add_properties,
			can_remove_properties=excluded.can_remove_properties,
			is_readable=excluded.is_readable, is_writable=excluded.is_writable
	`, ad.UUID.String(), ad.Name, hashVersion, boolInt(ad.CanAddProperties), boolInt(ad.CanRemoveProperties),
		boolInt(ad.Readable), boolInt(ad.Writable))
	if err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.upsertAspectDef", "upsert aspect_def "+ad.Name, err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM property_def WHERE aspect_def_id = ?`, ad.UUID.String()); err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.upsertAspectDef", "clear property_def", err)
	}
	for i, pd := range ad.Properties.Defs() {
		defaultText, _, err := textForValue(pd.Default, pd.Type)
		if err != nil && pd.HasDefault {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO property_def (aspect_def_id, name, property_type, default_value, has_default_value,
				is_readable, is_writable, is_nullable, is_removable, is_multivalued, position)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, ad.UUID.String(), pd.Name, string(pd.Type), defaultText, boolInt(pd.HasDefault),
			boolInt(pd.Readable), boolInt(pd.Writable), boolInt(pd.Nullable), boolInt(pd.Removable),
			boolInt(pd.Multivalued), i)
		if err != nil {
			return catalogerr.Wrap(catalogerr.KindStorage, "DAO.upsertAspectDef", "insert property_def "+pd.Name, err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO catalog_aspect_def (catalog_id, aspect_def_id) VALUES (?, ?)
		ON CONFLICT(catalog_id, aspect_def_id) DO NOTHING
	`, catalogID.String(), ad.UUID.String())
	if err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.upsertAspectDef", "link catalog_aspect_def", err)
	}
	return nil
}

// aspectDefFingerprint builds the string the hash_version column hashes:
// the ordered property names and types (spec.md Design Note: hash_version
// is a content-addressing digest over the AspectDef's schema shape).
func aspectDefFingerprint(ad *types.AspectDef) string {
	s := ad.Name
	for _, pd := range ad.Properties.Defs() {
		s += "|" + pd.Name + ":" + string(pd.Type)
	}
	return s
}

func (d *DAO) upsertHierarchyRow(ctx context.Context, tx *sql.Tx, catalogID uuid.UUID, h hierarchy.Hierarchy, order int) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO hierarchy (catalog_id, name, hierarchy_type, is_modifiable, version_number, hierarchy_order)
		VALUES (?, ?, ?, ?, 0, ?)
		ON CONFLICT(catalog_id, name) DO UPDATE SET
			hierarchy_type=excluded.hierarchy_type, is_modifiable=excluded.is_modifiable,
			hierarchy_order=excluded.hierarchy_order, version_number=hierarchy.version_number + 1
	`, catalogID.String(), h.Name(), h.Kind().Code(), boolInt(h.Modifiable()), order)
	if err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.upsertHierarchyRow", "upsert hierarchy "+h.Name(), err)
	}
	return nil
}

func (d *DAO) saveHierarchyContents(ctx context.Context, tx *sql.Tx, catalogID uuid.UUID, h hierarchy.Hierarchy) error {
	switch v := h.(type) {
	case *hierarchy.List:
		return d.saveList(ctx, tx, catalogID, v)
	case *hierarchy.Set:
		return d.saveSet(ctx, tx, catalogID, v)
	case *hierarchy.Dir:
		return d.saveDir(ctx, tx, catalogID, v)
	case *hierarchy.Tree:
		return d.saveTree(ctx, tx, catalogID, v)
	case *hierarchy.AspectMap:
		return d.saveAspectMap(ctx, tx, catalogID, v)
	default:
		return catalogerr.New(catalogerr.KindInvariant, "DAO.saveHierarchyContents", "unknown hierarchy kind")
	}
}

func (d *DAO) saveList(ctx context.Context, tx *sql.Tx, catalogID uuid.UUID, l *hierarchy.List) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM hierarchy_entity_list WHERE catalog_id = ? AND hierarchy_name = ?`,
		catalogID.String(), l.Name()); err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.saveList", "clear rows", err)
	}
	for i, e := range l.Items() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO hierarchy_entity_list (catalog_id, hierarchy_name, entity_id, list_order)
			VALUES (?, ?, ?, ?)
		`, catalogID.String(), l.Name(), e.ID.String(), i); err != nil {
			return catalogerr.Wrap(catalogerr.KindStorage, "DAO.saveList", "insert row", err)
		}
		metrics.RowsWritten.WithLabelValues("hierarchy_entity_list").Inc()
	}
	return nil
}

func (d *DAO) saveSet(ctx context.Context, tx *sql.Tx, catalogID uuid.UUID, s *hierarchy.Set) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM hierarchy_entity_set WHERE catalog_id = ? AND hierarchy_name = ?`,
		catalogID.String(), s.Name()); err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.saveSet", "clear rows", err)
	}
	for i, e := range s.Items() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO hierarchy_entity_set (catalog_id, hierarchy_name, entity_id, set_order)
			VALUES (?, ?, ?, ?)
		`, catalogID.String(), s.Name(), e.ID.String(), i); err != nil {
			return catalogerr.Wrap(catalogerr.KindStorage, "DAO.saveSet", "insert row", err)
		}
		metrics.RowsWritten.WithLabelValues("hierarchy_entity_set").Inc()
	}
	return nil
}

func (d *DAO) saveDir(ctx context.Context, tx *sql.Tx, catalogID uuid.UUID, dir *hierarchy.Dir) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM hierarchy_entity_directory WHERE catalog_id = ? AND hierarchy_name = ?`,
		catalogID.String(), dir.Name()); err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.saveDir", "clear rows", err)
	}
	for i, key := range dir.Keys() {
		e, _ := dir.Get(key)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO hierarchy_entity_directory (catalog_id, hierarchy_name, entity_key, entity_id, dir_order)
			VALUES (?, ?, ?, ?, ?)
		`, catalogID.String(), dir.Name(), key, e.ID.String(), i); err != nil {
			return catalogerr.Wrap(catalogerr.KindStorage, "DAO.saveDir", "insert row", err)
		}
		metrics.RowsWritten.WithLabelValues("hierarchy_entity_directory").Inc()
	}
	return nil
}

func (d *DAO) saveTree(ctx context.Context, tx *sql.Tx, catalogID uuid.UUID, tr *hierarchy.Tree) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM hierarchy_entity_tree_node WHERE catalog_id = ? AND hierarchy_name = ?`,
		catalogID.String(), tr.Name()); err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.saveTree", "clear rows", err)
	}

	order := 0
	var walk func(node *hierarchy.Node, nodeID, parentID *string, path string) error
	walk = func(node *hierarchy.Node, nodeID, parentID *string, path string) error {
		var parentArg any
		if parentID != nil {
			parentArg = *parentID
		}
		var keyArg any
		if path != "" {
			// node_key is the last path segment; root has none.
		}
		segments := splitPath(path)
		if len(segments) > 0 {
			keyArg = segments[len(segments)-1]
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO hierarchy_entity_tree_node
				(catalog_id, hierarchy_name, node_id, parent_node_id, node_key, entity_id, node_path, tree_order)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, catalogID.String(), tr.Name(), *nodeID, parentArg, keyArg, node.Value().ID.String(), path, order); err != nil {
			return catalogerr.Wrap(catalogerr.KindStorage, "DAO.saveTree", "insert node", err)
		}
		metrics.RowsWritten.WithLabelValues("hierarchy_entity_tree_node").Inc()
		order++

		for _, key := range node.ChildKeys() {
			child, _ := node.Get(key)
			childID := uuid.NewString()
			childPath := path
			if childPath != "" {
				childPath += "/"
			}
			childPath += key
			if err := walk(child, &childID, nodeID, childPath); err != nil {
				return err
			}
		}
		return nil
	}

	rootID := uuid.NewString()
	return walk(tr.Root(), &rootID, nil, "")
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			out = append(out, path[start:i])
			start = i + 1
		}
	}
	out = append(out, path[start:])
	return out
}

func (d *DAO) saveAspectMap(ctx context.Context, tx *sql.Tx, catalogID uuid.UUID, m *hierarchy.AspectMap) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM hierarchy_aspect_map WHERE catalog_id = ? AND hierarchy_name = ?`,
		catalogID.String(), m.Name()); err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.saveAspectMap", "clear rows", err)
	}

	mapping, mapped := d.mappings.Lookup(m.Def().Name)

	for i, e := range m.Keys() {
		a, _ := m.Get(e)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO hierarchy_aspect_map (catalog_id, hierarchy_name, entity_id, aspect_def_id, map_order)
			VALUES (?, ?, ?, ?, ?)
		`, catalogID.String(), m.Name(), e.ID.String(), m.Def().UUID.String(), i); err != nil {
			return catalogerr.Wrap(catalogerr.KindStorage, "DAO.saveAspectMap", "insert row", err)
		}
		metrics.RowsWritten.WithLabelValues("hierarchy_aspect_map").Inc()

		if mapped {
			if err := d.saveMappedAspect(ctx, tx, catalogID, e, a, mapping); err != nil {
				return err
			}
			metrics.AspectRouteTotal.WithLabelValues("mapped").Inc()
		} else {
			if err := d.saveGenericAspect(ctx, tx, catalogID, e, a, m.Def()); err != nil {
				return err
			}
			metrics.AspectRouteTotal.WithLabelValues("generic").Inc()
		}
	}
	return nil
}

func (d *DAO) saveGenericAspect(ctx context.Context, tx *sql.Tx, catalogID uuid.UUID, e types.Entity, a aspect.Aspect, def *types.AspectDef) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO aspect (entity_id, aspect_def_id, catalog_id, hierarchy_name)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(entity_id, aspect_def_id, catalog_id) DO UPDATE SET hierarchy_name=excluded.hierarchy_name
	`, e.ID.String(), def.UUID.String(), catalogID.String(), def.Name); err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.saveGenericAspect", "upsert aspect row", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM property_value WHERE entity_id = ? AND aspect_def_id = ? AND catalog_id = ?
	`, e.ID.String(), def.UUID.String(), catalogID.String()); err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.saveGenericAspect", "clear property_value", err)
	}

	for _, name := range a.Names() {
		pd, ok := def.Properties.Get(name)
		if !ok {
			continue
		}
		v, err := a.ReadObj(name)
		if err != nil {
			return err
		}
		values := []any{v}
		if pd.Multivalued {
			items, _ := v.([]any)
			values = items
		}
		for idx, item := range values {
			text, binary, err := textForValue(item, pd.Type)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO property_value (entity_id, aspect_def_id, catalog_id, property_name, value_index, value_text, value_binary)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, e.ID.String(), def.UUID.String(), catalogID.String(), name, idx, text, binary); err != nil {
				return catalogerr.Wrap(catalogerr.KindStorage, "DAO.saveGenericAspect", "insert property_value", err)
			}
			metrics.RowsWritten.WithLabelValues("property_value").Inc()
		}
	}
	return nil
}

func (d *DAO) saveMappedAspect(ctx context.Context, tx *sql.Tx, catalogID uuid.UUID, e types.Entity, a aspect.Aspect, mapping *AspectTableMapping) error {
	var whereParts []string
	var whereArgs []any
	if mapping.Pattern.HasCatalogID() {
		whereParts = append(whereParts, "catalog_id = ?")
		whereArgs = append(whereArgs, catalogID.String())
	}
	if mapping.Pattern.HasEntityID() {
		whereParts = append(whereParts, "entity_id = ?")
		whereArgs = append(whereArgs, e.ID.String())
	}
	if len(whereParts) > 0 {
		deleteStmt := fmt.Sprintf("DELETE FROM %s WHERE %s", mapping.Table, joinAnd(whereParts))
		if _, err := tx.ExecContext(ctx, deleteStmt, whereArgs...); err != nil {
			return catalogerr.Wrap(catalogerr.KindStorage, "DAO.saveMappedAspect", "clear mapped row", err)
		}
	}

	var cols []string
	var placeholders []string
	var args []any
	if mapping.Pattern.HasCatalogID() {
		cols = append(cols, "catalog_id")
		placeholders = append(placeholders, "?")
		args = append(args, catalogID.String())
	}
	if mapping.Pattern.HasEntityID() {
		cols = append(cols, "entity_id")
		placeholders = append(placeholders, "?")
		args = append(args, e.ID.String())
	}
	for _, pd := range mapping.AspectDef.Properties.Defs() {
		col, ok := mapping.ColumnFor[pd.Name]
		if !ok {
			continue
		}
		v, err := a.ReadObj(pd.Name)
		if err != nil {
			return err
		}
		text, binary, err := textForValue(v, pd.Type)
		if err != nil {
			return err
		}
		cols = append(cols, col)
		placeholders = append(placeholders, "?")
		if pd.Type == value.BLOB {
			args = append(args, binary)
		} else {
			args = append(args, text)
		}
	}

	insertStmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", mapping.Table, joinComma(cols), joinComma(placeholders))
	if _, err := tx.ExecContext(ctx, insertStmt, args...); err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.saveMappedAspect", "insert mapped row", err)
	}
	metrics.RowsWritten.WithLabelValues(mapping.Table).Inc()
	return nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func joinComma(parts []string) string { return join(parts, ", ") }
func joinAnd(parts []string) string   { return join(parts, " AND ") }

func join(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}

// LoadCatalog reconstructs a Catalog from its persisted rows (spec.md
// §4.G "Load protocol"). AspectDefs are resolved through the DAO's
// Factory so an AspectDef shared by several catalogs is the same Go
// value across them; Entities are interned through Factory.Entities.
func (d *DAO) LoadCatalog(ctx context.Context, globalID uuid.UUID) (cat *catalog.Catalog, err error) {
	timer := metrics.NewTimer()
	defer func() {
		timer.ObserveDuration(metrics.LoadDuration)
		if err == nil {
			log.WithCatalogID(globalID.String()).Info().Msg("catalog loaded")
		}
	}()

	var species string
	var uriText, upstreamText sql.NullString
	var isStrict int
	var version uint64
	row := d.db.QueryRowContext(ctx, `
		SELECT species, uri, upstream_catalog_id, is_strict, version_number FROM catalog WHERE catalog_id = ?
	`, globalID.String())
	if err = row.Scan(&species, &uriText, &upstreamText, &isStrict, &version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalogerr.New(catalogerr.KindNotFound, "DAO.LoadCatalog", "no such catalog "+globalID.String())
		}
		return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.LoadCatalog", "query catalog row", err)
	}

	cfg := catalog.Config{
		GlobalID: globalID,
		Species:  types.Species(species),
		Version:  version,
	}
	if uriText.Valid {
		u := uriText.String
		cfg.URI = &u
	}
	if upstreamText.Valid {
		up, perr := uuid.Parse(upstreamText.String)
		if perr != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.LoadCatalog", "parse upstream_catalog_id", perr)
		}
		cfg.Upstream = &up
	}
	cfg.Def.Strict = isStrict != 0

	aspectDefs, err := d.loadAspectDefs(ctx, globalID)
	if err != nil {
		return nil, err
	}
	cfg.Def.AspectDefs = aspectDefs

	cat, err = catalog.New(cfg)
	if err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.LoadCatalog", "construct catalog", err)
	}

	if err = d.loadHierarchies(ctx, globalID, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (d *DAO) loadAspectDefs(ctx context.Context, catalogID uuid.UUID) ([]*types.AspectDef, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT ad.aspect_def_id, ad.name, ad.can_add_properties, ad.can_remove_properties, ad.is_readable, ad.is_writable
		FROM aspect_def ad
		JOIN catalog_aspect_def cad ON cad.aspect_def_id = ad.aspect_def_id
		WHERE cad.catalog_id = ?
	`, catalogID.String())
	if err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadAspectDefs", "query aspect_def", err)
	}
	defer rows.Close()

	var out []*types.AspectDef
	for rows.Next() {
		var idText, name string
		var canAdd, canRemove, readable, writable int
		if err := rows.Scan(&idText, &name, &canAdd, &canRemove, &readable, &writable); err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadAspectDefs", "scan aspect_def row", err)
		}
		if existing, ok := d.factory.AspectDefs.Resolve(name); ok {
			out = append(out, existing)
			continue
		}
		id, err := uuid.Parse(idText)
		if err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadAspectDefs", "parse aspect_def_id", err)
		}
		props, err := d.loadPropertyDefs(ctx, idText)
		if err != nil {
			return nil, err
		}
		ad := types.NewAspectDef(name, id, props, types.VariantFull)
		ad.SetMutability(canAdd != 0, canRemove != 0)
		ad.Readable = readable != 0
		ad.Writable = writable != 0
		d.factory.AspectDefs.Bind(ad)
		out = append(out, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadAspectDefs", "iterate aspect_def rows", err)
	}
	return out, nil
}

func (d *DAO) loadPropertyDefs(ctx context.Context, aspectDefID string) (*types.PropertyMap, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT name, property_type, default_value, has_default_value,
			is_readable, is_writable, is_nullable, is_removable, is_multivalued
		FROM property_def WHERE aspect_def_id = ? ORDER BY position
	`, aspectDefID)
	if err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadPropertyDefs", "query property_def", err)
	}
	defer rows.Close()

	var defs []types.PropertyDef
	for rows.Next() {
		var name, ptCode string
		var defaultText sql.NullString
		var hasDefault, readable, writable, nullable, removable, multivalued int
		if err := rows.Scan(&name, &ptCode, &defaultText, &hasDefault,
			&readable, &writable, &nullable, &removable, &multivalued); err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadPropertyDefs", "scan property_def row", err)
		}
		pt := value.PropertyType(ptCode)
		opts := []types.PropertyDefOption{}
		if readable == 0 {
			opts = append(opts, types.NotReadable())
		}
		if writable == 0 {
			opts = append(opts, types.NotWritable())
		}
		if nullable == 0 {
			opts = append(opts, types.NotNullable())
		}
		if removable == 0 {
			opts = append(opts, types.NotRemovable())
		}
		if multivalued != 0 {
			opts = append(opts, types.Multivalued())
		}
		if hasDefault != 0 && defaultText.Valid {
			dv, err := valueFromText(defaultText.String, nil, pt)
			if err != nil {
				return nil, err
			}
			opts = append(opts, types.WithDefault(dv))
		}
		pd, err := types.NewPropertyDef(name, pt, opts...)
		if err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadPropertyDefs", "rebuild property def "+name, err)
		}
		defs = append(defs, pd)
	}
	if err := rows.Err(); err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadPropertyDefs", "iterate property_def rows", err)
	}
	return types.NewPropertyMap(defs...)
}

func (d *DAO) loadHierarchies(ctx context.Context, catalogID uuid.UUID, cat *catalog.Catalog) error {
	rows, err := d.db.QueryContext(ctx, `
		SELECT name, hierarchy_type, is_modifiable FROM hierarchy WHERE catalog_id = ? ORDER BY hierarchy_order
	`, catalogID.String())
	if err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadHierarchies", "query hierarchy", err)
	}
	defer rows.Close()

	type hrow struct {
		name       string
		code       string
		modifiable bool
	}
	var hrows []hrow
	for rows.Next() {
		var name, code string
		var modifiable int
		if err := rows.Scan(&name, &code, &modifiable); err != nil {
			return catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadHierarchies", "scan hierarchy row", err)
		}
		hrows = append(hrows, hrow{name: name, code: code, modifiable: modifiable != 0})
	}
	if err := rows.Err(); err != nil {
		return catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadHierarchies", "iterate hierarchy rows", err)
	}

	for _, hr := range hrows {
		kind, err := types.HierarchyKindFromCode(hr.code)
		if err != nil {
			return catalogerr.Wrap(catalogerr.KindWireFormat, "DAO.loadHierarchies", "unknown hierarchy_type", err)
		}
		var h hierarchy.Hierarchy
		switch kind {
		case types.EntityList:
			h, err = d.loadList(ctx, catalogID, hr.name, hr.modifiable)
		case types.EntitySet:
			h, err = d.loadSet(ctx, catalogID, hr.name, hr.modifiable)
		case types.EntityDir:
			h, err = d.loadDir(ctx, catalogID, hr.name, hr.modifiable)
		case types.EntityTree:
			h, err = d.loadTree(ctx, catalogID, hr.name, hr.modifiable)
		case types.AspectMap:
			h, err = d.loadAspectMap(ctx, catalogID, hr.name, hr.modifiable)
		}
		if err != nil {
			return err
		}
		if err := cat.AddHierarchy(h); err != nil {
			return catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadHierarchies", "attach hierarchy "+hr.name, err)
		}
	}
	return nil
}

func (d *DAO) internEntity(id uuid.UUID) types.Entity {
	return d.factory.Entities.GetOrRegister(id)
}

func (d *DAO) loadList(ctx context.Context, catalogID uuid.UUID, name string, modifiable bool) (*hierarchy.List, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT entity_id FROM hierarchy_entity_list WHERE catalog_id = ? AND hierarchy_name = ? ORDER BY list_order
	`, catalogID.String(), name)
	if err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadList", "query rows", err)
	}
	defer rows.Close()

	l := hierarchy.NewList(name, true)
	for rows.Next() {
		var idText string
		if err := rows.Scan(&idText); err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadList", "scan row", err)
		}
		id, err := uuid.Parse(idText)
		if err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadList", "parse entity_id", err)
		}
		if err := l.Add(d.internEntity(id)); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	l.SetModifiable(modifiable)
	return l, nil
}

func (d *DAO) loadSet(ctx context.Context, catalogID uuid.UUID, name string, modifiable bool) (*hierarchy.Set, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT entity_id FROM hierarchy_entity_set WHERE catalog_id = ? AND hierarchy_name = ? ORDER BY set_order
	`, catalogID.String(), name)
	if err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadSet", "query rows", err)
	}
	defer rows.Close()

	s := hierarchy.NewSet(name, true)
	for rows.Next() {
		var idText string
		if err := rows.Scan(&idText); err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadSet", "scan row", err)
		}
		id, err := uuid.Parse(idText)
		if err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadSet", "parse entity_id", err)
		}
		if err := s.Add(d.internEntity(id)); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	s.SetModifiable(modifiable)
	return s, nil
}

func (d *DAO) loadDir(ctx context.Context, catalogID uuid.UUID, name string, modifiable bool) (*hierarchy.Dir, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT entity_key, entity_id FROM hierarchy_entity_directory
		WHERE catalog_id = ? AND hierarchy_name = ? ORDER BY dir_order
	`, catalogID.String(), name)
	if err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadDir", "query rows", err)
	}
	defer rows.Close()

	dir := hierarchy.NewDir(name, true)
	for rows.Next() {
		var key, idText string
		if err := rows.Scan(&key, &idText); err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadDir", "scan row", err)
		}
		id, err := uuid.Parse(idText)
		if err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadDir", "parse entity_id", err)
		}
		if err := dir.Put(key, d.internEntity(id)); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	dir.SetModifiable(modifiable)
	return dir, nil
}

func (d *DAO) loadTree(ctx context.Context, catalogID uuid.UUID, name string, modifiable bool) (*hierarchy.Tree, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT node_path, entity_id FROM hierarchy_entity_tree_node
		WHERE catalog_id = ? AND hierarchy_name = ? ORDER BY tree_order
	`, catalogID.String(), name)
	if err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadTree", "query rows", err)
	}
	defer rows.Close()

	type node struct {
		path string
		id   uuid.UUID
	}
	var nodes []node
	for rows.Next() {
		var path, idText string
		if err := rows.Scan(&path, &idText); err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadTree", "scan row", err)
		}
		id, err := uuid.Parse(idText)
		if err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadTree", "parse entity_id", err)
		}
		nodes = append(nodes, node{path: path, id: id})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, catalogerr.New(catalogerr.KindStorage, "DAO.loadTree", "tree "+name+" has no rows (missing root)")
	}

	tr := hierarchy.NewTree(name, true, d.internEntity(nodes[0].id))
	for _, n := range nodes[1:] {
		segments := splitPath(n.path)
		parentPath := segments[:len(segments)-1]
		key := segments[len(segments)-1]
		if err := tr.AddAtPath(parentPath, key, d.internEntity(n.id)); err != nil {
			return nil, err
		}
	}
	tr.SetModifiable(modifiable)
	return tr, nil
}

func (d *DAO) loadAspectMap(ctx context.Context, catalogID uuid.UUID, name string, modifiable bool) (*hierarchy.AspectMap, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT entity_id, aspect_def_id FROM hierarchy_aspect_map
		WHERE catalog_id = ? AND hierarchy_name = ? ORDER BY map_order
	`, catalogID.String(), name)
	if err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadAspectMap", "query rows", err)
	}
	defer rows.Close()

	var entries []aspectMapEntry
	for rows.Next() {
		var idText, aspectDefID string
		if err := rows.Scan(&idText, &aspectDefID); err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadAspectMap", "scan row", err)
		}
		id, err := uuid.Parse(idText)
		if err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadAspectMap", "parse entity_id", err)
		}
		entries = append(entries, aspectMapEntry{entityID: id, aspectDefID: aspectDefID})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	def := resolveAspectDefByID(d.factory, entries)
	if def == nil {
		return nil, catalogerr.New(catalogerr.KindNotFound, "DAO.loadAspectMap", "aspect def for hierarchy "+name+" not registered")
	}

	m := hierarchy.NewAspectMap(name, true, def)
	mapping, mapped := d.mappings.Lookup(def.Name)
	for _, e := range entries {
		entity := d.internEntity(e.entityID)
		var a aspect.Aspect
		var err error
		if mapped {
			a, err = d.loadMappedAspect(ctx, catalogID, entity, mapping)
		} else {
			a, err = d.loadGenericAspect(ctx, catalogID, entity, def)
		}
		if err != nil {
			return nil, err
		}
		if err := m.Put(entity, a); err != nil {
			return nil, err
		}
	}
	m.SetModifiable(modifiable)
	return m, nil
}

type aspectMapEntry struct {
	entityID    uuid.UUID
	aspectDefID string
}

// resolveAspectDefByID finds the AspectDef bound in the factory whose
// UUID matches one of entries; all entries in one AspectMap share the
// same aspect_def_id (spec.md §3: a hierarchy's ASPECT_MAP contents all
// share one AspectDef).
func resolveAspectDefByID(f *registry.Factory, entries []aspectMapEntry) *types.AspectDef {
	if len(entries) == 0 {
		return nil
	}
	for _, ad := range f.AspectDefs.All() {
		if ad.UUID.String() == entries[0].aspectDefID {
			return ad
		}
	}
	return nil
}

func (d *DAO) loadGenericAspect(ctx context.Context, catalogID uuid.UUID, e types.Entity, def *types.AspectDef) (aspect.Aspect, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT property_name, value_index, value_text, value_binary FROM property_value
		WHERE entity_id = ? AND aspect_def_id = ? AND catalog_id = ?
		ORDER BY property_name, value_index
	`, e.ID.String(), def.UUID.String(), catalogID.String())
	if err != nil {
		return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadGenericAspect", "query property_value", err)
	}
	defer rows.Close()

	raw := make(map[string][]string)
	rawBinary := make(map[string][][]byte)
	for rows.Next() {
		var name string
		var idx int
		var text sql.NullString
		var binary []byte
		if err := rows.Scan(&name, &idx, &text, &binary); err != nil {
			return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadGenericAspect", "scan property_value row", err)
		}
		raw[name] = append(raw[name], text.String)
		rawBinary[name] = append(rawBinary[name], binary)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var entries []aspect.Property
	for _, pd := range def.Properties.Defs() {
		texts, ok := raw[pd.Name]
		if !ok {
			if pd.Multivalued {
				entries = append(entries, aspect.Property{Def: pd, Value: []any{}})
			}
			continue
		}
		if pd.Multivalued {
			items := make([]any, 0, len(texts))
			for i, t := range texts {
				v, err := valueFromText(t, rawBinary[pd.Name][i], pd.Type)
				if err != nil {
					return nil, err
				}
				items = append(items, v)
			}
			entries = append(entries, aspect.Property{Def: pd, Value: items})
		} else {
			v, err := valueFromText(texts[0], rawBinary[pd.Name][0], pd.Type)
			if err != nil {
				return nil, err
			}
			entries = append(entries, aspect.Property{Def: pd, Value: v})
		}
	}
	return aspect.NewPropertyMapAspect(def, entries...), nil
}

func (d *DAO) loadMappedAspect(ctx context.Context, catalogID uuid.UUID, e types.Entity, mapping *AspectTableMapping) (aspect.Aspect, error) {
	var whereParts []string
	var whereArgs []any
	if mapping.Pattern.HasCatalogID() {
		whereParts = append(whereParts, "catalog_id = ?")
		whereArgs = append(whereArgs, catalogID.String())
	}
	if mapping.Pattern.HasEntityID() {
		whereParts = append(whereParts, "entity_id = ?")
		whereArgs = append(whereArgs, e.ID.String())
	}

	var cols []string
	var names []string
	for _, pd := range mapping.AspectDef.Properties.Defs() {
		col, ok := mapping.ColumnFor[pd.Name]
		if !ok {
			continue
		}
		cols = append(cols, col)
		names = append(names, pd.Name)
	}

	query := fmt.Sprintf("SELECT %s FROM %s", joinComma(cols), mapping.Table)
	if len(whereParts) > 0 {
		query += " WHERE " + joinAnd(whereParts)
	}
	row := d.db.QueryRowContext(ctx, query, whereArgs...)

	scanDest := make([]any, len(cols))
	rawValues := make([][]byte, len(cols))
	for i := range scanDest {
		scanDest[i] = &rawValues[i]
	}
	if err := row.Scan(scanDest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, catalogerr.New(catalogerr.KindNotFound, "DAO.loadMappedAspect",
				"no row in mapped table "+mapping.Table+" for entity "+e.ID.String())
		}
		return nil, catalogerr.Wrap(catalogerr.KindStorage, "DAO.loadMappedAspect", "scan mapped row", err)
	}

	var entries []aspect.Property
	for i, name := range names {
		pd, _ := mapping.AspectDef.Properties.Get(name)
		var v any
		var err error
		if pd.Type == value.BLOB {
			v, err = valueFromText("", rawValues[i], pd.Type)
		} else {
			v, err = valueFromText(string(rawValues[i]), nil, pd.Type)
		}
		if err != nil {
			return nil, err
		}
		entries = append(entries, aspect.Property{Def: pd, Value: v})
	}
	return aspect.NewPropertyMapAspect(mapping.AspectDef, entries...), nil
}

// DeleteCatalog removes a catalog's rows from every generic table and
// from every registered mapped table keyed by catalog_id; a mapped table
// without catalog_id is emptied only when its DeleteScope is Truncate
// (spec.md §4.G "Delete protocol", DESIGN.md Open Question 1). It
// reports whether a catalog row existed to delete.
func (d *DAO) DeleteCatalog(ctx context.Context, globalID uuid.UUID) (existed bool, err error) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.DeleteDuration)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return false, catalogerr.Wrap(catalogerr.KindStorage, "DAO.DeleteCatalog", "begin transaction", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM catalog WHERE catalog_id = ?`, globalID.String())
	if err != nil {
		return false, catalogerr.Wrap(catalogerr.KindStorage, "DAO.DeleteCatalog", "delete catalog row", err)
	}
	affected, _ := res.RowsAffected()
	existed = affected > 0

	genericTables := []string{
		"catalog_aspect_def", "hierarchy", "aspect", "property_value",
		"hierarchy_entity_list", "hierarchy_entity_set",
		"hierarchy_entity_directory", "hierarchy_entity_tree_node", "hierarchy_aspect_map",
	}
	for _, table := range genericTables {
		if _, err = tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE catalog_id = ?`, table), globalID.String()); err != nil {
			return false, catalogerr.Wrap(catalogerr.KindStorage, "DAO.DeleteCatalog", "clear "+table, err)
		}
	}

	for _, mapping := range d.mappings.All() {
		stmt := fmt.Sprintf(`DELETE FROM %s WHERE catalog_id = ?`, mapping.Table)
		args := []any{globalID.String()}
		if !mapping.Pattern.HasCatalogID() {
			if mapping.DeleteScope != DeleteScopeTruncate {
				continue
			}
			stmt, args = fmt.Sprintf(`DELETE FROM %s`, mapping.Table), nil
		}
		if _, err = tx.ExecContext(ctx, stmt, args...); err != nil {
			return false, catalogerr.Wrap(catalogerr.KindStorage, "DAO.DeleteCatalog", "clear mapped table "+mapping.Table, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return false, catalogerr.Wrap(catalogerr.KindTransactionAborted, "DAO.DeleteCatalog", "commit", err)
	}
	return existed, nil
}
