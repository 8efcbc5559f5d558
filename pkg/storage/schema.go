package storage

import (
	"context"
	"database/sql"

	"github.com/cuemby/catalogengine/pkg/value"
)

// genericSchema is the generic/fallback schema (spec.md §4.G "Schema
// (generic / fallback)"), issued as CREATE TABLE IF NOT EXISTS so
// repeated Open calls against an existing database are idempotent.
var genericSchema = []string{
	`CREATE TABLE IF NOT EXISTS entity (
		entity_id TEXT PRIMARY KEY
	)`,
	`CREATE TABLE IF NOT EXISTS catalog (
		catalog_id TEXT PRIMARY KEY,
		species TEXT NOT NULL,
		uri TEXT,
		upstream_catalog_id TEXT,
		is_strict INTEGER NOT NULL DEFAULT 0,
		version_number INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS aspect_def (
		aspect_def_id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		hash_version TEXT,
		can_add_properties INTEGER NOT NULL,
		can_remove_properties INTEGER NOT NULL,
		is_readable INTEGER NOT NULL,
		is_writable INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS property_def (
		aspect_def_id TEXT NOT NULL,
		name TEXT NOT NULL,
		property_type TEXT NOT NULL,
		default_value TEXT,
		has_default_value INTEGER NOT NULL,
		is_readable INTEGER NOT NULL,
		is_writable INTEGER NOT NULL,
		is_nullable INTEGER NOT NULL,
		is_removable INTEGER NOT NULL,
		is_multivalued INTEGER NOT NULL,
		position INTEGER NOT NULL,
		PRIMARY KEY (aspect_def_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS catalog_aspect_def (
		catalog_id TEXT NOT NULL,
		aspect_def_id TEXT NOT NULL,
		PRIMARY KEY (catalog_id, aspect_def_id)
	)`,
	`CREATE TABLE IF NOT EXISTS hierarchy (
		catalog_id TEXT NOT NULL,
		name TEXT NOT NULL,
		hierarchy_type TEXT NOT NULL,
		is_modifiable INTEGER NOT NULL,
		version_number INTEGER NOT NULL,
		hierarchy_order INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (catalog_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS aspect (
		entity_id TEXT NOT NULL,
		aspect_def_id TEXT NOT NULL,
		catalog_id TEXT NOT NULL,
		hierarchy_name TEXT NOT NULL,
		PRIMARY KEY (entity_id, aspect_def_id, catalog_id)
	)`,
	`CREATE TABLE IF NOT EXISTS property_value (
		entity_id TEXT NOT NULL,
		aspect_def_id TEXT NOT NULL,
		catalog_id TEXT NOT NULL,
		property_name TEXT NOT NULL,
		value_index INTEGER NOT NULL,
		value_text TEXT,
		value_binary BLOB,
		PRIMARY KEY (entity_id, aspect_def_id, catalog_id, property_name, value_index)
	)`,
	`CREATE TABLE IF NOT EXISTS hierarchy_entity_list (
		catalog_id TEXT NOT NULL,
		hierarchy_name TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		list_order INTEGER NOT NULL,
		PRIMARY KEY (catalog_id, hierarchy_name, list_order)
	)`,
	`CREATE TABLE IF NOT EXISTS hierarchy_entity_set (
		catalog_id TEXT NOT NULL,
		hierarchy_name TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		set_order INTEGER NOT NULL,
		PRIMARY KEY (catalog_id, hierarchy_name, entity_id)
	)`,
	`CREATE TABLE IF NOT EXISTS hierarchy_entity_directory (
		catalog_id TEXT NOT NULL,
		hierarchy_name TEXT NOT NULL,
		entity_key TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		dir_order INTEGER NOT NULL,
		PRIMARY KEY (catalog_id, hierarchy_name, entity_key)
	)`,
	`CREATE TABLE IF NOT EXISTS hierarchy_entity_tree_node (
		catalog_id TEXT NOT NULL,
		hierarchy_name TEXT NOT NULL,
		node_id TEXT NOT NULL,
		parent_node_id TEXT,
		node_key TEXT,
		entity_id TEXT NOT NULL,
		node_path TEXT NOT NULL,
		tree_order INTEGER NOT NULL,
		PRIMARY KEY (catalog_id, hierarchy_name, node_id)
	)`,
	`CREATE TABLE IF NOT EXISTS hierarchy_aspect_map (
		catalog_id TEXT NOT NULL,
		hierarchy_name TEXT NOT NULL,
		entity_id TEXT NOT NULL,
		aspect_def_id TEXT NOT NULL,
		map_order INTEGER NOT NULL,
		PRIMARY KEY (catalog_id, hierarchy_name, entity_id)
	)`,
}

// EnsureSchema issues every generic-schema CREATE TABLE IF NOT EXISTS
// statement (spec.md §4.G). Safe to call on every Open.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range genericSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// sqlColumnType returns the dialect's column-type string for pt (spec.md
// §4.G "SQL dialect contract"). sqlite3 does not enforce declared column
// affinity strictly, but the DAO still declares faithful types for
// portability to a stricter dialect.
func sqlColumnType(pt value.PropertyType) string {
	switch pt {
	case value.Integer:
		return "BIGINT"
	case value.Float:
		return "DOUBLE"
	case value.Boolean:
		return "BOOLEAN"
	case value.String:
		return "VARCHAR(255)"
	case value.Text, value.CLOB:
		return "TEXT"
	case value.BigInteger, value.BigDecimal:
		return "VARCHAR(128)"
	case value.DateTime:
		return "VARCHAR(64)"
	case value.URI:
		return "VARCHAR(2048)"
	case value.UUID:
		return "CHAR(36)"
	case value.BLOB:
		return "BLOB"
	default:
		return "TEXT"
	}
}
