package database

// migrations is an ordered list of SQL migration groups. Each entry runs in a
// single transaction; its version is the 1-based index into this slice.
var migrations = [][]string{
	// Migration 1: association, definition and mapping tables
	{
		`CREATE TABLE associations (
			id TEXT PRIMARY KEY,
			object_type TEXT NOT NULL,
			object_id TEXT NOT NULL,
			to_object_type TEXT NOT NULL,
			to_object_id TEXT NOT NULL,
			association_label TEXT NOT NULL DEFAULT '',
			association_type_id INTEGER NOT NULL,
			association_category TEXT NOT NULL,
			customer_id TEXT NOT NULL,
			cardinality TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE(customer_id, to_object_id, object_id, association_label, association_type_id)
		)`,
		`CREATE INDEX idx_associations_types ON associations(customer_id, object_type, to_object_type)`,

		`CREATE TABLE association_definitions (
			id TEXT PRIMARY KEY,
			from_object_type TEXT NOT NULL,
			to_object_type TEXT NOT NULL,
			association_label TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL,
			inverse_label TEXT,
			association_type_id INTEGER,
			from_type_id INTEGER,
			to_type_id INTEGER,
			customer_id TEXT NOT NULL,
			cardinality TEXT NOT NULL DEFAULT '',
			from_max_objects INTEGER,
			to_max_objects INTEGER,
			association_category TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL,
			UNIQUE(customer_id, from_object_type, to_object_type, name)
		)`,
		`CREATE INDEX idx_definitions_types ON association_definitions(customer_id, from_object_type, to_object_type)`,

		`CREATE TABLE association_mappings (
			id TEXT PRIMARY KEY,
			native_association_id TEXT UNIQUE NOT NULL,
			native_object_id TEXT NOT NULL,
			to_native_object_id TEXT NOT NULL,
			from_object_type TEXT NOT NULL,
			to_object_type TEXT NOT NULL,
			from_hubspot_object_id TEXT NOT NULL,
			to_hubspot_object_id TEXT NOT NULL,
			native_association_label TEXT NOT NULL DEFAULT '',
			hubspot_association_label TEXT NOT NULL DEFAULT '',
			association_type_id INTEGER NOT NULL,
			association_category TEXT NOT NULL,
			cardinality TEXT NOT NULL DEFAULT '',
			customer_id TEXT NOT NULL,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
		`CREATE INDEX idx_mappings_type ON association_mappings(customer_id, association_type_id)`,
	},
}
