package store

import "database/sql"

// Store holds the local record stores.
type Store struct {
	DB           *sql.DB
	Associations AssociationStore
	Definitions  DefinitionStore
	Mappings     MappingStore
}

// New creates a Store with all sub-stores initialized.
func New(db *sql.DB) *Store {
	return &Store{
		DB:           db,
		Associations: NewSQLiteAssociationStore(db),
		Definitions:  NewSQLiteDefinitionStore(db),
		Mappings:     NewSQLiteMappingStore(db),
	}
}
