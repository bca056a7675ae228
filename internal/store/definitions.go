package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/johnwards/assocsync/internal/domain"
)

// DefinitionStore defines the interface for association definition persistence.
type DefinitionStore interface {
	Get(ctx context.Context, id string) (*domain.Definition, error)
	Find(ctx context.Context, filter domain.DefinitionFilter) ([]domain.Definition, error)
	Upsert(ctx context.Context, d *domain.Definition) (*domain.Definition, error)
	Delete(ctx context.Context, id string) (*domain.Definition, error)
}

// SQLiteDefinitionStore implements DefinitionStore backed by SQLite.
type SQLiteDefinitionStore struct {
	db *sql.DB
}

// NewSQLiteDefinitionStore creates a new SQLiteDefinitionStore.
func NewSQLiteDefinitionStore(db *sql.DB) *SQLiteDefinitionStore {
	return &SQLiteDefinitionStore{db: db}
}

const definitionColumns = `id, from_object_type, to_object_type, association_label, name, inverse_label,
	association_type_id, from_type_id, to_type_id, customer_id, cardinality, from_max_objects, to_max_objects,
	association_category, created_at, updated_at`

func scanDefinition(row scanner) (*domain.Definition, error) {
	var d domain.Definition
	var inverse sql.NullString
	var assocTypeID, fromTypeID, toTypeID, fromMax, toMax sql.NullInt64
	err := row.Scan(&d.ID, &d.FromObjectType, &d.ToObjectType, &d.AssociationLabel, &d.Name, &inverse,
		&assocTypeID, &fromTypeID, &toTypeID, &d.CustomerID, &d.Cardinality, &fromMax, &toMax,
		&d.AssociationCategory, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	d.InverseLabel = stringPtr(inverse)
	d.Kind = domain.KindFromColumns(intPtr(assocTypeID), intPtr(fromTypeID), intPtr(toTypeID))
	d.FromMaxObjects = intPtr(fromMax)
	d.ToMaxObjects = intPtr(toMax)
	return &d, nil
}

// Get returns the definition with the given ID.
func (s *SQLiteDefinitionStore) Get(ctx context.Context, id string) (*domain.Definition, error) {
	d, err := scanDefinition(s.db.QueryRowContext(ctx,
		`SELECT `+definitionColumns+` FROM association_definitions WHERE id = ?`, id))
	if err != nil {
		return nil, classify(fmt.Sprintf("get definition %s", id), err)
	}
	return d, nil
}

// Find returns the definitions matching filter, oldest first.
func (s *SQLiteDefinitionStore) Find(ctx context.Context, filter domain.DefinitionFilter) ([]domain.Definition, error) {
	var conds []string
	var args []any
	if filter.CustomerID != "" {
		conds = append(conds, "customer_id = ?")
		args = append(args, filter.CustomerID)
	}
	if filter.FromObjectType != "" {
		conds = append(conds, "from_object_type = ? COLLATE NOCASE")
		args = append(args, filter.FromObjectType)
	}
	if filter.ToObjectType != "" {
		conds = append(conds, "to_object_type = ? COLLATE NOCASE")
		args = append(args, filter.ToObjectType)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+definitionColumns+` FROM association_definitions`+where(conds)+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, classify("find definitions", err)
	}
	defer func() { _ = rows.Close() }()

	var out []domain.Definition
	for rows.Next() {
		d, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scan definition: %w", err)
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// Upsert inserts d, or replaces the stored definition with the same ID.
// A different definition with the same customer, object types and name
// yields ErrConflict.
func (s *SQLiteDefinitionStore) Upsert(ctx context.Context, d *domain.Definition) (*domain.Definition, error) {
	ts := now()
	id := d.ID
	if id == "" {
		id = newID()
	}
	assocTypeID, fromTypeID, toTypeID := d.TypeColumns()

	var storedID string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO association_definitions (`+definitionColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			from_object_type = excluded.from_object_type,
			to_object_type = excluded.to_object_type,
			association_label = excluded.association_label,
			name = excluded.name,
			inverse_label = excluded.inverse_label,
			association_type_id = excluded.association_type_id,
			from_type_id = excluded.from_type_id,
			to_type_id = excluded.to_type_id,
			cardinality = excluded.cardinality,
			from_max_objects = excluded.from_max_objects,
			to_max_objects = excluded.to_max_objects,
			association_category = excluded.association_category,
			updated_at = excluded.updated_at
		 RETURNING id`,
		id, d.FromObjectType, d.ToObjectType, d.AssociationLabel, d.Name, nullString(d.InverseLabel),
		nullInt(assocTypeID), nullInt(fromTypeID), nullInt(toTypeID), d.CustomerID, d.Cardinality,
		nullInt(d.FromMaxObjects), nullInt(d.ToMaxObjects), d.AssociationCategory, ts, ts,
	).Scan(&storedID)
	if err != nil {
		return nil, classify("upsert definition", err)
	}
	return s.Get(ctx, storedID)
}

// Delete removes the definition with the given ID and returns it.
func (s *SQLiteDefinitionStore) Delete(ctx context.Context, id string) (*domain.Definition, error) {
	d, err := scanDefinition(s.db.QueryRowContext(ctx,
		`DELETE FROM association_definitions WHERE id = ? RETURNING `+definitionColumns, id))
	if err != nil {
		return nil, classify(fmt.Sprintf("delete definition %s", id), err)
	}
	return d, nil
}
