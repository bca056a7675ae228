package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/johnwards/assocsync/internal/domain"
)

// MappingStore defines the interface for association mapping persistence.
type MappingStore interface {
	Get(ctx context.Context, id string) (*domain.Mapping, error)
	GetByAssociation(ctx context.Context, nativeAssociationID string) (*domain.Mapping, error)
	GetMany(ctx context.Context, ids []string) ([]domain.Mapping, error)
	Find(ctx context.Context, filter domain.MappingFilter) ([]domain.Mapping, error)
	Upsert(ctx context.Context, m *domain.Mapping) (*domain.Mapping, error)
	UpsertMany(ctx context.Context, ms []domain.Mapping) ([]domain.Mapping, error)
	Delete(ctx context.Context, id string) (*domain.Mapping, error)
	DeleteMany(ctx context.Context, ids []string) ([]domain.Mapping, error)
}

// SQLiteMappingStore implements MappingStore backed by SQLite.
type SQLiteMappingStore struct {
	db *sql.DB
}

// NewSQLiteMappingStore creates a new SQLiteMappingStore.
func NewSQLiteMappingStore(db *sql.DB) *SQLiteMappingStore {
	return &SQLiteMappingStore{db: db}
}

const mappingColumns = `id, native_association_id, native_object_id, to_native_object_id, from_object_type,
	to_object_type, from_hubspot_object_id, to_hubspot_object_id, native_association_label,
	hubspot_association_label, association_type_id, association_category, cardinality, customer_id,
	created_at, updated_at`

func scanMapping(row scanner) (*domain.Mapping, error) {
	var m domain.Mapping
	err := row.Scan(&m.ID, &m.NativeAssociationID, &m.NativeObjectID, &m.ToNativeObjectID, &m.FromObjectType,
		&m.ToObjectType, &m.FromHubSpotObjectID, &m.ToHubSpotObjectID, &m.NativeAssociationLabel,
		&m.HubSpotAssociationLabel, &m.AssociationTypeID, &m.AssociationCategory, &m.Cardinality, &m.CustomerID,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMappings(rows *sql.Rows) ([]domain.Mapping, error) {
	defer func() { _ = rows.Close() }()
	var out []domain.Mapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		out = append(out, *m)
	}
	return out, rows.Err()
}

// Get returns the mapping with the given ID.
func (s *SQLiteMappingStore) Get(ctx context.Context, id string) (*domain.Mapping, error) {
	m, err := scanMapping(s.db.QueryRowContext(ctx,
		`SELECT `+mappingColumns+` FROM association_mappings WHERE id = ?`, id))
	if err != nil {
		return nil, classify(fmt.Sprintf("get mapping %s", id), err)
	}
	return m, nil
}

// GetByAssociation returns the mapping owned by the given local association.
func (s *SQLiteMappingStore) GetByAssociation(ctx context.Context, nativeAssociationID string) (*domain.Mapping, error) {
	m, err := scanMapping(s.db.QueryRowContext(ctx,
		`SELECT `+mappingColumns+` FROM association_mappings WHERE native_association_id = ?`, nativeAssociationID))
	if err != nil {
		return nil, classify(fmt.Sprintf("get mapping for association %s", nativeAssociationID), err)
	}
	return m, nil
}

// GetMany returns the mappings with the given IDs. Unknown IDs are skipped.
func (s *SQLiteMappingStore) GetMany(ctx context.Context, ids []string) ([]domain.Mapping, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+mappingColumns+` FROM association_mappings WHERE id IN (`+placeholders(len(ids))+`) ORDER BY created_at, id`,
		stringArgs(ids)...)
	if err != nil {
		return nil, classify("get mappings", err)
	}
	return collectMappings(rows)
}

// Find returns the mappings matching filter.
func (s *SQLiteMappingStore) Find(ctx context.Context, filter domain.MappingFilter) ([]domain.Mapping, error) {
	var conds []string
	var args []any
	if filter.CustomerID != "" {
		conds = append(conds, "customer_id = ?")
		args = append(args, filter.CustomerID)
	}
	if len(filter.TypeIDs) > 0 {
		conds = append(conds, "association_type_id IN ("+placeholders(len(filter.TypeIDs))+")")
		for _, id := range filter.TypeIDs {
			args = append(args, id)
		}
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
		`SELECT `+mappingColumns+` FROM association_mappings`+where(conds)+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, classify("find mappings", err)
	}
	return collectMappings(rows)
}

func upsertMapping(ctx context.Context, q querier, m *domain.Mapping, ts string) (string, error) {
	id := m.ID
	if id == "" {
		id = newID()
	}
	var storedID string
	err := q.QueryRowContext(ctx,
		`INSERT INTO association_mappings (`+mappingColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(native_association_id) DO UPDATE SET
			native_object_id = excluded.native_object_id,
			to_native_object_id = excluded.to_native_object_id,
			from_object_type = excluded.from_object_type,
			to_object_type = excluded.to_object_type,
			from_hubspot_object_id = excluded.from_hubspot_object_id,
			to_hubspot_object_id = excluded.to_hubspot_object_id,
			native_association_label = excluded.native_association_label,
			hubspot_association_label = excluded.hubspot_association_label,
			association_type_id = excluded.association_type_id,
			association_category = excluded.association_category,
			cardinality = excluded.cardinality,
			customer_id = excluded.customer_id,
			updated_at = excluded.updated_at
		 RETURNING id`,
		id, m.NativeAssociationID, m.NativeObjectID, m.ToNativeObjectID, m.FromObjectType, m.ToObjectType,
		m.FromHubSpotObjectID, m.ToHubSpotObjectID, m.NativeAssociationLabel, m.HubSpotAssociationLabel,
		m.AssociationTypeID, m.AssociationCategory, m.Cardinality, m.CustomerID, ts, ts,
	).Scan(&storedID)
	return storedID, err
}

// Upsert inserts m or updates the mapping of the same native association.
func (s *SQLiteMappingStore) Upsert(ctx context.Context, m *domain.Mapping) (*domain.Mapping, error) {
	id, err := upsertMapping(ctx, s.db, m, now())
	if err != nil {
		return nil, classify("upsert mapping", err)
	}
	return s.Get(ctx, id)
}

// UpsertMany upserts all mappings in one transaction.
func (s *SQLiteMappingStore) UpsertMany(ctx context.Context, ms []domain.Mapping) ([]domain.Mapping, error) {
	if len(ms) == 0 {
		return nil, nil
	}
	ids := make([]string, 0, len(ms))
	ts := now()
	err := inTx(ctx, s.db, "upsert mappings", func(tx *sql.Tx) error {
		for i := range ms {
			id, err := upsertMapping(ctx, tx, &ms[i], ts)
			if err != nil {
				return classify(fmt.Sprintf("upsert mapping %s", ms[i].NativeAssociationID), err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetMany(ctx, ids)
}

// Delete removes the mapping with the given ID and returns it.
func (s *SQLiteMappingStore) Delete(ctx context.Context, id string) (*domain.Mapping, error) {
	m, err := scanMapping(s.db.QueryRowContext(ctx,
		`DELETE FROM association_mappings WHERE id = ? RETURNING `+mappingColumns, id))
	if err != nil {
		return nil, classify(fmt.Sprintf("delete mapping %s", id), err)
	}
	return m, nil
}

// DeleteMany removes the mappings with the given IDs in one transaction.
// Unknown IDs are skipped; the deleted records are returned.
func (s *SQLiteMappingStore) DeleteMany(ctx context.Context, ids []string) ([]domain.Mapping, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var deleted []domain.Mapping
	err := inTx(ctx, s.db, "delete mappings", func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`DELETE FROM association_mappings WHERE id IN (`+placeholders(len(ids))+`) RETURNING `+mappingColumns,
			stringArgs(ids)...)
		if err != nil {
			return classify("delete mappings", err)
		}
		deleted, err = collectMappings(rows)
		return classify("delete mappings", err)
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
