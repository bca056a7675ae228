package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/johnwards/assocsync/internal/domain"
)

// AssociationStore defines the interface for association persistence.
type AssociationStore interface {
	Get(ctx context.Context, id string) (*domain.Association, error)
	GetByKey(ctx context.Context, key domain.AssociationKey) (*domain.Association, error)
	GetMany(ctx context.Context, ids []string) ([]domain.Association, error)
	Find(ctx context.Context, filter domain.AssociationFilter) ([]domain.Association, error)
	Upsert(ctx context.Context, a *domain.Association) (*domain.Association, error)
	Delete(ctx context.Context, id string) (*domain.Association, error)
	DeleteMany(ctx context.Context, ids []string) ([]domain.Association, error)
}

// SQLiteAssociationStore implements AssociationStore backed by SQLite.
type SQLiteAssociationStore struct {
	db *sql.DB
}

// NewSQLiteAssociationStore creates a new SQLiteAssociationStore.
func NewSQLiteAssociationStore(db *sql.DB) *SQLiteAssociationStore {
	return &SQLiteAssociationStore{db: db}
}

const associationColumns = `id, object_type, object_id, to_object_type, to_object_id, association_label,
	association_type_id, association_category, customer_id, cardinality, created_at, updated_at`

func scanAssociation(row scanner) (*domain.Association, error) {
	var a domain.Association
	err := row.Scan(&a.ID, &a.ObjectType, &a.ObjectID, &a.ToObjectType, &a.ToObjectID, &a.AssociationLabel,
		&a.AssociationTypeID, &a.AssociationCategory, &a.CustomerID, &a.Cardinality, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func collectAssociations(rows *sql.Rows) ([]domain.Association, error) {
	defer func() { _ = rows.Close() }()
	var out []domain.Association
	for rows.Next() {
		a, err := scanAssociation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan association: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}

// Get returns the association with the given ID.
func (s *SQLiteAssociationStore) Get(ctx context.Context, id string) (*domain.Association, error) {
	a, err := scanAssociation(s.db.QueryRowContext(ctx,
		`SELECT `+associationColumns+` FROM associations WHERE id = ?`, id))
	if err != nil {
		return nil, classify(fmt.Sprintf("get association %s", id), err)
	}
	return a, nil
}

// GetByKey returns the association with the given unique upsert key.
func (s *SQLiteAssociationStore) GetByKey(ctx context.Context, key domain.AssociationKey) (*domain.Association, error) {
	a, err := scanAssociation(s.db.QueryRowContext(ctx,
		`SELECT `+associationColumns+` FROM associations
		 WHERE customer_id = ? AND to_object_id = ? AND object_id = ? AND association_label = ? AND association_type_id = ?`,
		key.CustomerID, key.ToObjectID, key.ObjectID, key.AssociationLabel, key.AssociationTypeID))
	if err != nil {
		return nil, classify("get association by key", err)
	}
	return a, nil
}

// GetMany returns the associations with the given IDs. Unknown IDs are skipped.
func (s *SQLiteAssociationStore) GetMany(ctx context.Context, ids []string) ([]domain.Association, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+associationColumns+` FROM associations WHERE id IN (`+placeholders(len(ids))+`) ORDER BY created_at, id`,
		stringArgs(ids)...)
	if err != nil {
		return nil, classify("get associations", err)
	}
	return collectAssociations(rows)
}

// Find returns the associations matching filter.
func (s *SQLiteAssociationStore) Find(ctx context.Context, filter domain.AssociationFilter) ([]domain.Association, error) {
	var conds []string
	var args []any
	if filter.CustomerID != "" {
		conds = append(conds, "customer_id = ?")
		args = append(args, filter.CustomerID)
	}
	if filter.ObjectType != "" {
		conds = append(conds, "object_type = ? COLLATE NOCASE")
		args = append(args, filter.ObjectType)
	}
	if filter.ToObjectType != "" {
		conds = append(conds, "to_object_type = ? COLLATE NOCASE")
		args = append(args, filter.ToObjectType)
	}
	if filter.AssociationTypeID != 0 {
		conds = append(conds, "association_type_id = ?")
		args = append(args, filter.AssociationTypeID)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+associationColumns+` FROM associations`+where(conds)+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, classify("find associations", err)
	}
	return collectAssociations(rows)
}

// Upsert inserts a or, when its unique key already exists, updates the
// existing row in place. The stored record is returned.
func (s *SQLiteAssociationStore) Upsert(ctx context.Context, a *domain.Association) (*domain.Association, error) {
	ts := now()
	id := a.ID
	if id == "" {
		id = newID()
	}
	var storedID string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO associations (`+associationColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(customer_id, to_object_id, object_id, association_label, association_type_id) DO UPDATE SET
			object_type = excluded.object_type,
			to_object_type = excluded.to_object_type,
			association_category = excluded.association_category,
			cardinality = excluded.cardinality,
			updated_at = excluded.updated_at
		 RETURNING id`,
		id, a.ObjectType, a.ObjectID, a.ToObjectType, a.ToObjectID, a.AssociationLabel,
		a.AssociationTypeID, a.AssociationCategory, a.CustomerID, a.Cardinality, ts, ts,
	).Scan(&storedID)
	if err != nil {
		return nil, classify("upsert association", err)
	}
	return s.Get(ctx, storedID)
}

// Delete removes the association with the given ID and returns it.
func (s *SQLiteAssociationStore) Delete(ctx context.Context, id string) (*domain.Association, error) {
	a, err := scanAssociation(s.db.QueryRowContext(ctx,
		`DELETE FROM associations WHERE id = ? RETURNING `+associationColumns, id))
	if err != nil {
		return nil, classify(fmt.Sprintf("delete association %s", id), err)
	}
	return a, nil
}

// DeleteMany removes the associations with the given IDs in one transaction.
// Unknown IDs are skipped; the deleted records are returned.
func (s *SQLiteAssociationStore) DeleteMany(ctx context.Context, ids []string) ([]domain.Association, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var deleted []domain.Association
	err := inTx(ctx, s.db, "delete associations", func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx,
			`DELETE FROM associations WHERE id IN (`+placeholders(len(ids))+`) RETURNING `+associationColumns,
			stringArgs(ids)...)
		if err != nil {
			return classify("delete associations", err)
		}
		deleted, err = collectAssociations(rows)
		return classify("delete associations", err)
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
