package store_test

import (
	"context"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/assocsync/internal/domain"
	"github.com/johnwards/assocsync/internal/store"
	"github.com/johnwards/assocsync/internal/testhelpers"
)

func setupAssocStore(t *testing.T) (*store.SQLiteAssociationStore, context.Context) {
	t.Helper()
	return store.NewSQLiteAssociationStore(testhelpers.NewMigratedDB(t)), context.Background()
}

func contactToCompany(objectID, toObjectID string) *domain.Association {
	return &domain.Association{
		ObjectType:          "contact",
		ObjectID:            objectID,
		ToObjectType:        "company",
		ToObjectID:          toObjectID,
		AssociationLabel:    "Primary Contact",
		AssociationTypeID:   1,
		AssociationCategory: domain.CategoryUserDefined,
		CustomerID:          "cust-1",
		Cardinality:         domain.ManyToOne,
	}
}

func TestAssociationUpsertAndGet(t *testing.T) {
	s, ctx := setupAssocStore(t)

	saved, err := s.Upsert(ctx, contactToCompany("c1", "co1"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.NotEmpty(t, saved.CreatedAt)

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
}

func TestAssociationUpsertSameKeyUpdatesInPlace(t *testing.T) {
	s, ctx := setupAssocStore(t)

	first, err := s.Upsert(ctx, contactToCompany("c1", "co1"))
	require.NoError(t, err)

	again := contactToCompany("c1", "co1")
	again.Cardinality = domain.OneToOne
	second, err := s.Upsert(ctx, again)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, domain.OneToOne, second.Cardinality)

	all, err := s.Find(ctx, domain.AssociationFilter{CustomerID: "cust-1"})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestAssociationRoundTripByKey(t *testing.T) {
	s, ctx := setupAssocStore(t)

	properties := gopter.NewProperties(nil)
	properties.Property("upsert then get by key returns the same record", prop.ForAll(
		func(objectID, toObjectID, label string, typeID int) bool {
			in := contactToCompany(objectID, toObjectID)
			in.AssociationLabel = label
			in.AssociationTypeID = typeID

			saved, err := s.Upsert(ctx, in)
			if err != nil {
				return false
			}
			got, err := s.GetByKey(ctx, in.Key())
			if err != nil {
				return false
			}

			in.ID, in.CreatedAt, in.UpdatedAt = got.ID, got.CreatedAt, got.UpdatedAt
			return *got == *in && got.ID == saved.ID
		},
		gen.Identifier(),
		gen.Identifier(),
		gen.AlphaString(),
		gen.IntRange(1, 10000),
	))
	properties.TestingRun(t)
}

func TestAssociationGetNotFound(t *testing.T) {
	s, ctx := setupAssocStore(t)

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAssociationFindIsCaseInsensitive(t *testing.T) {
	s, ctx := setupAssocStore(t)

	_, err := s.Upsert(ctx, contactToCompany("c1", "co1"))
	require.NoError(t, err)
	other := contactToCompany("c2", "d1")
	other.ToObjectType = "deal"
	_, err = s.Upsert(ctx, other)
	require.NoError(t, err)

	found, err := s.Find(ctx, domain.AssociationFilter{ObjectType: "CONTACT", ToObjectType: "Company"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "co1", found[0].ToObjectID)
}

func TestAssociationDelete(t *testing.T) {
	s, ctx := setupAssocStore(t)

	saved, err := s.Upsert(ctx, contactToCompany("c1", "co1"))
	require.NoError(t, err)

	deleted, err := s.Delete(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.ID, deleted.ID)

	_, err = s.Delete(ctx, saved.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAssociationDeleteMany(t *testing.T) {
	s, ctx := setupAssocStore(t)

	a, err := s.Upsert(ctx, contactToCompany("c1", "co1"))
	require.NoError(t, err)
	b, err := s.Upsert(ctx, contactToCompany("c2", "co1"))
	require.NoError(t, err)
	_, err = s.Upsert(ctx, contactToCompany("c3", "co1"))
	require.NoError(t, err)

	deleted, err := s.DeleteMany(ctx, []string{a.ID, b.ID, "unknown"})
	require.NoError(t, err)
	assert.Len(t, deleted, 2)

	left, err := s.GetMany(ctx, []string{a.ID, b.ID})
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestStoreUnavailableAfterClose(t *testing.T) {
	db := testhelpers.NewMigratedDB(t)
	s := store.NewSQLiteAssociationStore(db)
	require.NoError(t, db.Close())

	_, err := s.Get(context.Background(), "any")
	assert.ErrorIs(t, err, store.ErrUnavailable)
}
