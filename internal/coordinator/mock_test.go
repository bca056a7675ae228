package coordinator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/johnwards/assocsync/internal/coordinator"
	"github.com/johnwards/assocsync/internal/hubspot"
	"github.com/johnwards/assocsync/internal/store"
	"github.com/johnwards/assocsync/internal/testhelpers"
)

// MockCRM records remote calls.
type MockCRM struct {
	mock.Mock
}

var _ coordinator.CRM = (*MockCRM)(nil)

func (m *MockCRM) CreateAssociation(ctx context.Context, customerID string, req *hubspot.SingleAssociationRequest) (*hubspot.AssociationResponse, error) {
	args := m.Called(ctx, customerID, req)
	res, _ := args.Get(0).(*hubspot.AssociationResponse)
	return res, args.Error(1)
}

func (m *MockCRM) CreateAssociations(ctx context.Context, customerID string, req *hubspot.BatchCreateRequest) (*hubspot.AssociationResponse, error) {
	args := m.Called(ctx, customerID, req)
	res, _ := args.Get(0).(*hubspot.AssociationResponse)
	return res, args.Error(1)
}

func (m *MockCRM) ArchiveAssociation(ctx context.Context, customerID, fromObjectType, fromID, toObjectType, toID string) error {
	args := m.Called(ctx, customerID, fromObjectType, fromID, toObjectType, toID)
	return args.Error(0)
}

func (m *MockCRM) ArchiveAssociations(ctx context.Context, customerID string, req *hubspot.BatchArchiveRequest) error {
	args := m.Called(ctx, customerID, req)
	return args.Error(0)
}

func (m *MockCRM) CreateDefinition(ctx context.Context, customerID string, req *hubspot.DefinitionCreateRequest) (*hubspot.LabelsResponse, error) {
	args := m.Called(ctx, customerID, req)
	res, _ := args.Get(0).(*hubspot.LabelsResponse)
	return res, args.Error(1)
}

func (m *MockCRM) UpdateDefinition(ctx context.Context, customerID string, req *hubspot.DefinitionUpdateRequest) (*hubspot.LabelsResponse, error) {
	args := m.Called(ctx, customerID, req)
	res, _ := args.Get(0).(*hubspot.LabelsResponse)
	return res, args.Error(1)
}

func (m *MockCRM) ArchiveDefinition(ctx context.Context, customerID, fromObjectType, toObjectType string, typeID int) error {
	args := m.Called(ctx, customerID, fromObjectType, toObjectType, typeID)
	return args.Error(0)
}

func (m *MockCRM) ListDefinitions(ctx context.Context, customerID, fromObjectType, toObjectType string) ([]hubspot.Label, error) {
	args := m.Called(ctx, customerID, fromObjectType, toObjectType)
	res, _ := args.Get(0).([]hubspot.Label)
	return res, args.Error(1)
}

func (m *MockCRM) CreateCardinality(ctx context.Context, customerID string, in hubspot.CardinalityInput) (*hubspot.CardinalityResponse, error) {
	args := m.Called(ctx, customerID, in)
	res, _ := args.Get(0).(*hubspot.CardinalityResponse)
	return res, args.Error(1)
}

func (m *MockCRM) UpdateCardinality(ctx context.Context, customerID string, in hubspot.CardinalityInput) (*hubspot.CardinalityResponse, error) {
	args := m.Called(ctx, customerID, in)
	res, _ := args.Get(0).(*hubspot.CardinalityResponse)
	return res, args.Error(1)
}

// setup returns services over a fresh database and a mock CRM that fails
// the test on unexpected calls.
func setup(t *testing.T) (*coordinator.Services, *store.Store, *MockCRM) {
	t.Helper()
	s := store.New(testhelpers.NewMigratedDB(t))
	crm := &MockCRM{}
	t.Cleanup(func() { crm.AssertExpectations(t) })
	return coordinator.New(s, crm), s, crm
}

func labels(typeIDs ...int) *hubspot.LabelsResponse {
	res := &hubspot.LabelsResponse{}
	for _, id := range typeIDs {
		res.Results = append(res.Results, hubspot.Label{Category: "USER_DEFINED", TypeID: id})
	}
	return res
}
