package crmfake_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnwards/assocsync/internal/crmfake"
	"github.com/johnwards/assocsync/internal/domain"
	"github.com/johnwards/assocsync/internal/hubspot"
	"github.com/johnwards/assocsync/internal/testhelpers"
)

const token = "test-token"

func setup(t *testing.T) (*crmfake.Server, *hubspot.Client) {
	t.Helper()
	fake := crmfake.New(token)
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	client := hubspot.New(hubspot.Options{
		BaseURL: srv.URL,
		Tokens:  hubspot.StaticTokens(token, nil),
	})
	return fake, client
}

func createLabel(t *testing.T, client *hubspot.Client, from, to, label string, inverse *string) []hubspot.Label {
	t.Helper()
	res, err := client.CreateDefinition(context.Background(), "cust-1", &hubspot.DefinitionCreateRequest{
		FromObject:  from,
		ToObject:    to,
		RequestInfo: hubspot.DefinitionInfo{Label: label, Name: label, InverseLabel: inverse},
	})
	require.NoError(t, err)
	return res.Results
}

func TestListSeededLabels(t *testing.T) {
	_, client := setup(t)

	labels, err := client.ListDefinitions(context.Background(), "cust-1", "contacts", "companies")
	require.NoError(t, err)

	ids := make([]int, 0, len(labels))
	for _, l := range labels {
		ids = append(ids, l.TypeID)
		assert.Equal(t, domain.Category("HUBSPOT_DEFINED"), l.Category)
	}
	assert.ElementsMatch(t, []int{1, 279}, ids)
}

func TestListLabelsAcceptsSingularAndTypeIDs(t *testing.T) {
	fake, _ := setup(t)
	assert.Len(t, fake.Labels("contact", "0-2"), 2)
	assert.Empty(t, fake.Labels("contacts", "widgets"))
}

func TestCreateLabelWithInverse(t *testing.T) {
	fake, client := setup(t)

	labels := createLabel(t, client, "contacts", "companies", "Manager", testhelpers.Ptr("Managed By"))
	require.Len(t, labels, 2)
	assert.Equal(t, "Manager", *labels[0].Label)
	assert.Equal(t, "Managed By", *labels[1].Label)
	assert.GreaterOrEqual(t, labels[0].TypeID, 1000)
	assert.Equal(t, labels[0].TypeID+1, labels[1].TypeID)

	var reverse []int
	for _, l := range fake.Labels("companies", "contacts") {
		reverse = append(reverse, l.TypeID)
	}
	assert.Contains(t, reverse, labels[1].TypeID)
}

func TestCreateLabelWithoutInverse(t *testing.T) {
	_, client := setup(t)
	labels := createLabel(t, client, "deals", "tickets", "Escalation", nil)
	assert.Len(t, labels, 1)
}

func TestCreateLabelDuplicateName(t *testing.T) {
	_, client := setup(t)
	createLabel(t, client, "deals", "tickets", "Escalation", nil)

	_, err := client.CreateDefinition(context.Background(), "cust-1", &hubspot.DefinitionCreateRequest{
		FromObject:  "deals",
		ToObject:    "tickets",
		RequestInfo: hubspot.DefinitionInfo{Label: "Other", Name: "Escalation"},
	})
	var apiErr *hubspot.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Category)
}

func TestUpdateAndDeleteLabel(t *testing.T) {
	fake, client := setup(t)
	ctx := context.Background()
	labels := createLabel(t, client, "contacts", "deals", "Buyer", testhelpers.Ptr("Bought By"))

	_, err := client.UpdateDefinition(ctx, "cust-1", &hubspot.DefinitionUpdateRequest{
		FromObject: "contacts",
		ToObject:   "deals",
		RequestInfo: hubspot.DefinitionUpdateInfo{
			Label:             "Decision Maker",
			AssociationTypeID: labels[0].TypeID,
			InverseLabel:      testhelpers.Ptr("Decided By"),
		},
	})
	require.NoError(t, err)

	var found, foundInverse bool
	for _, l := range fake.Labels("contacts", "deals") {
		if l.TypeID == labels[0].TypeID {
			found = *l.Label == "Decision Maker"
		}
	}
	for _, l := range fake.Labels("deals", "contacts") {
		if l.TypeID == labels[1].TypeID {
			foundInverse = *l.Label == "Decided By"
		}
	}
	assert.True(t, found)
	assert.True(t, foundInverse)

	require.NoError(t, client.ArchiveDefinition(ctx, "cust-1", "contacts", "deals", labels[0].TypeID))
	assert.Len(t, fake.Labels("contacts", "deals"), 1)
	assert.Len(t, fake.Labels("deals", "contacts"), 1)

	err = client.ArchiveDefinition(ctx, "cust-1", "contacts", "deals", labels[0].TypeID)
	var apiErr *hubspot.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestDeletePlatformLabelRejected(t *testing.T) {
	_, client := setup(t)
	err := client.ArchiveDefinition(context.Background(), "cust-1", "contacts", "companies", 279)
	var apiErr *hubspot.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
}

func TestAssociateAppliesInverse(t *testing.T) {
	fake, client := setup(t)
	ctx := context.Background()
	labels := createLabel(t, client, "contacts", "companies", "Manager", testhelpers.Ptr("Managed By"))

	res, err := client.CreateAssociation(ctx, "cust-1", &hubspot.SingleAssociationRequest{
		ObjectType:      "contacts",
		ObjectID:        "101",
		ToObjectType:    "companies",
		ToObjectID:      "201",
		AssociationType: []hubspot.TypeRef{{Category: domain.CategoryUserDefined, TypeID: labels[0].TypeID}},
	})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "0-1", res.Results[0].FromObjectTypeID)
	assert.Equal(t, hubspot.FlexID("201"), res.Results[0].ToObjectID)
	assert.Equal(t, []string{"Manager"}, res.Results[0].Labels)

	assert.Equal(t, []int{labels[0].TypeID}, fake.AssociationTypes("contacts", "101", "companies", "201"))
	assert.Equal(t, []int{labels[1].TypeID}, fake.AssociationTypes("companies", "201", "contacts", "101"))

	require.NoError(t, client.ArchiveAssociation(ctx, "cust-1", "contacts", "101", "companies", "201"))
	assert.Empty(t, fake.AssociationTypes("contacts", "101", "companies", "201"))
	assert.Empty(t, fake.AssociationTypes("companies", "201", "contacts", "101"))
}

func TestAssociateUnknownType(t *testing.T) {
	fake, client := setup(t)
	_, err := client.CreateAssociation(context.Background(), "cust-1", &hubspot.SingleAssociationRequest{
		ObjectType:      "contacts",
		ObjectID:        "101",
		ToObjectType:    "companies",
		ToObjectID:      "201",
		AssociationType: []hubspot.TypeRef{{Category: domain.CategoryUserDefined, TypeID: 9999}},
	})
	var apiErr *hubspot.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Empty(t, fake.AssociationTypes("contacts", "101", "companies", "201"))
}

func TestCardinalityLimitEnforced(t *testing.T) {
	fake, client := setup(t)
	ctx := context.Background()
	labels := createLabel(t, client, "contacts", "companies", "Owner", nil)

	res, err := client.CreateCardinality(ctx, "cust-1", hubspot.CardinalityInput{
		FromObjectType: "contacts",
		ToObjectType:   "companies",
		TypeID:         labels[0].TypeID,
		Category:       domain.CategoryUserDefined,
		MaxToObjectIDs: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "COMPLETE", res.Status)
	limit, ok := fake.Limit(labels[0].TypeID)
	require.True(t, ok)
	assert.Equal(t, 1, limit)

	ref := []hubspot.TypeRef{{Category: domain.CategoryUserDefined, TypeID: labels[0].TypeID}}
	_, err = client.CreateAssociation(ctx, "cust-1", &hubspot.SingleAssociationRequest{
		ObjectType: "contacts", ObjectID: "1", ToObjectType: "companies", ToObjectID: "10", AssociationType: ref,
	})
	require.NoError(t, err)
	_, err = client.CreateAssociation(ctx, "cust-1", &hubspot.SingleAssociationRequest{
		ObjectType: "contacts", ObjectID: "1", ToObjectType: "companies", ToObjectID: "11", AssociationType: ref,
	})
	require.Error(t, err)

	_, err = client.UpdateCardinality(ctx, "cust-1", hubspot.CardinalityInput{
		FromObjectType: "contacts",
		ToObjectType:   "companies",
		TypeID:         labels[0].TypeID,
		Category:       domain.CategoryUserDefined,
		MaxToObjectIDs: 2,
	})
	require.NoError(t, err)
	_, err = client.CreateAssociation(ctx, "cust-1", &hubspot.SingleAssociationRequest{
		ObjectType: "contacts", ObjectID: "1", ToObjectType: "companies", ToObjectID: "11", AssociationType: ref,
	})
	assert.NoError(t, err)
}

func TestUpdateCardinalityRequiresExistingLimit(t *testing.T) {
	_, client := setup(t)
	labels := createLabel(t, client, "contacts", "companies", "Owner", nil)

	_, err := client.UpdateCardinality(context.Background(), "cust-1", hubspot.CardinalityInput{
		FromObjectType: "contacts",
		ToObjectType:   "companies",
		TypeID:         labels[0].TypeID,
		MaxToObjectIDs: 2,
	})
	var apiErr *hubspot.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
}

func TestBatchCreateReportsPerInputErrors(t *testing.T) {
	fake, client := setup(t)
	ctx := context.Background()

	res, err := client.CreateAssociations(ctx, "cust-1", &hubspot.BatchCreateRequest{
		FromObjectType: "contacts",
		ToObjectType:   "companies",
		Inputs: []hubspot.BatchCreateInput{
			{From: hubspot.ObjectID{ID: "1"}, To: hubspot.ObjectID{ID: "10"}, Types: []hubspot.TypeRef{{Category: domain.CategoryPlatformDefined, TypeID: 279}}},
			{From: hubspot.ObjectID{ID: "2"}, To: hubspot.ObjectID{ID: "20"}, Types: []hubspot.TypeRef{{Category: domain.CategoryUserDefined, TypeID: 4242}}},
		},
	})
	require.NoError(t, err)
	assert.Len(t, res.Results, 1)
	assert.Equal(t, 1, res.NumErrors)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "VALIDATION_ERROR", res.Errors[0].Category)
	assert.Equal(t, []int{279}, fake.AssociationTypes("contacts", "1", "companies", "10"))

	err = client.ArchiveAssociations(ctx, "cust-1", &hubspot.BatchArchiveRequest{
		FromObjectType: "contacts",
		ToObjectType:   "companies",
		Inputs:         []hubspot.BatchArchiveInput{{From: hubspot.ObjectID{ID: "1"}, To: []hubspot.ObjectID{{ID: "10"}}}},
	})
	require.NoError(t, err)
	assert.Empty(t, fake.AssociationTypes("contacts", "1", "companies", "10"))
}

func TestRejectsWrongToken(t *testing.T) {
	fake := crmfake.New(token)
	srv := httptest.NewServer(fake.Handler())
	defer srv.Close()
	client := hubspot.New(hubspot.Options{BaseURL: srv.URL, Tokens: hubspot.StaticTokens("wrong", nil)})

	_, err := client.ListDefinitions(context.Background(), "cust-1", "contacts", "companies")
	var apiErr *hubspot.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "INVALID_AUTHENTICATION", apiErr.Category)
	assert.NotEmpty(t, apiErr.CorrelationID)
}

func TestFailNextFailsOnce(t *testing.T) {
	fake, client := setup(t)
	ctx := context.Background()
	fake.FailNext("GET /crm/v4/associations/{from}/{to}/labels", http.StatusBadGateway, "upstream unavailable")

	_, err := client.ListDefinitions(ctx, "cust-1", "contacts", "companies")
	var apiErr *hubspot.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "upstream unavailable", apiErr.Message)

	_, err = client.ListDefinitions(ctx, "cust-1", "contacts", "companies")
	assert.NoError(t, err)
	assert.Equal(t, 2, fake.Requests())
}

func TestResetRestoresSeededState(t *testing.T) {
	fake := crmfake.New("")
	srv := httptest.NewServer(fake.Handler())
	defer srv.Close()
	client := hubspot.New(hubspot.Options{BaseURL: srv.URL, Tokens: hubspot.StaticTokens("any", nil)})

	labels := createLabel(t, client, "contacts", "companies", "Manager", nil)
	require.Len(t, fake.Labels("contacts", "companies"), 3)

	resp, err := http.Post(srv.URL+"/_fakecrm/reset", "application/json", nil)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, fake.Labels("contacts", "companies"), 2)

	again := createLabel(t, client, "contacts", "companies", "Manager", nil)
	assert.Equal(t, labels[0].TypeID, again[0].TypeID)
}

func TestPlatformTypesAssociateBothWays(t *testing.T) {
	fake, client := setup(t)

	_, err := client.CreateAssociation(context.Background(), "cust-1", &hubspot.SingleAssociationRequest{
		ObjectType:      "contacts",
		ObjectID:        "1",
		ToObjectType:    "companies",
		ToObjectID:      "2",
		AssociationType: []hubspot.TypeRef{{Category: domain.CategoryPlatformDefined, TypeID: 279}},
	})
	require.NoError(t, err)
	assert.Equal(t, []int{280}, fake.AssociationTypes("companies", "2", "contacts", "1"))
}
