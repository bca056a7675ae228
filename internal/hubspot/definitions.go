package hubspot

import (
	"context"
	"net/http"
	"strconv"
)

// CreateDefinition registers an association label between two object types.
// The CRM answers with one label for a one-directional definition and two
// for a definition with an inverse label.
func (c *Client) CreateDefinition(ctx context.Context, customerID string, req *DefinitionCreateRequest) (*LabelsResponse, error) {
	var res LabelsResponse
	p := path("crm", "v4", "associations", req.FromObject, req.ToObject, "labels")
	if err := c.do(ctx, customerID, "create definition", http.MethodPost, p, req.RequestInfo, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// UpdateDefinition renames an existing association label.
func (c *Client) UpdateDefinition(ctx context.Context, customerID string, req *DefinitionUpdateRequest) (*LabelsResponse, error) {
	var res LabelsResponse
	p := path("crm", "v4", "associations", req.FromObject, req.ToObject, "labels")
	if err := c.do(ctx, customerID, "update definition", http.MethodPut, p, req.RequestInfo, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ArchiveDefinition deletes an association label by type ID.
func (c *Client) ArchiveDefinition(ctx context.Context, customerID, fromObjectType, toObjectType string, typeID int) error {
	p := path("crm", "v4", "associations", fromObjectType, toObjectType, "labels", strconv.Itoa(typeID))
	return c.do(ctx, customerID, "archive definition", http.MethodDelete, p, nil, nil)
}

// ListDefinitions returns every association label between two object types.
func (c *Client) ListDefinitions(ctx context.Context, customerID, fromObjectType, toObjectType string) ([]Label, error) {
	var res LabelsResponse
	p := path("crm", "v4", "associations", fromObjectType, toObjectType, "labels")
	if err := c.do(ctx, customerID, "list definitions", http.MethodGet, p, nil, &res); err != nil {
		return nil, err
	}
	if res.Results == nil {
		return []Label{}, nil
	}
	return res.Results, nil
}

// CreateCardinality sets the limit for the direction pair named by the
// input's object types.
func (c *Client) CreateCardinality(ctx context.Context, customerID string, in CardinalityInput) (*CardinalityResponse, error) {
	return c.cardinality(ctx, customerID, "create cardinality", "create", in)
}

// UpdateCardinality changes the limit for one direction pair.
func (c *Client) UpdateCardinality(ctx context.Context, customerID string, in CardinalityInput) (*CardinalityResponse, error) {
	return c.cardinality(ctx, customerID, "update cardinality", "update", in)
}

func (c *Client) cardinality(ctx context.Context, customerID, op, verb string, in CardinalityInput) (*CardinalityResponse, error) {
	var res CardinalityResponse
	p := path("crm", "v4", "associations", "definitions", "configurations", in.FromObjectType, in.ToObjectType, "batch", verb)
	body := CardinalityRequest{Inputs: []CardinalityInput{in}}
	if err := c.do(ctx, customerID, op, http.MethodPost, p, body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
