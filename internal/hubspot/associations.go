package hubspot

import (
	"context"
	"net/http"
)

// CreateAssociation associates two records. The response is normalized to
// the batch shape with a single result.
func (c *Client) CreateAssociation(ctx context.Context, customerID string, req *SingleAssociationRequest) (*AssociationResponse, error) {
	var res AssociationResult
	p := path("crm", "v4", "objects", req.ObjectType, req.ObjectID, "associations", req.ToObjectType, req.ToObjectID)
	if err := c.do(ctx, customerID, "create association", http.MethodPut, p, req.AssociationType, &res); err != nil {
		return nil, err
	}
	return &AssociationResponse{Status: "COMPLETE", Results: []AssociationResult{res}}, nil
}

// CreateAssociations associates many record pairs in one call.
func (c *Client) CreateAssociations(ctx context.Context, customerID string, req *BatchCreateRequest) (*AssociationResponse, error) {
	var res AssociationResponse
	p := path("crm", "v4", "associations", req.FromObjectType, req.ToObjectType, "batch", "create")
	if err := c.do(ctx, customerID, "create associations", http.MethodPost, p, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ArchiveAssociation removes every association between two records.
func (c *Client) ArchiveAssociation(ctx context.Context, customerID, fromObjectType, fromID, toObjectType, toID string) error {
	p := path("crm", "v4", "objects", fromObjectType, fromID, "associations", toObjectType, toID)
	return c.do(ctx, customerID, "archive association", http.MethodDelete, p, nil, nil)
}

// ArchiveAssociations removes associations for many record pairs in one call.
func (c *Client) ArchiveAssociations(ctx context.Context, customerID string, req *BatchArchiveRequest) error {
	p := path("crm", "v4", "associations", req.FromObjectType, req.ToObjectType, "batch", "archive")
	return c.do(ctx, customerID, "archive associations", http.MethodPost, p, req, nil)
}
