// Package coordinator keeps local association records and their CRM
// counterparts in agreement. Every operation talks to the local store and
// the CRM in a fixed order; failures are reported, never retried or undone.
package coordinator

import (
	"context"

	"github.com/johnwards/assocsync/internal/domain"
	"github.com/johnwards/assocsync/internal/hubspot"
	"github.com/johnwards/assocsync/internal/store"
)

// CRM is the remote side of every dual write. *hubspot.Client implements it.
type CRM interface {
	CreateAssociation(ctx context.Context, customerID string, req *hubspot.SingleAssociationRequest) (*hubspot.AssociationResponse, error)
	CreateAssociations(ctx context.Context, customerID string, req *hubspot.BatchCreateRequest) (*hubspot.AssociationResponse, error)
	ArchiveAssociation(ctx context.Context, customerID, fromObjectType, fromID, toObjectType, toID string) error
	ArchiveAssociations(ctx context.Context, customerID string, req *hubspot.BatchArchiveRequest) error
	CreateDefinition(ctx context.Context, customerID string, req *hubspot.DefinitionCreateRequest) (*hubspot.LabelsResponse, error)
	UpdateDefinition(ctx context.Context, customerID string, req *hubspot.DefinitionUpdateRequest) (*hubspot.LabelsResponse, error)
	ArchiveDefinition(ctx context.Context, customerID, fromObjectType, toObjectType string, typeID int) error
	ListDefinitions(ctx context.Context, customerID, fromObjectType, toObjectType string) ([]hubspot.Label, error)
	CreateCardinality(ctx context.Context, customerID string, in hubspot.CardinalityInput) (*hubspot.CardinalityResponse, error)
	UpdateCardinality(ctx context.Context, customerID string, in hubspot.CardinalityInput) (*hubspot.CardinalityResponse, error)
}

var _ CRM = (*hubspot.Client)(nil)

// Services bundles the coordinators the HTTP layer depends on.
type Services struct {
	Definitions  *DefinitionService
	Associations *AssociationService
	Mappings     *MappingService
}

// New wires the services over s and crm.
func New(s *store.Store, crm CRM) *Services {
	mappings := NewMappingService(s.Mappings, crm)
	return &Services{
		Definitions:  NewDefinitionService(s.Definitions, s.Mappings, crm),
		Associations: NewAssociationService(s.Associations, mappings),
		Mappings:     mappings,
	}
}

func defaultCategory(c domain.Category) domain.Category {
	if c == "" {
		return domain.CategoryUserDefined
	}
	return c
}

func validateEnums(category domain.Category, cardinality domain.Cardinality) error {
	if category != "" && !category.Valid() {
		return validation("unknown associationCategory %q", category)
	}
	if cardinality != "" && !cardinality.Valid() {
		return validation("unknown cardinality %q", cardinality)
	}
	return nil
}
