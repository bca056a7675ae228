package coordinator

import (
	"context"
	"errors"
	"fmt"

	"github.com/johnwards/assocsync/internal/domain"
	"github.com/johnwards/assocsync/internal/store"
)

// AssociationService manages local associations and cascades their
// deletion to the owning mapping.
type AssociationService struct {
	associations store.AssociationStore
	mappings     *MappingService
}

// NewAssociationService creates an AssociationService.
func NewAssociationService(associations store.AssociationStore, mappings *MappingService) *AssociationService {
	return &AssociationService{associations: associations, mappings: mappings}
}

// AssociationDeleteResult is the outcome of a cascading delete.
type AssociationDeleteResult struct {
	Association          *domain.Association `json:"deletedAssociation"`
	DeletedMappingsCount int                 `json:"deletedMappingsCount"`
}

// Get returns a stored association.
func (s *AssociationService) Get(ctx context.Context, id string) (*domain.Association, error) {
	return s.associations.Get(ctx, id)
}

// Save upserts a by its unique key.
func (s *AssociationService) Save(ctx context.Context, a *domain.Association) (*domain.Association, error) {
	if missing := a.Missing(); len(missing) > 0 {
		return nil, missingFields(missing)
	}
	if err := validateEnums(a.AssociationCategory, a.Cardinality); err != nil {
		return nil, err
	}
	assoc := *a
	assoc.ID = ""
	assoc.AssociationCategory = defaultCategory(assoc.AssociationCategory)
	return s.associations.Upsert(ctx, &assoc)
}

// Delete removes the association and its mapping, if any. With
// archiveRemote the mapping's CRM association is archived as well.
func (s *AssociationService) Delete(ctx context.Context, id string, archiveRemote bool) (*AssociationDeleteResult, error) {
	deleted, err := s.associations.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	result := &AssociationDeleteResult{Association: deleted}

	m, err := s.mappings.mappings.GetByAssociation(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("association %s deleted, mapping lookup failed: %w", id, err)
	}

	if archiveRemote {
		_, err = s.mappings.deleteAndArchive(ctx, m)
	} else {
		_, err = s.mappings.Delete(ctx, m.ID)
	}
	if err != nil {
		var pf *PartialFailureError
		if errors.As(err, &pf) && pf.LocalSucceeded {
			result.DeletedMappingsCount = 1
		}
		return result, err
	}
	result.DeletedMappingsCount = 1
	return result, nil
}
