package coordinator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/johnwards/assocsync/internal/domain"
	"github.com/johnwards/assocsync/internal/hubspot"
	"github.com/johnwards/assocsync/internal/store"
)

// DefinitionService creates, updates, lists and deletes association
// definitions in the CRM and the local store.
type DefinitionService struct {
	defs     store.DefinitionStore
	mappings store.MappingStore
	crm      CRM
}

// NewDefinitionService creates a DefinitionService.
func NewDefinitionService(defs store.DefinitionStore, mappings store.MappingStore, crm CRM) *DefinitionService {
	return &DefinitionService{defs: defs, mappings: mappings, crm: crm}
}

// DefinitionResult is the outcome of a create or update.
type DefinitionResult struct {
	Definition *domain.Definition
	Remote     *hubspot.LabelsResponse
}

// DefinitionDeleteResult is the outcome of a cascading delete.
type DefinitionDeleteResult struct {
	Definition           *domain.Definition
	DeletedMappingsCount int
}

// DefinitionList holds the definitions known on both sides for an object
// type pair.
type DefinitionList struct {
	DBAssociations      []domain.Definition `json:"dbAssociations"`
	HubSpotAssociations []hubspot.Label     `json:"hubspotAssociations"`
}

func validateDefinition(d *domain.Definition) error {
	var missing []string
	for _, f := range []struct{ name, v string }{
		{"fromObjectType", d.FromObjectType},
		{"toObjectType", d.ToObjectType},
		{"name", d.Name},
		{"customerId", d.CustomerID},
	} {
		if strings.TrimSpace(f.v) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return missingFields(missing)
	}
	if err := validateEnums(d.AssociationCategory, d.Cardinality); err != nil {
		return err
	}
	for _, n := range []*int{d.FromMaxObjects, d.ToMaxObjects} {
		if n != nil && *n < 1 {
			return validation("max objects must be at least 1, got %d", *n)
		}
	}
	return nil
}

// resolveKind decides the definition kind from the labels the CRM created.
// A single label without an inverse is one-directional; anything else needs
// a type per direction.
func resolveKind(labels []hubspot.Label, hasInverse bool) (domain.DefinitionKind, error) {
	if len(labels) == 0 || labels[0].TypeID == 0 {
		return nil, fmt.Errorf("%w: no type ID returned", ErrInvalidRemoteResponse)
	}
	if len(labels) == 1 && !hasInverse {
		return domain.OneDirectional{TypeID: labels[0].TypeID}, nil
	}
	if len(labels) < 2 || labels[1].TypeID == 0 {
		return nil, fmt.Errorf("%w: inverse type ID missing", ErrInvalidRemoteResponse)
	}
	return domain.Bidirectional{FromTypeID: labels[0].TypeID, ToTypeID: labels[1].TypeID}, nil
}

// Create registers d with the CRM, applies any cardinality caps and then
// persists d locally with the type IDs the CRM assigned. The remote label
// is not rolled back when cardinality or the local write fails; both are
// reported as a *PartialFailureError.
func (s *DefinitionService) Create(ctx context.Context, d *domain.Definition) (*DefinitionResult, error) {
	if err := validateDefinition(d); err != nil {
		return nil, err
	}
	def := *d
	def.ID = ""
	def.AssociationCategory = defaultCategory(def.AssociationCategory)

	res, err := s.crm.CreateDefinition(ctx, def.CustomerID, hubspot.FormatDefinitionCreate(&def))
	if err != nil {
		return nil, fmt.Errorf("create definition: %w", err)
	}
	def.Kind, err = resolveKind(res.Results, def.HasInverse())
	if err != nil {
		return nil, fmt.Errorf("create definition: %w", err)
	}

	if def.HasCaps() {
		for _, in := range hubspot.FormatCardinalityCreate(res.Results, &def).Inputs {
			if _, err := s.crm.CreateCardinality(ctx, def.CustomerID, in); err != nil {
				return nil, &PartialFailureError{
					Operation:       "create definition",
					RemoteSucceeded: true,
					Err:             fmt.Errorf("configure cardinality %s to %s: %w", in.FromObjectType, in.ToObjectType, err),
				}
			}
		}
	}

	saved, err := s.defs.Upsert(ctx, &def)
	if err != nil {
		return nil, &PartialFailureError{Operation: "create definition", RemoteSucceeded: true, Err: err}
	}
	slog.Info("definition created",
		"id", saved.ID,
		"customer_id", saved.CustomerID,
		"type_ids", saved.Kind.TypeIDs(),
	)
	return &DefinitionResult{Definition: saved, Remote: res}, nil
}

// Update applies the non-empty fields of patch to the stored definition,
// renames the label remotely, updates caps when set and saves the result.
// A cardinality failure after the rename is a *PartialFailureError.
func (s *DefinitionService) Update(ctx context.Context, id string, patch *domain.Definition) (*DefinitionResult, error) {
	existing, err := s.defs.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	def := merge(existing, patch)
	if err := validateDefinition(def); err != nil {
		return nil, err
	}
	if def.Kind == nil {
		return nil, validation("definition %s has no remote type ID", id)
	}
	// The remote type IDs are fixed at create time, so an update can relabel
	// an existing inverse but not add or remove one.
	if _, bidirectional := def.Kind.(domain.Bidirectional); def.HasInverse() != bidirectional {
		return nil, validation("definition %s: inverseLabel cannot be added or removed by an update", id)
	}

	res, err := s.crm.UpdateDefinition(ctx, def.CustomerID, hubspot.FormatDefinitionUpdate(def))
	if err != nil {
		return nil, fmt.Errorf("update definition: %w", err)
	}
	if def.HasCaps() {
		for _, in := range hubspot.FormatCardinalityUpdate(def).Inputs {
			if _, err := s.crm.UpdateCardinality(ctx, def.CustomerID, in); err != nil {
				return nil, &PartialFailureError{
					Operation:       "update definition",
					RemoteSucceeded: true,
					Err:             fmt.Errorf("update cardinality %s to %s: %w", in.FromObjectType, in.ToObjectType, err),
				}
			}
		}
	}

	saved, err := s.defs.Upsert(ctx, def)
	if err != nil {
		return nil, &PartialFailureError{Operation: "update definition", RemoteSucceeded: true, Err: err}
	}
	return &DefinitionResult{Definition: saved, Remote: res}, nil
}

func merge(existing, patch *domain.Definition) *domain.Definition {
	def := *existing
	if patch.AssociationLabel != "" {
		def.AssociationLabel = patch.AssociationLabel
	}
	if patch.Name != "" {
		def.Name = patch.Name
	}
	if patch.InverseLabel != nil {
		def.InverseLabel = patch.InverseLabel
	}
	if patch.Cardinality != "" {
		def.Cardinality = patch.Cardinality
	}
	if patch.AssociationCategory != "" {
		def.AssociationCategory = patch.AssociationCategory
	}
	if patch.FromMaxObjects != nil {
		def.FromMaxObjects = patch.FromMaxObjects
	}
	if patch.ToMaxObjects != nil {
		def.ToMaxObjects = patch.ToMaxObjects
	}
	return &def
}

// Delete removes the definition and every mapping using one of its type
// IDs, then archives the definition remotely. Mappings go in one atomic
// batch, and only when there are any. A remote failure after the local
// deletes is a *PartialFailureError; the result is still returned.
func (s *DefinitionService) Delete(ctx context.Context, id string) (*DefinitionDeleteResult, error) {
	def, err := s.defs.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	result := &DefinitionDeleteResult{}
	if def.Kind != nil {
		deps, err := s.mappings.Find(ctx, domain.MappingFilter{
			CustomerID: def.CustomerID,
			TypeIDs:    def.Kind.TypeIDs(),
		})
		if err != nil {
			return nil, err
		}
		if len(deps) > 0 {
			ids := make([]string, len(deps))
			for i, m := range deps {
				ids[i] = m.ID
			}
			deleted, err := s.mappings.DeleteMany(ctx, ids)
			if err != nil {
				return nil, err
			}
			result.DeletedMappingsCount = len(deleted)
		}
	}

	result.Definition, err = s.defs.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	slog.Info("definition deleted",
		"id", id,
		"customer_id", def.CustomerID,
		"deleted_mappings", result.DeletedMappingsCount,
	)

	if def.Kind == nil {
		return result, nil
	}
	if err := s.crm.ArchiveDefinition(ctx, def.CustomerID, def.FromObjectType, def.ToObjectType, def.Kind.PrimaryTypeID()); err != nil {
		return result, &PartialFailureError{Operation: "delete definition", LocalSucceeded: true, Err: err}
	}
	return result, nil
}

// List returns the local definitions for an object type pair alongside the
// labels the CRM reports for it. Both sides are fetched concurrently.
func (s *DefinitionService) List(ctx context.Context, customerID, fromObjectType, toObjectType string) (*DefinitionList, error) {
	if fromObjectType == "" || toObjectType == "" {
		return nil, validation("fromObjectType and toObjectType are required")
	}
	list := &DefinitionList{}
	var g errgroup.Group
	g.Go(func() error {
		defs, err := s.defs.Find(ctx, domain.DefinitionFilter{
			CustomerID:     customerID,
			FromObjectType: fromObjectType,
			ToObjectType:   toObjectType,
		})
		list.DBAssociations = defs
		return err
	})
	g.Go(func() error {
		labels, err := s.crm.ListDefinitions(ctx, customerID, fromObjectType, toObjectType)
		list.HubSpotAssociations = labels
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list definitions: %w", err)
	}
	if list.DBAssociations == nil {
		list.DBAssociations = []domain.Definition{}
	}
	if list.HubSpotAssociations == nil {
		list.HubSpotAssociations = []hubspot.Label{}
	}
	return list, nil
}

// Get returns a stored definition.
func (s *DefinitionService) Get(ctx context.Context, id string) (*domain.Definition, error) {
	if id == "" {
		return nil, validation("definition id is required")
	}
	return s.defs.Get(ctx, id)
}
