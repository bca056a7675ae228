package coordinator

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/johnwards/assocsync/internal/domain"
	"github.com/johnwards/assocsync/internal/hubspot"
	"github.com/johnwards/assocsync/internal/store"
)

// MappingService writes mappings to the local store and the matching
// associations to the CRM. Paired writes run concurrently and both sides
// always settle before the outcome is reported.
type MappingService struct {
	mappings store.MappingStore
	crm      CRM
}

// NewMappingService creates a MappingService.
func NewMappingService(mappings store.MappingStore, crm CRM) *MappingService {
	return &MappingService{mappings: mappings, crm: crm}
}

// BatchCreateResult is the outcome of CreateBatch.
type BatchCreateResult struct {
	HubSpotResponse *hubspot.AssociationResponse `json:"hubspotResponse"`
	DBResponse      []domain.Mapping             `json:"dbResponse"`
}

// BatchDeleteResult is the outcome of DeleteBatch.
type BatchDeleteResult struct {
	DeletedCount   int              `json:"deletedCount"`
	DeletedRecords []domain.Mapping `json:"deletedRecords"`
}

func prepare(m *domain.Mapping) error {
	if missing := m.Missing(); len(missing) > 0 {
		return missingFields(missing)
	}
	if err := validateEnums(m.AssociationCategory, m.Cardinality); err != nil {
		return err
	}
	m.AssociationCategory = defaultCategory(m.AssociationCategory)
	return nil
}

// Get returns a stored mapping.
func (s *MappingService) Get(ctx context.Context, id string) (*domain.Mapping, error) {
	return s.mappings.Get(ctx, id)
}

// Create associates the two CRM records of m and stores m, concurrently.
func (s *MappingService) Create(ctx context.Context, m *domain.Mapping) (*domain.Mapping, error) {
	mapping := *m
	if err := prepare(&mapping); err != nil {
		return nil, err
	}

	var saved *domain.Mapping
	var remoteErr, localErr error
	var g errgroup.Group
	g.Go(func() error {
		_, remoteErr = s.crm.CreateAssociation(ctx, mapping.CustomerID, hubspot.FormatSingle(&mapping))
		return remoteErr
	})
	g.Go(func() error {
		saved, localErr = s.mappings.Upsert(ctx, &mapping)
		return localErr
	})
	_ = g.Wait()

	if err := settle("create mapping", remoteErr, localErr); err != nil {
		return nil, err
	}
	return saved, nil
}

// CreateBatch associates every pair in ms with one CRM call and stores ms
// in one transaction, concurrently. All mappings must share a customer and
// object type pair, since the CRM call is addressed by them.
func (s *MappingService) CreateBatch(ctx context.Context, ms []domain.Mapping) (*BatchCreateResult, error) {
	if len(ms) == 0 {
		return nil, validation("at least one mapping is required")
	}
	batch := make([]domain.Mapping, len(ms))
	copy(batch, ms)
	for i := range batch {
		if err := prepare(&batch[i]); err != nil {
			return nil, fmt.Errorf("mapping %d: %w", i, err)
		}
		if batch[i].CustomerID != batch[0].CustomerID ||
			batch[i].FromObjectType != batch[0].FromObjectType ||
			batch[i].ToObjectType != batch[0].ToObjectType {
			return nil, validation("mapping %d: batch must share customerId, fromObjectType and toObjectType", i)
		}
	}

	result := &BatchCreateResult{}
	var remoteErr, localErr error
	var g errgroup.Group
	g.Go(func() error {
		result.HubSpotResponse, remoteErr = s.crm.CreateAssociations(ctx, batch[0].CustomerID, hubspot.FormatBatch(batch))
		if remoteErr == nil && len(result.HubSpotResponse.Errors) > 0 {
			remoteErr = fmt.Errorf("%w: %d of %d: %s", ErrRemoteRejected,
				len(result.HubSpotResponse.Errors), len(batch), result.HubSpotResponse.Errors[0].Message)
		}
		return remoteErr
	})
	g.Go(func() error {
		result.DBResponse, localErr = s.mappings.UpsertMany(ctx, batch)
		return localErr
	})
	_ = g.Wait()

	if err := settle("create mappings", remoteErr, localErr); err != nil {
		return result, err
	}
	return result, nil
}

// Delete removes a mapping locally only.
func (s *MappingService) Delete(ctx context.Context, id string) (*domain.Mapping, error) {
	return s.mappings.Delete(ctx, id)
}

// DeleteFull removes a mapping locally and archives its association in the
// CRM, concurrently.
func (s *MappingService) DeleteFull(ctx context.Context, id string) (*domain.Mapping, error) {
	m, err := s.mappings.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.deleteAndArchive(ctx, m)
}

func (s *MappingService) deleteAndArchive(ctx context.Context, m *domain.Mapping) (*domain.Mapping, error) {
	var deleted *domain.Mapping
	var remoteErr, localErr error
	var g errgroup.Group
	g.Go(func() error {
		remoteErr = s.crm.ArchiveAssociation(ctx, m.CustomerID,
			m.FromObjectType, m.FromHubSpotObjectID, m.ToObjectType, m.ToHubSpotObjectID)
		return remoteErr
	})
	g.Go(func() error {
		deleted, localErr = s.mappings.Delete(ctx, m.ID)
		return localErr
	})
	_ = g.Wait()

	if err := settle("delete mapping", remoteErr, localErr); err != nil {
		return deleted, err
	}
	return deleted, nil
}

// DeleteBatch removes the mappings with the given IDs in one transaction
// and archives their associations in the CRM, concurrently. IDs that match
// nothing are ignored; when none match the result is store.ErrNotFound.
func (s *MappingService) DeleteBatch(ctx context.Context, ids []string) (*BatchDeleteResult, error) {
	if len(ids) == 0 {
		return nil, validation("mappingIds must not be empty")
	}
	found, err := s.mappings.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, fmt.Errorf("no mappings matched %d ids: %w", len(ids), store.ErrNotFound)
	}
	foundIDs := make([]string, len(found))
	for i, m := range found {
		foundIDs[i] = m.ID
	}

	result := &BatchDeleteResult{}
	var remoteErr, localErr error
	var g errgroup.Group
	g.Go(func() error {
		remoteErr = s.archiveGroups(ctx, found)
		return remoteErr
	})
	g.Go(func() error {
		result.DeletedRecords, localErr = s.mappings.DeleteMany(ctx, foundIDs)
		result.DeletedCount = len(result.DeletedRecords)
		return localErr
	})
	_ = g.Wait()

	if err := settle("delete mappings", remoteErr, localErr); err != nil {
		return result, err
	}
	return result, nil
}

type archiveGroup struct {
	customerID, fromObjectType, toObjectType string
}

// archiveGroups issues one batch archive per customer and object type pair,
// in first-seen order.
func (s *MappingService) archiveGroups(ctx context.Context, ms []domain.Mapping) error {
	var order []archiveGroup
	groups := map[archiveGroup][]domain.Mapping{}
	for _, m := range ms {
		k := archiveGroup{m.CustomerID, m.FromObjectType, m.ToObjectType}
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], m)
	}
	for _, k := range order {
		req := hubspot.FormatBatchArchive(groups[k])
		if req == nil {
			continue
		}
		if err := s.crm.ArchiveAssociations(ctx, k.customerID, req); err != nil {
			return err
		}
		slog.Debug("archived associations",
			"customer_id", k.customerID,
			"from", k.fromObjectType,
			"to", k.toObjectType,
			"count", len(req.Inputs),
		)
	}
	return nil
}
