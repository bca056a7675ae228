package hubspot

import "github.com/johnwards/assocsync/internal/domain"

// The formatters below turn local records into request values. They perform
// no I/O and never fail; validation happens before they are called.

func category(c domain.Category) domain.Category {
	if c == "" {
		return domain.CategoryUserDefined
	}
	return c
}

func typeRefs(m *domain.Mapping) []TypeRef {
	return []TypeRef{{Category: category(m.AssociationCategory), TypeID: m.AssociationTypeID}}
}

// FormatSingle builds the request associating the two records of m.
func FormatSingle(m *domain.Mapping) *SingleAssociationRequest {
	return &SingleAssociationRequest{
		ObjectType:      m.FromObjectType,
		ObjectID:        m.FromHubSpotObjectID,
		ToObjectType:    m.ToObjectType,
		ToObjectID:      m.ToHubSpotObjectID,
		AssociationType: typeRefs(m),
	}
}

// FormatBatch builds one batch create for ms. The object types of the first
// mapping address the whole batch. It returns nil when ms is empty.
func FormatBatch(ms []domain.Mapping) *BatchCreateRequest {
	if len(ms) == 0 {
		return nil
	}
	req := &BatchCreateRequest{
		FromObjectType: ms[0].FromObjectType,
		ToObjectType:   ms[0].ToObjectType,
		Inputs:         make([]BatchCreateInput, 0, len(ms)),
	}
	for i := range ms {
		req.Inputs = append(req.Inputs, BatchCreateInput{
			From:  ObjectID{ID: ms[i].FromHubSpotObjectID},
			To:    ObjectID{ID: ms[i].ToHubSpotObjectID},
			Types: typeRefs(&ms[i]),
		})
	}
	return req
}

// FormatBatchArchive builds one batch archive for ms. A nil result means
// there is nothing to archive and the remote call must be skipped.
func FormatBatchArchive(ms []domain.Mapping) *BatchArchiveRequest {
	if len(ms) == 0 {
		return nil
	}
	req := &BatchArchiveRequest{
		FromObjectType: ms[0].FromObjectType,
		ToObjectType:   ms[0].ToObjectType,
		Inputs:         make([]BatchArchiveInput, 0, len(ms)),
	}
	for _, m := range ms {
		req.Inputs = append(req.Inputs, BatchArchiveInput{
			From: ObjectID{ID: m.FromHubSpotObjectID},
			To:   []ObjectID{{ID: m.ToHubSpotObjectID}},
		})
	}
	return req
}

// FormatDefinitionCreate builds the label create for d. An absent inverse
// label stays absent; it is never sent as an empty string.
func FormatDefinitionCreate(d *domain.Definition) *DefinitionCreateRequest {
	return &DefinitionCreateRequest{
		FromObject: d.FromObjectType,
		ToObject:   d.ToObjectType,
		RequestInfo: DefinitionInfo{
			Label:        d.AssociationLabel,
			Name:         d.Name,
			InverseLabel: d.InverseLabel,
		},
	}
}

// FormatDefinitionUpdate builds the label update for d, addressed by its
// primary type ID.
func FormatDefinitionUpdate(d *domain.Definition) *DefinitionUpdateRequest {
	req := &DefinitionUpdateRequest{
		FromObject: d.FromObjectType,
		ToObject:   d.ToObjectType,
		RequestInfo: DefinitionUpdateInfo{
			Label:        d.AssociationLabel,
			InverseLabel: d.InverseLabel,
		},
	}
	if d.Kind != nil {
		req.RequestInfo.AssociationTypeID = d.Kind.PrimaryTypeID()
	}
	return req
}

// FormatCardinalityCreate builds the cardinality limits for a definition
// that was just created remotely, reading type IDs from labels. It emits one
// input per capped direction; with no caps Inputs is empty, not nil.
func FormatCardinalityCreate(labels []Label, d *domain.Definition) *CardinalityRequest {
	var fromTypeID, toTypeID int
	if len(labels) > 0 {
		fromTypeID = labels[0].TypeID
		toTypeID = labels[0].TypeID
	}
	if len(labels) > 1 {
		toTypeID = labels[1].TypeID
	}
	return cardinality(d, fromTypeID, toTypeID)
}

// FormatCardinalityUpdate builds the cardinality limits from the type IDs
// already stored on d.
func FormatCardinalityUpdate(d *domain.Definition) *CardinalityRequest {
	var fromTypeID, toTypeID int
	switch k := d.Kind.(type) {
	case domain.OneDirectional:
		fromTypeID, toTypeID = k.TypeID, k.TypeID
	case domain.Bidirectional:
		fromTypeID, toTypeID = k.FromTypeID, k.ToTypeID
	}
	return cardinality(d, fromTypeID, toTypeID)
}

func cardinality(d *domain.Definition, fromTypeID, toTypeID int) *CardinalityRequest {
	req := &CardinalityRequest{Inputs: []CardinalityInput{}}
	if d.FromMaxObjects != nil {
		req.Inputs = append(req.Inputs, CardinalityInput{
			FromObjectType: d.FromObjectType,
			ToObjectType:   d.ToObjectType,
			TypeID:         fromTypeID,
			Category:       category(d.AssociationCategory),
			MaxToObjectIDs: *d.FromMaxObjects,
		})
	}
	if d.ToMaxObjects != nil {
		req.Inputs = append(req.Inputs, CardinalityInput{
			FromObjectType: d.ToObjectType,
			ToObjectType:   d.FromObjectType,
			TypeID:         toTypeID,
			Category:       category(d.AssociationCategory),
			MaxToObjectIDs: *d.ToMaxObjects,
		})
	}
	return req
}
