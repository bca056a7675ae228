package hubspot

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/johnwards/assocsync/internal/domain"
)

// ObjectID identifies a CRM record in batch inputs.
type ObjectID struct {
	ID string `json:"id"`
}

// TypeRef names an association type on the wire.
type TypeRef struct {
	Category domain.Category `json:"associationCategory"`
	TypeID   int             `json:"associationTypeId"`
}

// SingleAssociationRequest associates two records.
type SingleAssociationRequest struct {
	ObjectType      string    `json:"objectType"`
	ObjectID        string    `json:"objectId"`
	ToObjectType    string    `json:"toObjectType"`
	ToObjectID      string    `json:"toObjectId"`
	AssociationType []TypeRef `json:"associationType"`
}

// BatchCreateInput is one pair in a batch create.
type BatchCreateInput struct {
	From  ObjectID  `json:"from"`
	To    ObjectID  `json:"to"`
	Types []TypeRef `json:"types"`
}

// BatchCreateRequest associates many record pairs of the same object types.
type BatchCreateRequest struct {
	FromObjectType string             `json:"-"`
	ToObjectType   string             `json:"-"`
	Inputs         []BatchCreateInput `json:"inputs"`
}

// BatchArchiveInput removes every association from one record to others.
type BatchArchiveInput struct {
	From ObjectID   `json:"from"`
	To   []ObjectID `json:"to"`
}

// BatchArchiveRequest removes associations for many record pairs.
type BatchArchiveRequest struct {
	FromObjectType string              `json:"-"`
	ToObjectType   string              `json:"-"`
	Inputs         []BatchArchiveInput `json:"inputs"`
}

// DefinitionInfo is the body of a label create.
type DefinitionInfo struct {
	Label        string  `json:"label"`
	Name         string  `json:"name"`
	InverseLabel *string `json:"inverseLabel,omitempty"`
}

// DefinitionCreateRequest registers a new association label.
type DefinitionCreateRequest struct {
	FromObject  string
	ToObject    string
	RequestInfo DefinitionInfo
}

// DefinitionUpdateInfo is the body of a label update.
type DefinitionUpdateInfo struct {
	Label             string  `json:"label"`
	AssociationTypeID int     `json:"associationTypeId"`
	InverseLabel      *string `json:"inverseLabel,omitempty"`
}

// DefinitionUpdateRequest renames an existing association label.
type DefinitionUpdateRequest struct {
	FromObject  string
	ToObject    string
	RequestInfo DefinitionUpdateInfo
}

// CardinalityInput caps how many records one side may be associated with.
// FromObjectType and ToObjectType pick the direction pair it is sent to.
type CardinalityInput struct {
	FromObjectType string          `json:"-"`
	ToObjectType   string          `json:"-"`
	TypeID         int             `json:"typeId"`
	Category       domain.Category `json:"category"`
	MaxToObjectIDs int             `json:"maxToObjectIds"`
}

// CardinalityRequest is a set of per-direction cardinality limits.
type CardinalityRequest struct {
	Inputs []CardinalityInput `json:"inputs"`
}

// Label is an association type as the CRM reports it.
type Label struct {
	Category domain.Category `json:"category"`
	TypeID   int             `json:"typeId"`
	Label    *string         `json:"label"`
}

// LabelsResponse is the result of creating, updating or listing labels.
// Updates that return no body yield an empty Results.
type LabelsResponse struct {
	Results []Label `json:"results"`
}

// FlexID is a record ID that the CRM may encode as a JSON number or string.
type FlexID string

// UnmarshalJSON accepts both 123 and "123".
func (id *FlexID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = FlexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("record id: %w", err)
	}
	*id = FlexID(n.String())
	return nil
}

// AssociationResult is one association created remotely.
type AssociationResult struct {
	FromObjectTypeID string   `json:"fromObjectTypeId"`
	FromObjectID     FlexID   `json:"fromObjectId"`
	ToObjectTypeID   string   `json:"toObjectTypeId"`
	ToObjectID       FlexID   `json:"toObjectId"`
	Labels           []string `json:"labels"`
}

// BatchError is a per-input failure reported inside a batch response.
type BatchError struct {
	Status   string `json:"status"`
	Category string `json:"category"`
	Message  string `json:"message"`
}

// AssociationResponse is the normalized result of single and batch
// association creates.
type AssociationResponse struct {
	Status    string              `json:"status"`
	Results   []AssociationResult `json:"results"`
	NumErrors int                 `json:"numErrors,omitempty"`
	Errors    []BatchError        `json:"errors,omitempty"`
}

// CardinalityResponse lists the limits the CRM accepted.
type CardinalityResponse struct {
	Status  string             `json:"status"`
	Results []CardinalityInput `json:"results"`
}
