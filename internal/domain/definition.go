package domain

import "encoding/json"

// DefinitionKind tells whether a definition was registered remotely as a
// single shared type or as a pair of directional types. A nil kind means the
// definition has not been created remotely yet.
type DefinitionKind interface {
	// PrimaryTypeID is the type used from the source object's side.
	PrimaryTypeID() int
	// TypeIDs returns every remote type ID the definition owns.
	TypeIDs() []int
	isDefinitionKind()
}

// OneDirectional is a definition without an inverse label. The same remote
// type ID is used from both sides.
type OneDirectional struct {
	TypeID int
}

// PrimaryTypeID implements DefinitionKind.
func (k OneDirectional) PrimaryTypeID() int { return k.TypeID }

// TypeIDs implements DefinitionKind.
func (k OneDirectional) TypeIDs() []int { return []int{k.TypeID} }

func (OneDirectional) isDefinitionKind() {}

// Bidirectional is a definition with an inverse label; the remote side
// assigns one type per direction.
type Bidirectional struct {
	FromTypeID int
	ToTypeID   int
}

// PrimaryTypeID implements DefinitionKind.
func (k Bidirectional) PrimaryTypeID() int { return k.FromTypeID }

// TypeIDs implements DefinitionKind.
func (k Bidirectional) TypeIDs() []int { return []int{k.FromTypeID, k.ToTypeID} }

func (Bidirectional) isDefinitionKind() {}

// Definition describes a class of associations between two object types.
type Definition struct {
	ID                  string
	FromObjectType      string
	ToObjectType        string
	AssociationLabel    string
	Name                string
	InverseLabel        *string
	Kind                DefinitionKind
	CustomerID          string
	Cardinality         Cardinality
	FromMaxObjects      *int
	ToMaxObjects        *int
	AssociationCategory Category
	CreatedAt           string
	UpdatedAt           string
}

// HasInverse reports whether the definition has an inverse label.
func (d *Definition) HasInverse() bool {
	return d.InverseLabel != nil
}

// HasCaps reports whether a max-objects value is set in either direction.
func (d *Definition) HasCaps() bool {
	return d.FromMaxObjects != nil || d.ToMaxObjects != nil
}

// TypeColumns projects the kind onto the flat associationTypeId, fromTypeId
// and toTypeId columns. Unset values are nil.
func (d *Definition) TypeColumns() (assocTypeID, fromTypeID, toTypeID *int) {
	switch k := d.Kind.(type) {
	case OneDirectional:
		id := k.TypeID
		return &id, &id, nil
	case Bidirectional:
		from, to := k.FromTypeID, k.ToTypeID
		return nil, &from, &to
	}
	return nil, nil, nil
}

// KindFromColumns rebuilds the kind from its column projection.
func KindFromColumns(assocTypeID, fromTypeID, toTypeID *int) DefinitionKind {
	switch {
	case assocTypeID != nil:
		return OneDirectional{TypeID: *assocTypeID}
	case fromTypeID != nil && toTypeID != nil:
		return Bidirectional{FromTypeID: *fromTypeID, ToTypeID: *toTypeID}
	case fromTypeID != nil:
		return OneDirectional{TypeID: *fromTypeID}
	}
	return nil
}

type definitionJSON struct {
	ID                  string      `json:"id,omitempty"`
	FromObjectType      string      `json:"fromObjectType"`
	ToObjectType        string      `json:"toObjectType"`
	AssociationLabel    string      `json:"associationLabel"`
	Name                string      `json:"name"`
	InverseLabel        *string     `json:"inverseLabel,omitempty"`
	AssociationTypeID   *int        `json:"associationTypeId"`
	FromTypeID          *int        `json:"fromTypeId"`
	ToTypeID            *int        `json:"toTypeId"`
	CustomerID          string      `json:"customerId"`
	Cardinality         Cardinality `json:"cardinality,omitempty"`
	FromMaxObjects      *int        `json:"fromMaxObjects,omitempty"`
	ToMaxObjects        *int        `json:"toMaxObjects,omitempty"`
	AssociationCategory Category    `json:"associationCategory,omitempty"`
	CreatedAt           string      `json:"createdAt,omitempty"`
	UpdatedAt           string      `json:"updatedAt,omitempty"`
}

// MarshalJSON writes the definition in its flat wire shape, with
// associationTypeId null for bidirectional definitions.
func (d Definition) MarshalJSON() ([]byte, error) {
	assocTypeID, fromTypeID, toTypeID := d.TypeColumns()
	return json.Marshal(definitionJSON{
		ID:                  d.ID,
		FromObjectType:      d.FromObjectType,
		ToObjectType:        d.ToObjectType,
		AssociationLabel:    d.AssociationLabel,
		Name:                d.Name,
		InverseLabel:        d.InverseLabel,
		AssociationTypeID:   assocTypeID,
		FromTypeID:          fromTypeID,
		ToTypeID:            toTypeID,
		CustomerID:          d.CustomerID,
		Cardinality:         d.Cardinality,
		FromMaxObjects:      d.FromMaxObjects,
		ToMaxObjects:        d.ToMaxObjects,
		AssociationCategory: d.AssociationCategory,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           d.UpdatedAt,
	})
}

// UnmarshalJSON reads the flat wire shape.
func (d *Definition) UnmarshalJSON(b []byte) error {
	var v definitionJSON
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*d = Definition{
		ID:                  v.ID,
		FromObjectType:      v.FromObjectType,
		ToObjectType:        v.ToObjectType,
		AssociationLabel:    v.AssociationLabel,
		Name:                v.Name,
		InverseLabel:        v.InverseLabel,
		Kind:                KindFromColumns(v.AssociationTypeID, v.FromTypeID, v.ToTypeID),
		CustomerID:          v.CustomerID,
		Cardinality:         v.Cardinality,
		FromMaxObjects:      v.FromMaxObjects,
		ToMaxObjects:        v.ToMaxObjects,
		AssociationCategory: v.AssociationCategory,
		CreatedAt:           v.CreatedAt,
		UpdatedAt:           v.UpdatedAt,
	}
	return nil
}

// DefinitionFilter selects definitions. Type fields match case-insensitively.
type DefinitionFilter struct {
	CustomerID     string
	FromObjectType string
	ToObjectType   string
}
