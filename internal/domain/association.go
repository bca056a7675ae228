package domain

import "strings"

// Category classifies who owns an association type.
type Category string

// Association categories as the CRM names them.
const (
	CategoryPlatformDefined   Category = "HUBSPOT_DEFINED"
	CategoryIntegratorDefined Category = "INTEGRATOR_DEFINED"
	CategoryUserDefined       Category = "USER_DEFINED"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryPlatformDefined, CategoryIntegratorDefined, CategoryUserDefined:
		return true
	}
	return false
}

// Cardinality is the multiplicity of a relationship.
type Cardinality string

// Supported cardinalities.
const (
	OneToOne   Cardinality = "ONE_TO_ONE"
	OneToMany  Cardinality = "ONE_TO_MANY"
	ManyToOne  Cardinality = "MANY_TO_ONE"
	ManyToMany Cardinality = "MANY_TO_MANY"
)

// Valid reports whether c is one of the known cardinalities.
func (c Cardinality) Valid() bool {
	switch c {
	case OneToOne, OneToMany, ManyToOne, ManyToMany:
		return true
	}
	return false
}

// Association is a directed, typed edge between two object instances.
type Association struct {
	ID                  string      `json:"id"`
	ObjectType          string      `json:"objectType"`
	ObjectID            string      `json:"objectId"`
	ToObjectType        string      `json:"toObjectType"`
	ToObjectID          string      `json:"toObjectId"`
	AssociationLabel    string      `json:"associationLabel"`
	AssociationTypeID   int         `json:"associationTypeId"`
	AssociationCategory Category    `json:"associationCategory"`
	CustomerID          string      `json:"customerId"`
	Cardinality         Cardinality `json:"cardinality"`
	CreatedAt           string      `json:"createdAt,omitempty"`
	UpdatedAt           string      `json:"updatedAt,omitempty"`
}

// AssociationKey is the unique upsert key of an Association.
type AssociationKey struct {
	CustomerID        string
	ToObjectID        string
	ObjectID          string
	AssociationLabel  string
	AssociationTypeID int
}

// Key returns the unique upsert key of a.
func (a *Association) Key() AssociationKey {
	return AssociationKey{
		CustomerID:        a.CustomerID,
		ToObjectID:        a.ToObjectID,
		ObjectID:          a.ObjectID,
		AssociationLabel:  a.AssociationLabel,
		AssociationTypeID: a.AssociationTypeID,
	}
}

// Missing returns the names of required fields that are empty.
func (a *Association) Missing() []string {
	var missing []string
	check := func(name, v string) {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	check("objectType", a.ObjectType)
	check("objectId", a.ObjectID)
	check("toObjectType", a.ToObjectType)
	check("toObjectId", a.ToObjectID)
	check("customerId", a.CustomerID)
	if a.AssociationTypeID == 0 {
		missing = append(missing, "associationTypeId")
	}
	return missing
}

// AssociationFilter selects associations. Empty fields match anything; type
// fields are compared case-insensitively.
type AssociationFilter struct {
	CustomerID        string
	ObjectType        string
	ToObjectType      string
	AssociationTypeID int
}
