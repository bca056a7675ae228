package domain

// Mapping links a local Association to its representation in the CRM.
type Mapping struct {
	ID                      string      `json:"id"`
	NativeAssociationID     string      `json:"nativeAssociationId"`
	NativeObjectID          string      `json:"nativeObjectId"`
	ToNativeObjectID        string      `json:"toNativeObjectId"`
	FromObjectType          string      `json:"fromObjectType"`
	ToObjectType            string      `json:"toObjectType"`
	FromHubSpotObjectID     string      `json:"fromHubSpotObjectId"`
	ToHubSpotObjectID       string      `json:"toHubSpotObjectId"`
	NativeAssociationLabel  string      `json:"nativeAssociationLabel"`
	HubSpotAssociationLabel string      `json:"hubSpotAssociationLabel"`
	AssociationTypeID       int         `json:"associationTypeId"`
	AssociationCategory     Category    `json:"associationCategory"`
	Cardinality             Cardinality `json:"cardinality"`
	CustomerID              string      `json:"customerId"`
	CreatedAt               string      `json:"createdAt,omitempty"`
	UpdatedAt               string      `json:"updatedAt,omitempty"`
}

// Missing returns the names of required fields that are empty.
func (m *Mapping) Missing() []string {
	var missing []string
	for _, f := range []struct{ name, v string }{
		{"nativeAssociationId", m.NativeAssociationID},
		{"fromObjectType", m.FromObjectType},
		{"toObjectType", m.ToObjectType},
		{"fromHubSpotObjectId", m.FromHubSpotObjectID},
		{"toHubSpotObjectId", m.ToHubSpotObjectID},
		{"customerId", m.CustomerID},
	} {
		if f.v == "" {
			missing = append(missing, f.name)
		}
	}
	if m.AssociationTypeID == 0 {
		missing = append(missing, "associationTypeId")
	}
	return missing
}

// MappingFilter selects mappings. A non-empty TypeIDs matches any of them.
type MappingFilter struct {
	CustomerID     string
	TypeIDs        []int
	FromObjectType string
	ToObjectType   string
}
