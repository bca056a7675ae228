package crmfake

import "strings"

// objectTypeIDs maps standard object type names to the IDs the CRM reports
// in association results. Unknown types are reported by name.
var objectTypeIDs = map[string]string{
	"contacts":   "0-1",
	"companies":  "0-2",
	"deals":      "0-3",
	"tickets":    "0-5",
	"products":   "0-7",
	"line_items": "0-8",
	"quotes":     "0-14",
	"notes":      "0-46",
	"meetings":   "0-47",
	"calls":      "0-48",
	"emails":     "0-49",
}

var singularTypes = map[string]string{
	"contact":   "contacts",
	"company":   "companies",
	"deal":      "deals",
	"ticket":    "tickets",
	"product":   "products",
	"line_item": "line_items",
	"quote":     "quotes",
	"note":      "notes",
	"meeting":   "meetings",
	"call":      "calls",
	"email":     "emails",
}

// normalizeType maps singular names and type IDs onto the lower-case plural
// name used as the storage key.
func normalizeType(t string) string {
	t = strings.ToLower(strings.TrimSpace(t))
	if plural, ok := singularTypes[t]; ok {
		return plural
	}
	for name, id := range objectTypeIDs {
		if t == id {
			return name
		}
	}
	return t
}

func objectTypeID(t string) string {
	if id, ok := objectTypeIDs[t]; ok {
		return id
	}
	return t
}

type standardType struct {
	ID, Inverse int
	From, To    string
	Label       string
}

// standardTypes are the platform-defined association types every portal
// starts with, each paired with the type used in the other direction.
var standardTypes = []standardType{
	{ID: 1, Inverse: 2, From: "contacts", To: "companies"},
	{ID: 2, Inverse: 1, From: "companies", To: "contacts"},
	{ID: 279, Inverse: 280, From: "contacts", To: "companies", Label: "Primary"},
	{ID: 280, Inverse: 279, From: "companies", To: "contacts", Label: "Primary"},
	{ID: 3, Inverse: 4, From: "contacts", To: "deals"},
	{ID: 4, Inverse: 3, From: "deals", To: "contacts"},
	{ID: 5, Inverse: 6, From: "companies", To: "deals"},
	{ID: 6, Inverse: 5, From: "deals", To: "companies"},
	{ID: 15, Inverse: 16, From: "contacts", To: "tickets"},
	{ID: 16, Inverse: 15, From: "tickets", To: "contacts"},
	{ID: 25, Inverse: 26, From: "companies", To: "tickets"},
	{ID: 26, Inverse: 25, From: "tickets", To: "companies"},
}

// firstCustomTypeID is the first type ID handed out for user defined labels.
const firstCustomTypeID = 1000
