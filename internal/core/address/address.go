// Package address normalizes raw reverse-geocoder payloads into the Brazilian
// postal-address shape the rest of the pipeline compares and announces
package address

// PointOfInterest captures the top-level class/type/name triple some geocoder
// responses carry for named places
type PointOfInterest struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Name     string `json:"name"`
}

// Address is the canonical normalized record. Immutable once built: a newer
// geocoder response supersedes it, never edits it
type Address struct {
	Street            Field `json:"street"`
	HouseNumber       Field `json:"house_number"`
	Neighborhood      Field `json:"neighborhood"`
	Municipality      Field `json:"municipality"`
	State             Field `json:"state"`
	StateAbbreviation Field `json:"state_abbreviation"`
	PostalCode        Field `json:"postal_code"`
	Country           Field `json:"country"`

	PointOfInterest *PointOfInterest `json:"point_of_interest,omitempty"`
}
