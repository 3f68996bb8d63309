package domain

// PositionInput is the body of a position update
type PositionInput struct {
	Latitude  float64  `json:"latitude" validate:"latitude"`
	Longitude float64  `json:"longitude" validate:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty" validate:"omitempty,min=0"`
}

// AddressInput carries a raw geocoder payload pushed directly, bypassing the
// geocoding call. Raw's shape is deliberately unvalidated: the normalizer is
// permissive about unknown keys and odd value types. CEP, when set, overrides
// the payload's postcode and must be well-formed
type AddressInput struct {
	Raw map[string]any `json:"raw" validate:"required"`
	CEP string         `json:"cep,omitempty" validate:"omitempty,cep"`
}
