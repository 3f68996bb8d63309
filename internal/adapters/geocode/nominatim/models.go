package nominatim

// Place is the typed view of a reverse-geocode response used by the lookup
// CLI. The tracker pipeline consumes the raw map instead; the normalizer is
// deliberately permissive about payload shape
type Place struct {
	PlaceID     int64          `json:"place_id"`
	Licence     string         `json:"licence"`
	OSMType     string         `json:"osm_type"`
	OSMID       int64          `json:"osm_id"`
	Lat         string         `json:"lat"`
	Lon         string         `json:"lon"`
	Category    string         `json:"category"`
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	Address     map[string]any `json:"address"`
}
