package address

import (
	"strings"
)

// Two historical payload shapes feed the normalizer: tag-style keys
// ("addr:street") and the Nominatim shape ("road", "suburb", ...), the latter
// usually nested under an "address" object. Resolution is first-non-empty
// wins, tag-style keys first

var (
	streetKeys       = []string{"addr:street", "road", "street", "pedestrian"}
	houseNumberKeys  = []string{"addr:housenumber", "house_number"}
	neighborhoodKeys = []string{"addr:neighbourhood", "neighbourhood", "suburb", "quarter"}
	municipalityKeys = []string{"addr:city", "city", "town", "municipality", "village"}
	postalCodeKeys   = []string{"addr:postcode", "postcode"}
	countryKeys      = []string{"addr:country", "country"}
)

// defaultPOICategories gates point-of-interest capture when the caller
// supplies no allow-list of its own
var defaultPOICategories = []string{"amenity", "tourism", "shop", "leisure", "historic"}

// Options configures the Normalizer
type Options struct {
	// POICategories is the allow-list of geocoder classes captured as a
	// point of interest; empty means the default list
	POICategories []string
}

// Normalizer turns raw geocoder payloads into Address values. It never
// returns an error: malformed input degrades to absent fields
type Normalizer struct {
	poiAllow map[string]struct{}
}

// New creates a Normalizer with default options
func New() *Normalizer { return NewWithOptions(Options{}) }

// NewWithOptions creates a Normalizer with a custom POI allow-list
func NewWithOptions(opts Options) *Normalizer {
	cats := opts.POICategories
	if len(cats) == 0 {
		cats = defaultPOICategories
	}
	allow := make(map[string]struct{}, len(cats))
	for _, c := range cats {
		allow[strings.ToLower(strings.TrimSpace(c))] = struct{}{}
	}
	return &Normalizer{poiAllow: allow}
}

// Normalize builds an Address from a raw decoded geocoder payload.
// nil or unusable input yields an all-absent Address
func (n *Normalizer) Normalize(raw map[string]any) Address {
	src := newSource(raw)

	a := Address{
		Street:       src.first(streetKeys),
		HouseNumber:  src.first(houseNumberKeys),
		Neighborhood: src.first(neighborhoodKeys),
		Municipality: src.first(municipalityKeys),
		PostalCode:   src.first(postalCodeKeys),
	}

	n.resolveState(&a, src)
	a.Country = resolveCountry(src)
	a.PointOfInterest = n.resolvePOI(raw)

	return a
}

// resolveState splits the source state slot across State (full name) and
// StateAbbreviation (two uppercase letters). A two-letter value in the
// tag-style addr:state slot is the backward-compat case and lands in both
func (n *Normalizer) resolveState(a *Address, src source) {
	// abbreviation from its own slots first
	abbr := twoLetter(src.lookup("state_code"))
	if !abbr.Present() {
		abbr = parseISOLevel4(src.lookup("ISO3166-2-lvl4"))
	}

	legacy := src.lookup("addr:state")
	state := legacy
	if !state.Present() {
		state = src.lookup("state")
	}

	if two := twoLetter(state); two.Present() {
		if !abbr.Present() {
			abbr = two
		}
		if state.Equal(legacy) {
			// legacy slot keeps the value in both fields
			a.State = state
		}
	} else {
		a.State = state
	}
	a.StateAbbreviation = abbr
}

// parseISOLevel4 extracts the UF from an ISO3166-2 level-4 code such as
// "BR-RJ". Anything else (wrong prefix, wrong length, non-letters) is absent
func parseISOLevel4(f Field) Field {
	s := f.Str()
	if len(s) != 5 || !strings.HasPrefix(s, "BR-") {
		return Absent()
	}
	return twoLetter(String(s[3:]))
}

// twoLetter returns the uppercased value when f holds exactly two ASCII
// letters, absent otherwise
func twoLetter(f Field) Field {
	s := f.Str()
	if len(s) != 2 {
		return Absent()
	}
	for i := 0; i < 2; i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return Absent()
		}
	}
	return String(strings.ToUpper(s))
}

// resolveCountry prefers an explicit country value and falls back to
// "Brasil" when the payload carries any Brazilian signal
func resolveCountry(src source) Field {
	if c := src.first(countryKeys); c.Present() {
		return c
	}
	if src.hasBrazilSignal() {
		return String("Brasil")
	}
	return Absent()
}

// resolvePOI captures the top-level class/type/name triple when the class is
// allow-listed
func (n *Normalizer) resolvePOI(raw map[string]any) *PointOfInterest {
	if raw == nil {
		return nil
	}
	class, _ := raw["class"].(string)
	name, _ := raw["name"].(string)
	if class == "" || name == "" {
		return nil
	}
	if _, ok := n.poiAllow[strings.ToLower(class)]; !ok {
		return nil
	}
	typ, _ := raw["type"].(string)
	return &PointOfInterest{Category: class, Type: typ, Name: name}
}

// source resolves keys over the flat payload and the nested "address" object
type source struct {
	top  map[string]any
	addr map[string]any
}

func newSource(raw map[string]any) source {
	s := source{top: raw}
	if raw != nil {
		if m, ok := raw["address"].(map[string]any); ok {
			s.addr = m
		}
	}
	return s
}

// lookup checks the nested address object first, then the flat payload
func (s source) lookup(key string) Field {
	if s.addr != nil {
		if v, ok := s.addr[key]; ok {
			if f := Of(v); f.Present() {
				return f
			}
		}
	}
	if s.top != nil {
		if v, ok := s.top[key]; ok {
			if f := Of(v); f.Present() {
				return f
			}
		}
	}
	return Absent()
}

// first returns the first present value among keys
func (s source) first(keys []string) Field {
	for _, k := range keys {
		if f := s.lookup(k); f.Present() {
			return f
		}
	}
	return Absent()
}

// hasBrazilSignal reports whether the payload looks Brazilian: a br country
// code, a BR- ISO code, or a CEP-shaped postal code
func (s source) hasBrazilSignal() bool {
	if cc := s.lookup("country_code"); strings.EqualFold(cc.Str(), "br") {
		return true
	}
	if iso := s.lookup("ISO3166-2-lvl4"); parseISOLevel4(iso).Present() {
		return true
	}
	return isCEP(s.first(postalCodeKeys).Str())
}

// isCEP reports whether s looks like a Brazilian postal code: NNNNN-NNN or
// eight bare digits
func isCEP(s string) bool {
	switch len(s) {
	case 9:
		if s[5] != '-' {
			return false
		}
		s = s[:5] + s[6:]
	case 8:
	default:
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
