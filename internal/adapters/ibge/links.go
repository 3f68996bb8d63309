package ibge

import (
	"net/url"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// PanoramaURL builds the public IBGE panorama page for a municipality,
// e.g. https://cidades.ibge.gov.br/brasil/mg/serro/panorama
func PanoramaURL(municipality, uf string) string {
	if municipality == "" || uf == "" {
		return ""
	}
	return "https://cidades.ibge.gov.br/brasil/" +
		strings.ToLower(uf) + "/" + slugify(municipality) + "/panorama"
}

// StateAPIURL builds the localities API endpoint for one UF
func StateAPIURL(uf string) string {
	if uf == "" {
		return ""
	}
	return baseURLDefault + "/localidades/estados/" + url.PathEscape(uf)
}

// MunicipalitiesAPIURL builds the localities API endpoint listing a UF's
// municipalities
func MunicipalitiesAPIURL(uf string) string {
	if uf == "" {
		return ""
	}
	return baseURLDefault + "/localidades/estados/" + url.PathEscape(uf) + "/municipios"
}

// slugChain decomposes accented letters and drops the combining marks, so
// "São Paulo" folds to "Sao Paulo" before lowercasing
var slugChain = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// slugify lowercases and strips accents the way the panorama site addresses
// municipalities ("São Paulo" -> "sao-paulo")
func slugify(s string) string {
	folded, _, err := transform.String(slugChain, s)
	if err != nil {
		folded = s
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}
