package speech

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// sanitizeChain composes to NFC, folds width variants, and strips invisible
// format runes. Accented letters stay intact: the synthesizer speaks
// Portuguese and "São Paulo" must not become "Sao Paulo"
var sanitizeChain = transform.Chain(
	norm.NFC,
	width.Fold,
	runes.Remove(runes.In(unicode.Cf)),
)

// Sanitize prepares free-form address text for the speech engine: Unicode
// cleanup plus whitespace collapse. Unconvertible input falls back to a
// whitespace-collapsed copy of the original
func Sanitize(s string) string {
	out, _, err := transform.String(sanitizeChain, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(out), " ")
}
