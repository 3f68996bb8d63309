package address

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Fingerprint returns a stable key for a raw geocoder payload, used to memoize
// normalization of byte-identical responses. encoding/json sorts map keys, so
// equal payloads fingerprint equally regardless of decode order
func Fingerprint(raw map[string]any) string {
	b, err := json.Marshal(raw)
	if err != nil {
		// unmarshalable values (channels etc) cannot come from decoded JSON,
		// but a caller-built map might carry them
		b = []byte(fmt.Sprintf("%#v", raw))
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
