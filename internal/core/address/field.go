package address

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// Kind discriminates the value held by a Field
type Kind uint8

const (
	// KindAbsent means the source carried no usable value
	KindAbsent Kind = iota
	// KindString is the common case of a textual value
	KindString
	// KindOther preserves a non-string source value as-is
	KindOther
)

// Field is a tagged union over a single address component.
// Geocoder payloads are permissive: a number or boolean in a text slot is
// preserved rather than coerced or rejected, and equality stays total
type Field struct {
	kind Kind
	str  string
	raw  any
}

// Absent returns the empty Field
func Absent() Field { return Field{} }

// String returns a Field holding s. An empty string is treated as absent so
// that unset components never masquerade as data
func String(s string) Field {
	if s == "" {
		return Field{}
	}
	return Field{kind: KindString, str: s}
}

// Other returns a Field preserving a non-string source value
func Other(v any) Field {
	if v == nil {
		return Field{}
	}
	return Field{kind: KindOther, raw: v}
}

// Of classifies an arbitrary decoded JSON value into a Field
func Of(v any) Field {
	switch t := v.(type) {
	case nil:
		return Field{}
	case string:
		return String(t)
	default:
		return Other(v)
	}
}

// Kind returns the discriminator
func (f Field) Kind() Kind { return f.kind }

// Present reports whether the field holds any value
func (f Field) Present() bool { return f.kind != KindAbsent }

// Str returns the string value, or "" for absent and non-string fields
func (f Field) Str() string { return f.str }

// Raw returns the preserved non-string value, or nil
func (f Field) Raw() any { return f.raw }

// Text renders the field for display and announcements
func (f Field) Text() string {
	switch f.kind {
	case KindString:
		return f.str
	case KindOther:
		return fmt.Sprint(f.raw)
	default:
		return ""
	}
}

// Equal reports whether two fields hold the same value.
// Total over all kinds: absent equals only absent
func (f Field) Equal(o Field) bool {
	if f.kind != o.kind {
		return false
	}
	switch f.kind {
	case KindString:
		return f.str == o.str
	case KindOther:
		return reflect.DeepEqual(f.raw, o.raw)
	default:
		return true
	}
}

// MarshalJSON renders absent as null, strings as strings, and preserved
// values untouched
func (f Field) MarshalJSON() ([]byte, error) {
	switch f.kind {
	case KindString:
		return json.Marshal(f.str)
	case KindOther:
		return json.Marshal(f.raw)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON
func (f *Field) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Of(v)
	return nil
}
