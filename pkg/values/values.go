// Package values holds the in-memory form state: a map from field id to a
// dynamically-typed value. The map is never persisted; it lives for one
// wizard session. Updates are copy-on-write so nearly-simultaneous async
// completions always derive from the latest state instead of a stale
// snapshot.
package values

import "strings"

// Range is the value shape for daterange fields.
type Range struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// IsZero reports whether both bounds are unset.
func (r Range) IsZero() bool {
	return strings.TrimSpace(r.Start) == "" && strings.TrimSpace(r.End) == ""
}

// Map is a form value map keyed by field id. An absent key means "untouched".
type Map map[string]any

// Clone returns a shallow copy. Values are treated as immutable by
// convention; slices stored in the map are replaced, never mutated in place.
func (m Map) Clone() Map {
	out := make(Map, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Set returns a copy of the map with the field set. The receiver is left
// untouched.
func (m Map) Set(fieldID string, v any) Map {
	out := m.Clone()
	out[fieldID] = v
	return out
}

// Unset returns a copy of the map without the field.
func (m Map) Unset(fieldID string) Map {
	out := m.Clone()
	delete(out, fieldID)
	return out
}

// Get returns the value and whether the field has been touched.
func (m Map) Get(fieldID string) (any, bool) {
	v, ok := m[fieldID]
	return v, ok
}

// Has reports whether the field holds a non-empty value.
func (m Map) Has(fieldID string) bool {
	v, ok := m[fieldID]
	return ok && !IsEmpty(v)
}

// IsEmpty implements the "no value" policy used by required-field validation
// and by the reconciliation engine's non-empty checks: nil, empty or
// whitespace-only strings, false booleans, empty slices, and zero Ranges all
// count as empty. Numbers, including zero, are values.
func IsEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case bool:
		return !t
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case Range:
		return t.IsZero()
	case *Range:
		return t == nil || t.IsZero()
	default:
		return false
	}
}
