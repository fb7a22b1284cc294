package reconcile

import (
	"strings"

	"github.com/goliatone/go-flowform/pkg/schema"
)

// CanonicalOption matches a resolved value against a closed options list:
// exact match first, then case-insensitive with whitespace trimmed (replacing
// the value with the exactly-cased option), then a bidirectional substring
// match as a last resort. The second return reports whether a canonical
// option was found; when it is false the caller should treat the selection as
// unmatched rather than accept the raw value.
func CanonicalOption(options []string, value string) (string, bool) {
	for _, opt := range options {
		if opt == value {
			return opt, true
		}
	}

	needle := strings.ToLower(strings.TrimSpace(value))
	if needle == "" {
		return value, false
	}
	for _, opt := range options {
		if strings.ToLower(strings.TrimSpace(opt)) == needle {
			return opt, true
		}
	}
	for _, opt := range options {
		haystack := strings.ToLower(strings.TrimSpace(opt))
		if strings.Contains(needle, haystack) || strings.Contains(haystack, needle) {
			return opt, true
		}
	}
	return value, false
}

// canonicalize applies option matching to single- and multi-valued
// selections. For multiselect every element is matched independently;
// elements that match no option are dropped and reported, and the field is
// left unset only when nothing matched at all.
func canonicalize(field schema.Field, v any) (any, bool, []OptionMismatch) {
	switch t := v.(type) {
	case string:
		canonical, ok := CanonicalOption(field.Options, t)
		if !ok {
			return nil, false, []OptionMismatch{{FieldID: field.ID, Value: t}}
		}
		return canonical, true, nil
	case []string:
		var (
			kept   []string
			misses []OptionMismatch
		)
		for _, item := range t {
			canonical, ok := CanonicalOption(field.Options, item)
			if !ok {
				misses = append(misses, OptionMismatch{FieldID: field.ID, Value: item})
				continue
			}
			kept = append(kept, canonical)
		}
		if len(kept) == 0 {
			return nil, false, misses
		}
		return kept, true, misses
	default:
		return v, true, nil
	}
}
