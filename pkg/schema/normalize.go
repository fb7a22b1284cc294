package schema

import "strings"

// Normalize converts an identifier or label to the canonical snake_case form
// used for cross-naming comparison: lowercase, every run of non-alphanumeric
// characters collapsed to a single underscore, leading and trailing
// underscores trimmed.
func Normalize(s string) string {
	lower := strings.ToLower(strings.TrimSpace(s))
	if lower == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(lower))
	pendingSep := false
	for _, r := range lower {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// LabelKey returns the normalized form of the field label, the key external
// records conventionally derive their names from.
func LabelKey(f Field) string {
	return Normalize(f.Label)
}

// SplitKey breaks a normalized key into its underscore-separated words.
func SplitKey(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, "_")
}
