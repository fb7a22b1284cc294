package reconcile

import (
	"github.com/goliatone/go-flowform/pkg/schema"
)

// MatchField maps an external field reference (a name and an optional label,
// as returned by the validation API) onto a schema field id using the same
// strategy ladder the merge path uses. The first field in step order that
// satisfies the highest-priority strategy wins.
func MatchField(w schema.Workflow, name, label string) (string, bool) {
	normName := schema.Normalize(name)
	normLabel := schema.Normalize(label)
	fields := w.AllFields()

	type predicate func(f schema.Field) bool
	ladder := []predicate{
		func(f schema.Field) bool { return name != "" && f.ID == name },
		func(f schema.Field) bool { return normName != "" && schema.Normalize(f.ID) == normName },
		func(f schema.Field) bool { return normName != "" && schema.LabelKey(f) == normName },
		func(f schema.Field) bool {
			return normLabel != "" && (schema.LabelKey(f) == normLabel || schema.Normalize(f.ID) == normLabel)
		},
		func(f schema.Field) bool { return hasLabelSuffix(normName, schema.LabelKey(f)) },
		func(f schema.Field) bool { return containsLabelWords(normName, schema.LabelKey(f)) },
	}

	for _, match := range ladder {
		for _, field := range fields {
			if match(field) {
				return field.ID, true
			}
		}
	}
	return "", false
}
