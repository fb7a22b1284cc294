package reconcile

import (
	"github.com/goliatone/go-flowform/pkg/schema"
	"github.com/goliatone/go-flowform/pkg/values"
)

// Payload builds the flat submission payload from the form values. Every
// non-empty value is written under the normalized label key, the raw field
// id, and the normalized field id when it differs from the label key, so the
// backend's validator finds the value under whichever convention it expects.
func (e *Engine) Payload(w schema.Workflow, vals values.Map) map[string]any {
	payload := make(map[string]any, len(vals)*2)
	for _, field := range w.AllFields() {
		v, ok := vals.Get(field.ID)
		if !ok || values.IsEmpty(v) {
			continue
		}
		v = payloadValue(v)

		labelKey := schema.LabelKey(field)
		if labelKey != "" {
			payload[labelKey] = v
		}
		payload[field.ID] = v
		if normID := schema.Normalize(field.ID); normID != "" && normID != labelKey {
			payload[normID] = v
		}
	}
	return payload
}

func payloadValue(v any) any {
	switch t := v.(type) {
	case values.Range:
		return map[string]any{"start": t.Start, "end": t.End}
	case *values.Range:
		if t == nil {
			return nil
		}
		return map[string]any{"start": t.Start, "end": t.End}
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
