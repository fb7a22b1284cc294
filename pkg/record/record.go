// Package record wraps the backend-owned record shape: a flat key/value bag,
// a nested steps[].fields[] structure, or both at once. Keys follow no single
// convention; reconciliation against a workflow schema happens in
// pkg/reconcile.
package record

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Field is one entry of the structured shape. Name is the backend's key for
// the value, FieldID is the schema field id when the backend kept it, Label
// is display-only.
type Field struct {
	Name    string `json:"name"`
	FieldID string `json:"field_id"`
	Label   string `json:"label"`
	Value   any    `json:"value"`
}

// Step groups structured fields under the backend's step name.
type Step struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Record holds both shapes. Either may be empty.
type Record struct {
	flat  map[string]any
	steps []Step
}

// Parse decodes a record payload. A "steps" key holding the structured shape
// is lifted out of the flat bag; everything else stays flat.
func Parse(data []byte) (Record, error) {
	if len(data) == 0 {
		return Record{}, fmt.Errorf("record: payload is empty")
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return Record{}, fmt.Errorf("record: decode: %w", err)
	}
	return FromMap(raw), nil
}

// FromMap builds a Record from an already-decoded payload.
func FromMap(raw map[string]any) Record {
	rec := Record{flat: make(map[string]any, len(raw))}
	for k, v := range raw {
		if k == "steps" {
			rec.steps = parseSteps(v)
			continue
		}
		rec.flat[k] = v
	}
	return rec
}

func parseSteps(v any) []Step {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	steps := make([]Step, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		step := Step{Name: cast.ToString(m["name"])}
		fields, _ := m["fields"].([]any)
		for _, fv := range fields {
			fm, ok := fv.(map[string]any)
			if !ok {
				continue
			}
			step.Fields = append(step.Fields, Field{
				Name:    cast.ToString(fm["name"]),
				FieldID: cast.ToString(fm["field_id"]),
				Label:   cast.ToString(fm["label"]),
				Value:   fm["value"],
			})
		}
		steps = append(steps, step)
	}
	return steps
}

// administrative keys that never map to user fields.
func isAdminKey(key string) bool {
	switch key {
	case "id", "created_at", "updated_at", "created_by", "updated_by", "steps":
		return true
	}
	return strings.HasSuffix(key, "_id")
}

// Flat returns the flat bag without administrative keys. Keys are returned in
// sorted order for deterministic strategy evaluation.
func (r Record) Flat() ([]string, map[string]any) {
	bag := make(map[string]any, len(r.flat))
	keys := make([]string, 0, len(r.flat))
	for k, v := range r.flat {
		if isAdminKey(k) {
			continue
		}
		bag[k] = v
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, bag
}

// FlatValue looks up a literal key in the flat bag, administrative keys
// included. Used by the country last-resort lookup which names its keys
// outright.
func (r Record) FlatValue(key string) (any, bool) {
	v, ok := r.flat[key]
	return v, ok
}

// Steps returns the structured shape.
func (r Record) Steps() []Step {
	return r.steps
}

// Empty reports whether neither shape carries data.
func (r Record) Empty() bool {
	return len(r.flat) == 0 && len(r.steps) == 0
}
