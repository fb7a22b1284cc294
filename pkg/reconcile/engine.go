// Package reconcile merges backend records into form value maps under a
// workflow schema, and builds the inverse flat submission payload. Matching
// is a deterministic strategy ladder: exact id, normalized id, name-as-id,
// label, suffix, word-boundary containment, then the flat-bag retries with
// the country last resort between the identifier-driven and label-driven
// ones. First strategy yielding a non-empty value wins.
package reconcile

import (
	"strings"

	"github.com/goliatone/go-flowform/pkg/record"
	"github.com/goliatone/go-flowform/pkg/schema"
	"github.com/goliatone/go-flowform/pkg/values"
)

// Engine resolves workflow fields against external records.
type Engine struct{}

// New constructs an Engine.
func New() *Engine {
	return &Engine{}
}

// Merge resolves every schema field against the record and returns a new
// value map derived from into. Fields that already hold a non-empty value are
// never overwritten and never unset, so merging the same inputs twice is a
// no-op after the first pass.
func (e *Engine) Merge(w schema.Workflow, rec record.Record, into values.Map) (values.Map, Report) {
	out := into.Clone()
	report := Report{Resolutions: make(map[string]Resolution)}

	for _, step := range w.Steps {
		for _, field := range step.Fields {
			if out.Has(field.ID) {
				continue
			}
			raw, res, ok := resolve(field, step, rec)
			if !ok {
				continue
			}
			v := Coerce(field.Type, raw)
			if values.IsEmpty(v) {
				continue
			}
			if field.HasOptions() {
				canonical, matched, misses := canonicalize(field, v)
				report.Unmatched = append(report.Unmatched, misses...)
				if !matched {
					continue
				}
				v = canonical
			}
			out[field.ID] = v
			report.Resolutions[field.ID] = res
		}
	}
	return out, report
}

// resolve runs the strategy ladder for one field. Each strategy is tried
// against every candidate before moving to the next, so a lower-priority
// match never shadows a higher-priority one later in the record.
func resolve(field schema.Field, step schema.Step, rec record.Record) (any, Resolution, bool) {
	normID := schema.Normalize(field.ID)
	normLabel := schema.Normalize(field.Label)
	nested := nestedFields(rec)

	// 1. exact field_id match
	for _, nf := range nested {
		if nf.FieldID != "" && nf.FieldID == field.ID && nonEmpty(nf.Value) {
			return nf.Value, Resolution{StrategyExactID, nf.FieldID}, true
		}
	}
	// 2. normalized identifier match
	for _, nf := range nested {
		if nf.FieldID != "" && schema.Normalize(nf.FieldID) == normID && nonEmpty(nf.Value) {
			return nf.Value, Resolution{StrategyNormalizedID, nf.FieldID}, true
		}
	}
	// 3. raw name equals the field id
	for _, nf := range nested {
		if nf.Name != "" && nf.Name == field.ID && nonEmpty(nf.Value) {
			return nf.Value, Resolution{StrategyNameAsID, nf.Name}, true
		}
	}
	// 4. name matches the normalized label
	if normLabel != "" {
		for _, nf := range nested {
			if schema.Normalize(nf.Name) == normLabel && nonEmpty(nf.Value) {
				return nf.Value, Resolution{StrategyLabel, nf.Name}, true
			}
		}
		// 5. suffix match: address_country satisfies a "Country" label
		for _, nf := range nested {
			if hasLabelSuffix(schema.Normalize(nf.Name), normLabel) && nonEmpty(nf.Value) {
				return nf.Value, Resolution{StrategySuffix, nf.Name}, true
			}
		}
		// 6. word-boundary containment
		for _, nf := range nested {
			if containsLabelWords(schema.Normalize(nf.Name), normLabel) && nonEmpty(nf.Value) {
				return nf.Value, Resolution{StrategyWordBoundary, nf.Name}, true
			}
		}
	}

	// 7a. flat-bag retry of the identifier strategies. These run before the
	// country ladder: a key equal to the field's own id is better scoped
	// than any heuristic country key.
	if raw, res, ok := resolveFlatID(field, normID, rec); ok {
		return raw, res, true
	}

	// Country-labeled fields consult the literal flat keys with a
	// step-context preference before the label-driven flat retries;
	// otherwise a bare "country" key would win for an address-step field
	// that has a better-scoped address_country available.
	if raw, key, ok := resolveCountry(field, step, rec); ok {
		return raw, Resolution{StrategyCountry, key}, true
	}

	// 7b. flat-bag retry of the label strategies, administrative keys skipped
	if raw, res, ok := resolveFlatLabel(normLabel, rec); ok {
		return raw, res, true
	}
	return nil, Resolution{}, false
}

func matchFlat(rec record.Record, pred func(key string) bool) (any, Resolution, bool) {
	keys, bag := rec.Flat()
	for _, key := range keys {
		if pred(key) && nonEmpty(bag[key]) {
			return bag[key], Resolution{StrategyFlat, key}, true
		}
	}
	return nil, Resolution{}, false
}

func resolveFlatID(field schema.Field, normID string, rec record.Record) (any, Resolution, bool) {
	if raw, res, ok := matchFlat(rec, func(k string) bool { return schema.Normalize(k) == normID }); ok {
		return raw, res, true
	}
	return matchFlat(rec, func(k string) bool { return k == field.ID })
}

func resolveFlatLabel(normLabel string, rec record.Record) (any, Resolution, bool) {
	if normLabel == "" {
		return nil, Resolution{}, false
	}
	if raw, res, ok := matchFlat(rec, func(k string) bool { return schema.Normalize(k) == normLabel }); ok {
		return raw, res, true
	}
	if raw, res, ok := matchFlat(rec, func(k string) bool { return hasLabelSuffix(schema.Normalize(k), normLabel) }); ok {
		return raw, res, true
	}
	return matchFlat(rec, func(k string) bool { return containsLabelWords(schema.Normalize(k), normLabel) })
}

// countryKeys in base priority order. Address-context steps keep this order;
// everywhere else the bare country key outranks the address-scoped one.
var countryKeys = []string{"address_country", "country", "country_name", "country_code"}

func resolveCountry(field schema.Field, step schema.Step, rec record.Record) (any, string, bool) {
	if !strings.Contains(strings.ToLower(field.Label), "country") {
		return nil, "", false
	}
	order := append([]string(nil), countryKeys...)
	if !addressContext(step) {
		order[0], order[1] = order[1], order[0]
	}
	for _, key := range order {
		if raw, ok := rec.FlatValue(key); ok && nonEmpty(raw) {
			return raw, key, true
		}
	}
	return nil, "", false
}

// addressContext reports whether the step looks like an address step, which
// flips the country key preference toward address_country.
func addressContext(step schema.Step) bool {
	for _, word := range schema.SplitKey(schema.Normalize(step.Name)) {
		if strings.HasPrefix(word, "address") {
			return true
		}
	}
	return false
}

func nestedFields(rec record.Record) []record.Field {
	var out []record.Field
	for _, step := range rec.Steps() {
		out = append(out, step.Fields...)
	}
	return out
}

func nonEmpty(v any) bool {
	return !values.IsEmpty(v)
}

// hasLabelSuffix reports whether the normalized name ends with the label,
// either outright or behind a domain prefix: address_country matches label
// country.
func hasLabelSuffix(name, label string) bool {
	if name == "" || label == "" {
		return false
	}
	return name == label || strings.HasSuffix(name, "_"+label)
}

// containsLabelWords reports whether the label appears as a contiguous run of
// whole words behind at least one prefix word. The prefix requirement keeps
// qualified keys like country_code from satisfying a bare country label while
// address_country still does.
func containsLabelWords(name, label string) bool {
	if name == "" || label == "" || name == label {
		return false
	}
	parts := schema.SplitKey(name)
	want := schema.SplitKey(label)
	if len(want) == 0 || len(parts) <= len(want) {
		return false
	}
	for start := 1; start+len(want) <= len(parts); start++ {
		matched := true
		for i, w := range want {
			if parts[start+i] != w {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
