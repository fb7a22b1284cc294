package reconcile

// Strategy names the matching rule that resolved a field. Values are ordered
// by priority; the engine records which one fired for diagnostics.
type Strategy string

const (
	StrategyExactID      Strategy = "exact_id"
	StrategyNormalizedID Strategy = "normalized_id"
	StrategyNameAsID     Strategy = "name_as_id"
	StrategyLabel        Strategy = "label"
	StrategySuffix       Strategy = "suffix"
	StrategyWordBoundary Strategy = "word_boundary"
	StrategyFlat         Strategy = "flat"
	StrategyCountry      Strategy = "country"
)

// Resolution records where one field's value came from.
type Resolution struct {
	Strategy  Strategy
	SourceKey string
}

// OptionMismatch flags a resolved value that matched no declared option on a
// closed-option field. The field is left unset; the raw value is retained
// here so callers can surface a diagnostic instead of silently accepting an
// invalid selection.
type OptionMismatch struct {
	FieldID string
	Value   string
}

// Report is the merge outcome: which strategy resolved each field, and which
// selection values could not be matched to an option.
type Report struct {
	Resolutions map[string]Resolution
	Unmatched   []OptionMismatch
}

// Resolved reports whether the engine found a value for the field during this
// merge. Fields skipped because they already held a value do not appear.
func (r Report) Resolved(fieldID string) bool {
	_, ok := r.Resolutions[fieldID]
	return ok
}
