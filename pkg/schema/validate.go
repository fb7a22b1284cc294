package schema

import (
	"fmt"
	"regexp"
	"strings"
)

var validFieldTypes = map[FieldType]struct{}{
	FieldText: {}, FieldEmail: {}, FieldNumber: {}, FieldPhone: {},
	FieldURL: {}, FieldTextarea: {}, FieldDate: {}, FieldTime: {},
	FieldDateRange: {}, FieldCheckbox: {}, FieldSwitch: {}, FieldSelect: {},
	FieldRadio: {}, FieldCombobox: {}, FieldMultiselect: {}, FieldSlider: {},
	FieldRating: {}, FieldFile: {}, FieldColor: {},
}

// Validate checks the structural invariants: non-empty workflow id, contiguous
// 1-based step order, field ids unique across all steps, known field types,
// options present on closed-option fields, and compilable patterns.
func (w *Workflow) Validate() error {
	if strings.TrimSpace(w.ID) == "" {
		return fmt.Errorf("workflow: id is required")
	}
	seen := make(map[string]string, 16)
	for i, step := range w.Steps {
		if step.Order != i+1 {
			return fmt.Errorf("workflow %s: step %q has order %d, want %d", w.ID, step.Name, step.Order, i+1)
		}
		for _, field := range step.Fields {
			if strings.TrimSpace(field.ID) == "" {
				return fmt.Errorf("workflow %s: step %q contains a field without id", w.ID, step.Name)
			}
			if owner, dup := seen[field.ID]; dup {
				return fmt.Errorf("workflow %s: field id %q duplicated between steps %q and %q", w.ID, field.ID, owner, step.Name)
			}
			seen[field.ID] = step.Name
			if _, ok := validFieldTypes[field.Type]; !ok {
				return fmt.Errorf("workflow %s: field %q has unknown type %q", w.ID, field.ID, field.Type)
			}
			if field.HasOptions() && len(field.Options) == 0 {
				return fmt.Errorf("workflow %s: field %q of type %s requires options", w.ID, field.ID, field.Type)
			}
			if field.Validation != nil && field.Validation.Pattern != "" {
				if _, err := regexp.Compile(field.Validation.Pattern); err != nil {
					return fmt.Errorf("workflow %s: field %q pattern: %w", w.ID, field.ID, err)
				}
			}
		}
	}
	return nil
}
