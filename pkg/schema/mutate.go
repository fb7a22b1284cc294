package schema

import "fmt"

// Renumber restores the contiguous 1..N step order invariant. Every mutation
// helper calls it; callers that edit Steps directly should too.
func (w *Workflow) Renumber() {
	for i := range w.Steps {
		w.Steps[i].Order = i + 1
	}
}

// AddStep appends a step and renumbers.
func (w *Workflow) AddStep(step Step) {
	w.Steps = append(w.Steps, step)
	w.Renumber()
}

// InsertStep places a step at index, clamping into range, and renumbers.
func (w *Workflow) InsertStep(index int, step Step) {
	if index < 0 {
		index = 0
	}
	if index > len(w.Steps) {
		index = len(w.Steps)
	}
	w.Steps = append(w.Steps, Step{})
	copy(w.Steps[index+1:], w.Steps[index:])
	w.Steps[index] = step
	w.Renumber()
}

// RemoveStep deletes the step with the given id and renumbers. It reports
// whether a step was removed.
func (w *Workflow) RemoveStep(stepID string) bool {
	for i, step := range w.Steps {
		if step.ID == stepID {
			w.Steps = append(w.Steps[:i], w.Steps[i+1:]...)
			w.Renumber()
			return true
		}
	}
	return false
}

// MoveStep relocates the step at from to position to (both zero-based) and
// renumbers. Out-of-range indices are an error so drag handlers surface bugs
// instead of silently reordering.
func (w *Workflow) MoveStep(from, to int) error {
	n := len(w.Steps)
	if from < 0 || from >= n {
		return fmt.Errorf("workflow %s: move step: from index %d out of range", w.ID, from)
	}
	if to < 0 || to >= n {
		return fmt.Errorf("workflow %s: move step: to index %d out of range", w.ID, to)
	}
	if from == to {
		return nil
	}
	step := w.Steps[from]
	w.Steps = append(w.Steps[:from], w.Steps[from+1:]...)
	w.Steps = append(w.Steps, Step{})
	copy(w.Steps[to+1:], w.Steps[to:])
	w.Steps[to] = step
	w.Renumber()
	return nil
}

// AddField appends a field to the step with the given id.
func (w *Workflow) AddField(stepID string, field Field) error {
	for i := range w.Steps {
		if w.Steps[i].ID == stepID {
			w.Steps[i].Fields = append(w.Steps[i].Fields, field)
			return nil
		}
	}
	return fmt.Errorf("workflow %s: add field: step %q not found", w.ID, stepID)
}

// RemoveField deletes a field by id wherever it lives. It reports whether a
// field was removed.
func (w *Workflow) RemoveField(fieldID string) bool {
	for i := range w.Steps {
		fields := w.Steps[i].Fields
		for j, field := range fields {
			if field.ID == fieldID {
				w.Steps[i].Fields = append(fields[:j], fields[j+1:]...)
				return true
			}
		}
	}
	return false
}

// MoveField relocates a field inside its owning step.
func (w *Workflow) MoveField(stepID string, from, to int) error {
	for i := range w.Steps {
		if w.Steps[i].ID != stepID {
			continue
		}
		fields := w.Steps[i].Fields
		n := len(fields)
		if from < 0 || from >= n || to < 0 || to >= n {
			return fmt.Errorf("workflow %s: move field: index out of range", w.ID)
		}
		if from == to {
			return nil
		}
		field := fields[from]
		fields = append(fields[:from], fields[from+1:]...)
		fields = append(fields, Field{})
		copy(fields[to+1:], fields[to:])
		fields[to] = field
		w.Steps[i].Fields = fields
		return nil
	}
	return fmt.Errorf("workflow %s: move field: step %q not found", w.ID, stepID)
}
