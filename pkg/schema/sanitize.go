package schema

import "github.com/microcosm-cc/bluemonday"

var strict = bluemonday.StrictPolicy()

// Sanitize strips markup from the display metadata (workflow name and
// description, step names and descriptions, field labels). Schemas arrive
// from a remote API and their text ends up in rendered UI, so they are never
// trusted as HTML.
func (w *Workflow) Sanitize() {
	w.Name = strict.Sanitize(w.Name)
	w.Description = strict.Sanitize(w.Description)
	for i := range w.Steps {
		w.Steps[i].Name = strict.Sanitize(w.Steps[i].Name)
		w.Steps[i].Description = strict.Sanitize(w.Steps[i].Description)
		for j := range w.Steps[i].Fields {
			w.Steps[i].Fields[j].Label = strict.Sanitize(w.Steps[i].Fields[j].Label)
		}
	}
}
