package schema

import "time"

// FieldType enumerates the input kinds a workflow field can take. The set is
// closed: renderers and the reconciliation engine switch on it, so unknown
// values are rejected by Workflow.Validate.
type FieldType string

const (
	FieldText        FieldType = "text"
	FieldEmail       FieldType = "email"
	FieldNumber      FieldType = "number"
	FieldPhone       FieldType = "phone"
	FieldURL         FieldType = "url"
	FieldTextarea    FieldType = "textarea"
	FieldDate        FieldType = "date"
	FieldTime        FieldType = "time"
	FieldDateRange   FieldType = "daterange"
	FieldCheckbox    FieldType = "checkbox"
	FieldSwitch      FieldType = "switch"
	FieldSelect      FieldType = "select"
	FieldRadio       FieldType = "radio"
	FieldCombobox    FieldType = "combobox"
	FieldMultiselect FieldType = "multiselect"
	FieldSlider      FieldType = "slider"
	FieldRating      FieldType = "rating"
	FieldFile        FieldType = "file"
	FieldColor       FieldType = "color"
)

// Width is the column-span layout hint. It never affects behaviour beyond
// rendering.
type Width string

const (
	WidthFull  Width = "full"
	WidthHalf  Width = "half"
	WidthThird Width = "third"
)

// Validation carries the optional per-field constraints. Which members apply
// depends on the field type: Min/Max bound numeric values, Pattern is a
// regular expression matched against string values, Accept lists permitted
// file extensions or MIME types.
type Validation struct {
	Min     *float64 `json:"min,omitempty" yaml:"min,omitempty"`
	Max     *float64 `json:"max,omitempty" yaml:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Accept  []string `json:"accept,omitempty" yaml:"accept,omitempty"`
}

// Layout holds rendering hints for a field.
type Layout struct {
	Width Width `json:"width,omitempty" yaml:"width,omitempty"`
}

// Config holds type-specific extras.
type Config struct {
	SliderStep float64 `json:"sliderStep,omitempty" yaml:"sliderStep,omitempty"`
	RatingMax  int     `json:"ratingMax,omitempty" yaml:"ratingMax,omitempty"`
	MaxFiles   int     `json:"maxFiles,omitempty" yaml:"maxFiles,omitempty"`
}

// Field models one input inside a workflow step. ID is the stable form-state
// key and must be unique across the whole workflow; Label is the display name
// and doubles as the semantic matching key when an external record does not
// carry the ID.
type Field struct {
	ID         string      `json:"id" yaml:"id"`
	Type       FieldType   `json:"type" yaml:"type"`
	Label      string      `json:"label" yaml:"label"`
	Required   bool        `json:"required,omitempty" yaml:"required,omitempty"`
	Options    []string    `json:"options,omitempty" yaml:"options,omitempty"`
	Validation *Validation `json:"validation,omitempty" yaml:"validation,omitempty"`
	Layout     *Layout     `json:"layout,omitempty" yaml:"layout,omitempty"`
	Config     *Config     `json:"config,omitempty" yaml:"config,omitempty"`
}

// HasOptions reports whether the field type carries a closed options list.
func (f Field) HasOptions() bool {
	switch f.Type {
	case FieldSelect, FieldRadio, FieldCombobox, FieldMultiselect:
		return true
	default:
		return false
	}
}

// Step groups an ordered run of fields. Order is 1-based and contiguous
// across the owning workflow's steps.
type Step struct {
	ID          string  `json:"id" yaml:"id"`
	Name        string  `json:"name" yaml:"name"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Order       int     `json:"order" yaml:"order"`
	Fields      []Field `json:"fields" yaml:"fields"`
}

// Workflow is the authoritative definition of what data to collect: an
// ordered sequence of steps, each holding typed fields.
type Workflow struct {
	ID                 string    `json:"id" yaml:"id"`
	Name               string    `json:"name" yaml:"name"`
	Description        string    `json:"description,omitempty" yaml:"description,omitempty"`
	IsActive           bool      `json:"isActive" yaml:"isActive"`
	Steps              []Step    `json:"steps" yaml:"steps"`
	ConnectedWorkflows []string  `json:"connectedWorkflows,omitempty" yaml:"connectedWorkflows,omitempty"`
	CreatedAt          time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt          time.Time `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// FieldByID returns the field with the given id and true when it exists.
func (w *Workflow) FieldByID(id string) (Field, bool) {
	for _, step := range w.Steps {
		for _, field := range step.Fields {
			if field.ID == id {
				return field, true
			}
		}
	}
	return Field{}, false
}

// StepOfField returns the step owning the field id and its index in Steps.
func (w *Workflow) StepOfField(id string) (Step, int, bool) {
	for i, step := range w.Steps {
		for _, field := range step.Fields {
			if field.ID == id {
				return step, i, true
			}
		}
	}
	return Step{}, -1, false
}

// AllFields returns every field in step order.
func (w *Workflow) AllFields() []Field {
	var out []Field
	for _, step := range w.Steps {
		out = append(out, step.Fields...)
	}
	return out
}

// Clone returns a deep copy.
func (w Workflow) Clone() Workflow {
	cp := w
	cp.Steps = make([]Step, len(w.Steps))
	for i, step := range w.Steps {
		sc := step
		sc.Fields = make([]Field, len(step.Fields))
		for j, field := range step.Fields {
			fc := field
			fc.Options = append([]string(nil), field.Options...)
			if field.Validation != nil {
				v := *field.Validation
				v.Accept = append([]string(nil), field.Validation.Accept...)
				fc.Validation = &v
			}
			if field.Layout != nil {
				l := *field.Layout
				fc.Layout = &l
			}
			if field.Config != nil {
				c := *field.Config
				fc.Config = &c
			}
			sc.Fields[j] = fc
		}
		cp.Steps[i] = sc
	}
	cp.ConnectedWorkflows = append([]string(nil), w.ConnectedWorkflows...)
	return cp
}
