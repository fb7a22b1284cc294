// Package wizard drives a user through the ordered steps of a workflow with
// per-step validation gating. Local rule failures block step advancement;
// remote validation errors are mapped back onto schema fields and block final
// submission until the implicated fields change.
package wizard

import (
	"github.com/goliatone/go-flowform/pkg/reconcile"
	"github.com/goliatone/go-flowform/pkg/schema"
	"github.com/goliatone/go-flowform/pkg/values"
)

// ServerError is one entry of a remote validation response.
type ServerError struct {
	FieldName  string
	FieldLabel string
	Message    string
}

// Option customises the controller.
type Option func(*Controller)

// WithValues seeds the controller with an existing value map, typically the
// output of a reconciliation pass when editing an existing record.
func WithValues(vals values.Map) Option {
	return func(c *Controller) {
		c.vals = vals.Clone()
	}
}

// Controller holds the wizard session state. Local field errors and server
// validation errors live in separate maps so a user edit can clear exactly
// the corresponding server error without touching local validation state.
type Controller struct {
	workflow schema.Workflow
	vals     values.Map

	current   int
	validated map[int]struct{}
	completed map[int]struct{}

	fieldErrors  map[string][]string
	serverErrors map[string]string
	formErrors   []string
}

// NewController validates the workflow and constructs a controller positioned
// on the first step.
func NewController(w schema.Workflow, options ...Option) (*Controller, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		workflow:     w.Clone(),
		vals:         values.Map{},
		validated:    make(map[int]struct{}),
		completed:    make(map[int]struct{}),
		fieldErrors:  make(map[string][]string),
		serverErrors: make(map[string]string),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	return c, nil
}

// Workflow returns the schema the controller was built from.
func (c *Controller) Workflow() schema.Workflow {
	return c.workflow
}

// Current returns the zero-based index of the active step.
func (c *Controller) Current() int {
	return c.current
}

// Step returns the active step.
func (c *Controller) Step() schema.Step {
	return c.workflow.Steps[c.current]
}

// Values returns the current value map. The map is copy-on-write; callers
// must not mutate it in place.
func (c *Controller) Values() values.Map {
	return c.vals
}

// SetValue records a field edit. The update is derived from the latest map,
// and any server error previously shown for the field is cleared
// optimistically so the error state does not appear stuck.
func (c *Controller) SetValue(fieldID string, v any) {
	c.vals = c.vals.Set(fieldID, v)
	delete(c.serverErrors, fieldID)
}

// FieldErrors returns the local validation messages for a field.
func (c *Controller) FieldErrors(fieldID string) []string {
	return c.fieldErrors[fieldID]
}

// ServerError returns the remote validation message shown for a field.
func (c *Controller) ServerError(fieldID string) (string, bool) {
	msg, ok := c.serverErrors[fieldID]
	return msg, ok
}

// FormErrors returns remote messages that matched no field.
func (c *Controller) FormErrors() []string {
	return c.formErrors
}

// ValidateStep runs the local rules for every field of the step at index and
// records the outcome. It returns true when the step is clean. A clean run
// marks the step validated; a failed run removes any earlier mark.
func (c *Controller) ValidateStep(index int) (bool, error) {
	if index < 0 || index >= len(c.workflow.Steps) {
		return false, ErrStepOutOfRange
	}

	clean := true
	for _, field := range c.workflow.Steps[index].Fields {
		v, _ := c.vals.Get(field.ID)
		errs := validateField(field, v)
		if len(errs) == 0 {
			delete(c.fieldErrors, field.ID)
			continue
		}
		c.fieldErrors[field.ID] = errs
		clean = false
	}

	if clean {
		c.validated[index] = struct{}{}
	} else {
		delete(c.validated, index)
	}
	return clean, nil
}

// Next advances to the following step. Advancement is blocked unless the
// current step passes local validation.
func (c *Controller) Next() error {
	clean, err := c.ValidateStep(c.current)
	if err != nil {
		return err
	}
	if !clean {
		return ErrStepInvalid
	}
	c.completed[c.current] = struct{}{}
	if c.current < len(c.workflow.Steps)-1 {
		c.current++
	}
	return nil
}

// Prev moves back one step. Going back never re-validates.
func (c *Controller) Prev() {
	if c.current > 0 {
		c.current--
	}
}

// Goto jumps to the step at index.
func (c *Controller) Goto(index int) error {
	if index < 0 || index >= len(c.workflow.Steps) {
		return ErrStepOutOfRange
	}
	c.current = index
	return nil
}

// Validated reports whether the step at index has passed validation.
func (c *Controller) Validated(index int) bool {
	_, ok := c.validated[index]
	return ok
}

// CanSubmit reports whether every step has been validated at least once.
// Remote validation is a separate gate handled by the caller before
// submission.
func (c *Controller) CanSubmit() bool {
	return len(c.validated) == len(c.workflow.Steps)
}

// Finish hands over the value map for submission. It fails with
// ErrNotValidated until every step has passed local validation, so callers
// cannot build a payload from a half-validated wizard.
func (c *Controller) Finish() (values.Map, error) {
	if !c.CanSubmit() {
		return nil, ErrNotValidated
	}
	return c.vals, nil
}

// ApplyServerErrors maps a remote validation response onto schema fields
// using the reconciliation name strategies, surfaces each message against the
// matched field, and navigates to the first step containing an error. Each
// call replaces the previous round's server errors wholesale: a field the new
// response no longer mentions is clean again. It returns the index of the
// first error step, or -1 when every message was form-level.
func (c *Controller) ApplyServerErrors(errs []ServerError) int {
	c.serverErrors = make(map[string]string)
	c.formErrors = nil
	for _, se := range errs {
		fieldID, ok := reconcile.MatchField(c.workflow, se.FieldName, se.FieldLabel)
		if !ok {
			if se.Message != "" {
				c.formErrors = append(c.formErrors, se.Message)
			}
			continue
		}
		c.serverErrors[fieldID] = se.Message
	}

	first := -1
	for i, step := range c.workflow.Steps {
		for _, field := range step.Fields {
			if _, ok := c.serverErrors[field.ID]; ok {
				first = i
				break
			}
		}
		if first >= 0 {
			break
		}
	}
	if first >= 0 {
		c.current = first
	}
	return first
}

// HasServerErrors reports whether any remote error is still displayed.
func (c *Controller) HasServerErrors() bool {
	return len(c.serverErrors) > 0
}
