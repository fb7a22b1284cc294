// Package openapi bootstraps workflow schemas from OpenAPI 3 documents. The
// request body of a chosen operation becomes a workflow: top-level properties
// form the first step, nested object properties become additional steps.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-flowform/pkg/schema"
)

// Options configures an Importer.
type Options struct {
	// ResolveReferences controls whether $ref pointers are resolved and the
	// document validated before import. Defaults to true.
	ResolveReferences bool
}

// Option mutates Options during construction.
type Option func(*Options)

// WithReferenceResolution toggles eager reference resolution.
func WithReferenceResolution(enabled bool) Option {
	return func(o *Options) {
		o.ResolveReferences = enabled
	}
}

// Importer converts OpenAPI operations into workflow schemas.
type Importer struct {
	options Options
}

// New constructs an Importer.
func New(options ...Option) *Importer {
	cfg := Options{ResolveReferences: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return &Importer{options: cfg}
}

// Import parses the document and builds a workflow from the request body of
// the operation with the given operationId. When operationID is empty and the
// document holds exactly one operation with a request body, that operation is
// used.
func (im *Importer) Import(ctx context.Context, data []byte, operationID string) (schema.Workflow, error) {
	if err := ctx.Err(); err != nil {
		return schema.Workflow{}, err
	}
	if len(data) == 0 {
		return schema.Workflow{}, errors.New("openapi: document is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: im.options.ResolveReferences,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return schema.Workflow{}, fmt.Errorf("openapi: load document: %w", err)
	}
	if im.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return schema.Workflow{}, fmt.Errorf("openapi: validate document: %w", err)
		}
	}

	operation, err := findOperation(spec, operationID)
	if err != nil {
		return schema.Workflow{}, err
	}

	body := requestSchema(operation.op.RequestBody)
	if body == nil || len(body.Properties) == 0 {
		return schema.Workflow{}, fmt.Errorf("openapi: operation %q has no object request body", operation.id)
	}

	w := schema.New(workflowName(spec, operation))
	w.Description = strings.TrimSpace(operation.op.Description)

	first := schema.NewStep("Details")
	var nested []schema.Step
	for _, name := range sortedProperties(body) {
		prop := body.Properties[name]
		if prop == nil || prop.Value == nil {
			continue
		}
		if isObject(prop.Value) && len(prop.Value.Properties) > 0 {
			step := schema.NewStep(humanize(name))
			for _, sub := range sortedProperties(prop.Value) {
				subProp := prop.Value.Properties[sub]
				if subProp == nil || subProp.Value == nil {
					continue
				}
				step.Fields = append(step.Fields, buildField(name+"_"+sub, sub, subProp.Value, prop.Value.Required))
			}
			if len(step.Fields) > 0 {
				nested = append(nested, step)
			}
			continue
		}
		first.Fields = append(first.Fields, buildField(name, name, prop.Value, body.Required))
	}

	if len(first.Fields) > 0 {
		w.Steps = append(w.Steps, first)
	}
	w.Steps = append(w.Steps, nested...)
	if len(w.Steps) == 0 {
		return schema.Workflow{}, fmt.Errorf("openapi: operation %q yields no fields", operation.id)
	}
	w.Renumber()

	w.Sanitize()
	if err := w.Validate(); err != nil {
		return schema.Workflow{}, err
	}
	return w, nil
}

type foundOperation struct {
	id     string
	method string
	path   string
	op     *openapi3.Operation
}

func findOperation(spec *openapi3.T, operationID string) (foundOperation, error) {
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return foundOperation{}, errors.New("openapi: document does not contain any paths")
	}

	var candidates []foundOperation
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range map[string]*openapi3.Operation{
			"GET": item.Get, "PUT": item.Put, "POST": item.Post,
			"DELETE": item.Delete, "PATCH": item.Patch,
		} {
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			found := foundOperation{id: id, method: method, path: path, op: op}
			if operationID != "" {
				if id == operationID {
					return found, nil
				}
				continue
			}
			if op.RequestBody != nil {
				candidates = append(candidates, found)
			}
		}
	}

	if operationID != "" {
		return foundOperation{}, fmt.Errorf("openapi: operation %q not found", operationID)
	}
	switch len(candidates) {
	case 0:
		return foundOperation{}, errors.New("openapi: no operation with a request body")
	case 1:
		return candidates[0], nil
	default:
		return foundOperation{}, fmt.Errorf("openapi: %d operations carry request bodies, pass an operation id", len(candidates))
	}
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	for _, mt := range content {
		if mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

func workflowName(spec *openapi3.T, op foundOperation) string {
	if s := strings.TrimSpace(op.op.Summary); s != "" {
		return s
	}
	if spec.Info != nil && strings.TrimSpace(spec.Info.Title) != "" {
		return strings.TrimSpace(spec.Info.Title)
	}
	return op.id
}
