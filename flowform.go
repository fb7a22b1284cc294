// Package flowform assembles workflow schemas, record reconciliation, the
// step wizard, and persistence into one entry point. The subpackages remain
// usable on their own; the aliases and constructors here cover the common
// wiring.
package flowform

import (
	"context"

	"github.com/goliatone/go-flowform/pkg/client"
	"github.com/goliatone/go-flowform/pkg/openapi"
	"github.com/goliatone/go-flowform/pkg/reconcile"
	"github.com/goliatone/go-flowform/pkg/record"
	"github.com/goliatone/go-flowform/pkg/schema"
	"github.com/goliatone/go-flowform/pkg/session"
	"github.com/goliatone/go-flowform/pkg/store"
	"github.com/goliatone/go-flowform/pkg/values"
	"github.com/goliatone/go-flowform/pkg/wizard"
)

// Workflow is the schema of one data-collection flow.
type Workflow = schema.Workflow

// Step groups an ordered run of fields inside a workflow.
type Step = schema.Step

// Field is one typed input of a step.
type Field = schema.Field

// Record is an external backend record in either flat or stepped shape.
type Record = record.Record

// Values is the in-memory form state keyed by field id.
type Values = values.Map

// Report describes how a reconciliation pass resolved each field.
type Report = reconcile.Report

// Controller drives the stepped wizard over a workflow.
type Controller = wizard.Controller

// Session orchestrates loading, reconciliation, and submission for one run.
type Session = session.Session

// ParseWorkflow decodes, sanitizes, and validates a workflow document from
// JSON or YAML bytes.
func ParseWorkflow(data []byte) (Workflow, error) {
	return schema.Parse(data)
}

// Reconcile maps an external record onto a workflow's fields and returns the
// populated value map alongside the per-field resolution report.
func Reconcile(w Workflow, rec Record) (Values, Report) {
	return reconcile.New().Merge(w, rec, nil)
}

// BuildPayload inverse-maps form values into a submission payload under the
// naming conventions external backends expect.
func BuildPayload(w Workflow, vals Values) map[string]any {
	return reconcile.New().Payload(w, vals)
}

// NewWizard constructs a step controller for the workflow.
func NewWizard(w Workflow, options ...wizard.Option) (*Controller, error) {
	return wizard.NewController(w, options...)
}

// NewFallbackStore wires a remote workflow store over a local JSON-file
// fallback rooted at dir.
func NewFallbackStore(baseURL, dir string, options ...store.FallbackOption) (*store.Fallback, error) {
	local, err := store.NewLocal(dir)
	if err != nil {
		return nil, err
	}
	remote, err := store.NewRemote(baseURL)
	if err != nil {
		return nil, err
	}
	return store.NewFallback(remote, local, options...), nil
}

// NewSession builds a session over a schema store and record API client.
func NewSession(schemas session.SchemaSource, records session.RecordAPI, options ...session.Option) *Session {
	return session.New(schemas, records, options...)
}

// ImportOpenAPI bootstraps a workflow schema from the request body of an
// OpenAPI operation.
func ImportOpenAPI(ctx context.Context, doc []byte, operationID string) (Workflow, error) {
	return openapi.New().Import(ctx, doc, operationID)
}

// NewClient constructs a record API client from the given configuration.
func NewClient(cfg client.Config, options ...client.Option) (*client.Client, error) {
	return client.New(cfg, options...)
}
