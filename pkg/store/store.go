// Package store persists workflow schemas. The production policy is
// remote-primary with a local JSON-file fallback: a user's save must not be
// lost merely because the network call failed, but the caller is told the
// write is not yet durable remotely.
package store

import (
	"context"
	"time"

	apperrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-flowform/pkg/schema"
)

const (
	ErrCodeNotFound     = "WORKFLOW_NOT_FOUND"
	ErrCodeRemoteFailed = "WORKFLOW_REMOTE_FAILED"
	ErrCodeLocalFailed  = "WORKFLOW_LOCAL_FAILED"
)

var (
	ErrNotFound = apperrors.New("workflow not found", apperrors.CategoryBadInput).
			WithTextCode(ErrCodeNotFound)
	ErrRemoteFailed = apperrors.New("remote workflow store unavailable", apperrors.CategoryExternal).
			WithTextCode(ErrCodeRemoteFailed)
	ErrLocalFailed = apperrors.New("local workflow store failed", apperrors.CategoryExternal).
			WithTextCode(ErrCodeLocalFailed)
)

// Patch carries a partial workflow update. Nil members are left unchanged.
// ID and CreatedAt can never be patched; UpdatedAt is always refreshed.
type Patch struct {
	Name               *string
	Description        *string
	IsActive           *bool
	Steps              *[]schema.Step
	ConnectedWorkflows *[]string
}

// Apply layers the patch over a workflow, renumbering steps when they change.
func (p Patch) Apply(w schema.Workflow) schema.Workflow {
	out := w.Clone()
	if p.Name != nil {
		out.Name = *p.Name
	}
	if p.Description != nil {
		out.Description = *p.Description
	}
	if p.IsActive != nil {
		out.IsActive = *p.IsActive
	}
	if p.Steps != nil {
		out.Steps = *p.Steps
		out.Renumber()
	}
	if p.ConnectedWorkflows != nil {
		out.ConnectedWorkflows = append([]string(nil), (*p.ConnectedWorkflows)...)
	}
	out.ID = w.ID
	out.CreatedAt = w.CreatedAt
	out.UpdatedAt = time.Now().UTC()
	return out
}

// Store is the workflow schema CRUD contract.
type Store interface {
	Create(ctx context.Context, w schema.Workflow) (schema.Workflow, error)
	Update(ctx context.Context, id string, patch Patch) (schema.Workflow, error)
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (schema.Workflow, error)
	GetAll(ctx context.Context) ([]schema.Workflow, error)
	GetActive(ctx context.Context) ([]schema.Workflow, error)
}
