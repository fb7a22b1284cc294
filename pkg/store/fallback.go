package store

import (
	"context"

	"github.com/goliatone/go-flowform/pkg/logging"
	"github.com/goliatone/go-flowform/pkg/schema"
)

// Warning tells the caller a mutation landed in the local store only. It is
// deliberately not an error: the user's action succeeded, it is just not yet
// durable remotely.
type Warning struct {
	Op         string
	WorkflowID string
	Cause      error
}

// Fallback is the remote-primary store. Every call attempts the remote API
// first; on any failure the equivalent local operation runs instead and a
// Warning is emitted. Successful remote writes are mirrored into the local
// cache so reads keep working offline.
type Fallback struct {
	remote Store
	local  Store
	logger logging.Logger
	warn   func(Warning)
}

var _ Store = (*Fallback)(nil)

// FallbackOption customises the fallback store.
type FallbackOption func(*Fallback)

// WithLogger injects the logger used for fallback warnings.
func WithLogger(logger logging.Logger) FallbackOption {
	return func(f *Fallback) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithWarningHandler registers a callback invoked whenever an operation fell
// back to local storage.
func WithWarningHandler(handler func(Warning)) FallbackOption {
	return func(f *Fallback) {
		f.warn = handler
	}
}

// NewFallback composes a remote-primary, local-fallback store.
func NewFallback(remote, local Store, options ...FallbackOption) *Fallback {
	f := &Fallback{
		remote: remote,
		local:  local,
		logger: logging.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

func (f *Fallback) fellBack(op, id string, cause error) {
	f.logger.Warn("workflow store fell back to local persistence",
		"op", op, "workflow", id, "cause", cause)
	if f.warn != nil {
		f.warn(Warning{Op: op, WorkflowID: id, Cause: cause})
	}
}

func (f *Fallback) mirror(ctx context.Context, w schema.Workflow) {
	if _, err := f.local.Create(ctx, w); err != nil {
		f.logger.Debug("local mirror write failed", "workflow", w.ID, "cause", err)
	}
}

// Create persists remotely, falling back to local persistence.
func (f *Fallback) Create(ctx context.Context, w schema.Workflow) (schema.Workflow, error) {
	created, err := f.remote.Create(ctx, w)
	if err == nil {
		f.mirror(ctx, created)
		return created, nil
	}
	f.fellBack("create", w.ID, err)
	return f.local.Create(ctx, w)
}

// Update patches remotely, falling back to local persistence.
func (f *Fallback) Update(ctx context.Context, id string, patch Patch) (schema.Workflow, error) {
	updated, err := f.remote.Update(ctx, id, patch)
	if err == nil {
		f.mirror(ctx, updated)
		return updated, nil
	}
	f.fellBack("update", id, err)
	return f.local.Update(ctx, id, patch)
}

// Delete removes remotely, falling back to local persistence. The local
// mirror entry is dropped either way.
func (f *Fallback) Delete(ctx context.Context, id string) error {
	if err := f.remote.Delete(ctx, id); err != nil {
		f.fellBack("delete", id, err)
		return f.local.Delete(ctx, id)
	}
	_ = f.local.Delete(ctx, id)
	return nil
}

// GetByID reads remotely, falling back to the local cache.
func (f *Fallback) GetByID(ctx context.Context, id string) (schema.Workflow, error) {
	w, err := f.remote.GetByID(ctx, id)
	if err == nil {
		return w, nil
	}
	f.fellBack("get", id, err)
	return f.local.GetByID(ctx, id)
}

// GetAll reads remotely, falling back to the local cache.
func (f *Fallback) GetAll(ctx context.Context) ([]schema.Workflow, error) {
	all, err := f.remote.GetAll(ctx)
	if err == nil {
		return all, nil
	}
	f.fellBack("list", "", err)
	return f.local.GetAll(ctx)
}

// GetActive reads remotely, falling back to the local cache.
func (f *Fallback) GetActive(ctx context.Context) ([]schema.Workflow, error) {
	active, err := f.remote.GetActive(ctx)
	if err == nil {
		return active, nil
	}
	f.fellBack("list-active", "", err)
	return f.local.GetActive(ctx)
}
