package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-flowform/pkg/auth"
	"github.com/goliatone/go-flowform/pkg/schema"
)

const defaultTimeout = 15 * time.Second

// Remote is the HTTP workflow store talking to the persistence API.
type Remote struct {
	base    string
	client  *http.Client
	tokens  auth.TokenSource
	timeout time.Duration
}

var _ Store = (*Remote)(nil)

// RemoteOption customises a Remote store.
type RemoteOption func(*Remote)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(r *Remote) {
		if client != nil {
			r.client = client
		}
	}
}

// WithTokenSource injects the bearer token source.
func WithTokenSource(tokens auth.TokenSource) RemoteOption {
	return func(r *Remote) {
		r.tokens = tokens
	}
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) RemoteOption {
	return func(r *Remote) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// NewRemote constructs a Remote store for the given API base URL.
func NewRemote(baseURL string, options ...RemoteOption) (*Remote, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, fmt.Errorf("store: base url is required")
	}
	r := &Remote{
		base:    strings.TrimRight(baseURL, "/"),
		timeout: defaultTimeout,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.client == nil {
		r.client = &http.Client{Timeout: r.timeout}
	}
	return r, nil
}

func (r *Remote) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return wrapRemote("encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, r.base+path, reader)
	if err != nil {
		return wrapRemote("build request", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.tokens != nil {
		if token := r.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return wrapRemote("perform request", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return wrapRemote("unexpected status "+resp.Status, nil)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return wrapRemote("decode response", err)
	}
	return nil
}

func wrapRemote(message string, err error) error {
	e := ErrRemoteFailed.Clone()
	e.Message = "remote store: " + message
	if err != nil {
		e.Source = err
	}
	return e
}

// Create persists a new workflow remotely.
func (r *Remote) Create(ctx context.Context, w schema.Workflow) (schema.Workflow, error) {
	w.Renumber()
	var out schema.Workflow
	if err := r.do(ctx, http.MethodPost, "/api/workflows", w, &out); err != nil {
		return schema.Workflow{}, err
	}
	return out, nil
}

// Update fetches, patches, and writes back a workflow. The API accepts full
// documents, so patch semantics are applied client-side.
func (r *Remote) Update(ctx context.Context, id string, patch Patch) (schema.Workflow, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return schema.Workflow{}, err
	}
	updated := patch.Apply(existing)
	var out schema.Workflow
	if err := r.do(ctx, http.MethodPut, "/api/workflows/"+url.PathEscape(id), updated, &out); err != nil {
		return schema.Workflow{}, err
	}
	return out, nil
}

// Delete removes a workflow remotely.
func (r *Remote) Delete(ctx context.Context, id string) error {
	return r.do(ctx, http.MethodDelete, "/api/workflows/"+url.PathEscape(id), nil, nil)
}

// GetByID fetches one workflow.
func (r *Remote) GetByID(ctx context.Context, id string) (schema.Workflow, error) {
	var out schema.Workflow
	if err := r.do(ctx, http.MethodGet, "/api/workflows/"+url.PathEscape(id), nil, &out); err != nil {
		return schema.Workflow{}, err
	}
	return out, nil
}

// GetAll lists every workflow.
func (r *Remote) GetAll(ctx context.Context) ([]schema.Workflow, error) {
	var out []schema.Workflow
	if err := r.do(ctx, http.MethodGet, "/api/workflows", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetActive lists workflows selectable for new records.
func (r *Remote) GetActive(ctx context.Context) ([]schema.Workflow, error) {
	var out []schema.Workflow
	if err := r.do(ctx, http.MethodGet, "/api/workflows?active=true", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
