package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-flowform/pkg/schema"
)

const defaultNamespace = "workflows"

// Local is a JSON-file workflow store, the durable-enough stand-in used when
// the remote API is unreachable. One namespace maps to one file under dir;
// writes go through a temp file and rename.
type Local struct {
	mu        sync.Mutex
	dir       string
	namespace string
}

var _ Store = (*Local)(nil)

// LocalOption customises a Local store.
type LocalOption func(*Local)

// WithNamespace overrides the file namespace.
func WithNamespace(ns string) LocalOption {
	return func(l *Local) {
		if ns != "" {
			l.namespace = ns
		}
	}
}

// NewLocal constructs a Local store rooted at dir, creating it if needed.
func NewLocal(dir string, options ...LocalOption) (*Local, error) {
	l := &Local{dir: dir, namespace: defaultNamespace}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(l)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, wrapLocal("create store directory", err)
	}
	return l, nil
}

func (l *Local) path() string {
	return filepath.Join(l.dir, l.namespace+".json")
}

func (l *Local) load() (map[string]schema.Workflow, error) {
	data, err := os.ReadFile(l.path())
	if os.IsNotExist(err) {
		return map[string]schema.Workflow{}, nil
	}
	if err != nil {
		return nil, wrapLocal("read namespace", err)
	}
	out := map[string]schema.Workflow{}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, wrapLocal("decode namespace", err)
	}
	return out, nil
}

func (l *Local) save(all map[string]schema.Workflow) error {
	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return wrapLocal("encode namespace", err)
	}
	tmp := l.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return wrapLocal("write namespace", err)
	}
	if err := os.Rename(tmp, l.path()); err != nil {
		return wrapLocal("replace namespace", err)
	}
	return nil
}

func wrapLocal(message string, err error) error {
	e := ErrLocalFailed.Clone()
	e.Message = "local store: " + message
	e.Source = err
	return e
}

// Create stores a new workflow, stamping timestamps when absent.
func (l *Local) Create(_ context.Context, w schema.Workflow) (schema.Workflow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.load()
	if err != nil {
		return schema.Workflow{}, err
	}
	now := time.Now().UTC()
	if w.CreatedAt.IsZero() {
		w.CreatedAt = now
	}
	w.UpdatedAt = now
	w.Renumber()
	all[w.ID] = w
	if err := l.save(all); err != nil {
		return schema.Workflow{}, err
	}
	return w, nil
}

// Update applies a patch to a stored workflow.
func (l *Local) Update(_ context.Context, id string, patch Patch) (schema.Workflow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.load()
	if err != nil {
		return schema.Workflow{}, err
	}
	existing, ok := all[id]
	if !ok {
		return schema.Workflow{}, ErrNotFound
	}
	updated := patch.Apply(existing)
	all[id] = updated
	if err := l.save(all); err != nil {
		return schema.Workflow{}, err
	}
	return updated, nil
}

// Delete removes a workflow. Deleting an unknown id is an ErrNotFound.
func (l *Local) Delete(_ context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.load()
	if err != nil {
		return err
	}
	if _, ok := all[id]; !ok {
		return ErrNotFound
	}
	delete(all, id)
	return l.save(all)
}

// GetByID fetches one workflow.
func (l *Local) GetByID(_ context.Context, id string) (schema.Workflow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.load()
	if err != nil {
		return schema.Workflow{}, err
	}
	w, ok := all[id]
	if !ok {
		return schema.Workflow{}, ErrNotFound
	}
	return w, nil
}

// GetAll lists every stored workflow ordered by name.
func (l *Local) GetAll(_ context.Context) ([]schema.Workflow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	all, err := l.load()
	if err != nil {
		return nil, err
	}
	out := make([]schema.Workflow, 0, len(all))
	for _, w := range all {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// GetActive lists workflows selectable for new records.
func (l *Local) GetActive(ctx context.Context) ([]schema.Workflow, error) {
	all, err := l.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, w := range all {
		if w.IsActive {
			out = append(out, w)
		}
	}
	return out, nil
}
