package schema

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Parse decodes a workflow document from JSON or YAML bytes, sanitizes its
// display metadata, and validates the structural invariants.
func Parse(data []byte) (Workflow, error) {
	if len(data) == 0 {
		return Workflow{}, fmt.Errorf("schema: document is empty")
	}

	var w Workflow
	trimmed := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\r' || r == '\n'
	})
	if strings.HasPrefix(trimmed, "{") {
		if err := json.Unmarshal(data, &w); err != nil {
			return Workflow{}, fmt.Errorf("schema: decode json: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, &w); err != nil {
			return Workflow{}, fmt.Errorf("schema: decode yaml: %w", err)
		}
	}

	w.Sanitize()
	if err := w.Validate(); err != nil {
		return Workflow{}, err
	}
	return w, nil
}

// ParseFile loads a workflow document from disk.
func ParseFile(path string) (Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Workflow{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data)
}

// ParseFS loads a workflow document from the provided filesystem.
func ParseFS(fsys fs.FS, path string) (Workflow, error) {
	if fsys == nil {
		return Workflow{}, fmt.Errorf("schema: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return Workflow{}, fmt.Errorf("schema: read %s: %w", path, err)
	}
	return Parse(data)
}

// New constructs an empty workflow with a generated id and timestamps.
func New(name string) Workflow {
	now := time.Now().UTC()
	return Workflow{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewStep constructs a step with a generated id. Order is assigned by the
// owning workflow's Renumber.
func NewStep(name string) Step {
	return Step{ID: uuid.NewString(), Name: name}
}

// NewField constructs a field with a generated id.
func NewField(label string, fieldType FieldType) Field {
	return Field{ID: uuid.NewString(), Label: label, Type: fieldType}
}
