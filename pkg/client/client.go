// Package client talks to the record APIs: retrieval, server-side
// validation, and create/update. All payloads are plain JSON over HTTP with
// an optional bearer token.
package client

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

	"github.com/caarlos0/env/v6"
	apperrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-flowform/pkg/auth"
	"github.com/goliatone/go-flowform/pkg/record"
)

const (
	ErrCodeRecordLoad = "RECORD_LOAD_FAILED"
	ErrCodeValidation = "VALIDATION_REMOTE_FAILED"
	ErrCodeSubmission = "SUBMISSION_FAILED"
)

var (
	// ErrRecordLoad is a blocking failure: an edit form must never be
	// presented blank as if it were a new record.
	ErrRecordLoad = apperrors.New("record could not be loaded", apperrors.CategoryExternal).
			WithTextCode(ErrCodeRecordLoad)
	ErrValidation = apperrors.New("record validation call failed", apperrors.CategoryExternal).
			WithTextCode(ErrCodeValidation)
	// ErrSubmission is retryable; callers keep the form values so nothing
	// typed is lost.
	ErrSubmission = apperrors.New("record submission failed", apperrors.CategoryExternal).
			WithTextCode(ErrCodeSubmission)
)

// FieldError is one entry of a validation response.
type FieldError struct {
	FieldName  string `json:"field_name"`
	FieldLabel string `json:"field_label"`
	Message    string `json:"error_message"`
}

// ValidationResult is the server's verdict on a submission payload.
type ValidationResult struct {
	IsValid bool         `json:"is_valid"`
	Errors  []FieldError `json:"errors"`
}

// Config is the client configuration, fillable from the environment.
type Config struct {
	BaseURL string        `env:"FLOWFORM_BASE_URL"`
	Token   string        `env:"FLOWFORM_TOKEN"`
	Timeout time.Duration `env:"FLOWFORM_TIMEOUT" envDefault:"15s"`
}

// ConfigFromEnv reads the configuration from process environment variables.
func ConfigFromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("client: parse environment: %w", err)
	}
	return cfg, nil
}

// Client is the record API client.
type Client struct {
	base    string
	http    *http.Client
	tokens  auth.TokenSource
	timeout time.Duration
}

// Option customises the client.
type Option func(*Client)

// WithHTTPClient injects a custom http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTokenSource injects the bearer token source. When the config carries a
// static token this overrides it.
func WithTokenSource(tokens auth.TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// New constructs a Client from configuration.
func New(cfg Config, options ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("client: base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	c := &Client{
		base:    strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
	}
	if cfg.Token != "" {
		c.tokens = auth.Static(cfg.Token)
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: timeout}
	}
	return c, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, method, c.base+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return data, nil
}

func wrap(base *apperrors.Error, message string, err error) error {
	e := base.Clone()
	if message != "" {
		e.Message = message
	}
	e.Source = err
	return e
}

func recordPath(workflowID string, rest ...string) string {
	parts := []string{"/api/workflows", url.PathEscape(workflowID), "records"}
	for _, p := range rest {
		parts = append(parts, url.PathEscape(p))
	}
	return strings.Join(parts, "/")
}

// GetRecord fetches an existing record in whatever shape the backend holds.
func (c *Client) GetRecord(ctx context.Context, workflowID, recordID string) (record.Record, error) {
	data, err := c.do(ctx, http.MethodGet, recordPath(workflowID, recordID), nil)
	if err != nil {
		return record.Record{}, wrap(ErrRecordLoad, "", err)
	}
	rec, err := record.Parse(data)
	if err != nil {
		return record.Record{}, wrap(ErrRecordLoad, "record payload is malformed", err)
	}
	return rec, nil
}

// Validate submits the inverse-mapped payload for server-side validation.
func (c *Client) Validate(ctx context.Context, workflowID string, payload map[string]any, isUpdate bool) (ValidationResult, error) {
	body := map[string]any{"payload": payload, "is_update": isUpdate}
	data, err := c.do(ctx, http.MethodPost, recordPath(workflowID)+":validate", body)
	if err != nil {
		return ValidationResult{}, wrap(ErrValidation, "", err)
	}
	var out ValidationResult
	if err := json.Unmarshal(data, &out); err != nil {
		return ValidationResult{}, wrap(ErrValidation, "validation response is malformed", err)
	}
	return out, nil
}

// CreateRecord persists a new record and echoes back the stored shape.
func (c *Client) CreateRecord(ctx context.Context, workflowID string, payload map[string]any) (record.Record, error) {
	data, err := c.do(ctx, http.MethodPost, recordPath(workflowID), payload)
	if err != nil {
		return record.Record{}, wrap(ErrSubmission, "", err)
	}
	rec, err := record.Parse(data)
	if err != nil {
		return record.Record{}, wrap(ErrSubmission, "create response is malformed", err)
	}
	return rec, nil
}

// UpdateRecord persists changes to an existing record.
func (c *Client) UpdateRecord(ctx context.Context, workflowID, recordID string, payload map[string]any) (record.Record, error) {
	data, err := c.do(ctx, http.MethodPut, recordPath(workflowID, recordID), payload)
	if err != nil {
		return record.Record{}, wrap(ErrSubmission, "", err)
	}
	rec, err := record.Parse(data)
	if err != nil {
		return record.Record{}, wrap(ErrSubmission, "update response is malformed", err)
	}
	return rec, nil
}
