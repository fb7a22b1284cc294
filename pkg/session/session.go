// Package session ties one wizard run together: loading the workflow schema
// and the record under edit, gating reconciliation on both loads finishing,
// scheduling the one-shot repair pass, and submitting. A session is torn down
// with Close; late async completions against a closed session are discarded.
package session

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-flowform/pkg/client"
	"github.com/goliatone/go-flowform/pkg/logging"
	"github.com/goliatone/go-flowform/pkg/reconcile"
	"github.com/goliatone/go-flowform/pkg/record"
	"github.com/goliatone/go-flowform/pkg/schema"
	"github.com/goliatone/go-flowform/pkg/values"
)

const ErrCodeSchemaLoad = "SCHEMA_LOAD_FAILED"

// ErrSchemaLoad means the workflow schema could not be fetched from the
// remote API or the local fallback.
var ErrSchemaLoad = apperrors.New("workflow schema could not be loaded", apperrors.CategoryExternal).
	WithTextCode(ErrCodeSchemaLoad)

const defaultRepairDelay = 800 * time.Millisecond

// SchemaSource yields workflow schemas; store.Store satisfies it.
type SchemaSource interface {
	GetByID(ctx context.Context, id string) (schema.Workflow, error)
}

// RecordAPI is the backend surface a session needs; *client.Client satisfies
// it.
type RecordAPI interface {
	GetRecord(ctx context.Context, workflowID, recordID string) (record.Record, error)
	Validate(ctx context.Context, workflowID string, payload map[string]any, isUpdate bool) (client.ValidationResult, error)
	CreateRecord(ctx context.Context, workflowID string, payload map[string]any) (record.Record, error)
	UpdateRecord(ctx context.Context, workflowID, recordID string, payload map[string]any) (record.Record, error)
}

// Option customises a session.
type Option func(*Session)

// WithLogger injects the session logger.
func WithLogger(logger logging.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRepairDelay overrides the delay before the country verification pass.
func WithRepairDelay(d time.Duration) Option {
	return func(s *Session) {
		if d > 0 {
			s.repairDelay = d
		}
	}
}

// WithEngine injects a reconciliation engine.
func WithEngine(engine *reconcile.Engine) Option {
	return func(s *Session) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// Session is single-writer by convention: callers interact from one
// goroutine, while the repair timer synchronises through the mutex and
// derives every update from the latest value map.
type Session struct {
	mu sync.Mutex

	schemas SchemaSource
	records RecordAPI
	engine  *reconcile.Engine
	logger  logging.Logger

	ctx    context.Context
	cancel context.CancelFunc

	repairDelay   time.Duration
	repairTimer   *time.Timer
	repairFetched bool

	loads map[string]struct{}

	workflowID string
	recordID   string
	workflow   schema.Workflow
	rec        record.Record
	hasRecord  bool
	merged     bool
	vals       values.Map
	report     reconcile.Report
}

// New constructs a session over the given schema source and record API.
func New(schemas SchemaSource, records RecordAPI, options ...Option) *Session {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		schemas:     schemas,
		records:     records,
		engine:      reconcile.New(),
		logger:      logging.Nop(),
		ctx:         ctx,
		cancel:      cancel,
		repairDelay: defaultRepairDelay,
		loads:       make(map[string]struct{}),
		vals:        values.Map{},
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s
}

// Close tears the session down. In-flight fetches and the pending repair
// pass are discarded; their effects never reach session state.
func (s *Session) Close() {
	s.cancel()
	s.mu.Lock()
	if s.repairTimer != nil {
		s.repairTimer.Stop()
	}
	s.mu.Unlock()
}

// Load fetches the schema and, for edit sessions, the record, then runs the
// reconciliation pass. A given (workflow, record) pair loads at most once per
// session: duplicate triggers return immediately without refetching.
//
// A record fetch failure is returned as-is and leaves the session unmerged:
// presenting a blank edit form for an existing record would silently lose
// data, so callers must show a blocking error instead.
func (s *Session) Load(ctx context.Context, workflowID, recordID string) error {
	key := workflowID + "::" + recordID

	s.mu.Lock()
	if _, done := s.loads[key]; done {
		s.mu.Unlock()
		s.logger.Debug("duplicate load suppressed", "workflow", workflowID, "record", recordID)
		return nil
	}
	s.loads[key] = struct{}{}
	s.mu.Unlock()

	wf, err := s.schemas.GetByID(ctx, workflowID)
	if err != nil {
		s.forget(key)
		e := ErrSchemaLoad.Clone()
		e.Source = err
		return e
	}

	var (
		rec       record.Record
		hasRecord bool
	)
	if recordID != "" {
		rec, err = s.records.GetRecord(ctx, workflowID, recordID)
		if err != nil {
			s.forget(key)
			return err
		}
		hasRecord = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		// session torn down while the fetches were in flight
		return s.ctx.Err()
	}

	s.workflowID = workflowID
	s.recordID = recordID
	s.workflow = wf
	s.rec = rec
	s.hasRecord = hasRecord

	// the merge only runs once both artifacts are complete
	if hasRecord {
		s.vals, s.report = s.engine.Merge(s.workflow, s.rec, s.vals)
	}
	s.merged = true

	if hasRecord {
		s.scheduleRepairLocked()
	}
	return nil
}

func (s *Session) forget(key string) {
	s.mu.Lock()
	delete(s.loads, key)
	s.mu.Unlock()
}

// Workflow returns the loaded schema.
func (s *Session) Workflow() schema.Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.workflow
}

// Values returns the current form values.
func (s *Session) Values() values.Map {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.vals
}

// Report returns the reconciliation outcome of the initial merge.
func (s *Session) Report() reconcile.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// SetValue records a user edit, derived from the latest state.
func (s *Session) SetValue(fieldID string, v any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vals = s.vals.Set(fieldID, v)
}

// Submit validates the inverse-mapped payload remotely and, when the server
// accepts it, creates or updates the record. The value map is preserved on
// every failure path so the user can retry without losing input.
func (s *Session) Submit(ctx context.Context) (record.Record, client.ValidationResult, error) {
	s.mu.Lock()
	wf := s.workflow
	vals := s.vals
	workflowID := s.workflowID
	recordID := s.recordID
	s.mu.Unlock()

	payload := s.engine.Payload(wf, vals)
	isUpdate := recordID != ""

	result, err := s.records.Validate(ctx, workflowID, payload, isUpdate)
	if err != nil {
		return record.Record{}, client.ValidationResult{}, err
	}
	if !result.IsValid {
		return record.Record{}, result, nil
	}

	var rec record.Record
	if isUpdate {
		rec, err = s.records.UpdateRecord(ctx, workflowID, recordID, payload)
	} else {
		rec, err = s.records.CreateRecord(ctx, workflowID, payload)
	}
	if err != nil {
		return record.Record{}, result, err
	}
	return rec, result, nil
}
