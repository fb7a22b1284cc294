package session

import (
	"strings"
	"time"

	"github.com/goliatone/go-flowform/pkg/schema"
	"github.com/goliatone/go-flowform/pkg/values"
)

// scheduleRepairLocked arms the one-shot verification pass that runs shortly
// after the initial merge. Country fields are the ones backends rename most
// often, so if any are still blank after the delay the record is fetched one
// more time and merged into whatever the user has typed since. The pass runs
// at most once per session. Caller holds s.mu.
func (s *Session) scheduleRepairLocked() {
	if s.repairTimer != nil {
		return
	}
	s.repairTimer = time.AfterFunc(s.repairDelay, s.repair)
}

func (s *Session) repair() {
	s.mu.Lock()
	if s.ctx.Err() != nil || !s.merged || s.repairFetched {
		s.mu.Unlock()
		return
	}
	s.repairFetched = true
	missing := missingCountryFields(s.workflow, s.vals)
	workflowID := s.workflowID
	recordID := s.recordID
	s.mu.Unlock()

	if len(missing) == 0 {
		return
	}
	s.logger.Debug("country fields unresolved after merge, refetching record",
		"workflow", workflowID, "fields", strings.Join(missing, ","))

	rec, err := s.records.GetRecord(s.ctx, workflowID, recordID)
	if err != nil {
		// the repair pass is best effort, the merged form stays usable
		s.logger.Warn("record refetch for repair pass failed", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx.Err() != nil {
		return
	}
	s.vals, _ = s.engine.Merge(s.workflow, rec, s.vals)
}

func missingCountryFields(w schema.Workflow, vals values.Map) []string {
	var out []string
	for _, f := range w.AllFields() {
		if !isCountryField(f) {
			continue
		}
		if v, ok := vals.Get(f.ID); !ok || values.IsEmpty(v) {
			out = append(out, f.ID)
		}
	}
	return out
}

func isCountryField(f schema.Field) bool {
	if strings.Contains(schema.Normalize(f.ID), "country") {
		return true
	}
	return strings.Contains(schema.LabelKey(f), "country")
}
