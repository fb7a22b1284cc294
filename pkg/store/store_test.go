package store_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-flowform/pkg/auth"
	"github.com/goliatone/go-flowform/pkg/schema"
	"github.com/goliatone/go-flowform/pkg/store"
)

func sampleWorkflow(id string) schema.Workflow {
	w := schema.Workflow{ID: id, Name: "Onboarding", IsActive: true}
	w.AddStep(schema.Step{ID: "s1", Name: "General", Fields: []schema.Field{
		{ID: "company_name", Type: schema.FieldText, Label: "Company Name"},
	}})
	return w
}

func TestLocalCRUD(t *testing.T) {
	local, err := store.NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	created, err := local.Create(ctx, sampleWorkflow("wf-1"))
	require.NoError(t, err)
	require.False(t, created.CreatedAt.IsZero())

	name := "Renamed"
	inactive := false
	updated, err := local.Update(ctx, "wf-1", store.Patch{Name: &name, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt, "CreatedAt must be preserved")
	assert.Equal(t, "wf-1", updated.ID)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt) || updated.UpdatedAt.Equal(created.UpdatedAt))

	got, err := local.GetByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)

	active, err := local.GetActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	require.NoError(t, local.Delete(ctx, "wf-1"))
	_, err = local.GetByID(ctx, "wf-1")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, local.Delete(ctx, "wf-1"), store.ErrNotFound)
}

func TestLocalUpdateRenumbersSteps(t *testing.T) {
	local, err := store.NewLocal(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = local.Create(ctx, sampleWorkflow("wf-1"))
	require.NoError(t, err)

	steps := []schema.Step{
		{ID: "s2", Name: "Second", Order: 9},
		{ID: "s1", Name: "First", Order: 0},
	}
	updated, err := local.Update(ctx, "wf-1", store.Patch{Steps: &steps})
	require.NoError(t, err)
	require.Len(t, updated.Steps, 2)
	assert.Equal(t, 1, updated.Steps[0].Order)
	assert.Equal(t, 2, updated.Steps[1].Order)
}

func TestRemoteSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(sampleWorkflow("wf-1"))
	}))
	defer srv.Close()

	remote, err := store.NewRemote(srv.URL, store.WithTokenSource(auth.Static("tok-123")))
	require.NoError(t, err)

	_, err = remote.GetByID(context.Background(), "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestFallbackWritesLocallyOnRemoteFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	remote, err := store.NewRemote(srv.URL, store.WithTimeout(time.Second))
	require.NoError(t, err)
	local, err := store.NewLocal(t.TempDir())
	require.NoError(t, err)

	var warnings []store.Warning
	fb := store.NewFallback(remote, local, store.WithWarningHandler(func(w store.Warning) {
		warnings = append(warnings, w)
	}))

	ctx := context.Background()
	created, err := fb.Create(ctx, sampleWorkflow("wf-1"))
	require.NoError(t, err, "fallback create must not surface the remote failure")
	assert.Equal(t, "wf-1", created.ID)

	require.Len(t, warnings, 1)
	assert.Equal(t, "create", warnings[0].Op)
	assert.Equal(t, "wf-1", warnings[0].WorkflowID)
	require.Error(t, warnings[0].Cause)

	// the write is readable through the fallback even with the remote down
	got, err := fb.GetByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Onboarding", got.Name)
}

func TestFallbackMirrorsRemoteWrites(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in schema.Workflow
		_ = json.NewDecoder(r.Body).Decode(&in)
		_ = json.NewEncoder(w).Encode(in)
	}))
	defer srv.Close()

	remote, err := store.NewRemote(srv.URL)
	require.NoError(t, err)
	local, err := store.NewLocal(t.TempDir())
	require.NoError(t, err)
	fb := store.NewFallback(remote, local)

	ctx := context.Background()
	_, err = fb.Create(ctx, sampleWorkflow("wf-1"))
	require.NoError(t, err)

	cached, err := local.GetByID(ctx, "wf-1")
	require.NoError(t, err)
	assert.Equal(t, "Onboarding", cached.Name)
}
