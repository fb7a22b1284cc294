package reconcile_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-flowform/pkg/reconcile"
	"github.com/goliatone/go-flowform/pkg/schema"
	"github.com/goliatone/go-flowform/pkg/values"
)

func TestPayloadWritesAllKeyConventions(t *testing.T) {
	w := schema.Workflow{ID: "wf"}
	w.AddStep(schema.Step{ID: "s1", Name: "General", Fields: []schema.Field{
		{ID: "email", Type: schema.FieldEmail, Label: "Primary Email"},
		{ID: "companySize", Type: schema.FieldNumber, Label: "Company Size"},
		{ID: "notes", Type: schema.FieldTextarea, Label: "Notes"},
	}})

	vals := values.Map{
		"email":       "a@b.com",
		"companySize": 25.0,
		"notes":       "", // empty values are omitted
	}

	payload := reconcile.New().Payload(w, vals)

	want := map[string]any{
		"primary_email": "a@b.com",
		"email":         "a@b.com",
		"company_size":  25.0,
		"companySize":   25.0,
		"companysize":   25.0,
	}
	if diff := cmp.Diff(want, payload); diff != "" {
		t.Fatalf("payload (-want +got):\n%s", diff)
	}
}

func TestPayloadSerializesRanges(t *testing.T) {
	w := schema.Workflow{ID: "wf"}
	w.AddStep(schema.Step{ID: "s1", Name: "General", Fields: []schema.Field{
		{ID: "contract_period", Type: schema.FieldDateRange, Label: "Contract Period"},
	}})
	vals := values.Map{"contract_period": values.Range{Start: "2024-01-01", End: "2024-12-31"}}

	payload := reconcile.New().Payload(w, vals)
	want := map[string]any{"start": "2024-01-01", "end": "2024-12-31"}
	if diff := cmp.Diff(want, payload["contract_period"]); diff != "" {
		t.Fatalf("range payload (-want +got):\n%s", diff)
	}
}

func TestMatchField(t *testing.T) {
	w := schema.Workflow{ID: "wf"}
	w.AddStep(schema.Step{ID: "s1", Name: "General", Fields: []schema.Field{
		{ID: "company_name", Type: schema.FieldText, Label: "Company Name"},
		{ID: "email", Type: schema.FieldEmail, Label: "Primary Email"},
	}})

	cases := []struct {
		name  string
		label string
		want  string
		ok    bool
	}{
		{"company_name", "Company Name", "company_name", true},
		{"Company-Name", "", "company_name", true},
		{"primary_email", "", "email", true},
		{"", "Primary Email", "email", true},
		{"billing_primary_email", "", "email", true},
		{"unknown_field", "Unknown", "", false},
	}
	for _, tc := range cases {
		got, ok := reconcile.MatchField(w, tc.name, tc.label)
		if got != tc.want || ok != tc.ok {
			t.Errorf("MatchField(%q, %q) = (%q, %v), want (%q, %v)", tc.name, tc.label, got, ok, tc.want, tc.ok)
		}
	}
}
