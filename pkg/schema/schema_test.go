package schema_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-flowform/pkg/schema"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Country", "country"},
		{"Primary Email", "primary_email"},
		{"  PO / Match-Tol (%) ", "po_match_tol"},
		{"address_country", "address_country"},
		{"__weird__key__", "weird_key"},
		{"", ""},
		{"---", ""},
		{"Company Name", "company_name"},
	}
	for _, tc := range cases {
		if got := schema.Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func buildWorkflow() schema.Workflow {
	w := schema.Workflow{ID: "wf-1", Name: "Onboarding"}
	w.AddStep(schema.Step{ID: "s1", Name: "General Information", Fields: []schema.Field{
		{ID: "company_name", Type: schema.FieldText, Label: "Company Name", Required: true},
	}})
	w.AddStep(schema.Step{ID: "s2", Name: "Addresses", Fields: []schema.Field{
		{ID: "city", Type: schema.FieldText, Label: "City"},
	}})
	w.AddStep(schema.Step{ID: "s3", Name: "Review", Fields: []schema.Field{
		{ID: "notes", Type: schema.FieldTextarea, Label: "Notes"},
	}})
	return w
}

func stepOrders(w schema.Workflow) []int {
	out := make([]int, len(w.Steps))
	for i, s := range w.Steps {
		out[i] = s.Order
	}
	return out
}

func TestRenumberAfterMutations(t *testing.T) {
	w := buildWorkflow()

	if diff := cmp.Diff([]int{1, 2, 3}, stepOrders(w)); diff != "" {
		t.Fatalf("orders after add (-want +got):\n%s", diff)
	}

	if !w.RemoveStep("s2") {
		t.Fatal("expected s2 to be removed")
	}
	if diff := cmp.Diff([]int{1, 2}, stepOrders(w)); diff != "" {
		t.Fatalf("orders after remove (-want +got):\n%s", diff)
	}

	w.InsertStep(0, schema.Step{ID: "s4", Name: "Welcome"})
	if err := w.MoveStep(0, 2); err != nil {
		t.Fatalf("move step: %v", err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, stepOrders(w)); diff != "" {
		t.Fatalf("orders after insert+move (-want +got):\n%s", diff)
	}
	if w.Steps[2].ID != "s4" {
		t.Fatalf("expected s4 at tail, got %s", w.Steps[2].ID)
	}

	if err := w.MoveStep(0, 9); err == nil {
		t.Fatal("expected out-of-range move to fail")
	}
}

func TestValidateRejectsDuplicateFieldIDs(t *testing.T) {
	w := buildWorkflow()
	if err := w.AddField("s3", schema.Field{ID: "company_name", Type: schema.FieldText, Label: "Company"}); err != nil {
		t.Fatalf("add field: %v", err)
	}
	if err := w.Validate(); err == nil {
		t.Fatal("expected duplicate field id to be rejected")
	}
}

func TestValidateRejectsOptionlessSelect(t *testing.T) {
	w := buildWorkflow()
	if err := w.AddField("s1", schema.Field{ID: "tier", Type: schema.FieldSelect, Label: "Tier"}); err != nil {
		t.Fatalf("add field: %v", err)
	}
	if err := w.Validate(); err == nil {
		t.Fatal("expected select without options to be rejected")
	}
}

func TestParseJSONAndYAML(t *testing.T) {
	jsonDoc := []byte(`{
		"id": "wf-json",
		"name": "From <b>JSON</b>",
		"isActive": true,
		"steps": [
			{"id": "s1", "name": "Only", "order": 1, "fields": [
				{"id": "email", "type": "email", "label": "Primary Email", "required": true}
			]}
		]
	}`)
	w, err := schema.Parse(jsonDoc)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	if w.Name != "From JSON" {
		t.Errorf("expected sanitized name, got %q", w.Name)
	}
	if !w.IsActive || len(w.Steps) != 1 {
		t.Fatalf("unexpected workflow: %+v", w)
	}

	yamlDoc := []byte(`
id: wf-yaml
name: From YAML
steps:
  - id: s1
    name: Only
    order: 1
    fields:
      - id: tier
        type: select
        label: Tier
        options: [Bronze, Silver, Gold]
`)
	w, err = schema.Parse(yamlDoc)
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	field, ok := w.FieldByID("tier")
	if !ok {
		t.Fatal("tier field missing")
	}
	if diff := cmp.Diff([]string{"Bronze", "Silver", "Gold"}, field.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsBrokenOrder(t *testing.T) {
	doc := []byte(`{"id":"wf","name":"x","steps":[{"id":"s1","name":"a","order":2,"fields":[]}]}`)
	if _, err := schema.Parse(doc); err == nil {
		t.Fatal("expected non-contiguous order to be rejected")
	}
}
