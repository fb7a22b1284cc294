package reconcile_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-flowform/pkg/reconcile"
	"github.com/goliatone/go-flowform/pkg/record"
	"github.com/goliatone/go-flowform/pkg/schema"
	"github.com/goliatone/go-flowform/pkg/values"
)

func countryWorkflow() schema.Workflow {
	w := schema.Workflow{ID: "wf"}
	w.AddStep(schema.Step{ID: "s1", Name: "General Information", Fields: []schema.Field{
		{ID: "general_country", Type: schema.FieldText, Label: "Country"},
	}})
	w.AddStep(schema.Step{ID: "s2", Name: "Addresses", Fields: []schema.Field{
		{ID: "addr_country", Type: schema.FieldText, Label: "Country"},
	}})
	return w
}

func TestMergeCountryHeuristic_AddressKeyOnly(t *testing.T) {
	rec := record.FromMap(map[string]any{"address_country": "Germany"})
	engine := reconcile.New()

	got, report := engine.Merge(countryWorkflow(), rec, nil)

	want := values.Map{"general_country": "Germany", "addr_country": "Germany"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merged values mismatch (-want +got):\n%s", diff)
	}
	for _, id := range []string{"general_country", "addr_country"} {
		res := report.Resolutions[id]
		if res.Strategy != reconcile.StrategyCountry || res.SourceKey != "address_country" {
			t.Errorf("%s resolved via %s/%s, want country/address_country", id, res.Strategy, res.SourceKey)
		}
	}
}

func TestMergeCountryHeuristic_StepContextPreference(t *testing.T) {
	rec := record.FromMap(map[string]any{
		"address_country": "Germany",
		"country":         "France",
	})
	engine := reconcile.New()

	got, report := engine.Merge(countryWorkflow(), rec, nil)

	want := values.Map{"general_country": "France", "addr_country": "Germany"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merged values mismatch (-want +got):\n%s", diff)
	}
	if key := report.Resolutions["general_country"].SourceKey; key != "country" {
		t.Errorf("general field sourced from %q, want country", key)
	}
	if key := report.Resolutions["addr_country"].SourceKey; key != "address_country" {
		t.Errorf("address field sourced from %q, want address_country", key)
	}
}

func TestMergeFlatIDOutranksCountryKey(t *testing.T) {
	// a flat key equal to the field's own id wins over the bare country key
	rec := record.FromMap(map[string]any{
		"general_country": "Spain",
		"country":         "France",
	})

	got, report := reconcile.New().Merge(countryWorkflow(), rec, nil)

	if got["general_country"] != "Spain" {
		t.Fatalf("general_country = %v, want Spain via id-keyed flat match", got["general_country"])
	}
	res := report.Resolutions["general_country"]
	if res.Strategy != reconcile.StrategyFlat || res.SourceKey != "general_country" {
		t.Errorf("resolved via %s/%s, want flat/general_country", res.Strategy, res.SourceKey)
	}
	// the address field has no id-keyed value and still falls to the ladder
	if got["addr_country"] != "France" {
		t.Fatalf("addr_country = %v, want France", got["addr_country"])
	}
}

func TestMergeExactIDWithNumericCoercion(t *testing.T) {
	w := schema.Workflow{ID: "wf"}
	w.AddStep(schema.Step{ID: "s1", Name: "Matching", Fields: []schema.Field{
		{ID: "po_match_tol_percent", Type: schema.FieldNumber, Label: "PO Match Tolerance"},
	}})

	rec := record.FromMap(map[string]any{
		"steps": []any{
			map[string]any{"name": "Matching", "fields": []any{
				map[string]any{"field_id": "po_match_tol_percent", "name": "po_match_tol_percent", "value": "12.5"},
			}},
		},
	})

	engine := reconcile.New()
	got, report := engine.Merge(w, rec, nil)

	if v := got["po_match_tol_percent"]; v != 12.5 {
		t.Fatalf("value = %v (%T), want 12.5", v, v)
	}
	if s := report.Resolutions["po_match_tol_percent"].Strategy; s != reconcile.StrategyExactID {
		t.Errorf("strategy = %s, want exact_id", s)
	}
}

func TestMergeUnparseableNumberStaysUnset(t *testing.T) {
	w := schema.Workflow{ID: "wf"}
	w.AddStep(schema.Step{ID: "s1", Name: "Matching", Fields: []schema.Field{
		{ID: "po_match_tol_percent", Type: schema.FieldNumber, Label: "PO Match Tolerance"},
	}})
	rec := record.FromMap(map[string]any{"po_match_tol_percent": "abc"})

	got, _ := reconcile.New().Merge(w, rec, nil)
	if _, ok := got.Get("po_match_tol_percent"); ok {
		t.Fatalf("expected field to stay unset, got %v", got["po_match_tol_percent"])
	}
}

func TestCoerceRules(t *testing.T) {
	cases := []struct {
		name string
		t    schema.FieldType
		in   any
		want any
	}{
		{"checkbox true string", schema.FieldCheckbox, "true", true},
		{"checkbox nil", schema.FieldCheckbox, nil, false},
		{"switch number", schema.FieldSwitch, 1, true},
		{"number string", schema.FieldNumber, "12.5", 12.5},
		{"number bad", schema.FieldNumber, "abc", ""},
		{"number nil", schema.FieldNumber, nil, ""},
		{"slider int", schema.FieldSlider, 3, 3.0},
		{"text number", schema.FieldText, 42, "42"},
		{"text nil", schema.FieldText, nil, ""},
		{"daterange map", schema.FieldDateRange, map[string]any{"start": "2024-01-01", "end": "2024-02-01"},
			values.Range{Start: "2024-01-01", End: "2024-02-01"}},
	}
	for _, tc := range cases {
		if got := reconcile.Coerce(tc.t, tc.in); !cmp.Equal(tc.want, got) {
			t.Errorf("%s: Coerce = %v (%T), want %v", tc.name, got, got, tc.want)
		}
	}
}

func TestMergeIdempotenceAndNoRegression(t *testing.T) {
	w := schema.Workflow{ID: "wf"}
	w.AddStep(schema.Step{ID: "s1", Name: "General", Fields: []schema.Field{
		{ID: "company_name", Type: schema.FieldText, Label: "Company Name"},
		{ID: "city", Type: schema.FieldText, Label: "City"},
	}})
	rec := record.FromMap(map[string]any{"company_name": "Acme", "city": "Hamburg"})
	engine := reconcile.New()

	once, _ := engine.Merge(w, rec, nil)
	twice, _ := engine.Merge(w, rec, once)
	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("second merge changed values (-once +twice):\n%s", diff)
	}

	// an explicitly-set value wins over a freshly recomputed one
	preset := values.Map{"city": "Berlin"}
	got, report := engine.Merge(w, rec, preset)
	if got["city"] != "Berlin" {
		t.Fatalf("city = %v, want preset Berlin", got["city"])
	}
	if report.Resolved("city") {
		t.Error("preset field should not appear in the report")
	}
	if got["company_name"] != "Acme" {
		t.Fatalf("company_name = %v, want Acme", got["company_name"])
	}
}

func TestMergeLeavesReceiverUntouched(t *testing.T) {
	w := schema.Workflow{ID: "wf"}
	w.AddStep(schema.Step{ID: "s1", Name: "General", Fields: []schema.Field{
		{ID: "city", Type: schema.FieldText, Label: "City"},
	}})
	rec := record.FromMap(map[string]any{"city": "Hamburg"})

	into := values.Map{}
	got, _ := reconcile.New().Merge(w, rec, into)
	if len(into) != 0 {
		t.Fatal("Merge mutated its input map")
	}
	if got["city"] != "Hamburg" {
		t.Fatalf("city = %v", got["city"])
	}
}

func TestWordBoundaryGuards(t *testing.T) {
	w := schema.Workflow{ID: "wf"}
	w.AddStep(schema.Step{ID: "s1", Name: "Contacts", Fields: []schema.Field{
		{ID: "contact_phone", Type: schema.FieldPhone, Label: "Phone"},
	}})

	// phone_number contains "phone" only as a leading word; the qualified key
	// must not satisfy the label, while office_phone must.
	rec := record.FromMap(map[string]any{"phone_number": "+111"})
	got, _ := reconcile.New().Merge(w, rec, nil)
	if _, ok := got.Get("contact_phone"); ok {
		t.Fatalf("phone_number should not satisfy label Phone, got %v", got["contact_phone"])
	}

	rec = record.FromMap(map[string]any{"office_phone": "+222"})
	got, _ = reconcile.New().Merge(w, rec, nil)
	if got["contact_phone"] != "+222" {
		t.Fatalf("office_phone should satisfy label Phone, got %v", got["contact_phone"])
	}
}

func TestMergeNestedLabelAndSuffixStrategies(t *testing.T) {
	w := schema.Workflow{ID: "wf"}
	w.AddStep(schema.Step{ID: "s1", Name: "General", Fields: []schema.Field{
		{ID: "f_email", Type: schema.FieldEmail, Label: "Primary Email"},
		{ID: "f_vat", Type: schema.FieldText, Label: "VAT Number"},
	}})

	rec := record.FromMap(map[string]any{
		"steps": []any{
			map[string]any{"name": "General", "fields": []any{
				map[string]any{"name": "primary_email", "value": "a@b.com"},
				map[string]any{"name": "company_vat_number", "value": "DE123"},
			}},
		},
	})

	got, report := reconcile.New().Merge(w, rec, nil)
	if got["f_email"] != "a@b.com" {
		t.Fatalf("f_email = %v", got["f_email"])
	}
	if s := report.Resolutions["f_email"].Strategy; s != reconcile.StrategyLabel {
		t.Errorf("f_email strategy = %s, want label", s)
	}
	if got["f_vat"] != "DE123" {
		t.Fatalf("f_vat = %v", got["f_vat"])
	}
	if s := report.Resolutions["f_vat"].Strategy; s != reconcile.StrategySuffix {
		t.Errorf("f_vat strategy = %s, want suffix", s)
	}
}
