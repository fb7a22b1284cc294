package openapi_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-flowform/pkg/openapi"
	"github.com/goliatone/go-flowform/pkg/schema"
)

const companyDoc = `{
  "openapi": "3.0.3",
  "info": {"title": "Company API", "version": "1.0.0"},
  "paths": {
    "/api/companies": {
      "post": {
        "operationId": "createCompany",
        "summary": "Company Onboarding",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["company_name"],
                "properties": {
                  "company_name": {"type": "string", "maxLength": 120},
                  "contact_email": {"type": "string", "format": "email"},
                  "employee_count": {"type": "integer", "minimum": 1, "maximum": 50000},
                  "industry": {"type": "string", "enum": ["Logistics", "Retail", "Manufacturing"]},
                  "regions": {"type": "array", "items": {"type": "string", "enum": ["EMEA", "APAC"]}},
                  "is_active": {"type": "boolean"},
                  "address": {
                    "type": "object",
                    "required": ["country"],
                    "properties": {
                      "street": {"type": "string"},
                      "country": {"type": "string", "enum": ["France", "Germany"]}
                    }
                  }
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "created"}}
      }
    }
  }
}`

func TestImportBuildsWorkflowFromRequestBody(t *testing.T) {
	im := openapi.New()

	w, err := im.Import(context.Background(), []byte(companyDoc), "createCompany")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if w.Name != "Company Onboarding" {
		t.Errorf("Name = %q, want operation summary", w.Name)
	}
	if len(w.Steps) != 2 {
		t.Fatalf("steps = %d, want 2 (details + address)", len(w.Steps))
	}
	if w.Steps[0].Order != 1 || w.Steps[1].Order != 2 {
		t.Errorf("step orders = %d,%d, want contiguous from 1", w.Steps[0].Order, w.Steps[1].Order)
	}
	if w.Steps[1].Name != "Address" {
		t.Errorf("nested step name = %q, want %q", w.Steps[1].Name, "Address")
	}

	types := map[string]schema.FieldType{}
	required := map[string]bool{}
	for _, f := range w.AllFields() {
		types[f.ID] = f.Type
		required[f.ID] = f.Required
	}
	wantTypes := map[string]schema.FieldType{
		"company_name":    schema.FieldText,
		"contact_email":   schema.FieldEmail,
		"employee_count":  schema.FieldNumber,
		"industry":        schema.FieldSelect,
		"regions":         schema.FieldMultiselect,
		"is_active":       schema.FieldCheckbox,
		"address_street":  schema.FieldText,
		"address_country": schema.FieldSelect,
	}
	if diff := cmp.Diff(wantTypes, types); diff != "" {
		t.Errorf("field types mismatch (-want +got):\n%s", diff)
	}
	if !required["company_name"] || required["contact_email"] {
		t.Errorf("required flags wrong: %v", required)
	}
	if !required["address_country"] {
		t.Error("nested required list not honored for address_country")
	}

	country, ok := w.FieldByID("address_country")
	if !ok {
		t.Fatal("address_country not found")
	}
	if diff := cmp.Diff([]string{"France", "Germany"}, country.Options); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}

	count, _ := w.FieldByID("employee_count")
	if count.Validation == nil || count.Validation.Min == nil || *count.Validation.Min != 1 {
		t.Errorf("employee_count min = %+v, want 1", count.Validation)
	}
	name, _ := w.FieldByID("company_name")
	if name.Validation == nil || name.Validation.Max == nil || *name.Validation.Max != 120 {
		t.Errorf("company_name max length = %+v, want 120", name.Validation)
	}
}

func TestImportSingleBodyOperationNeedsNoID(t *testing.T) {
	im := openapi.New()

	w, err := im.Import(context.Background(), []byte(companyDoc), "")
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(w.AllFields()) == 0 {
		t.Fatal("expected fields from the only operation with a body")
	}
}

func TestImportUnknownOperation(t *testing.T) {
	im := openapi.New()

	if _, err := im.Import(context.Background(), []byte(companyDoc), "missingOp"); err == nil {
		t.Fatal("expected error for unknown operation id")
	}
}

func TestImportRejectsEmptyDocument(t *testing.T) {
	im := openapi.New()

	if _, err := im.Import(context.Background(), nil, ""); err == nil {
		t.Fatal("expected error for empty document")
	}
}
