package openapi

import (
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cast"

	"github.com/goliatone/go-flowform/pkg/schema"
)

func buildField(id, name string, src *openapi3.Schema, required []string) schema.Field {
	f := schema.Field{
		ID:       schema.Normalize(id),
		Label:    humanize(name),
		Type:     fieldType(src),
		Required: contains(required, name),
	}
	if f.HasOptions() {
		f.Options = enumOptions(src)
	}
	if v := validation(src); v != nil {
		f.Validation = v
	}
	return f
}

func fieldType(src *openapi3.Schema) schema.FieldType {
	switch firstType(src.Type) {
	case "boolean":
		return schema.FieldCheckbox
	case "integer", "number":
		if len(src.Enum) > 0 {
			return schema.FieldSelect
		}
		return schema.FieldNumber
	case "array":
		if src.Items != nil && src.Items.Value != nil && len(src.Items.Value.Enum) > 0 {
			return schema.FieldMultiselect
		}
		// free-form arrays have no closed option list to offer
		return schema.FieldTextarea
	case "string", "":
		if len(src.Enum) > 0 {
			return schema.FieldSelect
		}
		switch src.Format {
		case "email":
			return schema.FieldEmail
		case "uri", "url":
			return schema.FieldURL
		case "date":
			return schema.FieldDate
		case "time":
			return schema.FieldTime
		case "date-time":
			return schema.FieldDate
		case "binary", "byte":
			return schema.FieldFile
		case "phone", "tel":
			return schema.FieldPhone
		case "color":
			return schema.FieldColor
		}
		if src.MaxLength != nil && *src.MaxLength > 255 {
			return schema.FieldTextarea
		}
		return schema.FieldText
	default:
		return schema.FieldText
	}
}

// enumOptions renders enum members as display strings; select options are
// string-valued in workflow schemas regardless of the wire type.
func enumOptions(src *openapi3.Schema) []string {
	var members []any
	if len(src.Enum) > 0 {
		members = src.Enum
	} else if src.Items != nil && src.Items.Value != nil {
		members = src.Items.Value.Enum
	}
	out := make([]string, 0, len(members))
	for _, m := range members {
		s := cast.ToString(m)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func validation(src *openapi3.Schema) *schema.Validation {
	var v schema.Validation
	set := false
	if src.Min != nil {
		value := *src.Min
		v.Min = &value
		set = true
	}
	if src.Max != nil {
		value := *src.Max
		v.Max = &value
		set = true
	}
	// string length bounds share the Min/Max slots
	if v.Min == nil && src.MinLength != 0 {
		value := float64(src.MinLength)
		v.Min = &value
		set = true
	}
	if v.Max == nil && src.MaxLength != nil {
		value := float64(*src.MaxLength)
		v.Max = &value
		set = true
	}
	if src.Pattern != "" {
		v.Pattern = src.Pattern
		set = true
	}
	if !set {
		return nil
	}
	return &v
}

func firstType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func isObject(src *openapi3.Schema) bool {
	return firstType(src.Type) == "object" || (firstType(src.Type) == "" && len(src.Properties) > 0)
}

func sortedProperties(src *openapi3.Schema) []string {
	names := make([]string, 0, len(src.Properties))
	for name := range src.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func humanize(name string) string {
	words := schema.SplitKey(schema.Normalize(name))
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
