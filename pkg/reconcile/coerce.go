package reconcile

import (
	"github.com/spf13/cast"

	"github.com/goliatone/go-flowform/pkg/schema"
	"github.com/goliatone/go-flowform/pkg/values"
)

// Coerce converts whatever the record held into the value shape the field
// type expects: checkbox/switch become booleans (nil is false), number/slider
// become float64 with unparseable input collapsing to the empty string,
// daterange becomes a Range, multiselect keeps slices as string slices, and
// everything else becomes a string with nil collapsing to "".
func Coerce(t schema.FieldType, raw any) any {
	switch t {
	case schema.FieldCheckbox, schema.FieldSwitch:
		return cast.ToBool(raw)
	case schema.FieldNumber, schema.FieldSlider:
		if raw == nil {
			return ""
		}
		n, err := cast.ToFloat64E(raw)
		if err != nil {
			return ""
		}
		return n
	case schema.FieldDateRange:
		return coerceRange(raw)
	case schema.FieldMultiselect:
		switch raw.(type) {
		case []any, []string:
			out, err := cast.ToStringSliceE(raw)
			if err != nil {
				return ""
			}
			return out
		}
		if raw == nil {
			return ""
		}
		return cast.ToString(raw)
	default:
		if raw == nil {
			return ""
		}
		return cast.ToString(raw)
	}
}

func coerceRange(raw any) any {
	switch t := raw.(type) {
	case nil:
		return ""
	case values.Range:
		return t
	case *values.Range:
		if t == nil {
			return ""
		}
		return *t
	case map[string]any:
		return values.Range{
			Start: cast.ToString(t["start"]),
			End:   cast.ToString(t["end"]),
		}
	default:
		return cast.ToString(raw)
	}
}
