package wizard

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/spf13/cast"

	"github.com/goliatone/go-flowform/pkg/schema"
	"github.com/goliatone/go-flowform/pkg/values"
)

// validateField evaluates the local rules for one field: required presence,
// per-type format (email/url syntax, numeric parseability), numeric min/max,
// regex pattern, accept list, and option membership. Messages are
// user-facing; the empty slice means the field passes.
func validateField(field schema.Field, v any) []string {
	label := field.Label
	if label == "" {
		label = field.ID
	}

	if values.IsEmpty(v) {
		if field.Required {
			return []string{fmt.Sprintf("%s is required", label)}
		}
		return nil
	}

	var errs []string
	rules := field.Validation

	switch field.Type {
	case schema.FieldEmail:
		if s := cast.ToString(v); !validEmail(s) {
			errs = append(errs, fmt.Sprintf("%s must be a valid email address", label))
		}
	case schema.FieldURL:
		if s := cast.ToString(v); !validURL(s) {
			errs = append(errs, fmt.Sprintf("%s must be a valid URL", label))
		}
	case schema.FieldNumber, schema.FieldSlider, schema.FieldRating:
		n, err := cast.ToFloat64E(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s must be a number", label))
			break
		}
		if rules != nil && rules.Min != nil && n < *rules.Min {
			errs = append(errs, fmt.Sprintf("%s must be at least %v", label, *rules.Min))
		}
		if rules != nil && rules.Max != nil && n > *rules.Max {
			errs = append(errs, fmt.Sprintf("%s must be at most %v", label, *rules.Max))
		}
	case schema.FieldFile:
		if rules != nil && len(rules.Accept) > 0 {
			for _, name := range fileNames(v) {
				if !accepted(name, rules.Accept) {
					errs = append(errs, fmt.Sprintf("%s does not accept %q", label, name))
				}
			}
		}
	}

	if rules != nil && rules.Pattern != "" {
		if s, ok := v.(string); ok {
			re, err := regexp.Compile(rules.Pattern)
			if err == nil && !re.MatchString(s) {
				errs = append(errs, fmt.Sprintf("%s has an invalid format", label))
			}
		}
	}

	if field.HasOptions() {
		errs = append(errs, validateOptions(field, label, v)...)
	}
	return errs
}

func validateOptions(field schema.Field, label string, v any) []string {
	member := func(s string) bool {
		for _, opt := range field.Options {
			if opt == s {
				return true
			}
		}
		return false
	}

	switch t := v.(type) {
	case string:
		if !member(t) {
			return []string{fmt.Sprintf("%s must be one of the listed options", label)}
		}
	case []string:
		for _, item := range t {
			if !member(item) {
				return []string{fmt.Sprintf("%s contains a value that is not a listed option", label)}
			}
		}
	}
	return nil
}

// validEmail accepts the local@domain.tld shape without trying to ratify the
// full address grammar; the server remains the authority.
func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if local == "" || domain == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

func validURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func fileNames(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []string:
		return t
	default:
		return nil
	}
}

// accepted matches a file name against the accept list: ".pdf" style
// extensions, "image/png" exact MIME entries, and "image/*" wildcards.
func accepted(name string, accept []string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, entry := range accept {
		rule := strings.ToLower(strings.TrimSpace(entry))
		switch {
		case rule == "":
			continue
		case strings.HasPrefix(rule, "."):
			if strings.HasSuffix(lower, rule) {
				return true
			}
		case strings.HasSuffix(rule, "/*"):
			if strings.HasPrefix(lower, strings.TrimSuffix(rule, "*")) {
				return true
			}
		default:
			if lower == rule {
				return true
			}
		}
	}
	return false
}
