package rules

import (
	"net/url"
	"strings"
)

// ValuesContext adapts a flat set of submitted values to Context. It backs
// validation that has no markup to read from, such as the per-field HTTP
// endpoint and terminal prompts.
type ValuesContext struct {
	Field  string
	Values url.Values
	Upload *FileInfo
}

var _ Context = ValuesContext{}

// Name returns the field name.
func (v ValuesContext) Name() string { return v.Field }

// Value returns the first submitted value for the field, trimmed.
func (v ValuesContext) Value() string {
	return strings.TrimSpace(v.Values.Get(v.Field))
}

// Sibling returns the first submitted value among names.
func (v ValuesContext) Sibling(names ...string) (string, bool) {
	for _, name := range names {
		if vals, ok := v.Values[name]; ok {
			if len(vals) == 0 {
				return "", true
			}
			return strings.TrimSpace(vals[0]), true
		}
	}
	return "", false
}

// Checked reports whether the field was submitted with a truthy value.
func (v ValuesContext) Checked() bool {
	switch strings.ToLower(v.Value()) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

// SelectedCount counts the non-empty values submitted for the field.
func (v ValuesContext) SelectedCount() int {
	count := 0
	for _, value := range v.Values[v.Field] {
		if strings.TrimSpace(value) != "" {
			count++
		}
	}
	return count
}

// File returns the attached upload, if any.
func (v ValuesContext) File() *FileInfo { return v.Upload }
