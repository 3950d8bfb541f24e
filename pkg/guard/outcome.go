package guard

import (
	"strings"
)

// State is the lifecycle position of a form.
type State int32

const (
	StateIdle State = iota
	StateValidating
	StateAccepted
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateAccepted:
		return "accepted"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// FieldResult is the outcome of one field's rule.
type FieldResult struct {
	Name    string `json:"field"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
	// Skipped is set when no rule matched the field name.
	Skipped bool `json:"skipped,omitempty"`
}

// Outcome aggregates a full validation pass.
type Outcome struct {
	State  State
	Fields []FieldResult
}

// Accepted reports whether every field passed.
func (o Outcome) Accepted() bool {
	return o.State == StateAccepted
}

// Invalid returns the failing results in document order.
func (o Outcome) Invalid() []FieldResult {
	var out []FieldResult
	for _, field := range o.Fields {
		if !field.Valid {
			out = append(out, field)
		}
	}
	return out
}

// Errors groups failure messages by field name, trimming and dropping
// duplicates while preserving order. Fields sharing a name, such as a radio
// group, collapse into one entry. It returns nil when the form was accepted.
func (o Outcome) Errors() map[string][]string {
	var bag map[string][]string
	for _, field := range o.Fields {
		if field.Valid {
			continue
		}
		if bag == nil {
			bag = make(map[string][]string)
		}
		bag[field.Name] = append(bag[field.Name], field.Message)
	}
	for name, messages := range bag {
		bag[name] = normalizeMessages(messages)
	}
	return bag
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
