package registry

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formguard/pkg/rules"
)

// Overrides adjusts a registry from a YAML document:
//
//	aliases:
//	  new_username: username
//	fields:
//	  grade_level:
//	    label: grade level
//	    choices: ["1", "2", "A-Level", "O-Level", "Other"]
//	  password:
//	    max_repeat: 3
//	  nickname:
//	    required: "Nickname is required."
type Overrides struct {
	Aliases map[string]string        `yaml:"aliases"`
	Fields  map[string]FieldOverride `yaml:"fields"`
}

// FieldOverride configures one field.
type FieldOverride struct {
	// Label names the field in the invalid choice message.
	Label string `yaml:"label"`
	// Choices restricts non-empty values to a closed set. It runs after the
	// field's existing rule.
	Choices []string `yaml:"choices"`
	// MaxRepeat enables the repeated-character check on password fields.
	MaxRepeat int `yaml:"max_repeat"`
	// Required registers a presence rule with this message for fields that
	// have no rule yet.
	Required string `yaml:"required"`
}

// LoadOverrides decodes overrides from r.
func LoadOverrides(r io.Reader) (Overrides, error) {
	var out Overrides
	if r == nil {
		return out, fmt.Errorf("registry: missing overrides reader")
	}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&out); err != nil {
		if err == io.EOF {
			return out, nil
		}
		return out, fmt.Errorf("registry: decode overrides: %w", err)
	}
	return out, nil
}

// LoadOverridesFile decodes overrides from a YAML file on disk.
func LoadOverridesFile(path string) (Overrides, error) {
	f, err := os.Open(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("registry: open overrides: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadOverrides(f)
}

// Apply installs the overrides into reg. Fields are applied in name order so
// the result does not depend on map iteration.
func (o Overrides) Apply(reg *Registry) error {
	if reg == nil {
		return fmt.Errorf("registry: nil registry")
	}
	for alias, target := range o.Aliases {
		if strings.TrimSpace(alias) == "" || strings.TrimSpace(target) == "" {
			return fmt.Errorf("registry: alias %q -> %q must name both fields", alias, target)
		}
		reg.Alias(alias, target)
	}

	names := make([]string, 0, len(o.Fields))
	for name := range o.Fields {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		override := o.Fields[name]
		if override.MaxRepeat < 0 {
			return fmt.Errorf("registry: field %q: max_repeat must not be negative", name)
		}

		existing, ok := reg.Lookup(name)
		if !ok && override.Required != "" {
			existing, ok = Sync(rules.Required(override.Required)), true
		}
		if override.MaxRepeat > 0 {
			if reg.Target(name) != "password" && name != "password" {
				return fmt.Errorf("registry: field %q: max_repeat only applies to password fields", name)
			}
			existing, ok = Sync(rules.PasswordWithMaxRepeat(override.MaxRepeat)), true
		}
		if len(override.Choices) > 0 {
			check := Sync(choiceCheck(override.Choices, labelFor(name, override.Label)))
			if ok {
				existing = existing.Then(check)
			} else {
				existing, ok = check, true
			}
		}
		if ok {
			reg.Register(name, existing)
		}
	}
	return nil
}

func choiceCheck(choices []string, label string) rules.Func {
	allowed := slices.Clone(choices)
	return func(field rules.Context) string {
		value := field.Value()
		if value == "" || slices.Contains(allowed, value) {
			return ""
		}
		return rules.MsgInvalidChoice(label)
	}
}

func labelFor(name, label string) string {
	if trimmed := strings.TrimSpace(label); trimmed != "" {
		return trimmed
	}
	return strings.ReplaceAll(name, "_", " ")
}
