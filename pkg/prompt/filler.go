package prompt

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/pkg/guard"
	"github.com/goliatone/go-formguard/pkg/rules"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits a JSON object of value lists.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded text.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits one "name: value" line per field.
	OutputFormatPrettyText OutputFormat = "pretty"
)

const defaultMaxAttempts = 3

// Theme captures optional prefixes for messages the filler prints.
type Theme struct {
	ErrorPrefix string
}

// Option configures a Filler.
type Option func(*Filler)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(f *Filler) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// WithGuard sets the guard whose rules check each answer.
func WithGuard(g *guard.Guard) Option {
	return func(f *Filler) {
		if g != nil {
			f.guard = g
		}
	}
}

// WithMaxAttempts bounds how often a failing field is asked again.
func WithMaxAttempts(n int) Option {
	return func(f *Filler) {
		if n > 0 {
			f.maxAttempts = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Filler) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(f *Filler) {
		f.theme = theme
	}
}

// Filler asks for each field in turn and re-asks until the field's rule
// accepts the answer. Rules see every answer collected so far, so
// confirmation and role-dependent fields must come after the fields they
// read.
type Filler struct {
	driver      PromptDriver
	guard       *guard.Guard
	logger      *zap.Logger
	maxAttempts int
	theme       Theme
}

// New constructs a Filler. The survey driver and a default guard are used
// unless overridden.
func New(opts ...Option) *Filler {
	f := &Filler{
		logger:      zap.NewNop(),
		maxAttempts: defaultMaxAttempts,
		theme:       Theme{ErrorPrefix: "✗ "},
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.driver == nil {
		f.driver = NewSurveyDriver(nil)
	}
	if f.guard == nil {
		f.guard = guard.New(guard.WithLogger(f.logger))
	}
	return f
}

// Fill prompts for every field and returns the accepted answers.
func (f *Filler) Fill(ctx context.Context, fields []Field) (url.Values, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	values := url.Values{}
	for _, field := range fields {
		if err := f.fillField(ctx, field, values); err != nil {
			return values, err
		}
	}
	return values, nil
}

func (f *Filler) fillField(ctx context.Context, field Field, values url.Values) error {
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		answer, err := f.ask(ctx, field)
		if err != nil {
			return fmt.Errorf("prompt: %s: %w", field.Name, err)
		}
		values[field.Name] = answer

		result := f.guard.Check(ctx, rules.ValuesContext{Field: field.Name, Values: values})
		if result.Valid {
			return nil
		}
		f.logger.Debug("answer rejected", zap.String("field", field.Name), zap.Int("attempt", attempt))
		if err := f.driver.Info(ctx, f.theme.ErrorPrefix+result.Message); err != nil {
			return err
		}
	}
	return fmt.Errorf("%w: %s", ErrTooManyAttempts, field.Name)
}

func (f *Filler) ask(ctx context.Context, field Field) ([]string, error) {
	switch field.Kind {
	case KindPassword:
		answer, err := f.driver.Password(ctx, InputConfig{Message: field.message()})
		return []string{answer}, err
	case KindConfirm:
		yes, err := f.driver.Confirm(ctx, ConfirmConfig{Message: field.message()})
		if err != nil || !yes {
			return nil, err
		}
		value := field.Default
		if value == "" {
			value = "on"
		}
		return []string{value}, nil
	case KindSelect:
		idx, err := f.driver.Select(ctx, SelectConfig{
			Message:      field.message(),
			Options:      choiceLabels(field.Choices),
			DefaultIndex: -1,
		})
		if err != nil || idx < 0 || idx >= len(field.Choices) {
			return []string{""}, err
		}
		return []string{field.Choices[idx].Value}, nil
	case KindMultiSelect:
		picked, err := f.driver.MultiSelect(ctx, SelectConfig{
			Message: field.message(),
			Options: choiceLabels(field.Choices),
		})
		if err != nil {
			return nil, err
		}
		out := make([]string, 0, len(picked))
		for _, idx := range picked {
			if idx >= 0 && idx < len(field.Choices) {
				out = append(out, field.Choices[idx].Value)
			}
		}
		return out, nil
	case KindTextArea:
		answer, err := f.driver.TextArea(ctx, TextAreaConfig{Message: field.message(), Default: field.Default})
		return []string{answer}, err
	default:
		answer, err := f.driver.Input(ctx, InputConfig{Message: field.message(), Default: field.Default})
		return []string{answer}, err
	}
}

func choiceLabels(choices []Choice) []string {
	out := make([]string, len(choices))
	for i, choice := range choices {
		out[i] = choice.Label
		if out[i] == "" {
			out[i] = choice.Value
		}
	}
	return out
}

// Encode serializes collected values. Names listed in secret are masked in
// the pretty format.
func Encode(values url.Values, format OutputFormat, secret ...string) ([]byte, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		hidden := make(map[string]struct{}, len(secret))
		for _, name := range secret {
			hidden[name] = struct{}{}
		}
		names := make([]string, 0, len(values))
		for name := range values {
			names = append(names, name)
		}
		sort.Strings(names)
		var b strings.Builder
		for _, name := range names {
			value := strings.Join(values[name], ", ")
			if _, ok := hidden[name]; ok {
				value = "********"
			}
			fmt.Fprintf(&b, "%s: %s\n", name, value)
		}
		return []byte(b.String()), nil
	case OutputFormatJSON, "":
		return json.MarshalIndent(values, "", "  ")
	default:
		return nil, fmt.Errorf("prompt: unknown output format %q", format)
	}
}

// SecretNames returns the names of password fields.
func SecretNames(fields []Field) []string {
	var out []string
	for _, field := range fields {
		if field.Kind == KindPassword {
			out = append(out, field.Name)
		}
	}
	return out
}
