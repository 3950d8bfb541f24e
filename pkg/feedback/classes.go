package feedback

import (
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formguard/pkg/dom"
)

// Theme tokens read by ClassesFromSelection.
const (
	TokenInvalid  = "formguard.invalid"
	TokenFeedback = "formguard.feedback"
	TokenGroup    = "formguard.group"
	TokenBanner   = "formguard.banner"
)

// Default* values follow Bootstrap's form validation markup.
const (
	DefaultInvalidClass  = "is-invalid"
	DefaultFeedbackClass = "invalid-feedback"
	DefaultGroupSelector = ".form-group, .mb-3"
	DefaultBannerClass   = "alert alert-danger alert-dismissible fade show"
)

// Classes holds the class names and selectors the renderer writes and
// searches for. Invalid, Feedback and Banner may list several classes; the
// first Feedback class identifies existing annotations.
type Classes struct {
	Invalid  string
	Feedback string
	Group    string
	Banner   string
}

// DefaultClasses returns the Bootstrap class set.
func DefaultClasses() Classes {
	return Classes{
		Invalid:  DefaultInvalidClass,
		Feedback: DefaultFeedbackClass,
		Group:    DefaultGroupSelector,
		Banner:   DefaultBannerClass,
	}
}

// ClassesFromSelection overlays theme tokens on the defaults. Variant tokens
// win over manifest tokens.
func ClassesFromSelection(selection *theme.Selection) Classes {
	classes := DefaultClasses()
	if selection == nil || selection.Manifest == nil {
		return classes
	}
	tokens := make(map[string]string, len(selection.Manifest.Tokens))
	for key, value := range selection.Manifest.Tokens {
		tokens[key] = value
	}
	if variant, ok := selection.Manifest.Variants[selection.Variant]; ok {
		for key, value := range variant.Tokens {
			tokens[key] = value
		}
	}
	return classes.WithTokens(tokens)
}

// WithTokens returns a copy of c with any non-empty token applied.
func (c Classes) WithTokens(tokens map[string]string) Classes {
	set := func(dst *string, key string) {
		if value := strings.TrimSpace(tokens[key]); value != "" {
			*dst = value
		}
	}
	set(&c.Invalid, TokenInvalid)
	set(&c.Feedback, TokenFeedback)
	set(&c.Group, TokenGroup)
	set(&c.Banner, TokenBanner)
	return c
}

// WithDefaults returns c with empty entries replaced by the Bootstrap
// defaults.
func (c Classes) WithDefaults() Classes {
	return c.normalized()
}

func (c Classes) normalized() Classes {
	defaults := DefaultClasses()
	if strings.TrimSpace(c.Invalid) == "" {
		c.Invalid = defaults.Invalid
	}
	if strings.TrimSpace(c.Feedback) == "" {
		c.Feedback = defaults.Feedback
	}
	if strings.TrimSpace(c.Group) == "" {
		c.Group = defaults.Group
	}
	if strings.TrimSpace(c.Banner) == "" {
		c.Banner = defaults.Banner
	}
	return c
}

// feedbackSelector matches annotation nodes by their first feedback class.
func (c Classes) feedbackSelector() string {
	return "." + dom.EscapeIdent(strings.Fields(c.Feedback)[0])
}

func (c Classes) invalidSelector() string {
	return "." + dom.EscapeIdent(strings.Fields(c.Invalid)[0])
}
