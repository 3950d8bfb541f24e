package guard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formguard/pkg/dom"
	"github.com/goliatone/go-formguard/pkg/feedback"
	"github.com/goliatone/go-formguard/pkg/registry"
	"github.com/goliatone/go-formguard/pkg/rules"
)

const (
	// DefaultSelector matches the forms AttachAll binds to.
	DefaultSelector = "form.needs-validation"
	// DefaultBannerDelay is how long a rejection banner stays in the page.
	DefaultBannerDelay = 5 * time.Second
	// MsgUnvalidated is reported for fields without a rule when the guard
	// fails closed.
	MsgUnvalidated = "This field cannot be validated."
)

var (
	// ErrFormNotFound is returned when a selector matches no form.
	ErrFormNotFound = errors.New("guard: form not found")
	// ErrSubmitInFlight is returned by Submit while another Submit on the same
	// form has not finished.
	ErrSubmitInFlight = errors.New("guard: submit already in flight")
	// ErrFieldNotAttached is returned by Blur for names that were not present
	// when the form was attached.
	ErrFieldNotAttached = errors.New("guard: field not attached")
)

// Timer is the handle returned by an AfterFunc.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules fn after d. It defaults to time.AfterFunc.
type AfterFunc func(d time.Duration, fn func()) Timer

func timeAfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Option customises a Guard.
type Option func(*Guard)

// WithRegistry sets the rule registry. Defaults to registry.Default().
func WithRegistry(reg *registry.Registry) Option {
	return func(g *Guard) {
		g.registry = reg
	}
}

// WithRenderer sets the annotation renderer. Defaults to a feedback.Renderer
// with Bootstrap classes.
func WithRenderer(renderer *feedback.Renderer) Option {
	return func(g *Guard) {
		g.renderer = renderer
	}
}

// WithLogger sets the logger used for configuration warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(g *Guard) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithBannerDelay overrides how long the rejection banner stays in the page.
func WithBannerDelay(d time.Duration) Option {
	return func(g *Guard) {
		if d > 0 {
			g.bannerDelay = d
		}
	}
}

// WithAfterFunc replaces the timer used to remove banners.
func WithAfterFunc(fn AfterFunc) Option {
	return func(g *Guard) {
		if fn != nil {
			g.afterFunc = fn
		}
	}
}

// WithFailClosed makes fields without a rule fail validation instead of
// passing with a warning.
func WithFailClosed() Option {
	return func(g *Guard) {
		g.failClosed = true
	}
}

// WithSelector overrides the selector AttachAll uses to find forms.
func WithSelector(selector string) Option {
	return func(g *Guard) {
		if trimmed := strings.TrimSpace(selector); trimmed != "" {
			g.selector = trimmed
		}
	}
}

// Guard holds the shared configuration for every attached form. It is safe
// for concurrent use.
type Guard struct {
	registry      *registry.Registry
	renderer      *feedback.Renderer
	logger        *zap.Logger
	bannerDelay   time.Duration
	afterFunc     AfterFunc
	failClosed    bool
	selector      string
	initialiseErr error
}

// New constructs a Guard. Missing dependencies are filled with the built-in
// registry and renderer; a renderer that fails to initialise surfaces from
// Attach.
func New(options ...Option) *Guard {
	g := &Guard{
		logger:      zap.NewNop(),
		bannerDelay: DefaultBannerDelay,
		afterFunc:   timeAfterFunc,
		selector:    DefaultSelector,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(g)
	}
	if g.registry == nil {
		g.registry = registry.Default(registry.WithLogger(g.logger))
	}
	if g.renderer == nil {
		renderer, err := feedback.New(
			feedback.WithLogger(g.logger),
			feedback.WithDismissAfter(g.bannerDelay),
		)
		if err != nil {
			g.initialiseErr = fmt.Errorf("guard: init renderer: %w", err)
		}
		g.renderer = renderer
	}
	return g
}

// Registry returns the rule registry in use.
func (g *Guard) Registry() *registry.Registry {
	return g.registry
}

// Classes returns the class set annotations are rendered with, so pages can
// hand the same set to the browser runtime.
func (g *Guard) Classes() feedback.Classes {
	if g.renderer == nil {
		return feedback.DefaultClasses()
	}
	return g.renderer.Classes()
}

// Selector returns the selector AttachAll uses.
func (g *Guard) Selector() string {
	return g.selector
}

// Attach binds the guard to the first form in doc matching selector. files
// carries uploads keyed by field name and may be nil. The set of fields Blur
// accepts is captured now; fields added to the tree later are only seen by
// full passes.
func (g *Guard) Attach(doc *dom.Document, selector string, files map[string]*rules.FileInfo) (*Form, error) {
	if g.initialiseErr != nil {
		return nil, g.initialiseErr
	}
	if doc == nil {
		return nil, errors.New("guard: document is required")
	}

	doc.Lock()
	el := doc.Query(selector)
	doc.Unlock()

	if el == nil {
		g.logger.Warn("form not found for selector", zap.String("selector", selector))
		return nil, fmt.Errorf("%w: %s", ErrFormNotFound, selector)
	}
	return g.attach(doc, el, files), nil
}

// AttachElement binds the guard to el, a form element that belongs to doc.
func (g *Guard) AttachElement(doc *dom.Document, el *dom.Element, files map[string]*rules.FileInfo) (*Form, error) {
	if g.initialiseErr != nil {
		return nil, g.initialiseErr
	}
	if doc == nil || el == nil {
		return nil, errors.New("guard: document and form are required")
	}
	if el.Document() != doc {
		return nil, errors.New("guard: form belongs to another document")
	}
	return g.attach(doc, el, files), nil
}

// AttachAll binds the guard to every form matching the configured selector.
func (g *Guard) AttachAll(doc *dom.Document, files map[string]*rules.FileInfo) ([]*Form, error) {
	if g.initialiseErr != nil {
		return nil, g.initialiseErr
	}
	if doc == nil {
		return nil, errors.New("guard: document is required")
	}

	doc.Lock()
	elements := doc.QueryAll(g.selector)
	doc.Unlock()

	forms := make([]*Form, 0, len(elements))
	for _, el := range elements {
		forms = append(forms, g.attach(doc, el, files))
	}
	return forms, nil
}

// Check runs the rule registered for field and returns its result without
// touching any markup. Fields without a rule pass and are marked Skipped
// unless the guard fails closed.
func (g *Guard) Check(ctx context.Context, field rules.Context) FieldResult {
	name := field.Name()
	rule, ok := g.registry.Lookup(name)
	if !ok {
		g.logger.Warn("no validator found for field", zap.String("field", name))
		if g.failClosed {
			return FieldResult{Name: name, Message: MsgUnvalidated}
		}
		return FieldResult{Name: name, Valid: true, Skipped: true}
	}

	message := rule.Evaluate(ctx, field)
	return FieldResult{Name: name, Valid: message == "", Message: message}
}
